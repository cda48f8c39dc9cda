// Package mqtt wraps the paho MQTT client for IntelliPark Core.
//
// The gate publishes its state to field displays and listens for physical
// trigger buttons over MQTT. This package owns the broker connection:
//
//   - connect with auto-reconnect and a retained Last Will on the system
//     status topic, so subscribers see "offline" if the process dies
//   - validated Publish and Subscribe with a payload size cap
//   - subscriptions remembered and restored after every reconnect
//   - handler panics recovered and logged
//
// Topic layout (prefix configurable, default "intellipark"):
//
//	{prefix}/gate/state             retained gate snapshot
//	{prefix}/lot/stats              retained occupancy counts
//	{prefix}/system/status          retained online/offline (LWT)
//	{prefix}/command/scene/{id}     scene trigger requests
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishRetained(client.Topics().GateState(), payload)
package mqtt
