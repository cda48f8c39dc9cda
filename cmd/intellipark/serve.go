package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/intellipark-core/internal/api"
	"github.com/nerrad567/intellipark-core/internal/gatebus"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/config"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/logging"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/intellipark-core/internal/scene"
)

func newServeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gate service with its HTTP API, MQTT bridge and telemetry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, log)
		},
	}
}

// serve runs until ctx is cancelled.
//
// Parameters:
//   - ctx: Context cancelled on shutdown signals
//   - cfg: Loaded configuration
//   - log: Configured logger
//
// Returns:
//   - error: nil on clean shutdown, or error describing a startup failure
func serve(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	log.Info("starting IntelliPark Core",
		"version", version,
		"commit", commit,
		"build_date", date,
		"site", cfg.Site.ID,
	)

	// InfluxDB (optional)
	var telemetry scene.Telemetry
	if cfg.InfluxDB.Enabled {
		influxClient, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		telemetry = influxdb.NewRecorder(influxClient, cfg.Site.ID)
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	} else {
		log.Info("InfluxDB disabled")
	}

	eng, cleanup, err := buildEngine(ctx, cfg, log, telemetry)
	if err != nil {
		return err
	}
	defer cleanup()

	// WebSocket hub
	hub := api.NewHub(cfg.WebSocket, log.Component("websocket"))
	go hub.Run(ctx)
	eng.orchestrator.AddBroadcaster(hub)
	defer eng.scheduler.Subscribe(hub.OnGate)()

	apiDeps := api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log.Component("api"),
		Scenes:  eng.orchestrator,
		Backend: eng.backend,
		Hub:     hub,
		Version: version,
	}
	if eng.db != nil {
		apiDeps.DB = eng.db
	}

	// MQTT (optional)
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log.Component("mqtt"))
		apiDeps.MQTT = mqttClient

		bus := gatebus.New(mqttClient, mqttClient.Topics(), byte(cfg.MQTT.QoS), eng.orchestrator, log.Component("gatebus"))
		go bus.Run(ctx)
		eng.orchestrator.AddBroadcaster(bus)
		defer eng.scheduler.Subscribe(bus.OnGate)()
		if subErr := bus.Subscribe(ctx); subErr != nil {
			log.Warn("scene commands over MQTT unavailable", "error", subErr)
		}
		bus.OnGate(eng.scheduler.Snapshot())
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	server, err := api.New(apiDeps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	go eng.orchestrator.RunRefresher(ctx, cfg.GetRefreshInterval())

	log.Info("IntelliPark Core started",
		"api", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"scenes", eng.orchestrator.Catalog().Len(),
		"total_spots", cfg.Lot.TotalSpots,
	)

	<-ctx.Done()
	log.Info("shutdown signal received")

	eng.scheduler.Cancel()
	eng.orchestrator.Wait()

	log.Info("IntelliPark Core stopped")
	return nil
}
