// Package config handles loading and validating IntelliPark Core
// configuration.
//
// Values are resolved in three layers: built-in defaults, then the YAML
// file, then INTELLIPARK_* environment variables. Validate reports every
// problem found rather than stopping at the first.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	delays := cfg.Lot.Delays.Gate()
//
// Secrets (MQTT password, InfluxDB token) should be supplied through the
// environment rather than the file.
package config
