// Package database provides SQLite connectivity for IntelliPark Core.
//
// The dashboard keeps a local copy of the last session list it received
// from the backend so that a restart can draw the lot before the backend
// answers. This package owns the connection and the schema; the snapshot
// store itself lives in the parking package.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with an
// optional matching .down.sql, and are applied in version order, each in
// its own transaction.
package database
