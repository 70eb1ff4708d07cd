// Package database provides SQLite persistence for CareBed Core.
//
// It wraps database/sql with lifecycle management (directory creation,
// WAL mode, busy timeout, restricted file permissions) and an embedded
// migrations runner.
//
// # Usage
//
//	db, err := database.Open(database.Config{Path: "./data/carebed.db", WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migration files are embedded by the top-level migrations package and
// follow the naming scheme YYYYMMDD_HHMMSS_description.up.sql.
package database
