package telemetry

import "database/sql"

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS decisions (
            timestamp INTEGER NOT NULL,
            domain TEXT NOT NULL,
            reading REAL,
            has_reading INTEGER,
            stale INTEGER,
            level INTEGER,
            arbitrated_level INTEGER,
            applied INTEGER,
            PRIMARY KEY (timestamp, domain)
        )
    `)

	return err
}
