package db

import "database/sql"

// DBProvider is an interface for database clients that expose a sql.DB
// handle. PostgresClient and SupabaseClient are interchangeable behind it.
type DBProvider interface {
	DB() *sql.DB
}
