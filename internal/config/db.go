package config

import "time"

// Supported user store drivers.
const (
	DBDriverMongo    = "mongo"
	DBDriverMySQL    = "mysql"
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Driver   string        // mongo, mysql, postgres or sqlite
	Extras   string        // extra DSN parameters
	Host     string
	Port     int
	User     string
	Password string
	Name     string        // database name, file path for sqlite
	URL      string        // host[:port][/db] of the document store, overrides Host/Port
	Timeout  time.Duration // per call timeout for store operations

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}
