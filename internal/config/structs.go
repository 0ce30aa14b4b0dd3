package config

import (
	"time"

	"github.com/gatehouse-web/gatehouse/internal/logger"
)

// Supported session storage backends.
const (
	SessionStorageMemory   = "memory"
	SessionStorageMySQL    = "mysql"
	SessionStoragePostgres = "postgres"
	SessionStorageRedis    = "redis"
)

// Supported password hash algorithms.
const (
	HashAlgorithmBcrypt   = "bcrypt"
	HashAlgorithmArgon2id = "argon2id"
)

// Session settings.
type Session struct {
	ExpiryTime         time.Duration // sliding lifetime, refreshed on every authenticated request
	Secret             string        // cookie encryption secret
	Storage            string        // memory, mysql, postgres or redis
	StorageURL         string        // connection uri for the session storage, db settings are used if empty
	Table              string        // table name for sql storages
	LoginAfterRegister bool          // open a session right after a successful registration
}

// Argon2 parameters, zero values fall back to argon2id.DefaultParams.
type Argon2 struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Hash implements password hashing settings.
type Hash struct {
	Algorithm     string // bcrypt or argon2id
	WorkFactor    int    // bcrypt cost
	MaxConcurrent int    // parallel hash computations
	Argon2        Argon2
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Hash      Hash
	Log       logger.Log
	Title     string
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// redacted returns a copy without secrets.
func (c *Config) redacted() Config {
	out := *c

	if out.DB.Password != "" {
		out.DB.Password = "***"
	}

	if out.Webserver.Session.Secret != "" {
		out.Webserver.Session.Secret = "***"
	}

	return out
}
