package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/gofiber/storage/redis/v3"

	"github.com/gatehouse-web/gatehouse/internal/config"
	"github.com/gatehouse-web/gatehouse/internal/db/dsn"
)

const (
	defaultTable      = "sessions"
	defaultGCInterval = 10 * time.Second
)

var (
	// ErrMissingStorageURL is returned when a remote session storage has no connection uri.
	ErrMissingStorageURL = errors.New("session storage url is missing")

	// ErrStorageInit is returned when the session storage backend can not be created.
	ErrStorageInit = errors.New("failed to init session storage")
)

// NewStorage creates the configured session storage backend.
// The sql storages fall back to the database settings when no StorageURL is configured
// and the database uses the same driver.
func NewStorage(cfg *config.Config) (storage fiber.Storage, err error) {
	sc := cfg.Webserver.Session

	table := sc.Table
	if table == "" {
		table = defaultTable
	}

	// the storage constructors panic when the backend is unreachable
	defer func() {
		if r := recover(); r != nil {
			storage = nil
			err = fmt.Errorf("%w (%s): %v", ErrStorageInit, sc.Storage, r)
		}
	}()

	switch sc.Storage {
	case config.SessionStorageMemory, "":
		return memory.New(memory.Config{GCInterval: defaultGCInterval}), nil
	case config.SessionStorageMySQL:
		uri := sc.StorageURL
		if uri == "" && cfg.DB.Driver == config.DBDriverMySQL {
			uri = dsn.Create(cfg)
		}

		if uri == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingStorageURL, sc.Storage)
		}

		return mysql.New(mysql.Config{
			ConnectionURI: uri,
			Table:         table,
			GCInterval:    defaultGCInterval,
		}), nil
	case config.SessionStoragePostgres:
		uri := sc.StorageURL
		if uri == "" && cfg.DB.Driver == config.DBDriverPostgres {
			uri = dsn.Postgres(cfg)
		}

		if uri == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingStorageURL, sc.Storage)
		}

		return postgres.New(postgres.Config{
			ConnectionURI: uri,
			Table:         table,
			GCInterval:    defaultGCInterval,
		}), nil
	case config.SessionStorageRedis:
		if sc.StorageURL == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingStorageURL, sc.Storage)
		}

		return redis.New(redis.Config{URL: sc.StorageURL}), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownSessionStorage, sc.Storage)
	}
}
