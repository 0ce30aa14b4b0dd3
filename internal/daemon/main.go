// Package daemon wires configuration, user store, password hasher, session storage and web service together.
package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gatehouse-web/gatehouse/internal/auth"
	"github.com/gatehouse-web/gatehouse/internal/config"
	"github.com/gatehouse-web/gatehouse/internal/db/dsn"
	"github.com/gatehouse-web/gatehouse/internal/db/store"
	"github.com/gatehouse-web/gatehouse/internal/hasher"
	"github.com/gatehouse-web/gatehouse/internal/logger/adapter/stdlogger"
	"github.com/gatehouse-web/gatehouse/internal/web"
	"github.com/gatehouse-web/gatehouse/internal/web/handler"
	"github.com/gatehouse-web/gatehouse/internal/web/session"
)

const (
	defaultMySQLExtras = "charset=utf8mb4&parseTime=True&loc=UTC"
	slowQueryThreshold = 200 * time.Millisecond
	closeTimeout       = 10 * time.Second
)

// ErrNilConfig is returned by New without a configuration.
var ErrNilConfig = errors.New("config is nil")

// userStore is a store that owns a connection.
type userStore interface {
	store.Store
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Daemon represents the main application daemon.
type Daemon struct {
	cfg            *config.Config
	users          userStore
	sessionStorage fiber.Storage
	webService     *web.Service
}

// New creates a new Daemon instance with the provided configuration.
// Every resource opened before a failure is released again.
func New(ctx context.Context, cfg *config.Config) (_ *Daemon, err error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	d := &Daemon{cfg: cfg}

	defer func() {
		if err != nil {
			d.Close()
		}
	}()

	if d.users, err = openStore(ctx, cfg); err != nil {
		return nil, err
	}

	h, err := hasher.New(cfg.Hash)
	if err != nil {
		return nil, err
	}

	if d.sessionStorage, err = session.NewStorage(cfg); err != nil {
		return nil, err
	}

	deps := &handler.Dependencies{
		Cfg:      cfg,
		Sessions: session.New(cfg, d.sessionStorage),
		Users:    d.users,
		Auth:     auth.NewLocalProvider(d.users, h),
	}

	if d.webService, err = web.New(cfg, deps); err != nil {
		return nil, err
	}

	log.Info().
		Str("db", cfg.DB.Driver).
		Str("sessions", cfg.Webserver.Session.Storage).
		Str("hash", h.Algorithm()).
		Msg("daemon initialized")

	return d, nil
}

// Run serves http until SIGINT or SIGTERM, then releases all resources.
func (d *Daemon) Run() {
	d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
	d.webService.WaitShutdown()
	d.Close()
}

// Close releases the session storage and the user store.
func (d *Daemon) Close() {
	if d.sessionStorage != nil {
		if err := d.sessionStorage.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close session storage")
		}

		d.sessionStorage = nil
	}

	if d.users != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()

		if err := d.users.Close(ctx); err != nil {
			log.Error().Err(err).Msg("failed to close user store")
		}

		d.users = nil
	}
}

// openStore connects the user store selected by DB.Driver.
func openStore(ctx context.Context, cfg *config.Config) (userStore, error) {
	if cfg.DB.Driver == config.DBDriverMongo {
		users, err := store.NewMongo(ctx, dsn.Mongo(cfg), dsn.MongoDatabase(cfg), cfg.DB.Timeout)
		if err != nil {
			return nil, err
		}

		return users, nil
	}

	dialector, err := sqlDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			stdlogger.NewWithLevel(zerolog.WarnLevel),
			gormlogger.Config{
				SlowThreshold:             slowQueryThreshold,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", cfg.DB.Driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}

	switch {
	case cfg.DB.Driver == config.DBDriverSQLite:
		// sqlite serializes writers, a single connection also keeps :memory: databases alive
		sqlDB.SetMaxOpenConns(1)
	case cfg.DB.MaxOpenConns > 0:
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}

	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	users := store.NewGorm(db, cfg.DB.Timeout)

	if err = users.Migrate(); err != nil {
		_ = users.Close(ctx)
		return nil, err
	}

	return users, nil
}

func sqlDialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DB.Driver {
	case config.DBDriverMySQL:
		if cfg.DB.URL != "" {
			return gormmysql.Open(cfg.DB.URL), nil
		}

		c := *cfg
		if c.DB.Extras == "" {
			c.DB.Extras = defaultMySQLExtras
		}

		return gormmysql.Open(dsn.Create(&c)), nil
	case config.DBDriverPostgres:
		if cfg.DB.URL != "" {
			return postgres.Open(cfg.DB.URL), nil
		}

		return postgres.Open(dsn.Postgres(cfg)), nil
	case config.DBDriverSQLite:
		name := cfg.DB.Name
		if name == "" {
			name = ":memory:"
		}

		if name != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(name), 0o750); err != nil {
				return nil, errors.Wrap(err, "failed to create sqlite directory")
			}
		}

		return sqlite.Open(name), nil
	default:
		return nil, errors.Wrapf(config.ErrUnknownDBDriver, "%q", cfg.DB.Driver)
	}
}
