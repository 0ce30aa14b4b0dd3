// Package config handles input from etc/*.toml files, the .env file and the environment.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	// JSONConfigEnv holds a JSON document merged over the TOML config.
	JSONConfigEnv = "GATEHOUSE_CONFIG_JSON"

	// DefaultSessionExpiry is the sliding lifetime of a login session.
	DefaultSessionExpiry = 30 * time.Minute

	defaultShutDownTime = 5
	defaultDBTimeout    = 5 * time.Second
)

// envBindings maps config keys to the environment variables read after the TOML file.
var envBindings = map[string]string{ //nolint:gochecknoglobals
	"db.user":            "DB_USER",
	"db.password":        "DB_PASS",
	"db.url":             "DB_URL",
	"db.driver":          "DB_DRIVER",
	"session.secret":     "SESSION_SECRET",
	"session.storage":    "SESSION_STORAGE",
	"session.storageurl": "SESSION_STORAGE_URL",
	"hash.workfactor":    "BCRYPT_WORK_FACTOR",
	"webserver.port":     "PORT",
	"webserver.url":      "BASE_URL",
	"devmode":            "DEV_MODE",
	"log.loglevel":       "LOG_LEVEL",
}

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c   Config
		err error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// .env is optional, a missing file is not an error
	_ = godotenv.Load(".env")

	if err = applyEnv(&c); err != nil {
		return Config{}, err
	}

	// override it from env
	if configAsJSON := os.Getenv(JSONConfigEnv); configAsJSON != "" {
		c, err = decodeAndMergeConfig(c, configAsJSON)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func applyEnv(c *Config) error {
	v := viper.New()

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return errors.Wrapf(err, "failed to bind env %s", env)
		}
	}

	if v.IsSet("db.user") {
		c.DB.User = v.GetString("db.user")
	}

	if v.IsSet("db.password") {
		c.DB.Password = v.GetString("db.password")
	}

	if v.IsSet("db.url") {
		c.DB.URL = v.GetString("db.url")
	}

	if v.IsSet("db.driver") {
		c.DB.Driver = v.GetString("db.driver")
	}

	if v.IsSet("session.secret") {
		c.Webserver.Session.Secret = v.GetString("session.secret")
	}

	if v.IsSet("session.storage") {
		c.Webserver.Session.Storage = v.GetString("session.storage")
	}

	if v.IsSet("session.storageurl") {
		c.Webserver.Session.StorageURL = v.GetString("session.storageurl")
	}

	if v.IsSet("hash.workfactor") {
		c.Hash.WorkFactor = v.GetInt("hash.workfactor")
	}

	if v.IsSet("webserver.port") {
		c.Webserver.Port = v.GetInt("webserver.port")
	}

	if v.IsSet("webserver.url") {
		c.Webserver.URL = v.GetString("webserver.url")
	}

	if v.IsSet("devmode") {
		c.DevMode = v.GetBool("devmode")
	}

	if v.IsSet("log.loglevel") {
		c.Log.LogLevel = v.GetString("log.loglevel")
	}

	return nil
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c.redacted()); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c.redacted()); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings and fill in defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.Session.Secret == "" {
		return errors.Wrap(ErrEmptySessionSecret, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = DefaultSessionExpiry
	}

	switch c.Webserver.Session.Storage {
	case "":
		c.Webserver.Session.Storage = SessionStorageMemory
	case SessionStorageMemory, SessionStorageMySQL, SessionStoragePostgres, SessionStorageRedis:
	default:
		return errors.Wrapf(ErrUnknownSessionStorage, "%s: %q", invalidErrMessage, c.Webserver.Session.Storage)
	}

	switch c.DB.Driver {
	case "":
		c.DB.Driver = DBDriverSQLite
	case DBDriverMongo, DBDriverMySQL, DBDriverPostgres, DBDriverSQLite:
	default:
		return errors.Wrapf(ErrUnknownDBDriver, "%s: %q", invalidErrMessage, c.DB.Driver)
	}

	if c.DB.Timeout == 0 {
		c.DB.Timeout = defaultDBTimeout
	}

	return validateHash(&c.Hash)
}

func validateHash(h *Hash) error {
	if h.Algorithm == "" {
		h.Algorithm = HashAlgorithmBcrypt
	}

	if h.MaxConcurrent <= 0 {
		h.MaxConcurrent = runtime.NumCPU()
	}

	switch h.Algorithm {
	case HashAlgorithmBcrypt:
		if h.WorkFactor == 0 {
			h.WorkFactor = bcrypt.DefaultCost
		}

		if h.WorkFactor < bcrypt.MinCost || h.WorkFactor > bcrypt.MaxCost {
			return errors.Wrapf(ErrInvalidWorkFactor, "work factor %d", h.WorkFactor)
		}
	case HashAlgorithmArgon2id:
	default:
		return errors.Wrapf(ErrUnknownHashAlgorithm, "algorithm %q", h.Algorithm)
	}

	return nil
}
