package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configDir(t *testing.T) string {
	t.Helper()

	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	if err != nil {
		t.Fatalf("failed to get project root: %v", err)
	}

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(configDir(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	// Test basic config fields
	if cfg.Title == "" {
		t.Error("Config.Title should not be empty")
	}

	if cfg.Webserver.Port == 0 {
		t.Error("Webserver.Port should not be 0")
	}

	if cfg.Webserver.URL == "" {
		t.Error("Webserver.URL should not be empty")
	}

	assert.Equal(t, 30*time.Minute, cfg.Webserver.Session.ExpiryTime)
	assert.Equal(t, SessionStorageMemory, cfg.Webserver.Session.Storage)
	assert.Equal(t, DBDriverSQLite, cfg.DB.Driver)
	assert.Equal(t, 5*time.Second, cfg.DB.Timeout)
	assert.Equal(t, HashAlgorithmBcrypt, cfg.Hash.Algorithm)
	assert.Equal(t, 10, cfg.Hash.WorkFactor)
	assert.Positive(t, cfg.Hash.MaxConcurrent)
}

func TestReadConfigWithEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "mongo")
	t.Setenv("DB_USER", "alice")
	t.Setenv("DB_PASS", "s3cr3t")
	t.Setenv("DB_URL", "mongo.internal:27017/gatehouse")
	t.Setenv("SESSION_SECRET", "from-env")
	t.Setenv("BCRYPT_WORK_FACTOR", "12")
	t.Setenv("PORT", "8081")

	cfg, err := ReadConfig(configDir(t))
	require.NoError(t, err)

	assert.Equal(t, DBDriverMongo, cfg.DB.Driver)
	assert.Equal(t, "alice", cfg.DB.User)
	assert.Equal(t, "s3cr3t", cfg.DB.Password)
	assert.Equal(t, "mongo.internal:27017/gatehouse", cfg.DB.URL)
	assert.Equal(t, "from-env", cfg.Webserver.Session.Secret)
	assert.Equal(t, 12, cfg.Hash.WorkFactor)
	assert.Equal(t, 8081, cfg.Webserver.Port)
}

func TestReadConfigInvalidWorkFactorFromEnv(t *testing.T) {
	t.Setenv("BCRYPT_WORK_FACTOR", "99")

	_, err := ReadConfig(configDir(t))
	require.ErrorIs(t, err, ErrInvalidWorkFactor)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "nope") + string(filepath.Separator))
	require.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		return Config{
			Webserver: Webserver{
				Port:    8080,
				URL:     "http://localhost:8080",
				Session: Session{Secret: "secret"},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "valid config",
			mutate: func(_ *Config) {},
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Webserver.Port = 0 },
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name:    "missing URL",
			mutate:  func(c *Config) { c.Webserver.URL = "" },
			wantErr: ErrEmptyURL,
		},
		{
			name:    "missing session secret",
			mutate:  func(c *Config) { c.Webserver.Session.Secret = "" },
			wantErr: ErrEmptySessionSecret,
		},
		{
			name:    "work factor too low",
			mutate:  func(c *Config) { c.Hash.WorkFactor = 2 },
			wantErr: ErrInvalidWorkFactor,
		},
		{
			name:    "work factor too high",
			mutate:  func(c *Config) { c.Hash.WorkFactor = 32 },
			wantErr: ErrInvalidWorkFactor,
		},
		{
			name:    "unknown hash algorithm",
			mutate:  func(c *Config) { c.Hash.Algorithm = "md5" },
			wantErr: ErrUnknownHashAlgorithm,
		},
		{
			name:   "argon2id ignores work factor",
			mutate: func(c *Config) { c.Hash.Algorithm = HashAlgorithmArgon2id; c.Hash.WorkFactor = 99 },
		},
		{
			name:    "unknown db driver",
			mutate:  func(c *Config) { c.DB.Driver = "oracle" },
			wantErr: ErrUnknownDBDriver,
		},
		{
			name:    "unknown session storage",
			mutate:  func(c *Config) { c.Webserver.Session.Storage = "etcd" },
			wantErr: ErrUnknownSessionStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := validate(&cfg)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{
		Webserver: Webserver{
			Port:    8080,
			URL:     "http://localhost:8080",
			Session: Session{Secret: "secret"},
		},
	}

	require.NoError(t, validate(&cfg))

	assert.Equal(t, 5, cfg.Webserver.ShutDownTime)
	assert.Equal(t, DefaultSessionExpiry, cfg.Webserver.Session.ExpiryTime)
	assert.Equal(t, SessionStorageMemory, cfg.Webserver.Session.Storage)
	assert.Equal(t, DBDriverSQLite, cfg.DB.Driver)
	assert.Equal(t, HashAlgorithmBcrypt, cfg.Hash.Algorithm)
	assert.Equal(t, 10, cfg.Hash.WorkFactor)
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	// Set JSON override environment variable
	jsonOverride := `{"Title":"Test Override","Webserver":{"Port":9090}}`
	t.Setenv(JSONConfigEnv, jsonOverride)

	cfg, err := ReadConfig(configDir(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Title != "Test Override" {
		t.Errorf("Title = %v, want %v", cfg.Title, "Test Override")
	}

	if cfg.Webserver.Port != 9090 {
		t.Errorf("Webserver.Port = %v, want %v", cfg.Webserver.Port, 9090)
	}
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{
		Title:   "Test",
		DevMode: true,
		DB:      DB{Password: "db-password"},
		Webserver: Webserver{
			Port:    8080,
			URL:     "http://localhost:8080",
			Session: Session{Secret: "top-secret"},
		},
	}

	tomlStr, err := DumpConfig(&cfg)
	if err != nil {
		t.Fatalf("DumpConfig() error = %v", err)
	}

	if !strings.Contains(tomlStr, "Test") {
		t.Error("DumpConfig() output should contain Title")
	}

	assert.NotContains(t, tomlStr, "top-secret")
	assert.NotContains(t, tomlStr, "db-password")
	// the input config keeps its secrets
	assert.Equal(t, "top-secret", cfg.Webserver.Session.Secret)
}

func TestDumpConfigJSON(t *testing.T) {
	cfg := Config{
		Title:   "Test",
		DevMode: true,
		Webserver: Webserver{
			Port:    8080,
			URL:     "http://localhost:8080",
			Session: Session{Secret: "top-secret"},
		},
	}

	jsonStr, err := DumpConfigJSON(&cfg)
	if err != nil {
		t.Fatalf("DumpConfigJSON() error = %v", err)
	}

	// Check if output is valid JSON by checking for expected fields
	if !strings.Contains(jsonStr, "Test") {
		t.Error("DumpConfigJSON() output should contain Title")
	}

	assert.NotContains(t, jsonStr, "top-secret")
}
