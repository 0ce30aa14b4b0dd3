// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gatehouse-web/gatehouse/internal/config"
)

// Create builds the mysql Data Source Name from the configuration.
func Create(dbCfg *config.Config) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Host,
		dbCfg.DB.Port,
		dbCfg.DB.Name,
		dbCfg.DB.Extras,
	)

	return out
}

// Postgres builds a postgres connection uri from the configuration.
func Postgres(dbCfg *config.Config) string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%d", dbCfg.DB.Host, dbCfg.DB.Port),
		Path:     "/" + dbCfg.DB.Name,
		RawQuery: dbCfg.DB.Extras,
	}

	if dbCfg.DB.User != "" {
		u.User = url.UserPassword(dbCfg.DB.User, dbCfg.DB.Password)
	}

	return u.String()
}

// Mongo builds a mongodb connection uri.
// DB.URL (host[:port][/database][?options]) wins over Host, Port and Name.
func Mongo(dbCfg *config.Config) string {
	target := dbCfg.DB.URL
	if target == "" {
		target = fmt.Sprintf("%s:%d/%s", dbCfg.DB.Host, dbCfg.DB.Port, dbCfg.DB.Name)
	}

	target = strings.TrimPrefix(target, "mongodb://")

	if dbCfg.DB.User == "" {
		return "mongodb://" + target
	}

	creds := url.UserPassword(dbCfg.DB.User, dbCfg.DB.Password)

	return "mongodb://" + creds.String() + "@" + target
}

// MongoDatabase returns the database name for the document store.
// It is taken from DB.URL if present there, Name otherwise.
func MongoDatabase(dbCfg *config.Config) string {
	if dbCfg.DB.URL != "" {
		rest := strings.TrimPrefix(dbCfg.DB.URL, "mongodb://")
		if i := strings.Index(rest, "/"); i >= 0 {
			name := rest[i+1:]
			if j := strings.Index(name, "?"); j >= 0 {
				name = name[:j]
			}

			if name != "" {
				return name
			}
		}
	}

	if dbCfg.DB.Name != "" {
		return dbCfg.DB.Name
	}

	return "gatehouse"
}
