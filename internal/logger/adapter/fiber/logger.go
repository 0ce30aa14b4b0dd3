// Package fiber provides a zerolog access log middleware for fiber.
package fiber

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gatehouse-web/gatehouse/internal/logger"
)

// HeaderResponseTime carries the handling time in seconds.
const HeaderResponseTime = "X-Response-Time"

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Config of the logger.
	Config logger.Log

	// CacheControlError is set when the error handler itself fails.
	//
	// Optional. Default: "max-age=0"
	CacheControlError string

	// CheckAliveURI for disabling logging of check alive http calls.
	CheckAliveURI string

	// UserID returns the id of the authenticated user, if any, for the access log entry.
	//
	// Optional. Default: nil
	UserID func(c *fiber.Ctx) string

	// Console receives the access log when console output is enabled.
	//
	// Optional. Default: os.Stdout
	Console io.Writer
}

// ConfigDefault is the default config for fiber.
var ConfigDefault = Config{ //nolint:gochecknoglobals
	CacheControlError: "max-age=0",
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.CacheControlError == "" {
		cfg.CacheControlError = ConfigDefault.CacheControlError
	}

	if cfg.Console == nil {
		cfg.Console = os.Stdout
	}

	return cfg
}

// accessWriters collects the access log targets: the rolling access file and the console.
func accessWriters(cfg Config) []io.Writer {
	var writers []io.Writer

	if cfg.Config.File.Enabled {
		w, err := cfg.Config.File.Writer(cfg.Config.File.Access)
		if err != nil {
			log.Error().Err(err).Msg("access log file disabled")
		} else {
			writers = append(writers, w)
		}
	}

	if cfg.Config.Console.Enabled && cfg.Config.EnableAccessLogToConsole {
		if cfg.Config.Console.UseConsoleWriter {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          cfg.Console,
				NoColor:      cfg.Config.Console.NoColor,
				TimeFormat:   time.RFC3339,
				PartsExclude: []string{zerolog.LevelFieldName},
			})
		} else {
			writers = append(writers, cfg.Console)
		}
	}

	return writers
}

// New creates a new fiber access logging middleware using zerolog.
// Chain errors are passed to the app's error handler so the logged status is the one sent.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)
	writers := accessWriters(cfg)

	if len(writers) == 0 {
		log.Debug().Msg("access log has no output")
	}

	accessLog := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()

	return func(ctx *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(ctx) {
			return ctx.Next()
		}

		start := time.Now()

		chainErr := ctx.Next()
		if chainErr != nil {
			if err := ctx.App().ErrorHandler(ctx, chainErr); err != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError) //nolint:errcheck
				ctx.Response().Header.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
			}
		}

		elapsed := time.Since(start).Seconds()
		ctx.Set(HeaderResponseTime, strconv.FormatFloat(elapsed, 'f', 6, 64))

		if cfg.Config.DisableCheckAlive && ctx.Path() == cfg.CheckAliveURI {
			return nil
		}

		entry := accessLog.Log().
			Str("ip", ctx.IP()).
			Str("method", ctx.Method()).
			Str("uri", requestURI(ctx)).
			Int("status", ctx.Response().StatusCode()).
			Float64("elapsed", elapsed).
			Bytes("host", ctx.Request().Host()).
			Str("forwarded_for", ctx.Get(fiber.HeaderXForwardedFor)).
			Str("user_agent", ctx.Get(fiber.HeaderUserAgent)).
			Str("referer", ctx.Get(fiber.HeaderReferer))

		if cfg.UserID != nil {
			if id := cfg.UserID(ctx); id != "" {
				entry.Str("user_id", id)
			}
		}

		if chainErr != nil {
			entry.Err(chainErr)
		}

		entry.Send()

		return nil
	}
}

// requestURI is the path as sent by the client plus the query string.
// fasthttp normalizes the routing path, so /a//b would otherwise be logged as /a/b.
func requestURI(ctx *fiber.Ctx) string {
	p := ctx.Path()

	if q := ctx.Request().URI().QueryString(); len(q) > 0 {
		p += "?" + string(q)
	}

	return p
}
