// Package logger configures the global zerolog logger: console and rolling file
// outputs split by level, service fields on every entry and a prometheus counter per level.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/gatehouse-web/gatehouse/internal/metrics"
)

// LevelWriter routes events by level. Debug and info share Info, error and above go to Error.
// A nil target drops the event.
type LevelWriter struct {
	Trace io.Writer
	Info  io.Writer
	Warn  io.Writer
	Error io.Writer
}

// Write implements io.Writer for events without level.
func (lw *LevelWriter) Write(p []byte) (int, error) {
	return lw.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	var w io.Writer

	switch l {
	case zerolog.Disabled:
		return 0, nil
	case zerolog.TraceLevel:
		w = lw.Trace
	case zerolog.WarnLevel:
		w = lw.Warn
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		w = lw.Error
	default:
		w = lw.Info
	}

	if w == nil {
		return len(p), nil
	}

	return w.Write(p) //nolint:wrapcheck
}

// PrometheusHook counts log events per level.
type PrometheusHook struct{}

// Run implements zerolog.Hook.
func (PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level != zerolog.NoLevel {
		metrics.LogStatements.WithLabelValues(level.String()).Inc()
	}
}

// Init configures the global logger for stdout and stderr.
func Init(cfg Log) error {
	l, err := New(cfg, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(l.GetLevel())
	zerolog.ErrorHandler = ErrorHandler

	if l.GetLevel() == zerolog.TraceLevel {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	log.Logger = l

	return nil
}

// New builds a logger from cfg. Console output writes debug and info to stdout, everything else to stderr.
// With neither console nor file enabled the logger writes nothing. An empty LogLevel means info.
func New(cfg Log, stdout, stderr io.Writer) (zerolog.Logger, error) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = zerolog.InfoLevel.String()
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "loglevel %s is not supported", cfg.LogLevel)
	}

	if cfg.ServiceName == "" {
		return zerolog.Nop(), ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return zerolog.Nop(), ErrAppNameIsEmpty
	}

	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg.Console, stdout, stderr))
	}

	if cfg.File.Enabled {
		fw, err := newFileWriter(cfg.File)
		if err != nil {
			return zerolog.Nop(), err
		}

		writers = append(writers, fw)
	}

	logCtx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		Hook(PrometheusHook{}).
		With().Timestamp().
		Str("app", cfg.AppName).
		Str("service", cfg.ServiceName)

	if cfg.LogEnv != "" {
		logCtx = logCtx.Str("env", cfg.LogEnv)
	}

	if cfg.ReportCaller {
		logCtx = logCtx.Caller()

		if level == zerolog.TraceLevel {
			logCtx = logCtx.Stack()
		}
	}

	return logCtx.Logger(), nil
}

// NewConsoleWriter splits output between stdout and stderr, optionally in human readable form.
func NewConsoleWriter(cfg Console, stdout, stderr io.Writer) *LevelWriter {
	wrap := func(w io.Writer) io.Writer {
		if !cfg.UseConsoleWriter {
			return w
		}

		return zerolog.ConsoleWriter{Out: w, NoColor: cfg.NoColor, TimeFormat: time.RFC3339}
	}

	out, errOut := wrap(stdout), wrap(stderr)

	return &LevelWriter{Trace: errOut, Info: out, Warn: errOut, Error: errOut}
}
