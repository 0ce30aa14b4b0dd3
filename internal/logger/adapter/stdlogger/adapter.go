// Package stdlogger adapts the global zerolog logger to printf style logger interfaces,
// for example the gorm logger writer.
package stdlogger

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger writes printf style messages to the global zerolog logger.
type Logger struct {
	printLevel zerolog.Level
}

// New returns a Logger whose Printf writes at info level.
func New() *Logger {
	return NewWithLevel(zerolog.InfoLevel)
}

// NewWithLevel returns a Logger whose Printf writes at the given level.
func NewWithLevel(level zerolog.Level) *Logger {
	return &Logger{printLevel: level}
}

// Printf implements gorm's logger.Writer.
func (l *Logger) Printf(format string, v ...interface{}) {
	log.WithLevel(l.printLevel).Msgf(strings.TrimSpace(format), v...)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, v ...interface{}) {
	log.Info().Msgf(format, v...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, v ...interface{}) {
	log.Warn().Msgf(format, v...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, v ...interface{}) {
	log.Error().Msgf(format, v...)
}
