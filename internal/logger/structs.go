package logger

// Console configures output to stdout and stderr.
type Console struct {
	Enabled          bool `toml:"enabled"`
	UseConsoleWriter bool // human readable output instead of json lines
	NoColor          bool
}

// RollingFile is one size rotated log file below LogFile.Path.
type RollingFile struct {
	Name       string
	MaxSize    int // megabytes before rotation
	MaxBackups int
	MaxAge     int // days to keep rotated files
	Compress   bool
}

// LogFile configures file based logging, one file per stream.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	Access RollingFile // http access log of the web service
	Error  RollingFile // error, fatal and panic
	Info   RollingFile // debug and info
	Trace  RollingFile
	Warn   RollingFile
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.
	LogEnv   string

	// EnableAccessLogToConsole writes the access log to stdout as well.
	// Console.Enabled must be set too.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	AppName     string
	ServiceName string

	Console Console
	File    LogFile `toml:"file"`
}
