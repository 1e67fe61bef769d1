package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options configures the global logger
type Options struct {
	Verbosity int

	// JSON writes structured lines to the console instead of the
	// human readable format. `cirules serve --log-json` sets it.
	JSON bool

	// Console defaults to stderr
	Console io.Writer

	// FilePath overrides the XDG log file. NoFile disables it.
	FilePath string
	NoFile   bool
}

// SetupLogger configures the global logger for a -v count, writing to
// stderr and to the log file
func SetupLogger(verbosity int) {
	Setup(Options{Verbosity: verbosity})
}

// Setup replaces the global logger. A log file that cannot be opened is
// reported once on the console and otherwise ignored.
func Setup(opts Options) {
	zerolog.SetGlobalLevel(LevelFor(opts.Verbosity))

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	if !opts.JSON {
		console = zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}
	writers := []io.Writer{console}

	path := opts.FilePath
	if path == "" {
		path = getLogFilePath()
	}
	var fileErr error
	if !opts.NoFile {
		var file *os.File
		if file, fileErr = setupLogFile(path); fileErr == nil {
			writers = append(writers, file)
		}
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if opts.Verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", path).Msg("Log file unavailable, logging to console only")
	}
	log.Debug().
		Int("verbosity", opts.Verbosity).
		Bool("json", opts.JSON).
		Str("log_file", path).
		Msg("Logger initialized")
}

// LevelFor maps the -v count to a level: warn, info, debug, then trace
func LevelFor(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	}
	if verbosity < 0 {
		return zerolog.WarnLevel
	}
	return zerolog.TraceLevel
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// LogFilePath is where the log file is written
func LogFilePath() string {
	return getLogFilePath()
}

// getLogFilePath resolves $XDG_STATE_HOME/cirules/cirules.log
func getLogFilePath() string {
	xdg.Reload()
	return filepath.Join(xdg.StateHome, "cirules", "cirules.log")
}

// setupLogFile creates the log file and its parent directories
func setupLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// LogCommand logs a command execution with its arguments
func LogCommand(cmd string, args []string) {
	log.Debug().
		Str("command", cmd).
		Strs("args", args).
		Msg("Executing command")
}

// LogOperationStart logs the start of an operation and returns a function to log its completion
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().
		Str("operation", operation).
		Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
