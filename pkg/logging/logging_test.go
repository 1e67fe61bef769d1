package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default_warn_level", 0, zerolog.WarnLevel},
		{"info_level", 1, zerolog.InfoLevel},
		{"debug_level", 2, zerolog.DebugLevel},
		{"trace_level", 3, zerolog.TraceLevel},
		{"high_verbosity_defaults_to_trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv("XDG_STATE_HOME", tempDir)

			SetupLogger(tt.verbosity)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())

			logPath := filepath.Join(tempDir, "cirules", "cirules.log")
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should exist at %s", logPath)
		})
	}
}

func TestSetup_NoFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tempDir)

	Setup(Options{Verbosity: 1, JSON: true, NoFile: true})

	_, err := os.Stat(filepath.Join(tempDir, "cirules", "cirules.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestSetup_JSONConsole(t *testing.T) {
	previous := log.Logger
	t.Cleanup(func() { log.Logger = previous })

	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "serve.log")
	Setup(Options{Verbosity: 1, JSON: true, Console: &buf, FilePath: path})

	logger := GetLogger("server")
	logger.Info().Str("path", "/healthz").Msg("Request")

	assert.Contains(t, buf.String(), `"component":"server"`)
	assert.Contains(t, buf.String(), `"message":"Request"`)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(written), `"path":"/healthz"`)
}

func TestSetup_UnwritableFile(t *testing.T) {
	previous := log.Logger
	t.Cleanup(func() { log.Logger = previous })

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	var buf bytes.Buffer
	Setup(Options{JSON: true, Console: &buf, FilePath: filepath.Join(blocker, "cirules.log")})

	assert.Contains(t, buf.String(), "Log file unavailable")
}

func TestGetLogFilePath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")

	got := getLogFilePath()
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, filepath.FromSlash("/custom/state/cirules/cirules.log"), got)
	assert.Equal(t, got, LogFilePath())
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, LevelFor(-1))
	assert.Equal(t, zerolog.InfoLevel, LevelFor(1))
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	previousLogger, previousLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = previousLogger
		zerolog.SetGlobalLevel(previousLevel)
	})

	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	return &buf
}

func TestLogCommand(t *testing.T) {
	buf := captureLogs(t)

	LogCommand("git", []string{"diff", "--name-only"})

	output := buf.String()
	assert.Contains(t, output, `"command":"git"`)
	assert.Contains(t, output, "--name-only")
	assert.Contains(t, output, "Executing command")
}

func TestLogOperationStart(t *testing.T) {
	buf := captureLogs(t)

	done := LogOperationStart(GetLogger("evaluator"), "evaluate")
	done()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Operation started")
	assert.Contains(t, lines[1], "Operation completed")
	assert.Contains(t, lines[1], `"component":"evaluator"`)
}
