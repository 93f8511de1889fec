package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestConfigureJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Configure(Options{Level: "info", Format: "json", Out: &buf}))
	defer func() {
		_ = Configure(Options{})
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}()

	l := New("generator")
	l.Debugf("hidden")
	l.Infof("rows=%d", 90)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "generator", line["component"])
	assert.Equal(t, "rows=90", line["message"])
	assert.Equal(t, "info", line["level"])
}

func TestConfigureRejectsUnknownValues(t *testing.T) {
	assert.Error(t, Configure(Options{Level: "loud"}))
	assert.Error(t, Configure(Options{Format: "xml"}))
}

func TestConfigureMirrorsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bikecast.log")
	require.NoError(t, Configure(Options{Level: "info", Out: io.Discard, File: path, MaxSizeMB: 1}))
	defer func() {
		_ = Configure(Options{})
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}()

	New("sink").Warnf("retrying %s", "mqtt")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"sink"`)
	assert.Contains(t, string(data), "retrying mqtt")
}

func TestConfigureClosesPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bikecast.log")
	require.NoError(t, Configure(Options{Level: "info", Out: io.Discard, File: path}))
	first := logFile
	require.NotNil(t, first)
	New("cmd").Infof("first run")

	require.NoError(t, Configure(Options{Level: "info", Out: io.Discard, File: path}))
	defer func() {
		_ = Configure(Options{})
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}()
	assert.NotSame(t, first, logFile)
	New("cmd").Infof("second run")

	require.NoError(t, Configure(Options{Level: "info", Out: io.Discard}))
	assert.Nil(t, logFile)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("run")))
}
