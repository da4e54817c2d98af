package log_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.streamy.dev/streamy/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		"error":            {input: "error", want: slog.LevelError},
		"warn":             {input: "warn", want: slog.LevelWarn},
		"warning alias":    {input: "warning", want: slog.LevelWarn},
		"info":             {input: "info", want: slog.LevelInfo},
		"debug":            {input: "debug", want: slog.LevelDebug},
		"case insensitive": {input: "INFO", want: slog.LevelInfo},
		"unknown":          {input: "verbose", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseLevel(tc.input)

			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLevel)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	got, err := log.ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, log.FormatJSON, got)

	got, err = log.ParseFormat("logfmt")
	require.NoError(t, err)
	assert.Equal(t, log.FormatLogfmt, got)

	_, err = log.ParseFormat("xml")
	require.ErrorIs(t, err, log.ErrUnknownFormat)
}

func TestJSONHandlerOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	h := log.NewHandler(&buf, slog.LevelInfo, log.FormatJSON)
	logger := slog.New(h)

	logger.Info("frame dropped", "offset", 12)

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "frame dropped", record["msg"])
	assert.EqualValues(t, 12, record["offset"])
}

func TestHandlerLevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	h := log.NewHandler(&buf, slog.LevelWarn, log.FormatLogfmt)
	logger := slog.New(h)

	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigRegisterFlags(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterFlags(fs)

	require.NoError(t, fs.Parse([]string{"--log-level=debug", "--log-format=json"}))
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Format)

	var buf bytes.Buffer

	h, err := cfg.NewHandler(&buf)
	require.NoError(t, err)
	require.NotNil(t, h)
}

func TestConfigRejectsBadValues(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()
	cfg.Level = "nope"
	cfg.Format = "logfmt"

	_, err := cfg.NewHandler(&bytes.Buffer{})
	require.ErrorIs(t, err, log.ErrUnknownLevel)
}
