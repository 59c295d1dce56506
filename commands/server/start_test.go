package server

import (
	"bytes"
	"testing"

	"github.com/iov-one/msig/errors"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestParseFlags(t *testing.T) {
	cfg := DefaultConfig()
	err := parseFlags(cfg, []string{"-bind", "tcp://localhost:9999", "-debug", "-log_level", "debug", "-metrics", ""})
	require.NoError(t, err)

	want := DefaultConfig()
	want.Bind = "tcp://localhost:9999"
	want.Debug = true
	want.LogLevel = "debug"
	want.MetricsBind = ""
	require.Equal(t, want, cfg)
}

func TestParseFlagsKeepsConfig(t *testing.T) {
	cfg := &Config{Bind: "tcp://localhost:1", LogLevel: "error", DBName: "x"}
	require.NoError(t, parseFlags(cfg, nil))
	require.Equal(t, &Config{Bind: "tcp://localhost:1", LogLevel: "error", DBName: "x"}, cfg)
}

func TestParseFlagsErrors(t *testing.T) {
	err := parseFlags(DefaultConfig(), []string{"-log_level", "loud"})
	require.True(t, errors.ErrInput.Is(err), "got %+v", err)

	err = parseFlags(DefaultConfig(), []string{"-unknown"})
	require.Error(t, err)
}

func TestFilterLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := filterLogger(log.NewTMLogger(&buf), "error")
	require.NoError(t, err)

	logger.Info("hidden")
	require.Equal(t, 0, buf.Len())
	logger.Error("shown")
	require.Contains(t, buf.String(), "shown")

	_, err = filterLogger(log.NewNopLogger(), "loud")
	require.Error(t, err)
}
