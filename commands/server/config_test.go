package server

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/msig/errors"
	"github.com/stretchr/testify/require"
)

func tempHome(t *testing.T) (string, func()) {
	t.Helper()
	home, err := ioutil.TempDir("", "msigd-cmd")
	require.NoError(t, err)
	return home, func() { os.RemoveAll(home) }
}

func TestLoadMissingConfig(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()

	cfg, err := LoadConfig(ConfigPath(home))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestConfigRoundTrip(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()

	want := &Config{
		Bind:        "tcp://0.0.0.0:26658",
		Debug:       true,
		LogLevel:    "error",
		MetricsBind: "",
		DBName:      "ledger",
	}
	path := ConfigPath(home)
	require.NoError(t, WriteConfig(path, want))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadConfigErrors(t *testing.T) {
	cases := map[string]struct {
		content string
		wantErr *errors.Error
	}{
		"partial file keeps defaults": {
			content: `bind = "tcp://localhost:1234"`,
		},
		"unknown key": {
			content: "bind = \"tcp://localhost:1234\"\nport = 3",
			wantErr: errors.ErrInput,
		},
		"not toml": {
			content: "bind = ",
			wantErr: errors.ErrInput,
		},
		"invalid log level": {
			content: `log_level = "loud"`,
			wantErr: errors.ErrInput,
		},
		"empty bind": {
			content: `bind = ""`,
			wantErr: errors.ErrEmpty,
		},
		"empty db name": {
			content: `db_name = ""`,
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			home, cleanup := tempHome(t)
			defer cleanup()

			path := filepath.Join(home, ConfigFile)
			require.NoError(t, ioutil.WriteFile(path, []byte(tc.content), 0644))

			cfg, err := LoadConfig(path)
			if tc.wantErr == nil {
				require.NoError(t, err)
				require.Equal(t, "tcp://localhost:1234", cfg.Bind)
				require.Equal(t, DefaultConfig().DBName, cfg.DBName)
				return
			}
			require.True(t, tc.wantErr.Is(err), "got %+v", err)
		})
	}
}
