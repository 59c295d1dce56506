package server

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/msig/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// ConfigFile is the name of the daemon configuration, relative to the
// config directory under home.
const ConfigFile = "msigd.toml"

// Config holds the settings of the abci server. Command line flags
// override what is read from the file.
type Config struct {
	// Bind is the address the abci server listens on.
	Bind string `toml:"bind"`
	// Debug returns the call stack with every error.
	Debug bool `toml:"debug"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `toml:"log_level"`
	// MetricsBind is the address prometheus metrics are served on.
	// Empty disables the endpoint.
	MetricsBind string `toml:"metrics_bind"`
	// DBName is the name of the state database under the data directory.
	DBName string `toml:"db_name"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Bind:        "tcp://localhost:46658",
		LogLevel:    "info",
		MetricsBind: "localhost:26660",
		DBName:      "msig",
	}
}

// Validate returns an error if the configuration cannot be used to start
// the server.
func (c *Config) Validate() error {
	if c.Bind == "" {
		return errors.Wrap(errors.ErrEmpty, "bind")
	}
	if c.DBName == "" {
		return errors.Wrap(errors.ErrEmpty, "db_name")
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// ConfigPath returns the location of the configuration file for home.
func ConfigPath(home string) string {
	return filepath.Join(home, "config", ConfigFile)
}

// LoadConfig reads the configuration from path. A missing file gives the
// default configuration. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "decode %s: %s", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, errors.Wrapf(errors.ErrInput, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return cfg, nil
}

// WriteConfig stores cfg at path, creating the directory if needed.
func WriteConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
