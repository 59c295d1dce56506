package server

import (
	"bytes"
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/msig/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	appStateKey = "app_state"
	flagForce   = "f"
)

// GenOptions can parse command-line and flag to
// generate default app_options for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisPath returns the location of the genesis file for home.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd will add the application state to an existing genesis file and
// write the default daemon configuration if none exists yet.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var force bool
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.BoolVar(&force, flagForce, false, "overwrite existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return err
	}

	cfgFile := ConfigPath(home)
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if err := WriteConfig(cfgFile, DefaultConfig()); err != nil {
			return err
		}
		logger.Info("Generated config file", "path", cfgFile)
	}

	// no app_options, leave like tendermint
	if gen == nil {
		return nil
	}

	options, err := gen(initFlags.Args())
	if err != nil {
		return err
	}
	genFile := GenesisPath(home)
	if err := addGenesisOptions(genFile, options, force); err != nil {
		return err
	}
	logger.Info("Added app_state to genesis file", "path", genFile)
	return nil
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage, force bool) error {
	bz, err := ioutil.ReadFile(filename)
	if os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrNotFound, "%s, run tendermint init first", filename)
	}
	if err != nil {
		return err
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis: %s", err)
	}
	if v, ok := doc[appStateKey]; ok && !force {
		if len(v) > 0 && !bytes.Equal(v, []byte("null")) && !bytes.Equal(v, []byte("{}")) {
			return errors.Wrap(errors.ErrDuplicate, "genesis file already contains app_state, use -f to overwrite")
		}
	}

	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, out, 0600)
}
