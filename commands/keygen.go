package commands

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/msig/crypto"
	"github.com/iov-one/msig/errors"
)

// KeygenCmd prints a new ed25519 key pair to out. With -seed, the public
// key of an existing seed is printed instead.
func KeygenCmd(out io.Writer, args []string) error {
	var seed string
	fl := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fl.StringVar(&seed, "seed", "", "hex encoded seed of an existing key")
	if err := fl.Parse(args); err != nil {
		return err
	}

	var (
		priv *crypto.PrivateKey
		err  error
	)
	if seed == "" {
		priv, err = crypto.GenPrivateKey()
	} else {
		raw, herr := hex.DecodeString(seed)
		if herr != nil {
			return errors.Wrap(errors.ErrInput, herr.Error())
		}
		priv, err = crypto.RestorePrivateKey(raw)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "public key: %s\nseed:       %x\n", priv.PublicKey(), priv.Seed())
	return err
}
