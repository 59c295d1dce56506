package multisig

import (
	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/gconf"
	"github.com/iov-one/msig/orm"
)

const packageName = "multisig"

// Configuration bounds the size of what a single operation may carry.
type Configuration struct {
	// MaxKeys limits the keys of a created account and the signers
	// presented with an operation.
	MaxKeys uint32 `json:"max_keys"`
	// MaxChanges limits the changes of a single change account operation.
	MaxChanges uint32 `json:"max_changes"`
	// MaxDescription limits the description length in bytes.
	MaxDescription uint32 `json:"max_description"`
	// MaxMemo limits the memo length in bytes.
	MaxMemo uint32 `json:"max_memo"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// DefaultConfiguration is used when the genesis does not configure the
// package.
func DefaultConfiguration() Configuration {
	return Configuration{
		MaxKeys:        128,
		MaxChanges:     64,
		MaxDescription: 1024,
		MaxMemo:        512,
	}
}

// Validate ensures every limit allows something.
func (c *Configuration) Validate() error {
	var errs error
	if c.MaxKeys == 0 {
		errs = errors.AppendField(errs, "MaxKeys", errors.ErrEmpty)
	}
	if c.MaxChanges == 0 {
		errs = errors.AppendField(errs, "MaxChanges", errors.ErrEmpty)
	}
	if c.MaxDescription == 0 {
		errs = errors.AppendField(errs, "MaxDescription", errors.ErrEmpty)
	}
	if c.MaxMemo == 0 {
		errs = errors.AppendField(errs, "MaxMemo", errors.ErrEmpty)
	}
	return errs
}

// Marshal encodes the configuration in the protobuf wire format.
func (c *Configuration) Marshal() ([]byte, error) {
	return orm.NewEncoder().
		Uint32(1, c.MaxKeys).
		Uint32(2, c.MaxChanges).
		Uint32(3, c.MaxDescription).
		Uint32(4, c.MaxMemo).
		Result()
}

// Unmarshal decodes the configuration.
func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	d := orm.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			c.MaxKeys, err = d.Uint32()
		case 2:
			c.MaxChanges, err = d.Uint32()
		case 3:
			c.MaxDescription, err = d.Uint32()
		case 4:
			c.MaxMemo, err = d.Uint32()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// loadConf returns the stored configuration, or the default one if the
// package was never configured.
func loadConf(db msig.ReadOnlyKVStore) (Configuration, error) {
	var conf Configuration
	err := gconf.Load(db, packageName, &conf)
	switch {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return DefaultConfiguration(), nil
	default:
		return conf, errors.Wrap(err, "load configuration")
	}
}

func (c Configuration) checkKeys(field string, n int) error {
	if n > int(c.MaxKeys) {
		return errors.Field(field, errors.ErrInput, "%d keys, at most %d allowed", n, c.MaxKeys)
	}
	return nil
}

func (c Configuration) checkText(field, text string, max uint32) error {
	if len(text) > int(max) {
		return errors.Field(field, errors.ErrInput, "%d bytes, at most %d allowed", len(text), max)
	}
	return nil
}

// check verifies msg against the configured limits.
func (c Configuration) check(msg msig.Msg) error {
	switch m := msg.(type) {
	case *CreateAccountMsg:
		return errors.Append(
			c.checkKeys("Keys", len(m.Keys)),
			c.checkText("Description", m.Description, c.MaxDescription),
		)
	case *DepositMsg:
		return c.checkText("Memo", m.Memo, c.MaxMemo)
	case *TransferMsg:
		return errors.Append(
			c.checkKeys("Keys", len(m.Keys)),
			c.checkText("Memo", m.Memo, c.MaxMemo),
		)
	case *ChangeAccountMsg:
		errs := c.checkKeys("Keys", len(m.Keys))
		if len(m.Changes) > int(c.MaxChanges) {
			errs = errors.Append(errs, errors.Field("Changes", errors.ErrInput, "%d changes, at most %d allowed", len(m.Changes), c.MaxChanges))
		}
		for i, ch := range m.Changes {
			if ch.Kind == SetDescription {
				errs = errors.Append(errs, c.checkText(fieldName("Changes", i), ch.Description, c.MaxDescription))
			}
		}
		return errs
	default:
		return errors.Wrapf(errors.ErrType, "%T", msg)
	}
}
