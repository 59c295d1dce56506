package app

import (
	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/orm"
)

// ResultSet contains a list of keys or values, the serialized form of a
// query response.
type ResultSet struct {
	Results [][]byte
}

// Marshal encodes every result as a repeated field, empty results
// included.
func (r *ResultSet) Marshal() ([]byte, error) {
	return orm.NewEncoder().RepeatedBytes(1, r.Results).Result()
}

// Unmarshal decodes a result set.
func (r *ResultSet) Unmarshal(raw []byte) error {
	*r = ResultSet{}
	d := orm.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			var b []byte
			if b, err = d.Bytes(); err == nil {
				r.Results = append(r.Results, b)
			}
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []msig.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []msig.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]msig.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys for %d values", len(kref), len(vref))
	}
	mods := make([]msig.Model, len(kref))
	for i := range mods {
		mods[i] = msig.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o msig.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return nil
	}
	return o.Unmarshal(res.Results[0])
}
