package msig

// Feeder is a one directional stream that a feeder query writes its result
// items to, one by one. The host drains it. Returning an error stops the
// query, which is how a host signals that it stopped reading.
type Feeder interface {
	Feed(item []byte) error
}

// FeederFunc adapts a function to the Feeder interface.
type FeederFunc func(item []byte) error

// Feed calls f(item).
func (f FeederFunc) Feed(item []byte) error {
	return f(item)
}

// SliceFeeder collects all fed items in memory.
type SliceFeeder struct {
	Items [][]byte
}

var _ Feeder = (*SliceFeeder)(nil)

// Feed appends a copy of the item.
func (s *SliceFeeder) Feed(item []byte) error {
	cp := make([]byte, len(item))
	copy(cp, item)
	s.Items = append(s.Items, cp)
	return nil
}
