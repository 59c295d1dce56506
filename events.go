package msig

import (
	"context"

	"github.com/tendermint/tendermint/libs/common"
)

// Event is a structured notification about a successful state transition.
// The event value itself is the payload.
type Event interface {
	// EventName identifies the kind of event, for example "transfer".
	EventName() string

	// Tags returns the indexable attributes of this event.
	Tags() []common.KVPair
}

// EventSink receives events emitted during the processing of a single
// operation. Emitting is fire-and-forget, a sink must not fail.
type EventSink interface {
	Emit(Event)
}

// WithEventSink sets the sink that EmitEvent writes to.
func WithEventSink(ctx Context, sink EventSink) Context {
	return context.WithValue(ctx, contextKeyEvents, sink)
}

// EmitEvent passes the event to the sink registered in the context.
// Without a sink the event is dropped.
func EmitEvent(ctx Context, e Event) {
	if sink, ok := ctx.Value(contextKeyEvents).(EventSink); ok {
		sink.Emit(e)
	}
}

// EventBuffer collects events of one operation. The host flushes it only
// once the operation has been committed, and drops it otherwise.
type EventBuffer struct {
	events []Event
}

var _ EventSink = (*EventBuffer)(nil)

// Emit appends the event to the buffer.
func (b *EventBuffer) Emit(e Event) {
	b.events = append(b.events, e)
}

// Events returns all buffered events in emission order.
func (b *EventBuffer) Events() []Event {
	return b.events
}

// Reset drops all buffered events.
func (b *EventBuffer) Reset() {
	b.events = nil
}

// Tags flattens the buffered events into a list of tags. Each event
// contributes an "action" tag with its name followed by its own tags.
func (b *EventBuffer) Tags() []common.KVPair {
	var tags []common.KVPair
	for _, e := range b.events {
		tags = append(tags, common.KVPair{Key: []byte("action"), Value: []byte(e.EventName())})
		tags = append(tags, e.Tags()...)
	}
	return tags
}
