// Package debug provides the trace hook interface the 3D engine reports
// command and batch events through. Hooks receive read-only snapshots of
// engine state; they can observe but never mutate it.
package debug

import "fmt"

// Event identifies a trace point inside the engine.
type Event int

// Trace points.
const (
	// CommandLoaded fires before an ordinary register write is applied.
	CommandLoaded Event = iota

	// CommandProcessed fires after the write and its side effects.
	CommandProcessed

	// IncomingPrimitiveBatch fires before a draw batch is handed to the
	// rasterizer.
	IncomingPrimitiveBatch

	// FinishedPrimitiveBatch fires after the rasterizer call returns.
	FinishedPrimitiveBatch
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case CommandLoaded:
		return "CommandLoaded"
	case CommandProcessed:
		return "CommandProcessed"
	case IncomingPrimitiveBatch:
		return "IncomingPrimitiveBatch"
	case FinishedPrimitiveBatch:
		return "FinishedPrimitiveBatch"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// Snapshot is the read-only state attached to an event. Command events
// carry the register write being processed; batch events carry the draw
// parameters.
type Snapshot struct {
	Method      uint32
	Value       uint32
	Topology    uint32
	VertexCount uint32
}

// Context receives engine trace events. Implementations must not block;
// the engine calls them synchronously on its single command thread.
type Context interface {
	OnEvent(event Event, snap Snapshot)
}

// Record is one captured event with its snapshot.
type Record struct {
	Event    Event
	Snapshot Snapshot
}

// Recorder is a Context that appends every event to an in-memory list.
type Recorder struct {
	Records []Record
}

// OnEvent implements Context.
func (r *Recorder) OnEvent(event Event, snap Snapshot) {
	r.Records = append(r.Records, Record{Event: event, Snapshot: snap})
}

// Events returns just the event sequence, without snapshots.
func (r *Recorder) Events() []Event {
	events := make([]Event, len(r.Records))
	for i, rec := range r.Records {
		events[i] = rec.Event
	}
	return events
}

// Reset discards all captured records.
func (r *Recorder) Reset() {
	r.Records = nil
}
