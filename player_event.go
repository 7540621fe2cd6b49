package ptmod

// PlayerEventKind is an event tag that should be used to differentiate between different event types.
// See PlayerEvent docs for more info.
type PlayerEventKind int

const (
	// EventUnknown is a sentinel value.
	// You should never receive an event of this kind.
	EventUnknown PlayerEventKind = iota

	// EventNote is emitted every time a channel is (re)triggered.
	//
	// Use PlayerEvent.NoteEventData to get the event data.
	EventNote

	// EventVoiceEnd is emitted when a non-looping sample is played
	// through and its channel becomes silent.
	EventVoiceEnd
)

// PlayerEvent holds a single Player event data.
// This object is an argument to the Player.SetEventHandler function.
//
// Every event has a Time value. This is a moment when this event happened
// in relation to the module load (in seconds of the rendered audio).
// A triggered note becomes audible at the time of the next Fill call,
// so it carries the time of the last rendered frame.
type PlayerEvent struct {
	Kind PlayerEventKind

	// Channel is an event channel index.
	Channel int

	// Time represents the playback offset in seconds.
	Time float64

	value uint64
}

func makeNoteEventValue(sampleNum int, period uint16) uint64 {
	return uint64(sampleNum)<<16 | uint64(period)
}

// NoteEventData returns the event data if e.Kind=EventNote.
// The return values are: the 1-based sample number and the resolved period
// (with the sample fine-tune applied).
func (e PlayerEvent) NoteEventData() (sampleNum int, period uint16) {
	return int(e.value >> 16), uint16(e.value)
}
