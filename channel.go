package ptmod

// fixed is an unsigned 48.16 fixed-point value.
//
// Channel positions and per-frame increments are measured in sample bytes,
// so fixed(n).index() is directly usable as a sample data index.
type fixed uint64

const (
	fixedFracBits = 16
	fixedOne      = fixed(1) << fixedFracBits
)

func fixedFromInt(v int) fixed { return fixed(v) << fixedFracBits }

func (f fixed) index() int { return int(f >> fixedFracBits) }

// channel is a single playback voice.
// Index of the channel is stable while the module is loaded.
type channel struct {
	// sampleNum is a 1-based owning sample number; 0 means "none".
	sampleNum int

	// These fields are copied from the sample at the trigger time.
	data       []int8
	loopStart  int
	loopLength int
	finetune   uint8
	volume     int32

	period    uint16
	pos       fixed
	increment fixed
}

func (ch *channel) Reset() {
	*ch = channel{}
}

// IsActive reports whether the channel produces any sound.
// A channel with a zero increment keeps its sample, but stays silent.
func (ch *channel) IsActive() bool {
	return ch.period != 0 && ch.increment != 0 && len(ch.data) != 0
}

func (ch *channel) assignSample(num int, s *sample) {
	ch.sampleNum = num
	ch.pos = 0
	if s == nil {
		ch.data = nil
		ch.loopStart = 0
		ch.loopLength = 0
		ch.finetune = 0
		ch.volume = 0
		return
	}
	ch.data = s.data
	ch.loopStart = s.loopStart
	ch.loopLength = s.loopLength
	ch.finetune = s.finetune
	ch.volume = s.volume
}

// stop silences the channel after it played the sample through.
// The period and the sample number are kept, so a pitch-only
// trigger can restart the sample.
func (ch *channel) stop() {
	ch.data = nil
	ch.pos = 0
}

// advance moves the channel one output frame forward.
//
// A looped sample wraps back into its loop region,
// a one-shot sample stops once its end is reached.
// The returned value is true when the channel has just stopped.
func (ch *channel) advance() bool {
	ch.pos += ch.increment
	if ch.loopLength != 0 {
		loopEnd := fixedFromInt(ch.loopStart + ch.loopLength)
		if ch.pos >= loopEnd {
			loopStart := fixedFromInt(ch.loopStart)
			ch.pos = loopStart + (ch.pos-loopStart)%fixedFromInt(ch.loopLength)
		}
		return false
	}
	if ch.pos >= fixedFromInt(len(ch.data)) {
		ch.stop()
		return true
	}
	return false
}
