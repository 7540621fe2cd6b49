// Package ptmod implements a ProTracker MOD playback engine.
//
// The Player loads a MOD image and turns its channels state into
// interleaved 16-bit stereo PCM. It can be used directly via Fill()
// or as an io.Reader (see Read) with audio libraries like Ebitengine
// audio package or oto.
//
// Pattern sequencing is not implemented: the notes are started by
// the trigger methods, most notably Trigger() that plays a live voice.
package ptmod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/quasilyte/ptmod/internal/moddb"
	"github.com/quasilyte/ptmod/modfile"
)

// Player is a MOD playback context.
//
// All methods are safe for concurrent use.
// The audio driver goroutine normally calls Fill (or Read) while
// some other goroutine calls Trigger; both share one lock,
// so a long Fill call can delay the Trigger and vice versa.
// Request small buffers if a low note latency is important.
type Player struct {
	mu sync.Mutex

	// loaded is only written under mu, but it's read without it
	// in the unloaded Fill fast path.
	loaded atomic.Bool

	// loadMu serializes the loads, so parsing a module
	// doesn't keep the playback lock busy.
	loadMu sync.Mutex
	parser *modfile.Parser

	// readMu protects the Read() scratch buffer.
	readMu sync.Mutex
	pcmBuf []int16

	module   module
	pitch    pitchTable
	channels []channel

	settings playerSettings

	// rateScale is a per-frame position increment for period=1.
	rateScale fixed

	// Unfiltered sums of the last produced frame.
	// They make the low-pass filter continuous between Fill calls.
	prevLeft  int32
	prevRight int32

	liveChannel int
	liveSample  int

	framesRendered uint64
	pendingEvents  []PlayerEvent
}

type playerSettings struct {
	sampleRate   uint
	stereo       bool
	crossfeed    bool
	lowpass      bool
	eventHandler func(e PlayerEvent)
}

const (
	// DefaultSampleRate is used when a zero sample rate is requested.
	DefaultSampleRate = 44100

	MinSampleRate = 4000
	MaxSampleRate = 192000

	// paulaClock is the PAL Amiga audio clock in Hz.
	// A period is a number of these clock ticks per sample byte.
	paulaClock = 3546895
)

// PlayerInfo contains a player state summary.
type PlayerInfo struct {
	Loaded bool

	Title       string
	NumChannels int
	NumPatterns int

	// NumSamples is a number of samples that have any data.
	NumSamples int

	SampleRate uint
	Stereo     bool
	Crossfeed  bool
	LowPass    bool

	LiveChannel int
	LiveSample  int

	// MemoryUsage approximates the loaded module size in bytes.
	// The sample data is shared with the loaded image and
	// is not included.
	MemoryUsage uint
}

// NewPlayer allocates a player with the default settings:
// 44100 Hz, stereo, crossfeed and low-pass filter enabled.
//
// Use Load or LoadModule to make it play something.
func NewPlayer() *Player {
	p := &Player{
		parser: modfile.NewParser(modfile.ParserConfig{NeedStrings: true}),
		settings: playerSettings{
			sampleRate: DefaultSampleRate,
			stereo:     true,
			crossfeed:  true,
			lowpass:    true,
		},
	}
	buildPitchTable(&p.pitch)
	p.rateScale = calcRateScale(DefaultSampleRate)
	return p
}

func calcRateScale(sampleRate uint) fixed {
	return (fixed(paulaClock) << fixedFracBits) / fixed(sampleRate)
}

// Configure updates the output settings.
//
// A zero sample rate means DefaultSampleRate.
// The rate must be in [MinSampleRate, MaxSampleRate] range.
//
// It's safe to call it before or after Load; playing voices keep
// their pitch after the sample rate change.
func (p *Player) Configure(sampleRate uint, crossfeed, lowpass bool) error {
	if sampleRate == 0 {
		sampleRate = DefaultSampleRate
	}
	if sampleRate < MinSampleRate || sampleRate > MaxSampleRate {
		return fmt.Errorf("unsupported sample rate %d (expected a value in [%d, %d])",
			sampleRate, MinSampleRate, MaxSampleRate)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.settings.sampleRate = sampleRate
	p.settings.crossfeed = crossfeed
	p.settings.lowpass = lowpass
	p.rateScale = calcRateScale(sampleRate)
	for i := range p.channels {
		ch := &p.channels[i]
		ch.increment = p.incrementFor(ch.period)
	}
	return nil
}

// SetStereo toggles the stereo output.
// In mono mode both output slots carry the same mixed signal
// and the crossfeed is not applied.
func (p *Player) SetStereo(stereo bool) {
	p.mu.Lock()
	p.settings.stereo = stereo
	p.mu.Unlock()
}

// SetEventHandler installs an event listener to the player.
//
// f is called on every player event.
// It's never called while the player lock is held,
// so it's allowed to call the player methods from it.
func (p *Player) SetEventHandler(f func(e PlayerEvent)) {
	p.mu.Lock()
	p.settings.eventHandler = f
	p.mu.Unlock()
}

// Load parses the MOD image and makes it the current module.
//
// The sample data is not copied: data must not be modified while
// the module is loaded.
//
// A malformed image results in a *modfile.ParseError
// (errors.Is(err, modfile.ErrMalformedImage) is true for it).
// A failed load leaves the player unloaded.
func (p *Player) Load(data []byte) error {
	if len(data) == 0 {
		p.Unload()
		return fmt.Errorf("empty module image: %w", modfile.ErrMalformedImage)
	}

	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	m, err := p.parser.ParseFromBytes(data)
	if err != nil {
		p.Unload()
		return err
	}
	return p.LoadModule(m)
}

// LoadModule makes the parsed module current.
//
// The module sample data slices are used directly.
// A failed load leaves the player unloaded.
func (p *Player) LoadModule(m *modfile.Module) error {
	compiled, err := compileModule(m)
	if err != nil {
		p.Unload()
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.module = compiled
	if cap(p.channels) < compiled.numChannels {
		p.channels = make([]channel, compiled.numChannels)
	}
	p.channels = p.channels[:compiled.numChannels]
	p.resetPlayback()

	p.liveChannel = clamp(p.liveChannel, 0, compiled.numChannels-1)
	p.liveSample = compiled.firstSample
	p.channels[p.liveChannel].sampleNum = p.liveSample

	p.loaded.Store(true)
	return nil
}

// Unload drops the current module.
// The player returns to its post-NewPlayer state (settings are kept).
func (p *Player) Unload() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.loaded.Store(false)
	p.module = module{}
	p.channels = p.channels[:0]
	p.liveSample = 0
	p.resetPlayback()
}

func (p *Player) resetPlayback() {
	for i := range p.channels {
		p.channels[i].Reset()
	}
	p.prevLeft = 0
	p.prevRight = 0
	p.framesRendered = 0
	p.pendingEvents = p.pendingEvents[:0]
}

// Info returns the player state summary.
func (p *Player) Info() PlayerInfo {
	p.mu.Lock()
	defer p.mu.Unlock()

	numSamples := 0
	for i := range p.module.samples {
		if len(p.module.samples[i].data) != 0 {
			numSamples++
		}
	}

	return PlayerInfo{
		Loaded:      p.loaded.Load(),
		Title:       p.module.title,
		NumChannels: p.module.numChannels,
		NumPatterns: len(p.module.patterns),
		NumSamples:  numSamples,
		SampleRate:  p.settings.sampleRate,
		Stereo:      p.settings.stereo,
		Crossfeed:   p.settings.crossfeed,
		LowPass:     p.settings.lowpass,
		LiveChannel: p.liveChannel,
		LiveSample:  p.liveSample,
		MemoryUsage: moduleSize(&p.module),
	}
}

// Fill renders frames stereo frames into out.
//
// out is filled with interleaved left/right samples;
// frames is clamped to len(out)/2.
// When no module is loaded, the frames are silent.
//
// Two consecutive Fill calls produce the same output as one
// bigger call, unless some trigger is executed between them.
func (p *Player) Fill(out []int16, frames int) {
	frames = clamp(frames, 0, len(out)/2)
	buf := out[:frames*2]

	if !p.loaded.Load() {
		clear(buf)
		return
	}

	p.mu.Lock()
	if !p.loaded.Load() {
		// Unloaded while we were waiting for the lock.
		p.mu.Unlock()
		clear(buf)
		return
	}
	p.mix(buf)
	events, handler := p.takeEvents()
	p.mu.Unlock()

	dispatchEvents(handler, events)
}

// Read implements io.Reader by rendering 16-bit little-endian PCM frames.
//
// Only whole frames (4 bytes) are written.
// Read never returns an error: when there is nothing to play,
// it produces silence.
func (p *Player) Read(b []byte) (int, error) {
	frames := len(b) / 4
	if frames == 0 {
		return 0, nil
	}

	p.readMu.Lock()
	defer p.readMu.Unlock()

	if cap(p.pcmBuf) < frames*2 {
		p.pcmBuf = make([]int16, frames*2)
	}
	pcm := p.pcmBuf[:frames*2]
	p.Fill(pcm, frames)
	for i := 0; i < frames; i++ {
		putPCM(b[i*4:], pcm[i*2], pcm[i*2+1])
	}

	return frames * 4, nil
}

// TriggerNote starts a note on the given channel.
//
// sampleNum is 1-based; 0 keeps the current channel sample.
// period is an Amiga period (values above 0xfff are clamped);
// 0 keeps the current channel period.
// Both being zero is a no-op.
//
// Out of range channel indexes are ignored.
func (p *Player) TriggerNote(channelIndex, sampleNum int, period uint16) {
	cell := moddb.MakeCell(sampleNum, int(period), moddb.EffectArpeggio, 0)

	p.mu.Lock()
	if channelIndex >= 0 && channelIndex < len(p.channels) {
		p.triggerChannel(channelIndex, cell)
	}
	events, handler := p.takeEvents()
	p.mu.Unlock()

	dispatchEvents(handler, events)
}

// TriggerRow triggers every channel using the notes of the
// specified pattern row.
//
// Only the sample and period parts of the notes are used:
// effects are not executed.
// Out of range pattern or row indexes are ignored.
func (p *Player) TriggerRow(pattern, row int) {
	p.mu.Lock()
	for i, cell := range p.module.row(pattern, row) {
		p.triggerChannel(i, cell)
	}
	events, handler := p.takeEvents()
	p.mu.Unlock()

	dispatchEvents(handler, events)
}

// triggerChannel resolves a cell into the channel playback state.
// Must be called with mu held.
func (p *Player) triggerChannel(channelIndex int, cell moddb.Cell) {
	if cell.IsEmpty() {
		return
	}

	ch := &p.channels[channelIndex]
	sampleNum := cell.Sample()
	if sampleNum == 0 {
		sampleNum = ch.sampleNum
	}
	ch.assignSample(sampleNum, p.module.sampleByNumber(sampleNum))
	if period := cell.Period(); period != 0 {
		ch.period = p.pitch.finetune(uint16(period), ch.finetune)
	}
	ch.increment = p.incrementFor(ch.period)

	p.emit(PlayerEvent{
		Kind:    EventNote,
		Channel: channelIndex,
		value:   makeNoteEventValue(sampleNum, ch.period),
	})
}

func (p *Player) incrementFor(period uint16) fixed {
	if period == 0 {
		return 0
	}
	return p.rateScale / fixed(period)
}

// emit records an event; must be called with mu held.
func (p *Player) emit(e PlayerEvent) {
	if p.settings.eventHandler == nil {
		return
	}
	e.Time = float64(p.framesRendered) / float64(p.settings.sampleRate)
	p.pendingEvents = append(p.pendingEvents, e)
}

// takeEvents detaches the pending events; must be called with mu held.
func (p *Player) takeEvents() ([]PlayerEvent, func(PlayerEvent)) {
	if len(p.pendingEvents) == 0 {
		return nil, nil
	}
	events := p.pendingEvents
	p.pendingEvents = nil
	return events, p.settings.eventHandler
}

func dispatchEvents(handler func(PlayerEvent), events []PlayerEvent) {
	if handler == nil {
		return
	}
	for _, e := range events {
		handler(e)
	}
}
