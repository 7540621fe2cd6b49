package ptmod

import (
	"github.com/quasilyte/ptmod/internal/moddb"
)

// Trigger (re)starts the live voice with the given period.
//
// It's intended to be called from a live input source (keyboard, MIDI)
// concurrently with the audio driver. The change is visible starting
// from the first frame of the next Fill call.
//
// The live voice plays the live sample (see SetLiveSample) on
// the live channel (see SetLiveChannel); only the pitch is changed here.
// A zero period silences the voice while keeping its sample assigned.
// Periods above 0xfff are clamped.
func (p *Player) Trigger(rawPeriod uint16) {
	p.mu.Lock()
	if len(p.channels) == 0 {
		p.mu.Unlock()
		return
	}
	if rawPeriod == 0 {
		ch := &p.channels[p.liveChannel]
		ch.period = 0
		ch.increment = 0
	} else {
		cell := moddb.MakeCell(0, int(rawPeriod), moddb.EffectArpeggio, 0)
		p.triggerChannel(p.liveChannel, cell)
	}
	events, handler := p.takeEvents()
	p.mu.Unlock()

	dispatchEvents(handler, events)
}

// TriggerSemitone is like Trigger, but it takes a semitone index
// instead of a raw period. See PeriodForNote.
func (p *Player) TriggerSemitone(semitone int) {
	p.Trigger(PeriodForNote(semitone))
}

// SetLiveSample selects a 1-based sample number the live voice plays.
// The new sample is used starting from the next Trigger call.
//
// After Load, the first non-empty sample is selected.
// Out of range numbers are clamped.
func (p *Player) SetLiveSample(sampleNum int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.liveSample = clamp(sampleNum, 0, len(p.module.samples))
	if len(p.channels) != 0 {
		p.channels[p.liveChannel].sampleNum = p.liveSample
	}
}

// SetLiveChannel selects the channel index that is used by Trigger.
// The channel index affects the live voice panning (see Fill).
//
// The default value is 0. Out of range indexes are clamped.
func (p *Player) SetLiveChannel(channelIndex int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	limit := maxChannels - 1
	if len(p.channels) != 0 {
		limit = len(p.channels) - 1
	}
	p.liveChannel = clamp(channelIndex, 0, limit)
	if len(p.channels) != 0 {
		ch := &p.channels[p.liveChannel]
		if ch.sampleNum == 0 {
			ch.sampleNum = p.liveSample
		}
	}
}
