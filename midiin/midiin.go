// Package midiin turns MIDI note messages into ptmod live voice triggers.
//
// The package doesn't register any MIDI driver itself:
// the caller picks one (see cmd/modplay for the rtmidi setup).
package midiin

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/quasilyte/ptmod"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Target is a live voice receiver; *ptmod.Player implements it.
type Target interface {
	Trigger(period uint16)
}

// Config describes the key mapping.
type Config struct {
	// Channel is a 1-based MIDI channel to listen to.
	// A zero value means "all channels".
	Channel int

	// BaseNote is a MIDI key number that plays ProTracker C-1.
	// A zero value means 48, so the middle C (60) plays C-2.
	BaseNote int
}

const defaultBaseNote = 48

// Listener maps note-on messages to Trigger calls.
//
// Only one key sounds at a time: a new note-on retriggers the voice,
// a note-off silences it only if it releases the last pressed key.
type Listener struct {
	target Target
	config Config

	mu        sync.Mutex
	activeKey int
	in        drivers.In
	stop      func()
}

func NewListener(target Target, config Config) *Listener {
	if config.BaseNote == 0 {
		config.BaseNote = defaultBaseNote
	}
	return &Listener{
		target:    target,
		config:    config,
		activeKey: -1,
	}
}

// PeriodForKey returns a period the key is mapped to.
func (l *Listener) PeriodForKey(key uint8) uint16 {
	return ptmod.PeriodForNote(ptmod.ProTrackerC1 + int(key) - l.config.BaseNote)
}

// HandleMessage processes a single MIDI message.
// Its signature matches the midi.ListenTo callback.
func (l *Listener) HandleMessage(msg midi.Message, timestampms int32) {
	var channel, key, velocity uint8
	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		if !l.acceptChannel(channel) {
			return
		}
		if velocity == 0 {
			l.noteOff(key)
		} else {
			l.noteOn(key)
		}
	case msg.GetNoteOff(&channel, &key, &velocity):
		if !l.acceptChannel(channel) {
			return
		}
		l.noteOff(key)
	}
}

func (l *Listener) acceptChannel(channel uint8) bool {
	return l.config.Channel == 0 || int(channel)+1 == l.config.Channel
}

func (l *Listener) noteOn(key uint8) {
	l.mu.Lock()
	l.activeKey = int(key)
	l.mu.Unlock()
	l.target.Trigger(l.PeriodForKey(key))
}

func (l *Listener) noteOff(key uint8) {
	l.mu.Lock()
	if l.activeKey != int(key) {
		l.mu.Unlock()
		return
	}
	l.activeKey = -1
	l.mu.Unlock()
	l.target.Trigger(0)
}

// Open starts listening to the input port.
// The previously opened port is closed.
func (l *Listener) Open(in drivers.In) error {
	l.Close()

	if !in.IsOpen() {
		if err := in.Open(); err != nil {
			return fmt.Errorf("opening MIDI input %q: %w", in.String(), err)
		}
	}
	stop, err := midi.ListenTo(in, l.HandleMessage)
	if err != nil {
		in.Close()
		return fmt.Errorf("listening to MIDI input %q: %w", in.String(), err)
	}

	l.mu.Lock()
	l.in = in
	l.stop = stop
	l.mu.Unlock()
	return nil
}

// Close stops listening and closes the input port.
func (l *Listener) Close() {
	l.mu.Lock()
	in, stop := l.in, l.stop
	l.in = nil
	l.stop = nil
	l.mu.Unlock()

	if stop != nil {
		stop()
	}
	if in != nil && in.IsOpen() {
		in.Close()
	}
}

// FindInput selects an input port by its name prefix.
// An empty prefix selects the first port.
func FindInput(ins []drivers.In, namePrefix string) (drivers.In, error) {
	if len(ins) == 0 {
		return nil, errors.New("no MIDI inputs found")
	}
	for _, in := range ins {
		if strings.HasPrefix(in.String(), namePrefix) {
			return in, nil
		}
	}
	return nil, fmt.Errorf("no MIDI input starting with %q", namePrefix)
}
