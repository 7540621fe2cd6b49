package midiin

import (
	"testing"

	"github.com/quasilyte/ptmod"
	"gitlab.com/gomidi/midi/v2"
)

type recordingTarget struct {
	periods []uint16
}

func (r *recordingTarget) Trigger(period uint16) {
	r.periods = append(r.periods, period)
}

func TestListenerKeyMapping(t *testing.T) {
	tests := []struct {
		baseNote int
		key      uint8
		want     uint16
	}{
		{0, 48, 856},
		{0, 60, 428},
		{0, 61, 404},
		{0, 47, 907},
		{60, 60, 856},
		{60, 72, 428},
		{0, 0, ptmod.PeriodForNote(ptmod.ProTrackerC1 - 48)},
		{0, 127, 9},
		{0, 255, 7}, // Clamped
	}

	for _, test := range tests {
		l := NewListener(&recordingTarget{}, Config{BaseNote: test.baseNote})
		if have := l.PeriodForKey(test.key); have != test.want {
			t.Errorf("base=%d key=%d: have %d, want %d", test.baseNote, test.key, have, test.want)
		}
	}
}

func TestListenerNotes(t *testing.T) {
	target := &recordingTarget{}
	l := NewListener(target, Config{})

	l.HandleMessage(midi.NoteOn(0, 60, 100), 0)
	l.HandleMessage(midi.NoteOn(0, 62, 100), 0)
	l.HandleMessage(midi.NoteOff(0, 60), 0) // Not the active key anymore
	l.HandleMessage(midi.NoteOff(0, 62), 0)
	l.HandleMessage(midi.NoteOff(0, 62), 0) // Already released
	l.HandleMessage(midi.NoteOn(0, 48, 1), 0)
	l.HandleMessage(midi.NoteOn(0, 48, 0), 0) // Zero velocity is a note-off
	l.HandleMessage(midi.ControlChange(0, 7, 100), 0)

	want := []uint16{428, 381, 0, 856, 0}
	if len(target.periods) != len(want) {
		t.Fatalf("have %v, want %v", target.periods, want)
	}
	for i := range want {
		if target.periods[i] != want[i] {
			t.Fatalf("have %v, want %v", target.periods, want)
		}
	}
}

func TestListenerChannelFilter(t *testing.T) {
	target := &recordingTarget{}
	l := NewListener(target, Config{Channel: 2})

	l.HandleMessage(midi.NoteOn(0, 60, 100), 0)
	l.HandleMessage(midi.NoteOn(1, 61, 100), 0)
	l.HandleMessage(midi.NoteOff(0, 61), 0)
	l.HandleMessage(midi.NoteOff(1, 61), 0)

	want := []uint16{404, 0}
	if len(target.periods) != len(want) || target.periods[0] != want[0] || target.periods[1] != want[1] {
		t.Fatalf("have %v, want %v", target.periods, want)
	}
}

func TestListenerDrivesPlayer(t *testing.T) {
	p := ptmod.NewPlayer()
	l := NewListener(p, Config{})
	// Without a module the events are ignored by the player.
	l.HandleMessage(midi.NoteOn(0, 60, 100), 0)
	l.HandleMessage(midi.NoteOff(0, 60), 0)
	if p.Info().Loaded {
		t.Fatal("player became loaded")
	}
}

func TestFindInputEmpty(t *testing.T) {
	if _, err := FindInput(nil, ""); err == nil {
		t.Fatal("expected an error for empty inputs list")
	}
}
