package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/quasilyte/ptmod"
	"golang.org/x/term"
)

// trackerKeys is a classic tracker piano layout:
// the bottom letter row is the lower octave, the top row is the upper one.
var trackerKeys = map[byte]int{
	'z': 0, 's': 1, 'x': 2, 'd': 3, 'c': 4, 'v': 5,
	'g': 6, 'b': 7, 'h': 8, 'n': 9, 'j': 10, 'm': 11,
	',': 12,

	'q': 12, '2': 13, 'w': 14, '3': 15, 'e': 16, 'r': 17,
	'5': 18, 't': 19, '6': 20, 'y': 21, '7': 22, 'u': 23,
	'i': 24,
}

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

type livePlayer interface {
	Trigger(period uint16)
	SetLiveSample(sampleNum int)
	Info() ptmod.PlayerInfo
}

// keyboardSession interprets the terminal key presses.
//
// A terminal doesn't report key releases, so a note keeps sounding
// until the space bar is pressed or another note is played.
type keyboardSession struct {
	player livePlayer

	// octave is a semitone index of the lower row C key.
	octave int

	status func(s string)
}

func newKeyboardSession(p livePlayer, status func(string)) *keyboardSession {
	return &keyboardSession{
		player: p,
		octave: ptmod.ProTrackerC1,
		status: status,
	}
}

// handleKey returns false when the session should be finished.
func (s *keyboardSession) handleKey(b byte) bool {
	if semitone, ok := trackerKeys[b]; ok {
		period := ptmod.PeriodForNote(s.octave + semitone)
		s.player.Trigger(period)
		s.status(fmt.Sprintf("%s sample %02d", ptmod.NoteName(period), s.player.Info().LiveSample))
		return true
	}

	switch b {
	case keyCtrlC, keyEscape:
		return false
	case ' ':
		s.player.Trigger(0)
		s.status("--- note off")
	case '-':
		s.octave = max(s.octave-12, 0)
		s.status(fmt.Sprintf("octave %s", ptmod.NoteName(ptmod.PeriodForNote(s.octave))))
	case '=':
		s.octave = min(s.octave+12, 11*12)
		s.status(fmt.Sprintf("octave %s", ptmod.NoteName(ptmod.PeriodForNote(s.octave))))
	case '[', ']':
		info := s.player.Info()
		sampleNum := info.LiveSample
		if b == '[' {
			sampleNum--
		} else {
			sampleNum++
		}
		s.player.SetLiveSample(min(max(sampleNum, 1), 31))
		s.status(fmt.Sprintf("sample %02d", s.player.Info().LiveSample))
	}
	return true
}

type rawTerminal struct {
	fd    int
	state *term.State
}

func enterRawMode(f *os.File) (*rawTerminal, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal")
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to set raw mode: %w", err)
	}
	return &rawTerminal{fd: fd, state: state}, nil
}

func (t *rawTerminal) Restore() {
	if t.state != nil {
		_ = term.Restore(t.fd, t.state)
		t.state = nil
	}
}

// readKeys sends every input byte to the channel until a read error.
func readKeys(f *os.File, keys chan<- byte) {
	defer close(keys)
	buf := make([]byte, 1)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			keys <- buf[0]
		}
		if err != nil {
			return
		}
	}
}
