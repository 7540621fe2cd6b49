//go:build !cgo

package main

import (
	"errors"

	"github.com/quasilyte/ptmod/midiin"
)

func openMIDI(listener *midiin.Listener, namePrefix string) (string, func(), error) {
	// rtmidi is a C++ library, there is no MIDI input without cgo.
	return "", nil, errors.New("MIDI input requires a cgo-enabled build")
}
