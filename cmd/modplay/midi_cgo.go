//go:build cgo

package main

import (
	"fmt"

	"github.com/quasilyte/ptmod/midiin"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// openMIDI connects the listener to the first input port
// whose name starts with namePrefix.
// The returned function closes the port and the driver.
func openMIDI(listener *midiin.Listener, namePrefix string) (string, func(), error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return "", nil, fmt.Errorf("rtmidi driver: %w", err)
	}
	ins, err := drv.Ins()
	if err != nil {
		drv.Close()
		return "", nil, fmt.Errorf("list MIDI inputs: %w", err)
	}
	in, err := midiin.FindInput(ins, namePrefix)
	if err != nil {
		drv.Close()
		return "", nil, err
	}
	if err := listener.Open(in); err != nil {
		drv.Close()
		return "", nil, err
	}
	closer := func() {
		listener.Close()
		drv.Close()
	}
	return in.String(), closer, nil
}
