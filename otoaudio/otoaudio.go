// Package otoaudio plays ptmod.Player output (or any other 16-bit stereo
// PCM io.Reader) through github.com/ebitengine/oto/v3.
//
// oto allows only one context per process, so the context is created
// by the first Open call and shared by all outputs afterwards.
// All outputs must use the same sample rate.
package otoaudio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	numChannels    = 2
	bytesPerSample = 2
)

// Config describes the output device settings.
type Config struct {
	// SampleRate is an output frequency in Hz.
	// A zero value means 44100.
	SampleRate int

	// BufferSize is the device buffer duration.
	// Smaller buffers reduce the live input latency,
	// but too small buffers may cause audio glitches.
	// A zero value means the oto default.
	BufferSize time.Duration
}

func (config Config) withDefaults() Config {
	if config.SampleRate == 0 {
		config.SampleRate = 44100
	}
	return config
}

// BufferDuration converts a buffer size in milliseconds
// into a Config.BufferSize value.
// Non-positive values result in zero (the default buffer size).
func BufferDuration(ms int) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

var (
	sharedMu   sync.Mutex
	sharedCtx  *oto.Context
	sharedRate int
)

func getContext(config Config) (*oto.Context, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedCtx != nil {
		if sharedRate != config.SampleRate {
			return nil, fmt.Errorf("audio context is already running at %d Hz (requested %d Hz)",
				sharedRate, config.SampleRate)
		}
		return sharedCtx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   config.SampleRate,
		ChannelCount: numChannels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   config.BufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("create oto context: %w", err)
	}
	<-ready

	sharedCtx = ctx
	sharedRate = config.SampleRate
	return ctx, nil
}

// Output is a single playing stream.
type Output struct {
	mu     sync.Mutex
	player *oto.Player
}

// Open creates an output that pulls the PCM data from src.
// The output is paused until Play is called.
//
// src is read from the oto audio goroutine.
func Open(src io.Reader, config Config) (*Output, error) {
	config = config.withDefaults()
	ctx, err := getContext(config)
	if err != nil {
		return nil, err
	}
	return &Output{
		player: ctx.NewPlayer(src),
	}, nil
}

// Play starts (or resumes) the playback.
func (o *Output) Play() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil {
		o.player.Play()
	}
}

// Pause suspends the playback; Play resumes it.
func (o *Output) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil {
		o.player.Pause()
	}
}

func (o *Output) IsPlaying() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.player != nil && o.player.IsPlaying()
}

// SetVolume sets the output volume in [0, 1] range.
func (o *Output) SetVolume(v float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil {
		o.player.SetVolume(min(max(v, 0), 1))
	}
}

// Close stops the playback and releases the player.
// The shared context is kept alive for the next Open call.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	if err != nil {
		return fmt.Errorf("close oto player: %w", err)
	}
	return nil
}

// FrameBytes is a size of a single stereo frame in bytes.
const FrameBytes = numChannels * bytesPerSample
