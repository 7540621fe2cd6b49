package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/quasilyte/ptmod"
	"gopkg.in/yaml.v3"
)

type config struct {
	SampleRate int  `yaml:"sample_rate"`
	Stereo     bool `yaml:"stereo"`
	Crossfeed  bool `yaml:"crossfeed"`
	LowPass    bool `yaml:"lowpass"`

	// BufferMS is the audio device buffer size in milliseconds.
	BufferMS int `yaml:"buffer_ms"`

	LiveChannel int `yaml:"live_channel"`

	// LiveSample is a 1-based sample number.
	// Zero selects the first non-empty sample.
	LiveSample int `yaml:"live_sample"`

	// BaseNote is a MIDI key that plays ProTracker C-1.
	BaseNote int `yaml:"base_note"`

	MIDI midiConfig `yaml:"midi"`
}

type midiConfig struct {
	// Input is a MIDI input port name prefix.
	// An empty string disables the MIDI input.
	Input string `yaml:"input"`

	// Channel is a 1-based channel filter; 0 means "all channels".
	Channel int `yaml:"channel"`
}

func defaultConfig() config {
	return config{
		SampleRate: ptmod.DefaultSampleRate,
		Stereo:     true,
		Crossfeed:  true,
		LowPass:    true,
		BufferMS:   50,
		BaseNote:   48,
	}
}

func loadConfig(filename string) (config, error) {
	if filename == "" {
		return defaultConfig(), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := parseConfig(data)
	if err != nil {
		return config{}, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// parseConfig decodes the YAML config on top of the default values.
// Unknown keys are reported as errors.
func parseConfig(data []byte) (config, error) {
	cfg := defaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (cfg *config) validate() error {
	if cfg.SampleRate < ptmod.MinSampleRate || cfg.SampleRate > ptmod.MaxSampleRate {
		return fmt.Errorf("sample_rate: %d is out of [%d, %d] range",
			cfg.SampleRate, ptmod.MinSampleRate, ptmod.MaxSampleRate)
	}
	if cfg.BufferMS < 0 {
		return fmt.Errorf("buffer_ms: negative value %d", cfg.BufferMS)
	}
	if cfg.LiveChannel < 0 || cfg.LiveChannel > 31 {
		return fmt.Errorf("live_channel: %d is out of [0, 31] range", cfg.LiveChannel)
	}
	if cfg.LiveSample < 0 || cfg.LiveSample > 31 {
		return fmt.Errorf("live_sample: %d is out of [0, 31] range", cfg.LiveSample)
	}
	if cfg.BaseNote < 0 || cfg.BaseNote > 127 {
		return fmt.Errorf("base_note: %d is not a MIDI key", cfg.BaseNote)
	}
	if cfg.MIDI.Channel < 0 || cfg.MIDI.Channel > 16 {
		return fmt.Errorf("midi.channel: %d is out of [0, 16] range", cfg.MIDI.Channel)
	}
	return nil
}
