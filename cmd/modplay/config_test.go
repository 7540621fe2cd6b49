package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig([]byte(`
sample_rate: 22050
lowpass: false
buffer_ms: 20
live_sample: 3
midi:
  input: "USB Keystation"
  channel: 10
`))
	if err != nil {
		t.Fatal(err)
	}

	want := defaultConfig()
	want.SampleRate = 22050
	want.LowPass = false
	want.BufferMS = 20
	want.LiveSample = 3
	want.MIDI.Input = "USB Keystation"
	want.MIDI.Channel = 10
	if cfg != want {
		t.Fatalf("have %+v\nwant %+v", cfg, want)
	}
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := parseConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != defaultConfig() {
		t.Fatalf("have %+v, want defaults", cfg)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		input string
		err   string
	}{
		{"sample_rate: 100", "sample_rate"},
		{"sample_rate: 1000000", "sample_rate"},
		{"buffer_ms: -1", "buffer_ms"},
		{"live_channel: 32", "live_channel"},
		{"live_sample: 40", "live_sample"},
		{"base_note: 200", "base_note"},
		{"midi: {channel: 17}", "midi.channel"},
		{"samplerate: 44100", "not found"},
		{"stereo: maybe", "parse config"},
	}

	for _, test := range tests {
		_, err := parseConfig([]byte(test.input))
		if err == nil {
			t.Errorf("%q: expected an error", test.input)
			continue
		}
		if !strings.Contains(err.Error(), test.err) {
			t.Errorf("%q: error %q doesn't mention %q", test.input, err, test.err)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil || cfg != defaultConfig() {
		t.Fatalf("empty filename: (%+v, %v)", cfg, err)
	}

	filename := filepath.Join(t.TempDir(), "modplay.yml")
	if err := os.WriteFile(filename, []byte("stereo: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig(filename)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Stereo {
		t.Fatal("stereo is not disabled")
	}

	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected an error for missing file")
	}
}
