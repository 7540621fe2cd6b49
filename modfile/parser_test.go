package modfile_test

import (
	"errors"
	"testing"

	"github.com/quasilyte/ptmod/internal/modtest"
	"github.com/quasilyte/ptmod/modfile"
)

func testImage() *modtest.Image {
	return &modtest.Image{
		Title:  "test song",
		Orders: []uint8{0, 2, 1},
		Samples: []modtest.Sample{
			{Name: "kick", Data: modtest.SquareWave(8, 10), Volume: 64, Finetune: 0x1f},
			{},
			{Name: "pad", Data: modtest.SquareWave(16, 20), Volume: 80, LoopStart: 2, LoopLength: 4},
		},
		Patterns: map[int][]modfile.Note{
			0: {{Sample: 1, Period: 428}, {}, {}, {Sample: 19, Period: 0xabc, Effect: 0xc, Param: 0x20}},
		},
	}
}

func TestParse(t *testing.T) {
	data := testImage().Bytes()
	m, err := modfile.Parse(data)
	if err != nil {
		t.Fatal(err)
	}

	if m.Name != "test song" {
		t.Errorf("name: have %q, want %q", m.Name, "test song")
	}
	if string(m.Title[:9]) != "test song" || m.Title[9] != 0 {
		t.Errorf("title block is not copied verbatim: %q", m.Title)
	}
	if m.Signature != "M.K." || m.NumChannels != 4 {
		t.Errorf("signature: have %q/%d", m.Signature, m.NumChannels)
	}
	if m.SongLength != 3 {
		t.Errorf("song length: have %d, want 3", m.SongLength)
	}
	if m.NumPatterns != 3 || len(m.Patterns) != 3 {
		t.Errorf("patterns: have %d/%d, want 3", m.NumPatterns, len(m.Patterns))
	}

	kick := &m.Samples[0]
	if kick.Name != "kick" || kick.Length != 4 || len(kick.Data) != 8 {
		t.Errorf("kick: have %q len=%d data=%d", kick.Name, kick.Length, len(kick.Data))
	}
	if kick.Finetune != 0xf {
		t.Errorf("finetune must be masked to a nibble: have %#x", kick.Finetune)
	}
	if m.Samples[1].Data != nil {
		t.Errorf("empty sample has data")
	}
	pad := &m.Samples[2]
	if pad.Volume != 64 {
		t.Errorf("volume must be clamped: have %d", pad.Volume)
	}
	if !pad.HasLoop() || pad.LoopStart != 2 || pad.LoopLength != 4 {
		t.Errorf("pad loop: have %d+%d", pad.LoopStart, pad.LoopLength)
	}
	if int8(pad.Data[1]) != -20 {
		t.Errorf("pad data[1]: have %d", int8(pad.Data[1]))
	}

	row := m.Patterns[0].Row(0, m.NumChannels)
	if row[0] != (modfile.Note{Sample: 1, Period: 428}) {
		t.Errorf("row[0]: have %+v", row[0])
	}
	if row[3] != (modfile.Note{Sample: 19, Period: 0xabc, Effect: 0xc, Param: 0x20}) {
		t.Errorf("row[3]: have %+v", row[3])
	}
}

func TestParseSignatures(t *testing.T) {
	tests := []struct {
		sig         string
		numChannels int
	}{
		{"M.K.", 4},
		{"6CHN", 6},
		{"8CHN", 8},
		{"FLT8", 8},
		{"12CH", 12},
		{"32CH", 32},
	}

	for _, test := range tests {
		t.Run(test.sig, func(t *testing.T) {
			img := &modtest.Image{Signature: test.sig}
			m, err := modfile.Parse(img.Bytes())
			if err != nil {
				t.Fatal(err)
			}
			if m.NumChannels != test.numChannels {
				t.Fatalf("have %d channels, want %d", m.NumChannels, test.numChannels)
			}
			if len(m.Patterns[0].Notes) != modfile.RowsPerPattern*test.numChannels {
				t.Fatalf("unexpected pattern size: %d", len(m.Patterns[0].Notes))
			}
		})
	}
}

func TestParseBadSignature(t *testing.T) {
	img := &modtest.Image{Signature: "ABCD"}
	_, err := modfile.Parse(img.Bytes())
	if !errors.Is(err, modfile.ErrMalformedImage) {
		t.Fatalf("expected a malformed image error, have %v", err)
	}
}

func TestParseSongLengthClamp(t *testing.T) {
	tests := []struct {
		value byte
		want  int
	}{
		{0, 1},
		{1, 1},
		{128, 128},
		{129, 128},
		{255, 128},
	}
	for _, test := range tests {
		data := testImage().Bytes()
		data[950] = test.value
		m, err := modfile.Parse(data)
		if err != nil {
			t.Fatalf("song length %d: %v", test.value, err)
		}
		if m.SongLength != test.want {
			t.Errorf("song length %d: have %d, want %d", test.value, m.SongLength, test.want)
		}
		if m.NumPatterns != 3 {
			t.Errorf("song length %d: have %d patterns, want 3", test.value, m.NumPatterns)
		}
	}
}

func TestLoopContainment(t *testing.T) {
	img := &modtest.Image{
		Samples: []modtest.Sample{
			{Data: modtest.SquareWave(8, 1), LoopStart: 2, LoopLength: 10},
			{Data: modtest.SquareWave(8, 1), LoopStart: 9, LoopLength: 3},
			{Data: modtest.SquareWave(8, 1), LoopStart: 0, LoopLength: 4},
		},
	}
	m, err := modfile.Parse(img.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range m.Samples {
		if s.Length == 0 {
			continue
		}
		if s.LoopStart+s.LoopLength > s.Length {
			t.Errorf("sample[%d]: loop %d+%d exceeds length %d", i, s.LoopStart, s.LoopLength, s.Length)
		}
	}
	if m.Samples[0].LoopLength != 2 {
		t.Errorf("sample[0]: loop length is not clamped: %d", m.Samples[0].LoopLength)
	}
	if m.Samples[1].HasLoop() {
		t.Errorf("sample[1]: loop outside of the sample survived")
	}
	if m.Samples[2].LoopLength != 4 {
		t.Errorf("sample[2]: a valid loop was changed")
	}
}

func TestParseTruncated(t *testing.T) {
	data := testImage().Bytes()
	for n := 0; n < len(data); n++ {
		m, err := modfile.Parse(data[:n])
		if err == nil {
			t.Fatalf("truncated at %d: parsed without an error", n)
		}
		if m != nil {
			t.Fatalf("truncated at %d: non-nil module", n)
		}
		var parseErr *modfile.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("truncated at %d: unexpected error type %T", n, err)
		}
		if parseErr.Offset > n {
			t.Fatalf("truncated at %d: error offset %d is out of bounds", n, parseErr.Offset)
		}
	}
}

func TestParseAllowTruncatedSamples(t *testing.T) {
	data := testImage().Bytes()
	p := modfile.NewParser(modfile.ParserConfig{AllowTruncatedSamples: true})

	m, err := p.ParseFromBytes(data[:len(data)-6])
	if err != nil {
		t.Fatal(err)
	}
	pad := &m.Samples[2]
	if pad.Length != 5 || len(pad.Data) != 10 {
		t.Fatalf("pad: have length=%d data=%d", pad.Length, len(pad.Data))
	}
	if pad.LoopStart+pad.LoopLength > pad.Length {
		t.Fatalf("pad loop is not re-clamped: %d+%d", pad.LoopStart, pad.LoopLength)
	}
	if pad.Name != "" {
		t.Fatalf("names are not requested, have %q", pad.Name)
	}
}

func TestParserReuse(t *testing.T) {
	p := modfile.NewParser(modfile.ParserConfig{})
	for i := 0; i < 3; i++ {
		m, err := p.ParseFromBytes(testImage().Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if len(m.Patterns) != 3 {
			t.Fatalf("run %d: have %d patterns", i, len(m.Patterns))
		}
		if m.Patterns[0].Notes[0].Period != 428 {
			t.Fatalf("run %d: pattern data is corrupted", i)
		}
	}
}
