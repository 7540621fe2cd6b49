package wavfile

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncode(t *testing.T) {
	pcm := []int16{1, -1, 32767, -32768, 0, 256}

	var buf bytes.Buffer
	if err := Encode(&buf, pcm, 22050, 2); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	if len(data) != HeaderSize+len(pcm)*2 {
		t.Fatalf("file size is %d", len(data))
	}

	le := binary.LittleEndian
	tests := []struct {
		name string
		have uint32
		want uint32
	}{
		{"riff size", le.Uint32(data[4:]), uint32(36 + len(pcm)*2)},
		{"fmt size", le.Uint32(data[16:]), 16},
		{"format", uint32(le.Uint16(data[20:])), 1},
		{"channels", uint32(le.Uint16(data[22:])), 2},
		{"rate", le.Uint32(data[24:]), 22050},
		{"byte rate", le.Uint32(data[28:]), 22050 * 4},
		{"block align", uint32(le.Uint16(data[32:])), 4},
		{"bits", uint32(le.Uint16(data[34:])), 16},
		{"data size", le.Uint32(data[40:]), uint32(len(pcm) * 2)},
	}
	for _, test := range tests {
		if test.have != test.want {
			t.Errorf("%s: have %d, want %d", test.name, test.have, test.want)
		}
	}

	for _, tag := range []struct {
		offset int
		want   string
	}{
		{0, "RIFF"},
		{8, "WAVE"},
		{12, "fmt "},
		{36, "data"},
	} {
		if have := string(data[tag.offset : tag.offset+4]); have != tag.want {
			t.Errorf("tag at %d: have %q, want %q", tag.offset, have, tag.want)
		}
	}

	for i, v := range pcm {
		if have := int16(le.Uint16(data[HeaderSize+i*2:])); have != v {
			t.Errorf("sample %d: have %d, want %d", i, have, v)
		}
	}
}

func TestEncodeErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil, 44100, 0); err == nil {
		t.Fatal("expected an error for zero channels")
	}
	if err := Encode(&buf, nil, 0, 2); err == nil {
		t.Fatal("expected an error for zero sample rate")
	}
	if buf.Len() != 0 {
		t.Fatal("failed Encode wrote some data")
	}
}
