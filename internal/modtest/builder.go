// Package modtest builds synthetic MOD images for tests.
package modtest

import (
	"bytes"
	"encoding/binary"

	"github.com/quasilyte/ptmod/internal/moddb"
	"github.com/quasilyte/ptmod/modfile"
)

type Sample struct {
	Name string
	Data []int8

	// Length overrides the declared length (in words).
	// A zero value means len(Data)/2.
	Length int

	LoopStart  int
	LoopLength int
	Finetune   uint8
	Volume     uint8
}

type Image struct {
	Title     string
	Signature string // "M.K." if empty

	Orders     []uint8 // {0} if empty
	SongLength int     // len(Orders) if zero

	Samples []Sample

	// Patterns maps a pattern index to its notes (row-major).
	// Missing notes are left empty.
	Patterns map[int][]modfile.Note
}

func (img *Image) numChannels() int {
	sig := img.Signature
	switch {
	case sig == "" || sig == "M.K.":
		return 4
	case sig == "FLT8" || sig == "OKTA":
		return 8
	case len(sig) == 4 && sig[1:] == "CHN":
		return int(sig[0] - '0')
	case len(sig) == 4 && sig[2:] == "CH":
		return int(sig[0]-'0')*10 + int(sig[1]-'0')
	}
	return 4
}

// Bytes encodes the image.
func (img *Image) Bytes() []byte {
	var buf bytes.Buffer

	var title [modfile.TitleSize]byte
	copy(title[:], img.Title)
	buf.Write(title[:])

	for i := 0; i < modfile.NumSamples; i++ {
		var s Sample
		if i < len(img.Samples) {
			s = img.Samples[i]
		}
		var name [22]byte
		copy(name[:], s.Name)
		buf.Write(name[:])
		length := s.Length
		if length == 0 {
			length = len(s.Data) / 2
		}
		binary.Write(&buf, binary.BigEndian, uint16(length))
		buf.WriteByte(s.Finetune)
		buf.WriteByte(s.Volume)
		binary.Write(&buf, binary.BigEndian, uint16(s.LoopStart))
		binary.Write(&buf, binary.BigEndian, uint16(s.LoopLength))
	}

	orders := img.Orders
	if len(orders) == 0 {
		orders = []uint8{0}
	}
	songLength := img.SongLength
	if songLength == 0 {
		songLength = len(orders)
	}
	buf.WriteByte(byte(songLength))
	buf.WriteByte(127)
	var orderTable [modfile.NumOrders]byte
	copy(orderTable[:], orders)
	buf.Write(orderTable[:])
	numPatterns := 0
	for _, o := range orderTable {
		numPatterns = max(numPatterns, int(o)+1)
	}

	sig := img.Signature
	if sig == "" {
		sig = "M.K."
	}
	buf.WriteString(sig)

	numChannels := img.numChannels()
	for i := 0; i < numPatterns; i++ {
		notes := img.Patterns[i]
		for j := 0; j < modfile.RowsPerPattern*numChannels; j++ {
			var cell moddb.Cell
			if j < len(notes) {
				cell = moddb.FromNote(notes[j])
			}
			b := cell.Bytes()
			buf.Write(b[:])
		}
	}

	for _, s := range img.Samples {
		for _, v := range s.Data {
			buf.WriteByte(byte(v))
		}
	}

	return buf.Bytes()
}

// SquareWave returns n bytes alternating between v and -v.
func SquareWave(n int, v int8) []int8 {
	data := make([]int8, n)
	for i := range data {
		if i%2 == 0 {
			data[i] = v
		} else {
			data[i] = -v
		}
	}
	return data
}
