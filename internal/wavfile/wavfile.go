// Package wavfile encodes 16-bit PCM into RIFF/WAVE files.
package wavfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// HeaderSize is the size of the canonical PCM WAVE header.
const HeaderSize = 44

// Encode writes interleaved 16-bit samples as a WAVE file.
func Encode(w io.Writer, pcm []int16, sampleRate, numChannels int) error {
	if numChannels <= 0 {
		return fmt.Errorf("invalid number of channels: %d", numChannels)
	}
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	buf := new(bytes.Buffer)
	buf.Grow(HeaderSize + len(pcm)*2)
	writeHeader(buf, len(pcm), sampleRate, numChannels)
	if err := binary.Write(buf, binary.LittleEndian, pcm); err != nil {
		return fmt.Errorf("could not binary write data to buffer: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return nil
}

// writeHeader writes a PCM header for bufferLength int16 samples
// (all channels together).
func writeHeader(buf *bytes.Buffer, bufferLength, sampleRate, numChannels int) {
	const bytesPerSample = 2
	dataSize := bytesPerSample * bufferLength

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16)) // fmt chunk size
	binary.Write(buf, binary.LittleEndian, uint16(1))  // PCM
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*numChannels*bytesPerSample)) // avgBytesPerSec
	binary.Write(buf, binary.LittleEndian, uint16(numChannels*bytesPerSample))            // blockAlign
	binary.Write(buf, binary.LittleEndian, uint16(8*bytesPerSample))                      // bits per sample
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
}
