package ptmod

import (
	"fmt"

	"github.com/quasilyte/ptmod/internal/moddb"
	"github.com/quasilyte/ptmod/modfile"
)

// maxChannels is the largest channel count a MOD signature can express.
const maxChannels = 32

func compileModule(m *modfile.Module) (module, error) {
	if m.NumChannels <= 0 || m.NumChannels > maxChannels {
		return module{}, fmt.Errorf("unsupported number of channels: %d", m.NumChannels)
	}

	result := module{
		title:       m.Name,
		numChannels: m.NumChannels,
		samples:     make([]sample, len(m.Samples)),
		patterns:    make([][]moddb.Cell, len(m.Patterns)),
	}

	for i := range m.Samples {
		src := &m.Samples[i]
		if src.Length == 0 || len(src.Data) == 0 {
			continue
		}
		result.samples[i] = compileSample(src)
		if result.firstSample == 0 {
			result.firstSample = i + 1
		}
	}

	// Pattern notes are owned by the parser that may reuse them,
	// so the cells are copied here.
	for i := range m.Patterns {
		notes := m.Patterns[i].Notes
		cells := make([]moddb.Cell, len(notes))
		for j, n := range notes {
			cells[j] = moddb.FromNote(n)
		}
		result.patterns[i] = cells
	}

	return result, nil
}

func compileSample(src *modfile.Sample) sample {
	// The declared length is in words.
	// A hand-made module may have it out of sync with the Data slice;
	// the shorter one wins.
	numBytes := min(src.Length*2, len(src.Data))
	data := bytesAsInt8(src.Data[:numBytes])

	s := sample{
		data:     data,
		finetune: src.Finetune & 0x0f,
		volume:   int32(min(src.Volume, 64)),
	}

	if src.HasLoop() {
		loopStart := min(src.LoopStart*2, numBytes)
		loopLength := min(src.LoopLength*2, numBytes-loopStart)
		if loopLength >= modfile.MinLoopLength*2 {
			s.loopStart = loopStart
			s.loopLength = loopLength
		}
	}

	return s
}
