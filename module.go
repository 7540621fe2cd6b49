package ptmod

import (
	"github.com/quasilyte/ptmod/internal/moddb"
)

// module is a loaded MOD representation that is ready to be played.
type module struct {
	title       string
	numChannels int

	// samples are indexed by the 1-based sample number minus one.
	samples []sample

	// patterns hold row-major cells, numChannels cells per row.
	patterns [][]moddb.Cell

	// firstSample is a 1-based number of the first sample with data.
	// Zero if the module has no samples at all.
	firstSample int
}

type sample struct {
	// data is a view into the loaded image.
	data []int8

	// Both loop values are in bytes.
	// A zero loopLength means "no loop".
	loopStart  int
	loopLength int

	finetune uint8
	volume   int32
}

// sampleByNumber returns a sample by its 1-based number.
// Out of range numbers result in nil.
func (m *module) sampleByNumber(n int) *sample {
	if n <= 0 || n > len(m.samples) {
		return nil
	}
	return &m.samples[n-1]
}

func (m *module) row(pattern, row int) []moddb.Cell {
	if pattern < 0 || pattern >= len(m.patterns) {
		return nil
	}
	cells := m.patterns[pattern]
	if row < 0 || (row+1)*m.numChannels > len(cells) {
		return nil
	}
	return cells[row*m.numChannels : (row+1)*m.numChannels]
}
