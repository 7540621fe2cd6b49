package modfile

// Module is a parsed MOD file contents.
// This is a raw module format that is not optimized for anything.
//
// Sample data slices point into the parsed bytes; the module
// is only valid as long as that input is not modified.
type Module struct {
	// Title is the raw 20-byte title block, copied verbatim.
	Title [TitleSize]byte

	// Name is a Title converted to a string with trailing NULs and spaces removed.
	Name string

	// Signature is a 4-byte format tag like "M.K." or "8CHN".
	Signature string

	NumChannels int
	NumPatterns int

	// SongLength is a number of used entries inside PatternOrder.
	SongLength int

	// RestartPosition is a legacy restart byte.
	// Most trackers store 127 or 0 here.
	RestartPosition int

	// PatternOrder is the complete 128-entry order table.
	// Only first SongLength entries are played by trackers,
	// but all of them are used to compute the number of patterns.
	PatternOrder [NumOrders]uint8

	Patterns []Pattern

	// Samples always has NumSamples elements.
	// Samples with zero length have nil Data.
	Samples [NumSamples]Sample
}

const (
	TitleSize      = 20
	NumSamples     = 31
	NumOrders      = 128
	RowsPerPattern = 64

	sampleNameSize   = 22
	sampleHeaderSize = 30
	cellSize         = 4

	// signatureOffset is a position of the format tag.
	// It goes right after the title, sample headers, song length,
	// restart byte and the order table.
	signatureOffset = TitleSize + NumSamples*sampleHeaderSize + 2 + NumOrders
)

// PatternSize returns a number of bytes a single pattern block
// occupies for the given channels count.
func PatternSize(numChannels int) int {
	return RowsPerPattern * numChannels * cellSize
}

type Pattern struct {
	// Notes are stored in row-major order:
	// RowsPerPattern rows with NumChannels notes in each of them.
	Notes []Note
}

// Row returns notes of the specified row.
func (p *Pattern) Row(i, numChannels int) []Note {
	return p.Notes[i*numChannels : (i+1)*numChannels]
}

// Note is a decoded 4-byte pattern cell.
type Note struct {
	// Sample is a 1-based sample number; 0 means "no sample change".
	Sample uint8

	// Period is a 12-bit Amiga period; 0 means "no note".
	Period uint16

	Effect uint8
	Param  uint8
}

type Sample struct {
	Name string

	// Length, LoopStart and LoopLength are measured in words (2 bytes).
	Length     int
	LoopStart  int
	LoopLength int

	// Finetune is a raw 4-bit value.
	// 0-7 are positive steps, 8-15 are negative (-8 to -1).
	Finetune uint8

	// Volume is in [0, 64] range.
	Volume uint8

	// Data holds signed 8-bit mono PCM bytes.
	// It's a view into the parsed bytes, not a copy.
	Data []byte
}

// HasLoop reports whether the sample has a real sustain loop.
// A loop length of 1 word is a format convention for "no loop".
func (s *Sample) HasLoop() bool {
	return s.LoopLength >= MinLoopLength
}

// MinLoopLength is the smallest loop length (in words) that is actually looped.
const MinLoopLength = 2

// ParserConfig configures the Parser.
type ParserConfig struct {
	// NeedStrings enables sample names decoding.
	// When false, Sample.Name is always empty.
	NeedStrings bool

	// AllowTruncatedSamples makes the parser accept a sample data region
	// that ends prematurely; the last sample is cut down to the available
	// bytes instead of failing with ErrMalformedImage.
	// Some MOD files in the wild are distributed like that.
	AllowTruncatedSamples bool
}

// Parser decodes MOD files.
//
// A single parser can be reused for several files.
// It's not safe for concurrent use.
type Parser struct {
	impl *parser
}

func NewParser(config ParserConfig) *Parser {
	return &Parser{impl: newParser(config)}
}

// ParseFromBytes reads MOD file data and decodes it into a module.
//
// The returned module shares sample data with the data slice.
// It's only valid until the next Parse call as the parser reuses
// its pattern memory between the runs.
//
// A non-nil error is a *ParseError object.
func (p *Parser) ParseFromBytes(data []byte) (*Module, error) {
	if err := p.impl.Parse(data); err != nil {
		return nil, err
	}
	m := p.impl.module
	return &m, nil
}

// Parse is a convenience wrapper around a single-use Parser.
func Parse(data []byte) (*Module, error) {
	return NewParser(ParserConfig{NeedStrings: true}).ParseFromBytes(data)
}
