package modfile

import (
	"encoding/binary"
	"fmt"
	"strings"
)

type parser struct {
	// Data holds the MOD file input data bytes.
	data []byte

	// Offset is our current position inside the data.
	offset int

	// Module holds the results of MOD parsing.
	module Module

	notePool slabPool[Note]

	config ParserConfig

	// These fields below are needed for better error reporting.
	stage      string
	stageIndex int
}

func newParser(config ParserConfig) *parser {
	p := &parser{config: config}
	// One slab fits 16 patterns of a 4-channel module.
	initSlabPool(&p.notePool, 16*RowsPerPattern*4, 8)
	return p
}

func (p *parser) Parse(data []byte) error {
	p.data = data
	p.reset()
	return p.parse()
}

func (p *parser) reset() {
	p.offset = 0
	p.notePool.reset()
	patterns := p.module.Patterns[:0]
	p.module = Module{Patterns: patterns}
}

func (p *parser) startStage(name string) {
	p.stage = name
	p.stageIndex = -1
}

func (p *parser) formatStage() string {
	if p.stageIndex < 0 {
		return p.stage
	}
	return fmt.Sprintf("%s[%d]", p.stage, p.stageIndex)
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	text := fmt.Sprintf(format, args...)
	if tag := p.formatStage(); tag != "" {
		text = tag + ": " + text
	}
	return &ParseError{
		Message: text,
		Offset:  p.offset,
	}
}

func (p *parser) dataBytesRemaining() int {
	return len(p.data) - p.offset
}

func (p *parser) require(l int, what string) {
	if l < 0 || p.dataBytesRemaining() < l {
		panic(p.errorf("unexpected EOF while reading %s", what))
	}
}

func (p *parser) skip(l int, what string) {
	p.require(l, what)
	p.offset += l
}

func (p *parser) read(l int, what string) []byte {
	p.require(l, what)
	b := p.data[p.offset : p.offset+l : p.offset+l]
	p.offset += l
	return b
}

func (p *parser) readOptionalString(l int, what string) string {
	if !p.config.NeedStrings {
		p.skip(l, what)
		return ""
	}
	return convertCstring(p.read(l, what))
}

func (p *parser) readWord(what string) uint16 {
	return binary.BigEndian.Uint16(p.read(2, what))
}

func (p *parser) readByte(what string) uint8 {
	p.require(1, what)
	b := p.data[p.offset]
	p.offset++
	return b
}

func (p *parser) parse() (err error) {
	defer func() {
		rv := recover()
		if rv != nil {
			if parseErr, ok := rv.(*ParseError); ok {
				err = parseErr
			} else {
				panic(rv)
			}
		}
	}()

	p.parseModule()

	return err // See the deferred call above
}

func (p *parser) parseModule() {
	// The format has no explicit header size field;
	// check the signature first to fail early on non-MOD inputs.
	p.startStage("signature")
	p.parseSignature()

	p.startStage("header")
	copy(p.module.Title[:], p.read(TitleSize, "title"))
	p.module.Name = convertCstring(p.module.Title[:])

	p.startStage("sample header")
	for i := range p.module.Samples {
		p.stageIndex = i
		p.parseSampleHeader(&p.module.Samples[i])
	}

	p.startStage("order table")
	// Out of range values are clamped, the pattern count doesn't depend on it.
	p.module.SongLength = min(max(int(p.readByte("song length")), 1), NumOrders)
	p.module.RestartPosition = int(p.readByte("restart position"))
	copy(p.module.PatternOrder[:], p.read(NumOrders, "pattern order table"))
	maxPattern := 0
	for _, index := range p.module.PatternOrder {
		maxPattern = max(maxPattern, int(index))
	}
	p.module.NumPatterns = maxPattern + 1

	p.skip(4, "signature")

	p.startStage("pattern")
	for i := 0; i < p.module.NumPatterns; i++ {
		p.stageIndex = i
		p.module.Patterns = append(p.module.Patterns, p.parsePattern())
	}

	p.startStage("sample data")
	for i := range p.module.Samples {
		p.stageIndex = i
		p.parseSampleData(&p.module.Samples[i])
	}
}

func (p *parser) parseSignature() {
	if len(p.data) < signatureOffset+4 {
		panic(p.errorf("unexpected EOF while reading signature"))
	}
	sig := p.data[signatureOffset : signatureOffset+4]

	numChannels := 0
	switch s := string(sig); s {
	case "M.K.", "M!K!", "M&K!", "FLT4", "4CHN":
		numChannels = 4
	case "FLT8", "OKTA", "OCTA", "CD81":
		numChannels = 8
	default:
		switch {
		case strings.HasPrefix(s, "TDZ") && isDigit(s[3]):
			numChannels = int(s[3] - '0')
		case strings.HasSuffix(s, "CHN") && isDigit(s[0]):
			numChannels = int(s[0] - '0')
		case strings.HasSuffix(s, "CH") && isDigit(s[0]) && isDigit(s[1]):
			numChannels = int(s[0]-'0')*10 + int(s[1]-'0')
		default:
			panic(p.errorf("unrecognized MOD signature %q", s))
		}
	}
	if numChannels == 0 || numChannels > 32 {
		panic(p.errorf("unsupported number of channels: %d", numChannels))
	}

	p.module.Signature = string(sig)
	p.module.NumChannels = numChannels
}

func (p *parser) parseSampleHeader(sample *Sample) {
	sample.Name = p.readOptionalString(sampleNameSize, "sample name")
	sample.Length = int(p.readWord("sample length"))
	sample.Finetune = p.readByte("sample finetune") & 0x0f
	sample.Volume = min(p.readByte("sample volume"), 64)
	sample.LoopStart = int(p.readWord("sample loop start"))
	sample.LoopLength = int(p.readWord("sample loop length"))
	clampLoop(sample)
}

// clampLoop makes sure that LoopStart+LoopLength <= Length.
func clampLoop(sample *Sample) {
	if sample.LoopStart > sample.Length {
		sample.LoopStart = sample.Length
	}
	if sample.LoopStart+sample.LoopLength > sample.Length {
		sample.LoopLength = sample.Length - sample.LoopStart
	}
}

func (p *parser) parsePattern() Pattern {
	numChannels := p.module.NumChannels
	raw := p.read(PatternSize(numChannels), "pattern data")
	pat := Pattern{Notes: p.notePool.makeSlice(RowsPerPattern * numChannels)}
	for i := range pat.Notes {
		pat.Notes[i] = decodeNote(raw[i*cellSize:])
	}
	return pat
}

// decodeNote unpacks a 4-byte cell:
//
//	ssss pppp  pppp pppp  ssss eeee  aaaa aaaa
//
// where s is a sample number (high nibble comes first),
// p is a 12-bit period, e is an effect and a is its parameter.
func decodeNote(b []byte) Note {
	return Note{
		Sample: (b[0] & 0xf0) | (b[2] >> 4),
		Period: uint16(b[0]&0x0f)<<8 | uint16(b[1]),
		Effect: b[2] & 0x0f,
		Param:  b[3],
	}
}

func (p *parser) parseSampleData(sample *Sample) {
	if sample.Length == 0 {
		return
	}
	numBytes := sample.Length * 2
	if p.config.AllowTruncatedSamples && p.dataBytesRemaining() < numBytes {
		numBytes = p.dataBytesRemaining() &^ 1
		sample.Length = numBytes / 2
		clampLoop(sample)
		if sample.Length == 0 {
			return
		}
	}
	sample.Data = p.read(numBytes, "sample data")
}
