package moddb

import (
	"github.com/quasilyte/ptmod/modfile"
)

// Cell is a combined sample/period/effect encoding.
//
// It uses the same bit layout as the MOD pattern cell
// (read as a big-endian 32-bit word):
//
//	ssss pppp pppp pppp ssss eeee aaaa aaaa
//
// The channel trigger consumes cells from the patterns and
// the synthetic cells produced by the live-voice API alike.
type Cell uint32

// MaxPeriod is the biggest period a cell can hold.
const MaxPeriod = 0x0fff

// MakeCell packs the cell fields.
// Sample numbers above 255 and periods above MaxPeriod are clamped.
func MakeCell(sample int, period int, effect EffectOp, param uint8) Cell {
	sample = min(max(sample, 0), 0xff)
	period = min(max(period, 0), MaxPeriod)
	return Cell(uint32(sample&0xf0)<<24 |
		uint32(period)<<16 |
		uint32(sample&0x0f)<<12 |
		uint32(effect&0x0f)<<8 |
		uint32(param))
}

func FromNote(n modfile.Note) Cell {
	return MakeCell(int(n.Sample), int(n.Period), EffectOp(n.Effect), n.Param)
}

func (c Cell) Sample() int { return int((c>>24)&0xf0) | int((c>>12)&0x0f) }

func (c Cell) Period() int { return int((c >> 16) & MaxPeriod) }

func (c Cell) Effect() EffectOp { return EffectOp((c >> 8) & 0x0f) }

func (c Cell) Param() uint8 { return uint8(c) }

// IsEmpty reports whether the cell neither selects a sample nor plays a note.
// Effects are not considered here.
func (c Cell) IsEmpty() bool { return c.Sample() == 0 && c.Period() == 0 }

// Bytes returns the on-disk representation of the cell.
func (c Cell) Bytes() [4]byte {
	return [4]byte{byte(c >> 24), byte(c >> 16), byte(c >> 8), byte(c)}
}
