package moddb

// EffectOp is a ProTracker effect command (the cell "e" nibble).
//
// The playback engine doesn't run a sequencer, so these values
// are only decoded for inspection (pattern dumps, events).
type EffectOp uint8

const (
	EffectArpeggio EffectOp = iota
	EffectPortamentoUp
	EffectPortamentoDown
	EffectNotePortamento
	EffectVibrato
	EffectNotePortamentoWithVolumeSlide
	EffectVibratoWithVolumeSlide
	EffectTremolo
	EffectSetPanning
	EffectSampleOffset
	EffectVolumeSlide
	EffectPositionJump
	EffectSetVolume
	EffectPatternBreak
	EffectExtended
	EffectSetSpeed
)

// Code returns a tracker-style one-character effect name.
func (op EffectOp) Code() byte {
	return "0123456789ABCDEF"[op&0x0f]
}

// IsNone reports whether the effect with the given param does nothing.
// Arpeggio with zero param is how empty cells are encoded.
func IsNone(op EffectOp, param uint8) bool {
	return op == EffectArpeggio && param == 0
}
