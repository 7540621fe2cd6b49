package ptmod

import (
	"math"
)

type numeric interface {
	int | int32 | uint16
}

func clamp[T numeric](v, min, max T) T {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func absDiff(a, b uint16) uint16 {
	if a > b {
		return a - b
	}
	return b - a
}

func clampSample(v int32) int16 {
	return int16(clamp(v, math.MinInt16, math.MaxInt16))
}

// putPCM writes a single 16-bit little-endian stereo frame.
func putPCM(b []byte, left, right int16) {
	b[0] = byte(left)
	b[1] = byte(uint16(left) >> 8)
	b[2] = byte(right)
	b[3] = byte(uint16(right) >> 8)
}
