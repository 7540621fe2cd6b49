package main

import (
	"fmt"
	"math"

	"github.com/viterin/vek/vek32"
)

// levelStats holds per-side signal levels normalized to [0, 1].
type levelStats struct {
	Peak [2]float32
	RMS  [2]float32
}

func measureLevels(pcm []int16) levelStats {
	var stats levelStats
	frames := len(pcm) / 2
	if frames == 0 {
		return stats
	}

	side := make([]float32, frames)
	tmp := make([]float32, frames)
	for c := 0; c < 2; c++ {
		for i := range side {
			side[i] = float32(pcm[i*2+c]) / 32768
		}
		power := vek32.Mul_Into(tmp, side, side)
		stats.RMS[c] = float32(math.Sqrt(float64(vek32.Mean(power))))
		vek32.Abs_Inplace(side)
		stats.Peak[c] = vek32.Max(side)
	}
	return stats
}

func formatDecibels(v float32) string {
	if v <= 0 {
		return "-inf dB"
	}
	return fmt.Sprintf("%.1f dB", 20*math.Log10(float64(v)))
}

func (stats levelStats) String() string {
	return fmt.Sprintf("peak L %s R %s, rms L %s R %s",
		formatDecibels(stats.Peak[0]), formatDecibels(stats.Peak[1]),
		formatDecibels(stats.RMS[0]), formatDecibels(stats.RMS[1]))
}
