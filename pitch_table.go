package ptmod

import (
	"strconv"
)

// basePeriods is the extended Amiga period table:
// 12 octaves, one entry per semitone, scaled so the lowest octave
// is 16 times the classic ProTracker C-1..B-1 periods.
// Higher octaves are used by some tracker modules.
var basePeriods = [numSemitones]uint16{
	27392, 25856, 24384, 23040, 21696, 20480, 19328, 18240, 17216, 16256, 15360, 14496,
	13696, 12928, 12192, 11520, 10848, 10240, 9664, 9120, 8608, 8128, 7680, 7248,
	6848, 6464, 6096, 5760, 5424, 5120, 4832, 4560, 4304, 4064, 3840, 3624,
	3424, 3232, 3048, 2880, 2712, 2560, 2416, 2280, 2152, 2032, 1920, 1812,
	1712, 1616, 1524, 1440, 1356, 1280, 1208, 1140, 1076, 1016, 960, 907,
	856, 808, 762, 720, 678, 640, 604, 570, 538, 508, 480, 453,
	428, 404, 381, 360, 339, 320, 302, 285, 269, 254, 240, 226,
	214, 202, 190, 180, 170, 160, 151, 143, 135, 127, 120, 113,
	107, 101, 95, 90, 85, 80, 75, 71, 67, 63, 60, 56,
	53, 50, 47, 45, 42, 40, 37, 35, 33, 31, 30, 28,
	27, 25, 24, 22, 21, 20, 19, 18, 17, 16, 15, 14,
	13, 13, 12, 11, 11, 10, 9, 9, 8, 8, 7, 7,
}

const (
	numSemitones = 12 * 12

	// finetuneSteps is a number of fine-tune slots per semitone.
	finetuneSteps = 8

	pitchTableSize = numSemitones * finetuneSteps
)

type pitchTable [pitchTableSize]uint16

// buildPitchTable expands every semitone into finetuneSteps
// linearly interpolated periods.
//
// The last semitone has no successor, so its slots repeat its period.
func buildPitchTable(tab *pitchTable) {
	for i := 0; i < numSemitones-1; i++ {
		delta := (basePeriods[i] - basePeriods[i+1]) / finetuneSteps
		for j := uint16(0); j < finetuneSteps; j++ {
			tab[i*finetuneSteps+int(j)] = basePeriods[i] - delta*j
		}
	}
	for j := 0; j < finetuneSteps; j++ {
		tab[(numSemitones-1)*finetuneSteps+j] = basePeriods[numSemitones-1]
	}
}

// nearestIndex returns the first (lowest pitch) index whose period
// is not greater than the given one.
// If there is no such entry, len(tab) is returned.
func (tab *pitchTable) nearestIndex(period uint16) int {
	for i, v := range tab {
		if v <= period {
			return i
		}
	}
	return len(tab)
}

// finetune applies the 4-bit sample fine-tune to a period.
//
// Values 1-7 move the pitch up by 1/8 semitone steps,
// values 9-15 are negative (-7 to -1) and move it down.
// Zero fine-tune keeps the period as is.
func (tab *pitchTable) finetune(period uint16, finetune uint8) uint16 {
	finetune &= 0x0f
	if finetune == 0 || period == 0 {
		return period
	}
	i := tab.nearestIndex(period)
	if finetune < 8 {
		i += int(finetune)
	} else {
		i -= 16 - int(finetune)
	}
	return tab[clamp(i, 0, len(tab)-1)]
}

// PeriodForNote returns a period of the given semitone.
//
// Semitone 0 is the lowest note of the extended period table;
// semitone 60 is ProTracker's C-1 (period 856).
// Out of range values are clamped.
func PeriodForNote(semitone int) uint16 {
	return basePeriods[clamp(semitone, 0, numSemitones-1)]
}

// NoteForPeriod finds the semitone that is closest to the period.
// It's an inverse of PeriodForNote.
func NoteForPeriod(period uint16) int {
	if period == 0 {
		return -1
	}
	best := 0
	bestDist := absDiff(basePeriods[0], period)
	for i := 1; i < numSemitones; i++ {
		d := absDiff(basePeriods[i], period)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// ProTrackerC1 is a semitone index of the ProTracker's C-1 note.
const ProTrackerC1 = 60

var noteNames = [12]string{"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-"}

// NoteName formats a period as a tracker note name like "C-1" or "A#3".
//
// Octave numbers follow ProTracker conventions, so the octaves
// below C-0 are rendered with negative numbers.
// Period 0 is rendered as "---".
func NoteName(period uint16) string {
	note := NoteForPeriod(period)
	if note < 0 {
		return "---"
	}
	octave := (note-ProTrackerC1)/12 + 1
	if note < ProTrackerC1 {
		octave = -((ProTrackerC1 - note + 11) / 12) + 1
	}
	return noteNames[note%12] + strconv.Itoa(octave)
}
