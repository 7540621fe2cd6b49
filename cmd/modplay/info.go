package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/quasilyte/ptmod"
	"github.com/quasilyte/ptmod/internal/moddb"
	"github.com/quasilyte/ptmod/modfile"
)

func printModuleInfo(w io.Writer, m *modfile.Module) {
	fmt.Fprintf(w, "title:     %q\n", m.Name)
	fmt.Fprintf(w, "format:    %s (%d channels)\n", m.Signature, m.NumChannels)
	fmt.Fprintf(w, "song:      %d orders, %d patterns, restart at %d\n",
		m.SongLength, m.NumPatterns, m.RestartPosition)

	orders := make([]string, m.SongLength)
	for i := range orders {
		orders[i] = fmt.Sprintf("%02d", m.PatternOrder[i])
	}
	fmt.Fprintf(w, "orders:    %s\n", strings.Join(orders, " "))

	fmt.Fprintln(w, "samples:")
	for i := range m.Samples {
		s := &m.Samples[i]
		if s.Length == 0 && s.Name == "" {
			continue
		}
		loop := "no loop"
		if s.HasLoop() {
			loop = fmt.Sprintf("loop %d+%d", s.LoopStart*2, s.LoopLength*2)
		}
		fmt.Fprintf(w, "  %02d %-22s %6d bytes  vol %2d  fine %2d  %s\n",
			i+1, s.Name, s.Length*2, s.Volume, signedFinetune(s.Finetune), loop)
	}
}

// signedFinetune converts a 4-bit fine-tune to [-8, 7] range.
func signedFinetune(v uint8) int {
	v &= 0x0f
	if v >= 8 {
		return int(v) - 16
	}
	return int(v)
}

// printPattern dumps the pattern in a tracker-like form:
//
//	00 | C-2 01 C20 | --- .. ... | ...
func printPattern(w io.Writer, m *modfile.Module, index int) error {
	if index < 0 || index >= len(m.Patterns) {
		return fmt.Errorf("pattern %d doesn't exist (the module has %d patterns)", index, len(m.Patterns))
	}
	p := m.Patterns[index]
	for row := 0; row < modfile.RowsPerPattern; row++ {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%02d", row)
		for _, n := range p.Row(row, m.NumChannels) {
			sb.WriteString(" | ")
			sb.WriteString(formatCell(moddb.FromNote(n)))
		}
		fmt.Fprintln(w, sb.String())
	}
	return nil
}

func formatCell(c moddb.Cell) string {
	note := ptmod.NoteName(uint16(c.Period()))
	sample := ".."
	if c.Sample() != 0 {
		sample = fmt.Sprintf("%02d", c.Sample())
	}
	effect := "..."
	if !moddb.IsNone(c.Effect(), c.Param()) {
		effect = fmt.Sprintf("%c%02X", c.Effect().Code(), c.Param())
	}
	return note + " " + sample + " " + effect
}
