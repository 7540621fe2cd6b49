package ptmod

import (
	"testing"
)

func TestChannelLoopWrap(t *testing.T) {
	ch := channel{
		data:       make([]int8, 8),
		loopStart:  2,
		loopLength: 4,
		period:     428,
		increment:  fixedFromInt(3),
	}

	wantPos := []int{3, 2, 5, 4, 3, 2}
	for i, want := range wantPos {
		if ch.advance() {
			t.Fatalf("step %d: looped channel stopped", i)
		}
		if ch.pos != fixedFromInt(want) {
			t.Fatalf("step %d: pos is %d, want %d", i, ch.pos.index(), want)
		}
		if !ch.IsActive() {
			t.Fatalf("step %d: channel is inactive", i)
		}
	}
}

func TestChannelLoopWrapFraction(t *testing.T) {
	ch := channel{
		data:       make([]int8, 4),
		loopLength: 4,
		period:     428,
		increment:  fixedOne + fixedOne/2,
	}

	for i := 0; i < 1000; i++ {
		ch.advance()
		if ch.pos.index() >= len(ch.data) {
			t.Fatalf("step %d: pos %d is out of bounds", i, ch.pos.index())
		}
	}
	// 1000*1.5 = 1500; 1500 % 4 = 0
	if ch.pos != 0 {
		t.Fatalf("pos is %v, want 0", float64(ch.pos)/float64(fixedOne))
	}
}

func TestChannelOneShot(t *testing.T) {
	ch := channel{
		sampleNum: 3,
		data:      make([]int8, 4),
		period:    428,
		increment: fixedOne,
	}

	for i := 0; i < 3; i++ {
		if ch.advance() {
			t.Fatalf("step %d: stopped too early", i)
		}
	}
	if !ch.advance() {
		t.Fatal("channel didn't stop at the sample end")
	}
	if ch.IsActive() {
		t.Fatal("stopped channel is still active")
	}
	if ch.sampleNum != 3 || ch.period != 428 {
		t.Fatal("stop lost the sample number or period")
	}
}

func TestChannelActive(t *testing.T) {
	data := []int8{1, 2}
	tests := []struct {
		ch   channel
		want bool
	}{
		{channel{}, false},
		{channel{data: data, period: 428}, false},
		{channel{data: data, increment: fixedOne}, false},
		{channel{period: 428, increment: fixedOne}, false},
		{channel{data: data, period: 428, increment: fixedOne}, true},
	}
	for i, test := range tests {
		if have := test.ch.IsActive(); have != test.want {
			t.Errorf("test%d: have %v, want %v", i, have, test.want)
		}
	}
}
