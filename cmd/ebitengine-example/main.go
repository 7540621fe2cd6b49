package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/ptmod"
)

// This simple tool plays the samples of the specified MOD file
// with a computer keyboard using Ebitengine audio player.

// pianoKeys maps the keys to the semitone offsets
// from the current octave C.
var pianoKeys = []struct {
	key      ebiten.Key
	semitone int
}{
	{ebiten.KeyZ, 0},
	{ebiten.KeyS, 1},
	{ebiten.KeyX, 2},
	{ebiten.KeyD, 3},
	{ebiten.KeyC, 4},
	{ebiten.KeyV, 5},
	{ebiten.KeyG, 6},
	{ebiten.KeyB, 7},
	{ebiten.KeyH, 8},
	{ebiten.KeyN, 9},
	{ebiten.KeyJ, 10},
	{ebiten.KeyM, 11},
	{ebiten.KeyComma, 12},

	{ebiten.KeyQ, 12},
	{ebiten.KeyDigit2, 13},
	{ebiten.KeyW, 14},
	{ebiten.KeyDigit3, 15},
	{ebiten.KeyE, 16},
	{ebiten.KeyR, 17},
	{ebiten.KeyDigit5, 18},
	{ebiten.KeyT, 19},
	{ebiten.KeyDigit6, 20},
	{ebiten.KeyY, 21},
	{ebiten.KeyDigit7, 22},
	{ebiten.KeyU, 23},
	{ebiten.KeyI, 24},
}

func main() {
	sampleRate := flag.Int("rate", 44100, "output sample rate")
	flag.Usage = func() {
		fmt.Printf("usage: go run ./cmd/ebitengine-example path/to/music.mod\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if len(flag.Args()) < 1 {
		panic("expected at least 1 command-line argument")
	}
	filename := flag.Args()[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		panic(fmt.Errorf("read MOD file: %v", err))
	}
	modPlayer := ptmod.NewPlayer()
	if err := modPlayer.Configure(uint(*sampleRate), true, true); err != nil {
		panic(err)
	}
	if err := modPlayer.Load(data); err != nil {
		panic(fmt.Errorf("loading MOD file: %v", err))
	}

	// Create a sound player using the Ebitengine audio context.
	// The MOD player never reaches EOF, so the sound player
	// is started once and stays playing; silence is produced
	// when no voice is active.
	audioContext := audio.NewContext(*sampleRate)
	player, err := audioContext.NewPlayer(modPlayer)
	if err != nil {
		panic(err)
	}
	// A smaller buffer makes the key presses sound sooner.
	player.SetBufferSize(40 * time.Millisecond)
	player.Play()

	g := &game{
		modPlayer: modPlayer,
		player:    player,
		filename:  filename,
		octave:    ptmod.ProTrackerC1,
		activeKey: -1,
	}
	modPlayer.SetEventHandler(g.onPlayerEvent)

	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		panic(err)
	}
}

type game struct {
	modPlayer *ptmod.Player
	player    *audio.Player

	filename  string
	octave    int
	activeKey ebiten.Key

	// The event handler is called from the audio goroutine too.
	eventsMu  sync.Mutex
	lastEvent string
}

func (g *game) onPlayerEvent(e ptmod.PlayerEvent) {
	var s string
	switch e.Kind {
	case ptmod.EventNote:
		sampleNum, period := e.NoteEventData()
		s = fmt.Sprintf("%.2fs: channel %d plays %s (sample %02d)", e.Time, e.Channel, ptmod.NoteName(period), sampleNum)
	case ptmod.EventVoiceEnd:
		s = fmt.Sprintf("%.2fs: channel %d sample ended", e.Time, e.Channel)
	default:
		return
	}
	g.eventsMu.Lock()
	g.lastEvent = s
	g.eventsMu.Unlock()
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for _, k := range pianoKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			g.activeKey = k.key
			g.modPlayer.TriggerSemitone(g.octave + k.semitone)
		}
	}
	// Only the last pressed key releases the note.
	if g.activeKey != -1 && inpututil.IsKeyJustReleased(g.activeKey) {
		g.activeKey = -1
		g.modPlayer.Trigger(0)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.octave = max(g.octave-12, 0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.octave = min(g.octave+12, 11*12)
	}

	info := g.modPlayer.Info()
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.modPlayer.SetLiveSample(max(info.LiveSample-1, 1))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.modPlayer.SetLiveSample(info.LiveSample + 1)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.modPlayer.TriggerRow(0, 0)
	}

	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	info := g.modPlayer.Info()

	g.eventsMu.Lock()
	lastEvent := g.lastEvent
	g.eventsMu.Unlock()

	lines := []string{
		fmt.Sprintf("%s: %q", g.filename, info.Title),
		fmt.Sprintf("%d channels, %d samples", info.NumChannels, info.NumSamples),
		"",
		"Z-M and Q-U keys play the live voice",
		fmt.Sprintf("UP/DOWN octave: %s", ptmod.NoteName(ptmod.PeriodForNote(g.octave))),
		fmt.Sprintf("LEFT/RIGHT sample: %02d", info.LiveSample),
		"TAB triggers the first pattern row",
		"",
		lastEvent,
	}
	ebitenutil.DebugPrint(screen, strings.Join(lines, "\n"))
}

func (g *game) Layout(_, _ int) (int, int) {
	return 640, 480
}
