// This tool plays ProTracker module samples live.
//
// The notes come from the terminal keyboard (tracker piano layout)
// or from a MIDI input device; the audio goes through oto.
// It can also print the module contents or render a short
// audition into a WAV file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/quasilyte/ptmod"
	"github.com/quasilyte/ptmod/internal/wavfile"
	"github.com/quasilyte/ptmod/midiin"
	"github.com/quasilyte/ptmod/modfile"
	"github.com/quasilyte/ptmod/otoaudio"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("modplay: ")

	configPath := flag.String("config", "", "path to a YAML config file")
	sampleRate := flag.Int("rate", ptmod.DefaultSampleRate, "output sample rate in Hz")
	mono := flag.Bool("mono", false, "mix both output channels into one")
	noCrossfeed := flag.Bool("no-crossfeed", false, "disable the stereo crossfeed")
	noLowPass := flag.Bool("no-lowpass", false, "disable the low-pass filter")
	bufferMS := flag.Int("buffer-ms", 50, "audio device buffer size in milliseconds")
	liveChannel := flag.Int("live-channel", 0, "channel index used by the live voice")
	liveSample := flag.Int("live-sample", 0, "1-based sample number played by the live voice (0 = first non-empty)")
	baseNote := flag.Int("base-note", 48, "MIDI key that plays ProTracker C-1")
	midiInput := flag.String("midi", "", "MIDI input port name prefix")
	midiChannel := flag.Int("midi-channel", 0, "1-based MIDI channel to listen to (0 = all)")
	showInfo := flag.Bool("info", false, "print the module info and exit")
	dumpPattern := flag.Int("pattern", -1, "print the pattern with the given index and exit")
	renderPath := flag.String("render", "", "render an audition into the WAV file and exit")
	renderSeconds := flag.Float64("seconds", 2, "audition duration in seconds")
	semitone := flag.Int("semitone", ptmod.ProTrackerC1+12, "audition semitone for the live voice")
	rowRef := flag.String("row", "", "audition a pattern row instead of the live voice, in PATTERN:ROW form")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	// Explicit command-line flags override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rate":
			cfg.SampleRate = *sampleRate
		case "mono":
			cfg.Stereo = !*mono
		case "no-crossfeed":
			cfg.Crossfeed = !*noCrossfeed
		case "no-lowpass":
			cfg.LowPass = !*noLowPass
		case "buffer-ms":
			cfg.BufferMS = *bufferMS
		case "live-channel":
			cfg.LiveChannel = *liveChannel
		case "live-sample":
			cfg.LiveSample = *liveSample
		case "base-note":
			cfg.BaseNote = *baseNote
		case "midi":
			cfg.MIDI.Input = *midiInput
		case "midi-channel":
			cfg.MIDI.Channel = *midiChannel
		}
	})
	if err := cfg.validate(); err != nil {
		log.Fatal(err)
	}

	filename := flag.Arg(0)
	data, err := os.ReadFile(filename)
	if err != nil {
		log.Fatalf("read module: %v", err)
	}
	m, err := modfile.Parse(data)
	if err != nil {
		log.Fatalf("parse %s: %v", filename, err)
	}

	if *showInfo || *dumpPattern >= 0 {
		if *showInfo {
			printModuleInfo(os.Stdout, m)
		}
		if *dumpPattern >= 0 {
			if err := printPattern(os.Stdout, m, *dumpPattern); err != nil {
				log.Fatal(err)
			}
		}
		return
	}

	p, err := newPlayer(cfg, m)
	if err != nil {
		log.Fatal(err)
	}

	if *renderPath != "" {
		trigger := func() { p.TriggerSemitone(*semitone) }
		if *rowRef != "" {
			pattern, row, err := parseRowRef(*rowRef)
			if err != nil {
				log.Fatal(err)
			}
			trigger = func() { p.TriggerRow(pattern, row) }
		}
		if err := renderAudition(p, cfg, *renderPath, *renderSeconds, trigger); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := runLive(p, cfg); err != nil {
		log.Fatal(err)
	}
}

func newPlayer(cfg config, m *modfile.Module) (*ptmod.Player, error) {
	p := ptmod.NewPlayer()
	if err := p.Configure(uint(cfg.SampleRate), cfg.Crossfeed, cfg.LowPass); err != nil {
		return nil, err
	}
	p.SetStereo(cfg.Stereo)
	if err := p.LoadModule(m); err != nil {
		return nil, fmt.Errorf("load module: %w", err)
	}
	p.SetLiveChannel(cfg.LiveChannel)
	if cfg.LiveSample != 0 {
		p.SetLiveSample(cfg.LiveSample)
	}
	return p, nil
}

// parseRowRef parses a "PATTERN:ROW" pair.
func parseRowRef(s string) (pattern, row int, err error) {
	patternPart, rowPart, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid row reference %q: expected PATTERN:ROW", s)
	}
	pattern, err = strconv.Atoi(patternPart)
	if err != nil || pattern < 0 {
		return 0, 0, fmt.Errorf("invalid pattern index %q", patternPart)
	}
	row, err = strconv.Atoi(rowPart)
	if err != nil || row < 0 || row >= modfile.RowsPerPattern {
		return 0, 0, fmt.Errorf("invalid row index %q", rowPart)
	}
	return pattern, row, nil
}

// renderChunkFrames mimics the audio driver requests size.
const renderChunkFrames = 1024

func renderPCM(p *ptmod.Player, sampleRate int, seconds float64, trigger func()) []int16 {
	frames := int(seconds * float64(sampleRate))
	pcm := make([]int16, max(frames, 0)*2)
	trigger()
	for offset := 0; offset < len(pcm); offset += renderChunkFrames * 2 {
		chunk := pcm[offset:min(offset+renderChunkFrames*2, len(pcm))]
		p.Fill(chunk, len(chunk)/2)
	}
	return pcm
}

func renderAudition(p *ptmod.Player, cfg config, filename string, seconds float64, trigger func()) error {
	pcm := renderPCM(p, cfg.SampleRate, seconds, trigger)

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := wavfile.Encode(f, pcm, cfg.SampleRate, 2); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	log.Printf("%s: %d frames, %s", filename, len(pcm)/2, measureLevels(pcm))
	return nil
}

func runLive(p *ptmod.Player, cfg config) error {
	out, err := otoaudio.Open(p, otoaudio.Config{
		SampleRate: cfg.SampleRate,
		BufferSize: otoaudio.BufferDuration(cfg.BufferMS),
	})
	if err != nil {
		return err
	}
	defer out.Close()
	out.Play()

	info := p.Info()
	log.Printf("%q: %d channels, %d samples; live voice: channel %d, sample %02d",
		info.Title, info.NumChannels, info.NumSamples, info.LiveChannel, info.LiveSample)

	if cfg.MIDI.Input != "" {
		listener := midiin.NewListener(p, midiin.Config{
			Channel:  cfg.MIDI.Channel,
			BaseNote: cfg.BaseNote,
		})
		name, closeMIDI, err := openMIDI(listener, cfg.MIDI.Input)
		if err != nil {
			log.Printf("MIDI input is disabled: %v", err)
		} else {
			defer closeMIDI()
			log.Printf("listening to MIDI input %q", name)
		}
	}

	tty, err := enterRawMode(os.Stdin)
	if err != nil {
		// Still useful with a MIDI input.
		log.Printf("keyboard input is disabled: %v; press Ctrl+C to quit", err)
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		<-interrupt
		return nil
	}
	defer tty.Restore()

	fmt.Print("keys: z-m and q-u play notes, space stops, -/= octave, [/] sample, Esc quits\r\n")
	status := func(s string) {
		fmt.Printf("\r\x1b[K%s", s)
	}
	session := newKeyboardSession(p, status)
	keys := make(chan byte)
	go readKeys(os.Stdin, keys)
	for b := range keys {
		if !session.handleKey(b) {
			break
		}
	}
	fmt.Print("\r\n")
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] path/to/module.mod\n", os.Args[0])
	flag.PrintDefaults()
}
