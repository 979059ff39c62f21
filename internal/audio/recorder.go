// Package audio captures microphone input as mono 16 kHz PCM, the
// format the transcriber expects.
package audio

import (
	"errors"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const sampleRate = 16000

// Config tunes the voice endpointing. Zero values fall back to the
// defaults below.
type Config struct {
	SilenceRMS   float64       // frame RMS below this counts as silence
	SilenceAfter time.Duration // trailing silence that ends the take
	MaxUtterance time.Duration // hard cap on one recording
}

func (c Config) withDefaults() Config {
	if c.SilenceRMS <= 0 {
		c.SilenceRMS = 0.015
	}
	if c.SilenceAfter <= 0 {
		c.SilenceAfter = 600 * time.Millisecond
	}
	if c.MaxUtterance <= 0 {
		c.MaxUtterance = 10 * time.Second
	}
	return c
}

type Recorder struct {
	cfg Config
}

func NewRecorder(cfg Config) *Recorder {
	return &Recorder{cfg: cfg.withDefaults()}
}

// Init brings up portaudio. Call once before recording.
func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Record captures one utterance: it waits for speech, then stops after
// the configured trailing silence or at the utterance cap. Returns an
// error when nothing above the silence floor was heard at all.
func (r *Recorder) Record() ([]float32, error) {
	const frame = 320 // 20ms at 16 kHz
	frameDur := 20 * time.Millisecond

	buf := make([]float32, frame)
	out := make([]float32, 0, sampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		speaking bool
		silence  time.Duration
	)
	maxFrames := int(r.cfg.MaxUtterance / frameDur)

	for i := 0; i < maxFrames; i++ {
		if err := stream.Read(); err != nil {
			return nil, err
		}

		if frameRMS(buf) > r.cfg.SilenceRMS {
			speaking = true
			silence = 0
			out = append(out, buf...)
			continue
		}
		if speaking {
			silence += frameDur
			if silence >= r.cfg.SilenceAfter {
				break
			}
			out = append(out, buf...)
		}
	}

	if !speaking {
		return nil, errors.New("no speech detected")
	}
	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
