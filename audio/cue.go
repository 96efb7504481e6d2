package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/match3/parameter"
)

// Cue is a short sound tied to a board outcome
type Cue int

const (
	CueMatch Cue = iota
	CueSpecial
	CueRejected
	CueShuffle
	CueCompleted
	CueFailed
)

var cueNames = [...]string{
	CueMatch:     "match",
	CueSpecial:   "special",
	CueRejected:  "rejected",
	CueShuffle:   "shuffle",
	CueCompleted: "completed",
	CueFailed:    "failed",
}

func (c Cue) String() string {
	if c >= 0 && int(c) < len(cueNames) {
		return cueNames[c]
	}
	return "unknown"
}

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSaw WaveType = iota
	WaveNoise
)

// oscillator generates saw and noise waves; sine notes come from beep generators
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

func newOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, false
		}

		var val float64
		switch o.wave {
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping and ends the stream after its duration
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: max(total-att-rel, 0),
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if e.position >= e.totalSamples {
		return 0, false
	}
	if remaining := e.totalSamples - e.position; len(samples) > remaining {
		samples = samples[:remaining]
	}
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.attackSamples + e.sustainSamples
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = max(float64(e.totalSamples-e.position)/float64(e.releaseSamples), 0)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a linear volume; math.Log2(0) is -Inf so zero is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// note is a shaped sine tone of the given frequency
func note(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		// Frequency above Nyquist
		return beep.Silence(rate.N(d))
	}
	return newEnvelope(sine, d, parameter.CueNoteAttack, parameter.CueNoteRelease, rate)
}

// arpeggio plays notes back to back
func arpeggio(rate beep.SampleRate, d time.Duration, freqs ...float64) beep.Streamer {
	notes := make([]beep.Streamer, len(freqs))
	for i, f := range freqs {
		notes[i] = note(f, d, rate)
	}
	return beep.Seq(notes...)
}

// NewCue builds a finite streamer for c at the given volume
func NewCue(c Cue, rate beep.SampleRate, vol float64) beep.Streamer {
	var s beep.Streamer
	switch c {
	case CueMatch:
		s = note(660, parameter.CueNoteDuration, rate)
	case CueSpecial:
		s = arpeggio(rate, parameter.CueNoteDuration, 660, 880, 1320)
	case CueRejected:
		osc := newOscillator(110, parameter.CueRejectDuration, WaveSaw, rate)
		s = newEnvelope(osc, parameter.CueRejectDuration, parameter.CueRejectAttack, parameter.CueRejectRelease, rate)
	case CueShuffle:
		noise := newOscillator(0, parameter.CueShuffleDuration, WaveNoise, rate)
		s = newEnvelope(noise, parameter.CueShuffleDuration, parameter.CueShuffleAttack, parameter.CueShuffleRelease, rate)
	case CueCompleted:
		// C major arpeggio
		s = arpeggio(rate, parameter.CueFanfareNote, 523.25, 659.25, 783.99, 1046.50)
	case CueFailed:
		s = arpeggio(rate, parameter.CueFanfareNote, 392.00, 329.63, 261.63)
	default:
		s = beep.Silence(0)
	}
	return newVolume(s, vol)
}
