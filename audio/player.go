package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/match3/parameter"
)

// Player mixes cues into a single stream
// Start attaches the stream to the speaker; without it the host pulls samples through Stream
type Player struct {
	mu      sync.Mutex
	cfg     Config
	rate    beep.SampleRate
	mixer   *beep.Mixer
	started bool
	log     zerolog.Logger
}

// NewPlayer creates a player; disabled configs accept and drop every cue
func NewPlayer(cfg Config, log zerolog.Logger) *Player {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = parameter.AudioSampleRate
	}
	return &Player{
		cfg:   cfg,
		rate:  beep.SampleRate(cfg.SampleRate),
		mixer: &beep.Mixer{},
		log:   log.With().Str("component", "audio").Logger(),
	}
}

// Start initializes the speaker and plays the mix
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || !p.cfg.Enabled {
		return nil
	}

	if err := speaker.Init(p.rate, p.rate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}
	speaker.Play(p)
	p.started = true
	p.log.Debug().Int("sample_rate", p.cfg.SampleRate).Msg("speaker started")
	return nil
}

// Close stops all cues and releases the speaker
func (p *Player) Close() {
	p.mu.Lock()
	p.mixer.Clear()
	started := p.started
	p.started = false
	p.mu.Unlock()

	// speaker.Close waits on the stream goroutine, which takes p.mu
	if started {
		speaker.Close()
	}
}

// Play queues a cue on the mix
func (p *Player) Play(c Cue) {
	if !p.cfg.Enabled {
		return
	}
	s := NewCue(c, p.rate, p.cfg.Volume)

	p.mu.Lock()
	p.mixer.Add(s)
	p.mu.Unlock()
	p.log.Trace().Stringer("cue", c).Msg("cue queued")
}

// Pending returns the number of cues still playing
func (p *Player) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mixer.Len()
}

// Stream implements beep.Streamer; finished cues drop out of the mix
func (p *Player) Stream(samples [][2]float64) (n int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mixer.Stream(samples)
}

func (p *Player) Err() error { return nil }
