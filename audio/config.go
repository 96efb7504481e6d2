package audio

import (
	"os"
	"strconv"

	"github.com/lixenwraith/match3/parameter"
)

// Config holds audio output settings
type Config struct {
	Enabled    bool
	Volume     float64 // Master volume in [0,1]
	SampleRate int
}

// DefaultConfig returns audio disabled at the default volume
func DefaultConfig() Config {
	return Config{
		Enabled:    false,
		Volume:     parameter.AudioDefaultVolume,
		SampleRate: parameter.AudioSampleRate,
	}
}

// LoadConfig loads audio configuration from environment variables
func LoadConfig() Config {
	cfg := DefaultConfig()

	if enabled := os.Getenv("MATCH3_AUDIO"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Volume is given as 0-100
	if volume := os.Getenv("MATCH3_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.Volume = min(max(float64(val)/100.0, 0), 1)
		}
	}

	if sampleRate := os.Getenv("MATCH3_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	return cfg
}
