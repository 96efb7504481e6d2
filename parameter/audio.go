package parameter

import "time"

// Audio Output
const (
	// AudioSampleRate is the default speaker sample rate in Hz
	AudioSampleRate = 48000

	// AudioBufferDuration is the speaker buffer length
	AudioBufferDuration = 100 * time.Millisecond

	// AudioDefaultVolume is the master volume in [0,1]
	AudioDefaultVolume = 0.6
)

// Cue Timing
const (
	CueNoteDuration = 70 * time.Millisecond
	CueNoteAttack   = 5 * time.Millisecond
	CueNoteRelease  = 40 * time.Millisecond

	CueRejectDuration = 120 * time.Millisecond
	CueRejectAttack   = 5 * time.Millisecond
	CueRejectRelease  = 30 * time.Millisecond

	CueShuffleDuration = 300 * time.Millisecond
	CueShuffleAttack   = 150 * time.Millisecond
	CueShuffleRelease  = 150 * time.Millisecond

	CueFanfareNote = 110 * time.Millisecond
)
