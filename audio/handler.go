package audio

import (
	"github.com/lixenwraith/match3/event"
	"github.com/lixenwraith/match3/match"
)

// CueHandler plays the cue of each routed board outcome
type CueHandler[T any] struct {
	player *Player
}

// NewCueHandler creates a handler for any router context
func NewCueHandler[T any](p *Player) *CueHandler[T] {
	return &CueHandler[T]{player: p}
}

func (h *CueHandler[T]) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventMatchCompleted,
		event.EventSwapRejected,
		event.EventBoardShuffled,
		event.EventLevelCompleted,
		event.EventOutOfMoves,
	}
}

func (h *CueHandler[T]) HandleEvent(_ T, ev event.GameEvent) {
	if c, ok := CueFor(ev); ok {
		h.player.Play(c)
	}
}

// CueFor maps an event to its cue
func CueFor(ev event.GameEvent) (Cue, bool) {
	switch ev.Type {
	case event.EventMatchCompleted:
		if p, ok := ev.Payload.(*event.MatchCompletedPayload); ok && match.Kind(p.Kind).Special() {
			return CueSpecial, true
		}
		return CueMatch, true
	case event.EventSwapRejected:
		return CueRejected, true
	case event.EventBoardShuffled:
		return CueShuffle, true
	case event.EventLevelCompleted:
		return CueCompleted, true
	case event.EventOutOfMoves:
		return CueFailed, true
	}
	return 0, false
}
