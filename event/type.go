package event

// EventType represents the type of engine event
type EventType int

const (
	// === Input Event ===

	// EventMovementSettled signals a token finished moving into its cell
	// Trigger: Engine motion step, external movement layer
	// Consumer: Detector (candidate enqueue, deduplicated) | Payload: board.Point
	EventMovementSettled EventType = iota

	// EventPlaceToken requests a specific token at a coordinate
	// Trigger: Host (pre-level boosters, editor tools)
	// Consumer: Synthesizer | Payload: *PlaceTokenPayload
	EventPlaceToken

	// === Match Event ===

	// EventMatchReady signals a classified match entering the resolver queue
	// Trigger: Detector.CheckMatch
	// Consumer: Observers (audio cue, debug overlay) | Payload: *MatchReadyPayload
	EventMatchReady EventType = iota + 100 // Offset to keep input and output ranges apart

	// EventMatchCompleted signals a match fully resolved
	// Trigger: Resolver immediate or converged path
	// Consumer: Scoring, goal tracking, audio | Payload: *MatchCompletedPayload
	EventMatchCompleted

	// EventTokenConsumed signals a token consumed by a match or explosion
	// Trigger: Resolver
	// Consumer: Goal tracker, scoring | Payload: *TokenConsumedPayload
	EventTokenConsumed

	// === Board Event ===

	// EventColumnDirty signals a column needs a gravity settling pass
	// Trigger: Synthesizer, Resolver (vacated cells)
	// Consumer: Engine settling step, renderers | Payload: *ColumnDirtyPayload
	EventColumnDirty

	// EventSpawnSpecial signals a special token requested at a merge target
	// Trigger: Resolver converged path
	// Consumer: Synthesizer (direct call), observers | Payload: *PlaceTokenPayload
	EventSpawnSpecial

	// EventSwapRejected signals a swap reverted because it produced no match
	// Trigger: Engine swap-back check
	// Consumer: Audio, UI | Payload: *SwapPayload
	EventSwapRejected

	// EventBoardShuffled signals the board was reshuffled for lack of moves
	// Trigger: Engine no-move check
	// Consumer: UI | Payload: nil
	EventBoardShuffled

	// === Goal Event ===

	// EventGoalUpdated signals a goal counter changed
	// Trigger: Goal tracker on a consumed goal token
	// Consumer: UI, audio | Payload: *GoalPayload
	EventGoalUpdated

	// EventLevelCompleted signals every goal reached zero
	// Trigger: Goal tracker
	// Consumer: Host, audio | Payload: nil
	EventLevelCompleted

	// EventOutOfMoves signals the move budget ran out with goals remaining
	// Trigger: Goal tracker
	// Consumer: Host, audio | Payload: nil
	EventOutOfMoves
)

var typeNames = map[EventType]string{
	EventMovementSettled: "MovementSettled",
	EventPlaceToken:      "PlaceToken",
	EventMatchReady:      "MatchReady",
	EventMatchCompleted:  "MatchCompleted",
	EventTokenConsumed:   "TokenConsumed",
	EventColumnDirty:     "ColumnDirty",
	EventSpawnSpecial:    "SpawnSpecial",
	EventSwapRejected:    "SwapRejected",
	EventBoardShuffled:   "BoardShuffled",
	EventGoalUpdated:     "GoalUpdated",
	EventLevelCompleted:  "LevelCompleted",
	EventOutOfMoves:      "OutOfMoves",
}

func (t EventType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// GameEvent is a typed event with an optional payload
type GameEvent struct {
	Type    EventType
	Payload any
	Tick    uint64 // Engine tick that produced the event
}
