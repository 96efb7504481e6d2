package parameter

// Board Generation
const (
	// DefaultBoardWidth is the default generated board width
	DefaultBoardWidth = 8

	// DefaultBoardHeight is the default generated board height
	DefaultBoardHeight = 10

	// GenerateMaxAttempts bounds the synthesize/verify retry loop
	GenerateMaxAttempts = 1000

	// GenerateMaxDraws bounds rejection sampling for a single cell
	GenerateMaxDraws = 64

	// PlacementTries bounds duplicate-coordinate retries for layer placement
	PlacementTries = 100

	// ShuffleMaxAttempts bounds the in-game reshuffle loop
	ShuffleMaxAttempts = 200

	// SpawnableTriesPerTarget bounds random draws per requested booster cell
	SpawnableTriesPerTarget = 30

	// DefaultMoveCount is the move budget of a generated level
	DefaultMoveCount = 20
)

// Goals
const (
	// DefaultPieceGoal is the collect amount of a generated level without layer goals
	DefaultPieceGoal = 30
)
