package parameter

// Token Type Ids
const (
	// EmptyType is the persisted sentinel for an empty or blank cell
	EmptyType = -1

	// PieceTypeCount is the number of regular matchable piece types (ids 0..n-1)
	PieceTypeCount = 6

	// ObstacleTypeBase is the first type id of obstacles destroyed by adjacent matches
	ObstacleTypeBase = 50

	// GeneratorTypeBase is the first type id of generator tokens
	GeneratorTypeBase = 70

	// BoosterTypeBase is added to a match kind to encode the special token it spawns
	BoosterTypeBase = 100
)

// Detection
const (
	// RunCapacity is the initial capacity of a scratch run buffer
	// Longest possible run on a 10-wide board is 9 cells
	RunCapacity = 10
)

// Convergence (multi-tick merge of special matches), in cell units
const (
	// ConvergeStep is the distance a converging token moves per tick
	ConvergeStep = 0.09

	// ConvergeTolerance is the distance under which a token counts as merged
	ConvergeTolerance = 0.05

	// FallStep is the distance a falling or swapping token moves per tick
	FallStep = 0.25
)
