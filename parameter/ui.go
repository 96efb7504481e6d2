package parameter

// Board Viewer Layout
const (
	// CellWidth is the number of terminal columns per board cell
	CellWidth = 3

	// BoardOffsetX is the left margin of the board in terminal columns
	BoardOffsetX = 2

	// BoardOffsetY is the top margin of the board in terminal rows
	BoardOffsetY = 2
)
