package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/level"
	"github.com/lixenwraith/match3/match"
	"github.com/lixenwraith/match3/parameter"
	"github.com/lixenwraith/match3/vmath"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func rowText(screen tcell.SimulationScreen, y int) string {
	w, _ := screen.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		ch, _, _, _ := screen.GetContent(x, y)
		sb.WriteRune(ch)
	}
	return sb.String()
}

func testBoard() *board.Board {
	pool := board.NewTokenPool(nil)
	return board.FromTypeGrid(3, 2, []int{
		0, 1, 2,
		3, parameter.EmptyType, 4,
	}, parameter.EmptyType, pool)
}

// TestRenderPlacesTokens tests glyph placement with y flipped onto the screen
func TestRenderPlacesTokens(t *testing.T) {
	screen := newScreen(t)
	b := testBoard()
	r := NewBoardRenderer(screen, nil)

	r.RenderFrame(b, View{Cursor: board.Point{X: 2, Y: 1}})

	// Bottom row of the board is the lower screen row
	x, y := CellOrigin(b, board.Point{X: 0, Y: 0})
	assert.Equal(t, parameter.BoardOffsetY+1, y)
	ch, _, style, _ := screen.GetContent(x+1, y)
	assert.Equal(t, '●', ch)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, PieceColor(0), fg)
	assert.Equal(t, RgbBackground, bg)

	// Empty cell draws nothing but its background
	x, y = CellOrigin(b, board.Point{X: 1, Y: 1})
	ch, _, _, _ = screen.GetContent(x+1, y)
	assert.Equal(t, ' ', ch)

	// Cursor cell
	x, y = CellOrigin(b, board.Point{X: 2, Y: 1})
	_, _, style, _ = screen.GetContent(x, y)
	_, bg, _ = style.Decompose()
	assert.Equal(t, RgbCursor, bg)
}

// TestRenderLayers tests underlay, overlay and selection styling
func TestRenderLayers(t *testing.T) {
	screen := newScreen(t)
	b := testBoard()
	pool := board.NewTokenPool(nil)
	b.Cell(board.Point{X: 0, Y: 1}).SetUnderlay(pool.Get(parameter.ObstacleTypeBase))
	b.Cell(board.Point{X: 1, Y: 0}).SetOverlay(pool.Get(parameter.ObstacleTypeBase + 1))
	sel := board.Point{X: 2, Y: 0}

	NewBoardRenderer(screen, nil).RenderFrame(b, View{Cursor: board.Point{X: -1, Y: -1}, Selected: &sel})

	x, y := CellOrigin(b, board.Point{X: 0, Y: 1})
	_, _, style, _ := screen.GetContent(x+1, y)
	_, bg, _ := style.Decompose()
	assert.Equal(t, RgbUnderlay, bg)

	x, y = CellOrigin(b, board.Point{X: 1, Y: 0})
	left, _, _, _ := screen.GetContent(x, y)
	right, _, _, _ := screen.GetContent(x+2, y)
	assert.Equal(t, '[', left)
	assert.Equal(t, ']', right)

	x, y = CellOrigin(b, sel)
	_, _, style, _ = screen.GetContent(x+1, y)
	_, bg, _ = style.Decompose()
	assert.Equal(t, RgbSelected, bg)
}

// TestRenderMovingToken tests that tokens draw at their logical position
func TestRenderMovingToken(t *testing.T) {
	screen := newScreen(t)
	b := testBoard()
	tok := b.Token(board.Point{X: 1, Y: 0})
	tok.Pos = vmath.V2(1, 1)
	view := View{Cursor: board.Point{X: -1, Y: -1}}

	NewBoardRenderer(screen, nil).RenderFrame(b, view)

	x, y := CellOrigin(b, board.Point{X: 1, Y: 1})
	ch, _, style, _ := screen.GetContent(x+1, y)
	fg, _, _ := style.Decompose()
	assert.Equal(t, '●', ch)
	assert.Equal(t, PieceColor(1), fg, "drawn over the empty cell it travels through")

	x, y = CellOrigin(b, board.Point{X: 1, Y: 0})
	ch, _, _, _ = screen.GetContent(x+1, y)
	assert.Equal(t, ' ', ch)

	// Above the board is clipped
	tok.Pos = vmath.V2(1, 2)
	NewBoardRenderer(screen, nil).RenderFrame(b, view)
	x, y = CellOrigin(b, board.Point{X: 1, Y: 1})
	ch, _, _, _ = screen.GetContent(x+1, y)
	assert.Equal(t, ' ', ch)
}

// TestRenderStatus tests the moves counter, goals and message lines
func TestRenderStatus(t *testing.T) {
	screen := newScreen(t)
	b := testBoard()
	hud := HUD{
		Moves:   5,
		Limited: true,
		Goals:   []level.Goal{{TypeID: 1, Amount: 3}},
		Start:   map[int]int{1: 6},
		Message: "level completed",
	}
	NewBoardRenderer(screen, nil).RenderFrame(b, View{HUD: hud})

	status := rowText(screen, parameter.BoardOffsetY+b.Height+1)
	assert.Contains(t, status, "Moves: 5")
	assert.Contains(t, status, "● 3")
	assert.Contains(t, rowText(screen, parameter.BoardOffsetY+b.Height+2), "level completed")

	hud.Limited = false
	NewBoardRenderer(screen, nil).RenderFrame(b, View{HUD: hud})
	assert.Contains(t, rowText(screen, parameter.BoardOffsetY+b.Height+1), "Moves: ∞")
}

// TestScreenToCell tests the inverse of CellOrigin
func TestScreenToCell(t *testing.T) {
	b := testBoard()
	b.Each(func(c *board.Cell) {
		x, y := CellOrigin(b, c.Pos)
		for i := 0; i < parameter.CellWidth; i++ {
			p, ok := ScreenToCell(b, x+i, y)
			require.True(t, ok)
			assert.Equal(t, c.Pos, p)
		}
	})

	_, ok := ScreenToCell(b, 0, 0)
	assert.False(t, ok)
	_, ok = ScreenToCell(b, parameter.BoardOffsetX+3*parameter.CellWidth, parameter.BoardOffsetY)
	assert.False(t, ok)
	_, ok = ScreenToCell(b, parameter.BoardOffsetX, parameter.BoardOffsetY+2)
	assert.False(t, ok)
}

// TestGlyphs tests glyph selection per token variant
func TestGlyphs(t *testing.T) {
	pool := board.NewTokenPool(nil)

	r, c := Glyph(pool.Get(match.TNT.TokenType()))
	assert.Equal(t, '✚', r)
	assert.Equal(t, RgbBooster, c)

	r, _ = Glyph(pool.Get(match.VerticalRocket.TokenType()))
	assert.Equal(t, '↕', r)

	r, c = Glyph(pool.Get(parameter.ObstacleTypeBase))
	assert.Equal(t, '▓', r)
	assert.Equal(t, RgbObstacle, c)

	r, _ = Glyph(pool.Get(parameter.GeneratorTypeBase))
	assert.Equal(t, '◎', r)

	assert.Equal(t, RgbProgressVoid, ProgressColor(0))
	assert.Equal(t, ProgressColor(1), ProgressColor(2))
}
