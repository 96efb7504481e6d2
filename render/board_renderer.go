package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/level"
	"github.com/lixenwraith/match3/parameter"
	"github.com/lixenwraith/match3/vmath"
)

// HUD is the status content drawn under the board
type HUD struct {
	Moves   int
	Limited bool // false draws an unlimited move budget
	Goals   []level.Goal
	Start   map[int]int // Initial goal amounts, for the progress bars
	Message string
	Alert   bool
}

// View is the per-frame input state
type View struct {
	Cursor   board.Point
	Selected *board.Point
	HUD      HUD
}

// BoardRenderer draws a board and its status lines onto a tcell screen
// y grows upward on the board and downward on the screen
type BoardRenderer struct {
	screen  tcell.Screen
	catalog *board.Catalog
}

// NewBoardRenderer creates a renderer; catalog may be nil for the default layout
func NewBoardRenderer(screen tcell.Screen, catalog *board.Catalog) *BoardRenderer {
	if catalog == nil {
		catalog = board.DefaultCatalog()
	}
	return &BoardRenderer{
		screen:  screen,
		catalog: catalog,
	}
}

// CellOrigin returns the screen coordinate of the left column of cell p
func CellOrigin(b *board.Board, p board.Point) (int, int) {
	return parameter.BoardOffsetX + p.X*parameter.CellWidth,
		parameter.BoardOffsetY + (b.Height - 1 - p.Y)
}

// ScreenToCell maps a screen coordinate back to a board cell
func ScreenToCell(b *board.Board, sx, sy int) (board.Point, bool) {
	dx := sx - parameter.BoardOffsetX
	dy := sy - parameter.BoardOffsetY
	if dx < 0 || dy < 0 {
		return board.Point{}, false
	}
	p := board.Point{X: dx / parameter.CellWidth, Y: b.Height - 1 - dy}
	return p, b.InBounds(p)
}

// RenderFrame renders the entire frame
func (r *BoardRenderer) RenderFrame(b *board.Board, v View) {
	r.screen.Clear()
	defaultStyle := tcell.StyleDefault.Background(RgbBackground)

	// Cell backgrounds, underlay and overlay
	b.Each(func(c *board.Cell) {
		r.drawCell(b, c, v, defaultStyle)
	})

	// Tokens at their logical position, so falling and converging tokens travel
	b.Each(func(c *board.Cell) {
		if t := c.Token(); t != nil {
			r.drawToken(b, t, v, defaultStyle)
		}
	})

	r.drawStatus(b, v.HUD, defaultStyle)

	r.screen.Show()
}

func (r *BoardRenderer) cellStyle(b *board.Board, p board.Point, v View, defaultStyle tcell.Style) tcell.Style {
	c := b.Cell(p)
	switch {
	case v.Selected != nil && *v.Selected == p:
		return defaultStyle.Background(RgbSelected)
	case v.Cursor == p:
		return defaultStyle.Background(RgbCursor)
	case !c.Playable():
		return defaultStyle.Background(RgbBlankCell)
	case c.HasUnderlay():
		return defaultStyle.Background(RgbUnderlay)
	}
	return defaultStyle
}

func (r *BoardRenderer) drawCell(b *board.Board, c *board.Cell, v View, defaultStyle tcell.Style) {
	x, y := CellOrigin(b, c.Pos)
	style := r.cellStyle(b, c.Pos, v, defaultStyle)
	for i := 0; i < parameter.CellWidth; i++ {
		r.screen.SetContent(x+i, y, ' ', nil, style)
	}
	if c.HasOverlay() {
		overlayStyle := style.Foreground(RgbOverlay)
		r.screen.SetContent(x, y, '[', nil, overlayStyle)
		r.screen.SetContent(x+parameter.CellWidth-1, y, ']', nil, overlayStyle)
	}
}

func (r *BoardRenderer) drawToken(b *board.Board, t *board.Token, v View, defaultStyle tcell.Style) {
	gx, gy := vmath.V2Round(t.Pos)
	p := board.Point{X: gx, Y: gy}
	if !b.InBounds(p) {
		return
	}

	glyph, fg := Glyph(t)
	style := r.cellStyle(b, p, v, defaultStyle).Foreground(fg)
	if t.Matching() {
		style = style.Bold(true)
	}

	x, y := CellOrigin(b, p)
	r.screen.SetContent(x+parameter.CellWidth/2, y, glyph, nil, style)
}

// drawStatus draws moves, goal counters with progress bars and the message line
func (r *BoardRenderer) drawStatus(b *board.Board, hud HUD, defaultStyle tcell.Style) {
	textStyle := defaultStyle.Foreground(RgbStatusText)
	mutedStyle := defaultStyle.Foreground(RgbStatusMuted)

	y := parameter.BoardOffsetY + b.Height + 1
	x := parameter.BoardOffsetX

	moves := "∞"
	if hud.Limited {
		moves = fmt.Sprintf("%d", hud.Moves)
	}
	x = r.drawText(x, y, "Moves: ", mutedStyle)
	x = r.drawText(x, y, moves, textStyle)

	for _, g := range hud.Goals {
		x += 2
		glyph, fg := Glyph(r.catalog.NewToken(g.TypeID))
		r.screen.SetContent(x, y, glyph, nil, defaultStyle.Foreground(fg))
		x = r.drawText(x+1, y, fmt.Sprintf(" %d", g.Amount), textStyle)

		if start := hud.Start[g.TypeID]; start > 0 {
			progress := 1 - float64(g.Amount)/float64(start)
			r.screen.SetContent(x, y, '█', nil, defaultStyle.Foreground(ProgressColor(progress)))
			x++
		}
	}

	if hud.Message != "" {
		style := textStyle
		if hud.Alert {
			style = defaultStyle.Foreground(RgbStatusAlert)
		}
		r.drawText(parameter.BoardOffsetX, y+1, hud.Message, style)
	}
}

// drawText writes s from (x,y) and returns the column after it
func (r *BoardRenderer) drawText(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}
