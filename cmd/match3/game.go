package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/engine"
	"github.com/lixenwraith/match3/event"
	"github.com/lixenwraith/match3/render"
)

// game holds the interactive state around an engine
// Every field is read and written under engine.RunSafe; routed events arrive inside Tick
type game struct {
	eng      *engine.Engine
	renderer *render.BoardRenderer
	log      zerolog.Logger

	cursor   board.Point
	selected *board.Point
	start    map[int]int // Goal amounts at level start
	message  string
	alert    bool
	save     func() (string, error)
}

func newGame(eng *engine.Engine, renderer *render.BoardRenderer, log zerolog.Logger) *game {
	g := &game{
		eng:      eng,
		renderer: renderer,
		log:      log.With().Str("component", "game").Logger(),
		start:    make(map[int]int),
	}
	for _, goal := range eng.Goals().Goals() {
		g.start[goal.TypeID] = goal.Amount
	}
	eng.Register(g)
	return g
}

func (g *game) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventBoardShuffled,
		event.EventLevelCompleted,
		event.EventOutOfMoves,
	}
}

func (g *game) HandleEvent(_ *engine.Engine, ev event.GameEvent) {
	switch ev.Type {
	case event.EventBoardShuffled:
		g.setMessage("no moves left, board shuffled", false)
	case event.EventLevelCompleted:
		g.setMessage("level completed, q to quit", false)
	case event.EventOutOfMoves:
		g.setMessage("out of moves, q to quit", true)
	}
}

func (g *game) setMessage(msg string, alert bool) {
	g.message = msg
	g.alert = alert
}

// handleKey applies a key press and returns false on quit
func (g *game) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		g.moveCursor(0, 1)
	case tcell.KeyDown:
		g.moveCursor(0, -1)
	case tcell.KeyLeft:
		g.moveCursor(-1, 0)
	case tcell.KeyRight:
		g.moveCursor(1, 0)
	case tcell.KeyEnter:
		g.activate(g.cursor)
	case tcell.KeyEscape:
		g.selected = nil
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			g.activate(g.cursor)
		case 'w':
			g.saveSnapshot()
		case 'h':
			g.hit()
		case 'g':
			g.hint()
		}
	}
	return true
}

// handleMouse activates the clicked cell
func (g *game) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		return
	}
	x, y := ev.Position()
	if p, ok := render.ScreenToCell(g.eng.Board(), x, y); ok {
		g.cursor = p
		g.activate(p)
	}
}

// moveCursor moves the cursor by (dx,dy) clamped to the board
func (g *game) moveCursor(dx, dy int) {
	b := g.eng.Board()
	g.cursor.X = min(max(g.cursor.X+dx, 0), b.Width-1)
	g.cursor.Y = min(max(g.cursor.Y+dy, 0), b.Height-1)
}

// activate selects p, or swaps the selection with p when adjacent
func (g *game) activate(p board.Point) {
	switch {
	case g.selected == nil:
		g.selected = &p
		return
	case *g.selected == p:
		g.selected = nil
		return
	case !g.selected.Adjacent(p):
		g.selected = &p
		return
	}

	from := *g.selected
	g.selected = nil
	if err := g.eng.Swap(from, p); err != nil {
		g.log.Debug().Err(err).Msg("swap refused")
		g.setMessage(err.Error(), true)
		return
	}
	g.setMessage("", false)
}

// hit explodes the cell under the cursor
func (g *game) hit() {
	g.selected = nil
	if err := g.eng.Hit(g.cursor); err != nil {
		g.log.Debug().Err(err).Msg("hit refused")
		g.setMessage(err.Error(), true)
		return
	}
	g.setMessage("", false)
}

// hint moves the cursor onto a remaining goal
func (g *game) hint() {
	if p, ok := g.eng.GoalTarget(); ok {
		g.cursor = p
	}
}

// saveSnapshot writes the current board to the level store
func (g *game) saveSnapshot() {
	if g.save == nil {
		g.setMessage("no level store", true)
		return
	}
	id, err := g.save()
	if err != nil {
		g.log.Warn().Err(err).Msg("snapshot save failed")
		g.setMessage("save failed: "+err.Error(), true)
		return
	}
	g.setMessage("saved "+id, false)
}

// view returns the renderer input for the current state
func (g *game) view() render.View {
	goals := g.eng.Goals()
	return render.View{
		Cursor:   g.cursor,
		Selected: g.selected,
		HUD: render.HUD{
			Moves:   goals.Moves(),
			Limited: g.eng.Level().Moves > 0,
			Goals:   goals.Goals(),
			Start:   g.start,
			Message: g.message,
			Alert:   g.alert,
		},
	}
}

func (g *game) draw() {
	g.renderer.RenderFrame(g.eng.Board(), g.view())
}
