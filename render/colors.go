package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/match"
)

// RGB color definitions for piece types, indexed by type id
var pieceColors = [...]tcell.Color{
	tcell.NewRGBColor(255, 80, 80),   // Red
	tcell.NewRGBColor(0, 200, 0),     // Green
	tcell.NewRGBColor(100, 150, 255), // Blue
	tcell.NewRGBColor(255, 255, 0),   // Yellow
	tcell.NewRGBColor(200, 100, 255), // Purple
	tcell.NewRGBColor(255, 165, 0),   // Orange
}

var (
	RgbBackground   = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbBlankCell    = tcell.NewRGBColor(10, 10, 14)    // Near black
	RgbUnderlay     = tcell.NewRGBColor(70, 50, 30)    // Dark brown
	RgbOverlay      = tcell.NewRGBColor(180, 220, 255) // Ice blue
	RgbObstacle     = tcell.NewRGBColor(150, 150, 150) // Stone gray
	RgbGenerator    = tcell.NewRGBColor(0, 200, 200)   // Vibrant cyan
	RgbBooster      = tcell.NewRGBColor(255, 255, 255) // Bright white
	RgbCursor       = tcell.NewRGBColor(60, 60, 60)    // Dark gray
	RgbSelected     = tcell.NewRGBColor(120, 90, 0)    // Dark gold
	RgbStatusText   = tcell.NewRGBColor(255, 255, 255) // White
	RgbStatusMuted  = tcell.NewRGBColor(180, 180, 180) // Brighter gray
	RgbStatusAlert  = tcell.NewRGBColor(255, 0, 0)     // Error red
	RgbProgressVoid = tcell.NewRGBColor(0, 0, 0)       // Black for unfilled
)

// boosterGlyphs maps special match kinds to their token glyph
var boosterGlyphs = map[match.Kind]rune{
	match.Missile:          '➤',
	match.HorizontalRocket: '↔',
	match.VerticalRocket:   '↕',
	match.TNT:              '✚',
	match.LightBall:        '✺',
}

// PieceColor returns the foreground color of a piece type
func PieceColor(typeID int) tcell.Color {
	if typeID < 0 {
		return RgbStatusMuted
	}
	return pieceColors[typeID%len(pieceColors)]
}

// Glyph returns the rune and foreground color drawn for a token
func Glyph(t *board.Token) (rune, tcell.Color) {
	switch t.Kind {
	case board.KindBooster:
		if r, ok := boosterGlyphs[match.KindOfToken(t.TypeID)]; ok {
			return r, RgbBooster
		}
		return '✦', RgbBooster
	case board.KindObstacle:
		return '▓', RgbObstacle
	case board.KindGenerator:
		return '◎', RgbGenerator
	}
	return '●', PieceColor(t.TypeID)
}

// ProgressColor returns the goal bar color for progress in [0,1]
// Red through yellow to green
func ProgressColor(progress float64) tcell.Color {
	if progress <= 0.0 {
		return RgbProgressVoid
	}
	if progress > 1.0 {
		progress = 1.0
	}

	if progress < 0.5 { // Red to Yellow
		t := progress / 0.5
		return tcell.NewRGBColor(255, int32(69+(215-69)*t), 0)
	}
	// Yellow to Green
	t := (progress - 0.5) / 0.5
	r := int32(255 - (255-34)*t)
	g := int32(215 - (215-139)*t)
	b := int32(34 * t)
	return tcell.NewRGBColor(r, g, b)
}
