package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/match3/level"
	"github.com/lixenwraith/match3/levelstore"
	"github.com/lixenwraith/match3/parameter"
)

func runArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out, zerolog.Nop())
	return out.String(), err
}

// TestGenerateListShowDelete tests the full store round trip through the CLI
func TestGenerateListShowDelete(t *testing.T) {
	db := filepath.Join(t.TempDir(), "levels.db")

	out, err := runArgs(t, "-db", db, "-n", "2", "-width", "5", "-height", "6", "-seed", "7", "-underlay", "3")
	require.NoError(t, err)
	ids := strings.Fields(out)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	out, err = runArgs(t, "-db", db, "-list")
	require.NoError(t, err)
	assert.Contains(t, out, ids[0])
	assert.Contains(t, out, "5x6  seed=7")
	assert.Contains(t, out, "seed=8")

	out, err = runArgs(t, "-db", db, "-show", ids[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Header, six rows, one goal
	require.Len(t, lines, 8)
	assert.Equal(t, 3, strings.Count(out, "_"))
	assert.Equal(t, "goal 50 x3", lines[7])

	_, err = runArgs(t, "-db", db, "-delete", ids[0])
	require.NoError(t, err)
	_, err = runArgs(t, "-db", db, "-show", ids[0])
	assert.ErrorIs(t, err, levelstore.ErrNotFound)
}

// TestDrawMarksLayers tests the text rendering of blank, empty and layered cells
func TestDrawMarksLayers(t *testing.T) {
	d := &level.Data{
		ID:     "x",
		Width:  3,
		Height: 2,
		Primary: []int{
			0, 1, parameter.EmptyType,
			2, 3, 4,
		},
		CellTypes: []int{
			0, 0, 0,
			0, 0, 1,
		},
		Underlay: []level.Placement{{X: 0, Y: 0, TypeID: parameter.ObstacleTypeBase}},
		Overlay:  []level.Placement{{X: 1, Y: 1, TypeID: parameter.ObstacleTypeBase + 1}},
	}

	var out bytes.Buffer
	draw(&out, d)
	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, " 2 ^3  #", lines[1])
	assert.Equal(t, "_0  1  .", lines[2])
}

// TestBadFlag tests flag errors surface instead of exiting
func TestBadFlag(t *testing.T) {
	_, err := runArgs(t, "-nope")
	assert.Error(t, err)
}
