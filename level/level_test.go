package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/parameter"
)

const e = parameter.EmptyType

func sample() *Data {
	return &Data{
		ID:       "sample",
		SpriteID: 3,
		Width:    3,
		Height:   2,
		Primary: []int{
			0, 1, 2,
			2, e, 0,
		},
		CellTypes: []int{
			0, 0, 0,
			0, int(board.CellBlank), 0,
		},
		Underlay:  []Placement{{X: 0, Y: 0, TypeID: 51}},
		Overlay:   []Placement{{X: 2, Y: 1, TypeID: 60}},
		FillTypes: []int{0, 1, 2},
		Goals:     []Goal{{TypeID: 51, Amount: 1}},
		Moves:     12,
	}
}

// TestEncodeDecodeRoundTrip tests that the msgpack blob restores the same level
func TestEncodeDecodeRoundTrip(t *testing.T) {
	d := sample()
	buf, err := Encode(d)
	require.NoError(t, err)

	got, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

// TestValidateRejectsCorruptData tests the validation rules
func TestValidateRejectsCorruptData(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Data)
	}{
		{"zero width", func(d *Data) { d.Width = 0 }},
		{"short primary", func(d *Data) { d.Primary = d.Primary[:5] }},
		{"short cell types", func(d *Data) { d.CellTypes = d.CellTypes[:2] }},
		{"unknown cell type", func(d *Data) { d.CellTypes[0] = 9 }},
		{"token on blank", func(d *Data) { d.Primary[4] = 1 }},
		{"no fill types", func(d *Data) { d.FillTypes = nil }},
		{"underlay out of bounds", func(d *Data) { d.Underlay = append(d.Underlay, Placement{X: 3, Y: 0}) }},
		{"duplicate overlay", func(d *Data) { d.Overlay = append(d.Overlay, Placement{X: 2, Y: 1, TypeID: 61}) }},
		{"negative goal", func(d *Data) { d.Goals[0].Amount = -1 }},
		{"negative moves", func(d *Data) { d.Moves = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sample()
			tt.mutate(d)
			assert.ErrorIs(t, d.Validate(), ErrInvalidLevel)
			_, err := Encode(d)
			assert.ErrorIs(t, err, ErrInvalidLevel)
		})
	}
}

// TestDecodeGarbage tests that corrupt blobs are rejected
func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrInvalidLevel)

	_, err = Decode([]byte{0xc1, 0x00, 0x13})
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

// TestBuild tests board materialization and spawn cell selection
func TestBuild(t *testing.T) {
	pool := board.NewTokenPool(nil)
	b, spawns, err := Build(sample(), pool)
	require.NoError(t, err)

	assert.Equal(t, 3, b.Width)
	assert.Equal(t, 2, b.Height)
	assert.Equal(t, 3, b.SpriteID)
	assert.Equal(t, 1, b.Token(board.Point{X: 1, Y: 0}).TypeID)
	assert.Nil(t, b.Token(board.Point{X: 1, Y: 1}))
	assert.Equal(t, board.CellBlank, b.Cell(board.Point{X: 1, Y: 1}).Type)

	under := b.Cell(board.Point{X: 0, Y: 0}).Underlay()
	require.NotNil(t, under)
	assert.Equal(t, board.KindObstacle, under.Kind)
	require.NotNil(t, b.Cell(board.Point{X: 2, Y: 1}).Overlay())

	// Column 1 is blank on top, so its spawn drops to the row below
	assert.Equal(t, []board.Point{{X: 0, Y: 1}, {X: 1, Y: 0}, {X: 2, Y: 1}}, spawns)
}

// TestBuildExplicitSpawners tests that spawner cells override the default top row
func TestBuildExplicitSpawners(t *testing.T) {
	d := sample()
	d.CellTypes[0] = int(board.CellSpawner)

	_, spawns, err := Build(d, board.NewTokenPool(nil))
	require.NoError(t, err)
	assert.Equal(t, []board.Point{{X: 0, Y: 0}}, spawns)
}

// TestSnapshotMatchesBuild tests that a built board snapshots back to its layers
func TestSnapshotMatchesBuild(t *testing.T) {
	d := sample()
	b, _, err := Build(d, board.NewTokenPool(nil))
	require.NoError(t, err)

	snap := Snapshot(b)
	assert.Equal(t, d.Primary, snap.Primary)
	assert.Equal(t, d.CellTypes, snap.CellTypes)
	assert.Equal(t, d.Underlay, snap.Underlay)
	assert.Equal(t, d.Overlay, snap.Overlay)
}

// TestSparseLayerConversion tests grid to placement conversion with the empty sentinel
func TestSparseLayerConversion(t *testing.T) {
	grid := []int{e, 5, e, 7}
	layer := Placements(2, 2, grid)
	assert.Equal(t, []Placement{{X: 1, Y: 0, TypeID: 5}, {X: 1, Y: 1, TypeID: 7}}, layer)
	assert.Equal(t, grid, Grid(2, 2, layer))
}
