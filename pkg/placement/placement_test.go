package placement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braunma/rackgrid/pkg/models"
)

func rack(id string, x, z float64, o models.Orientation) *models.Rack {
	return &models.Rack{ID: id, UHeight: 24, Position: models.GridPos{X: x, Z: z}, Orientation: o}
}

func device(id string, uPos, uSize int) *models.Device {
	return &models.Device{ID: id, Type: models.DeviceTypeServer, USize: uSize, UPosition: uPos}
}

func TestCellOccupied(t *testing.T) {
	racks := []*models.Rack{
		rack("a", 0, 0, models.South),
		rack("b", 2.5, 0, models.South),
	}

	tests := []struct {
		name     string
		exclude  string
		pos      models.GridPos
		expected bool
	}{
		{name: "new rack on occupied cell", pos: models.GridPos{X: 0, Z: 0}, expected: true},
		{name: "new rack on free cell", pos: models.GridPos{X: 1, Z: 0}, expected: false},
		{name: "moving rack onto its own cell", exclude: "a", pos: models.GridPos{X: 0, Z: 0}, expected: false},
		{name: "moving rack onto another rack", exclude: "a", pos: models.GridPos{X: 2.5, Z: 0}, expected: true},
		{name: "half unit away is a different cell", pos: models.GridPos{X: 0.5, Z: 0}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CellOccupied(racks, tt.exclude, tt.pos))
		})
	}
}

func TestFrontClearanceViolation(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name     string
		existing []*models.Rack
		pos      models.GridPos
		facing   models.Orientation
		expected bool
	}{
		{
			name:     "candidate faces existing rack one unit away",
			existing: []*models.Rack{rack("a", 0, 0, models.North)},
			pos:      models.GridPos{X: 0, Z: 1},
			facing:   models.North,
			expected: true,
		},
		{
			name:     "candidate sits in front of existing rack",
			existing: []*models.Rack{rack("a", 0, 0, models.South)},
			pos:      models.GridPos{X: 0, Z: 1},
			facing:   models.South,
			expected: true,
		},
		{
			name:     "back to back is legal",
			existing: []*models.Rack{rack("a", 0, 0, models.North)},
			pos:      models.GridPos{X: 0, Z: 1},
			facing:   models.South,
			expected: false,
		},
		{
			name:     "half unit in front is blocked",
			existing: []*models.Rack{rack("a", 0, 0, models.East)},
			pos:      models.GridPos{X: 0.5, Z: 0},
			facing:   models.East,
			expected: true,
		},
		{
			name:     "beyond clearance distance",
			existing: []*models.Rack{rack("a", 0, 0, models.South)},
			pos:      models.GridPos{X: 0, Z: 1.5},
			facing:   models.South,
			expected: false,
		},
		{
			name:     "laterally offset by half a unit is not aligned",
			existing: []*models.Rack{rack("a", 0, 0, models.South)},
			pos:      models.GridPos{X: 0.5, Z: 1},
			facing:   models.South,
			expected: false,
		},
		{
			name:     "diagonal neighbour is not aligned",
			existing: []*models.Rack{rack("a", 0, 0, models.South)},
			pos:      models.GridPos{X: 1, Z: 1},
			facing:   models.North,
			expected: false,
		},
		{
			name:     "side by side in a row",
			existing: []*models.Rack{rack("a", 0, 0, models.South)},
			pos:      models.GridPos{X: 1, Z: 0},
			facing:   models.South,
			expected: false,
		},
		{
			name:     "west facing candidate with rack to its west",
			existing: []*models.Rack{rack("a", -1, 0, models.West)},
			pos:      models.GridPos{X: 0, Z: 0},
			facing:   models.West,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.FrontClearanceViolation(tt.existing, "candidate", tt.pos, tt.facing)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClearanceScenario(t *testing.T) {
	rules := DefaultRules()
	racks := []*models.Rack{rack("a", 0, 0, models.South)}

	assert.True(t, CellOccupied(racks, "", models.GridPos{X: 0, Z: 0}), "same cell must collide")
	assert.False(t, CellOccupied(racks, "", models.GridPos{X: 0, Z: 1}))
	assert.True(t, rules.FrontClearanceViolation(racks, "", models.GridPos{X: 0, Z: 1}, models.North),
		"rack at (0,1) facing (0,0) must breach clearance")
}

func TestRotationToCurrentOrientationNeverSelfBlocks(t *testing.T) {
	rules := DefaultRules()
	for _, o := range models.AllOrientations() {
		r := rack("solo", 3, 3, o)
		assert.False(t, rules.FrontClearanceViolation([]*models.Rack{r}, r.ID, r.Position, o),
			"rack alone facing %s should never block itself", o)
	}
}

func TestClearanceSymmetryUnderRoleSwap(t *testing.T) {
	rules := DefaultRules()
	a := rack("a", 0, 0, models.South)
	b := rack("b", 5, 5, models.North)

	// b moving in front of a
	bMoved := models.GridPos{X: 0, Z: 1}
	forward := rules.FrontClearanceViolation([]*models.Rack{a, b}, b.ID, bMoved, b.Orientation)
	require.True(t, forward)

	// the same pair evaluated with roles swapped: a is the candidate, b already in front
	bPlaced := rack("b", 0, 1, models.North)
	reverse := rules.FrontClearanceViolation([]*models.Rack{bPlaced}, a.ID, a.Position, a.Orientation)
	assert.Equal(t, forward, reverse)
}

func TestClearanceUsesConfiguredRules(t *testing.T) {
	racks := []*models.Rack{rack("a", 0, 0, models.South)}
	pos := models.GridPos{X: 0, Z: 2}

	assert.False(t, DefaultRules().FrontClearanceViolation(racks, "", pos, models.South))

	wide := Rules{Clearance: 2.0, Alignment: 0.5}
	assert.True(t, wide.FrontClearanceViolation(racks, "", pos, models.South))
}

func TestClearanceBlockerNamesRack(t *testing.T) {
	rules := DefaultRules()
	a := rack("a", 0, 0, models.South)
	blocker := rules.ClearanceBlocker([]*models.Rack{a}, "", models.GridPos{X: 0, Z: 1}, models.South)
	require.NotNil(t, blocker)
	assert.Equal(t, "a", blocker.ID)
}

func TestSlotAvailable(t *testing.T) {
	existing := []*models.Device{device("d1", 1, 2)}

	tests := []struct {
		name     string
		uPos     int
		uSize    int
		expected bool
	}{
		{name: "overlaps top of existing device", uPos: 2, uSize: 1, expected: false},
		{name: "directly above existing device", uPos: 3, uSize: 1, expected: true},
		{name: "below first unit", uPos: 0, uSize: 1, expected: false},
		{name: "fills to the top", uPos: 23, uSize: 2, expected: true},
		{name: "past the top", uPos: 24, uSize: 2, expected: false},
		{name: "covers existing device", uPos: 1, uSize: 5, expected: false},
		{name: "taller than the rack", uPos: 1, uSize: 25, expected: false},
		{name: "zero size", uPos: 5, uSize: 0, expected: false},
		{name: "max int position", uPos: math.MaxInt, uSize: 2, expected: false},
		{name: "max int size", uPos: 5, uSize: math.MaxInt, expected: false},
		{name: "min int position", uPos: math.MinInt, uSize: 2, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SlotAvailable(24, existing, tt.uPos, tt.uSize))
		})
	}
}

func TestInBoundsDoesNotWrap(t *testing.T) {
	assert.False(t, InBounds(24, math.MaxInt, 2))
	assert.False(t, InBounds(24, math.MaxInt-1, math.MaxInt))
	assert.False(t, InBounds(24, 2, math.MinInt))
	assert.True(t, InBounds(24, 24, 1))
}

func TestSlotConflict(t *testing.T) {
	existing := []*models.Device{device("d1", 1, 2), device("d2", 10, 4)}
	conflict := SlotConflict(existing, 12, 1)
	require.NotNil(t, conflict)
	assert.Equal(t, "d2", conflict.ID)
	assert.Nil(t, SlotConflict(existing, 3, 7))

	huge := []*models.Device{device("far", math.MaxInt, 2)}
	assert.Nil(t, SlotConflict(huge, 1, 24))
	conflict = SlotConflict(huge, math.MaxInt-5, 10)
	require.NotNil(t, conflict)
	assert.Equal(t, "far", conflict.ID)
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(1, 2, 2, 2), "touching at one unit overlaps")
	assert.False(t, Overlaps(1, 2, 3, 4), "adjacent ranges do not overlap")
	assert.True(t, Overlaps(5, 5, 1, 10), "contained range overlaps")
}

func TestFreeRanges(t *testing.T) {
	devices := []*models.Device{device("d1", 1, 2), device("d2", 5, 3)}
	ranges := FreeRanges(10, devices)
	assert.Equal(t, []URange{{Start: 3, End: 4}, {Start: 8, End: 10}}, ranges)
	assert.Equal(t, 2, ranges[0].Size())

	assert.Equal(t, []URange{{Start: 1, End: 24}}, FreeRanges(24, nil))

	outside := []*models.Device{device("far", math.MaxInt, 2), device("low", -3, 5)}
	assert.Equal(t, []URange{{Start: 2, End: 24}}, FreeRanges(24, outside))
}
