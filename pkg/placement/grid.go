package placement

import (
	"math"

	"github.com/braunma/rackgrid/internal/constants"
	"github.com/braunma/rackgrid/pkg/models"
)

// Snap rounds v to the nearest half grid unit, halves rounding up
func Snap(v float64) float64 {
	steps := math.Floor(v/constants.GridStep + 0.5)
	return steps * constants.GridStep
}

// SnapPos snaps both axes of p
func SnapPos(p models.GridPos) models.GridPos {
	return models.GridPos{X: Snap(p.X), Z: Snap(p.Z)}
}

// SnapWorld converts a world-space point into a snapped grid cell
func SnapWorld(worldX, worldZ, spacing float64) models.GridPos {
	if spacing <= 0 {
		spacing = constants.GridSpacing
	}
	return models.GridPos{X: Snap(worldX / spacing), Z: Snap(worldZ / spacing)}
}

// Finite reports whether both coordinates of p are real numbers
func Finite(p models.GridPos) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

// OnGrid reports whether p is finite and already lies on the half-unit grid
func OnGrid(p models.GridPos) bool {
	return Finite(p) && SnapPos(p) == p
}
