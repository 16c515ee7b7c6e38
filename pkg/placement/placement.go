// Package placement decides whether a rack or device may occupy a position.
// Every function here is a pure predicate over a hypothetical layout; callers
// own the racks and decide what to do with a negative answer.
package placement

import (
	"math"

	"github.com/braunma/rackgrid/internal/constants"
	"github.com/braunma/rackgrid/pkg/models"
)

// Rules holds the front-clearance constants, in grid units
type Rules struct {
	// Clearance is how far in front of a rack's door must stay free.
	Clearance float64
	// Alignment is the lateral offset below which another rack counts as
	// directly in front rather than beside.
	Alignment float64
}

// DefaultRules returns a clearance of 1.0 and an alignment of 0.5
func DefaultRules() Rules {
	return Rules{
		Clearance: constants.DefaultClearance,
		Alignment: constants.DefaultAlignment,
	}
}

// CellOccupied reports whether a rack other than excludeID already sits on pos.
// Positions must already be snapped; comparison is exact.
func CellOccupied(racks []*models.Rack, excludeID string, pos models.GridPos) bool {
	return OccupantOf(racks, excludeID, pos) != nil
}

// OccupantOf returns the rack other than excludeID sitting on pos, or nil
func OccupantOf(racks []*models.Rack, excludeID string, pos models.GridPos) *models.Rack {
	for _, r := range racks {
		if r.ID != excludeID && r.Position.X == pos.X && r.Position.Z == pos.Z {
			return r
		}
	}
	return nil
}

// FrontClearanceViolation reports whether placing rack id at pos facing o would
// put another rack inside its front clearance, or put it inside another rack's.
func (r Rules) FrontClearanceViolation(racks []*models.Rack, id string, pos models.GridPos, o models.Orientation) bool {
	return r.ClearanceBlocker(racks, id, pos, o) != nil
}

// ClearanceBlocker returns the first rack involved in a front-clearance
// violation for the candidate placement, or nil
func (r Rules) ClearanceBlocker(racks []*models.Rack, id string, pos models.GridPos, o models.Orientation) *models.Rack {
	for _, other := range racks {
		if other.ID == id {
			continue
		}
		// A rack's orientation only constrains its own front, so both
		// directions are evaluated independently.
		if r.InFront(pos, o, other.Position) || r.InFront(other.Position, other.Orientation, pos) {
			return other
		}
	}
	return nil
}

// InFront reports whether target lies in the clearance zone of a rack at origin facing o
func (r Rules) InFront(origin models.GridPos, o models.Orientation, target models.GridPos) bool {
	f := o.Front()
	d := target.Sub(origin)
	along := d.X*f.DX + d.Z*f.DZ
	lateral := math.Abs(d.X*f.DZ - d.Z*f.DX)
	return along > 0 && along <= r.Clearance && lateral < r.Alignment
}

// InBounds reports whether the U range [uPos, uPos+uSize-1] fits in a rack of uHeight.
// The end of the range is never computed, so huge positions cannot wrap around.
func InBounds(uHeight, uPos, uSize int) bool {
	return uPos >= 1 && uSize >= 1 && uSize <= uHeight && uPos <= uHeight-uSize+1
}

// Overlaps reports whether two closed U ranges intersect
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 <= e2 && e1 >= s2
}

// SlotConflict returns the first device whose range intersects the candidate, or nil
func SlotConflict(devices []*models.Device, uPos, uSize int) *models.Device {
	end := models.UnitEnd(uPos, uSize)
	for _, d := range devices {
		if Overlaps(uPos, end, d.UPosition, d.UEnd()) {
			return d
		}
	}
	return nil
}

// SlotAvailable reports whether a device of uSize may be mounted at uPos in a
// rack of uHeight already holding devices
func SlotAvailable(uHeight int, devices []*models.Device, uPos, uSize int) bool {
	if !InBounds(uHeight, uPos, uSize) {
		return false
	}
	return SlotConflict(devices, uPos, uSize) == nil
}

// URange is a closed range of rack units
type URange struct {
	Start int
	End   int
}

// Size returns the number of units in the range
func (u URange) Size() int {
	return u.End - u.Start + 1
}

// FreeRanges returns the unoccupied U ranges of a rack, bottom to top
func FreeRanges(uHeight int, devices []*models.Device) []URange {
	used := make([]bool, uHeight+1)
	for _, d := range devices {
		for u := max(d.UPosition, 1); u <= min(d.UEnd(), uHeight); u++ {
			used[u] = true
		}
	}

	var ranges []URange
	start := 0
	for u := 1; u <= uHeight; u++ {
		if !used[u] && start == 0 {
			start = u
		}
		if used[u] && start != 0 {
			ranges = append(ranges, URange{Start: start, End: u - 1})
			start = 0
		}
	}
	if start != 0 {
		ranges = append(ranges, URange{Start: start, End: uHeight})
	}
	return ranges
}
