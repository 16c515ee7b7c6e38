package placement

import (
	"fmt"

	"github.com/braunma/rackgrid/pkg/models"
)

// Kind classifies a placement violation
type Kind int

const (
	KindCellCollision Kind = iota + 1
	KindClearance
	KindDeviceBounds
	KindDeviceOverlap
	KindOffGrid
)

func (k Kind) String() string {
	switch k {
	case KindCellCollision:
		return "cell-collision"
	case KindClearance:
		return "front-clearance"
	case KindDeviceBounds:
		return "device-bounds"
	case KindDeviceOverlap:
		return "device-overlap"
	case KindOffGrid:
		return "off-grid"
	default:
		return "unknown"
	}
}

// Violation is one rule broken by an existing layout
type Violation struct {
	Kind     Kind
	RackID   string
	OtherID  string
	DeviceID string
	Message  string
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s", v.Kind, v.Message)
}

// Audit checks a whole layout and returns every violation in it.
// Imported files are not guaranteed to respect the rules the commands enforce.
func (r Rules) Audit(racks []*models.Rack) []Violation {
	var violations []Violation

	for i, a := range racks {
		if !OnGrid(a.Position) {
			violations = append(violations, Violation{
				Kind:    KindOffGrid,
				RackID:  a.ID,
				Message: fmt.Sprintf("rack %s at %s is not on the half-unit grid", a.ID, a.Position),
			})
		}

		for _, b := range racks[i+1:] {
			if a.Position == b.Position {
				violations = append(violations, Violation{
					Kind:    KindCellCollision,
					RackID:  a.ID,
					OtherID: b.ID,
					Message: fmt.Sprintf("racks %s and %s share cell %s", a.ID, b.ID, a.Position),
				})
			}
		}

		for _, b := range racks {
			if a.ID == b.ID || a.Position == b.Position {
				continue
			}
			if r.InFront(a.Position, a.Orientation, b.Position) {
				violations = append(violations, Violation{
					Kind:    KindClearance,
					RackID:  a.ID,
					OtherID: b.ID,
					Message: fmt.Sprintf("rack %s at %s blocks the front of rack %s facing %s", b.ID, b.Position, a.ID, a.Orientation),
				})
			}
		}

		violations = append(violations, auditDevices(a)...)
	}

	return violations
}

func auditDevices(rack *models.Rack) []Violation {
	var violations []Violation
	for i, d := range rack.Devices {
		if !InBounds(rack.UHeight, d.UPosition, d.USize) {
			violations = append(violations, Violation{
				Kind:     KindDeviceBounds,
				RackID:   rack.ID,
				DeviceID: d.ID,
				Message: fmt.Sprintf("device %s (U%d-U%d) exceeds rack %s height %dU",
					d.ID, d.UPosition, d.UEnd(), rack.ID, rack.UHeight),
			})
		}
		for _, other := range rack.Devices[i+1:] {
			if Overlaps(d.UPosition, d.UEnd(), other.UPosition, other.UEnd()) {
				violations = append(violations, Violation{
					Kind:     KindDeviceOverlap,
					RackID:   rack.ID,
					DeviceID: d.ID,
					OtherID:  other.ID,
					Message:  fmt.Sprintf("devices %s and %s overlap in rack %s", d.ID, other.ID, rack.ID),
				})
			}
		}
	}
	return violations
}
