package layout

import "errors"

// Placement failures. Commands wrap these with context; check with errors.Is.
var (
	ErrCellOccupied       = errors.New("cell already occupied")
	ErrClearanceViolation = errors.New("front clearance violation")
	ErrDeviceOutOfBounds  = errors.New("device exceeds rack height")
	ErrDeviceOverlap      = errors.New("device overlaps existing device")
)

// Lookup and input failures
var (
	ErrRackNotFound       = errors.New("rack not found")
	ErrDeviceNotFound     = errors.New("device not found")
	ErrInvalidHeight      = errors.New("invalid rack height")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidPosition    = errors.New("invalid position")
	ErrInvalidDevice      = errors.New("invalid device")
	ErrDuplicateID        = errors.New("duplicate id")
	ErrNotDragging        = errors.New("no drag in progress")
	ErrEditModeOff        = errors.New("edit mode is off")
)

// IsPlacementError reports whether err is one of the four user-correctable placement failures
func IsPlacementError(err error) bool {
	return errors.Is(err, ErrCellOccupied) ||
		errors.Is(err, ErrClearanceViolation) ||
		errors.Is(err, ErrDeviceOutOfBounds) ||
		errors.Is(err, ErrDeviceOverlap)
}
