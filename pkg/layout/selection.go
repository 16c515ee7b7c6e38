package layout

import (
	"fmt"

	"github.com/braunma/rackgrid/pkg/models"
	"github.com/braunma/rackgrid/pkg/placement"
)

// Selection is the current UI focus
type Selection struct {
	RackID        string
	DeviceID      string
	PortID        string
	FocusedRackID string
}

// Selection returns the current selection
func (s *Store) Selection() Selection {
	return Selection{
		RackID:        s.selectedRackID,
		DeviceID:      s.selectedDeviceID,
		PortID:        s.highlightedPortID,
		FocusedRackID: s.focusedRackID,
	}
}

// SelectRack selects a rack, or clears the selection when id is empty.
// Clearing the selection mid-drag finalizes the drag at the snapped candidate
// cell; the selection changes even if that commit is rejected, and the
// rejection is returned. Selecting a different rack abandons the drag
// without validating its candidate.
func (s *Store) SelectRack(id string) error {
	if id != "" && s.findRack(id) == nil {
		return fmt.Errorf("select rack: %w: %s", ErrRackNotFound, id)
	}

	var dragErr error
	switch {
	case s.drag == nil:
	case id == "":
		dragErr = s.finalizeDrag()
	case id != s.drag.rackID:
		s.logger.Debug("Drag of rack %s abandoned", s.drag.rackID)
		s.drag = nil
	}

	s.selectedRackID = id
	s.focusedRackID = ""
	s.selectedDeviceID = ""
	s.highlightedPortID = ""
	return dragErr
}

// SelectDevice selects a device and optionally highlights one of its ports
func (s *Store) SelectDevice(deviceID, portID string) error {
	if deviceID != "" {
		if _, _, err := s.LocateDevice(deviceID); err != nil {
			return fmt.Errorf("select device: %w", err)
		}
	}
	s.selectedDeviceID = deviceID
	s.highlightedPortID = portID
	if deviceID == "" {
		s.highlightedPortID = ""
	}
	return nil
}

// FocusRack points the camera at a rack, or releases focus when id is empty
func (s *Store) FocusRack(id string) error {
	if id != "" && s.findRack(id) == nil {
		return fmt.Errorf("focus rack: %w: %s", ErrRackNotFound, id)
	}
	s.focusedRackID = id
	return nil
}

// EditMode reports whether layout editing is enabled
func (s *Store) EditMode() bool {
	return s.editMode
}

// SetEditMode toggles editing. Turning it off mid-drag finalizes the drag at
// the snapped candidate cell and returns any rejection.
func (s *Store) SetEditMode(enabled bool) error {
	var dragErr error
	if !enabled && s.drag != nil {
		dragErr = s.finalizeDrag()
	}
	s.editMode = enabled
	return dragErr
}

// BeginDrag starts dragging a rack. offset is the world-space distance from
// the grab point to the rack's origin.
func (s *Store) BeginDrag(rackID string, offset models.GridPos) error {
	if !s.editMode {
		return fmt.Errorf("begin drag: %w", ErrEditModeOff)
	}
	if s.findRack(rackID) == nil {
		return fmt.Errorf("begin drag: %w: %s", ErrRackNotFound, rackID)
	}
	s.drag = &dragState{rackID: rackID, offset: offset}
	return nil
}

// UpdateDrag records the pointer's world position for the rack being dragged
func (s *Store) UpdateDrag(world models.GridPos) error {
	if s.drag == nil {
		return ErrNotDragging
	}
	pos := world.Sub(s.drag.offset)
	s.drag.position = &pos
	return nil
}

// DragCandidate returns the rack being dragged and the snapped cell it would
// land on. ok is false when no drag is in progress or the pointer has not moved.
func (s *Store) DragCandidate() (rackID string, cell models.GridPos, ok bool) {
	if s.drag == nil || s.drag.position == nil {
		return "", models.GridPos{}, false
	}
	cell = placement.SnapWorld(s.drag.position.X, s.drag.position.Z, s.spacing)
	return s.drag.rackID, cell, true
}

// IsDragging reports whether a drag is in progress
func (s *Store) IsDragging() bool {
	return s.drag != nil
}

// EndDrag commits a dragged rack to a grid cell. On a rejected placement the
// rack stays where it was and the drag state is discarded.
func (s *Store) EndDrag(id string, cell models.GridPos) error {
	s.drag = nil

	r := s.findRack(id)
	if r == nil {
		return fmt.Errorf("end drag: %w: %s", ErrRackNotFound, id)
	}
	cell = placement.SnapPos(cell)
	if err := s.checkPlacement(id, cell, r.Orientation); err != nil {
		s.logger.Warning("Collision at %s, reverting: %v", cell, err)
		return fmt.Errorf("end drag %s: %w", id, err)
	}

	r.Position = cell
	s.logger.Debug("State updated. Rack %s position is now %s", id, cell)
	return nil
}

// CancelDrag abandons a drag without validating or committing anything
func (s *Store) CancelDrag() {
	s.drag = nil
}

func (s *Store) finalizeDrag() error {
	rackID, cell, ok := s.DragCandidate()
	if !ok {
		s.drag = nil
		return nil
	}
	s.logger.Debug("Finalizing drag of rack %s at %s", rackID, cell)
	return s.EndDrag(rackID, cell)
}
