// Package layout holds the server-room application state. The Store owns the
// canonical rack list together with selection, drag and edit-mode state, and
// every mutation goes through a command that consults the placement rules
// before committing.
//
// A Store is not safe for concurrent use; it is driven by one command at a
// time and every command either commits fully or leaves state untouched.
package layout

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/braunma/rackgrid/internal/constants"
	"github.com/braunma/rackgrid/pkg/models"
	"github.com/braunma/rackgrid/pkg/placement"
	"github.com/braunma/rackgrid/pkg/utils"
)

// Store is the single owner of the layout
type Store struct {
	racks   []*models.Rack
	rules   placement.Rules
	spacing float64
	logger  *utils.Logger
	newID   func() string

	selectedRackID    string
	selectedDeviceID  string
	highlightedPortID string
	focusedRackID     string
	editMode          bool
	drag              *dragState
}

// dragState is the transient candidate for a rack being dragged. It is never
// visible through Racks until EndDrag commits it.
type dragState struct {
	rackID   string
	offset   models.GridPos
	position *models.GridPos
}

// Option configures a Store
type Option func(*Store)

// WithRules overrides the front-clearance rules
func WithRules(rules placement.Rules) Option {
	return func(s *Store) { s.rules = rules }
}

// WithGridSpacing sets the world distance of one grid unit
func WithGridSpacing(spacing float64) Option {
	return func(s *Store) {
		if spacing > 0 {
			s.spacing = spacing
		}
	}
}

// WithIDGenerator replaces the UUID generator, mainly for tests
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// NewStore creates an empty layout
func NewStore(logger *utils.Logger, opts ...Option) *Store {
	s := &Store{
		racks:   []*models.Rack{},
		rules:   placement.DefaultRules(),
		spacing: constants.GridSpacing,
		logger:  logger,
		newID:   uuid.NewString,
	}
	if s.logger == nil {
		s.logger = utils.NewLogger(false)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clone returns an independent store holding a copy of the layout, rules and
// spacing. Selection, drag and edit state are not copied.
func (s *Store) Clone() *Store {
	return &Store{
		racks:   s.Racks(),
		rules:   s.rules,
		spacing: s.spacing,
		logger:  s.logger,
		newID:   s.newID,
	}
}

// Rules returns the clearance rules in effect
func (s *Store) Rules() placement.Rules {
	return s.rules
}

// GridSpacing returns the world distance of one grid unit
func (s *Store) GridSpacing() float64 {
	return s.spacing
}

// Racks returns a deep copy of every rack in insertion order
func (s *Store) Racks() []*models.Rack {
	out := make([]*models.Rack, len(s.racks))
	for i, r := range s.racks {
		out[i] = r.Clone()
	}
	return out
}

// Rack returns a copy of the rack with the given id
func (s *Store) Rack(id string) (*models.Rack, error) {
	r := s.findRack(id)
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrRackNotFound, id)
	}
	return r.Clone(), nil
}

// Len returns the number of racks
func (s *Store) Len() int {
	return len(s.racks)
}

// Load replaces the whole layout and resets selection, focus and drag state.
// The racks are copied. Any rule the incoming layout already breaks is
// returned and logged, not rejected.
func (s *Store) Load(racks []*models.Rack) []placement.Violation {
	s.racks = make([]*models.Rack, 0, len(racks))
	for _, r := range racks {
		c := r.Clone()
		c.Normalize()
		s.racks = append(s.racks, c)
	}
	s.selectedRackID = ""
	s.selectedDeviceID = ""
	s.highlightedPortID = ""
	s.focusedRackID = ""
	s.drag = nil

	violations := s.rules.Audit(s.racks)
	for _, v := range violations {
		s.logger.Warning("Loaded layout: %s", v.Message)
	}
	s.logger.Debug("Loaded %d racks", len(s.racks))
	return violations
}

// Audit returns every rule the current layout breaks
func (s *Store) Audit() []placement.Violation {
	return s.rules.Audit(s.racks)
}

// AddRack places a new empty rack. The position is snapped to the grid first.
// On success the new rack is selected and a copy is returned.
func (s *Store) AddRack(uHeight int, pos models.GridPos, orientation models.Orientation) (*models.Rack, error) {
	return s.addRack(s.newID(), uHeight, pos, orientation)
}

// AddRackWithID is AddRack with a caller-chosen id, used when syncing from
// definitions that carry stable ids
func (s *Store) AddRackWithID(id string, uHeight int, pos models.GridPos, orientation models.Orientation) (*models.Rack, error) {
	if id == "" {
		return nil, fmt.Errorf("add rack: %w: empty id", ErrDuplicateID)
	}
	if s.findRack(id) != nil {
		return nil, fmt.Errorf("add rack: %w: %s", ErrDuplicateID, id)
	}
	return s.addRack(id, uHeight, pos, orientation)
}

func (s *Store) addRack(id string, uHeight int, pos models.GridPos, orientation models.Orientation) (*models.Rack, error) {
	if !models.ValidRackHeight(uHeight) {
		return nil, fmt.Errorf("%w: %d (expected one of %v)", ErrInvalidHeight, uHeight, constants.RackHeights)
	}
	if !orientation.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrientation, int(orientation))
	}

	pos = placement.SnapPos(pos)
	if err := s.checkPlacement("", pos, orientation); err != nil {
		s.logger.Warning("Cannot add rack at %s: %v", pos, err)
		return nil, fmt.Errorf("add rack: %w", err)
	}

	r := &models.Rack{
		ID:          id,
		UHeight:     uHeight,
		Position:    pos,
		Orientation: orientation,
		Devices:     []*models.Device{},
	}
	s.racks = append(s.racks, r)
	s.selectedRackID = r.ID
	s.logger.Debug("Added %dU rack %s at %s facing %s", uHeight, r.ID, pos, orientation)
	return r.Clone(), nil
}

// MoveRack moves a rack to a new cell, keeping its orientation
func (s *Store) MoveRack(id string, pos models.GridPos) error {
	r := s.findRack(id)
	if r == nil {
		return fmt.Errorf("move rack: %w: %s", ErrRackNotFound, id)
	}

	pos = placement.SnapPos(pos)
	if err := s.checkPlacement(id, pos, r.Orientation); err != nil {
		s.logger.Warning("Cannot move rack %s to %s: %v", id, pos, err)
		return fmt.Errorf("move rack %s: %w", id, err)
	}

	r.Position = pos
	s.logger.Debug("Rack %s position is now %s", id, pos)
	return nil
}

// RotateRack changes the facing of a rack in place. Rotating to the current
// orientation always succeeds.
func (s *Store) RotateRack(id string, orientation models.Orientation) error {
	if !orientation.Valid() {
		return fmt.Errorf("rotate rack: %w: %d", ErrInvalidOrientation, int(orientation))
	}
	r := s.findRack(id)
	if r == nil {
		return fmt.Errorf("rotate rack: %w: %s", ErrRackNotFound, id)
	}
	if r.Orientation == orientation {
		return nil
	}

	if blocker := s.rules.ClearanceBlocker(s.racks, id, r.Position, orientation); blocker != nil {
		s.logger.Warning("Cannot rotate rack %s to %s: rack %s is within front clearance", id, orientation, blocker.ID)
		return fmt.Errorf("rotate rack %s: %w with rack %s", id, ErrClearanceViolation, blocker.ID)
	}

	r.Orientation = orientation
	s.logger.Debug("Rack %s now faces %s", id, orientation)
	return nil
}

// DeleteRack removes a rack and every device in it
func (s *Store) DeleteRack(id string) error {
	idx := s.rackIndex(id)
	if idx < 0 {
		return fmt.Errorf("delete rack: %w: %s", ErrRackNotFound, id)
	}

	r := s.racks[idx]
	if s.selectedDeviceID != "" && r.FindDevice(s.selectedDeviceID) != nil {
		s.selectedDeviceID = ""
		s.highlightedPortID = ""
	}
	s.racks = append(s.racks[:idx], s.racks[idx+1:]...)

	if s.selectedRackID == id {
		s.selectedRackID = ""
	}
	if s.focusedRackID == id {
		s.focusedRackID = ""
	}
	if s.drag != nil && s.drag.rackID == id {
		s.drag = nil
	}
	s.logger.Debug("Deleted rack %s with %d devices", id, len(r.Devices))
	return nil
}

// OrientationOption is one facing a rack could be rotated to
type OrientationOption struct {
	Orientation models.Orientation
	Current     bool
	Allowed     bool
}

// OrientationOptions lists the four orientations and whether each is legal
// for the rack at its current position
func (s *Store) OrientationOptions(id string) ([]OrientationOption, error) {
	r := s.findRack(id)
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrRackNotFound, id)
	}

	options := make([]OrientationOption, 0, 4)
	for _, o := range models.AllOrientations() {
		current := r.Orientation == o
		allowed := current || !s.rules.FrontClearanceViolation(s.racks, id, r.Position, o)
		options = append(options, OrientationOption{Orientation: o, Current: current, Allowed: allowed})
	}
	return options, nil
}

// checkPlacement runs the cell and clearance rules for a candidate rack
func (s *Store) checkPlacement(id string, pos models.GridPos, orientation models.Orientation) error {
	if !placement.Finite(pos) {
		return fmt.Errorf("%w: %s is not a finite grid cell", ErrInvalidPosition, pos)
	}
	if occupant := placement.OccupantOf(s.racks, id, pos); occupant != nil {
		return fmt.Errorf("%w at %s by rack %s", ErrCellOccupied, pos, occupant.ID)
	}
	if blocker := s.rules.ClearanceBlocker(s.racks, id, pos, orientation); blocker != nil {
		return fmt.Errorf("%w with rack %s", ErrClearanceViolation, blocker.ID)
	}
	return nil
}

func (s *Store) findRack(id string) *models.Rack {
	if idx := s.rackIndex(id); idx >= 0 {
		return s.racks[idx]
	}
	return nil
}

func (s *Store) rackIndex(id string) int {
	for i, r := range s.racks {
		if r.ID == id {
			return i
		}
	}
	return -1
}
