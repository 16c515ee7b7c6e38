package layout

import (
	"fmt"

	"github.com/braunma/rackgrid/pkg/models"
	"github.com/braunma/rackgrid/pkg/placement"
)

// DeviceSpec describes a device to mount. The Store assigns an id unless one is given.
type DeviceSpec struct {
	ID         string
	Type       models.DeviceType
	Name       string
	USize      int
	UPosition  int
	ImageURL   string
	PortStates models.PortStates
}

// SpecFromTemplate builds a DeviceSpec for a template mounted at uPos
func SpecFromTemplate(tpl models.DeviceTemplate, uPos int) DeviceSpec {
	return DeviceSpec{
		Type:      tpl.Type,
		Name:      tpl.Name,
		USize:     tpl.USize,
		UPosition: uPos,
		ImageURL:  tpl.ImageURL,
	}
}

// AddDevice mounts a device in a rack after checking bounds and overlap
func (s *Store) AddDevice(rackID string, spec DeviceSpec) (*models.Device, error) {
	r := s.findRack(rackID)
	if r == nil {
		return nil, fmt.Errorf("add device: %w: %s", ErrRackNotFound, rackID)
	}
	if !models.ValidDeviceType(spec.Type) {
		return nil, fmt.Errorf("add device: %w: unknown type %q", ErrInvalidDevice, spec.Type)
	}
	if spec.USize < 1 {
		return nil, fmt.Errorf("add device: %w: uSize %d", ErrInvalidDevice, spec.USize)
	}
	for _, p := range spec.PortStates {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("add device: %w: %v", ErrInvalidDevice, err)
		}
	}

	if spec.ID != "" {
		if _, _, err := s.LocateDevice(spec.ID); err == nil {
			return nil, fmt.Errorf("add device: %w: %s", ErrDuplicateID, spec.ID)
		}
	}

	end := models.UnitEnd(spec.UPosition, spec.USize)
	if !placement.InBounds(r.UHeight, spec.UPosition, spec.USize) {
		s.logger.Warning("Device out of rack bounds: U%d-U%d in %dU rack %s", spec.UPosition, end, r.UHeight, rackID)
		return nil, fmt.Errorf("add device: %w: %dU device at U%d in %dU rack", ErrDeviceOutOfBounds, spec.USize, spec.UPosition, r.UHeight)
	}
	if conflict := placement.SlotConflict(r.Devices, spec.UPosition, spec.USize); conflict != nil {
		s.logger.Warning("Device collision in rack %s with %q", rackID, conflict.Name)
		return nil, fmt.Errorf("add device: %w: collision with %q (U%d-U%d)", ErrDeviceOverlap, conflict.Name, conflict.UPosition, conflict.UEnd())
	}

	name := spec.Name
	if name == "" {
		name = fmt.Sprintf("%s %d", spec.Type, spec.UPosition)
	}
	ports := models.PortStates{}
	if spec.PortStates != nil {
		ports = append(ports, spec.PortStates...)
	}

	id := spec.ID
	if id == "" {
		id = s.newID()
	}
	d := &models.Device{
		ID:         id,
		Type:       spec.Type,
		Name:       name,
		USize:      spec.USize,
		UPosition:  spec.UPosition,
		ImageURL:   spec.ImageURL,
		PortStates: ports,
	}
	r.Devices = append(r.Devices, d)
	s.logger.Debug("Added %s %q at U%d-U%d in rack %s", d.Type, d.Name, d.UPosition, d.UEnd(), rackID)
	return d.Clone(), nil
}

// RemoveDevice unmounts a device
func (s *Store) RemoveDevice(rackID, deviceID string) error {
	r := s.findRack(rackID)
	if r == nil {
		return fmt.Errorf("remove device: %w: %s", ErrRackNotFound, rackID)
	}

	kept := make([]*models.Device, 0, len(r.Devices))
	for _, d := range r.Devices {
		if d.ID != deviceID {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(r.Devices) {
		return fmt.Errorf("remove device: %w: %s in rack %s", ErrDeviceNotFound, deviceID, rackID)
	}
	r.Devices = kept

	if s.selectedDeviceID == deviceID {
		s.selectedDeviceID = ""
		s.highlightedPortID = ""
	}
	s.logger.Debug("Removed device %s from rack %s", deviceID, rackID)
	return nil
}

// SetPortState records the state of one port. A normal status clears the
// entry, since only abnormal ports are stored.
func (s *Store) SetPortState(rackID, deviceID string, state models.PortState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("set port state: %w: %v", ErrInvalidDevice, err)
	}
	d, err := s.findDevice(rackID, deviceID)
	if err != nil {
		return fmt.Errorf("set port state: %w", err)
	}

	if state.Status == models.PortStatusNormal {
		d.PortStates = d.PortStates.Clear(state.PortID)
		return nil
	}
	d.PortStates = d.PortStates.Set(state)
	s.logger.Debug("Port %s on %q is %s (%s)", state.PortID, d.Name, state.Status, state.ErrorLevel)
	return nil
}

// ClearPortState returns a port to operational
func (s *Store) ClearPortState(rackID, deviceID, portID string) error {
	d, err := s.findDevice(rackID, deviceID)
	if err != nil {
		return fmt.Errorf("clear port state: %w", err)
	}
	d.PortStates = d.PortStates.Clear(portID)
	return nil
}

// FreeRanges returns the unoccupied U ranges of a rack
func (s *Store) FreeRanges(rackID string) ([]placement.URange, error) {
	r := s.findRack(rackID)
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrRackNotFound, rackID)
	}
	return placement.FreeRanges(r.UHeight, r.Devices), nil
}

// LocateDevice returns copies of a device and its owning rack
func (s *Store) LocateDevice(deviceID string) (*models.Rack, *models.Device, error) {
	for _, r := range s.racks {
		if d := r.FindDevice(deviceID); d != nil {
			return r.Clone(), d.Clone(), nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
}

func (s *Store) findDevice(rackID, deviceID string) (*models.Device, error) {
	r := s.findRack(rackID)
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrRackNotFound, rackID)
	}
	d := r.FindDevice(deviceID)
	if d == nil {
		return nil, fmt.Errorf("%w: %s in rack %s", ErrDeviceNotFound, deviceID, rackID)
	}
	return d, nil
}
