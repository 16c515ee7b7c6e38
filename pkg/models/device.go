package models

import (
	"fmt"
	"math"
)

// DeviceType is the category of rack-mounted equipment
type DeviceType string

const (
	DeviceTypeSwitch DeviceType = "Switch"
	DeviceTypeRouter DeviceType = "Router"
	DeviceTypeServer DeviceType = "Server"
)

// ValidDeviceType reports whether t is one of the known device categories
func ValidDeviceType(t DeviceType) bool {
	switch t {
	case DeviceTypeSwitch, DeviceTypeRouter, DeviceTypeServer:
		return true
	}
	return false
}

// PortStatus is the operational status of a port
type PortStatus string

const (
	PortStatusNormal PortStatus = "normal"
	PortStatusError  PortStatus = "error"
)

// Severity ranks an error on a port
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

var severityRanks = map[Severity]int{
	SeverityWarning:  1,
	SeverityMinor:    2,
	SeverityMajor:    3,
	SeverityCritical: 4,
}

// AllSeverities returns the severities from most to least severe
func AllSeverities() []Severity {
	return []Severity{SeverityCritical, SeverityMajor, SeverityMinor, SeverityWarning}
}

// Rank orders severities: warning < minor < major < critical.
// Unknown or empty severities rank 0.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// Valid reports whether s is a known severity
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// PortState records a port that is not simply operational
type PortState struct {
	PortID       string     `yaml:"portId" json:"portId"`
	Status       PortStatus `yaml:"status" json:"status"`
	ErrorLevel   Severity   `yaml:"errorLevel,omitempty" json:"errorLevel,omitempty"`
	ErrorMessage string     `yaml:"errorMessage,omitempty" json:"errorMessage,omitempty"`
}

// IsError reports whether the port is in error with a known severity
func (p PortState) IsError() bool {
	return p.Status == PortStatusError && p.ErrorLevel.Valid()
}

// Validate checks the port state's shape
func (p PortState) Validate() error {
	if p.PortID == "" {
		return fmt.Errorf("port state has empty portId")
	}
	switch p.Status {
	case PortStatusNormal:
	case PortStatusError:
		if p.ErrorLevel != "" && !p.ErrorLevel.Valid() {
			return fmt.Errorf("port %s: invalid error level %q", p.PortID, p.ErrorLevel)
		}
	default:
		return fmt.Errorf("port %s: invalid status %q", p.PortID, p.Status)
	}
	return nil
}

// PortStates is a sparse, ordered set of port states keyed by port id.
// A port without an entry is operational.
type PortStates []PortState

// Lookup returns the state recorded for portID
func (ps PortStates) Lookup(portID string) (PortState, bool) {
	for _, p := range ps {
		if p.PortID == portID {
			return p, true
		}
	}
	return PortState{}, false
}

// Set records state, replacing any existing entry for the same port
func (ps PortStates) Set(state PortState) PortStates {
	for i, p := range ps {
		if p.PortID == state.PortID {
			out := append(PortStates{}, ps...)
			out[i] = state
			return out
		}
	}
	return append(append(PortStates{}, ps...), state)
}

// Clear removes the entry for portID, returning the port to operational
func (ps PortStates) Clear(portID string) PortStates {
	out := make(PortStates, 0, len(ps))
	for _, p := range ps {
		if p.PortID != portID {
			out = append(out, p)
		}
	}
	return out
}

// Errors returns only the entries in error
func (ps PortStates) Errors() PortStates {
	var out PortStates
	for _, p := range ps {
		if p.IsError() {
			out = append(out, p)
		}
	}
	return out
}

// Device is a piece of equipment mounted in a rack
type Device struct {
	ID         string     `yaml:"id" json:"id"`
	Type       DeviceType `yaml:"type" json:"type"`
	Name       string     `yaml:"name" json:"name"`
	USize      int        `yaml:"uSize" json:"uSize"`
	UPosition  int        `yaml:"uPosition" json:"uPosition"`
	ImageURL   string     `yaml:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	PortStates PortStates `yaml:"portStates" json:"portStates"`
}

// UEnd returns the topmost rack unit the device occupies
func (d *Device) UEnd() int {
	return UnitEnd(d.UPosition, d.USize)
}

// UnitEnd returns uPos+uSize-1, clamped to the int range instead of wrapping
func UnitEnd(uPos, uSize int) int {
	if uSize > 0 && uPos > math.MaxInt-uSize+1 {
		return math.MaxInt
	}
	if uSize < 1 && uPos < math.MinInt-uSize+1 {
		return math.MinInt
	}
	return uPos + uSize - 1
}

// Validate checks the device's shape. Slot legality is checked by the placement package.
func (d *Device) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("device has empty id")
	}
	if !ValidDeviceType(d.Type) {
		return fmt.Errorf("device %s: invalid type %q", d.ID, d.Type)
	}
	if d.USize < 1 {
		return fmt.Errorf("device %s: invalid uSize %d", d.ID, d.USize)
	}
	for _, p := range d.PortStates {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("device %s: %w", d.ID, err)
		}
	}
	return nil
}

// Clone returns a deep copy of the device
func (d *Device) Clone() *Device {
	c := *d
	if d.PortStates != nil {
		c.PortStates = append(PortStates{}, d.PortStates...)
	}
	return &c
}
