package models

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	json "github.com/goccy/go-json"
)

// GridPos is a cell on the half-unit placement grid
type GridPos struct {
	X float64
	Z float64
}

// Sub returns the displacement from other to p
func (p GridPos) Sub(other GridPos) GridPos {
	return GridPos{X: p.X - other.X, Z: p.Z - other.Z}
}

func (p GridPos) String() string {
	return fmt.Sprintf("[%g, %g]", p.X, p.Z)
}

// MarshalJSON encodes the position as an [x, z] pair
func (p GridPos) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Z})
}

// UnmarshalJSON decodes an [x, z] pair
func (p *GridPos) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("position: expected [x, z], got %d values", len(pair))
	}
	p.X, p.Z = pair[0], pair[1]
	return nil
}

// MarshalYAML encodes the position as an [x, z] sequence
func (p GridPos) MarshalYAML() (interface{}, error) {
	return []float64{p.X, p.Z}, nil
}

// UnmarshalYAML decodes an [x, z] sequence
func (p *GridPos) UnmarshalYAML(value *yaml.Node) error {
	var pair []float64
	if err := value.Decode(&pair); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("position: expected [x, z], got %d values", len(pair))
	}
	p.X, p.Z = pair[0], pair[1]
	return nil
}

// Rack is a floor-standing rack placed on the grid
type Rack struct {
	ID          string      `yaml:"id" json:"id"`
	UHeight     int         `yaml:"uHeight" json:"uHeight"`
	Position    GridPos     `yaml:"position" json:"position"`
	Orientation Orientation `yaml:"orientation" json:"orientation"`
	Devices     []*Device   `yaml:"devices" json:"devices"`
}

// ValidRackHeight reports whether h is a supported rack height
func ValidRackHeight(h int) bool {
	return h == 24 || h == 32 || h == 48
}

// Label returns the short display name used in dashboards, e.g. "24U-1a2b"
func (r *Rack) Label() string {
	short := r.ID
	if len(short) > 4 {
		short = short[:4]
	}
	return fmt.Sprintf("%dU-%s", r.UHeight, short)
}

// FindDevice returns the device with the given id, or nil
func (r *Rack) FindDevice(id string) *Device {
	for _, d := range r.Devices {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// Validate checks the rack's shape: id, height, orientation and every device.
// It does not check placement rules.
func (r *Rack) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rack has empty id")
	}
	if !ValidRackHeight(r.UHeight) {
		return fmt.Errorf("rack %s: invalid height %d", r.ID, r.UHeight)
	}
	if !r.Orientation.Valid() {
		return fmt.Errorf("rack %s: invalid orientation %d", r.ID, int(r.Orientation))
	}
	if math.IsNaN(r.Position.X) || math.IsInf(r.Position.X, 0) || math.IsNaN(r.Position.Z) || math.IsInf(r.Position.Z, 0) {
		return fmt.Errorf("rack %s: position %s is not a finite number", r.ID, r.Position)
	}
	for _, d := range r.Devices {
		if d == nil {
			return fmt.Errorf("rack %s: null device entry", r.ID)
		}
		if err := d.Validate(); err != nil {
			return fmt.Errorf("rack %s: %w", r.ID, err)
		}
	}
	return nil
}

// Normalize replaces nil collections with empty ones so encoded files
// always carry arrays
func (r *Rack) Normalize() {
	if r.Devices == nil {
		r.Devices = []*Device{}
	}
	for _, d := range r.Devices {
		if d.PortStates == nil {
			d.PortStates = PortStates{}
		}
	}
}

// Clone returns a deep copy of the rack
func (r *Rack) Clone() *Rack {
	c := *r
	c.Devices = make([]*Device, len(r.Devices))
	for i, d := range r.Devices {
		c.Devices[i] = d.Clone()
	}
	return &c
}
