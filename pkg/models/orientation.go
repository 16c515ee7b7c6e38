package models

import (
	"fmt"

	"gopkg.in/yaml.v3"

	json "github.com/goccy/go-json"
)

// Orientation is the direction a rack's front door faces, in degrees
type Orientation int

const (
	North Orientation = 0
	East  Orientation = 90
	South Orientation = 180
	West  Orientation = 270
)

// Vector is a unit direction on the (x, z) grid plane
type Vector struct {
	DX float64
	DZ float64
}

// frontVectors maps each orientation to the unit vector its front face points along
var frontVectors = map[Orientation]Vector{
	North: {DX: 0, DZ: -1},
	East:  {DX: 1, DZ: 0},
	South: {DX: 0, DZ: 1},
	West:  {DX: -1, DZ: 0},
}

var orientationNames = map[Orientation]string{
	North: "North",
	East:  "East",
	South: "South",
	West:  "West",
}

// AllOrientations returns the four orientations in clockwise order starting at North
func AllOrientations() []Orientation {
	return []Orientation{North, East, South, West}
}

// Valid reports whether o is one of the four supported orientations
func (o Orientation) Valid() bool {
	_, ok := frontVectors[o]
	return ok
}

// Front returns the unit vector the front face points along.
// Invalid orientations yield the zero vector.
func (o Orientation) Front() Vector {
	return frontVectors[o]
}

func (o Orientation) String() string {
	if name, ok := orientationNames[o]; ok {
		return fmt.Sprintf("%s (%d°)", name, int(o))
	}
	return fmt.Sprintf("invalid (%d°)", int(o))
}

// ParseOrientation converts a degree value into an Orientation
func ParseOrientation(degrees int) (Orientation, error) {
	o := Orientation(degrees)
	if !o.Valid() {
		return 0, fmt.Errorf("invalid orientation %d: must be one of 0, 90, 180, 270", degrees)
	}
	return o, nil
}

// UnmarshalJSON rejects degree values outside the closed set
func (o *Orientation) UnmarshalJSON(data []byte) error {
	var degrees int
	if err := json.Unmarshal(data, &degrees); err != nil {
		return fmt.Errorf("orientation: %w", err)
	}
	parsed, err := ParseOrientation(degrees)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// UnmarshalYAML rejects degree values outside the closed set
func (o *Orientation) UnmarshalYAML(value *yaml.Node) error {
	var degrees int
	if err := value.Decode(&degrees); err != nil {
		return fmt.Errorf("orientation: %w", err)
	}
	parsed, err := ParseOrientation(degrees)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
