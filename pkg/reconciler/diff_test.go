package reconciler

import (
	"testing"

	"github.com/braunma/rackgrid/pkg/models"
)

func TestCalculateDiff(t *testing.T) {
	base := &models.Rack{ID: "r1", UHeight: 24, Position: models.GridPos{X: 1, Z: 2}, Orientation: models.South}

	tests := []struct {
		name     string
		desired  *models.Rack
		expected []string
	}{
		{
			name:     "identical",
			desired:  &models.Rack{ID: "r1", UHeight: 24, Position: models.GridPos{X: 1, Z: 2}, Orientation: models.South},
			expected: nil,
		},
		{
			name:     "moved",
			desired:  &models.Rack{ID: "r1", UHeight: 24, Position: models.GridPos{X: 1.5, Z: 2}, Orientation: models.South},
			expected: []string{fieldPosition},
		},
		{
			name:     "rotated",
			desired:  &models.Rack{ID: "r1", UHeight: 24, Position: models.GridPos{X: 1, Z: 2}, Orientation: models.East},
			expected: []string{fieldOrientation},
		},
		{
			name:     "moved and rotated",
			desired:  &models.Rack{ID: "r1", UHeight: 24, Position: models.GridPos{X: 0, Z: 0}, Orientation: models.North},
			expected: []string{fieldPosition, fieldOrientation},
		},
		{
			name:     "height is ignored",
			desired:  &models.Rack{ID: "r1", UHeight: 48, Position: models.GridPos{X: 1, Z: 2}, Orientation: models.South},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := calculateDiff(base, tt.desired)
			if len(changes) != len(tt.expected) {
				t.Fatalf("calculateDiff() returned %d changes, expected %d", len(changes), len(tt.expected))
			}
			for i, ch := range changes {
				if ch.field != tt.expected[i] {
					t.Errorf("change %d field = %q, expected %q", i, ch.field, tt.expected[i])
				}
			}
		})
	}
}

func TestRackFields(t *testing.T) {
	r := &models.Rack{ID: "r1", UHeight: 32, Position: models.GridPos{X: 2.5}, Orientation: models.West, Devices: []*models.Device{{ID: "d1"}}}

	fields := rackFields(r)
	if len(fields) != 4 {
		t.Fatalf("rackFields() returned %d fields, expected 4", len(fields))
	}
	if fields[0].newValue != 32 {
		t.Errorf("uHeight = %v, expected 32", fields[0].newValue)
	}
	if fields[3].newValue != 1 {
		t.Errorf("devices = %v, expected 1", fields[3].newValue)
	}
}
