package utils

import (
	"testing"
	"time"

	"github.com/braunma/rackgrid/pkg/models"
)

func TestExportFileName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	result := ExportFileName(now, "json")
	expected := "server-room-1700000000123.json"
	if result != expected {
		t.Errorf("ExportFileName() = %q, expected %q", result, expected)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{
			name:     "nil value",
			value:    nil,
			expected: "<nil>",
		},
		{
			name:     "string value",
			value:    "test",
			expected: "\"test\"",
		},
		{
			name:     "integer value",
			value:    42,
			expected: "42",
		},
		{
			name:     "float value",
			value:    2.5,
			expected: "2.5",
		},
		{
			name:     "empty slice",
			value:    []interface{}{},
			expected: "[]",
		},
		{
			name:     "slice with items",
			value:    []interface{}{"a", "b", "c"},
			expected: "[...3 items]",
		},
		{
			name:     "stringer",
			value:    models.GridPos{X: 1, Z: 2.5},
			expected: "[1, 2.5]",
		},
		{
			name:     "orientation",
			value:    models.South,
			expected: "South (180°)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatValue(tt.value)
			if result != tt.expected {
				t.Errorf("FormatValue(%v) = %q, expected %q", tt.value, result, tt.expected)
			}
		})
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		slice    []string
		item     string
		expected bool
	}{
		{
			name:     "found",
			slice:    []string{"json", "yaml"},
			item:     "yaml",
			expected: true,
		},
		{
			name:     "not found",
			slice:    []string{"json", "yaml"},
			item:     "xlsx",
			expected: false,
		},
		{
			name:     "empty slice",
			slice:    []string{},
			item:     "json",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Contains(tt.slice, tt.item)
			if result != tt.expected {
				t.Errorf("Contains(%v, %q) = %v, expected %v", tt.slice, tt.item, result, tt.expected)
			}
		})
	}
}
