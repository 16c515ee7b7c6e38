package utils

import (
	"fmt"
	"time"

	"github.com/braunma/rackgrid/internal/constants"
)

// ExportFileName returns the default name for an exported layout, e.g.
// "server-room-1700000000000.json"
func ExportFileName(now time.Time, ext string) string {
	return fmt.Sprintf("%s%d.%s", constants.ExportFilePrefix, now.UnixMilli(), ext)
}

// FormatValue formats a value for diff display
func FormatValue(val interface{}) string {
	if val == nil {
		return "<nil>"
	}

	switch v := val.(type) {
	case string:
		return fmt.Sprintf("\"%s\"", v)
	case []interface{}:
		if len(v) == 0 {
			return "[]"
		}
		return fmt.Sprintf("[...%d items]", len(v))
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Contains checks if a string slice contains a specific string
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
