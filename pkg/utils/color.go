package utils

import (
	"strings"

	"github.com/fatih/color"

	"github.com/braunma/rackgrid/internal/constants"
	"github.com/braunma/rackgrid/pkg/models"
)

// SeverityColor returns the 6-char hex color for a severity
func SeverityColor(sev models.Severity) string {
	return constants.SeverityColorMap[strings.ToLower(string(sev))]
}

// DeviceTypeColor returns the 6-char hex color for a device type
func DeviceTypeColor(t models.DeviceType) string {
	return constants.DeviceTypeColorMap[strings.ToLower(string(t))]
}

var severityAttributes = map[models.Severity][]color.Attribute{
	models.SeverityCritical: {color.FgHiRed, color.Bold},
	models.SeverityMajor:    {color.FgRed},
	models.SeverityMinor:    {color.FgYellow},
	models.SeverityWarning:  {color.FgBlue},
}

// ColorizeSeverity renders text in the terminal color of a severity
func ColorizeSeverity(sev models.Severity, text string) string {
	attrs, ok := severityAttributes[sev]
	if !ok {
		return text
	}
	return color.New(attrs...).Sprint(text)
}
