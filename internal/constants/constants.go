package constants

// Grid constants
const (
	// GridSpacing is the world distance between two whole grid units.
	GridSpacing = 1.5
	// GridStep is the placement granularity in grid units.
	GridStep = 0.5
)

// Front clearance defaults (grid units)
const (
	DefaultClearance = 1.0
	DefaultAlignment = 0.5
)

// Rack heights in rack units
const (
	RackHeight24 = 24
	RackHeight32 = 32
	RackHeight48 = 48
)

// RackHeights lists every supported rack height
var RackHeights = []int{RackHeight24, RackHeight32, RackHeight48}

// Camera framing
const (
	CameraLookHeight   = 1.0
	CameraOffsetXZ     = 4.0
	CameraEyeHeight    = 4.0
	CameraSpeed        = 4.0
	CameraArriveRadius = 0.1
	CameraOverviewXYZ  = 10.0
	CameraFrameRate    = 60
)

// Sample layout
const (
	SampleRackCount      = 20
	SampleColumns        = 10
	SampleColumnSpacing  = 2.5
	SampleRowSpacing     = 2.0
	SampleDevicesPerRack = 5
	SampleErrorChance    = 0.3
	SamplePortCount      = 24
	SampleErrorMessage   = "Port link failure"
)

// Export
const (
	ExportFilePrefix = "server-room-"
	JSONIndent       = "  "
)

// Severity colors (6-char hex)
var SeverityColorMap = map[string]string{
	"critical": "f2495c",
	"major":    "ff9830",
	"minor":    "fade2a",
	"warning":  "5794f2",
}

// Device type colors (6-char hex)
var DeviceTypeColorMap = map[string]string{
	"switch": "73bf69",
	"router": "ff9830",
	"server": "3d71d9",
}
