package models

// DeviceTemplate is a reusable blueprint for adding devices
type DeviceTemplate struct {
	Name      string     `yaml:"name" json:"name"`
	Type      DeviceType `yaml:"type" json:"type"`
	USize     int        `yaml:"uSize" json:"uSize"`
	ImageURL  string     `yaml:"imageUrl" json:"imageUrl"`
	PortCount int        `yaml:"portCount" json:"portCount"`
}

// DefaultTemplates returns the built-in device catalog
func DefaultTemplates() []DeviceTemplate {
	return []DeviceTemplate{
		{Name: "120YD", Type: DeviceTypeServer, USize: 9, ImageURL: "/assets/120YD.png", PortCount: 24},
		{Name: "AR_1", Type: DeviceTypeRouter, USize: 1, ImageURL: "/assets/AR_1.png", PortCount: 8},
		{Name: "AR_2", Type: DeviceTypeRouter, USize: 1, ImageURL: "/assets/AR_2.png", PortCount: 8},
		{Name: "CR", Type: DeviceTypeRouter, USize: 17, ImageURL: "/assets/CR.png", PortCount: 48},
		{Name: "ER_1", Type: DeviceTypeRouter, USize: 4, ImageURL: "/assets/ER_1.png", PortCount: 16},
		{Name: "OTN_B1", Type: DeviceTypeSwitch, USize: 14, ImageURL: "/assets/OTN_B1.png", PortCount: 48},
		{Name: "OTN_JIJAKSA", Type: DeviceTypeSwitch, USize: 14, ImageURL: "/assets/OTN_JIJAKSA.png", PortCount: 48},
	}
}

// FindTemplate returns the template with the given name
func FindTemplate(templates []DeviceTemplate, name string) (DeviceTemplate, bool) {
	for _, t := range templates {
		if t.Name == name {
			return t, true
		}
	}
	return DeviceTemplate{}, false
}

// FittingTemplates returns the templates no taller than remaining rack units
func FittingTemplates(templates []DeviceTemplate, remaining int) []DeviceTemplate {
	var out []DeviceTemplate
	for _, t := range templates {
		if t.USize <= remaining {
			out = append(out, t)
		}
	}
	return out
}
