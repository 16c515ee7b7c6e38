package reconciler

import (
	"github.com/braunma/rackgrid/pkg/models"
	"github.com/braunma/rackgrid/pkg/utils"
)

const (
	fieldUHeight     = "uHeight"
	fieldPosition    = "position"
	fieldOrientation = "orientation"
	fieldDevices     = "devices"
)

// change is one field that differs between the stored and desired rack
type change struct {
	field    string
	oldValue interface{}
	newValue interface{}
}

// calculateDiff compares an existing rack with its desired state. Only the
// fields a sync can change are compared; height is fixed once a rack exists.
func calculateDiff(existing, desired *models.Rack) []change {
	var changes []change

	if existing.Position != desired.Position {
		changes = append(changes, change{field: fieldPosition, oldValue: existing.Position, newValue: desired.Position})
	}
	if existing.Orientation != desired.Orientation {
		changes = append(changes, change{field: fieldOrientation, oldValue: existing.Orientation, newValue: desired.Orientation})
	}

	return changes
}

// rackFields lists the fields of a rack about to be created
func rackFields(r *models.Rack) []change {
	return []change{
		{field: fieldUHeight, newValue: r.UHeight},
		{field: fieldPosition, newValue: r.Position},
		{field: fieldOrientation, newValue: r.Orientation},
		{field: fieldDevices, newValue: len(r.Devices)},
	}
}

// printDiff prints a visual diff for console visibility
func (lr *LayoutReconciler) printDiff(action string, changes []change) {
	if lr.dryRun {
		return
	}

	lr.logger.Debug("    ┌─ Changes ────────────────────")
	switch action {
	case "CREATE":
		for _, ch := range changes {
			lr.logger.Success("    │ + %s: %s", ch.field, utils.FormatValue(ch.newValue))
		}
	case "UPDATE":
		for _, ch := range changes {
			lr.logger.Warning("    │ ~ %s:", ch.field)
			lr.logger.Warning("    │   - %s", utils.FormatValue(ch.oldValue))
			lr.logger.Success("    │   + %s", utils.FormatValue(ch.newValue))
		}
	}
	lr.logger.Debug("    └──────────────────────────────")
}
