package reconciler

import (
	"errors"
	"fmt"

	"github.com/braunma/rackgrid/pkg/layout"
	"github.com/braunma/rackgrid/pkg/models"
	"github.com/braunma/rackgrid/pkg/placement"
	"github.com/braunma/rackgrid/pkg/utils"
)

// Result counts what a sync did, or would do in dry-run mode
type Result struct {
	Created      int
	Moved        int
	Rotated      int
	DevicesAdded int
	Unchanged    int
	Rejected     int
}

// Changed reports whether the sync changed anything
func (r Result) Changed() bool {
	return r.Created+r.Moved+r.Rotated+r.DevicesAdded > 0
}

// LayoutReconciler drives a Store towards a desired set of racks. Every change
// goes through a Store command, so a desired layout that breaks a placement
// rule is rejected rack by rack instead of being forced in.
type LayoutReconciler struct {
	store  *layout.Store
	logger *utils.Logger
	dryRun bool
}

// NewLayoutReconciler creates a reconciler for store
func NewLayoutReconciler(store *layout.Store, logger *utils.Logger, dryRun bool) *LayoutReconciler {
	if logger == nil {
		logger = utils.NewLogger(false)
	}
	return &LayoutReconciler{
		store:  store,
		logger: logger,
		dryRun: dryRun,
	}
}

// IsDryRun returns the dry-run status
func (lr *LayoutReconciler) IsDryRun() bool {
	return lr.dryRun
}

// Reconcile matches desired racks to the store by id. Absent racks are added,
// racks at another position are moved, racks facing another way are rotated
// and missing devices are mounted. Racks and devices that exist only in the
// store are left alone.
//
// In dry-run mode the changes are applied to a scratch copy, so rejections are
// still predicted, and the store itself is not touched.
//
// A rack that must both move and rotate is checked at its final cell and
// facing first, so a rejection leaves it exactly where it was.
//
// Rejected changes are logged and skipped; they are returned joined together
// once every rack has been processed.
func (lr *LayoutReconciler) Reconcile(desired []*models.Rack) (Result, error) {
	lr.logger.Info("Reconciling %d racks...", len(desired))

	target := lr.store
	if lr.dryRun {
		target = lr.store.Clone()
	}

	var result Result
	var rejected []error

	for _, want := range desired {
		if err := lr.reconcileRack(target, want, &result); err != nil {
			if !isRejection(err) {
				return result, fmt.Errorf("failed to reconcile rack %s: %w", want.ID, err)
			}
			lr.logger.Warning("Rejected rack %s: %v", want.ID, err)
			result.Rejected++
			rejected = append(rejected, err)
		}
	}

	lr.logSummary(result)
	if len(rejected) > 0 {
		return result, fmt.Errorf("%d changes rejected: %w", len(rejected), errors.Join(rejected...))
	}
	return result, nil
}

func (lr *LayoutReconciler) reconcileRack(target *layout.Store, want *models.Rack, result *Result) error {
	existing, err := target.Rack(want.ID)
	if errors.Is(err, layout.ErrRackNotFound) {
		return lr.createRack(target, want, result)
	}
	if err != nil {
		return err
	}

	if existing.UHeight != want.UHeight {
		lr.logger.Warning("Rack %s is %dU but defined as %dU; height is not synced", want.ID, existing.UHeight, want.UHeight)
	}

	changes := calculateDiff(existing, want)
	if len(changes) == 0 {
		lr.logger.Debug("  = No changes for rack %s", want.ID)
		result.Unchanged++
	} else {
		lr.logger.Info("  ⟳ Updating rack %s", want.ID)
		lr.printDiff("UPDATE", changes)

		if len(changes) > 1 {
			if err := checkFinalPlacement(target, want); err != nil {
				return err
			}
		}

		for _, ch := range changes {
			switch ch.field {
			case fieldPosition:
				lr.action("UPDATE", "move rack %s to %s", want.ID, want.Position)
				if err := target.MoveRack(want.ID, want.Position); err != nil {
					return err
				}
				result.Moved++
			case fieldOrientation:
				lr.action("UPDATE", "rotate rack %s to %s", want.ID, want.Orientation)
				if err := target.RotateRack(want.ID, want.Orientation); err != nil {
					return err
				}
				result.Rotated++
			}
		}
	}

	return lr.reconcileDevices(target, existing, want, result)
}

func (lr *LayoutReconciler) createRack(target *layout.Store, want *models.Rack, result *Result) error {
	lr.logger.Success("Creating rack %s", want.ID)
	lr.printDiff("CREATE", rackFields(want))
	lr.action("CREATE", "rack %s (%dU) at %s facing %s", want.ID, want.UHeight, want.Position, want.Orientation)

	created, err := target.AddRackWithID(want.ID, want.UHeight, want.Position, want.Orientation)
	if err != nil {
		return err
	}
	result.Created++
	return lr.reconcileDevices(target, created, want, result)
}

// reconcileDevices mounts every desired device the rack does not hold yet
func (lr *LayoutReconciler) reconcileDevices(target *layout.Store, existing, want *models.Rack, result *Result) error {
	for _, d := range want.Devices {
		if existing.FindDevice(d.ID) != nil {
			continue
		}

		lr.logger.Info("    + device %s %q at U%d-U%d", d.ID, d.Name, d.UPosition, d.UEnd())
		lr.action("CREATE", "device %s in rack %s", d.ID, want.ID)

		_, err := target.AddDevice(want.ID, layout.DeviceSpec{
			ID:         d.ID,
			Type:       d.Type,
			Name:       d.Name,
			USize:      d.USize,
			UPosition:  d.UPosition,
			ImageURL:   d.ImageURL,
			PortStates: d.PortStates,
		})
		if err != nil {
			return fmt.Errorf("device %s: %w", d.ID, err)
		}
		result.DevicesAdded++
	}
	return nil
}

// checkFinalPlacement validates the cell and facing a rack ends up with after
// all of its changes, before any of them is applied
func checkFinalPlacement(target *layout.Store, want *models.Rack) error {
	pos := placement.SnapPos(want.Position)
	if !placement.Finite(pos) {
		return fmt.Errorf("%w: %s", layout.ErrInvalidPosition, want.Position)
	}
	racks := target.Racks()
	if occupant := placement.OccupantOf(racks, want.ID, pos); occupant != nil {
		return fmt.Errorf("%w at %s by rack %s", layout.ErrCellOccupied, pos, occupant.ID)
	}
	if blocker := target.Rules().ClearanceBlocker(racks, want.ID, pos, want.Orientation); blocker != nil {
		return fmt.Errorf("%w with rack %s facing %s", layout.ErrClearanceViolation, blocker.ID, want.Orientation)
	}
	return nil
}

// action logs a pending change in dry-run mode
func (lr *LayoutReconciler) action(kind, msg string, args ...interface{}) {
	if lr.dryRun {
		lr.logger.DryRun(kind, msg, args...)
	}
}

func (lr *LayoutReconciler) logSummary(r Result) {
	prefix := ""
	if lr.dryRun {
		prefix = "[DRY-RUN] "
	}
	summary := fmt.Sprintf("%s%d created, %d moved, %d rotated, %d devices added, %d unchanged",
		prefix, r.Created, r.Moved, r.Rotated, r.DevicesAdded, r.Unchanged)
	if r.Rejected > 0 {
		lr.logger.Warning("%s, %d rejected", summary, r.Rejected)
		return
	}
	lr.logger.Success("%s", summary)
}

// isRejection reports whether err is a user-correctable failure of one desired
// rack, as opposed to a failure that should stop the sync
func isRejection(err error) bool {
	return layout.IsPlacementError(err) ||
		errors.Is(err, layout.ErrInvalidHeight) ||
		errors.Is(err, layout.ErrInvalidOrientation) ||
		errors.Is(err, layout.ErrInvalidPosition) ||
		errors.Is(err, layout.ErrInvalidDevice) ||
		errors.Is(err, layout.ErrDuplicateID)
}
