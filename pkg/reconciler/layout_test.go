package reconciler

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/braunma/rackgrid/pkg/layout"
	"github.com/braunma/rackgrid/pkg/models"
	"github.com/braunma/rackgrid/pkg/utils"
)

func testLogger(t *testing.T) (*utils.Logger, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	return utils.NewLoggerTo(&buf, &buf, true), &buf
}

func desiredRack(id string, x, z float64, o models.Orientation, devices ...*models.Device) *models.Rack {
	if devices == nil {
		devices = []*models.Device{}
	}
	return &models.Rack{ID: id, UHeight: 24, Position: models.GridPos{X: x, Z: z}, Orientation: o, Devices: devices}
}

func desiredDevice(id string, uPos, uSize int) *models.Device {
	return &models.Device{ID: id, Type: models.DeviceTypeServer, Name: id, USize: uSize, UPosition: uPos, PortStates: models.PortStates{}}
}

func TestReconcileCreatesRacksAndDevices(t *testing.T) {
	logger, buf := testLogger(t)
	store := layout.NewStore(logger)
	lr := NewLayoutReconciler(store, logger, false)

	desired := []*models.Rack{
		desiredRack("a1", 0, 0, models.South, desiredDevice("a1-srv", 1, 2), desiredDevice("a1-srv2", 3, 1)),
		desiredRack("b1", 0, 3, models.North),
	}

	result, err := lr.Reconcile(desired)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if result.Created != 2 {
		t.Errorf("Created = %d, expected 2", result.Created)
	}
	if result.DevicesAdded != 2 {
		t.Errorf("DevicesAdded = %d, expected 2", result.DevicesAdded)
	}

	rack, err := store.Rack("a1")
	if err != nil {
		t.Fatalf("Rack(a1) error = %v", err)
	}
	if rack.FindDevice("a1-srv") == nil {
		t.Error("device a1-srv was not mounted with its defined id")
	}
	if !strings.Contains(buf.String(), "+ position: [0, 0]") {
		t.Errorf("CREATE diff missing from output:\n%s", buf.String())
	}
}

func TestReconcileMovesAndRotates(t *testing.T) {
	logger, buf := testLogger(t)
	store := layout.NewStore(logger)
	if _, err := store.AddRackWithID("r1", 24, models.GridPos{}, models.South); err != nil {
		t.Fatalf("AddRackWithID() error = %v", err)
	}

	lr := NewLayoutReconciler(store, logger, false)
	result, err := lr.Reconcile([]*models.Rack{desiredRack("r1", 3, 0, models.West)})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if result.Moved != 1 || result.Rotated != 1 {
		t.Errorf("Reconcile() = %+v, expected one move and one rotation", result)
	}

	rack, _ := store.Rack("r1")
	if rack.Position != (models.GridPos{X: 3, Z: 0}) {
		t.Errorf("Position = %v, expected [3, 0]", rack.Position)
	}
	if rack.Orientation != models.West {
		t.Errorf("Orientation = %v, expected West", rack.Orientation)
	}

	out := buf.String()
	for _, fragment := range []string{"~ position:", "- [0, 0]", "+ [3, 0]", "+ West (270°)"} {
		if !strings.Contains(out, fragment) {
			t.Errorf("UPDATE diff missing %q:\n%s", fragment, out)
		}
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	logger, _ := testLogger(t)
	store := layout.NewStore(logger)
	lr := NewLayoutReconciler(store, logger, false)

	desired := []*models.Rack{
		desiredRack("a1", 0, 0, models.South, desiredDevice("a1-srv", 1, 2)),
		desiredRack("a2", 2.5, 0, models.South),
	}

	if _, err := lr.Reconcile(desired); err != nil {
		t.Fatalf("first Reconcile() error = %v", err)
	}
	result, err := lr.Reconcile(desired)
	if err != nil {
		t.Fatalf("second Reconcile() error = %v", err)
	}
	if result.Changed() {
		t.Errorf("second Reconcile() = %+v, expected no changes", result)
	}
	if result.Unchanged != 2 {
		t.Errorf("Unchanged = %d, expected 2", result.Unchanged)
	}
}

func TestReconcileDryRunLeavesStoreUntouched(t *testing.T) {
	logger, buf := testLogger(t)
	store := layout.NewStore(logger)
	if _, err := store.AddRackWithID("r1", 24, models.GridPos{}, models.South); err != nil {
		t.Fatalf("AddRackWithID() error = %v", err)
	}

	lr := NewLayoutReconciler(store, logger, true)
	if !lr.IsDryRun() {
		t.Fatal("IsDryRun() = false, expected true")
	}

	result, err := lr.Reconcile([]*models.Rack{
		desiredRack("r1", 5, 0, models.South),
		desiredRack("r2", 10, 0, models.South, desiredDevice("r2-srv", 1, 1)),
	})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if result.Created != 1 || result.Moved != 1 || result.DevicesAdded != 1 {
		t.Errorf("Reconcile() = %+v", result)
	}

	if store.Len() != 1 {
		t.Errorf("store has %d racks after dry run, expected 1", store.Len())
	}
	rack, _ := store.Rack("r1")
	if rack.Position != (models.GridPos{}) {
		t.Errorf("dry run moved rack to %v", rack.Position)
	}

	out := buf.String()
	for _, fragment := range []string{"[DRY-RUN] CREATE: rack r2", "[DRY-RUN] UPDATE: move rack r1", "[DRY-RUN] CREATE: device r2-srv"} {
		if !strings.Contains(out, fragment) {
			t.Errorf("dry-run output missing %q:\n%s", fragment, out)
		}
	}
}

func TestReconcileRejectsAndContinues(t *testing.T) {
	for _, dryRun := range []bool{false, true} {
		name := "apply"
		if dryRun {
			name = "dry run"
		}
		t.Run(name, func(t *testing.T) {
			logger, buf := testLogger(t)
			store := layout.NewStore(logger)
			if _, err := store.AddRackWithID("x", 24, models.GridPos{}, models.South); err != nil {
				t.Fatalf("AddRackWithID() error = %v", err)
			}

			lr := NewLayoutReconciler(store, logger, dryRun)
			result, err := lr.Reconcile([]*models.Rack{
				desiredRack("y", 0, 1, models.North),
				desiredRack("z", 5, 5, models.South),
			})

			if !errors.Is(err, layout.ErrClearanceViolation) {
				t.Errorf("Reconcile() error = %v, expected clearance violation", err)
			}
			if result.Rejected != 1 || result.Created != 1 {
				t.Errorf("Reconcile() = %+v, expected one rejected and one created", result)
			}
			if !strings.Contains(buf.String(), "Rejected rack y") {
				t.Errorf("rejection not logged:\n%s", buf.String())
			}

			expectedLen := 2
			if dryRun {
				expectedLen = 1
			}
			if store.Len() != expectedLen {
				t.Errorf("store has %d racks, expected %d", store.Len(), expectedLen)
			}
		})
	}
}

func TestReconcileRejectsOverlappingDevice(t *testing.T) {
	logger, _ := testLogger(t)
	store := layout.NewStore(logger)
	lr := NewLayoutReconciler(store, logger, false)

	_, err := lr.Reconcile([]*models.Rack{
		desiredRack("a1", 0, 0, models.South, desiredDevice("d1", 1, 2), desiredDevice("d2", 2, 1)),
	})
	if !errors.Is(err, layout.ErrDeviceOverlap) {
		t.Errorf("Reconcile() error = %v, expected device overlap", err)
	}

	rack, _ := store.Rack("a1")
	if len(rack.Devices) != 1 {
		t.Errorf("rack has %d devices, expected 1", len(rack.Devices))
	}
}

func TestReconcileWarnsOnHeightMismatch(t *testing.T) {
	logger, buf := testLogger(t)
	store := layout.NewStore(logger)
	if _, err := store.AddRackWithID("r1", 48, models.GridPos{}, models.South); err != nil {
		t.Fatalf("AddRackWithID() error = %v", err)
	}

	lr := NewLayoutReconciler(store, logger, false)
	if _, err := lr.Reconcile([]*models.Rack{desiredRack("r1", 0, 0, models.South)}); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if !strings.Contains(buf.String(), "height is not synced") {
		t.Errorf("height mismatch not reported:\n%s", buf.String())
	}
}

func TestReconcileRejectedRotateDoesNotMove(t *testing.T) {
	logger, _ := testLogger(t)
	store := layout.NewStore(logger)
	if _, err := store.AddRackWithID("r1", 24, models.GridPos{}, models.South); err != nil {
		t.Fatalf("AddRackWithID() error = %v", err)
	}
	if _, err := store.AddRackWithID("x1", 24, models.GridPos{X: 4, Z: 0}, models.East); err != nil {
		t.Fatalf("AddRackWithID() error = %v", err)
	}

	// At [3, 0] facing East, r1's front would hit x1.
	lr := NewLayoutReconciler(store, logger, false)
	result, err := lr.Reconcile([]*models.Rack{desiredRack("r1", 3, 0, models.East)})
	if !errors.Is(err, layout.ErrClearanceViolation) {
		t.Fatalf("Reconcile() error = %v, expected a clearance violation", err)
	}
	if result.Moved != 0 || result.Rotated != 0 || result.Rejected != 1 {
		t.Errorf("Result = %+v, expected only one rejection", result)
	}

	rack, _ := store.Rack("r1")
	if rack.Position != (models.GridPos{}) || rack.Orientation != models.South {
		t.Errorf("rack r1 at %s facing %s, expected it unchanged", rack.Position, rack.Orientation)
	}
}
