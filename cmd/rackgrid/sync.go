package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/braunma/rackgrid/pkg/loader"
	"github.com/braunma/rackgrid/pkg/reconciler"
	"github.com/braunma/rackgrid/pkg/utils"
)

const racksFolder = "definitions/racks"

func newSyncCmd() *cobra.Command {
	var (
		dryRun  bool
		dataDir string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Apply rack definitions from YAML to the layout",
		Long:  `Declarative rack layout: place, move and rotate racks and mount devices as described under <data-dir>/definitions/racks`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			dir, err := resolveDataDir(a.cfg.DataDir, a.logger)
			if err != nil {
				a.logger.Error("Failed to resolve data directory", err)
				return err
			}

			banner(a.logger, "Loading definitions")
			desired, err := loader.NewDataLoader(dir, a.logger).LoadRacks(racksFolder)
			if err != nil {
				a.logger.Error("Failed to load racks", err)
				return err
			}
			a.logger.Info("Loaded %d rack definitions", len(desired))

			banner(a.logger, "Reconciling layout")
			lr := reconciler.NewLayoutReconciler(a.store, a.logger, dryRun)
			result, syncErr := lr.Reconcile(desired)

			a.logger.Info("═══════════════════════════════════════════════════════")
			switch {
			case dryRun:
				a.logger.Warning("DRY RUN COMPLETE: No changes applied")
			case result.Changed():
				if err := a.save(); err != nil {
					return err
				}
				a.logger.Success("SYNC COMPLETE: Changes written to %s", a.cfg.LayoutFile)
			default:
				a.logger.Success("SYNC COMPLETE: Layout already matches definitions")
			}
			a.logger.Info("═══════════════════════════════════════════════════════")

			if syncErr != nil {
				a.logger.Error("Some definitions could not be applied", syncErr)
			}
			return syncErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Simulate changes without applying them")
	cmd.Flags().StringVar(&dataDir, "data-dir", ".", "Base directory holding definitions/ (e.g., 'example' for test data)")
	return cmd
}

// resolveDataDir determines the data directory to use. If definitions/ does
// not exist in dir, it falls back to the bundled example/ directory.
func resolveDataDir(dir string, logger *utils.Logger) (string, error) {
	if _, err := os.Stat(filepath.Join(dir, "definitions")); err == nil {
		logger.Info("Using data directory: %s", dir)
		return dir, nil
	}

	examplePath := "example"
	if _, err := os.Stat(filepath.Join(examplePath, "definitions")); err == nil {
		logger.Warning("definitions/ not found in '%s', falling back to '%s'", dir, examplePath)
		return examplePath, nil
	}

	return "", fmt.Errorf("no valid data directory found: checked '%s' and '%s'", dir, examplePath)
}
