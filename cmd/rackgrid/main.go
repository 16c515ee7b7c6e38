package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/braunma/rackgrid/internal/config"
	"github.com/braunma/rackgrid/pkg/layout"
	"github.com/braunma/rackgrid/pkg/loader"
	"github.com/braunma/rackgrid/pkg/models"
	"github.com/braunma/rackgrid/pkg/utils"
)

var (
	configFile string
	layoutFile string
	verbose    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rackgrid",
		Short:         "Server room rack layout tool",
		Long:          `Plan rack placement on a server room grid, mount devices and track port errors`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", ".env", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&layoutFile, "layout", config.DefaultLayoutFile, "Layout file (.json or .yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug output")

	rootCmd.AddCommand(
		newSampleCmd(),
		newValidateCmd(),
		newAddRackCmd(),
		newMoveRackCmd(),
		newRotateRackCmd(),
		newDeleteRackCmd(),
		newAddDeviceCmd(),
		newRemoveDeviceCmd(),
		newSetPortCmd(),
		newClearPortCmd(),
		newOrientationsCmd(),
		newSlotsCmd(),
		newErrorsCmd(),
		newFocusCmd(),
		newTemplatesCmd(),
		newExportCmd(),
		newSyncCmd(),
	)
	return rootCmd
}

// app is the state shared by every command: settings, logger and the loaded layout
type app struct {
	cfg    *config.Config
	logger *utils.Logger
	store  *layout.Store
}

// newApp resolves settings and loads the layout file into a fresh store
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		utils.NewLogger(verbose).Error("Failed to load configuration", err)
		return nil, err
	}
	logger := utils.NewLogger(cfg.Verbose)

	store := layout.NewStore(logger,
		layout.WithRules(cfg.Rules()),
		layout.WithGridSpacing(cfg.GridSpacing),
	)

	racks, err := loader.LoadLayoutFile(cfg.LayoutFile)
	if err != nil {
		logger.Error("Failed to load layout", err)
		return nil, err
	}
	store.Load(racks)
	logger.Debug("Using layout %s (%d racks)", cfg.LayoutFile, store.Len())

	return &app{cfg: cfg, logger: logger, store: store}, nil
}

// save writes the layout back to the layout file
func (a *app) save() error {
	if err := loader.SaveLayoutFile(a.cfg.LayoutFile, a.store.Racks()); err != nil {
		a.logger.Error("Failed to save layout", err)
		return err
	}
	a.logger.Debug("Saved %s", a.cfg.LayoutFile)
	return nil
}

// templates returns the built-in device templates plus any defined under the data directory
func (a *app) templates() ([]models.DeviceTemplate, error) {
	templates := models.DefaultTemplates()

	dir := filepath.Join(a.cfg.DataDir, "definitions", "templates")
	if _, err := os.Stat(dir); err != nil {
		return templates, nil
	}
	extra, err := loader.NewDataLoader(a.cfg.DataDir, a.logger).LoadTemplates(filepath.Join("definitions", "templates"))
	if err != nil {
		return nil, err
	}
	return append(templates, extra...), nil
}

// resolveRackID accepts a full rack id or a unique prefix of one, such as the
// four characters shown in rack labels
func (a *app) resolveRackID(arg string) (string, error) {
	var matches []string
	for _, r := range a.store.Racks() {
		if r.ID == arg {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, arg) {
			matches = append(matches, r.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", layout.ErrRackNotFound, arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("rack id prefix %q is ambiguous: %s", arg, strings.Join(matches, ", "))
	}
}

// mutation runs one store command against the layout file and writes the
// file back only when the command succeeds
func mutation(action string, fn func(a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := fn(a, args); err != nil {
			a.logger.Error("Failed to "+action, err)
			return err
		}
		return a.save()
	}
}

// query runs a read-only command against the layout file
func query(action string, fn func(a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := fn(a, args); err != nil {
			a.logger.Error("Failed to "+action, err)
			return err
		}
		return nil
	}
}

func banner(logger *utils.Logger, title string) {
	logger.Info("═══════════════════════════════════════════════════════")
	logger.Info(title)
	logger.Info("═══════════════════════════════════════════════════════")
}
