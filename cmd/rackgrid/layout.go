package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/braunma/rackgrid/pkg/dashboard"
	"github.com/braunma/rackgrid/pkg/loader"
	"github.com/braunma/rackgrid/pkg/models"
	"github.com/braunma/rackgrid/pkg/utils"
)

func newSampleCmd() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Replace the layout with the 20-rack demo room",
		Args:  cobra.NoArgs,
		RunE: mutation("load sample", func(a *app, _ []string) error {
			templates, err := a.templates()
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}

			racks := a.store.LoadSample(rand.New(rand.NewPCG(seed, seed)), templates)
			items := dashboard.Collect(racks)
			a.logger.Success("Loaded sample layout: %d racks, %d port errors (seed %d)", len(racks), len(items), seed)
			return nil
		}),
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0 picks one from the clock)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the layout against the placement rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			violations := a.store.Audit()
			if len(violations) == 0 {
				a.logger.Success("Layout is valid: %d racks", a.store.Len())
				return nil
			}

			for _, v := range violations {
				fmt.Printf("  %s\n", v)
			}
			err = fmt.Errorf("%d placement violations", len(violations))
			a.logger.Error("Layout is invalid", err)
			return err
		},
	}
}

func newErrorsCmd() *cobra.Command {
	var severity string

	cmd := &cobra.Command{
		Use:   "errors",
		Short: "Summarize port errors by severity",
		Args:  cobra.NoArgs,
		RunE: query("summarize errors", func(a *app, _ []string) error {
			filter := models.Severity(severity)
			if filter != "" && !filter.Valid() {
				return fmt.Errorf("unknown severity %q", severity)
			}

			items := dashboard.Collect(a.store.Racks())
			counts := dashboard.Counts(items)

			banner(a.logger, "Rack Error Summary")
			for _, sev := range models.AllSeverities() {
				label := fmt.Sprintf("%-8s %d", sev, counts[sev])
				fmt.Printf("  %s\n", utils.ColorizeSeverity(sev, label))
			}

			shown := dashboard.Filter(items, filter)
			dashboard.SortBySeverity(shown)
			if len(shown) == 0 {
				a.logger.Success("No port errors")
				return nil
			}

			fmt.Println()
			fmt.Printf("  %-10s %-20s %-6s %-8s %s\n", "RACK", "DEVICE", "PORT", "SEVERITY", "MESSAGE")
			for _, it := range shown {
				fmt.Printf("  %-10s %-20s %-6s %s %s\n",
					it.RackLabel, it.DeviceName, it.PortID,
					utils.ColorizeSeverity(it.Severity, fmt.Sprintf("%-8s", it.Severity)), it.Message)
			}

			worst := dashboard.WorstByRack(items)
			a.logger.Info("%d of %d racks report errors", len(worst), a.store.Len())
			return nil
		}),
	}

	cmd.Flags().StringVar(&severity, "severity", "", "Only list errors of this severity (warning, minor, major, critical)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the layout to a timestamped JSON or YAML file",
		Args:  cobra.NoArgs,
		RunE: query("export layout", func(a *app, _ []string) error {
			if !utils.Contains([]string{loader.FormatJSON, loader.FormatYAML}, format) {
				return fmt.Errorf("unsupported export format %q", format)
			}
			if output == "" {
				output = utils.ExportFileName(time.Now(), format)
			}

			data, err := loader.Encode(a.store.Racks(), format)
			if err != nil {
				return err
			}
			if output == "-" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			a.logger.Success("Exported %d racks to %s", a.store.Len(), output)
			return nil
		}),
	}

	cmd.Flags().StringVar(&format, "format", loader.FormatJSON, "Export format (json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, '-' for stdout (default server-room-<millis>.<format>)")
	return cmd
}
