package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/braunma/rackgrid/pkg/layout"
	"github.com/braunma/rackgrid/pkg/models"
	"github.com/braunma/rackgrid/pkg/placement"
	"github.com/braunma/rackgrid/pkg/utils"
)

func newAddDeviceCmd() *cobra.Command {
	var (
		template   string
		deviceType string
		name       string
		uSize      int
		uPos       int
	)

	cmd := &cobra.Command{
		Use:   "add-device <rack-id>",
		Short: "Mount a device in a rack, from a template or by type and size",
		Args:  cobra.ExactArgs(1),
		RunE: mutation("add device", func(a *app, args []string) error {
			rackID, err := a.resolveRackID(args[0])
			if err != nil {
				return err
			}

			var spec layout.DeviceSpec
			if template != "" {
				templates, err := a.templates()
				if err != nil {
					return err
				}
				tpl, ok := models.FindTemplate(templates, template)
				if !ok {
					return fmt.Errorf("unknown template %q", template)
				}
				spec = layout.SpecFromTemplate(tpl, uPos)
			} else {
				spec = layout.DeviceSpec{
					Type:      models.DeviceType(deviceType),
					USize:     uSize,
					UPosition: uPos,
				}
			}
			if name != "" {
				spec.Name = name
			}

			d, err := a.store.AddDevice(rackID, spec)
			if err != nil {
				return err
			}
			a.logger.Success("Mounted %s %q (%s) at U%d-U%d", d.Type, d.Name, d.ID, d.UPosition, d.UEnd())
			return nil
		}),
	}

	cmd.Flags().StringVar(&template, "template", "", "Device template name (see 'templates')")
	cmd.Flags().StringVar(&deviceType, "type", string(models.DeviceTypeServer), "Device type when no template is given (Switch, Router, Server)")
	cmd.Flags().StringVar(&name, "name", "", "Device name")
	cmd.Flags().IntVar(&uSize, "size", 1, "Device height in units when no template is given")
	cmd.Flags().IntVar(&uPos, "u", 1, "Lowest rack unit the device occupies")
	return cmd
}

func newRemoveDeviceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-device <rack-id> <device-id>",
		Short: "Unmount a device",
		Args:  cobra.ExactArgs(2),
		RunE: mutation("remove device", func(a *app, args []string) error {
			rackID, err := a.resolveRackID(args[0])
			if err != nil {
				return err
			}
			if err := a.store.RemoveDevice(rackID, args[1]); err != nil {
				return err
			}
			a.logger.Success("Removed device %s", args[1])
			return nil
		}),
	}
}

func newSetPortCmd() *cobra.Command {
	var (
		status   string
		severity string
		message  string
	)

	cmd := &cobra.Command{
		Use:   "set-port <rack-id> <device-id> <port-id>",
		Short: "Record the status of a device port",
		Args:  cobra.ExactArgs(3),
		RunE: mutation("set port state", func(a *app, args []string) error {
			rackID, err := a.resolveRackID(args[0])
			if err != nil {
				return err
			}

			state := models.PortState{
				PortID: args[2],
				Status: models.PortStatus(status),
			}
			if state.Status == models.PortStatusError {
				state.ErrorLevel = models.Severity(severity)
				state.ErrorMessage = message
				if !state.ErrorLevel.Valid() {
					return fmt.Errorf("%w: unknown severity %q", layout.ErrInvalidDevice, severity)
				}
			}

			if err := a.store.SetPortState(rackID, args[1], state); err != nil {
				return err
			}
			if state.Status == models.PortStatusError {
				a.logger.Warning("Port %s is %s", state.PortID, utils.ColorizeSeverity(state.ErrorLevel, string(state.ErrorLevel)))
			} else {
				a.logger.Success("Port %s is %s", state.PortID, state.Status)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&status, "status", string(models.PortStatusError), "Port status (normal, error)")
	cmd.Flags().StringVar(&severity, "severity", string(models.SeverityWarning), "Error severity (warning, minor, major, critical)")
	cmd.Flags().StringVar(&message, "message", "", "Error message")
	return cmd
}

func newClearPortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-port <rack-id> <device-id> <port-id>",
		Short: "Return a port to normal operation",
		Args:  cobra.ExactArgs(3),
		RunE: mutation("clear port state", func(a *app, args []string) error {
			rackID, err := a.resolveRackID(args[0])
			if err != nil {
				return err
			}
			if err := a.store.ClearPortState(rackID, args[1], args[2]); err != nil {
				return err
			}
			a.logger.Success("Port %s cleared", args[2])
			return nil
		}),
	}
}

func newSlotsCmd() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "slots <rack-id>",
		Short: "List free rack units and the templates that fit them",
		Args:  cobra.ExactArgs(1),
		RunE: query("list slots", func(a *app, args []string) error {
			rackID, err := a.resolveRackID(args[0])
			if err != nil {
				return err
			}
			r, err := a.store.Rack(rackID)
			if err != nil {
				return err
			}
			ranges, err := a.store.FreeRanges(rackID)
			if err != nil {
				return err
			}
			templates, err := a.templates()
			if err != nil {
				return err
			}

			banner(a.logger, fmt.Sprintf("Rack %s: %d devices", r.Label(), len(r.Devices)))
			for _, d := range r.Devices {
				fmt.Printf("  U%-2d-U%-2d  %-8s %s\n", d.UPosition, d.UEnd(), d.Type, d.Name)
			}
			if len(ranges) == 0 {
				a.logger.Warning("Rack is full")
				return nil
			}

			a.logger.Info("Free units:")
			for _, fr := range ranges {
				fmt.Printf("  U%d-U%d (%dU): %s\n", fr.Start, fr.End, fr.Size(), templateNames(models.FittingTemplates(templates, fr.Size())))
			}

			if size > 0 {
				var starts []int
				for u := 1; u <= r.UHeight; u++ {
					if placement.SlotAvailable(r.UHeight, r.Devices, u, size) {
						starts = append(starts, u)
					}
				}
				if len(starts) == 0 {
					a.logger.Warning("No room for a %dU device", size)
				} else {
					a.logger.Info("A %dU device can start at U%v", size, starts)
				}
			}
			return nil
		}),
	}

	cmd.Flags().IntVar(&size, "size", 0, "Also list the units where a device of this height can start")
	return cmd
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List device templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			templates, err := a.templates()
			if err != nil {
				a.logger.Error("Failed to load templates", err)
				return err
			}
			for _, t := range templates {
				fmt.Printf("  %-12s %-7s %3dU %3d ports  #%s\n", t.Name, t.Type, t.USize, t.PortCount, utils.DeviceTypeColor(t.Type))
			}
			return nil
		},
	}
}

func templateNames(templates []models.DeviceTemplate) string {
	if len(templates) == 0 {
		return "-"
	}
	names := make([]string, 0, len(templates))
	for _, t := range templates {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}
