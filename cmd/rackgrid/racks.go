package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/braunma/rackgrid/internal/constants"
	"github.com/braunma/rackgrid/pkg/camera"
	"github.com/braunma/rackgrid/pkg/models"
)

func newAddRackCmd() *cobra.Command {
	var (
		height      int
		x, z        float64
		orientation int
	)

	cmd := &cobra.Command{
		Use:   "add-rack",
		Short: "Place a new empty rack on the grid",
		Args:  cobra.NoArgs,
		RunE: mutation("add rack", func(a *app, _ []string) error {
			o, err := models.ParseOrientation(orientation)
			if err != nil {
				return err
			}
			r, err := a.store.AddRack(height, models.GridPos{X: x, Z: z}, o)
			if err != nil {
				return err
			}
			a.logger.Success("Added rack %s (%s) at %s facing %s", r.ID, r.Label(), r.Position, r.Orientation)
			return nil
		}),
	}

	cmd.Flags().IntVar(&height, "height", 24, "Rack height in units (24, 32 or 48)")
	cmd.Flags().Float64Var(&x, "x", 0, "Grid X position")
	cmd.Flags().Float64Var(&z, "z", 0, "Grid Z position")
	cmd.Flags().IntVar(&orientation, "orientation", int(models.North), "Front facing in degrees (0, 90, 180, 270)")
	return cmd
}

func newMoveRackCmd() *cobra.Command {
	var x, z float64

	cmd := &cobra.Command{
		Use:   "move-rack <rack-id>",
		Short: "Move a rack to another grid cell",
		Args:  cobra.ExactArgs(1),
		RunE: mutation("move rack", func(a *app, args []string) error {
			id, err := a.resolveRackID(args[0])
			if err != nil {
				return err
			}
			if err := a.store.MoveRack(id, models.GridPos{X: x, Z: z}); err != nil {
				return err
			}
			r, _ := a.store.Rack(id)
			a.logger.Success("Moved rack %s to %s", r.Label(), r.Position)
			return nil
		}),
	}

	cmd.Flags().Float64Var(&x, "x", 0, "Grid X position")
	cmd.Flags().Float64Var(&z, "z", 0, "Grid Z position")
	return cmd
}

func newRotateRackCmd() *cobra.Command {
	var orientation int

	cmd := &cobra.Command{
		Use:   "rotate-rack <rack-id>",
		Short: "Turn a rack to face another direction",
		Args:  cobra.ExactArgs(1),
		RunE: mutation("rotate rack", func(a *app, args []string) error {
			id, err := a.resolveRackID(args[0])
			if err != nil {
				return err
			}
			o, err := models.ParseOrientation(orientation)
			if err != nil {
				return err
			}
			if err := a.store.RotateRack(id, o); err != nil {
				return err
			}
			a.logger.Success("Rack %s now faces %s", id, o)
			return nil
		}),
	}

	cmd.Flags().IntVar(&orientation, "orientation", int(models.North), "Front facing in degrees (0, 90, 180, 270)")
	return cmd
}

func newDeleteRackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-rack <rack-id>",
		Short: "Remove a rack and every device in it",
		Args:  cobra.ExactArgs(1),
		RunE: mutation("delete rack", func(a *app, args []string) error {
			id, err := a.resolveRackID(args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeleteRack(id); err != nil {
				return err
			}
			a.logger.Success("Deleted rack %s", id)
			return nil
		}),
	}
}

func newOrientationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orientations <rack-id>",
		Short: "Show which directions a rack may face",
		Args:  cobra.ExactArgs(1),
		RunE: query("list orientations", func(a *app, args []string) error {
			id, err := a.resolveRackID(args[0])
			if err != nil {
				return err
			}
			options, err := a.store.OrientationOptions(id)
			if err != nil {
				return err
			}

			for _, opt := range options {
				switch {
				case opt.Current:
					a.logger.Info("  ● %s (current)", opt.Orientation)
				case opt.Allowed:
					a.logger.Success("%s", opt.Orientation)
				default:
					a.logger.Warning("%s blocked by front clearance", opt.Orientation)
				}
			}
			return nil
		}),
	}
}

func newFocusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "focus <rack-id>",
		Short: "Print the camera viewpoint that frames a rack",
		Args:  cobra.ExactArgs(1),
		RunE: query("focus rack", func(a *app, args []string) error {
			id, err := a.resolveRackID(args[0])
			if err != nil {
				return err
			}
			if err := a.store.FocusRack(id); err != nil {
				return err
			}
			r, err := a.store.Rack(id)
			if err != nil {
				return err
			}

			view := camera.Focus(r, a.store.GridSpacing())
			a.logger.Info("Rack %s at %s facing %s", r.Label(), r.Position, r.Orientation)
			fmt.Printf("  look-at: (%g, %g, %g)\n", view.LookAt.X, view.LookAt.Y, view.LookAt.Z)
			fmt.Printf("  eye:     (%g, %g, %g)\n", view.Eye.X, view.Eye.Y, view.Eye.Z)

			frames, ok := camera.Overview().Frames(view, 1.0/constants.CameraFrameRate, 10*constants.CameraFrameRate)
			if ok {
				a.logger.Debug("Camera arrives from overview in %d frames at %d fps", frames, constants.CameraFrameRate)
			}
			return nil
		}),
	}
}
