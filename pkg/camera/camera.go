// Package camera computes the viewpoint used to frame a focused rack and the
// per-frame approach towards it.
package camera

import (
	"math"

	"github.com/braunma/rackgrid/internal/constants"
	"github.com/braunma/rackgrid/pkg/models"
)

// Vec3 is a point in world space; Y is up
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// DistanceTo returns the euclidean distance between v and o
func (v Vec3) DistanceTo(o Vec3) float64 {
	d := v.Sub(o)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// Lerp moves v towards o by fraction t
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return v.Add(o.Sub(v).Scale(t))
}

// View is a camera position and the point it looks at
type View struct {
	Eye    Vec3
	LookAt Vec3
}

// Overview is the starting viewpoint above the room, looking at the origin
func Overview() View {
	d := constants.CameraOverviewXYZ
	return View{Eye: Vec3{X: d, Y: d, Z: d}}
}

// Focus frames a rack: the camera looks at the rack's center at waist height
// from a point offset diagonally in front and above.
func Focus(r *models.Rack, spacing float64) View {
	if spacing <= 0 {
		spacing = constants.GridSpacing
	}
	x := r.Position.X * spacing
	z := r.Position.Z * spacing
	return View{
		LookAt: Vec3{X: x, Y: constants.CameraLookHeight, Z: z},
		Eye:    Vec3{X: x + constants.CameraOffsetXZ, Y: constants.CameraEyeHeight, Z: z + constants.CameraOffsetXZ},
	}
}

// Approach advances cur towards target for one frame of length delta seconds.
// arrived is true once cur is within the arrival radius.
func Approach(cur, target Vec3, delta float64) (next Vec3, arrived bool) {
	step := math.Min(1, constants.CameraSpeed*delta)
	next = cur.Lerp(target, step)
	return next, next.DistanceTo(target) < constants.CameraArriveRadius
}

// Step advances both eye and look-at towards target. The move is complete
// when the eye has arrived.
func (v View) Step(target View, delta float64) (View, bool) {
	eye, arrived := Approach(v.Eye, target.Eye, delta)
	lookAt, _ := Approach(v.LookAt, target.LookAt, delta)
	return View{Eye: eye, LookAt: lookAt}, arrived
}

// Frames counts how many frames of length delta the move from v to target
// takes. ok is false if the camera has not arrived after limit frames.
func (v View) Frames(target View, delta float64, limit int) (n int, ok bool) {
	cur := v
	for n < limit {
		var arrived bool
		cur, arrived = cur.Step(target, delta)
		n++
		if arrived {
			return n, true
		}
	}
	return n, false
}
