package main

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"doomgo/world"
)

// flythrough eases the camera through a fixed sequence of waypoints, a
// scripted demo path used to exercise the renderer without keyboard
// input (handy for recording footage or profiling a fixed frame trace).
type flythrough struct {
	legs []flythroughLeg
	leg  int
}

type flythroughLeg struct {
	tweenX, tweenY, tweenYaw *gween.Tween
}

// newFlythrough builds a short fixed loop through (0,0), (100,0),
// (100,100) and (0,100); level is not consulted, so the path does not
// adapt to the map's extent.
func newFlythrough(level *world.Level) *flythrough {
	waypoints := []struct {
		x, y, yaw float32
		duration  float32
	}{
		{0, 0, 0, 3},
		{100, 0, 1.57, 3},
		{100, 100, 3.14, 3},
		{0, 100, -1.57, 3},
		{0, 0, 0, 3},
	}

	f := &flythrough{}
	for i := 1; i < len(waypoints); i++ {
		from := waypoints[i-1]
		to := waypoints[i]
		f.legs = append(f.legs, flythroughLeg{
			tweenX:   gween.New(from.x, to.x, to.duration, ease.InOutSine),
			tweenY:   gween.New(from.y, to.y, to.duration, ease.InOutSine),
			tweenYaw: gween.New(from.yaw, to.yaw, to.duration, ease.InOutSine),
		})
	}
	return f
}

// step advances the active leg's tweens by dt seconds and applies the
// eased position/yaw to cam, moving to the next leg once the current one
// completes.
func (f *flythrough) step(cam *world.Camera, dt float64) {
	if len(f.legs) == 0 {
		return
	}
	leg := &f.legs[f.leg]

	x, doneX := leg.tweenX.Update(float32(dt))
	y, _ := leg.tweenY.Update(float32(dt))
	yaw, _ := leg.tweenYaw.Update(float32(dt))

	cam.Pos.X = float64(x)
	cam.Pos.Y = float64(y)
	cam.Yaw = float64(yaw)

	if doneX {
		f.leg = (f.leg + 1) % len(f.legs)
	}
}
