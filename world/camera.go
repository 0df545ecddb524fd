package world

import "math"

// Vec3 is a 3-D point or direction; Z is height (floor/ceiling axis).
type Vec3 struct {
	X, Y, Z float64
}

// Camera is the renderer's eye: position, yaw-only facing and field of
// view. Doom has no pitch or roll, so a single angle fully describes
// orientation (spec.md §3).
type Camera struct {
	Pos Vec3
	Yaw float64
	FOV float64

	// NearDist is the near-clip distance in camera-space depth units.
	// Zero means "unset": Near() falls back to the default 1.0 so
	// existing callers that never touch this field keep working.
	NearDist float64
}

// NewCamera builds a camera at pos looking along yaw with the given
// horizontal field of view, in radians.
func NewCamera(pos Vec3, yaw, fov float64) *Camera {
	return &Camera{Pos: pos, Yaw: yaw, FOV: fov}
}

// CamSpace is a point expressed in camera space: Y is depth (distance along
// the view direction), X is lateral offset. This matches
// original_source/src/world/camera.rs's to_cam return convention so the
// rest of the renderer's near-plane and projection math carries over
// unchanged.
type CamSpace struct {
	X, Y float64
}

// ToCam transforms a map-space point into camera space: translate by the
// camera's position, then rotate by -yaw.
func (c *Camera) ToCam(p Vec2) CamSpace {
	dx := p.X - c.Pos.X
	dy := p.Y - c.Pos.Y
	s, cs := math.Sincos(c.Yaw)
	xCam := dx*cs + dy*s
	yCam := dx*s - dy*cs
	return CamSpace{X: yCam, Y: xCam}
}

// Forward is the camera's facing unit vector in map space.
func (c *Camera) Forward() Vec2 {
	s, cs := math.Sincos(c.Yaw)
	return Vec2{X: cs, Y: s}
}

// Right is the camera's rightward unit vector (Forward rotated -90deg).
func (c *Camera) Right() Vec2 {
	f := c.Forward()
	return Vec2{X: f.Y, Y: -f.X}
}

// Step moves the camera by forward and side amounts along its own axes.
func (c *Camera) Step(forward, side float64) {
	f := c.Forward()
	r := c.Right()
	c.Pos.X += f.X*forward + r.X*side
	c.Pos.Y += f.Y*forward + r.Y*side
}

// Turn adds deltaYaw to the camera's facing, wrapped into [0, 2*pi).
func (c *Camera) Turn(deltaYaw float64) {
	const tau = 2 * math.Pi
	y := math.Mod(c.Yaw+deltaYaw, tau)
	if y < 0 {
		y += tau
	}
	c.Yaw = y
}

// ScreenScale is the focal length in pixels for a screen of width w: the
// distance from the eye to the projection plane such that the camera's
// horizontal FOV exactly spans w pixels.
func (c *Camera) ScreenScale(w int) float64 {
	return float64(w) * 0.5 / math.Tan(c.FOV*0.5)
}

// Near is the near-clip distance in camera-space depth units.
func (c *Camera) Near() float64 {
	if c.NearDist == 0 {
		return 1.0
	}
	return c.NearDist
}
