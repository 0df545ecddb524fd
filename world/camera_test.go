package world

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestForwardAndRightAreOrthonormal(t *testing.T) {
	for _, yaw := range []float64{0, 0.5, 1.0, 2.0, -1.3, math.Pi} {
		c := NewCamera(Vec3{}, yaw, math.Pi/2)
		f := c.Forward()
		r := c.Right()

		if !approxEqual(f.X*f.X+f.Y*f.Y, 1.0, 1e-9) {
			t.Errorf("yaw %v: forward not unit length: %+v", yaw, f)
		}
		if !approxEqual(r.X*r.X+r.Y*r.Y, 1.0, 1e-9) {
			t.Errorf("yaw %v: right not unit length: %+v", yaw, r)
		}
		if !approxEqual(f.X*r.X+f.Y*r.Y, 0.0, 1e-9) {
			t.Errorf("yaw %v: forward and right not orthogonal", yaw)
		}
	}
}

func TestScreenScaleAt90Degrees(t *testing.T) {
	c := NewCamera(Vec3{}, 0, math.Pi/2)
	got := c.ScreenScale(640)
	want := 320.0 // w*0.5/tan(45deg) == w*0.5
	if !approxEqual(got, want, 1e-6) {
		t.Fatalf("ScreenScale(640) = %v, want %v", got, want)
	}
}

func TestToCamAxesAlign(t *testing.T) {
	c := NewCamera(Vec3{}, 0, math.Pi/2)
	cs := c.ToCam(Vec2{X: 5, Y: 0})
	if !approxEqual(cs.X, 0, 1e-9) || !approxEqual(cs.Y, 5, 1e-9) {
		t.Fatalf("ToCam with yaw=0 along +X: got %+v, want X=0,Y=5", cs)
	}
}

func TestToCamRotatedYaw(t *testing.T) {
	c := NewCamera(Vec3{}, math.Pi/2, math.Pi/2)
	cs := c.ToCam(Vec2{X: 0, Y: 5})
	if !approxEqual(cs.X, 0, 1e-9) || !approxEqual(cs.Y, 5, 1e-9) {
		t.Fatalf("ToCam with yaw=90deg along +Y: got %+v, want X=0,Y=5", cs)
	}
}

func TestTurnWrapsIntoRange(t *testing.T) {
	c := NewCamera(Vec3{}, 0, math.Pi/2)
	c.Turn(-0.1)
	if c.Yaw < 0 || c.Yaw >= 2*math.Pi {
		t.Fatalf("Turn produced out-of-range yaw: %v", c.Yaw)
	}
}
