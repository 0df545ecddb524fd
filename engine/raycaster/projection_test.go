package raycaster

import (
	"testing"

	"doomgo/world"
)

func TestClipNearBothBehindRejects(t *testing.T) {
	p1 := world.CamSpace{X: 0, Y: 0.5}
	p2 := world.CamSpace{X: 1, Y: 0.2}
	_, _, _, _, ok := clipNear(p1, p2, 0, 1, 1.0)
	if ok {
		t.Fatalf("a segment entirely behind the near plane must be rejected")
	}
}

func TestClipNearStraddlingClipsToPlane(t *testing.T) {
	p1 := world.CamSpace{X: 0, Y: 0.5} // behind
	p2 := world.CamSpace{X: 10, Y: 10.5} // in front
	r1, r2, t1, t2, ok := clipNear(p1, p2, 0, 1, 1.0)
	if !ok {
		t.Fatalf("a straddling segment must not be rejected")
	}
	if r1.Y != 1.0 {
		t.Fatalf("clipped near endpoint should sit exactly on the near plane, got Y=%v", r1.Y)
	}
	if r2.Y != 10.5 {
		t.Fatalf("the endpoint already in front should be untouched, got Y=%v", r2.Y)
	}
	if t1 <= 0 || t1 >= 1 {
		t.Fatalf("t1 should be a fraction strictly between 0 and 1, got %v", t1)
	}
	if t2 != 1.0 {
		t.Fatalf("t2 should stay 1.0 when only p1 needed clipping, got %v", t2)
	}
}

func TestClipNearBothInFrontIsUntouched(t *testing.T) {
	p1 := world.CamSpace{X: 0, Y: 5}
	p2 := world.CamSpace{X: 1, Y: 6}
	r1, r2, t1, t2, ok := clipNear(p1, p2, 0, 1, 1.0)
	if !ok {
		t.Fatalf("both endpoints in front of the near plane must not be rejected")
	}
	if r1 != p1 || r2 != p2 {
		t.Fatalf("endpoints already in front should be unchanged: got %+v/%+v", r1, r2)
	}
	if t1 != 0 || t2 != 1 {
		t.Fatalf("t1/t2 should stay at their defaults: got %v/%v", t1, t2)
	}
}
