package raycaster

import (
	"math"

	"doomgo/world"
)

// edge is a seg already clipped to the near plane and to the viewport,
// carrying the perspective-correct interpolants (1/z and u/z) at its left
// and right screen columns.
type edge struct {
	xL, xR     int32
	invzL, invzR float64
	uozL, uozR   float64
}

// projectSeg transforms a seg into camera space, clips it to the near
// plane, maps it to screen columns, discards it if it falls fully off
// screen or is fully hidden behind already-solid columns, and otherwise
// returns the interpolants the wall pass needs to rasterize it.
func (s *Software) projectSeg(segIdx uint32, level *world.Level, cam *world.Camera) (edge, bool) {
	seg := &level.Segs[segIdx]
	v1 := level.Vertices[seg.V1].Pos
	v2 := level.Vertices[seg.V2].Pos

	p1 := cam.ToCam(v1)
	p2 := cam.ToCam(v2)

	t1, t2 := 0.0, 1.0
	var ok bool
	p1, p2, t1, t2, ok = clipNear(p1, p2, t1, t2, cam.Near())
	if !ok {
		return edge{}, false
	}

	sx1 := s.halfW + p1.X*s.focal/p1.Y
	sx2 := s.halfW + p2.X*s.focal/p2.Y

	rightLim := s.widthF - 1.0
	if (sx1 < 0.0 && sx2 < 0.0) || (sx1 > rightLim && sx2 > rightLim) {
		return edge{}, false
	}

	if sx1 > sx2 {
		sx1, sx2 = sx2, sx1
		p1, p2 = p2, p1
		t1, t2 = t2, t1
	}

	xL := int32(math.Max(sx1, 0.0))
	xR := int32(math.Min(sx2, s.widthF-1.0))
	if xL >= xR {
		return edge{}, false
	}

	// solidSegs is sorted; the first span whose Last >= xR is the only
	// candidate that could cover [xL,xR] entirely.
	for _, seg := range s.solidSegs {
		if seg.Last >= xR {
			if xL >= seg.First && xR <= seg.Last {
				return edge{}, false
			}
			break
		}
	}

	span := sx2 - sx1
	if span <= 1.0 {
		return edge{}, false
	}

	sdFront, _, _ := sectorsForSeg(seg, level)

	invzP1 := 1.0 / p1.Y
	invzP2 := 1.0 / p2.Y
	wallLen := math.Hypot(v2.X-v1.X, v2.Y-v1.Y)
	uozP1 := (sdFront.XOff + t1*wallLen) * invzP1
	uozP2 := (sdFront.XOff + t2*wallLen) * invzP2

	fracL := (float64(xL) - sx1) / span
	fracR := (float64(xR) - sx1) / span

	return edge{
		xL: xL, xR: xR,
		invzL: invzP1 + (invzP2-invzP1)*fracL,
		invzR: invzP1 + (invzP2-invzP1)*fracR,
		uozL:  uozP1 + (uozP2-uozP1)*fracL,
		uozR:  uozP1 + (uozP2-uozP1)*fracR,
	}, true
}

// clipNear clips the camera-space segment p1-p2 to the near plane,
// reporting false if the whole segment lies at or behind it. t1/t2 track
// where along the original segment each (possibly moved) endpoint now
// sits, so projectSeg can still interpolate texture U correctly.
func clipNear(p1, p2 world.CamSpace, t1, t2, near float64) (world.CamSpace, world.CamSpace, float64, float64, bool) {
	if p1.Y <= near && p2.Y <= near {
		return p1, p2, t1, t2, false
	}
	if p1.Y < near {
		t := (near - p1.Y) / (p2.Y - p1.Y)
		p1.X += (p2.X - p1.X) * t
		p1.Y = near
		t1 = t
	}
	if p2.Y < near {
		t := (near - p2.Y) / (p1.Y - p2.Y)
		p2.X += (p1.X - p2.X) * t
		p2.Y = near
		t2 = 1.0 - t
	}
	return p1, p2, t1, t2, true
}
