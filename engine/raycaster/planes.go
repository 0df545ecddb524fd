package raycaster

import (
	"doomgo/texture"
	"doomgo/world"
)

// visplaneID indexes into planeMap.planes. noPlane marks "nothing to
// draw here" (e.g. a sector whose floor sits above the eye).
type visplaneID = uint16

const noPlane visplaneID = 1<<16 - 1

// defaultMaxVisplanes bounds how many distinct (height, tex, light)
// planes a frame can hold. A sanity limit, not a hard engine
// restriction: once reached, find silently drops further allocations
// rather than growing without bound, leaving the symptom an untextured
// flat rather than a torn frame. config.Config.MaxVisplanes overrides it
// when set.
const defaultMaxVisplanes = 4096

// visPlane is one deferred floor or ceiling: a height/texture/light plane
// plus, per screen column, the highest and lowest row of it left
// uncovered once the wall pass finishes drawing nearer geometry.
type visPlane struct {
	height int16
	tex    texture.ID
	light  int16

	minX, maxX uint16

	top    []uint16
	bottom []uint16

	modified bool
}

type planeKey struct {
	height int16
	tex    texture.ID
	light  int16
}

// planeMap groups visplanes by (height, tex, light) so two walls that
// border the same flat merge into one plane instead of one each.
type planeMap struct {
	byKey     map[planeKey][]visplaneID
	planes    []visPlane
	width     int
	maxPlanes int
}

func (m *planeMap) clear(width int) {
	m.byKey = make(map[planeKey][]visplaneID)
	m.planes = m.planes[:0]
	m.width = width
	if m.maxPlanes == 0 {
		m.maxPlanes = defaultMaxVisplanes
	}
}

func (m *planeMap) get(id visplaneID) *visPlane {
	if id == noPlane || int(id) >= len(m.planes) {
		return nil
	}
	return &m.planes[id]
}

// find returns the visplane to draw into for a span at (height, tex,
// light) covering columns [minX,maxX], merging into an existing plane of
// the same key when its column range hasn't already been written, and
// allocating a fresh one otherwise.
func (m *planeMap) find(height int16, tex texture.ID, light int16, minX, maxX uint16) visplaneID {
	key := planeKey{height: height, tex: tex, light: light}
	ids := m.byKey[key]

	for _, id := range ids {
		if mergePlane(&m.planes[id], minX, maxX) {
			return id
		}
	}

	if len(m.planes) >= m.maxPlanes {
		return noPlane
	}

	newID := visplaneID(len(m.planes))
	top := make([]uint16, m.width)
	bottom := make([]uint16, m.width)
	for i := range top {
		top[i] = 1<<16 - 1
		bottom[i] = 0
	}
	m.planes = append(m.planes, visPlane{
		height: height, tex: tex, light: light,
		minX: minX, maxX: maxX,
		top: top, bottom: bottom,
	})
	m.byKey[key] = append(ids, newID)
	return newID
}

func mergePlane(p *visPlane, minX, maxX uint16) bool {
	lo := minX
	if p.minX > lo {
		lo = p.minX
	}
	hi := maxX
	if p.maxX < hi {
		hi = p.maxX
	}
	unionLo := minX
	if p.minX < unionLo {
		unionLo = p.minX
	}
	unionHi := maxX
	if p.maxX > unionHi {
		unionHi = p.maxX
	}

	if lo <= hi {
		for x := lo; x <= hi; x++ {
			if p.top[x] != 1<<16-1 {
				return false // part of the span already drawn
			}
		}
	}

	p.minX = unionLo
	p.maxX = unionHi
	return true
}

// spanContext bundles the per-flush camera axes shared by every emitSpan
// call, so flushPlanes doesn't thread them through a long parameter list.
type spanContext struct {
	camFwd, camRight, camBase world.Vec2
	bank                      *texture.Bank
}

// flushPlanes draws every visplane touched this frame as horizontal runs
// of solid pixels, then leaves the (now-cleared-next-frame) plane table in
// place for reuse.
func (s *Software) flushPlanes(cam *world.Camera, bank *texture.Bank) {
	ctx := spanContext{
		camFwd:   cam.Forward(),
		camRight: cam.Right(),
		camBase:  world.Vec2{X: cam.Pos.X, Y: cam.Pos.Y},
		bank:     bank,
	}

	for i := range s.visplaneMap.planes {
		vp := &s.visplaneMap.planes[i]
		if vp.tex == texture.NoTexture || !vp.modified {
			continue
		}

		for y := 0; y < s.Height; y++ {
			runStart := -1
			for x := int(vp.minX); x <= int(vp.maxX); x++ {
				inside := int(vp.top[x]) <= y && int(vp.bottom[x]) >= y
				if inside && runStart < 0 {
					runStart = x
				} else if !inside && runStart >= 0 {
					s.emitSpan(&ctx, vp, uint16(y), uint16(runStart), uint16(x-1))
					runStart = -1
				}
			}
			if runStart >= 0 {
				s.emitSpan(&ctx, vp, uint16(y), uint16(runStart), vp.maxX)
			}
		}
	}
}

// emitSpan turns one horizontal run of a visplane into a perspective-
// correct world-space U/V gradient and hands it to drawPlaneSpan.
func (s *Software) emitSpan(ctx *spanContext, vp *visPlane, y, xStart, xEnd uint16) {
	planeHeight := float64(vp.height) - s.viewZ // <0 floor, >0 ceiling
	dy := (float64(y) + 0.5) - s.halfH
	invDy := 1.0 / dy
	ratio := planeHeight * invDy // signed: floors and ceilings self-consistently flip

	z := s.focal * abs64(ratio)

	xs := float64(xStart)
	xe := float64(xEnd)
	leftScr := (xs + 0.5) - s.halfW
	rightScr := (xe + 0.5) - s.halfW
	wPx := xe - xs
	if wPx < 1.0 {
		wPx = 1.0
	}
	stepScr := (rightScr - leftScr) / wPx

	base := ctx.camBase.Add(ctx.camFwd.Scale(z)).Add(ctx.camRight.Scale(leftScr * ratio))
	dWorld := ctx.camRight.Scale(stepScr * ratio)

	worldLeft := base
	worldRight := base.Add(dWorld.Scale(wPx))

	du := (worldRight.X - worldLeft.X) / wPx
	dv := (worldRight.Y - worldLeft.Y) / wPx

	s.drawPlaneSpan(ctx, vp.tex, vp.light, y, xStart, xEnd, worldLeft.X, worldLeft.Y, du, dv, z)
}

func (s *Software) drawPlaneSpan(ctx *spanContext, texID texture.ID, light int16, y, xStart, xEnd uint16, u0, v0, du, dv, z float64) {
	tex, err := ctx.bank.Texture(texID)
	if err != nil {
		tex, _ = ctx.bank.Texture(texture.NoTexture)
	}

	row := int(y) * s.Width

	baseSh := 255 - int(light)
	if baseSh < 0 {
		baseSh = 0
	}
	baseSh >>= 3
	baseSh = s.shadeIndex(baseSh, z)

	uMask := int32(tex.W - 1)
	vMask := int32(tex.H - 1)

	u, v := u0, v0
	for x := xStart; x <= xEnd; x++ {
		ui := int32(u) & uMask
		vi := int32(v) & vMask
		col := tex.Pixels[int(vi)*tex.W+int(ui)]
		s.Scratch[row+int(x)] = ctx.bank.GetColor(baseSh, col)
		u += du
		v += dv
	}
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
