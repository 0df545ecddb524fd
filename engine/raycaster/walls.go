package raycaster

import (
	"math"

	"doomgo/texture"
	"doomgo/world"
)

// clipKind distinguishes the three ways a wall span interacts with the
// clip bands: a one-sided wall closes a column completely, while the
// upper/lower portions of a two-sided line (a closed door included) only
// narrow it from one side each.
type clipKind int

const (
	clipSolid clipKind = iota
	clipUpper
	clipLower
)

// wallSpan is one projected wall segment ready to rasterize: perspective-
// correct U/1-z interpolants at its two screen columns, the screen-space
// ceiling/floor line it spans, and enough map-space data to reconstruct a
// texture V coordinate per pixel.
type wallSpan struct {
	texID    texture.ID
	shadeIdx int

	u0OverZ, u1OverZ float64
	invZ0, invZ1     float64

	xStart, xEnd int32
	yTop0, yTop1 float64
	yBot0, yBot1 float64

	wallH         float64
	texturemidMu  float64
}

type wallStep struct {
	duOverZ, dInvZ, dyTop, dyBot float64
}

func wallStepFromSpan(sp *wallSpan) wallStep {
	w := float64(sp.xEnd - sp.xStart)
	if w < 1 {
		w = 1
	}
	return wallStep{
		duOverZ: (sp.u1OverZ - sp.u0OverZ) / w,
		dInvZ:   (sp.invZ1 - sp.invZ0) / w,
		dyTop:   (sp.yTop1 - sp.yTop0) / w,
		dyBot:   (sp.yBot1 - sp.yBot0) / w,
	}
}

type wallCursor struct {
	uOverZ, invZ, yTop, yBot float64
}

func wallCursorFromSpan(sp *wallSpan) wallCursor {
	return wallCursor{uOverZ: sp.u0OverZ, invZ: sp.invZ0, yTop: sp.yTop0, yBot: sp.yBot0}
}

func (c *wallCursor) advance(st wallStep) {
	c.uOverZ += st.duOverZ
	c.invZ += st.dInvZ
	c.yTop += st.dyTop
	c.yBot += st.dyBot
}

// wallPass is the outcome of decidePass: either a single solid middle
// span, or the upper/lower portal pair a two-sided line produces.
type wallPass struct {
	twoSided bool

	pegged                bool
	worldTop, worldBottom float64

	// solid
	middleTexture texture.ID

	// two-sided
	markFloor, markCeiling   bool
	upperFloorH, lowerCeilH  float64
	upperTex, lowerTex       texture.ID
}

func sectorsForSeg(seg *world.Seg, level *world.Level) (front *world.Sidedef, back *world.Sector, ld *world.Linedef) {
	ld = &level.Linedefs[seg.Linedef]
	var frontIdx, backIdx int32
	if seg.Dir == 0 {
		frontIdx, backIdx = ld.RightSidedef, ld.LeftSidedef
	} else {
		frontIdx, backIdx = ld.LeftSidedef, ld.RightSidedef
	}
	front = &level.Sidedefs[frontIdx]
	if backIdx >= 0 && int(backIdx) < len(level.Sidedefs) {
		back = &level.Sectors[level.Sidedefs[backIdx].Sector]
	}
	return front, back, ld
}

// drawEdge resolves a projected seg's front/back sectors, registers the
// visplanes its floor/ceiling need, builds the drawseg that records its
// per-column clip state for the sprite pass, decides whether it's a solid
// wall or a two-sided upper/lower pair, and rasterizes whichever applies.
func (s *Software) drawEdge(e edge, segIdx uint32, level *world.Level, bank *texture.Bank) {
	seg := &level.Segs[segIdx]
	sdFront, secBack, ld := sectorsForSeg(seg, level)
	secFront := &level.Sectors[sdFront.Sector]

	light255 := int16(secFront.Light * 255.0)

	floorVis := noPlane
	if secFront.FloorHeight < s.viewZ {
		floorVis = s.visplaneMap.find(int16(secFront.FloorHeight), secFront.FloorTex, light255, uint16(e.xL), uint16(e.xR))
	}
	ceilVis := noPlane
	if secFront.CeilHeight > s.viewZ {
		ceilVis = s.visplaneMap.find(int16(secFront.CeilHeight), secFront.CeilTex, light255, uint16(e.xL), uint16(e.xR))
	}

	maskedMid := texture.NoTexture
	if secBack != nil {
		maskedMid = sdFront.Middle
	}
	ds := s.createDrawSeg(segIdx, &e, secFront.CeilHeight, secFront.FloorHeight, maskedMid, bank)

	pass := decidePass(secFront, secBack, sdFront, ld)

	if !pass.twoSided {
		ds.silhouette = silSolid
		s.pushWall(wallJob{
			edge: &e, ceilH: pass.worldTop, floorH: pass.worldBottom,
			light: secFront.Light, tex: pass.middleTexture, kind: clipSolid,
			pegged: pass.pegged, yOff: sdFront.YOff,
			ceilVis: ceilVis, floorVis: floorVis, bank: bank, ds: &ds,
		})
		s.addSolidSeg(e.xL, e.xR)
	} else {
		curFloorVis, curCeilVis := noPlane, noPlane
		if pass.markFloor {
			curFloorVis = floorVis
		}
		if pass.markCeiling {
			curCeilVis = ceilVis
		}

		if pass.upperFloorH > pass.worldBottom {
			ds.silhouette |= silBottom
			ds.bsilHeight = pass.upperFloorH
		}
		if pass.lowerCeilH < pass.worldTop {
			ds.silhouette |= silTop
			ds.tsilHeight = pass.lowerCeilH
		}

		s.pushWall(wallJob{
			edge: &e, ceilH: pass.worldTop, floorH: pass.upperFloorH,
			light: secFront.Light, tex: pass.upperTex, kind: clipUpper,
			pegged: pass.pegged, yOff: sdFront.YOff,
			ceilVis: curCeilVis, floorVis: noPlane, bank: bank, ds: &ds,
		})
		s.pushWall(wallJob{
			edge: &e, ceilH: pass.lowerCeilH, floorH: pass.worldBottom,
			light: secFront.Light, tex: pass.lowerTex, kind: clipLower,
			pegged: pass.pegged, yOff: sdFront.YOff,
			ceilVis: noPlane, floorVis: curFloorVis, bank: bank, ds: &ds,
		})
	}

	s.drawsegs = append(s.drawsegs, ds)
}

// decidePass implements Doom's classic two-sided-line logic: whether the
// upper/lower portals need a texture at all, whether either side's
// floor/ceiling plane needs marking (skipped when both sides share the
// exact same plane), and the "closed door" special case that forces both
// marks when the back sector's open range is degenerate or inverted.
func decidePass(secFront *world.Sector, secBack *world.Sector, sdFront *world.Sidedef, ld *world.Linedef) wallPass {
	worldTop := secFront.CeilHeight
	worldBottom := secFront.FloorHeight

	if secBack != nil && ld.Flags.Has(world.FlagTwoSided) {
		worldHigh := secBack.CeilHeight
		worldLow := secBack.FloorHeight

		markFloor := worldLow != worldBottom || secBack.FloorTex != secFront.FloorTex || secBack.Light != secFront.Light
		markCeiling := worldHigh != worldTop || secBack.CeilTex != secFront.CeilTex || secBack.Light != secFront.Light

		if worldHigh <= worldBottom || worldLow >= worldTop {
			markCeiling = true
			markFloor = true
		}

		upperFloorH := worldTop
		if worldHigh < upperFloorH {
			upperFloorH = worldHigh
		}
		upperTex := texture.NoTexture
		if worldHigh < worldTop {
			upperTex = sdFront.Upper
		}

		lowerCeilH := worldBottom
		if worldLow > lowerCeilH {
			lowerCeilH = worldLow
		}
		lowerTex := texture.NoTexture
		if worldLow > worldBottom {
			lowerTex = sdFront.Lower
		}

		return wallPass{
			twoSided: true,
			pegged:   ld.Flags.Has(world.FlagUpperUnpegged),
			worldTop: worldTop, worldBottom: worldBottom,
			markFloor: markFloor, markCeiling: markCeiling,
			upperFloorH: upperFloorH, upperTex: upperTex,
			lowerCeilH: lowerCeilH, lowerTex: lowerTex,
		}
	}

	return wallPass{
		twoSided:      false,
		pegged:        ld.Flags.Has(world.FlagLowerUnpegged),
		worldTop:      worldTop,
		worldBottom:   worldBottom,
		middleTexture: sdFront.Middle,
	}
}

// wallJob is pushWall's argument bundle: the pre-computed projection edge
// plus everything needed to build a wallSpan for one clip-kind portion of
// a seg (the full wall, or a two-sided line's upper or lower piece).
type wallJob struct {
	edge                  *edge
	ceilH, floorH, light  float64
	tex                   texture.ID
	kind                  clipKind
	pegged                bool
	yOff                  float64
	ceilVis, floorVis     visplaneID
	bank                  *texture.Bank
	ds                    *drawSeg
}

// pushWall computes a wall's texture V-origin (texturemidMu) from Doom's
// four-case pegging table, projects its screen-space top/bottom line from
// the edge's perspective interpolants, and hands the resulting span to
// emitAndClip.
func (s *Software) pushWall(job wallJob) {
	var texturemidMu float64
	switch {
	case job.kind == clipLower && job.pegged:
		texturemidMu = (job.ceilH - s.viewZ) + job.yOff
	case job.kind == clipLower && !job.pegged:
		texturemidMu = (job.floorH - s.viewZ) + job.yOff
	case job.pegged:
		texturemidMu = (job.floorH - s.viewZ) + job.yOff
	default:
		texturemidMu = (job.ceilH - s.viewZ) + job.yOff
	}

	e := job.edge
	baseIdx := int((1.0 - job.light) * maxShadeIdx)
	z := 1.0 / e.invzL
	sp := wallSpan{
		texID:    job.tex,
		shadeIdx: s.shadeIndex(baseIdx, z),
		u0OverZ:  e.uozL, u1OverZ: e.uozR,
		invZ0: e.invzL, invZ1: e.invzR,
		xStart: e.xL, xEnd: e.xR,
		yTop0: s.halfH - (job.ceilH-s.viewZ)*s.focal*e.invzL,
		yTop1: s.halfH - (job.ceilH-s.viewZ)*s.focal*e.invzR,
		yBot0: s.halfH - (job.floorH-s.viewZ)*s.focal*e.invzL,
		yBot1: s.halfH - (job.floorH-s.viewZ)*s.focal*e.invzR,
		wallH:        abs64(job.ceilH - job.floorH),
		texturemidMu: texturemidMu,
	}

	s.emitAndClip(&sp, job.kind, job.ceilVis, job.floorVis, job.bank, job.ds)
}

func (s *Software) columnVisible(col int, yTop, yBot float64) bool {
	return yTop < float64(s.clipBands.floor[col]) && yBot > float64(s.clipBands.ceil[col])
}

type columnJob struct {
	col      int
	cur      *wallCursor
	span     *wallSpan
	tex      *texture.Texture
	yMin, yMax int16
	bank     *texture.Bank
}

func (s *Software) drawColumn(job columnJob) {
	if job.yMax < job.yMin {
		return
	}

	colPxH := job.cur.yBot - job.cur.yTop
	if colPxH < 1.0 {
		colPxH = 1.0
	}
	dvMu := job.span.wallH / colPxH
	vMu := job.span.texturemidMu + (float64(job.yMin)-s.halfH)*dvMu

	uTex := floorMod(int32(job.cur.uOverZ/job.cur.invZ), int32(job.tex.W))

	row := job.col
	for y := job.yMin; y <= job.yMax; y++ {
		vTex := floorMod(int32(vMu), int32(job.tex.H))
		s.Scratch[int(y)*s.Width+row] = job.bank.GetColor(job.span.shadeIdx, job.tex.Pixels[int(vTex)*job.tex.W+int(uTex)])
		vMu += dvMu
	}
}

func floorMod(a, m int32) int32 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// emitAndClip walks a wall span column by column, drawing whatever pixels
// the current clip bands still leave open, recording the newly-exposed
// floor/ceiling plane slivers, narrowing the clip bands to reflect what
// this wall now occludes, and storing per-column data the sprite pass
// will need from ds.
func (s *Software) emitAndClip(proto *wallSpan, kind clipKind, ceilVis, floorVis visplaneID, bank *texture.Bank, ds *drawSeg) {
	step := wallStepFromSpan(proto)
	cur := wallCursorFromSpan(proto)

	tex, err := bank.Texture(proto.texID)
	if err != nil {
		tex, _ = bank.Texture(texture.NoTexture)
	}

	for x := proto.xStart; x <= proto.xEnd; x++ {
		col := int(x)

		ceilBand := s.clipBands.ceil[col]
		floorBand := s.clipBands.floor[col]

		if ceilBand < floorBand {
			y0 := int16(math.Ceil(maxF(cur.yTop, float64(ceilBand+1))))
			y1 := int16(math.Floor(minF(cur.yBot, float64(floorBand-1))))

			if proto.texID != texture.NoTexture && s.columnVisible(col, cur.yTop, cur.yBot) {
				yMin, yMax := y0, y1
				if yMin < 0 {
					yMin = 0
				}
				if int(yMax) > s.Height-1 {
					yMax = int16(s.Height - 1)
				}
				s.drawColumn(columnJob{col: col, cur: &cur, span: proto, tex: tex, yMin: yMin, yMax: yMax, bank: bank})
			}

			if vp := s.visplaneMap.get(ceilVis); vp != nil {
				top := ceilBand + 1
				bottom := y0 - 1
				if floorBand-1 < bottom {
					bottom = floorBand - 1
				}
				if top <= bottom {
					vp.modified = true
					vp.top[col] = uint16(max16(top, 0))
					vp.bottom[col] = uint16(max16(bottom, 0))
				}
			}

			if vp := s.visplaneMap.get(floorVis); vp != nil {
				top := y1 + 1
				if ceilBand > top {
					top = ceilBand
				}
				bottom := floorBand
				if top <= bottom {
					vp.modified = true
					vp.top[col] = uint16(max16(top, 0))
					vp.bottom[col] = uint16(max16(bottom, 0))
				}
			}

			switch kind {
			case clipSolid:
				s.clipBands.ceil[col] = 1<<15 - 1
				s.clipBands.floor[col] = -1 << 15
			case clipUpper:
				if proto.texID != texture.NoTexture || ceilVis != noPlane {
					if s.clipBands.ceil[col] < y1+1 {
						s.clipBands.ceil[col] = y1 + 1
					}
				}
			case clipLower:
				if proto.texID != texture.NoTexture || floorVis != noPlane {
					if floorBand < y0-1 {
						s.clipBands.floor[col] = floorBand
					} else {
						s.clipBands.floor[col] = y0 - 1
					}
				}
			}
		}

		s.storeWallRange(ds, col, int32(cur.uOverZ/cur.invZ))

		cur.advance(step)
	}
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
func max16(a, b int16) int16 {
	if a > b {
		return a
	}
	return b
}
