package raycaster

import (
	"math"

	"doomgo/texture"
	"doomgo/world"
)

// frameScratch is a bump allocator for per-column drawseg data (clip
// bands and masked-middle U values) that only needs to live for one
// frame: every BeginFrame call resets the cursor instead of freeing and
// reallocating per-wall slices.
type frameScratch struct {
	openings []int16
	cursor   int
}

func (f *frameScratch) alloc(n int) (start, end int) {
	start = f.cursor
	f.cursor += n
	if f.cursor > len(f.openings) {
		f.openings = append(f.openings, make([]int16, nextPow2(f.cursor)-len(f.openings))...)
	}
	return start, f.cursor
}

func (f *frameScratch) reset() { f.cursor = 0 }

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// maskedDone marks a masked-middle column already rendered, so the
// second sprite pass never draws it twice.
const maskedDone int16 = -1

// silhouette flags which side(s) of a drawseg already block a sprite: TOP
// for the upper wall piece, BOTTOM for the lower, SOLID for both (a
// one-sided wall).
type silhouette uint8

const (
	silNone   silhouette = 0
	silBottom silhouette = 0x0001
	silTop    silhouette = 0x0002
	silSolid  silhouette = silTop | silBottom
)

func (s silhouette) has(bit silhouette) bool { return s&bit != 0 }

// drawSeg records, per screen column, how a wall's upper/lower silhouette
// clips sprites drawn behind it, plus the masked-middle U coordinate for
// any two-sided wall that carries one. Its three column ranges are slices
// of the shared frameScratch arena, not independent allocations.
type drawSeg struct {
	segIdx     uint32
	x1, x2     int32
	scale1, scale2, scaleStep float64

	silhouette            silhouette
	bsilHeight, tsilHeight float64

	maskedMid  texture.ID
	maskedMidW int32
	zTop, zBot float64

	maskedColsStart, maskedColsEnd int
	topClipStart, topClipEnd       int
	botClipStart, botClipEnd       int
}

// visSprite is a thing projected to screen space and ready to be painted,
// sorted far-to-near so overlapping sprites composite correctly.
type visSprite struct {
	x0, x1, y0, y1 int32
	invz           float64
	gx, gy         float64
	tex            texture.ID
	uStep          float64
}

// spriteLump is a minimal type-id-to-sprite-lump table; a full asset
// loader would derive this from the map's DoomEdNum registry instead.
type spriteLump struct {
	typeID uint16
	lump   string
}

var thingSprites = []spriteLump{
	{1, "PLAYA1"},
	{2014, "BON1A0"},
	{3001, "TROOA0"},
	{3004, "POSSA0"},
	{2004, "CLIPA0"},
}

func spriteForThing(typeID uint16, bank *texture.Bank) texture.ID {
	for _, s := range thingSprites {
		if s.typeID == typeID {
			if id, ok := bank.ID(s.lump); ok {
				return id
			}
			break
		}
	}
	return texture.NoTexture
}

// createDrawSeg builds the drawseg for a projected seg, reserving its
// three per-column ranges in the frame's scratch arena.
func (s *Software) createDrawSeg(segIdx uint32, e *edge, zTop, zBot float64, maskedMid texture.ID, bank *texture.Bank) drawSeg {
	scale1 := s.focal * e.invzL
	scale2 := s.focal * e.invzR
	scaleStep := (scale2 - scale1) / float64(e.xR-e.xL)
	count := int(e.xR - e.xL + 1)

	maskedMidW := int32(0)
	if maskedMid != texture.NoTexture {
		if tex, err := bank.Texture(maskedMid); err == nil {
			maskedMidW = int32(tex.W)
		}
	}

	ds := drawSeg{
		segIdx: segIdx,
		x1:     e.xL, x2: e.xR,
		scale1: scale1, scale2: scale2, scaleStep: scaleStep,
		bsilHeight: -1e30, tsilHeight: 1e30,
		maskedMid: maskedMid, maskedMidW: maskedMidW,
		zTop: zTop, zBot: zBot,
	}
	ds.maskedColsStart, ds.maskedColsEnd = s.frameScratch.alloc(count)
	ds.topClipStart, ds.topClipEnd = s.frameScratch.alloc(count)
	ds.botClipStart, ds.botClipEnd = s.frameScratch.alloc(count)
	return ds
}

// storeWallRange records, for one column the wall pass just drew, the
// clip band it leaves behind and (if this is a two-sided wall with a
// masked middle) the texture U it needs for the second sprite pass.
func (s *Software) storeWallRange(ds *drawSeg, col int, uozInvz int32) {
	idx := col - int(ds.x1)

	if ds.silhouette.has(silTop) {
		s.frameScratch.openings[ds.topClipStart+idx] = s.clipBands.ceil[col]
	}
	if ds.silhouette.has(silBottom) {
		s.frameScratch.openings[ds.botClipStart+idx] = s.clipBands.floor[col]
	}
	if ds.maskedMid != texture.NoTexture {
		s.frameScratch.openings[ds.maskedColsStart+idx] = int16(floorMod(uozInvz, ds.maskedMidW))
	}
}

// collectSpritesForSubsector projects every thing in a subsector to
// screen space, discarding anything with no registered sprite, behind or
// too close to the near plane, or fully off-screen, and appends the
// survivors sorted far-to-near.
func (s *Software) collectSpritesForSubsector(ssIdx uint16, level *world.Level, cam *world.Camera, bank *texture.Bank) {
	var out []visSprite
	focal := cam.ScreenScale(s.Width)

	ss := &level.Subsectors[ssIdx]
	floorZ := level.Sectors[ss.Sector].FloorHeight

	for _, thingIdx := range ss.Things {
		thing := &level.Things[thingIdx]

		texID := spriteForThing(thing.TypeID, bank)
		if texID == texture.NoTexture {
			continue
		}

		rel := cam.ToCam(thing.Pos)
		if rel.Y <= 4.0 {
			continue
		}
		invz := 1.0 / rel.Y
		scale := focal * invz

		tex, err := bank.Texture(texID)
		if err != nil {
			continue
		}
		spriteW := float64(tex.W) * scale
		spriteH := float64(tex.H) * scale

		xc := s.halfW + rel.X*scale
		x0 := int32(math.Floor(xc - spriteW*0.5))
		x1 := int32(math.Ceil(xc + spriteW*0.5))

		if x1 < 0 || x0 >= int32(s.Width) {
			continue
		}

		relZ := floorZ - s.viewZ
		yBottom := s.halfH - relZ*scale

		y0 := int32(math.Floor(yBottom - spriteH))
		y1 := int32(math.Ceil(yBottom))

		out = append(out, visSprite{
			x0: x0, x1: x1, y0: y0, y1: y1,
			invz: invz,
			gx:   thing.Pos.X, gy: thing.Pos.Y,
			tex:    texID,
			uStep:  float64(tex.W) / float64(x1-x0+1),
		})
	}

	// far-to-near painter's order so overlapping sprites composite
	// correctly against each other and the masked-middle second pass.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].invz > out[j].invz; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	s.sprites = append(s.sprites, out...)
}

// drawSprites paints every collected sprite column by column, clipping
// each column against the drawsegs in front of it, then makes a second
// pass over the drawsegs to render any masked-middle columns that no
// sprite happened to cover.
func (s *Software) drawSprites(level *world.Level, bank *texture.Bank) {
	focal := s.focal
	hScr := int32(s.Height)

	for i := range s.sprites {
		vis := s.sprites[i]
		texSpr, err := bank.Texture(vis.tex)
		if err != nil {
			continue
		}
		sprScale := focal * vis.invz

		x := vis.x0
		if x < 0 {
			x = 0
		}
		xEnd := vis.x1
		if xEnd > int32(s.Width)-1 {
			xEnd = int32(s.Width) - 1
		}
		xClipLeft := x - vis.x0
		uAcc := float64(xClipLeft) * vis.uStep

		for x <= xEnd {
			ceil, floor := s.columnClips(level, sprScale, &vis, x, bank)

			if ceil >= floor {
				uAcc += vis.uStep
				x++
				continue
			}

			y0 := ceil + 1
			if vis.y0 > y0 {
				y0 = vis.y0
			}
			if y0 < 0 {
				y0 = 0
			}
			y1 := floor - 1
			if vis.y1 < y1 {
				y1 = vis.y1
			}
			if y1 > hScr-1 {
				y1 = hScr - 1
			}

			u := int(uAcc)
			if u >= texSpr.W {
				break
			}

			vStep := float64(texSpr.H) / float64(vis.y1-vis.y0+1)
			vAcc := float64(y0-vis.y0) * vStep

			for y := y0; y <= y1; y++ {
				v := int(vAcc)
				if v > texSpr.H-1 {
					v = texSpr.H - 1
				}
				idx := texSpr.Pixels[v*texSpr.W+u]
				if idx != 0 {
					s.Scratch[int(y)*s.Width+int(x)] = bank.GetColor(0, idx)
				}
				vAcc += vStep
			}

			uAcc += vis.uStep
			x++
		}
	}

	for dsIdx := len(s.drawsegs) - 1; dsIdx >= 0; dsIdx-- {
		if s.drawsegs[dsIdx].maskedMid != texture.NoTexture {
			ds := &s.drawsegs[dsIdx]
			s.renderMaskedSegRange(dsIdx, ds.x1, ds.x2, bank)
		}
	}
}

// columnClips narrows the open rows (ceil,floor), both bounds exclusive,
// for one sprite column against every drawseg covering it, walking the
// drawsegs in reverse emission order (farthest first, since the wall pass
// emits them front-to-back). A drawseg judged to lie behind the sprite
// does not clip it, though any masked middle it still owes in this column
// is drawn first; every other drawseg pinches the open range with the
// silhouette clip bands it recorded.
func (s *Software) columnClips(level *world.Level, sprScale float64, vis *visSprite, x int32, bank *texture.Bank) (int32, int32) {
	ceil := int32(-1)
	floor := int32(s.Height)

	for dsIdx := len(s.drawsegs) - 1; dsIdx >= 0; dsIdx-- {
		ds := &s.drawsegs[dsIdx]
		if x < ds.x1 || x > ds.x2 {
			continue
		}

		maxScale := ds.scale1
		if ds.scale2 > maxScale {
			maxScale = ds.scale2
		}
		minScale := ds.scale1
		if ds.scale2 < minScale {
			minScale = ds.scale2
		}

		var behind bool
		switch {
		case maxScale < sprScale:
			behind = true
		case minScale < sprScale:
			behind = pointOnSegBackside(level, vis.gx, vis.gy, ds.segIdx)
		}

		masked := ds.maskedMid != texture.NoTexture

		if behind {
			if masked {
				s.renderMaskedSegRange(dsIdx, x, x, bank)
			}
			continue
		}

		if ds.silhouette.has(silTop) {
			i := ds.topClipStart + int(x-ds.x1)
			v := int32(s.frameScratch.openings[i])
			if v > ceil {
				ceil = v
			}
		}
		if ds.silhouette.has(silBottom) {
			i := ds.botClipStart + int(x-ds.x1)
			v := int32(s.frameScratch.openings[i])
			if v < floor {
				floor = v
			}
		}

		if ceil >= floor {
			break
		}
	}

	return ceil, floor
}

// renderMaskedSegRange draws the masked middle texture of a two-sided
// wall for columns [x0,x1], used both by the sprite-column clipper (to
// reveal a masked mid before occluding a sprite behind it) and by
// drawSprites' final pass to flush anything never touched that way.
func (s *Software) renderMaskedSegRange(dsIdx int, x0, x1 int32, bank *texture.Bank) {
	ds := &s.drawsegs[dsIdx]
	texMid, err := bank.Texture(ds.maskedMid)
	if err != nil {
		return
	}

	scale := ds.scale1 + float64(x0-ds.x1)*ds.scaleStep

	for x := x0; x <= x1; x++ {
		col := int(x - ds.x1)
		dsTopClip := int32(s.frameScratch.openings[ds.topClipStart+col]) + 1
		dsBotClip := int32(s.frameScratch.openings[ds.botClipStart+col]) - 1

		entryIdx := ds.maskedColsStart + col
		if s.frameScratch.openings[entryIdx] == maskedDone {
			scale += ds.scaleStep
			continue
		}

		u := int(s.frameScratch.openings[entryIdx])

		yTop := int32(math.Floor(s.halfH - (ds.zTop-s.viewZ)*scale))
		yBot := int32(math.Ceil(s.halfH - (ds.zBot-s.viewZ)*scale))

		y0 := yTop
		if y0 < 0 {
			y0 = 0
		}
		y1 := yBot
		if y1 > int32(s.Height)-1 {
			y1 = int32(s.Height) - 1
		}

		if ds.silhouette.has(silTop) && y0 < dsTopClip {
			y0 = dsTopClip
		}
		if ds.silhouette.has(silBottom) && y1 > dsBotClip {
			y1 = dsBotClip
		}

		if y0 <= y1 {
			vStep := float64(texMid.H) / float64(yBot-yTop+1)
			vF := float64(y0-yTop) * vStep

			for y := y0; y <= y1; y++ {
				v := int(vF)
				if v > texMid.H-1 {
					v = texMid.H - 1
				}
				idx := texMid.Pixels[v*texMid.W+u]
				if idx != 0 {
					s.Scratch[int(y)*s.Width+int(x)] = bank.GetColor(0, idx)
				}
				vF += vStep
			}
		}

		s.frameScratch.openings[entryIdx] = maskedDone
		scale += ds.scaleStep
	}
}

// pointOnSegBackside is Doom's R_PointOnSegSide test: whether (px,py)
// lies on the back side of a seg's directed line.
func pointOnSegBackside(level *world.Level, px, py float64, segIdx uint32) bool {
	seg := &level.Segs[segIdx]
	v1 := level.Vertices[seg.V1].Pos
	v2 := level.Vertices[seg.V2].Pos

	dx := v2.X - v1.X
	dy := v2.Y - v1.Y
	dx1 := px - v1.X
	dy1 := py - v1.Y

	return (dy*dx1 - dx*dy1) > 0.0
}
