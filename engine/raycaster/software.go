// Package raycaster implements the core software 3-D rendering pipeline:
// BSP-ordered wall rasterization, deferred floor/ceiling visplanes and
// sprite clipping against the drawsegs the wall pass leaves behind.
// Everything here consumes a world.Level and a texture.Bank that some
// external loader already built; nothing in this package parses map
// files, runs game logic, or owns a window.
package raycaster

import (
	"doomgo/config"
	"doomgo/texture"
	"doomgo/world"
)

// ClipRange is an inclusive, closed screen-column interval already fully
// covered by a solid wall. solidSegs keeps these sorted and coalesced so
// occlusion queries and inserts stay cheap.
type ClipRange struct {
	First, Last int32
}

// defaultDistFadeFull is the distance, in map units, at which the
// distance-fade term alone reaches the darkest shade row. Matches the
// constant used by both Rust renderer variants, kept verbatim rather
// than re-derived; config.Config.DistFadeFull overrides it when set.
const defaultDistFadeFull = 2000.0

// maxShadeIdx is the last row of the 32-row shade table.
const maxShadeIdx = 31

// shadeIndex combines a sector/visplane's light-level shade row with the
// distance-fade term derived from z (map units from the eye), clamped to
// the shade table's last row.
func (s *Software) shadeIndex(baseIdx int, z float64) int {
	distIdx := int(z / s.distFadeFull * maxShadeIdx)
	idx := baseIdx + distIdx
	if idx > maxShadeIdx {
		idx = maxShadeIdx
	}
	return idx
}

// clipBands holds, per screen column, the highest row a nearer wall has
// already claimed from the top (ceil) and the lowest row claimed from the
// bottom (floor). A column is still open wherever ceil < floor.
type clipBands struct {
	ceil  []int16
	floor []int16
}

// Software is the frame-scoped renderer state: the ARGB scratch buffer,
// the clip bands, the visplane table, the solid-segment occlusion list,
// this frame's sprites and drawsegs, and the bump-allocator arena backing
// their per-column clip data. A caller owns one Software per rendering
// thread and calls BeginFrame/DrawLevel/EndFrame once per displayed frame.
type Software struct {
	Scratch []uint32

	clipBands    clipBands
	visplaneMap  planeMap
	solidSegs    []ClipRange
	sprites      []visSprite
	drawsegs     []drawSeg
	frameScratch frameScratch

	Width, Height int
	widthF        float64
	heightF       float64
	halfW         float64
	halfH         float64
	focal         float64
	viewZ         float64

	distFadeFull float64
}

// NewSoftware returns a renderer with no backing buffer, tuned to the
// engine's default constants; the first BeginFrame call sizes it.
func NewSoftware() *Software {
	return &Software{distFadeFull: defaultDistFadeFull}
}

// NewSoftwareWithConfig returns a renderer tuned to cfg's distance-fade
// and visplane soft-cap settings instead of the engine defaults,
// mirroring NewSoftware otherwise.
func NewSoftwareWithConfig(cfg config.Config) *Software {
	s := NewSoftware()
	if cfg.DistFadeFull > 0 {
		s.distFadeFull = cfg.DistFadeFull
	}
	if cfg.MaxVisplanes > 0 {
		s.visplaneMap.maxPlanes = cfg.MaxVisplanes
	}
	return s
}

// BeginFrame clears the frame to its background color, resets the clip
// bands to fully open, and drops every per-frame accumulator (solid segs,
// visplanes, sprites, drawsegs, the frame_scratch arena) so DrawLevel
// starts from a blank slate. Resizing the scratch buffer only happens when
// the requested dimensions actually change.
func (s *Software) BeginFrame(w, h int) {
	if w != s.Width || h != s.Height {
		s.Width = w
		s.Height = h
		s.widthF = float64(w)
		s.heightF = float64(h)
		s.halfW = s.widthF * 0.5
		s.halfH = s.heightF * 0.5
		s.Scratch = make([]uint32, w*h)
		s.clipBands.ceil = make([]int16, w)
		s.clipBands.floor = make([]int16, w)
	}

	const clearColor = 0xFF202020
	for i := range s.Scratch {
		s.Scratch[i] = clearColor
	}

	for i := range s.clipBands.ceil {
		s.clipBands.ceil[i] = -1 << 15
		s.clipBands.floor[i] = 1<<15 - 1
	}

	s.initSolidSegs()
	s.visplaneMap.clear(w)
	s.sprites = s.sprites[:0]
	s.drawsegs = s.drawsegs[:0]
	s.frameScratch.reset()
}

// DrawLevel renders the subsectors already culled to view (front-to-back,
// per world.Level.FillVisibleSubsectors): it collects each subsector's
// sprites, projects and draws each of its segs, then flushes the
// accumulated visplanes and finally draws the sprite list against the
// drawsegs the wall pass produced.
func (s *Software) DrawLevel(subsectors []uint16, level *world.Level, cam *world.Camera, bank *texture.Bank) {
	if len(subsectors) == 0 {
		return
	}

	s.focal = cam.ScreenScale(s.Width)

	sec0 := level.Subsectors[subsectors[0]].Sector
	floorZ := level.Sectors[sec0].FloorHeight
	s.viewZ = cam.Pos.Z + floorZ

	for _, ssIdx := range subsectors {
		ss := &level.Subsectors[ssIdx]

		s.collectSpritesForSubsector(ssIdx, level, cam, bank)

		end := ss.FirstSeg + ss.NumSegs
		for segIdx := ss.FirstSeg; segIdx < end; segIdx++ {
			if edge, ok := s.projectSeg(segIdx, level, cam); ok {
				s.drawEdge(edge, segIdx, level, bank)
			}
		}
	}

	s.flushPlanes(cam, bank)
	s.drawSprites(level, bank)
}

// DrawLine is a debug Bresenham line a host can draw over the scratch
// buffer; it never participates in DrawLevel, and cmd/viewer does not
// call it.
func (s *Software) DrawLine(x0, y0, x1, y1 int32, col uint32) {
	dx := abs32(x1 - x0)
	sx := int32(1)
	if x0 >= x1 {
		sx = -1
	}
	dy := -abs32(y1 - y0)
	sy := int32(1)
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if x0 >= 0 && x0 < int32(s.Width) && y0 >= 0 && y0 < int32(s.Height) {
			s.Scratch[int(y0)*s.Width+int(x0)] = col
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// EndFrame hands the completed scratch buffer to submit, which the host
// (cmd/viewer) uses to blit it to screen.
func (s *Software) EndFrame(submit func(scratch []uint32, w, h int)) {
	submit(s.Scratch, s.Width, s.Height)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func (s *Software) initSolidSegs() {
	w := int32(s.Width)
	s.solidSegs = s.solidSegs[:0]
	// Sentinels at both ends so addSolidSeg never has to special-case
	// running off the array.
	s.solidSegs = append(s.solidSegs,
		ClipRange{First: -w, Last: -1},
		ClipRange{First: w, Last: w * 2},
	)
}

// addSolidSeg inserts [first,last] into solidSegs, merging with any
// segments it overlaps or touches so the list stays sorted and
// coalesced into disjoint spans.
func (s *Software) addSolidSeg(first, last int32) {
	i := 0
	for i < len(s.solidSegs) && s.solidSegs[i].Last < first-1 {
		i++
	}

	if i < len(s.solidSegs) && first >= s.solidSegs[i].First && last <= s.solidSegs[i].Last {
		return
	}

	newFirst, newLast := first, last
	j := i
	for j < len(s.solidSegs) && s.solidSegs[j].First <= newLast+1 {
		if s.solidSegs[j].First < newFirst {
			newFirst = s.solidSegs[j].First
		}
		if s.solidSegs[j].Last > newLast {
			newLast = s.solidSegs[j].Last
		}
		j++
	}

	merged := ClipRange{First: newFirst, Last: newLast}
	s.solidSegs = append(s.solidSegs[:i], append([]ClipRange{merged}, s.solidSegs[j:]...)...)
}
