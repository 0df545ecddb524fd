package raycaster

import (
	"math"
	"testing"

	"doomgo/internal/fixtures"
	"doomgo/texture"
	"doomgo/world"
)

func TestDrawLevelSingleRoomProducesNoOverlappingSolidSegs(t *testing.T) {
	bank := fixtures.CheckerBank()
	level := fixtures.SquareRoom(64, 0, 128, bank)
	cam := world.NewCamera(world.Vec3{X: 0, Y: 0, Z: 41}, 0, math.Pi/2)

	s := NewSoftware()
	s.BeginFrame(64, 48)

	visible := level.FillVisibleSubsectors(cam, nil)
	s.DrawLevel(visible, level, cam, bank)

	for i := 1; i < len(s.solidSegs); i++ {
		if s.solidSegs[i-1].Last >= s.solidSegs[i].First {
			t.Fatalf("solidSegs overlap/touch after a frame: %+v", s.solidSegs)
		}
	}
}

func TestDrawLevelClipBandsStayOrdered(t *testing.T) {
	bank := fixtures.CheckerBank()
	level := fixtures.SquareRoom(64, 0, 128, bank)
	cam := world.NewCamera(world.Vec3{X: 0, Y: 0, Z: 41}, 0, math.Pi/2)

	s := NewSoftware()
	s.BeginFrame(64, 48)
	visible := level.FillVisibleSubsectors(cam, nil)
	s.DrawLevel(visible, level, cam, bank)

	// A solid wall closes a column as ceil=MaxInt16, floor=MinInt16; that
	// pair is the one allowed exception to ceil <= floor+1.
	for col, ceil := range s.clipBands.ceil {
		floor := s.clipBands.floor[col]
		closed := ceil == math.MaxInt16 && floor == math.MinInt16
		if !closed && ceil > floor+1 {
			t.Fatalf("column %d: ceil(%d) > floor(%d)+1, clip bands inverted", col, ceil, floor)
		}
	}
}

func TestDrawLevelEmptySubsectorListNoops(t *testing.T) {
	bank := fixtures.CheckerBank()
	level := fixtures.SquareRoom(64, 0, 128, bank)
	cam := world.NewCamera(world.Vec3{X: 0, Y: 0, Z: 41}, 0, math.Pi/2)

	s := NewSoftware()
	s.BeginFrame(64, 48)
	before := append([]uint32(nil), s.Scratch...)
	s.DrawLevel(nil, level, cam, bank)

	for i, px := range s.Scratch {
		if px != before[i] {
			t.Fatalf("DrawLevel with no subsectors must not touch the scratch buffer")
		}
	}
}

func TestDrawLevelTwoSectorPortalDoesNotPanic(t *testing.T) {
	bank := fixtures.CheckerBank()
	level := fixtures.TwoSectorPortal(0, 128, 0, 96, bank)
	cam := world.NewCamera(world.Vec3{X: -32, Y: 0, Z: 41}, 0, math.Pi/2)

	s := NewSoftware()
	s.BeginFrame(64, 48)
	visible := level.FillVisibleSubsectors(cam, nil)
	s.DrawLevel(visible, level, cam, bank)
}

// Seed scenario 1: an empty room, walls and flats all opaque, must leave
// no trace of the background clear color anywhere in the frame.
func TestDrawLevelEmptyRoomLeavesNoClearColorPixel(t *testing.T) {
	const clearColor = 0xFF202020

	bank := fixtures.CheckerBank()
	level := fixtures.SquareRoom(128, 0, 128, bank)
	cam := world.NewCamera(world.Vec3{X: 0, Y: 0, Z: 41}, 0, math.Pi/2)

	s := NewSoftware()
	s.BeginFrame(320, 200)
	visible := level.FillVisibleSubsectors(cam, nil)
	s.DrawLevel(visible, level, cam, bank)

	for i, px := range s.Scratch {
		if px == clearColor {
			t.Fatalf("pixel %d (col=%d,row=%d) still shows the clear color; every pixel should be wall or flat",
				i, i%s.Width, i/s.Width)
		}
	}
}

// Seed scenario 6: a 256-unit wall textured with a 64-wide column-index
// gradient and an x-offset of 16 must sample u=16 at both screen edges
// (16 mod 64 == 16, and (16+256) mod 64 == 16).
func TestDrawLevelWrapWallSamplesUModuloTextureWidth(t *testing.T) {
	bank := fixtures.CheckerBank()
	level := fixtures.WrapWallRoom(128, 16, bank)
	cam := world.NewCamera(world.Vec3{X: 0, Y: 0, Z: 41}, 0, math.Pi/2)

	s := NewSoftware()
	s.BeginFrame(320, 200)
	visible := level.FillVisibleSubsectors(cam, nil)
	s.DrawLevel(visible, level, cam, bank)

	row := (s.Height / 2) * s.Width
	leftU := s.Scratch[row] & 0xFF
	rightU := s.Scratch[row+s.Width-1] & 0xFF

	if leftU != 16 {
		t.Fatalf("left screen edge sampled u=%d, want 16", leftU)
	}
	if rightU != 16 {
		t.Fatalf("right screen edge sampled u=%d, want 16", rightU)
	}
}

// Seed scenario 5: a two-sided line's masked middle (a grate) must only
// appear via the deferred masked-middle pass, with its transparent
// columns (palette index 0) left showing whatever is drawn behind them.
func TestDrawLevelMaskedMiddleShowsPerColumnTransparency(t *testing.T) {
	bank := fixtures.CheckerBank()
	level := fixtures.MaskedPortal(0, 96, 0, 96, bank)
	cam := world.NewCamera(world.Vec3{X: -32, Y: 0, Z: 41}, 0, math.Pi/2)

	s := NewSoftware()
	s.BeginFrame(64, 48)
	visible := level.FillVisibleSubsectors(cam, nil)
	s.DrawLevel(visible, level, cam, bank)

	// The masked pass overwrites each stored U with maskedDone once drawn,
	// so read the grate back off the framebuffer: opaque GRATE texels are
	// palette index 12 (0xFF0C0C0C at shade row 0), transparent ones leave
	// whatever was there before.
	const grateColor = 0xFF0C0C0C
	row := (s.Height / 2) * s.Width

	var sawOpaque, sawGap bool
	for _, ds := range s.drawsegs {
		if ds.maskedMid == texture.NoTexture {
			continue
		}
		for col := ds.x1; col <= ds.x2; col++ {
			if s.Scratch[row+int(col)] == grateColor {
				sawOpaque = true
			} else {
				sawGap = true
			}
		}
	}
	if !sawOpaque || !sawGap {
		t.Fatalf("expected the grate's masked middle to carry both opaque and transparent columns, got opaque=%v gap=%v", sawOpaque, sawGap)
	}
}

// Seed scenario 4 (collection and ordering only): of two things at
// different depths in the same subsector, both must be collected and
// sorted far-to-near so the painter pass composites them in the right
// order. Clipping against the portal's silhouette is not checked here.
func TestDrawLevelNearAndFarSpritesSortFarToNear(t *testing.T) {
	bank := fixtures.CheckerBank()
	level := fixtures.TwoSectorPortal(0, 96, 0, 96, bank)
	cam := world.NewCamera(world.Vec3{X: -48, Y: 0, Z: 41}, 0, math.Pi/2)

	// Both things are registered against subsector 0: with no BSP Nodes,
	// FillVisibleSubsectors only ever visits subsector 0 (world/bsp.go),
	// so a thing filed under subsector 1 would never be collected.
	fixtures.PlaceThing(level, 0, world.Vec2{X: -16, Y: 0}, 3001) // near
	fixtures.PlaceThing(level, 0, world.Vec2{X: 32, Y: 0}, 3001)  // far, beyond the portal line

	s := NewSoftware()
	s.BeginFrame(64, 48)
	visible := level.FillVisibleSubsectors(cam, nil)
	s.DrawLevel(visible, level, cam, bank)

	if len(s.sprites) != 2 {
		t.Fatalf("expected both things to project to a visSprite, got %d", len(s.sprites))
	}
	// collectSpritesForSubsector's insertion sort leaves the farthest
	// (smallest invz) sprite first.
	if s.sprites[0].invz > s.sprites[1].invz {
		t.Fatalf("sprites not sorted far-to-near by invz: %+v", s.sprites)
	}
}
