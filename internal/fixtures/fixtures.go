// Package fixtures builds small synthetic world.Level and texture.Bank
// values for tests: a single room, a two-sector room with a step, and so
// on. Nothing here decodes real map files; each builder hand-assembles
// the handful of vertices/linedefs/sectors a scenario needs.
package fixtures

import (
	"doomgo/texture"
	"doomgo/world"
)

// SquareRoom builds a single convex, sector, axis-aligned room spanning
// [-size,size] on both axes, with one subsector and no BSP split (the
// degenerate, zero-node Level case world.Level.BSPRoot/FillVisibleSubsectors
// both special-case).
func SquareRoom(size float64, floorH, ceilH float64, bank *texture.Bank) *world.Level {
	wallTex := bank.IDOrMissing("WALL")
	floorTex := bank.IDOrMissing("FLOOR")
	ceilTex := bank.IDOrMissing("CEIL")

	verts := []world.Vertex{
		{Pos: world.Vec2{X: -size, Y: -size}},
		{Pos: world.Vec2{X: size, Y: -size}},
		{Pos: world.Vec2{X: size, Y: size}},
		{Pos: world.Vec2{X: -size, Y: size}},
	}

	sectors := []world.Sector{
		{FloorHeight: floorH, CeilHeight: ceilH, FloorTex: floorTex, CeilTex: ceilTex, Light: 1.0},
	}

	sidedefs := []world.Sidedef{
		{Middle: wallTex, Sector: 0},
		{Middle: wallTex, Sector: 0},
		{Middle: wallTex, Sector: 0},
		{Middle: wallTex, Sector: 0},
	}

	linedefs := make([]world.Linedef, 4)
	segs := make([]world.Seg, 4)
	for i := 0; i < 4; i++ {
		v1, v2 := uint16(i), uint16((i+1)%4)
		linedefs[i] = world.Linedef{
			V1: v1, V2: v2,
			Flags:        world.FlagImpassable,
			RightSidedef: int32(i),
			LeftSidedef:  -1,
			BBox:         boundingBox(verts[v1].Pos, verts[v2].Pos),
		}
		segs[i] = world.Seg{V1: v1, V2: v2, Linedef: uint16(i), Dir: 0, Offset: 0}
	}

	return &world.Level{
		FormatVersion: "1.0.0",
		Vertices:      verts,
		Linedefs:      linedefs,
		Sidedefs:      sidedefs,
		Sectors:       sectors,
		Segs:          segs,
		Subsectors: []world.Subsector{
			{FirstSeg: 0, NumSegs: 4, Sector: 0},
		},
	}
}

// TwoSectorPortal builds two square rooms sharing one two-sided wall at
// x=0, the near room at (nearFloor,nearCeil) and the far room at
// (farFloor,farCeil) — the minimal scenario for a portal that exposes an
// upper or lower texture and a floor/ceiling step.
func TwoSectorPortal(nearFloor, nearCeil, farFloor, farCeil float64, bank *texture.Bank) *world.Level {
	wallTex := bank.IDOrMissing("WALL")
	upperTex := bank.IDOrMissing("UPPER")
	lowerTex := bank.IDOrMissing("LOWER")
	floorTex := bank.IDOrMissing("FLOOR")
	ceilTex := bank.IDOrMissing("CEIL")

	const size = 64.0
	verts := []world.Vertex{
		{Pos: world.Vec2{X: -size, Y: -size}}, // 0
		{Pos: world.Vec2{X: 0, Y: -size}},      // 1
		{Pos: world.Vec2{X: 0, Y: size}},       // 2
		{Pos: world.Vec2{X: -size, Y: size}},   // 3
		{Pos: world.Vec2{X: size, Y: -size}},   // 4
		{Pos: world.Vec2{X: size, Y: size}},    // 5
	}

	sectors := []world.Sector{
		{FloorHeight: nearFloor, CeilHeight: nearCeil, FloorTex: floorTex, CeilTex: ceilTex, Light: 1.0},
		{FloorHeight: farFloor, CeilHeight: farCeil, FloorTex: floorTex, CeilTex: ceilTex, Light: 1.0},
	}

	sidedefs := []world.Sidedef{
		{Middle: wallTex, Sector: 0},                          // 0: near room outer
		{Upper: upperTex, Lower: lowerTex, Sector: 0},          // 1: near room, portal-facing
		{Middle: wallTex, Sector: 1},                          // 2: far room outer
		{Upper: upperTex, Lower: lowerTex, Sector: 1},         // 3: far room, portal-facing
	}

	linedefs := []world.Linedef{
		{V1: 0, V2: 1, Flags: world.FlagImpassable, RightSidedef: 0, LeftSidedef: -1, BBox: boundingBox(verts[0].Pos, verts[1].Pos)},
		{V1: 1, V2: 2, Flags: world.FlagTwoSided, RightSidedef: 1, LeftSidedef: 3, BBox: boundingBox(verts[1].Pos, verts[2].Pos)},
		{V1: 2, V2: 3, Flags: world.FlagImpassable, RightSidedef: 0, LeftSidedef: -1, BBox: boundingBox(verts[2].Pos, verts[3].Pos)},
		{V1: 3, V2: 0, Flags: world.FlagImpassable, RightSidedef: 0, LeftSidedef: -1, BBox: boundingBox(verts[3].Pos, verts[0].Pos)},
		{V1: 4, V2: 5, Flags: world.FlagImpassable, RightSidedef: 2, LeftSidedef: -1, BBox: boundingBox(verts[4].Pos, verts[5].Pos)},
		{V1: 5, V2: 2, Flags: world.FlagImpassable, RightSidedef: 2, LeftSidedef: -1, BBox: boundingBox(verts[5].Pos, verts[2].Pos)},
		{V1: 1, V2: 4, Flags: world.FlagImpassable, RightSidedef: 2, LeftSidedef: -1, BBox: boundingBox(verts[1].Pos, verts[4].Pos)},
	}

	segs := []world.Seg{
		{V1: 0, V2: 1, Linedef: 0, Dir: 0},
		{V1: 1, V2: 2, Linedef: 1, Dir: 0},
		{V1: 2, V2: 3, Linedef: 2, Dir: 0},
		{V1: 3, V2: 0, Linedef: 3, Dir: 0},
		{V1: 4, V2: 5, Linedef: 4, Dir: 0},
		{V1: 5, V2: 2, Linedef: 5, Dir: 0},
		{V1: 1, V2: 4, Linedef: 6, Dir: 0},
		{V1: 2, V2: 1, Linedef: 1, Dir: 1},
	}

	return &world.Level{
		FormatVersion: "1.0.0",
		Vertices:      verts,
		Linedefs:      linedefs,
		Sidedefs:      sidedefs,
		Sectors:       sectors,
		Segs:          segs,
		Subsectors: []world.Subsector{
			{FirstSeg: 0, NumSegs: 4, Sector: 0},
			{FirstSeg: 4, NumSegs: 4, Sector: 1},
		},
	}
}

// WrapWallRoom is SquareRoom with the east wall (the one a yaw-0 camera at
// the origin faces head-on) re-textured with a 64-wide column-index
// gradient and given a texture x-offset, for exercising the wall
// rasterizer's U wraparound against a wall whose length is a multiple of
// the texture width.
func WrapWallRoom(size, xOff float64, bank *texture.Bank) *world.Level {
	level := SquareRoom(size, 0, 128, bank)
	level.Sidedefs[1].XOff = xOff
	level.Sidedefs[1].Middle = bank.IDOrMissing("WRAP64")
	return level
}

// MaskedPortal is TwoSectorPortal with the portal's front-facing sidedef
// carrying a masked (partially transparent) middle texture, for
// exercising the deferred masked-middle rendering pass.
func MaskedPortal(nearFloor, nearCeil, farFloor, farCeil float64, bank *texture.Bank) *world.Level {
	level := TwoSectorPortal(nearFloor, nearCeil, farFloor, farCeil, bank)
	level.Sidedefs[1].Middle = bank.IDOrMissing("GRATE")
	return level
}

// PlaceThing appends a Thing to level and registers it in its owning
// subsector's Things list, the minimal wiring a real game-tic simulator
// would otherwise maintain as things move between subsectors.
func PlaceThing(level *world.Level, ssIdx uint16, pos world.Vec2, typeID uint16) {
	idx := uint16(len(level.Things))
	level.Things = append(level.Things, world.Thing{Pos: pos, TypeID: typeID, SubsectorIdx: ssIdx})
	ss := &level.Subsectors[ssIdx]
	ss.Things = append(ss.Things, idx)
}

func boundingBox(a, b world.Vec2) world.AABB {
	box := world.AABB{Min: a, Max: a}
	for _, p := range []world.Vec2{a, b} {
		if p.X < box.Min.X {
			box.Min.X = p.X
		}
		if p.Y < box.Min.Y {
			box.Min.Y = p.Y
		}
		if p.X > box.Max.X {
			box.Max.X = p.X
		}
		if p.Y > box.Max.Y {
			box.Max.Y = p.Y
		}
	}
	return box
}

// CheckerBank builds a minimal texture.Bank with a handful of named
// checkerboard placeholders, enough for any fixture Level above to
// resolve its texture names to real IDs.
func CheckerBank() *texture.Bank {
	b := texture.NewBank()
	for _, name := range []string{"WALL", "FLOOR", "CEIL", "UPPER", "LOWER", "TROOA0"} {
		tex := texture.DefaultTexture()
		tex.Name = name
		_, _ = b.Insert(tex)
	}

	// WRAP64 stores its own column index as the pixel value, so a test can
	// read u straight back off the sampled color instead of recognizing a
	// checker pattern.
	const wrapW = 64
	wrapPixels := make([]uint8, wrapW*wrapW)
	for y := 0; y < wrapW; y++ {
		for x := 0; x < wrapW; x++ {
			wrapPixels[y*wrapW+x] = uint8(x)
		}
	}
	_, _ = b.Insert(texture.Texture{Name: "WRAP64", W: wrapW, H: wrapW, Pixels: wrapPixels})

	// GRATE alternates a transparent column (palette index 0) with an
	// opaque one, the minimal pattern a masked middle texture needs to
	// exercise per-column transparency.
	const grateW = 8
	gratePixels := make([]uint8, grateW*grateW)
	for y := 0; y < grateW; y++ {
		for x := 0; x < grateW; x++ {
			if x%2 == 0 {
				gratePixels[y*grateW+x] = 0
			} else {
				gratePixels[y*grateW+x] = 12
			}
		}
	}
	_, _ = b.Insert(texture.Texture{Name: "GRATE", W: grateW, H: grateW, Pixels: gratePixels})

	var pal texture.Palette
	for i := range pal {
		v := uint32(i)
		pal[i] = 0xFF000000 | v<<16 | v<<8 | v
	}
	b.SetPalette(pal)

	var cm texture.Colormap
	for row := range cm {
		for col := range cm[row] {
			cm[row][col] = uint8(col)
		}
	}
	b.SetColormap(cm)
	b.BuildShadeTable(2)

	return b
}
