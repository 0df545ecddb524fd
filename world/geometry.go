// Package world holds the read-only map and camera data the renderer
// consumes: vertices, linedefs, sidedefs, sectors, segs, subsectors and the
// BSP that ties them together. Nothing in this package mutates after a
// Level is built; the asset loader and the game-tic simulator that produce
// a Level and keep Things' subsector indices current are external
// collaborators this package only describes the shape of.
package world

import "doomgo/texture"

// LinedefFlags are the behavioural bits carried by a Linedef.
type LinedefFlags uint16

const (
	FlagImpassable    LinedefFlags = 0x0001
	FlagBlockMonsters LinedefFlags = 0x0002
	FlagTwoSided      LinedefFlags = 0x0004
	FlagUpperUnpegged LinedefFlags = 0x0010
	FlagLowerUnpegged LinedefFlags = 0x0020
	FlagSecret        LinedefFlags = 0x0040
	FlagBlockSound    LinedefFlags = 0x0080
)

func (f LinedefFlags) Has(bit LinedefFlags) bool { return f&bit != 0 }

// Vec2 is a 2-D map-space point or direction.
type Vec2 struct {
	X, Y float64
}

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

// Vertex is a single map-space point.
type Vertex struct {
	Pos Vec2
}

// Sidedef is the material face of a Linedef on one side.
type Sidedef struct {
	XOff, YOff           float64
	Upper, Lower, Middle texture.ID
	Sector               uint16
}

// Linedef connects two vertices and references one or two sidedefs.
type Linedef struct {
	V1, V2         uint16
	Flags          LinedefFlags
	RightSidedef   int32 // -1 if absent (never true for the right side in practice)
	LeftSidedef    int32 // -1 if absent (one-sided line)
	BBox           AABB
}

// Sector is a region of uniform floor/ceiling heights, flats and light.
type Sector struct {
	FloorHeight, CeilHeight float64
	FloorTex, CeilTex       texture.ID
	Light                   float64 // in [0,1]
}

// Seg is a directed fragment of a Linedef bordering exactly one Subsector.
type Seg struct {
	V1, V2  uint16
	Linedef uint16
	Dir     uint8 // 0: seg faces same way as the linedef's right side, 1: flipped
	Offset  float64
}

// Subsector is a convex polygon owned by exactly one Sector.
type Subsector struct {
	FirstSeg uint32
	NumSegs  uint32
	Sector   uint16
	Things   []uint16
}

// AABB is an axis-aligned bounding box in map space.
type AABB struct {
	Min, Max Vec2
}

// Node is one BSP splitter: an origin point plus direction, and two
// children. ChildTag's top bit distinguishes a subsector leaf from another
// node; see SubsectorBit / ChildMask.
type Node struct {
	X, Y   float64
	DX, DY float64
	BBox   [2]AABB
	Child  [2]uint16
}

const (
	// SubsectorBit, set in a Node.Child entry, flags a subsector leaf.
	SubsectorBit uint16 = 0x8000
	// ChildMask extracts the node or subsector index from a child tag.
	ChildMask uint16 = 0x7FFF
)

// Thing is a placed map object; the simulator keeps SubsectorIdx current as
// the object moves, the renderer only reads it.
type Thing struct {
	Pos         Vec2
	Angle       float64
	TypeID      uint16
	SubsectorIdx uint16
}

// Level is one pre-built, immutable map: geometry plus the BSP that
// partitions it. The asset loader builds a Level once; this package never
// mutates one afterwards.
type Level struct {
	FormatVersion string

	Vertices   []Vertex
	Linedefs   []Linedef
	Sidedefs   []Sidedef
	Sectors    []Sector
	Segs       []Seg
	Subsectors []Subsector
	Nodes      []Node
	Things     []Thing
}

// BSPRoot is the index of the root node (the last node Doom's BSP builder
// emits).
func (l *Level) BSPRoot() uint16 {
	if len(l.Nodes) == 0 {
		return SubsectorBit // a single, implicit subsector 0
	}
	return uint16(len(l.Nodes) - 1)
}
