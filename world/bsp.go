package world

import "math"

// PointSide reports which side of the node's splitter line p falls on: 0
// for front, 1 for back. Mirrors the implicit line equation
// original_source/src/world/bsp.rs uses for Node::point_side.
func (n *Node) PointSide(p Vec2) int {
	d := (p.X-n.X)*n.DY - (p.Y-n.Y)*n.DX
	if d >= 0 {
		return 0
	}
	return 1
}

// LocateSubsector walks the BSP from the root until it reaches the leaf
// containing p, per spec.md §6 (Node child tag encoding: bit 15 set ⇒
// subsector index in the low 15 bits, otherwise a node index).
func (l *Level) LocateSubsector(p Vec2) uint16 {
	if len(l.Nodes) == 0 {
		return 0
	}
	idx := l.BSPRoot()
	for {
		node := &l.Nodes[idx]
		child := node.Child[node.PointSide(p)]
		if child&SubsectorBit != 0 {
			return child & ChildMask
		}
		idx = child
	}
}

// BBoxVisible is the bounding-box FOV cull from spec.md §4.2: accept if the
// camera sits inside the box, otherwise compute the four corner angles
// relative to the view direction (wrapped to (-pi, pi]), and reject iff
// their angular span lies entirely outside the camera's FOV.
func (box *AABB) BBoxVisible(cam *Camera) bool {
	halfFOV := cam.FOV * 0.5

	if cam.Pos.X >= box.Min.X && cam.Pos.X <= box.Max.X &&
		cam.Pos.Y >= box.Min.Y && cam.Pos.Y <= box.Max.Y {
		return true
	}

	corners := [4]Vec2{
		{box.Min.X, box.Min.Y},
		{box.Max.X, box.Min.Y},
		{box.Min.X, box.Max.Y},
		{box.Max.X, box.Max.Y},
	}

	left := math.Pi
	right := -math.Pi
	var angles [4]float64
	for i, c := range corners {
		dx := c.X - cam.Pos.X
		dy := c.Y - cam.Pos.Y
		a := math.Atan2(dy, dx) - cam.Yaw
		if a > math.Pi {
			a -= 2 * math.Pi
		}
		if a < -math.Pi {
			a += 2 * math.Pi
		}
		angles[i] = a
		if a < left {
			left = a
		}
		if a > right {
			right = a
		}
	}

	span := right - left
	if span > math.Pi {
		// The wedge wraps the +/-pi seam: it runs from the smallest
		// non-negative corner angle up through pi to the largest negative
		// one, and is visible iff either end reaches into the FOV.
		minPos, maxNeg := math.Pi, -math.Pi
		for _, a := range angles {
			if a >= 0 && a < minPos {
				minPos = a
			}
			if a < 0 && a > maxNeg {
				maxNeg = a
			}
		}
		return minPos <= halfFOV || maxNeg >= -halfFOV
	}
	return right >= -halfFOV && left <= halfFOV
}

// FillVisibleSubsectors performs the front-to-back BSP walk (spec.md §4.2):
// at each internal node, recurse the near child first (decided by
// PointSide), then the far child only if its bounding box survives
// BBoxVisible. Leaf tags are appended in visit order. The result slice is
// cleared and reused across frames by the caller.
func (l *Level) FillVisibleSubsectors(cam *Camera, out []uint16) []uint16 {
	out = out[:0]
	if len(l.Nodes) == 0 {
		return append(out, 0)
	}
	return l.walkBSP(l.BSPRoot(), cam, out)
}

func (l *Level) walkBSP(child uint16, cam *Camera, out []uint16) []uint16 {
	if child&SubsectorBit != 0 {
		return append(out, child&ChildMask)
	}

	node := &l.Nodes[child]
	front := node.PointSide(Vec2{cam.Pos.X, cam.Pos.Y})
	back := front ^ 1

	out = l.walkBSP(node.Child[front], cam, out)

	if node.BBox[back].BBoxVisible(cam) {
		out = l.walkBSP(node.Child[back], cam, out)
	}
	return out
}
