package raycaster

import "testing"

func TestPlaneMapFindAllocatesFreshPlaneForNewKey(t *testing.T) {
	var m planeMap
	m.clear(64)

	id := m.find(0, 1, 128, 0, 10)
	if id == noPlane {
		t.Fatalf("find should allocate a real visplane id")
	}
	vp := m.get(id)
	if vp == nil {
		t.Fatalf("get(%d) = nil", id)
	}
	if vp.minX != 0 || vp.maxX != 10 {
		t.Fatalf("fresh plane range = [%d,%d], want [0,10]", vp.minX, vp.maxX)
	}
}

func TestPlaneMapFindMergesSameKeyNonOverlapping(t *testing.T) {
	var m planeMap
	m.clear(64)

	id1 := m.find(0, 1, 128, 0, 10)
	id2 := m.find(0, 1, 128, 20, 30)

	if id1 != id2 {
		t.Fatalf("two non-overlapping spans with the same key should merge into one plane, got %d and %d", id1, id2)
	}
	vp := m.get(id1)
	if vp.minX != 0 || vp.maxX != 30 {
		t.Fatalf("merged plane range = [%d,%d], want [0,30]", vp.minX, vp.maxX)
	}
}

func TestPlaneMapFindAllocatesNewPlaneOnOverlap(t *testing.T) {
	var m planeMap
	m.clear(64)

	id1 := m.find(0, 1, 128, 0, 10)
	vp1 := m.get(id1)
	// Simulate the wall pass having already written into [0,10].
	for x := 0; x <= 10; x++ {
		vp1.top[x] = 5
	}

	id2 := m.find(0, 1, 128, 5, 15)
	if id2 == id1 {
		t.Fatalf("find must allocate a fresh plane when the key matches but the range is already drawn")
	}
}

func TestPlaneMapFindDifferentKeysNeverMerge(t *testing.T) {
	var m planeMap
	m.clear(64)

	id1 := m.find(0, 1, 128, 0, 10)
	id2 := m.find(1, 1, 128, 0, 10) // different height
	id3 := m.find(0, 2, 128, 0, 10) // different texture
	id4 := m.find(0, 1, 64, 0, 10)  // different light

	if id1 == id2 || id1 == id3 || id1 == id4 {
		t.Fatalf("planes with different keys must never share an id: %d %d %d %d", id1, id2, id3, id4)
	}
}

func TestPlaneMapGetNoPlaneIsNil(t *testing.T) {
	var m planeMap
	m.clear(8)
	if m.get(noPlane) != nil {
		t.Fatalf("get(noPlane) must be nil")
	}
}

func TestPlaneMapFindSoftCapsAtMaxPlanes(t *testing.T) {
	var m planeMap
	m.clear(8)
	m.maxPlanes = 2

	id1 := m.find(0, 1, 128, 0, 1)
	id2 := m.find(1, 1, 128, 0, 1) // different height, forces a second plane
	id3 := m.find(2, 1, 128, 0, 1) // a third distinct key once the cap is full

	if id1 == noPlane || id2 == noPlane {
		t.Fatalf("the first maxPlanes allocations must succeed, got %d and %d", id1, id2)
	}
	if id3 != noPlane {
		t.Fatalf("find must return noPlane once maxPlanes is reached, got %d", id3)
	}
	if len(m.planes) != 2 {
		t.Fatalf("soft cap must not grow the plane table past maxPlanes, got %d planes", len(m.planes))
	}
}
