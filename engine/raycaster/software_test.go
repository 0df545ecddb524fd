package raycaster

import "testing"

// Regression test for the "new_last not updated" class of bug in
// addSolidSeg: a bridging span must fully coalesce the spans on both
// sides of the gaps it closes, not just the nearer one.
func TestAddSolidSegMergesChainOfTouchingSpans(t *testing.T) {
	s := &Software{}
	s.solidSegs = []ClipRange{
		{First: 0, Last: 5},
		{First: 8, Last: 12},
		{First: 13, Last: 20},
	}

	// Fills the 6-7 gap; [8,12] and [13,20] already touch, so the merge
	// must carry on through both of them.
	s.addSolidSeg(6, 9)

	want := []ClipRange{{First: 0, Last: 20}}
	if len(s.solidSegs) != len(want) || s.solidSegs[0] != want[0] {
		t.Fatalf("solidSegs = %+v, want %+v (fully coalesced)", s.solidSegs, want)
	}
}

func TestAddSolidSegSwallowedIsNoop(t *testing.T) {
	s := &Software{}
	s.solidSegs = []ClipRange{{First: 0, Last: 20}}
	s.addSolidSeg(5, 10)

	want := []ClipRange{{First: 0, Last: 20}}
	if len(s.solidSegs) != 1 || s.solidSegs[0] != want[0] {
		t.Fatalf("a span fully inside an existing one should not change solidSegs, got %+v", s.solidSegs)
	}
}

func TestAddSolidSegDisjointStaysSorted(t *testing.T) {
	s := &Software{}
	s.solidSegs = []ClipRange{{First: 0, Last: 5}, {First: 20, Last: 25}}
	s.addSolidSeg(10, 15)

	if len(s.solidSegs) != 3 {
		t.Fatalf("a disjoint span should be inserted, not merged: got %+v", s.solidSegs)
	}
	for i := 1; i < len(s.solidSegs); i++ {
		if s.solidSegs[i-1].Last >= s.solidSegs[i].First {
			t.Fatalf("solidSegs not sorted/disjoint: %+v", s.solidSegs)
		}
	}
}

func TestInitSolidSegsHasSentinelsBeyondViewport(t *testing.T) {
	s := &Software{Width: 320}
	s.initSolidSegs()
	if len(s.solidSegs) != 2 {
		t.Fatalf("expected exactly two sentinel spans, got %d", len(s.solidSegs))
	}
	if s.solidSegs[0].First >= 0 || s.solidSegs[1].Last < int32(s.Width) {
		t.Fatalf("sentinels don't cover the off-screen ranges: %+v", s.solidSegs)
	}
}

func TestBeginFrameResetsClipBandsFullyOpen(t *testing.T) {
	s := NewSoftware()
	s.BeginFrame(64, 48)
	for col := 0; col < 64; col++ {
		if s.clipBands.ceil[col] >= s.clipBands.floor[col] {
			t.Fatalf("column %d should start fully open (ceil < floor), got ceil=%d floor=%d",
				col, s.clipBands.ceil[col], s.clipBands.floor[col])
		}
	}
}
