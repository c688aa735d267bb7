package tracer

import "testing"

func TestSampleTracker(t *testing.T) {
	type spec struct {
		changed  bool
		expIndex uint32
	}
	specs := []spec{
		{false, 0},
		{false, 1},
		{false, 2},
		// Camera moved
		{true, 0},
		{false, 1},
		{true, 0},
		{true, 0},
	}

	var tracker SampleTracker
	for index, s := range specs {
		if got := tracker.OnFrameStart(s.changed); got != s.expIndex {
			t.Fatalf("[spec %d] expected sample index %d; got %d", index, s.expIndex, got)
		}
	}

	tracker.Reset()
	if got := tracker.OnFrameStart(false); got != 0 {
		t.Fatalf("expected sample index 0 after reset; got %d", got)
	}
}

func TestWeight(t *testing.T) {
	specs := map[uint32]float32{
		0: 1,
		1: 0.5,
		3: 0.25,
	}

	for index, exp := range specs {
		if got := Weight(index); got != exp {
			t.Fatalf("expected weight for sample %d to be %f; got %f", index, exp, got)
		}
	}
}
