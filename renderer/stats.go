package renderer

import (
	"time"

	"github.com/achilleasa/skytrace/scene"
	"github.com/achilleasa/skytrace/tracer"
)

type FrameStats struct {
	tracer.FrameStats

	// Host frame counter.
	Frame uint64

	// Statistics for the generated scene.
	Scene scene.GeneratorStats

	// Total render time for the entire frame including composite.
	RenderTime time.Duration
}
