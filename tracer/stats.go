package tracer

import "time"

// Statistics for the last rendered frame.
type FrameStats struct {
	// The sample index rendered by this frame.
	Sample uint32

	// Surface dimensions and the dispatched tile grid.
	Width   uint32
	Height  uint32
	GroupsX uint32
	GroupsY uint32

	// Number of spheres bound to the kernel.
	Spheres uint32

	// True if the render target was reallocated during this frame.
	Reallocated bool

	// True if the sample limit was reached and no work was dispatched.
	Converged bool

	// True if the accumulated image was composited onto the camera output.
	Composited bool

	// Time spent binding parameters and submitting kernels.
	SubmitTime time.Duration

	// Time spent compositing the result.
	CompositeTime time.Duration
}
