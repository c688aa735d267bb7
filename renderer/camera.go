package renderer

import (
	"github.com/achilleasa/skytrace/scene"
	"github.com/achilleasa/skytrace/tracer"
	"github.com/achilleasa/skytrace/types"
)

// Initial camera placement; looks at the origin from above the ground plane.
var (
	defaultCameraPosition = types.XYZ(0, 25, 140)
	defaultCameraPitch    = float32(-0.15)
)

// hostCamera attaches a scene camera to the surface it renders into.
type hostCamera struct {
	*scene.Camera

	width  uint32
	height uint32
	target tracer.RenderTarget
}

func newHostCamera(opts Options, target tracer.RenderTarget) *hostCamera {
	cam := scene.NewCamera(opts.FOV, defaultCameraPosition)
	cam.Pitch = defaultCameraPitch

	c := &hostCamera{
		Camera: cam,
		target: target,
	}
	c.Resize(opts.FrameW, opts.FrameH)
	return c
}

// Update the output dimensions and the projection aspect ratio.
func (c *hostCamera) Resize(width, height uint32) {
	c.width, c.height = width, height
	if height != 0 {
		c.SetupProjection(float32(width) / float32(height))
	}
}

func (c *hostCamera) PixelSize() (uint32, uint32) {
	return c.width, c.height
}

func (c *hostCamera) Target() tracer.RenderTarget {
	return c.target
}
