package tracer

import (
	"math/rand"

	"github.com/achilleasa/skytrace/types"
)

// The per-frame parameter set of the trace kernel.
type FrameParams struct {
	CameraToWorld     types.Mat4
	InverseProjection types.Mat4

	// Sub-pixel sampling offset in [0, 1)^2.
	PixelOffset types.Vec2

	// Light direction (xyz) and intensity (w).
	DirectionalLight types.Vec4

	NumSpheres    uint32
	SphereOffsetX float32

	// The scene buffer; nil when the scene is empty.
	Spheres Buffer

	// Backend specific skybox texture.
	Skybox interface{}

	// Destination surface.
	Result Surface
}

// Draw a new sub-pixel jitter offset.
func Jitter(rng *rand.Rand) types.Vec2 {
	return types.XY(rng.Float32(), rng.Float32())
}

// Collect frame parameters from the camera and light. A new jitter offset is
// drawn on every call.
func NewFrameParams(cam Camera, light Light, rng *rand.Rand) *FrameParams {
	return &FrameParams{
		CameraToWorld:     cam.CameraToWorld(),
		InverseProjection: cam.InverseProjection(),
		PixelOffset:       Jitter(rng),
		DirectionalLight:  light.Packed(),
	}
}

// Write the frame parameters to the trace kernel. Bind must be called before
// every dispatch of the trace kernel.
func Bind(shader Shader, p *FrameParams) error {
	params := []struct {
		name  string
		value interface{}
	}{
		{ParamCameraToWorld, p.CameraToWorld},
		{ParamInverseProjection, p.InverseProjection},
		{ParamSkyboxTexture, p.Skybox},
		{ParamPixelOffset, p.PixelOffset},
		{ParamDirectionalLight, p.DirectionalLight},
		{ParamNumSpheres, p.NumSpheres},
		{ParamSphereOffsetX, p.SphereOffsetX},
		{ParamSpheres, p.Spheres},
		{ParamResult, p.Result},
	}

	for _, param := range params {
		if err := shader.SetParam(TraceKernel, param.name, param.value); err != nil {
			return err
		}
	}
	return nil
}
