package tracer

import "github.com/achilleasa/skytrace/types"

// Kernel entry points exposed by the ray tracing program.
const (
	// Traces one sample per pixel into the Result surface.
	TraceKernel = 0

	// Blends the Result surface into the accumulation surface.
	AccumulateKernel = 1
)

// Named kernel parameters.
const (
	ParamCameraToWorld     = "_CameraToWorld"
	ParamInverseProjection = "_CameraInverseProjection"
	ParamSkyboxTexture     = "_SkyboxTexture"
	ParamPixelOffset       = "_PixelOffset"
	ParamNumSpheres        = "_NumSpheres"
	ParamSphereOffsetX     = "_SphereOffsetX"
	ParamDirectionalLight  = "_DirectionalLight"
	ParamSpheres           = "_Spheres"
	ParamResult            = "Result"
	ParamAccumulator       = "_Accumulator"
	ParamSample            = "_Sample"
)

// The kernels operate on square tiles with this many pixels per side.
const TileSize = 8

// A device-resident float4 image that kernels can write to.
type Surface interface {
	Width() uint32
	Height() uint32

	// Copy the surface contents (RGBA float32 per pixel, row-major) into dst.
	ReadPixels(dst []float32) error

	Release()
}

// A device-resident buffer.
type Buffer interface {
	// Allocated size in bytes.
	Size() int

	Release()
}

// Device allocates GPU resources and orders the work submitted to them.
type Device interface {
	// Allocate a writable floating point surface.
	NewSurface(name string, width, height uint32) (Surface, error)

	// Allocate a read-only buffer sized to fit data and copy data into it.
	// The behavior is undefined if data is not a non-empty slice.
	NewBuffer(name string, data interface{}) (Buffer, error)

	// Block until all previously submitted work completes.
	Finish() error
}

// Shader is the compute program. Parameters are addressed by kernel index and
// name; supported values are types.Mat4, types.Vec2, types.Vec4, uint32,
// float32, Surface, Buffer (nil for an empty buffer) and backend specific
// texture types.
type Shader interface {
	SetParam(kernel int, name string, value interface{}) error

	// Submit a kernel over the given grid of tiles without waiting for it
	// to complete.
	Dispatch(kernel int, groupsX, groupsY, groupsZ uint32) error
}

// The surface a camera renders into.
type RenderTarget interface {
	// Copy src onto the target.
	Blit(src Surface) error
}

// Camera is the host camera that the ray traced image is composited onto.
type Camera interface {
	CameraToWorld() types.Mat4
	InverseProjection() types.Mat4

	// Report whether the camera transform changed since the previous call.
	ConsumeChanged() bool

	// The output resolution in pixels.
	PixelSize() (uint32, uint32)

	// The camera output.
	Target() RenderTarget
}

// Light is the single directional light of the scene.
type Light interface {
	// Packed light direction (xyz) and intensity (w).
	Packed() types.Vec4
}

// RenderContext is passed by the host to rendering callbacks.
type RenderContext struct {
	// Monotonic frame counter maintained by the host.
	Frame uint64
}

// A callback invoked by the host after a camera finishes rendering.
type EndCameraRenderingFunc func(ctx RenderContext, cam Camera)

// Pipeline is implemented by hosts that emit rendering events.
type Pipeline interface {
	// Register fn to run after each camera renders. The returned function
	// removes the registration.
	OnEndCameraRendering(fn EndCameraRenderingFunc) (unregister func())
}
