package tracer

import (
	"fmt"

	"github.com/achilleasa/skytrace/log"
	"github.com/achilleasa/skytrace/scene"
)

// ResourceManager owns the device resources used for rendering: the render
// target, the accumulation surface that shares its dimensions, and the scene
// buffer. At most one instance of each is live at any time and callers only
// ever receive handles.
type ResourceManager struct {
	logger log.Logger
	device Device

	target      Surface
	accumulator Surface

	sceneBuffer Buffer
	sphereCount int

	reallocated   bool
	reallocations int
}

// Create a resource manager that allocates resources on the given device.
func NewResourceManager(device Device, logger log.Logger) *ResourceManager {
	return &ResourceManager{
		logger: logger,
		device: device,
	}
}

// Ensure that a render target with the given dimensions is allocated. An
// existing target is reused when its dimensions match; otherwise it is
// released and a new target is allocated.
func (rm *ResourceManager) EnsureRenderTarget(width, height uint32) (Surface, error) {
	rm.reallocated = false
	if rm.target != nil && rm.target.Width() == width && rm.target.Height() == height {
		return rm.target, nil
	}

	rm.releaseTargets()

	var err error
	rm.target, err = rm.device.NewSurface("result", width, height)
	if err != nil {
		rm.target = nil
		return nil, fmt.Errorf("%w: render target %dx%d: %v", ErrResourceExhausted, width, height, err)
	}

	rm.accumulator, err = rm.device.NewSurface("accumulator", width, height)
	if err != nil {
		rm.releaseTargets()
		return nil, fmt.Errorf("%w: accumulation surface %dx%d: %v", ErrResourceExhausted, width, height, err)
	}

	rm.reallocated = true
	rm.reallocations++
	rm.logger.Infof("render target is created (%dx%d)", width, height)

	return rm.target, nil
}

// Returns true if the last EnsureRenderTarget call allocated a new target.
func (rm *ResourceManager) Reallocated() bool {
	return rm.reallocated
}

// Get the number of render target allocations performed so far.
func (rm *ResourceManager) Reallocations() int {
	return rm.reallocations
}

// Replace the scene buffer with a new one containing the given spheres. An
// empty sphere list releases the buffer without allocating a new one.
func (rm *ResourceManager) UploadScene(spheres []scene.Sphere) (Buffer, error) {
	rm.releaseSceneBuffer()

	if len(spheres) == 0 {
		return nil, nil
	}

	buf, err := rm.device.NewBuffer("spheres", spheres)
	if err != nil {
		return nil, fmt.Errorf("%w: scene buffer for %d spheres: %v", ErrResourceExhausted, len(spheres), err)
	}

	rm.sceneBuffer = buf
	rm.sphereCount = len(spheres)
	rm.logger.Infof("uploaded %d spheres (%d bytes)", len(spheres), buf.Size())

	return buf, nil
}

// Get the current render target or nil if none is allocated.
func (rm *ResourceManager) Target() Surface {
	return rm.target
}

// Get the current accumulation surface or nil if none is allocated.
func (rm *ResourceManager) Accumulator() Surface {
	return rm.accumulator
}

// Get the current scene buffer or nil if no spheres are uploaded.
func (rm *ResourceManager) SceneBuffer() Buffer {
	return rm.sceneBuffer
}

// Get the number of spheres in the scene buffer.
func (rm *ResourceManager) SphereCount() int {
	return rm.sphereCount
}

// Get the scene buffer size in bytes.
func (rm *ResourceManager) SceneBufferSize() int {
	if rm.sceneBuffer == nil {
		return 0
	}
	return rm.sceneBuffer.Size()
}

// Release all resources. It is safe to call Release when nothing is allocated.
func (rm *ResourceManager) Release() {
	rm.releaseTargets()
	rm.releaseSceneBuffer()
}

func (rm *ResourceManager) releaseTargets() {
	if rm.target == nil && rm.accumulator == nil {
		return
	}

	rm.waitForDevice()
	if rm.target != nil {
		rm.target.Release()
		rm.target = nil
	}
	if rm.accumulator != nil {
		rm.accumulator.Release()
		rm.accumulator = nil
	}
}

func (rm *ResourceManager) releaseSceneBuffer() {
	if rm.sceneBuffer == nil {
		rm.sphereCount = 0
		return
	}

	rm.waitForDevice()
	rm.sceneBuffer.Release()
	rm.sceneBuffer = nil
	rm.sphereCount = 0
}

// Queued kernels may still reference the resources that are about to be
// released.
func (rm *ResourceManager) waitForDevice() {
	if err := rm.device.Finish(); err != nil {
		rm.logger.Warningf("error waiting for pending device work: %v", err)
	}
}
