package opencl

import (
	_ "embed"
	"fmt"

	"github.com/achilleasa/gopencl/v1.2/cl"
	"github.com/achilleasa/skytrace/asset/texture"
	"github.com/achilleasa/skytrace/log"
	"github.com/achilleasa/skytrace/tracer"
	"github.com/achilleasa/skytrace/tracer/opencl/device"
	"github.com/achilleasa/skytrace/types"
)

//go:embed CL/raytrace.cl
var programSource string

// Backend runs the ray tracing program on an opencl device. It implements
// tracer.Device and tracer.Shader.
type Backend struct {
	logger log.Logger

	device  *device.Device
	kernels []*device.Kernel

	// Uploaded textures keyed by name.
	textures map[string]*Texture

	// Bound when no skybox texture is supplied.
	defaultSkybox *Texture
}

// Initialize the device, build the ray tracing program and load its kernels.
func NewBackend(dev *device.Device) (*Backend, error) {
	b := &Backend{
		logger:   log.New(fmt.Sprintf("opencl (%s)", dev.Name)),
		device:   dev,
		textures: make(map[string]*Texture),
	}

	if err := dev.Init(programSource); err != nil {
		return nil, err
	}

	b.kernels = make([]*device.Kernel, numKernels)
	for kType := kernelType(0); kType < numKernels; kType++ {
		kernel, err := dev.Kernel(kType.String())
		if err != nil {
			b.Close()
			return nil, err
		}
		b.kernels[kType] = kernel
	}

	sky := texture.Gradient(
		64, 32,
		types.XYZ(0.35, 0.3, 0.25),
		types.XYZ(0.9, 0.9, 0.95),
		types.XYZ(0.3, 0.5, 0.9),
	)
	var err error
	if b.defaultSkybox, err = b.UploadTexture(sky); err != nil {
		b.Close()
		return nil, err
	}

	b.logger.Noticef("initialized device %s (%d compute units)", dev.Name, dev.ComputeUnits())
	return b, nil
}

// Get the device name.
func (b *Backend) Name() string {
	return b.device.Name
}

// Allocate a zero-initialized float4 surface.
func (b *Backend) NewSurface(name string, width, height uint32) (tracer.Surface, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("opencl tracer: invalid surface %s dimensions %dx%d", name, width, height)
	}

	buf := b.device.Buffer(name)
	if err := buf.AllocateZeroed(int(width*height*sizeofTexel), cl.MEM_READ_WRITE); err != nil {
		return nil, err
	}

	return &Surface{buffer: buf, width: width, height: height}, nil
}

// Allocate a read-only buffer and copy data to it.
func (b *Backend) NewBuffer(name string, data interface{}) (tracer.Buffer, error) {
	buf := b.device.Buffer(name)
	if err := buf.AllocateAndWriteData(data, cl.MEM_READ_ONLY); err != nil {
		return nil, err
	}
	return buf, nil
}

// Upload a texture to the device. Textures are cached by name; uploading a
// texture with a name that was already uploaded returns the cached copy.
func (b *Backend) UploadTexture(tex *texture.Texture) (*Texture, error) {
	if cached, found := b.textures[tex.Name]; found {
		return cached, nil
	}

	if tex.Width == 0 || tex.Height == 0 || len(tex.Data) != int(tex.Width*tex.Height*4) {
		return nil, fmt.Errorf("%w: %s (%dx%d, %d floats)", ErrInvalidTexture, tex.Name, tex.Width, tex.Height, len(tex.Data))
	}

	buf := b.device.Buffer(tex.Name)
	if err := buf.AllocateAndWriteData(tex.Data, cl.MEM_READ_ONLY); err != nil {
		return nil, err
	}

	uploaded := &Texture{
		Surface: Surface{buffer: buf, width: tex.Width, height: tex.Height},
		name:    tex.Name,
	}
	b.textures[tex.Name] = uploaded
	b.logger.Infof("uploaded texture %s (%dx%d)", tex.Name, tex.Width, tex.Height)

	return uploaded, nil
}

// Block until all submitted kernels complete.
func (b *Backend) Finish() error {
	return b.device.Finish()
}

// Bind a named parameter to a kernel argument. Surfaces and textures expand to
// the (buffer, width, height) argument triplet expected by the kernels.
func (b *Backend) SetParam(kernel int, name string, value interface{}) error {
	slot, found := lookupParam(kernel, name)
	if !found {
		return fmt.Errorf("%w: %s for kernel %d", tracer.ErrUnsupportedParam, name, kernel)
	}
	if b.kernels == nil {
		return ErrBackendClosed
	}

	k := b.kernels[kernel]
	switch slot.kind {
	case imageParam:
		surface, err := b.imageArg(name, value)
		if err != nil {
			return err
		}
		return k.SetArgsAt(slot.index, surface.buffer, surface.width, surface.height)
	case bufferParam:
		buf, err := bufferArg(name, value)
		if err != nil {
			return err
		}
		return k.SetArg(slot.index, buf)
	default:
		return k.SetArg(slot.index, value)
	}
}

func (b *Backend) imageArg(name string, value interface{}) (*Surface, error) {
	var surface *Surface
	switch v := value.(type) {
	case *Surface:
		surface = v
	case *Texture:
		if v != nil {
			surface = &v.Surface
		}
	case nil:
	default:
		return nil, fmt.Errorf("%w: %s (%T)", ErrForeignResource, name, value)
	}

	if surface == nil || surface.buffer == nil {
		if name != tracer.ParamSkyboxTexture {
			return nil, fmt.Errorf("%w: %s", tracer.ErrResourceUnavailable, name)
		}
		surface = &b.defaultSkybox.Surface
	}
	return surface, nil
}

func bufferArg(name string, value interface{}) (*device.Buffer, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *device.Buffer:
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s (%T)", ErrForeignResource, name, value)
}

// Enqueue a kernel over a grid of TileSize x TileSize work groups. The call
// returns as soon as the kernel is queued.
func (b *Backend) Dispatch(kernel int, groupsX, groupsY, groupsZ uint32) error {
	if kernel < 0 || kernel >= int(numKernels) {
		return fmt.Errorf("%w: %d", ErrUnknownKernel, kernel)
	}
	if b.kernels == nil {
		return ErrBackendClosed
	}
	if groupsX == 0 || groupsY == 0 || groupsZ == 0 {
		return nil
	}

	return b.kernels[kernel].Enqueue2D(
		0, 0,
		int(groupsX*tracer.TileSize), int(groupsY*tracer.TileSize),
		tracer.TileSize, tracer.TileSize,
	)
}

// Wait for pending work and release all kernels, textures and the device.
// Surfaces and buffers handed out by the backend must be released first.
func (b *Backend) Close() {
	if err := b.device.Finish(); err != nil {
		b.logger.Warningf("error waiting for pending device work: %v", err)
	}

	for name, tex := range b.textures {
		tex.Release()
		delete(b.textures, name)
	}
	b.defaultSkybox = nil

	for _, kernel := range b.kernels {
		if kernel != nil {
			kernel.Release()
		}
	}
	b.kernels = nil

	b.device.Close()
}
