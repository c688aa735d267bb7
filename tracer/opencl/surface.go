package opencl

import (
	"fmt"

	"github.com/achilleasa/skytrace/tracer/opencl/device"
)

const sizeofTexel = 16 // float4

// A float4 image backed by a device buffer. Kernels receive the buffer along
// with the image dimensions.
type Surface struct {
	buffer *device.Buffer
	width  uint32
	height uint32
}

func (s *Surface) Width() uint32 {
	return s.width
}

func (s *Surface) Height() uint32 {
	return s.height
}

// Read back the surface contents. dst must hold at least width*height*4 floats.
func (s *Surface) ReadPixels(dst []float32) error {
	if s.buffer == nil {
		return ErrBackendClosed
	}
	if need := int(s.width * s.height * 4); len(dst) < need {
		return fmt.Errorf("opencl tracer: read buffer for surface %s holds %d floats; need %d", s.buffer.Name(), len(dst), need)
	}
	return s.buffer.ReadData(0, 0, 0, dst)
}

func (s *Surface) Release() {
	if s.buffer != nil {
		s.buffer.Release()
		s.buffer = nil
	}
}

// A read-only float4 texture.
type Texture struct {
	Surface
	name string
}

// Get the name of the source image.
func (t *Texture) Name() string {
	return t.name
}
