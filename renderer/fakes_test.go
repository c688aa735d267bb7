package renderer

import (
	"errors"

	"github.com/achilleasa/skytrace/tracer"
)

// fakeSurface fills ReadPixels with a constant color.
type fakeSurface struct {
	w, h     uint32
	pixels   []float32
	released bool
}

func (s *fakeSurface) Width() uint32  { return s.w }
func (s *fakeSurface) Height() uint32 { return s.h }
func (s *fakeSurface) Release()       { s.released = true }
func (s *fakeSurface) ReadPixels(dst []float32) error {
	if s.released {
		return errors.New("surface released")
	}
	if s.pixels != nil {
		copy(dst, s.pixels)
		return nil
	}
	for i := range dst {
		dst[i] = 0.5
	}
	return nil
}

type fakeBuffer struct{}

func (fakeBuffer) Size() int { return 0 }
func (fakeBuffer) Release()  {}

type fakeBackend struct {
	dispatches int
	finished   int
}

func (b *fakeBackend) NewSurface(name string, width, height uint32) (tracer.Surface, error) {
	return &fakeSurface{w: width, h: height}, nil
}

func (b *fakeBackend) NewBuffer(name string, data interface{}) (tracer.Buffer, error) {
	return fakeBuffer{}, nil
}

func (b *fakeBackend) Finish() error {
	b.finished++
	return nil
}

func (b *fakeBackend) SetParam(kernel int, name string, value interface{}) error {
	return nil
}

func (b *fakeBackend) Dispatch(kernel int, groupsX, groupsY, groupsZ uint32) error {
	b.dispatches++
	return nil
}
