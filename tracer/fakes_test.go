package tracer

import (
	"errors"
	"fmt"

	"github.com/achilleasa/skytrace/scene"
	"github.com/achilleasa/skytrace/types"
)

type fakeSurface struct {
	name     string
	w, h     uint32
	released bool
}

func (s *fakeSurface) Width() uint32  { return s.w }
func (s *fakeSurface) Height() uint32 { return s.h }
func (s *fakeSurface) Release()       { s.released = true }
func (s *fakeSurface) ReadPixels(dst []float32) error {
	if s.released {
		return errors.New("surface released")
	}
	return nil
}

type fakeBuffer struct {
	size     int
	released bool
}

func (b *fakeBuffer) Size() int { return b.size }
func (b *fakeBuffer) Release()  { b.released = true }

type dispatchCall struct {
	kernel                    int
	groupsX, groupsY, groupsZ uint32
}

// fakeBackend records allocations, parameters and dispatches.
type fakeBackend struct {
	surfaces []*fakeSurface
	buffers  []*fakeBuffer

	failSurfaces bool
	failBuffers  bool

	finishCalls int
	params      []map[string]interface{}
	dispatches  []dispatchCall
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		params: []map[string]interface{}{{}, {}},
	}
}

func (d *fakeBackend) NewSurface(name string, width, height uint32) (Surface, error) {
	if d.failSurfaces {
		return nil, errors.New("out of memory")
	}
	s := &fakeSurface{name: name, w: width, h: height}
	d.surfaces = append(d.surfaces, s)
	return s, nil
}

func (d *fakeBackend) NewBuffer(name string, data interface{}) (Buffer, error) {
	if d.failBuffers {
		return nil, errors.New("out of memory")
	}
	spheres, ok := data.([]scene.Sphere)
	if !ok {
		return nil, fmt.Errorf("unexpected buffer data %T", data)
	}
	b := &fakeBuffer{size: len(spheres) * scene.SphereStride}
	d.buffers = append(d.buffers, b)
	return b, nil
}

func (d *fakeBackend) Finish() error {
	d.finishCalls++
	return nil
}

func (d *fakeBackend) SetParam(kernel int, name string, value interface{}) error {
	d.params[kernel][name] = value
	return nil
}

func (d *fakeBackend) Dispatch(kernel int, groupsX, groupsY, groupsZ uint32) error {
	d.dispatches = append(d.dispatches, dispatchCall{kernel, groupsX, groupsY, groupsZ})
	return nil
}

func (d *fakeBackend) liveSurfaces() int {
	live := 0
	for _, s := range d.surfaces {
		if !s.released {
			live++
		}
	}
	return live
}

type fakeTarget struct {
	blits []Surface
}

func (t *fakeTarget) Blit(src Surface) error {
	t.blits = append(t.blits, src)
	return nil
}

type fakeCamera struct {
	w, h    uint32
	changed bool
	target  fakeTarget
}

func (c *fakeCamera) CameraToWorld() types.Mat4     { return types.Ident4() }
func (c *fakeCamera) InverseProjection() types.Mat4 { return types.Ident4() }
func (c *fakeCamera) PixelSize() (uint32, uint32)   { return c.w, c.h }
func (c *fakeCamera) Target() RenderTarget          { return &c.target }
func (c *fakeCamera) ConsumeChanged() bool {
	changed := c.changed
	c.changed = false
	return changed
}

type fakeLight struct{}

func (fakeLight) Packed() types.Vec4 { return types.XYZW(0, -1, 0, 1) }

type fakePipeline struct {
	hooks map[int]EndCameraRenderingFunc
	next  int
	frame uint64
}

func newFakePipeline() *fakePipeline {
	return &fakePipeline{hooks: make(map[int]EndCameraRenderingFunc)}
}

func (p *fakePipeline) OnEndCameraRendering(fn EndCameraRenderingFunc) func() {
	id := p.next
	p.next++
	p.hooks[id] = fn
	return func() { delete(p.hooks, id) }
}

func (p *fakePipeline) endCamera(cam Camera) {
	for _, fn := range p.hooks {
		fn(RenderContext{Frame: p.frame}, cam)
	}
	p.frame++
}
