package tracer

import (
	"math/rand"
	"testing"

	"github.com/achilleasa/skytrace/types"
)

func TestJitterRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	prev := Jitter(rng)
	for i := 0; i < 1000; i++ {
		offset := Jitter(rng)
		for _, v := range offset {
			if v < 0 || v >= 1 {
				t.Fatalf("expected jitter components to be in [0, 1); got %v", offset)
			}
		}
		if offset == prev {
			t.Fatalf("expected jitter to change between frames; got %v twice", offset)
		}
		prev = offset
	}
}

func TestBind(t *testing.T) {
	backend := newFakeBackend()
	cam := &fakeCamera{w: 32, h: 32}
	result := &fakeSurface{w: 32, h: 32}
	spheres := &fakeBuffer{size: 80}

	params := NewFrameParams(cam, fakeLight{}, rand.New(rand.NewSource(1)))
	params.NumSpheres = 2
	params.SphereOffsetX = -20
	params.Spheres = spheres
	params.Skybox = "skybox"
	params.Result = result

	if err := Bind(backend, params); err != nil {
		t.Fatal(err)
	}

	bound := backend.params[TraceKernel]
	expParams := map[string]interface{}{
		ParamCameraToWorld:     types.Ident4(),
		ParamInverseProjection: types.Ident4(),
		ParamSkyboxTexture:     "skybox",
		ParamPixelOffset:       params.PixelOffset,
		ParamDirectionalLight:  types.XYZW(0, -1, 0, 1),
		ParamNumSpheres:        uint32(2),
		ParamSphereOffsetX:     float32(-20),
	}
	for name, exp := range expParams {
		if got := bound[name]; got != exp {
			t.Fatalf("expected param %s to be %v; got %v", name, exp, got)
		}
	}
	if bound[ParamSpheres] != Buffer(spheres) {
		t.Fatal("expected spheres param to be bound to the scene buffer")
	}
	if bound[ParamResult] != Surface(result) {
		t.Fatal("expected Result param to be bound to the render target")
	}
	if len(backend.params[AccumulateKernel]) != 0 {
		t.Fatal("expected no params to be bound to the accumulate kernel")
	}
}
