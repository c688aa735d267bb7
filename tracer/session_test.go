package tracer

import (
	"errors"
	"testing"

	"github.com/achilleasa/skytrace/scene"
)

func testSessionOptions() SessionOptions {
	return SessionOptions{
		Generator: scene.GeneratorOptions{
			MaxSpheres:      100,
			RadiusRange:     [2]float32{3, 8},
			PlacementRadius: 100,
		},
		NumSpheres: 100,
		Seed:       42,
		Light:      fakeLight{},
	}
}

func newTestSession(t *testing.T, opts SessionOptions) (*Session, *fakeBackend, *fakePipeline) {
	backend := newFakeBackend()
	pipeline := newFakePipeline()
	s, err := NewSession(backend, pipeline, opts)
	if err != nil {
		t.Fatal(err)
	}
	return s, backend, pipeline
}

func TestSessionOptionsValidation(t *testing.T) {
	specs := []func(o *SessionOptions){
		func(o *SessionOptions) { o.NumSpheres = 101 },
		func(o *SessionOptions) { o.SphereOffsetX = -501 },
		func(o *SessionOptions) { o.SphereOffsetX = 10.5 },
		func(o *SessionOptions) { o.Grid = GridPolicy(7) },
		func(o *SessionOptions) { o.Light = nil },
		func(o *SessionOptions) { o.Generator.RadiusRange = [2]float32{8, 3} },
	}

	for index, mutate := range specs {
		opts := testSessionOptions()
		mutate(&opts)
		_, err := NewSession(newFakeBackend(), newFakePipeline(), opts)
		if _, isConfigErr := err.(*scene.ConfigError); !isConfigErr {
			t.Fatalf("[spec %d] expected a *scene.ConfigError; got %v", index, err)
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	s, backend, pipeline := newTestSession(t, testSessionOptions())
	cam := &fakeCamera{w: 1366, h: 768}

	if err := s.RenderFrame(cam); err != ErrNotActive {
		t.Fatalf("expected ErrNotActive; got %v", err)
	}

	if err := s.Activate(); err != nil {
		t.Fatal(err)
	}
	if s.State() != SceneReady {
		t.Fatalf("expected state to be %s; got %s", SceneReady, s.State())
	}
	if err := s.Activate(); err != ErrAlreadyActive {
		t.Fatalf("expected ErrAlreadyActive; got %v", err)
	}
	if len(pipeline.hooks) != 1 {
		t.Fatalf("expected 1 registered hook; got %d", len(pipeline.hooks))
	}

	accepted := s.SceneStats().Accepted
	if got := s.Resources().SphereCount(); got != int(accepted) {
		t.Fatalf("expected %d uploaded spheres; got %d", accepted, got)
	}

	for frame := uint32(0); frame < 3; frame++ {
		if err := s.RenderFrame(cam); err != nil {
			t.Fatal(err)
		}
		pipeline.endCamera(cam)

		stats := s.Stats()
		if stats.Sample != frame {
			t.Fatalf("expected frame %d to render sample %d; got %d", frame, frame, stats.Sample)
		}
		if !stats.Composited {
			t.Fatalf("expected frame %d to be composited", frame)
		}
	}
	if s.State() != Rendering {
		t.Fatalf("expected state to be %s; got %s", Rendering, s.State())
	}

	// Each frame dispatches the trace and the accumulate kernels over a
	// ceil-rounded grid.
	if len(backend.dispatches) != 6 {
		t.Fatalf("expected 6 dispatches; got %d", len(backend.dispatches))
	}
	for index, call := range backend.dispatches {
		expKernel := TraceKernel
		if index%2 == 1 {
			expKernel = AccumulateKernel
		}
		if call.kernel != expKernel || call.groupsX != 171 || call.groupsY != 96 || call.groupsZ != 1 {
			t.Fatalf("[dispatch %d] unexpected call %+v", index, call)
		}
	}
	if got := backend.params[AccumulateKernel][ParamSample]; got != float32(2) {
		t.Fatalf("expected last accumulated sample to be 2; got %v", got)
	}
	if len(cam.target.blits) != 3 || cam.target.blits[2] != s.Resources().Accumulator() {
		t.Fatal("expected the accumulation surface to be blitted onto the camera target every frame")
	}
	if got := s.Resources().Reallocations(); got != 1 {
		t.Fatalf("expected the render target to be allocated once; got %d", got)
	}

	s.Deactivate()
	if s.State() != Inactive {
		t.Fatalf("expected state to be %s; got %s", Inactive, s.State())
	}
	if len(pipeline.hooks) != 0 {
		t.Fatal("expected hook to be unregistered")
	}
	if backend.liveSurfaces() != 0 || s.Resources().SceneBuffer() != nil {
		t.Fatal("expected all resources to be released")
	}

	// Composite requests after teardown are ignored
	pipeline.endCamera(cam)
	if len(cam.target.blits) != 3 {
		t.Fatal("expected no blits after deactivation")
	}

	// Reactivation regenerates the scene and restarts accumulation
	if err := s.Activate(); err != nil {
		t.Fatal(err)
	}
	if err := s.RenderFrame(cam); err != nil {
		t.Fatal(err)
	}
	if s.Stats().Sample != 0 {
		t.Fatalf("expected sample 0 after reactivation; got %d", s.Stats().Sample)
	}
	if len(backend.buffers) != 2 {
		t.Fatalf("expected scene to be uploaded twice; got %d", len(backend.buffers))
	}
	s.Deactivate()
}

func TestSessionRestartsAccumulation(t *testing.T) {
	s, _, _ := newTestSession(t, testSessionOptions())
	cam := &fakeCamera{w: 64, h: 64}
	if err := s.Activate(); err != nil {
		t.Fatal(err)
	}
	defer s.Deactivate()

	render := func(expSample uint32) {
		t.Helper()
		if err := s.RenderFrame(cam); err != nil {
			t.Fatal(err)
		}
		if got := s.Stats().Sample; got != expSample {
			t.Fatalf("expected sample %d; got %d", expSample, got)
		}
	}

	render(0)
	render(1)

	// Camera moved
	cam.changed = true
	render(0)
	render(1)

	// Resize
	cam.w, cam.h = 32, 32
	render(0)
	if !s.Stats().Reallocated {
		t.Fatal("expected render target to be reallocated")
	}
	render(1)

	// Offset change
	if err := s.SetSphereOffsetX(-100); err != nil {
		t.Fatal(err)
	}
	render(0)

	// Same offset is a no-op
	if err := s.SetSphereOffsetX(-100); err != nil {
		t.Fatal(err)
	}
	render(1)

	// Regenerate
	if err := s.Invalidate(); err != nil {
		t.Fatal(err)
	}
	render(0)

	if err := s.SetSphereOffsetX(20); err == nil {
		t.Fatal("expected an error for an out of range offset")
	}
}

func TestSessionMaxSamples(t *testing.T) {
	opts := testSessionOptions()
	opts.MaxSamples = 2
	s, backend, pipeline := newTestSession(t, opts)
	cam := &fakeCamera{w: 16, h: 16}
	if err := s.Activate(); err != nil {
		t.Fatal(err)
	}
	defer s.Deactivate()

	for frame := 0; frame < 4; frame++ {
		if err := s.RenderFrame(cam); err != nil {
			t.Fatal(err)
		}
		pipeline.endCamera(cam)
	}

	if len(backend.dispatches) != 4 {
		t.Fatalf("expected dispatches to stop after 2 samples; got %d dispatches", len(backend.dispatches))
	}
	stats := s.Stats()
	if !stats.Converged || stats.Sample != 1 {
		t.Fatalf("expected converged stats at sample 1; got %+v", stats)
	}
	if len(cam.target.blits) != 4 {
		t.Fatal("expected converged frames to still be composited")
	}

	cam.changed = true
	if err := s.RenderFrame(cam); err != nil {
		t.Fatal(err)
	}
	if s.Stats().Converged || s.Stats().Sample != 0 {
		t.Fatalf("expected a camera change to restart accumulation; got %+v", s.Stats())
	}
}

func TestSessionNumSpheresHint(t *testing.T) {
	opts := testSessionOptions()
	opts.NumSpheres = 1
	s, backend, _ := newTestSession(t, opts)
	cam := &fakeCamera{w: 16, h: 16}
	if err := s.Activate(); err != nil {
		t.Fatal(err)
	}
	defer s.Deactivate()

	if err := s.RenderFrame(cam); err != nil {
		t.Fatal(err)
	}
	if got := backend.params[TraceKernel][ParamNumSpheres]; got != uint32(1) {
		t.Fatalf("expected sphere count to be clamped to the hint; got %v", got)
	}
}

func TestSessionEmptyScene(t *testing.T) {
	opts := testSessionOptions()
	opts.Generator.MaxSpheres = 0
	s, backend, pipeline := newTestSession(t, opts)
	cam := &fakeCamera{w: 16, h: 16}
	if err := s.Activate(); err != nil {
		t.Fatal(err)
	}
	defer s.Deactivate()

	if err := s.RenderFrame(cam); err != nil {
		t.Fatal(err)
	}
	pipeline.endCamera(cam)

	if got := backend.params[TraceKernel][ParamNumSpheres]; got != uint32(0) {
		t.Fatalf("expected sphere count 0; got %v", got)
	}
	if got := backend.params[TraceKernel][ParamSpheres]; got != Buffer(nil) {
		t.Fatalf("expected no scene buffer to be bound; got %v", got)
	}
	if !s.Stats().Composited {
		t.Fatal("expected empty scene to be composited")
	}
}

func TestSessionCompositeWithoutTarget(t *testing.T) {
	s, _, pipeline := newTestSession(t, testSessionOptions())
	cam := &fakeCamera{w: 16, h: 16}
	if err := s.Activate(); err != nil {
		t.Fatal(err)
	}
	defer s.Deactivate()

	// No frame rendered yet so no accumulation surface exists
	pipeline.endCamera(cam)
	if len(cam.target.blits) != 0 || s.Stats().Composited {
		t.Fatal("expected composite to be skipped")
	}
}

func TestSessionAllocationFailure(t *testing.T) {
	s, backend, _ := newTestSession(t, testSessionOptions())
	backend.failSurfaces = true
	if err := s.Activate(); err != nil {
		t.Fatal(err)
	}
	defer s.Deactivate()

	err := s.RenderFrame(&fakeCamera{w: 16, h: 16})
	if !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("expected ErrResourceExhausted; got %v", err)
	}
}
