package tracer

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/achilleasa/skytrace/log"
	"github.com/achilleasa/skytrace/scene"
)

// Limits for the user facing scene settings.
const (
	MaxSphereHint    = 100
	MinSphereOffsetX = -500
	MaxSphereOffsetX = 10
)

// The lifecycle state of a session.
type State uint8

const (
	Inactive State = iota
	SceneReady
	Rendering
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case SceneReady:
		return "scene ready"
	case Rendering:
		return "rendering"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Backend combines the device and the compute program it runs.
type Backend interface {
	Device
	Shader
}

// Session configuration.
type SessionOptions struct {
	// Procedural scene parameters.
	Generator scene.GeneratorOptions

	// Upper bound for the number of spheres the kernel iterates.
	NumSpheres uint32

	// Global X translation applied to the scene.
	SphereOffsetX float32

	Grid GridPolicy

	// Stop dispatching new samples once this many have been accumulated;
	// 0 disables the limit.
	MaxSamples uint32

	// Seed for scene generation and pixel jitter.
	Seed int64

	// The directional light and the backend specific skybox texture.
	Light  Light
	Skybox interface{}
}

// Check session options for errors.
func (o SessionOptions) Validate() error {
	if o.NumSpheres > MaxSphereHint {
		return scene.NewConfigError("sphere count", "must be in [0, %d]; got %d", MaxSphereHint, o.NumSpheres)
	}
	if err := validateSphereOffsetX(o.SphereOffsetX); err != nil {
		return err
	}
	if o.Grid != GridCeil && o.Grid != GridTruncate {
		return scene.NewConfigError("grid policy", "unsupported value %d", o.Grid)
	}
	if o.Light == nil {
		return scene.NewConfigError("light", "a directional light is required")
	}
	return o.Generator.Validate()
}

func validateSphereOffsetX(offset float32) error {
	if offset < MinSphereOffsetX || offset > MaxSphereOffsetX {
		return scene.NewConfigError("sphere offset", "must be in [%d, %d]; got %f", MinSphereOffsetX, MaxSphereOffsetX, offset)
	}
	return nil
}

// Session drives the ray traced rendering of a procedural sphere scene for a
// single camera. It is not safe for concurrent use; all methods are expected
// to be called from the host's render loop.
type Session struct {
	logger log.Logger

	opts      SessionOptions
	backend   Backend
	pipeline  Pipeline
	rng       *rand.Rand
	generator *scene.Generator
	resources *ResourceManager
	tracker   SampleTracker

	state      State
	unregister func()

	// Set when accumulation must restart on the next frame.
	restart bool

	stats FrameStats
}

// Create a new session. Options are validated here so configuration errors
// surface before any rendering takes place.
func NewSession(backend Backend, pipeline Pipeline, opts SessionOptions) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	generator, err := scene.NewGenerator(opts.Generator)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger := log.New("tracer")
	return &Session{
		logger:    logger,
		opts:      opts,
		backend:   backend,
		pipeline:  pipeline,
		rng:       rand.New(rand.NewSource(seed)),
		generator: generator,
		resources: NewResourceManager(backend, logger),
	}, nil
}

// Get the session state.
func (s *Session) State() State {
	return s.state
}

// Get the resource manager.
func (s *Session) Resources() *ResourceManager {
	return s.resources
}

// Get the statistics for the last frame.
func (s *Session) Stats() FrameStats {
	return s.stats
}

// Get the scene generator statistics for the current scene.
func (s *Session) SceneStats() scene.GeneratorStats {
	return s.generator.Stats()
}

// Activate the session: generate the scene, upload it to the device and
// register the composite step with the host pipeline.
func (s *Session) Activate() error {
	if s.state != Inactive {
		return ErrAlreadyActive
	}

	if err := s.regenerateScene(); err != nil {
		s.resources.Release()
		return err
	}

	s.unregister = s.pipeline.OnEndCameraRendering(s.composite)
	s.state = SceneReady
	return nil
}

// Deactivate the session, detach from the host pipeline and release all
// device resources.
func (s *Session) Deactivate() {
	if s.state == Inactive {
		return
	}

	if s.unregister != nil {
		s.unregister()
		s.unregister = nil
	}
	s.resources.Release()
	s.state = Inactive
}

// Regenerate the scene of an active session.
func (s *Session) Invalidate() error {
	if s.state == Inactive {
		return ErrNotActive
	}
	return s.regenerateScene()
}

// Change the global scene translation; accumulation restarts on the next frame.
func (s *Session) SetSphereOffsetX(offset float32) error {
	if err := validateSphereOffsetX(offset); err != nil {
		return err
	}
	if offset != s.opts.SphereOffsetX {
		s.opts.SphereOffsetX = offset
		s.restart = true
	}
	return nil
}

// Get the global scene translation.
func (s *Session) SphereOffsetX() float32 {
	return s.opts.SphereOffsetX
}

// Render a frame for the given camera: make sure the render target matches the
// camera resolution, bind the frame parameters, trace a new sample and blend
// it into the accumulation surface. The submitted work is not waited for.
func (s *Session) RenderFrame(cam Camera) error {
	if s.state == Inactive {
		return ErrNotActive
	}

	width, height := cam.PixelSize()
	target, err := s.resources.EnsureRenderTarget(width, height)
	if err != nil {
		return err
	}

	changed := cam.ConsumeChanged() || s.resources.Reallocated() || s.restart
	s.restart = false

	groupsX, groupsY, groupsZ := s.opts.Grid.Groups(width, height)
	s.stats = FrameStats{
		Width:       width,
		Height:      height,
		GroupsX:     groupsX,
		GroupsY:     groupsY,
		Spheres:     s.numSpheres(),
		Reallocated: s.resources.Reallocated(),
	}
	s.state = Rendering

	if !changed && s.opts.MaxSamples != 0 && s.tracker.Samples() >= s.opts.MaxSamples {
		s.stats.Sample = s.tracker.Samples() - 1
		s.stats.Converged = true
		return nil
	}

	start := time.Now()
	sample := s.tracker.OnFrameStart(changed)
	s.stats.Sample = sample

	params := NewFrameParams(cam, s.opts.Light, s.rng)
	params.NumSpheres = s.stats.Spheres
	params.SphereOffsetX = s.opts.SphereOffsetX
	params.Spheres = s.resources.SceneBuffer()
	params.Skybox = s.opts.Skybox
	params.Result = target

	if err = Bind(s.backend, params); err != nil {
		return err
	}
	if err = s.backend.Dispatch(TraceKernel, groupsX, groupsY, groupsZ); err != nil {
		return err
	}
	if err = s.accumulate(sample, groupsX, groupsY, groupsZ); err != nil {
		return err
	}

	s.stats.SubmitTime = time.Since(start)
	return nil
}

// Blend the traced sample into the accumulation surface using a uniform
// running average.
func (s *Session) accumulate(sample, groupsX, groupsY, groupsZ uint32) error {
	err := s.backend.SetParam(AccumulateKernel, ParamResult, s.resources.Target())
	if err == nil {
		err = s.backend.SetParam(AccumulateKernel, ParamAccumulator, s.resources.Accumulator())
	}
	if err == nil {
		err = s.backend.SetParam(AccumulateKernel, ParamSample, float32(sample))
	}
	if err != nil {
		return err
	}

	return s.backend.Dispatch(AccumulateKernel, groupsX, groupsY, groupsZ)
}

// Composite the accumulated image onto the camera output. This is invoked by
// the host after the camera has rendered so the traced image replaces the
// regular render. Missing resources skip the composite for this frame.
func (s *Session) composite(ctx RenderContext, cam Camera) {
	s.stats.Composited = false

	src := s.resources.Accumulator()
	if src == nil {
		s.logger.Warningf("frame %d: %v; skipping composite", ctx.Frame, ErrResourceUnavailable)
		return
	}

	start := time.Now()
	if err := cam.Target().Blit(src); err != nil {
		s.logger.Errorf("frame %d: composite failed: %v", ctx.Frame, err)
		return
	}
	s.stats.Composited = true
	s.stats.CompositeTime = time.Since(start)
}

func (s *Session) regenerateScene() error {
	spheres := s.generator.Generate(s.rng)
	if _, err := s.resources.UploadScene(spheres); err != nil {
		return err
	}

	stats := s.generator.Stats()
	s.logger.Noticef(
		"generated scene with %d spheres (%d metals, %d rejected candidates)",
		stats.Accepted, stats.Metals, stats.Rejected,
	)

	s.tracker.Reset()
	s.restart = true
	return nil
}

func (s *Session) numSpheres() uint32 {
	count := uint32(s.resources.SphereCount())
	if s.opts.NumSpheres < count {
		return s.opts.NumSpheres
	}
	return count
}
