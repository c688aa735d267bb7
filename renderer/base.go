package renderer

import (
	"time"

	"github.com/achilleasa/skytrace/log"
	"github.com/achilleasa/skytrace/tracer"
)

// baseRenderer drives a tracing session for a single camera and emulates the
// host pipeline: the session renders, the host renders the camera and then
// notifies end-of-camera observers which composite the traced image.
type baseRenderer struct {
	logger log.Logger

	options Options
	session *tracer.Session
	hooks   Hooks
	camera  *hostCamera

	// Invoked after the session renders and before observers are notified.
	renderCamera func()

	frame uint64
	stats FrameStats
}

func newBaseRenderer(backend tracer.Backend, skybox interface{}, opts Options, target tracer.RenderTarget) (*baseRenderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r := &baseRenderer{
		logger:  log.New("renderer"),
		options: opts,
		camera:  newHostCamera(opts, target),
	}

	var err error
	r.session, err = tracer.NewSession(backend, &r.hooks, opts.sessionOptions(nil, skybox))
	if err != nil {
		return nil, err
	}

	if err = r.session.Activate(); err != nil {
		return nil, err
	}

	return r, nil
}

// Render a single frame.
func (r *baseRenderer) renderFrame() error {
	start := time.Now()

	if err := r.session.RenderFrame(r.camera); err != nil {
		return err
	}

	if r.renderCamera != nil {
		r.renderCamera()
	}
	r.hooks.EndCameraRendering(tracer.RenderContext{Frame: r.frame}, r.camera)

	r.stats = FrameStats{
		FrameStats: r.session.Stats(),
		Frame:      r.frame,
		Scene:      r.session.SceneStats(),
		RenderTime: time.Since(start),
	}
	r.frame++

	return nil
}

// Get statistics for the last rendered frame.
func (r *baseRenderer) Stats() FrameStats {
	return r.stats
}

// Deactivate the session and release its device resources.
func (r *baseRenderer) Close() {
	if r.session != nil {
		r.session.Deactivate()
	}
}
