package renderer

import "github.com/achilleasa/skytrace/tracer"

// Hooks is a registry of rendering event observers. Observers run in
// registration order.
type Hooks struct {
	nextId    int
	endCamera []endCameraHook
}

type endCameraHook struct {
	id int
	fn tracer.EndCameraRenderingFunc
}

// Register fn to run after a camera renders. Calling the returned function
// removes the registration; calling it more than once is a no-op.
func (h *Hooks) OnEndCameraRendering(fn tracer.EndCameraRenderingFunc) func() {
	id := h.nextId
	h.nextId++
	h.endCamera = append(h.endCamera, endCameraHook{id: id, fn: fn})

	return func() {
		for index, hook := range h.endCamera {
			if hook.id == id {
				h.endCamera = append(h.endCamera[:index], h.endCamera[index+1:]...)
				return
			}
		}
	}
}

// Notify observers that cam finished rendering.
func (h *Hooks) EndCameraRendering(ctx tracer.RenderContext, cam tracer.Camera) {
	// Observers may unregister while being notified
	hooks := append([]endCameraHook(nil), h.endCamera...)
	for _, hook := range hooks {
		hook.fn(ctx, cam)
	}
}

// Get the number of registered observers.
func (h *Hooks) Len() int {
	return len(h.endCamera)
}
