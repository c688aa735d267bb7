package renderer

type Renderer interface {
	// Render until the renderer completes or is closed.
	Render() error

	// Shutdown renderer and release all device resources.
	Close()

	// Get statistics for the last rendered frame.
	Stats() FrameStats
}
