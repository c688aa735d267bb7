package tracer

// SampleTracker counts the samples accumulated while the camera and the scene
// stay unchanged.
type SampleTracker struct {
	next uint32
}

// Advance the tracker at the start of a frame and return the index of the
// sample being rendered. A transform change restarts the count at zero.
func (st *SampleTracker) OnFrameStart(transformChanged bool) uint32 {
	if transformChanged {
		st.next = 0
	}
	index := st.next
	st.next++
	return index
}

// Restart the count; the next frame renders sample 0.
func (st *SampleTracker) Reset() {
	st.next = 0
}

// Get the number of samples accumulated so far.
func (st *SampleTracker) Samples() uint32 {
	return st.next
}

// The blend weight of a new sample in a uniform running average.
func Weight(sampleIndex uint32) float32 {
	return 1.0 / float32(sampleIndex+1)
}
