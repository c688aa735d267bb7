package renderer

import "errors"

var (
	ErrNoDevice    = errors.New("renderer: no opencl device matched the selection criteria")
	ErrInterrupted = errors.New("renderer: interrupted while rendering")
)
