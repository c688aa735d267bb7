package opencl

import "errors"

var (
	ErrUnknownKernel   = errors.New("opencl tracer: unknown kernel index")
	ErrForeignResource = errors.New("opencl tracer: resource was not allocated by this backend")
	ErrInvalidTexture  = errors.New("opencl tracer: texture dimensions do not match its data")
	ErrBackendClosed   = errors.New("opencl tracer: backend is closed")
)
