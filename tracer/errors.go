package tracer

import "errors"

var (
	ErrResourceUnavailable = errors.New("tracer: render resources are not allocated")
	ErrResourceExhausted   = errors.New("tracer: device resource allocation failed")
	ErrNotActive           = errors.New("tracer: session is not active")
	ErrAlreadyActive       = errors.New("tracer: session is already active")
	ErrUnsupportedParam    = errors.New("tracer: unsupported kernel parameter")
)
