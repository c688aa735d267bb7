package opencl

import (
	"fmt"

	"github.com/achilleasa/skytrace/tracer"
)

type kernelType uint8

// The list of kernels that implement the tracer. The order matches the kernel
// indices used by tracer.Shader callers.
const (
	csMain     kernelType = tracer.TraceKernel
	accumulate kernelType = tracer.AccumulateKernel
	//
	numKernels
)

// Implements Stringer; map kernel type to the kernel name as defined in the CL source files.
func (kt kernelType) String() string {
	switch kt {
	case csMain:
		return "CSMain"
	case accumulate:
		return "accumulate"
	default:
		panic(fmt.Sprintf("Unsupported kernel type: %d", kt))
	}
}
