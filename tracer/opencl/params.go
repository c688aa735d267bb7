package opencl

import "github.com/achilleasa/skytrace/tracer"

type paramKind uint8

const (
	// A value passed by copy.
	scalarParam paramKind = iota

	// A global buffer pointer; nil binds NULL.
	bufferParam

	// A float4 image passed as (buffer, width, height).
	imageParam
)

// The position of a named parameter in a kernel's argument list.
type paramSlot struct {
	index uint32
	kind  paramKind
}

// Argument layouts; these must match the kernel signatures in CL/raytrace.cl.
var paramLayouts = [numKernels]map[string]paramSlot{
	csMain: {
		tracer.ParamResult:            {0, imageParam},
		tracer.ParamCameraToWorld:     {3, scalarParam},
		tracer.ParamInverseProjection: {4, scalarParam},
		tracer.ParamSkyboxTexture:     {5, imageParam},
		tracer.ParamPixelOffset:       {8, scalarParam},
		tracer.ParamNumSpheres:        {9, scalarParam},
		tracer.ParamSphereOffsetX:     {10, scalarParam},
		tracer.ParamDirectionalLight:  {11, scalarParam},
		tracer.ParamSpheres:           {12, bufferParam},
	},
	accumulate: {
		tracer.ParamResult:      {0, imageParam},
		tracer.ParamAccumulator: {3, imageParam},
		tracer.ParamSample:      {6, scalarParam},
	},
}

// Look up the argument slot for a named kernel parameter.
func lookupParam(kernel int, name string) (paramSlot, bool) {
	if kernel < 0 || kernel >= int(numKernels) {
		return paramSlot{}, false
	}
	slot, found := paramLayouts[kernel][name]
	return slot, found
}

// Get the number of arguments a kernel expects.
func argCount(kernel kernelType) uint32 {
	var count uint32
	for _, slot := range paramLayouts[kernel] {
		end := slot.index + 1
		if slot.kind == imageParam {
			end += 2
		}
		if end > count {
			count = end
		}
	}
	return count
}
