package device

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/achilleasa/gopencl/v1.2/cl"
	"github.com/achilleasa/skytrace/types"
)

// A wrapper around opencl kernelHandles.
type Kernel struct {
	device       *Device
	kernelHandle cl.Kernel
	name         string

	// kernelHandle workgroup sizes and offsets
	offsets         [2]uint64
	globalWorkSizes [2]uint64
	localWorkSizes  [2]uint64
}

// Get the kernel name.
func (k *Kernel) Name() string {
	return k.name
}

// Free any allocated resources used by this kernel.
func (k *Kernel) Release() {
	if k.kernelHandle != nil {
		cl.ReleaseKernel(k.kernelHandle)
		k.kernelHandle = nil
	}
}

// Bind arguments to kernelHandle starting at index 0.
func (k *Kernel) SetArgs(args ...interface{}) error {
	return k.SetArgsAt(0, args...)
}

// Bind arguments to consecutive kernelHandle arguments starting at firstIndex.
func (k *Kernel) SetArgsAt(firstIndex uint32, args ...interface{}) error {
	for argOffset, arg := range args {
		if err := k.SetArg(firstIndex+uint32(argOffset), arg); err != nil {
			return err
		}
	}

	return nil
}

// Bind a single argument to kernelHandle. A nil *Buffer binds a NULL global
// pointer.
func (k *Kernel) SetArg(argIndex uint32, arg interface{}) error {
	var errCode cl.ErrorCode

	// We can't use the captured type from the switch
	// like switch t := arg.(type) as we get back an
	// interface and we need to obtain a pointer to the underlying data.
	switch arg.(type) {
	case *Buffer:
		var bufHandle cl.Mem
		if buf := arg.(*Buffer); buf != nil {
			bufHandle = buf.Handle()
		}
		errCode = cl.SetKernelArg(k.kernelHandle, argIndex, 8, unsafe.Pointer(&bufHandle))
	case int32:
		v := arg.(int32)
		errCode = cl.SetKernelArg(k.kernelHandle, argIndex, 4, unsafe.Pointer(&v))
	case uint32:
		v := arg.(uint32)
		errCode = cl.SetKernelArg(k.kernelHandle, argIndex, 4, unsafe.Pointer(&v))
	case float32:
		v := arg.(float32)
		errCode = cl.SetKernelArg(k.kernelHandle, argIndex, 4, unsafe.Pointer(&v))
	case types.Vec2:
		v := arg.(types.Vec2)
		errCode = cl.SetKernelArg(k.kernelHandle, argIndex, 8, unsafe.Pointer(&v[0]))
	case types.Vec3:
		// float3 args occupy the same space as float4
		v := arg.(types.Vec3).Vec4(0)
		errCode = cl.SetKernelArg(k.kernelHandle, argIndex, 16, unsafe.Pointer(&v[0]))
	case types.Vec4:
		v := arg.(types.Vec4)
		errCode = cl.SetKernelArg(k.kernelHandle, argIndex, 16, unsafe.Pointer(&v[0]))
	case types.Mat4:
		v := arg.(types.Mat4)
		errCode = cl.SetKernelArg(k.kernelHandle, argIndex, 64, unsafe.Pointer(&v[0]))
	default:
		return fmt.Errorf(
			"opencl device (%s): could not set arg %d for kernel %s; unsupported arg type: %s",
			k.device.Name,
			argIndex,
			k.name,
			reflect.TypeOf(arg),
		)
	}

	if errCode != cl.SUCCESS {
		return k.device.errorf(errCode, "could not set arg %d for kernel %s", argIndex, k.name)
	}

	return nil
}

// Enqueue 1D kernel. If localWorkSize is equal to 0 then the opencl
// implementation will pick the optimal worksize split for the underlying
// hardware. Enqueue1D does not wait for the kernel to complete.
func (k *Kernel) Enqueue1D(offset, globalWorkSize, localWorkSize int) error {
	var offsetPtr *uint64 = nil
	var localSizePtr *uint64 = nil

	if offset > 0 {
		k.offsets[0] = uint64(offset)
		offsetPtr = (*uint64)(unsafe.Pointer(&k.offsets[0]))
	}
	k.globalWorkSizes[0] = uint64(globalWorkSize)
	if localWorkSize != 0 {
		k.localWorkSizes[0] = uint64(localWorkSize)
		localSizePtr = (*uint64)(unsafe.Pointer(&k.localWorkSizes[0]))
	}

	return k.enqueue(1, offsetPtr, localSizePtr)
}

// Enqueue 2D kernel. If both localWorkSizeX and localWorkSizeY are 0 then the
// opencl implementation will pick the optimal local worksize split for the
// underlying hardware. Enqueue2D does not wait for the kernel to complete.
func (k *Kernel) Enqueue2D(offsetX, offsetY, globalWorkSizeX, globalWorkSizeY, localWorkSizeX, localWorkSizeY int) error {
	var offsetPtr *uint64 = nil
	var localSizePtr *uint64 = nil

	if offsetX > 0 || offsetY > 0 {
		k.offsets[0] = uint64(offsetX)
		k.offsets[1] = uint64(offsetY)
		offsetPtr = (*uint64)(unsafe.Pointer(&k.offsets[0]))
	}
	k.globalWorkSizes[0], k.globalWorkSizes[1] = uint64(globalWorkSizeX), uint64(globalWorkSizeY)
	if localWorkSizeX != 0 && localWorkSizeY != 0 {
		k.localWorkSizes[0], k.localWorkSizes[1] = uint64(localWorkSizeX), uint64(localWorkSizeY)
		localSizePtr = (*uint64)(unsafe.Pointer(&k.localWorkSizes[0]))
	}

	return k.enqueue(2, offsetPtr, localSizePtr)
}

func (k *Kernel) enqueue(dims uint32, offsetPtr, localSizePtr *uint64) error {
	errCode := cl.EnqueueNDRangeKernel(
		k.device.cmdQueue,
		k.kernelHandle,
		dims,
		offsetPtr,
		(*uint64)(unsafe.Pointer(&k.globalWorkSizes[0])),
		localSizePtr,
		0,
		nil,
		nil,
	)
	if errCode != cl.SUCCESS {
		return k.device.errorf(errCode, "unable to enqueue kernel %s", k.name)
	}

	return nil
}
