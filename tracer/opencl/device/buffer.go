package device

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/achilleasa/gopencl/v1.2/cl"
)

// Returned (wrapped) when the device cannot satisfy an allocation.
var ErrOutOfMemory = errors.New("opencl: device out of memory")

type Buffer struct {
	// Handle to opencl buffer.
	bufHandle cl.Mem

	// Associated Device.
	device *Device

	// A name for identifying the buffer.
	name string

	// Allocated size.
	size int
}

// Get buffer size.
func (b *Buffer) Size() int {
	return b.size
}

// Get buffer name.
func (b *Buffer) Name() string {
	return b.name
}

// Allocate a buffer with the given size and flags. Any previously allocated
// storage is released first. The buffer contents are undefined.
func (b *Buffer) Allocate(size int, flags cl.MemFlags) error {
	return b.create(size, flags, nil)
}

// Allocate a buffer with the given size and flags and clear its contents.
func (b *Buffer) AllocateZeroed(size int, flags cl.MemFlags) error {
	if err := b.create(size, flags, nil); err != nil {
		return err
	}

	return b.WriteData(make([]byte, size), 0)
}

// Allocate a buffer with enough capacity to fit the given data.
func (b *Buffer) AllocateToFitData(data interface{}, flags cl.MemFlags) error {
	_, dataLen := getSliceData(data)
	return b.create(dataLen, flags, nil)
}

// Allocate a buffer with the given flags that is large enough to hold the
// given data and have opencl copy the data into it. The behavior of this
// method is undefined if a non-slice argument is passed or the argument does
// not use contiguous memory.
func (b *Buffer) AllocateAndWriteData(data interface{}, flags cl.MemFlags) error {
	dataPtr, dataLen := getSliceData(data)
	return b.create(dataLen, flags|cl.MEM_COPY_HOST_PTR, dataPtr)
}

func (b *Buffer) create(size int, flags cl.MemFlags, hostPtr unsafe.Pointer) error {
	var errCode cl.ErrorCode

	b.Release()

	b.bufHandle = cl.CreateBuffer(
		*b.device.ctx,
		flags,
		cl.MemFlags(size),
		hostPtr,
		(*int32)(&errCode),
	)

	if errCode != cl.SUCCESS {
		b.bufHandle = nil
		err := b.device.errorf(errCode, "could not allocate buffer %s of size %d", b.name, size)
		if IsOutOfMemory(errCode) {
			return fmt.Errorf("%w: %v", ErrOutOfMemory, err)
		}
		return err
	}

	b.size = size
	return nil
}

// Write data to the device buffer. The behavior of this method is undefined
// if a non-slice argument is passed or the argument does not use contiguous
// memory. A byte offset may also be specified to adjust the actual data copied.
func (b *Buffer) WriteData(data interface{}, offset int) error {
	dataPtr, dataLen := getSliceData(data)

	if dataLen > b.size {
		return fmt.Errorf("opencl device (%s): insufficient buffer space (%d) in %s for copying data of length %d", b.device.Name, b.size, b.name, dataLen)
	}

	errCode := cl.EnqueueWriteBuffer(
		b.device.cmdQueue,
		b.bufHandle,
		cl.TRUE,
		uint64(offset),
		uint64(dataLen-offset),
		dataPtr,
		0,
		nil,
		nil,
	)

	if errCode != cl.SUCCESS {
		return b.device.errorf(errCode, "error copying host data to device buffer %s", b.name)
	}

	return nil
}

// Read data from device buffer into the supplied host buffer. The read blocks
// until all previously queued commands complete. The behavior of this method
// is undefined if a non-slice argument is passed or if the argument does not
// use contiguous memory.
//
// If size is <= 0 then ReadData will read the entire bufer. Both src and dst
// offsets are specified in bytes.
func (b *Buffer) ReadData(srcOffset, dstOffset, size int, hostBuffer interface{}) error {
	if size <= 0 {
		size = b.size
	}

	dataPtr, _ := getSliceData(hostBuffer)

	errCode := cl.EnqueueReadBuffer(
		b.device.cmdQueue,
		b.bufHandle,
		cl.TRUE,
		uint64(srcOffset),
		uint64(size),
		unsafe.Pointer(uintptr(dataPtr)+uintptr(dstOffset)),
		0,
		nil,
		nil,
	)

	if errCode != cl.SUCCESS {
		return b.device.errorf(errCode, "error copying device data from %s to host buffer", b.name)
	}

	return nil
}

// Release buffer.
func (b *Buffer) Release() {
	if b.bufHandle != nil {
		cl.ReleaseMemObject(b.bufHandle)
		b.bufHandle = nil
	}
	b.size = 0
}

// Get opencl buffer handle.
func (b *Buffer) Handle() cl.Mem {
	return b.bufHandle
}

// Given an interface{} containing a slice return a pointer to its data and its length.
func getSliceData(data interface{}) (unsafe.Pointer, int) {
	reflVal := reflect.ValueOf(data)

	if reflVal.Kind() != reflect.Slice {
		panic("getSliceData: this function only supports slices")
	}

	sliceElemCount := reflVal.Len()
	if sliceElemCount == 0 {
		panic("getSliceData: supplied slice object is empty")
	}

	return unsafe.Pointer(reflVal.Index(0).Addr().Pointer()),
		sliceElemCount * int(reflect.TypeOf(data).Elem().Size())
}
