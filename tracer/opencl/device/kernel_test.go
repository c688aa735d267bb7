package device

import (
	"testing"

	"github.com/achilleasa/gopencl/v1.2/cl"
	"github.com/achilleasa/skytrace/types"
)

func TestKernelEnqueue1D(t *testing.T) {
	dev := testDevice(t)

	kernel, err := dev.Kernel("square")
	if err != nil {
		t.Fatal(err)
	}
	defer kernel.Release()

	dataSize := 32
	dataIn := make([]int32, dataSize)
	for i := 0; i < dataSize; i++ {
		dataIn[i] = int32(i)
	}

	bufIn := dev.Buffer("in")
	defer bufIn.Release()
	err = bufIn.AllocateAndWriteData(dataIn, cl.MEM_READ_ONLY)
	if err != nil {
		t.Fatal(err)
	}

	bufOut := dev.Buffer("out")
	defer bufOut.Release()

	// Local work sizes: auto and explicit
	for _, localWorkSize := range []int{0, 1} {
		dataOut := make([]int32, dataSize)
		err = bufOut.AllocateToFitData(dataOut, cl.MEM_READ_WRITE)
		if err != nil {
			t.Fatal(err)
		}

		err = kernel.SetArgs(bufIn, bufOut, uint32(dataSize))
		if err != nil {
			t.Fatal(err)
		}

		err = kernel.Enqueue1D(0, dataSize, localWorkSize)
		if err != nil {
			t.Fatal(err)
		}

		// Blocking reads wait for the kernel to complete
		if err = bufOut.ReadData(0, 0, 0, dataOut); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < dataSize; i++ {
			expValue := dataIn[i] * dataIn[i]
			if dataOut[i] != expValue {
				t.Fatalf("[local size %d, item %d] expected squared value of %d to be %d; got %d", localWorkSize, i, dataIn[i], expValue, dataOut[i])
			}
		}
	}
}

func TestKernelEnqueue2D(t *testing.T) {
	dev := testDevice(t)

	kernel, err := dev.Kernel("copyBlock")
	if err != nil {
		t.Fatal(err)
	}
	defer kernel.Release()

	// A 10x10 block covered by a rounded up 16x16 grid of 8x8 tiles
	dataWidth := 10
	dataHeight := 10

	dataIn := make([]int32, dataWidth*dataHeight)
	for i := range dataIn {
		dataIn[i] = int32(i)
	}

	bufIn := dev.Buffer("in")
	defer bufIn.Release()
	err = bufIn.AllocateAndWriteData(dataIn, cl.MEM_READ_ONLY)
	if err != nil {
		t.Fatal(err)
	}

	dataOut := make([]int32, dataWidth*dataHeight)
	bufOut := dev.Buffer("out")
	defer bufOut.Release()
	err = bufOut.AllocateZeroed(len(dataOut)*4, cl.MEM_READ_WRITE)
	if err != nil {
		t.Fatal(err)
	}

	err = kernel.SetArgs(bufIn, bufOut, uint32(dataWidth), uint32(dataHeight))
	if err != nil {
		t.Fatal(err)
	}

	err = kernel.Enqueue2D(0, 0, 16, 16, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if err = dev.Finish(); err != nil {
		t.Fatal(err)
	}

	if err = bufOut.ReadData(0, 0, 0, dataOut); err != nil {
		t.Fatal(err)
	}
	for i := range dataIn {
		if dataOut[i] != dataIn[i] {
			t.Fatalf("[item %d] expected copied value to be %d; got %d", i, dataIn[i], dataOut[i])
		}
	}
}

func TestKernelMatrixArg(t *testing.T) {
	dev := testDevice(t)

	kernel, err := dev.Kernel("unpackMatrix")
	if err != nil {
		t.Fatal(err)
	}
	defer kernel.Release()

	var m types.Mat4
	for i := range m {
		m[i] = float32(i) + 0.5
	}

	dataOut := make([]float32, 16)
	bufOut := dev.Buffer("out")
	defer bufOut.Release()
	if err = bufOut.AllocateToFitData(dataOut, cl.MEM_WRITE_ONLY); err != nil {
		t.Fatal(err)
	}

	if err = kernel.SetArgs(bufOut, m); err != nil {
		t.Fatal(err)
	}
	if err = kernel.Enqueue1D(0, 16, 0); err != nil {
		t.Fatal(err)
	}
	if err = bufOut.ReadData(0, 0, 0, dataOut); err != nil {
		t.Fatal(err)
	}

	for i, v := range dataOut {
		if v != m[i] {
			t.Fatalf("[element %d] expected %f; got %f", i, m[i], v)
		}
	}
}

func TestKernelNullBufferArg(t *testing.T) {
	dev := testDevice(t)

	kernel, err := dev.Kernel("isNull")
	if err != nil {
		t.Fatal(err)
	}
	defer kernel.Release()

	dataOut := []int32{-1}
	bufOut := dev.Buffer("out")
	defer bufOut.Release()
	if err = bufOut.AllocateToFitData(dataOut, cl.MEM_WRITE_ONLY); err != nil {
		t.Fatal(err)
	}

	var null *Buffer
	if err = kernel.SetArgs(null, bufOut); err != nil {
		t.Fatal(err)
	}
	if err = kernel.Enqueue1D(0, 1, 0); err != nil {
		t.Fatal(err)
	}
	if err = bufOut.ReadData(0, 0, 0, dataOut); err != nil {
		t.Fatal(err)
	}
	if dataOut[0] != 1 {
		t.Fatal("expected kernel to receive a NULL buffer pointer")
	}
}

func TestKernelUnsupportedArg(t *testing.T) {
	dev := testDevice(t)

	kernel, err := dev.Kernel("square")
	if err != nil {
		t.Fatal(err)
	}
	defer kernel.Release()

	if err = kernel.SetArg(0, "foo"); err == nil {
		t.Fatal("expected an error for an unsupported argument type")
	}
}
