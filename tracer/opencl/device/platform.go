package device

import (
	"bytes"
	"fmt"
	"strings"
	"unsafe"

	"github.com/achilleasa/gopencl/v1.2/cl"
)

const (
	platformBufferSize = 100
	deviceBufferSize   = 100
	dataBufferSize     = 1024
)

// Information about a system's opencl platform and supported devices.
type PlatformInfo struct {
	Profile    string
	Version    string
	Name       string
	Vendor     string
	Extensions string
	Devices    []*Device
}

func (pl PlatformInfo) String() string {
	var buf bytes.Buffer

	buf.WriteString(
		fmt.Sprintf(
			"Version:    %s\nName:       %s\nVendor:     %s\nExtensions: %s\nDevices:\n",
			pl.Version,
			pl.Name,
			pl.Vendor,
			pl.Extensions,
		),
	)

	for dIdx, d := range pl.Devices {
		buf.WriteString(fmt.Sprintf("  Device %02d:\n", dIdx))
		buf.WriteString(indentRegex.ReplaceAllString(d.String(), "    "))
		buf.WriteString("\n\n")
	}

	return buf.String()
}

// Get information about supported opencl platforms and devices.
func GetPlatformInfo() ([]PlatformInfo, error) {
	pids := make([]cl.PlatformID, platformBufferSize)
	pidCount := uint32(0)
	cl.GetPlatformIDs(uint32(len(pids)), &pids[0], &pidCount)

	data := make([]byte, dataBufferSize)
	dataLen := uint64(0)

	devices := make([]cl.DeviceId, deviceBufferSize)
	deviceCount := uint32(0)

	infoList := make([]PlatformInfo, int(pidCount))
	for pIdx := range infoList {
		pid := pids[pIdx]
		info := &infoList[pIdx]

		cl.GetPlatformInfo(pid, cl.PLATFORM_PROFILE, dataBufferSize, unsafe.Pointer(&data[0]), &dataLen)
		info.Profile = cString(data, dataLen)
		cl.GetPlatformInfo(pid, cl.PLATFORM_VERSION, dataBufferSize, unsafe.Pointer(&data[0]), &dataLen)
		info.Version = cString(data, dataLen)
		cl.GetPlatformInfo(pid, cl.PLATFORM_NAME, dataBufferSize, unsafe.Pointer(&data[0]), &dataLen)
		info.Name = cString(data, dataLen)
		cl.GetPlatformInfo(pid, cl.PLATFORM_VENDOR, dataBufferSize, unsafe.Pointer(&data[0]), &dataLen)
		info.Vendor = cString(data, dataLen)
		cl.GetPlatformInfo(pid, cl.PLATFORM_EXTENSIONS, dataBufferSize, unsafe.Pointer(&data[0]), &dataLen)
		info.Extensions = cString(data, dataLen)

		deviceCount = 0
		cl.GetDeviceIDs(pid, cl.DEVICE_TYPE_CPU, uint32(deviceBufferSize), &devices[0], &deviceCount)
		info.Devices = appendDevices(info.Devices, devices[:deviceCount], CpuDevice, data)

		deviceCount = 0
		cl.GetDeviceIDs(pid, cl.DEVICE_TYPE_GPU, uint32(deviceBufferSize), &devices[0], &deviceCount)
		info.Devices = appendDevices(info.Devices, devices[:deviceCount], GpuDevice, data)

		for _, dev := range info.Devices {
			if err := dev.detectSpeed(); err != nil {
				return nil, err
			}
		}
	}

	return infoList, nil
}

func appendDevices(list []*Device, ids []cl.DeviceId, dtype DeviceType, data []byte) []*Device {
	for _, id := range ids {
		dataLen := uint64(0)
		cl.GetDeviceInfo(id, cl.DEVICE_NAME, dataBufferSize, unsafe.Pointer(&data[0]), &dataLen)
		list = append(list, &Device{
			Name: strings.TrimSpace(cString(data, dataLen)),
			Id:   id,
			Type: dtype,
		})
	}
	return list
}

// Convert a NULL-terminated info string to a go string.
func cString(data []byte, dataLen uint64) string {
	if dataLen == 0 {
		return ""
	}
	return string(data[0 : dataLen-1])
}

// Scan all available opencl platforms and select devices that match the given
// type mask and whose name contains matchName (if not empty).
func SelectDevices(typeMask DeviceType, matchName string) ([]*Device, error) {
	platforms, err := GetPlatformInfo()
	if err != nil {
		return nil, err
	}
	list := make([]*Device, 0)
	for _, p := range platforms {
		for _, d := range p.Devices {
			if d.Type&typeMask != d.Type {
				continue
			}

			if matchName != "" && !strings.Contains(d.Name, matchName) {
				continue
			}

			list = append(list, d)
		}
	}
	return list, nil
}

// Select the fastest available device whose name does not contain any of the
// blacklisted strings. If forceName is not empty, only devices whose name
// contains it are considered.
func SelectFastest(blacklist []string, forceName string) (*Device, error) {
	candidates, err := SelectDevices(AllDevices, forceName)
	if err != nil {
		return nil, err
	}

	var best *Device
nextDevice:
	for _, d := range candidates {
		for _, name := range blacklist {
			if name != "" && strings.Contains(d.Name, name) {
				continue nextDevice
			}
		}
		if best == nil || d.Speed > best.Speed {
			best = d
		}
	}

	if best == nil {
		return nil, fmt.Errorf("opencl: no device matched the selection criteria")
	}
	return best, nil
}
