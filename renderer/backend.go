package renderer

import (
	"context"
	"fmt"

	"github.com/achilleasa/skytrace/asset"
	"github.com/achilleasa/skytrace/asset/texture"
	"github.com/achilleasa/skytrace/tracer/opencl"
	"github.com/achilleasa/skytrace/tracer/opencl/device"
)

// Select the fastest opencl device that satisfies the device selection
// options, initialize a backend on it and upload the skybox texture. The
// returned skybox is nil when no skybox path is configured.
func OpenBackend(ctx context.Context, opts Options) (*opencl.Backend, interface{}, error) {
	dev, err := device.SelectFastest(opts.BlackListedDevices, opts.ForceDevice)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}

	backend, err := opencl.NewBackend(dev)
	if err != nil {
		return nil, nil, err
	}

	if opts.SkyboxPath == "" {
		return backend, nil, nil
	}

	skybox, err := loadSkybox(ctx, backend, opts.SkyboxPath)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return backend, skybox, nil
}

func loadSkybox(ctx context.Context, backend *opencl.Backend, path string) (*opencl.Texture, error) {
	res, err := asset.NewResource(ctx, path)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	tex, err := texture.Load(res)
	if err != nil {
		return nil, err
	}

	return backend.UploadTexture(tex)
}
