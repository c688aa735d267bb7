package texture

import (
	"fmt"

	"github.com/achilleasa/openimageigo"
	"github.com/achilleasa/skytrace/asset"
	"github.com/achilleasa/skytrace/types"
)

// A texture image stored as linear RGBA float32 texels in row-major order.
// Row 0 is the top of the image.
type Texture struct {
	Name   string
	Width  uint32
	Height uint32

	Data []float32
}

// Get the texel at (x, y).
func (t *Texture) At(x, y uint32) types.Vec4 {
	offset := 4 * (y*t.Width + x)
	return types.XYZW(t.Data[offset], t.Data[offset+1], t.Data[offset+2], t.Data[offset+3])
}

// Load a texture from a Resource. Any image format supported by
// openimageio is accepted; texels are converted to float RGBA.
func Load(res *asset.Resource) (*Texture, error) {
	pathToFile, cleanup, err := res.LocalPath()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	input, err := oiio.OpenImageInput(pathToFile)
	if err != nil {
		return nil, err
	}
	defer input.Close()

	spec := input.Spec()
	if spec.Depth() != 1 {
		return nil, fmt.Errorf("texture: unsupported depth %d while loading %s", spec.Depth(), res.Path())
	}

	imgData, err := input.ReadImageFormat(oiio.TypeFloat, nil)
	if err != nil {
		return nil, fmt.Errorf("texture: could not read data from %s: %s", res.Path(), err.Error())
	}

	texels, ok := imgData.([]float32)
	if !ok {
		return nil, fmt.Errorf("texture: unexpected pixel data type %T while loading %s", imgData, res.Path())
	}

	data, err := expandToRGBA(texels, spec.NumChannels())
	if err != nil {
		return nil, fmt.Errorf("texture: %s while loading %s", err.Error(), res.Path())
	}

	return &Texture{
		Name:   res.Path(),
		Width:  uint32(spec.Width()),
		Height: uint32(spec.Height()),
		Data:   data,
	}, nil
}

// Convert 1, 2, 3 or 4 channel texel data to RGBA; kernels address textures
// as float4 arrays. Luminance is replicated to RGB and missing alpha is set to 1.
func expandToRGBA(texels []float32, channels int) ([]float32, error) {
	switch channels {
	case 4:
		return texels, nil
	case 1, 2, 3:
	default:
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}

	numTexels := len(texels) / channels
	out := make([]float32, numTexels*4)
	for i := 0; i < numTexels; i++ {
		src := texels[i*channels : (i+1)*channels]
		dst := out[i*4 : (i+1)*4]
		switch channels {
		case 1, 2:
			dst[0], dst[1], dst[2] = src[0], src[0], src[0]
		case 3:
			dst[0], dst[1], dst[2] = src[0], src[1], src[2]
		}
		dst[3] = 1.0
		if channels == 2 {
			dst[3] = src[1]
		}
	}
	return out, nil
}

// Generate an equirectangular sky texture that blends from the ground color at
// the bottom of the image through the horizon color to the zenith color at the
// top.
func Gradient(width, height uint32, ground, horizon, zenith types.Vec3) *Texture {
	tex := &Texture{
		Name:   "gradient",
		Width:  width,
		Height: height,
		Data:   make([]float32, width*height*4),
	}

	for y := uint32(0); y < height; y++ {
		// 1 at the top row, -1 at the bottom row
		elevation := float32(1)
		if height > 1 {
			elevation = 1 - 2*float32(y)/float32(height-1)
		}

		var color types.Vec3
		if elevation >= 0 {
			color = lerp(horizon, zenith, elevation)
		} else {
			color = lerp(horizon, ground, -elevation)
		}

		for x := uint32(0); x < width; x++ {
			offset := 4 * (y*width + x)
			tex.Data[offset] = color[0]
			tex.Data[offset+1] = color[1]
			tex.Data[offset+2] = color[2]
			tex.Data[offset+3] = 1
		}
	}

	return tex
}

func lerp(a, b types.Vec3, t float32) types.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}
