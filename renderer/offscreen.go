package renderer

import (
	"context"
	"image"
	"image/png"
	"os"

	"github.com/achilleasa/skytrace/tracer"
	"github.com/chewxy/math32"
)

// ImageTarget is a render target backed by an 8-bit sRGB image.
type ImageTarget struct {
	img    *image.RGBA
	pixels []float32
}

// Get the target image or nil if nothing has been blitted yet.
func (t *ImageTarget) Image() *image.RGBA {
	return t.img
}

// Read back src and convert it to sRGB. Surface rows are stored bottom-up so
// they are flipped while copying.
func (t *ImageTarget) Blit(src tracer.Surface) error {
	width, height := int(src.Width()), int(src.Height())
	if t.img == nil || t.img.Rect.Dx() != width || t.img.Rect.Dy() != height {
		t.img = image.NewRGBA(image.Rect(0, 0, width, height))
		t.pixels = make([]float32, width*height*4)
	}

	if err := src.ReadPixels(t.pixels); err != nil {
		return err
	}

	for y := 0; y < height; y++ {
		srcRow := t.pixels[(height-1-y)*width*4 : (height-y)*width*4]
		dstRow := t.img.Pix[y*t.img.Stride : y*t.img.Stride+width*4]
		for x := 0; x < width*4; x += 4 {
			dstRow[x] = toSRGB8(srcRow[x])
			dstRow[x+1] = toSRGB8(srcRow[x+1])
			dstRow[x+2] = toSRGB8(srcRow[x+2])
			dstRow[x+3] = 255
		}
	}

	return nil
}

// Convert a linear color component to an 8-bit sRGB value.
func toSRGB8(v float32) uint8 {
	v = math32.Max(0, math32.Min(1, v))
	if v <= 0.0031308 {
		v *= 12.92
	} else {
		v = 1.055*math32.Pow(v, 1/2.4) - 0.055
	}
	return uint8(v*255 + 0.5)
}

// A renderer that accumulates a fixed number of samples for a static camera
// and writes the result to a PNG file.
type offscreenRenderer struct {
	*baseRenderer

	ctx     context.Context
	target  *ImageTarget
	outFile string
	samples uint32
}

// Create an offscreen renderer. It renders MaxSamples samples (or a single
// sample if MaxSamples is 0) and saves the composited image to outFile.
func NewOffscreen(ctx context.Context, backend tracer.Backend, skybox interface{}, opts Options, outFile string) (Renderer, error) {
	target := &ImageTarget{}
	base, err := newBaseRenderer(backend, skybox, opts, target)
	if err != nil {
		return nil, err
	}

	samples := opts.MaxSamples
	if samples == 0 {
		samples = 1
	}

	return &offscreenRenderer{
		baseRenderer: base,
		ctx:          ctx,
		target:       target,
		outFile:      outFile,
		samples:      samples,
	}, nil
}

func (r *offscreenRenderer) Render() error {
	for sample := uint32(0); sample < r.samples; sample++ {
		select {
		case <-r.ctx.Done():
			return ErrInterrupted
		default:
		}

		if err := r.renderFrame(); err != nil {
			return err
		}
	}

	if r.target.Image() == nil {
		return tracer.ErrResourceUnavailable
	}

	f, err := os.Create(r.outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = png.Encode(f, r.target.Image()); err != nil {
		return err
	}

	r.logger.Noticef("wrote %dx%d frame (%d samples) to %s", r.options.FrameW, r.options.FrameH, r.samples, r.outFile)
	return nil
}
