package renderer

import (
	"github.com/achilleasa/skytrace/scene"
	"github.com/achilleasa/skytrace/tracer"
)

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Vertical field of view in degrees.
	FOV float32

	// Number of spheres the kernel iterates (0-100).
	NumSpheres uint32

	// Global X translation of the scene ([-500, 10]).
	SphereOffsetX float32

	// Procedural scene parameters.
	SphereRadius    [2]float32
	MaxSpheres      uint32
	PlacementRadius float32

	// Directional light orientation in degrees and intensity.
	LightPitch     float32
	LightYaw       float32
	LightIntensity float32

	// Equirectangular skybox image; a procedural sky is used if empty.
	SkyboxPath string

	// Seed for scene generation and pixel jitter; 0 selects a time based seed.
	Seed int64

	Grid tracer.GridPolicy

	// Number of samples to accumulate; 0 accumulates until the camera moves.
	MaxSamples uint32

	// Device selection.
	BlackListedDevices []string
	ForceDevice        string
}

// Get the default options.
func DefaultOptions() Options {
	return Options{
		FrameW:          1024,
		FrameH:          768,
		FOV:             60,
		NumSpheres:      10,
		SphereRadius:    [2]float32{3, 8},
		MaxSpheres:      100,
		PlacementRadius: 100,
		LightPitch:      50,
		LightYaw:        -30,
		LightIntensity:  1,
		Grid:            tracer.GridCeil,
	}
}

// Check options for errors.
func (o Options) Validate() error {
	if o.FrameW == 0 || o.FrameH == 0 {
		return scene.NewConfigError("frame size", "must be non-zero; got %dx%d", o.FrameW, o.FrameH)
	}
	if o.FOV <= 0 || o.FOV >= 180 {
		return scene.NewConfigError("field of view", "must be in (0, 180); got %f", o.FOV)
	}
	if o.LightIntensity < 0 {
		return scene.NewConfigError("light intensity", "must not be negative; got %f", o.LightIntensity)
	}

	return o.sessionOptions(nil, nil).Validate()
}

// The directional light described by the options.
func (o Options) light() *scene.DirectionalLight {
	return &scene.DirectionalLight{
		Pitch:     o.LightPitch,
		Yaw:       o.LightYaw,
		Intensity: o.LightIntensity,
	}
}

func (o Options) sessionOptions(light tracer.Light, skybox interface{}) tracer.SessionOptions {
	if light == nil {
		light = o.light()
	}

	return tracer.SessionOptions{
		Generator: scene.GeneratorOptions{
			MaxSpheres:      o.MaxSpheres,
			RadiusRange:     o.SphereRadius,
			PlacementRadius: o.PlacementRadius,
		},
		NumSpheres:    o.NumSpheres,
		SphereOffsetX: o.SphereOffsetX,
		Grid:          o.Grid,
		MaxSamples:    o.MaxSamples,
		Seed:          o.Seed,
		Light:         light,
		Skybox:        skybox,
	}
}
