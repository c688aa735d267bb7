package scene

import (
	"math/rand"

	"github.com/achilleasa/skytrace/types"
	"github.com/chewxy/math32"
)

// Parameters for procedurally generating a sphere scene.
type GeneratorOptions struct {
	// Number of candidate spheres. The accepted count is <= this value as
	// overlapping candidates are discarded.
	MaxSpheres uint32

	// Min and max sphere radius.
	RadiusRange [2]float32

	// Spheres are placed inside a disk with this radius centered at the origin.
	PlacementRadius float32
}

// Check generator options for errors.
func (o GeneratorOptions) Validate() error {
	if o.RadiusRange[0] > o.RadiusRange[1] {
		return NewConfigError("sphere radius range", "min radius %f is greater than max radius %f", o.RadiusRange[0], o.RadiusRange[1])
	}
	if o.RadiusRange[0] <= 0 {
		return NewConfigError("sphere radius range", "min radius must be positive; got %f", o.RadiusRange[0])
	}
	if o.PlacementRadius < 0 {
		return NewConfigError("placement radius", "must not be negative; got %f", o.PlacementRadius)
	}
	return nil
}

// Statistics for the last generated scene.
type GeneratorStats struct {
	Candidates uint32
	Accepted   uint32
	Rejected   uint32
	Metals     uint32
}

// Generator builds non-overlapping sphere sets using rejection sampling.
type Generator struct {
	opts  GeneratorOptions
	stats GeneratorStats
}

// Create a generator after validating its options.
func NewGenerator(opts GeneratorOptions) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Generator{opts: opts}, nil
}

// Get the statistics of the last Generate call.
func (g *Generator) Stats() GeneratorStats {
	return g.stats
}

// Generate a new sphere set. Each candidate is tested against all previously
// accepted spheres and discarded on overlap; discarded slots are not retried.
func (g *Generator) Generate(rng *rand.Rand) []Sphere {
	g.stats = GeneratorStats{}
	spheres := make([]Sphere, 0, g.opts.MaxSpheres)

	for slot := uint32(0); slot < g.opts.MaxSpheres; slot++ {
		g.stats.Candidates++

		radius := g.opts.RadiusRange[0] + rng.Float32()*(g.opts.RadiusRange[1]-g.opts.RadiusRange[0])
		x, z := sampleDisk(rng, g.opts.PlacementRadius)
		candidate := Sphere{
			Position: types.XYZ(x, radius, z),
			Radius:   radius,
		}

		if overlapsAny(candidate, spheres) {
			g.stats.Rejected++
			continue
		}

		color := randomColor(rng)
		if rng.Float32() < 0.5 {
			candidate.Specular = color
			g.stats.Metals++
		} else {
			candidate.Albedo = color
			candidate.Specular = DielectricSpecular
		}

		spheres = append(spheres, candidate)
		g.stats.Accepted++
	}

	return spheres
}

// Validate options and generate a sphere set.
func Generate(opts GeneratorOptions, rng *rand.Rand) ([]Sphere, error) {
	g, err := NewGenerator(opts)
	if err != nil {
		return nil, err
	}
	return g.Generate(rng), nil
}

func overlapsAny(candidate Sphere, accepted []Sphere) bool {
	for _, other := range accepted {
		if candidate.Overlaps(other) {
			return true
		}
	}
	return false
}

// Pick a uniformly distributed point inside a disk with the given radius.
func sampleDisk(rng *rand.Rand, radius float32) (float32, float32) {
	r := radius * math32.Sqrt(rng.Float32())
	theta := 2 * math32.Pi * rng.Float32()
	return r * math32.Cos(theta), r * math32.Sin(theta)
}

// Pick a random color using full hue and saturation ranges. The value is
// drawn from (0, 1] so the color is never black; a zero albedo marks a metal.
func randomColor(rng *rand.Rand) types.Vec3 {
	return types.HSVToRGB(rng.Float32(), rng.Float32(), 1-rng.Float32())
}
