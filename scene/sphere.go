package scene

import "github.com/achilleasa/skytrace/types"

// The size in bytes of a packed Sphere. This is also the element stride of
// the scene buffer read by the ray tracing kernel (10 floats).
const SphereStride = 40

// Default specular reflectance for dielectric (non-metal) spheres.
var DielectricSpecular = types.XYZ(0.04, 0.04, 0.04)

// An analytic sphere primitive resting on the ground plane. The struct layout
// is uploaded to the device as is.
type Sphere struct {
	Position types.Vec3
	Radius   float32

	// Diffuse color; zero for metals.
	Albedo types.Vec3

	// Specular reflectance color.
	Specular types.Vec3
}

// Returns true if this sphere uses a metallic material.
func (s Sphere) IsMetal() bool {
	return s.Albedo.IsZero()
}

// Returns true if the two spheres overlap. The test compares squared
// distances to avoid a square root.
func (s Sphere) Overlaps(other Sphere) bool {
	minDist := s.Radius + other.Radius
	return s.Position.Sub(other.Position).LenSqr() < minDist*minDist
}
