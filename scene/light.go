package scene

import (
	"github.com/achilleasa/skytrace/types"
	"github.com/go-gl/mathgl/mgl32"
)

// A directional light source such as the sun. Its orientation is defined by
// euler angles in degrees; the light travels along its forward (+Z) axis.
type DirectionalLight struct {
	Pitch     float32
	Yaw       float32
	Intensity float32
}

// Create a light with a sun-like default orientation.
func NewDirectionalLight() *DirectionalLight {
	return &DirectionalLight{
		Pitch:     50,
		Yaw:       -30,
		Intensity: 1,
	}
}

// Get the world-space forward direction of the light.
func (l *DirectionalLight) Forward() types.Vec3 {
	rot := mgl32.Rotate3DY(mgl32.DegToRad(l.Yaw)).Mul3(mgl32.Rotate3DX(mgl32.DegToRad(l.Pitch)))
	return types.Vec3(rot.Mul3x1(mgl32.Vec3{0, 0, 1}).Normalize())
}

// Pack direction and intensity into the layout expected by the kernel.
func (l *DirectionalLight) Packed() types.Vec4 {
	return l.Forward().Vec4(l.Intensity)
}
