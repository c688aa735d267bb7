package scene

import (
	"github.com/achilleasa/skytrace/types"
	"github.com/go-gl/mathgl/mgl32"
)

// Directions for moving the camera.
type CameraDirection uint8

const (
	Forward CameraDirection = iota
	Backward
	Left
	Right
	Up
	Down
)

// Max absolute camera pitch in radians; keeps the look-at basis well defined.
const maxPitch = 1.55

// The camera type controls the scene camera. The camera looks down its local
// -Z axis (OpenGL convention).
type Camera struct {
	Position types.Vec3

	// Orientation angles in radians.
	Yaw   float32
	Pitch float32

	// Vertical field of view in degrees.
	FOV float32

	// Clip planes.
	Near float32
	Far  float32

	aspect  float32
	viewMat mgl32.Mat4
	projMat mgl32.Mat4

	// Set whenever position, orientation or projection change.
	changed bool
}

// Create a camera at the given position looking towards -Z.
func NewCamera(fov float32, position types.Vec3) *Camera {
	c := &Camera{
		Position: position,
		FOV:      fov,
		Near:     0.3,
		Far:      1000,
		aspect:   1,
	}
	c.SetupProjection(1)
	return c
}

// Setup camera projection matrix.
func (c *Camera) SetupProjection(aspect float32) {
	c.aspect = aspect
	c.projMat = mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
	c.Update()
}

// Update the view matrix after changing the public camera fields.
func (c *Camera) Update() {
	c.Pitch = mgl32.Clamp(c.Pitch, -maxPitch, maxPitch)
	eye := mgl32.Vec3(c.Position)
	c.viewMat = mgl32.LookAtV(eye, eye.Add(c.direction()), mgl32.Vec3{0, 1, 0})
	c.changed = true
}

// Move the camera along the given direction.
func (c *Camera) Move(dir CameraDirection, amount float32) {
	forward := types.Vec3(c.direction())
	right := types.Vec3(c.direction().Cross(mgl32.Vec3{0, 1, 0}).Normalize())

	switch dir {
	case Forward:
		c.Position = c.Position.Add(forward.Mul(amount))
	case Backward:
		c.Position = c.Position.Sub(forward.Mul(amount))
	case Left:
		c.Position = c.Position.Sub(right.Mul(amount))
	case Right:
		c.Position = c.Position.Add(right.Mul(amount))
	case Up:
		c.Position[1] += amount
	case Down:
		c.Position[1] -= amount
	}
	c.Update()
}

// Rotate the camera by the given yaw and pitch deltas (radians).
func (c *Camera) Rotate(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.Update()
}

// Get the camera to world transformation matrix.
func (c *Camera) CameraToWorld() types.Mat4 {
	return types.Mat4(c.viewMat.Inv())
}

// Get the inverse of the projection matrix.
func (c *Camera) InverseProjection() types.Mat4 {
	return types.Mat4(c.projMat.Inv())
}

// Report whether the camera transform changed since the last call and clear
// the flag.
func (c *Camera) ConsumeChanged() bool {
	changed := c.changed
	c.changed = false
	return changed
}

// Get the camera forward vector.
func (c *Camera) direction() mgl32.Vec3 {
	rot := mgl32.Rotate3DY(c.Yaw).Mul3(mgl32.Rotate3DX(c.Pitch))
	return rot.Mul3x1(mgl32.Vec3{0, 0, -1}).Normalize()
}
