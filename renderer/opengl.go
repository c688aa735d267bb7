package renderer

import (
	"fmt"
	"runtime"

	"github.com/achilleasa/skytrace/scene"
	"github.com/achilleasa/skytrace/tracer"
	"github.com/achilleasa/skytrace/types"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	// Coefficients for converting delta cursor movements to yaw/pitch camera angles.
	mouseSensitivityX float32 = 0.005
	mouseSensitivityY float32 = 0.005

	// Camera movement speed
	cameraMoveSpeed float32 = 1.0

	// Scene offset change per key press.
	sphereOffsetStep float32 = 10
)

func init() {
	// glfw and opengl calls must be made from the main thread
	runtime.LockOSThread()
}

// An interactive opengl-based renderer. The window's default framebuffer is
// the camera output; traced frames are uploaded to a float texture and
// blitted onto it.
type interactiveGLRenderer struct {
	*baseRenderer

	// opengl handles
	window  *glfw.Window
	texture uint32
	texFbo  uint32
	texW    int32
	texH    int32
	pixels  []float32

	// state
	lastCursorPos types.Vec2
	dragging      bool
}

// Create a new interactive opengl renderer.
func NewInteractive(backend tracer.Backend, skybox interface{}, opts Options) (Renderer, error) {
	r := &interactiveGLRenderer{}

	if err := r.initGL(opts); err != nil {
		r.Close()
		return nil, err
	}

	base, err := newBaseRenderer(backend, skybox, opts, r)
	if err != nil {
		r.Close()
		return nil, err
	}
	r.baseRenderer = base
	r.renderCamera = r.clear

	// The framebuffer may be larger than the window on high-dpi displays
	fbW, fbH := r.window.GetFramebufferSize()
	r.camera.Resize(uint32(fbW), uint32(fbH))

	return r, nil
}

func (r *interactiveGLRenderer) Close() {
	if r.baseRenderer != nil {
		r.baseRenderer.Close()
	}
	if r.texture != 0 {
		gl.DeleteFramebuffers(1, &r.texFbo)
		gl.DeleteTextures(1, &r.texture)
		r.texture = 0
	}
	if r.window != nil {
		r.window.Destroy()
		r.window = nil
		glfw.Terminate()
	}
}

func (r *interactiveGLRenderer) initGL(opts Options) error {
	var err error
	if err = glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %s", err.Error())
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	r.window, err = glfw.CreateWindow(int(opts.FrameW), int(opts.FrameH), "skytrace", nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("could not create opengl window: %s", err.Error())
	}
	r.window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err = gl.Init(); err != nil {
		return fmt.Errorf("could not init opengl: %s", err.Error())
	}

	// Setup texture for image data; storage is allocated on first blit
	gl.GenTextures(1, &r.texture)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.GenFramebuffers(1, &r.texFbo)

	// Linear to sRGB conversion on write to the default framebuffer
	gl.Enable(gl.FRAMEBUFFER_SRGB)

	// Bind event callbacks
	r.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	r.window.SetKeyCallback(r.onKeyEvent)
	r.window.SetMouseButtonCallback(r.onMouseEvent)
	r.window.SetCursorPosCallback(r.onCursorPosEvent)
	r.window.SetFramebufferSizeCallback(r.onFramebufferSizeEvent)

	return nil
}

func (r *interactiveGLRenderer) Render() error {
	for !r.window.ShouldClose() {
		glfw.PollEvents()

		// Minimized
		if width, height := r.camera.PixelSize(); width == 0 || height == 0 {
			glfw.WaitEvents()
			continue
		}

		if err := r.renderFrame(); err != nil {
			return err
		}

		if r.frame%30 == 0 {
			r.window.SetTitle(fmt.Sprintf("skytrace - %d spheres - sample %d", r.stats.Spheres, r.stats.Sample+1))
		}

		r.window.SwapBuffers()
	}
	return nil
}

// The regular camera render; the traced image is composited on top of it.
func (r *interactiveGLRenderer) clear() {
	width, height := r.camera.PixelSize()
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Copy src onto the window framebuffer.
func (r *interactiveGLRenderer) Blit(src tracer.Surface) error {
	width, height := int32(src.Width()), int32(src.Height())
	if need := int(width * height * 4); len(r.pixels) != need {
		r.pixels = make([]float32, need)
	}
	if err := src.ReadPixels(r.pixels); err != nil {
		return err
	}

	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	if width != r.texW || height != r.texH {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, width, height, 0, gl.RGBA, gl.FLOAT, gl.Ptr(&r.pixels[0]))
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.texFbo)
		gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, r.texture, 0)
		r.texW, r.texH = width, height
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, width, height, gl.RGBA, gl.FLOAT, gl.Ptr(&r.pixels[0]))
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.texFbo)
	}

	fbW, fbH := r.window.GetFramebufferSize()
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, width, height, 0, 0, int32(fbW), int32(fbH), gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	return nil
}

func (r *interactiveGLRenderer) onFramebufferSizeEvent(w *glfw.Window, width, height int) {
	if r.baseRenderer == nil {
		return
	}
	r.camera.Resize(uint32(width), uint32(height))
}

func (r *interactiveGLRenderer) onKeyEvent(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}

	var moveDir scene.CameraDirection
	switch key {
	case glfw.KeyEscape:
		r.window.SetShouldClose(true)
		return
	case glfw.KeyUp, glfw.KeyW:
		moveDir = scene.Forward
	case glfw.KeyDown, glfw.KeyS:
		moveDir = scene.Backward
	case glfw.KeyLeft, glfw.KeyA:
		moveDir = scene.Left
	case glfw.KeyRight, glfw.KeyD:
		moveDir = scene.Right
	case glfw.KeyE:
		moveDir = scene.Up
	case glfw.KeyQ:
		moveDir = scene.Down
	case glfw.KeyPageUp:
		r.shiftScene(sphereOffsetStep)
		return
	case glfw.KeyPageDown:
		r.shiftScene(-sphereOffsetStep)
		return
	case glfw.KeyR:
		if err := r.session.Invalidate(); err != nil {
			r.logger.Errorf("could not regenerate scene: %v", err)
		}
		return
	default:
		return
	}

	// Double speed if shift is pressed
	var speedScaler float32 = 1.0
	if (mods & glfw.ModShift) == glfw.ModShift {
		speedScaler = 2.0
	}
	r.camera.Move(moveDir, speedScaler*cameraMoveSpeed)
}

func (r *interactiveGLRenderer) shiftScene(delta float32) {
	offset := r.session.SphereOffsetX() + delta
	if offset < tracer.MinSphereOffsetX {
		offset = tracer.MinSphereOffsetX
	} else if offset > tracer.MaxSphereOffsetX {
		offset = tracer.MaxSphereOffsetX
	}

	if err := r.session.SetSphereOffsetX(offset); err != nil {
		r.logger.Warningf("%v", err)
		return
	}
	r.logger.Infof("sphere offset set to %.1f", offset)
}

func (r *interactiveGLRenderer) onMouseEvent(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}

	r.dragging = action == glfw.Press
	if r.dragging {
		xPos, yPos := w.GetCursorPos()
		r.lastCursorPos[0], r.lastCursorPos[1] = float32(xPos), float32(yPos)
	}
}

func (r *interactiveGLRenderer) onCursorPosEvent(w *glfw.Window, xPos, yPos float64) {
	if !r.dragging {
		return
	}

	// Calculate delta movement and apply mouse sensitivity
	newPos := types.XY(float32(xPos), float32(yPos))
	deltaX := (r.lastCursorPos[0] - newPos[0]) * mouseSensitivityX
	deltaY := (r.lastCursorPos[1] - newPos[1]) * mouseSensitivityY
	r.lastCursorPos = newPos

	r.camera.Rotate(deltaX, deltaY)
}
