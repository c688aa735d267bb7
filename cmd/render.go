package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/achilleasa/skytrace/renderer"
	"github.com/achilleasa/skytrace/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Flags shared by the render and scene commands.
var (
	SceneFlags = []cli.Flag{
		cli.IntFlag{
			Name:  "max-spheres",
			Value: 100,
			Usage: "number of candidate spheres; overlapping candidates are discarded",
		},
		cli.Float64Flag{
			Name:  "min-radius",
			Value: 3,
			Usage: "min sphere radius",
		},
		cli.Float64Flag{
			Name:  "max-radius",
			Value: 8,
			Usage: "max sphere radius",
		},
		cli.Float64Flag{
			Name:  "placement-radius",
			Value: 100,
			Usage: "radius of the disk where spheres are placed",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 0,
			Usage: "random seed; 0 selects a time based seed",
		},
	}

	RenderFlags = []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 1024,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 768,
			Usage: "frame height",
		},
		cli.Float64Flag{
			Name:  "fov",
			Value: 60,
			Usage: "vertical field of view in degrees",
		},
		cli.IntFlag{
			Name:  "num-spheres",
			Value: 10,
			Usage: "number of spheres to trace (0-100)",
		},
		cli.Float64Flag{
			Name:  "sphere-offset",
			Value: 0,
			Usage: "X translation applied to all spheres (-500 to 10)",
		},
		cli.Float64Flag{
			Name:  "light-pitch",
			Value: 50,
			Usage: "directional light pitch in degrees",
		},
		cli.Float64Flag{
			Name:  "light-yaw",
			Value: -30,
			Usage: "directional light yaw in degrees",
		},
		cli.Float64Flag{
			Name:  "light-intensity",
			Value: 1,
			Usage: "directional light intensity",
		},
		cli.StringFlag{
			Name:  "skybox",
			Usage: "equirectangular skybox image (local path or http/https URL)",
		},
		cli.StringFlag{
			Name:  "grid",
			Value: "ceil",
			Usage: "dispatch grid rounding (ceil or truncate)",
		},
		cli.StringSliceFlag{
			Name:  "blacklist, b",
			Value: &cli.StringSlice{},
			Usage: "blacklist opencl device whose names contain this value",
		},
		cli.StringFlag{
			Name:  "force-device",
			Usage: "use the opencl device whose name contains this value",
		},
	}
)

// Build renderer options from the scene generation flags.
func parseSceneOptions(ctx *cli.Context) renderer.Options {
	opts := renderer.DefaultOptions()
	opts.MaxSpheres = uint32(ctx.Int("max-spheres"))
	opts.SphereRadius = [2]float32{float32(ctx.Float64("min-radius")), float32(ctx.Float64("max-radius"))}
	opts.PlacementRadius = float32(ctx.Float64("placement-radius"))
	opts.Seed = ctx.Int64("seed")
	return opts
}

func parseRenderOptions(ctx *cli.Context) (renderer.Options, error) {
	opts := parseSceneOptions(ctx)
	opts.FrameW = uint32(ctx.Int("width"))
	opts.FrameH = uint32(ctx.Int("height"))
	opts.FOV = float32(ctx.Float64("fov"))
	opts.NumSpheres = uint32(ctx.Int("num-spheres"))
	opts.SphereOffsetX = float32(ctx.Float64("sphere-offset"))
	opts.LightPitch = float32(ctx.Float64("light-pitch"))
	opts.LightYaw = float32(ctx.Float64("light-yaw"))
	opts.LightIntensity = float32(ctx.Float64("light-intensity"))
	opts.SkyboxPath = ctx.String("skybox")
	opts.MaxSamples = uint32(ctx.Int("samples"))
	opts.BlackListedDevices = ctx.StringSlice("blacklist")
	opts.ForceDevice = ctx.String("force-device")

	grid, err := tracer.ParseGridPolicy(ctx.String("grid"))
	if err != nil {
		return opts, err
	}
	opts.Grid = grid

	return opts, opts.Validate()
}

// Returns a context that is cancelled when the process receives SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts, err := parseRenderOptions(ctx)
	if err != nil {
		return err
	}

	sigCtx, cancel := signalContext()
	defer cancel()

	backend, skybox, err := renderer.OpenBackend(sigCtx, opts)
	if err != nil {
		return err
	}
	defer backend.Close()
	logger.Noticef("using device %s", backend.Name())

	r, err := renderer.NewOffscreen(sigCtx, backend, skybox, opts, ctx.String("out"))
	if err != nil {
		return err
	}
	defer r.Close()

	if err = r.Render(); err != nil {
		return err
	}

	displayFrameStats(r.Stats())
	return nil
}

// Render an interactive view of the scene.
func RenderInteractive(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts, err := parseRenderOptions(ctx)
	if err != nil {
		return err
	}

	backend, skybox, err := renderer.OpenBackend(context.Background(), opts)
	if err != nil {
		return err
	}
	defer backend.Close()
	logger.Noticef("using device %s", backend.Name())

	r, err := renderer.NewInteractive(backend, skybox, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	if err = r.Render(); err != nil {
		return err
	}

	displayFrameStats(r.Stats())
	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frame", "Sample", "Resolution", "Grid", "Spheres", "Submit time", "Composite time"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.Frame),
		fmt.Sprintf("%d", stats.Sample),
		fmt.Sprintf("%dx%d", stats.Width, stats.Height),
		fmt.Sprintf("%dx%d", stats.GroupsX, stats.GroupsY),
		fmt.Sprintf("%d", stats.Spheres),
		stats.SubmitTime.String(),
		stats.CompositeTime.String(),
	})
	table.SetFooter([]string{"", "", "", "", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s\nscene: %d candidates, %d accepted, %d metals", buf.String(), stats.Scene.Candidates, stats.Scene.Accepted, stats.Scene.Metals)
}
