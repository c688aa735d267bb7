package main

import (
	"os"

	"github.com/achilleasa/skytrace/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "skytrace"
	app.Usage = "ray trace procedural sphere scenes on opencl devices"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "list-devices",
			Usage:  "list available opencl devices",
			Action: cmd.ListDevices,
		},
		{
			Name:  "scene",
			Usage: "generate a procedural scene and print its spheres",
			Description: `
Place spheres on the ground plane using rejection sampling and print the
accepted spheres. Using the same seed with the render command reproduces
the printed scene.`,
			Flags:  cmd.SceneFlags,
			Action: cmd.GenerateScene,
		},
		{
			Name:   "render",
			Usage:  "render scene",
			Action: nil,
			Subcommands: []cli.Command{
				{
					Name:  "frame",
					Usage: "render single frame",
					Description: `
Accumulate a number of samples for a static camera and write the result
to a PNG file.`,
					Flags: append(append([]cli.Flag{
						cli.IntFlag{
							Name:  "samples, s",
							Value: 16,
							Usage: "number of samples to accumulate",
						},
						cli.StringFlag{
							Name:  "out, o",
							Value: "frame.png",
							Usage: "image filename for the rendered frame",
						},
					}, cmd.RenderFlags...), cmd.SceneFlags...),
					Action: cmd.RenderFrame,
				},
				{
					Name:  "interactive",
					Usage: "render interactive view of the scene",
					Description: `
Open a window and progressively refine the view until the camera moves.

Controls: arrows/WASD move, Q/E move down/up, left mouse drag rotates,
PgUp/PgDn shift the spheres along the X axis, R regenerates the scene.`,
					Flags: append(append([]cli.Flag{
						cli.IntFlag{
							Name:  "samples, s",
							Value: 0,
							Usage: "stop accumulating after this many samples; 0 accumulates until the camera moves",
						},
					}, cmd.RenderFlags...), cmd.SceneFlags...),
					Action: cmd.RenderInteractive,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
