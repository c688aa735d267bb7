package cmd

import (
	"bytes"
	"fmt"
	"math/rand"
	"time"

	"github.com/achilleasa/skytrace/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Generate a procedural scene and display the accepted spheres.
func GenerateScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts := parseSceneOptions(ctx)
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gen, err := scene.NewGenerator(scene.GeneratorOptions{
		MaxSpheres:      opts.MaxSpheres,
		RadiusRange:     opts.SphereRadius,
		PlacementRadius: opts.PlacementRadius,
	})
	if err != nil {
		return err
	}

	spheres := gen.Generate(rand.New(rand.NewSource(seed)))
	stats := gen.Stats()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"#", "Position", "Radius", "Material", "Color"})
	for index, sphere := range spheres {
		material, color := "dielectric", sphere.Albedo
		if sphere.IsMetal() {
			material, color = "metal", sphere.Specular
		}
		table.Append([]string{
			fmt.Sprintf("%d", index),
			fmt.Sprintf("(%.2f, %.2f, %.2f)", sphere.Position[0], sphere.Position[1], sphere.Position[2]),
			fmt.Sprintf("%.2f", sphere.Radius),
			material,
			fmt.Sprintf("(%.2f, %.2f, %.2f)", color[0], color[1], color[2]),
		})
	}
	table.SetFooter([]string{
		"",
		fmt.Sprintf("seed %d", seed),
		fmt.Sprintf("%d accepted", stats.Accepted),
		fmt.Sprintf("%d metals", stats.Metals),
		fmt.Sprintf("%d rejected", stats.Rejected),
	})
	table.Render()

	logger.Noticef("scene\n%s", buf.String())
	return nil
}
