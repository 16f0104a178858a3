package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/lumen-render/lumen/log"
	"github.com/lumen-render/lumen/pkg/export"
	"github.com/lumen-render/lumen/pkg/film"
	"github.com/lumen-render/lumen/pkg/integrator"
	"github.com/lumen-render/lumen/pkg/render"
	"github.com/lumen-render/lumen/pkg/scene"
)

var logger = log.New("lumen")

func main() {
	app := &cli.App{
		Name:    "lumen",
		Usage:   "render scenes with physically-based light transport",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "v",
				Usage: "enable verbose logging",
			},
			&cli.BoolFlag{
				Name:  "vv",
				Usage: "enable even more verbose logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "render a scene progressively and export the image",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "scene",
						Value: "default",
						Usage: "built-in scene name (default, showcase)",
					},
					&cli.IntFlag{
						Name:  "width",
						Value: 512,
						Usage: "output image width in pixels",
					},
					&cli.IntFlag{
						Name:  "height",
						Value: 372,
						Usage: "output image height in pixels",
					},
					&cli.IntFlag{
						Name:  "passes",
						Value: 64,
						Usage: "number of refinement passes",
					},
					&cli.StringFlag{
						Name:  "integrator",
						Value: "bdpt",
						Usage: "light transport strategy (pt, bdpt, display)",
					},
					&cli.StringFlag{
						Name:  "out",
						Value: "out.exr",
						Usage: "output EXR path",
					},
					&cli.StringFlag{
						Name:  "png",
						Usage: "also write an 8-bit preview to this path",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "tracing goroutines (0 = all CPUs)",
					},
				},
				Action: renderScene,
			},
			{
				Name:   "scenes",
				Usage:  "list the built-in scenes",
				Action: listScenes,
			},
		},
		Before: func(ctx *cli.Context) error {
			if ctx.Bool("v") {
				log.SetLevel(log.Info)
			}
			if ctx.Bool("vv") {
				log.SetLevel(log.Debug)
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func selectIntegrator(name string) (integrator.Integrator, error) {
	switch strings.ToLower(name) {
	case "pt", "path":
		return integrator.NewPathTracer(), nil
	case "bdpt":
		return integrator.NewBdpt(), nil
	case "display":
		return integrator.DisplayColor{}, nil
	default:
		return nil, errors.Errorf("unknown integrator %q", name)
	}
}

func renderScene(ctx *cli.Context) error {
	sc, ok := scene.ByName(ctx.String("scene"))
	if !ok {
		return errors.Errorf("unknown scene %q", ctx.String("scene"))
	}

	integ, err := selectIntegrator(ctx.String("integrator"))
	if err != nil {
		return err
	}

	width, height := ctx.Int("width"), ctx.Int("height")
	if width <= 0 || height <= 0 {
		return errors.New("width and height must be positive")
	}
	passes := ctx.Int("passes")
	if passes <= 0 {
		return errors.New("passes must be positive")
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stage := render.NewStage(sc.Prims, ctx.Int("workers"))
	f := film.New(width, height)

	logger.Noticef("rendering %q at %dx%d, %d passes on %d workers",
		sc.Name, width, height, passes, stage.Workers())

	start := time.Now()
	completed := 0
	for pass := 1; pass <= passes; pass++ {
		passStart := time.Now()
		if err := stage.Trace(runCtx, sc.Camera, integ, f); err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Warningf("interrupted after %d passes", completed)
				break
			}
			return errors.Wrapf(err, "pass %d", pass)
		}
		completed++
		logger.Infof("pass %d/%d done in %v", pass, passes, time.Since(passStart).Round(time.Millisecond))
	}
	elapsed := time.Since(start)

	if completed == 0 {
		return errors.New("no passes completed")
	}

	writer := export.NewExrWriter()
	writer.Update(f)
	if err := writer.WriteFile(ctx.String("out")); err != nil {
		return err
	}
	logger.Noticef("wrote %s", ctx.String("out"))

	if pngPath := ctx.String("png"); pngPath != "" {
		if err := export.WritePNG(f, pngPath); err != nil {
			return err
		}
		logger.Noticef("wrote %s", pngPath)
	}

	printStats(sc, stage, completed, width, height, elapsed)
	return nil
}

func printStats(sc *scene.Scene, stage *render.Stage, passes, width, height int, elapsed time.Duration) {
	samples := passes * width * height

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"scene", sc.Name})
	table.Append([]string{"primitives", fmt.Sprintf("%d", stage.BVH().NumPrims())})
	table.Append([]string{"lights", fmt.Sprintf("%d", stage.BVH().NumLights())})
	table.Append([]string{"passes", fmt.Sprintf("%d", passes)})
	table.Append([]string{"samples", fmt.Sprintf("%d", samples)})
	table.Append([]string{"elapsed", elapsed.Round(time.Millisecond).String()})
	table.Append([]string{"samples/sec", fmt.Sprintf("%.0f", float64(samples)/elapsed.Seconds())})
	table.Render()
}

func listScenes(*cli.Context) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Scene", "Primitives"})
	for _, name := range []string{"default", "showcase"} {
		sc, _ := scene.ByName(name)
		table.Append([]string{name, fmt.Sprintf("%d", len(sc.Prims))})
	}
	table.Render()
	return nil
}
