// Command gridsnap replays a grid scenario and writes one PNG per step.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"lazygrid/pkg/lazygrid"
	"lazygrid/pkg/render"
	"lazygrid/pkg/scenario"
	"lazygrid/pkg/text"
	"lazygrid/pkg/visualtest"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gridsnap", flag.ContinueOnError)
	fs.SetOutput(stderr)
	outDir := fs.String("o", ".", "output directory for PNG files")
	refDir := fs.String("ref", "", "compare every frame against the reference PNGs in this directory")
	update := fs.Bool("update", false, "write the frames into -ref instead of comparing")
	labels := fs.Bool("labels", true, "draw item indices")
	verbose := fs.Bool("v", false, "log grid diagnostics to stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: gridsnap [flags] <scenario.toml>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}

	sc, err := scenario.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error loading scenario: %v\n", err)
		return 1
	}

	var opts []scenario.Option
	if *verbose {
		opts = append(opts, scenario.WithLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	fmt.Fprintf(stderr, "Running %s (%d steps)...\n", sc.Name, len(sc.Steps))
	frames, err := scenario.Run(ctx, sc, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error running scenario: %v\n", err)
		return 1
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(stderr, "Error creating output directory: %v\n", err)
		return 1
	}

	width, height := canvasSize(sc.Props)
	labelFont := text.DefaultFontConfig().FontPath(true)
	failed := 0
	for _, f := range frames {
		r := render.NewRenderer(width, height, render.WithLabels(*labels), render.WithFont(labelFont, 11))
		if *labels && r.Fallback() && f.Step == 0 {
			fmt.Fprintf(stderr, "Font %s not found, drawing labels in the built-in face\n", labelFont)
		}
		r.Render(f.Placements, render.View{Axis: sc.Props.Axis, Offset: f.Offset, Total: f.Diagnostics.TotalMainSize})

		name := fmt.Sprintf("%s-%03d.png", sc.Name, f.Step)
		path := filepath.Join(*outDir, name)
		if err := r.SavePNG(path); err != nil {
			fmt.Fprintf(stderr, "Error saving PNG: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "step %d offset=%.1f predictions=%d settled=%v active=[%d,%d]\n%s\n",
			f.Step, f.Offset, f.Predictions, f.Settled, f.Diagnostics.Active.Start, f.Diagnostics.Active.End, f.Diagnostics.Diagnostics)

		if *refDir == "" {
			continue
		}
		ref := filepath.Join(*refDir, name)
		if *update {
			if err := visualtest.UpdateReferenceImage(r.Image(), ref); err != nil {
				fmt.Fprintf(stderr, "Error updating reference: %v\n", err)
				return 1
			}
			continue
		}
		opts := visualtest.DefaultOptions()
		opts.DiffImagePath = filepath.Join(*outDir, fmt.Sprintf("%s-%03d-diff.png", sc.Name, f.Step))
		result, err := visualtest.CompareFiles(path, ref, opts)
		if err != nil {
			fmt.Fprintf(stderr, "Error comparing %s: %v\n", name, err)
			failed++
			continue
		}
		if !result.Match {
			fmt.Fprintf(stderr, "%s differs from reference: %d of %d pixels\n", name, result.DifferentPixels, result.TotalPixels)
			failed++
		}
	}

	if failed > 0 {
		return 1
	}
	fmt.Fprintf(stderr, "Saved %d frames to %s\n", len(frames), *outDir)
	return 0
}

// canvasSize is the viewport in pixels including padding on both sides.
func canvasSize(p lazygrid.Props) (width, height int) {
	if p.Axis == lazygrid.Horizontal {
		return int(p.RealMainSize + 2*p.Padding.X), int(p.CrossSize + 2*p.Padding.Y)
	}
	return int(p.CrossSize + 2*p.Padding.X), int(p.RealMainSize + 2*p.Padding.Y)
}
