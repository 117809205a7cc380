package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pathtracer",
		Short:         "Progressive Monte Carlo path tracer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRenderCmd(), newScenesCmd())
	return withErrorReporting(root)
}

// withErrorReporting prints the error of any subcommand to stderr
func withErrorReporting(root *cobra.Command) *cobra.Command {
	for _, cmd := range root.Commands() {
		run := cmd.RunE
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args)
			if err != nil {
				out := termenv.NewOutput(cmd.ErrOrStderr())
				fmt.Fprintln(cmd.ErrOrStderr(), out.String("error:").Foreground(termenv.ANSIRed).Bold(), err)
			}
			return err
		}
	}
	return root
}

type renderFlags struct {
	configPath string
	verbose    bool
}

func newRenderCmd() *cobra.Command {
	var flags renderFlags
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a built-in scene to an image file",
		Example: `  pathtracer render --scene cornell-box --samples 200
  pathtracer render --config render.toml --passes 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveConfig(cmd, flags.configPath, cfg)
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if flags.verbose {
				level = slog.LevelDebug
			}
			logger := core.NewLogger(cmd.ErrOrStderr(), level)

			_, err = runRender(cmd.Context(), resolved, cmd.OutOrStdout(), logger)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "TOML render file")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "log band and pass details to stderr")
	f.StringVarP(&cfg.Scene.Name, "scene", "s", cfg.Scene.Name, "scene ID (see 'pathtracer scenes')")
	f.IntVar(&cfg.Render.Width, "width", cfg.Render.Width, "image width (0 uses the scene's)")
	f.IntVar(&cfg.Render.Height, "height", cfg.Render.Height, "image height (0 keeps the scene's aspect ratio)")
	f.IntVar(&cfg.Render.SamplesPerPixel, "samples", cfg.Render.SamplesPerPixel, "samples per pixel (0 uses the scene's)")
	f.IntVar(&cfg.Render.MaxDepth, "depth", cfg.Render.MaxDepth, "maximum bounces (0 uses the scene's)")
	f.IntVarP(&cfg.Render.Threads, "threads", "t", cfg.Render.Threads, "worker count (0 uses one per CPU)")
	f.Int64Var(&cfg.Render.Seed, "seed", cfg.Render.Seed, "random seed")
	f.IntVarP(&cfg.Render.Passes, "passes", "p", cfg.Render.Passes, "progressive passes")
	f.StringVarP(&cfg.Output.Path, "output", "o", cfg.Output.Path, "output image path")
	f.StringVar(&cfg.Output.Format, "format", cfg.Output.Format, "output format: png, jpeg, bmp or tiff")
	return cmd
}

// resolveConfig loads the config file, if any, then applies the flags the user set
func resolveConfig(cmd *cobra.Command, path string, flagValues config.Config) (config.Config, error) {
	if path == "" {
		return flagValues, flagValues.Validate()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	f := cmd.Flags()
	override := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	override("scene", func() { cfg.Scene.Name = flagValues.Scene.Name })
	override("width", func() { cfg.Render.Width = flagValues.Render.Width })
	override("height", func() { cfg.Render.Height = flagValues.Render.Height })
	override("samples", func() { cfg.Render.SamplesPerPixel = flagValues.Render.SamplesPerPixel })
	override("depth", func() { cfg.Render.MaxDepth = flagValues.Render.MaxDepth })
	override("threads", func() { cfg.Render.Threads = flagValues.Render.Threads })
	override("seed", func() { cfg.Render.Seed = flagValues.Render.Seed })
	override("passes", func() { cfg.Render.Passes = flagValues.Render.Passes })
	override("output", func() { cfg.Output.Path = flagValues.Output.Path })
	override("format", func() { cfg.Output.Format = flagValues.Output.Format })

	return cfg, cfg.Validate()
}

// runRender renders the configured scene, printing one status line per pass, and writes
// the final image. It returns the path written.
func runRender(ctx context.Context, cfg config.Config, stdout io.Writer, logger core.Logger) (string, error) {
	out := termenv.NewOutput(stdout)
	label := func(s string) termenv.Style { return out.String(s).Foreground(termenv.ANSICyan).Bold() }

	sceneObj, err := scene.New(cfg.Scene.Name, core.NewSeededSampler(cfg.Render.Seed), geometry.CameraConfig{
		Width:       cfg.Render.Width,
		AspectRatio: cfg.Render.AspectRatio(),
	})
	if err != nil {
		return "", err
	}

	raytracer, err := renderer.NewProgressiveRaytracer(sceneObj, renderer.RenderOptions{
		Width:           cfg.Render.Width,
		Height:          cfg.Render.Height,
		SamplesPerPixel: cfg.Render.SamplesPerPixel,
		MaxDepth:        cfg.Render.MaxDepth,
		Threads:         cfg.Render.Threads,
		Passes:          cfg.Render.Passes,
		Seed:            cfg.Render.Seed,
		Logger:          logger,
	})
	if err != nil {
		return "", err
	}

	fmt.Fprintf(stdout, "%s %s (%d primitives)\n", label("scene"), sceneObj.Name, sceneObj.GetPrimitiveCount())

	passChan, errChan := raytracer.RenderProgressive(ctx)
	var final renderer.PassResult
	for result := range passChan {
		final = result
		fmt.Fprintf(stdout, "%s %d/%d  %.0f spp  noise %.4f  %s\n",
			label("pass"), result.PassNumber, raytracer.Passes(),
			result.Stats.AverageSamples, result.Stats.NoiseEstimate,
			result.Stats.Duration.Round(time.Millisecond))
	}
	if err := <-errChan; err != nil {
		if errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("render interrupted: %w", err)
		}
		return "", err
	}

	path := cfg.OutputPath()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := loaders.SaveImage(final.Image.ToRGBA(), path); err != nil {
		return "", err
	}

	stats := final.Stats
	fmt.Fprintf(stdout, "%s %s  %dx%d  %d samples  %s\n",
		out.String("saved").Foreground(termenv.ANSIGreen).Bold(), path,
		final.Image.Width, final.Image.Height, stats.TotalSamples,
		stats.Duration.Round(time.Millisecond))
	return path, nil
}

func newScenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List the built-in scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printScenes(cmd.OutOrStdout())
			return nil
		},
	}
}

func printScenes(w io.Writer) {
	out := termenv.NewOutput(w)
	for _, group := range scene.ListAllScenes().Groups {
		fmt.Fprintln(w, out.String(group.Name).Bold())
		for _, info := range group.Scenes {
			fmt.Fprintf(w, "  %-20s %s\n", info.ID, info.Description)
		}
	}
}
