package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/backdrop"
	"github.com/phanxgames/backdrop/presetwatch"
)

var (
	width, height  int
	watch          bool
	scriptPath     string
	showHUD        bool
	screenshotsDir string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open a window with a particle backdrop",
	Long: `Opens a resizable window and mounts one field onto it.

With --watch, edits to the --config file remount the field with the new
settings. With --script, a JSON script of pointer moves, resizes, waits and
screenshots drives the window instead of the real cursor.

Example:
  backdrop run --preset drift --hud
  backdrop run --config bg.yaml --watch`,
	RunE: runWindow,
}

func init() {
	runCmd.Flags().IntVar(&width, "width", 1280, "window width")
	runCmd.Flags().IntVar(&height, "height", 720, "window height")
	runCmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload --config on change")
	runCmd.Flags().StringVar(&scriptPath, "script", "", "JSON script to drive input")
	runCmd.Flags().BoolVar(&showHUD, "hud", false, "show FPS and particle counts")
	runCmd.Flags().StringVar(&screenshotsDir, "screenshots", "screenshots", "directory for script screenshots")
}

func runWindow(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	surface := backdrop.NewSurface(width, height, backdrop.WithLogger(logger))
	surface.ClearColor = backdrop.Color{R: 0.02, G: 0.02, B: 0.05, A: 1}
	surface.ScreenshotDir = screenshotsDir
	surface.SetDebugMode(verbose)

	if showHUD {
		hud, err := backdrop.NewStatsOverlay(14)
		if err != nil {
			return err
		}
		surface.SetOverlay(hud)
	}
	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		script, err := backdrop.LoadScript(data)
		if err != nil {
			return fmt.Errorf("%s: %w", scriptPath, err)
		}
		surface.Play(script)
	}

	field, err := newField(cfg)
	if err != nil {
		return err
	}
	field.Mount(surface)

	g, gctx := errgroup.WithContext(ctx)
	if watch && configPath != "" {
		w, err := presetwatch.New(configPath, presetwatch.WithLogger(logger))
		if err != nil {
			return err
		}
		g.Go(func() error { return w.Run(gctx) })
		g.Go(func() error {
			for cfg := range w.Updates() {
				next, err := newField(cfg)
				if err != nil {
					logger.Warn("reload rejected", zap.Error(err))
					continue
				}
				surface.Post(func() {
					field.Unmount()
					field = next
					field.Mount(surface)
				})
			}
			return nil
		})
	}

	// The window must run on the main goroutine.
	runErr := backdrop.Run(gctx, surface, backdrop.RunConfig{
		Title:     "backdrop: " + fieldName(),
		Width:     width,
		Height:    height,
		Resizable: true,
	})
	stop()
	if err := g.Wait(); err != nil && runErr == nil {
		return err
	}
	return runErr
}

func newField(cfg backdrop.Config) (*backdrop.Field, error) {
	return backdrop.NewField(cfg,
		backdrop.WithLogger(logger),
		backdrop.WithName(fieldName()),
		backdrop.WithSeed(seed))
}
