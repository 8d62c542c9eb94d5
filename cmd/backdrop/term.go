package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/phanxgames/backdrop"
	"github.com/phanxgames/backdrop/termview"
)

var termTPS int

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Render a particle backdrop in the terminal",
	Long: `Draws the field with half-block characters, two pixels per cell. The mouse
pointer drives the field where the terminal reports motion. Press q, Esc or
Ctrl-C to quit.

Logs go to stderr and will garble the display; use --log-file with --verbose.`,
	RunE: runTerm,
}

func init() {
	termCmd.Flags().IntVar(&termTPS, "tps", 30, "frames per second")
}

func runTerm(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	field, err := backdrop.NewField(cfg,
		backdrop.WithLogger(logger),
		backdrop.WithName(fieldName()),
		backdrop.WithSeed(seed),
		backdrop.WithTPS(termTPS))
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	view := termview.New(screen, field,
		termview.WithLogger(logger),
		termview.WithTPS(termTPS))
	return view.Run(ctx)
}
