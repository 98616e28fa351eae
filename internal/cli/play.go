package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tilewall/internal/config"
	"github.com/matzehuels/tilewall/pkg/arrange"
	"github.com/matzehuels/tilewall/pkg/frame"
	"github.com/matzehuels/tilewall/pkg/scene"
)

// playCommand creates the play command for the interactive terminal view.
func (c *CLI) playCommand() *cobra.Command {
	var (
		flags    config.Flags
		duration time.Duration
		start    string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Animate the tiles in the terminal",
		Long: `Animate the tiles in the terminal.

Keys t, s, h and g switch between the table, sphere, helix and grid
arrangements. Arrow keys orbit the camera, + and - zoom, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("duration") {
				flags.Duration = &duration
			}
			cfg, err := c.loadConfig(flags)
			if err != nil {
				return err
			}
			return c.runPlay(cmd.Context(), cfg, start)
		},
	}

	cmd.Flags().StringVarP(&flags.Source, "source", "s", "", "dataset CSV file or URL (default: sample rows)")
	cmd.Flags().IntVarP(&flags.Count, "count", "n", 0, "number of sample rows when no source is given")
	cmd.Flags().DurationVarP(&duration, "duration", "d", config.DefaultDuration, "arrangement change duration")
	cmd.Flags().IntVar(&flags.FPS, "fps", 0, "frames per second")
	cmd.Flags().Uint64Var(&flags.Seed, "seed", 0, "scatter seed")
	cmd.Flags().StringVarP(&start, "arrange", "a", "", "arrangement to start in instead of the table")
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "disable caching")
	cmd.RegisterFlagCompletionFunc("arrange", completeArrangements)

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, cfg config.Config, start string) error {
	var next arrange.Arrangement
	if start != "" {
		a, err := arrange.Parse(start)
		if err != nil {
			return err
		}
		next = a
	}

	store, err := c.openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := c.loadRecords(ctx, cfg, store)
	if err != nil {
		return err
	}

	// Log lines would tear the alternate screen.
	quiet := log.NewWithOptions(io.Discard, log.Options{})
	sc := c.newScene(cfg, len(records), scene.WithLogger(quiet))
	if next != "" {
		sc.Driver().Post(func() { sc.Arrange(next) })
	}

	model := NewPlayModel(sc, records, frame.Interval(cfg.Animation.FPS))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
