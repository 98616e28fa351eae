package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tilewall/internal/config"
	"github.com/matzehuels/tilewall/pkg/arrange"
	"github.com/matzehuels/tilewall/pkg/errors"
	"github.com/matzehuels/tilewall/pkg/frame"
	"github.com/matzehuels/tilewall/pkg/render"
	"github.com/matzehuels/tilewall/pkg/scene"
)

// Record output formats.
const (
	recordWebP = "webp"
	recordSVG  = "svg"
	recordJSON = "json"
)

// recordCommand creates the record command for offline frame capture.
func (c *CLI) recordCommand() *cobra.Command {
	var (
		flags    config.Flags
		duration time.Duration
		output   string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "record [table|sphere|helix|grid]",
		Short: "Record one transition to image frames",
		Long: `Record one transition to image frames.

The scene runs on a manual clock advanced by exactly 1/fps per frame, so the
output is identical on every run with the same seed. Without an argument the
opening scatter-to-table transition is recorded; otherwise the tiles settle
into the table first and the transition to the given arrangement is recorded.

Formats: webp and svg write one file per frame; json writes a single pose
trace.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeArrangements,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateFormat(format, recordWebP, recordSVG, recordJSON); err != nil {
				return err
			}
			target := arrange.Table
			if len(args) == 1 {
				a, err := arrange.Parse(args[0])
				if err != nil {
					return err
				}
				target = a
			}
			if cmd.Flags().Changed("duration") {
				flags.Duration = &duration
			}
			cfg, err := c.loadConfig(flags)
			if err != nil {
				return err
			}
			return c.runRecord(cmd.Context(), cfg, target, output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "frames", "output directory")
	cmd.Flags().StringVarP(&format, "format", "f", recordWebP, "output format: webp, svg, json")
	cmd.Flags().StringVarP(&flags.Source, "source", "s", "", "dataset CSV file or URL (default: sample rows)")
	cmd.Flags().IntVarP(&flags.Count, "count", "n", 0, "number of sample rows when no source is given")
	cmd.Flags().DurationVarP(&duration, "duration", "d", config.DefaultDuration, "transition duration")
	cmd.Flags().IntVar(&flags.FPS, "fps", 0, "frames per second")
	cmd.Flags().Uint64Var(&flags.Seed, "seed", 0, "scatter seed")
	cmd.Flags().IntVar(&flags.Width, "width", 0, "frame width in pixels")
	cmd.Flags().IntVar(&flags.Height, "height", 0, "frame height in pixels")
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRecord(ctx context.Context, cfg config.Config, target arrange.Arrangement, dir, format string) error {
	store, err := c.openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := c.loadRecords(ctx, cfg, store)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	rec := newRecorder(ctx, dir, format, append(cfg.RenderOptions(), render.WithRecords(records)))
	sc := c.newScene(cfg, len(records), scene.WithRender(rec.capture))

	step := frame.Interval(cfg.Animation.FPS)
	start := time.Unix(0, 0)
	if target != arrange.Table {
		// Settle into the table off the record.
		sc.Tick(start)
		start = start.Add(sc.Duration())
		sc.Tick(start)
		sc.Arrange(target)
	}
	rec.armed = true

	total := int(sc.Duration()/step) + 2
	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Recording %s...", target))
	spinner.Start()

	clock := frame.NewManual(start)
	runErr := make(chan error, 1)
	// The loop ends when the clock stops, never mid-step.
	go func() { runErr <- sc.Driver().Run(context.WithoutCancel(ctx), clock) }()
	for i := range total {
		if ctx.Err() != nil {
			break
		}
		clock.Step(step)
		spinner.Update(fmt.Sprintf("Recording %s: frame %d/%d", target, i+1, total))
	}
	clock.Stop()

	err = <-runErr
	if err == nil {
		err = ctx.Err()
	}
	if werr := rec.finish(); err == nil {
		err = werr
	}
	if err != nil {
		spinner.StopWithError("Recording failed")
		return err
	}
	spinner.Stop()
	prog.done("Recording finished", "frames", rec.frames, "format", format)

	printSuccess("Recording complete")
	printFile(dir)
	printStats(false,
		fmt.Sprintf("%d frames", rec.frames),
		fmt.Sprintf("%d tiles", len(records)),
		humanize.Bytes(rec.bytes.Load()))
	return nil
}

// =============================================================================
// Recorder
// =============================================================================

// recorder captures one snapshot per frame on the loop goroutine and
// encodes frames on a bounded worker pool.
type recorder struct {
	dir    string
	format string
	opts   []render.Option
	g      *errgroup.Group
	ctx    context.Context

	armed  bool
	last   uint64
	frames int
	trace  []scene.Snapshot
	bytes  atomic.Uint64
}

func newRecorder(ctx context.Context, dir, format string, opts []render.Option) *recorder {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	return &recorder{dir: dir, format: format, opts: opts, g: g, ctx: ctx}
}

// capture is the scene render callback.
func (r *recorder) capture(sc *scene.Scene) {
	snap := sc.Snapshot()
	if !r.armed || snap.Frame == r.last {
		return
	}
	r.last = snap.Frame
	r.frames++

	if r.format == recordJSON {
		r.trace = append(r.trace, snap)
		return
	}
	idx := r.frames
	r.g.Go(func() error {
		if r.ctx.Err() != nil {
			return r.ctx.Err()
		}
		n, err := r.writeFrame(idx, snap)
		r.bytes.Add(n)
		return err
	})
}

// writeFrame encodes snap as frame number idx.
func (r *recorder) writeFrame(idx int, snap scene.Snapshot) (uint64, error) {
	var buf bytes.Buffer
	switch r.format {
	case recordSVG:
		buf.Write(render.RenderSVG(snap, r.opts...))
	default:
		if err := render.EncodeWebP(&buf, render.RenderImage(snap, r.opts...)); err != nil {
			return 0, fmt.Errorf("encode frame %d: %w", idx, err)
		}
	}
	path := filepath.Join(r.dir, fmt.Sprintf("frame_%04d.%s", idx, r.format))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return uint64(buf.Len()), nil
}

// finish waits for pending frames and writes the trace for the json format.
func (r *recorder) finish() error {
	if err := r.g.Wait(); err != nil {
		return err
	}
	if r.format != recordJSON {
		return nil
	}
	data, err := json.Marshal(r.trace)
	if err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	path := filepath.Join(r.dir, "trace.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	r.bytes.Store(uint64(len(data)))
	return nil
}
