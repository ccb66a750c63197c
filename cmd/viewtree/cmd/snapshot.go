package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-drift/viewtree/cmd/viewtree/internal/config"
	"github.com/go-drift/viewtree/cmd/viewtree/internal/scene"
	"github.com/go-drift/viewtree/pkg/animation"
	"github.com/go-drift/viewtree/pkg/renderer/memory"
	"github.com/go-drift/viewtree/pkg/renderer/raster"
	"github.com/go-drift/viewtree/pkg/view"
)

func init() {
	RegisterCommand(&Command{
		Name:  "snapshot",
		Short: "Paint a scene to a PNG",
		Long: `Mount a scene, replay its script up to a point in time and paint the
surface to a PNG image. Time is simulated, so snapshots are reproducible.

Flags:
  -o, --output FILE   Image path (default: viewtree.png)
  --at DURATION       Scene time to stop at, e.g. 350ms (default: end of script)`,
		Usage: "viewtree snapshot [scene.yaml] [-o out.png] [--at 350ms]",
		Run:   runSnapshot,
	})
}

type snapshotOptions struct {
	path   string
	output string
	at     time.Duration
	atSet  bool
}

func runSnapshot(args []string) error {
	opts := snapshotOptions{output: "viewtree.png"}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			v, err := flagValue(args, i)
			if err != nil {
				return err
			}
			opts.output = v
			i++
		case "--at":
			v, err := flagValue(args, i)
			if err != nil {
				return err
			}
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid --at: %w", err)
			}
			opts.at, opts.atSet = d, true
			i++
		default:
			opts.path = args[i]
		}
	}

	res, err := loadScene(opts.path)
	if err != nil {
		return err
	}
	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.output, err)
	}
	if err := snapshot(f, res, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", opts.output)
	return nil
}

// stepClock is advanced by hand between frames.
type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

func snapshot(w io.Writer, res *config.Resolved, opts snapshotOptions) error {
	clock := &stepClock{now: time.Unix(0, 0)}
	sched := animation.NewScheduler(clock)
	r := memory.New()
	tree := view.NewTree(r, view.WithScheduler(sched))
	sc, err := scene.Build(tree, res, slog.Default())
	if err != nil {
		return err
	}

	end := opts.at
	if !opts.atSet {
		if n := len(res.Script); n > 0 {
			end = res.Script[n-1].At
		}
		// Let the last step's transitions finish.
		end += res.Duration
	}

	sc.Mount()
	var elapsed time.Duration
	next := 0
	for {
		for next < len(res.Script) && res.Script[next].At <= elapsed {
			if _, err := sc.Apply(res.Script[next]); err != nil {
				return err
			}
			next++
		}
		if elapsed >= end {
			break
		}
		step := min(res.FrameInterval, end-elapsed)
		elapsed += step
		clock.now = clock.now.Add(step)
		sched.Step()
	}

	return raster.New(r, res.Width, res.Height, rasterFills(res)...).WritePNG(w)
}
