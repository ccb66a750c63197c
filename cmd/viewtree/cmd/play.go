package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	xterm "golang.org/x/term"

	"github.com/go-drift/viewtree/cmd/viewtree/internal/config"
	"github.com/go-drift/viewtree/cmd/viewtree/internal/scene"
	"github.com/go-drift/viewtree/pkg/animation"
	"github.com/go-drift/viewtree/pkg/errors"
	"github.com/go-drift/viewtree/pkg/metrics"
	"github.com/go-drift/viewtree/pkg/renderer/memory"
	"github.com/go-drift/viewtree/pkg/renderer/term"
	"github.com/go-drift/viewtree/pkg/runloop"
	"github.com/go-drift/viewtree/pkg/view"
)

func init() {
	RegisterCommand(&Command{
		Name:  "play",
		Short: "Run a scene's script",
		Long: `Mount a scene and run its script in real time.

After each scripted step the surface is printed, followed by the state of
every node. The run ends once the last step has run and every transition
has settled, or on interrupt.

Flags:
  --metrics     Print Prometheus metrics for the run when it ends
  --plain       Print frames without colors`,
		Usage: "viewtree play [scene.yaml] [--metrics] [--plain]",
		Run:   runPlay,
	})
}

type playOptions struct {
	path    string
	metrics bool
	plain   bool
}

func runPlay(args []string) error {
	var opts playOptions
	for _, arg := range args {
		switch arg {
		case "--metrics":
			opts.metrics = true
		case "--plain":
			opts.plain = true
		default:
			if strings.HasPrefix(arg, "--") {
				return fmt.Errorf("unknown flag %s", arg)
			}
			opts.path = arg
		}
	}

	res, err := loadScene(opts.path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return play(ctx, os.Stdout, res, opts)
}

func play(ctx context.Context, w io.Writer, res *config.Resolved, opts playOptions) error {
	logger := slog.Default()
	sched := animation.NewScheduler(nil)
	loop := runloop.New(sched, runloop.WithFrameInterval(res.FrameInterval), runloop.WithLogger(logger))
	collector := metrics.New("viewtree")
	reg := prometheus.NewRegistry()
	reg.MustRegister(collector)

	r := memory.New()
	treeOpts := []view.TreeOption{view.WithScheduler(sched), view.WithObserver(collector)}
	if res.Watchdog > 0 {
		treeOpts = append(treeOpts, view.WithWatchdog(res.Watchdog, loop))
	}
	tree := view.NewTree(r, treeOpts...)
	sc, err := scene.Build(tree, res, logger)
	if err != nil {
		return err
	}

	cols, rows := res.Width, res.Height
	styled := !opts.plain
	if f, ok := w.(*os.File); ok && xterm.IsTerminal(int(f.Fd())) {
		if tw, th, err := xterm.GetSize(int(f.Fd())); err == nil {
			cols, rows = min(cols, tw), min(rows, th-len(sc.Names())-2)
		}
	} else {
		styled = false
	}
	termOpts := []term.Option{term.WithSize(cols, max(rows, 1))}
	if styled {
		termOpts = append(termOpts, termStyles(res)...)
	} else {
		termOpts = append(termOpts, term.WithPlain())
	}
	comp := term.New(r, termOpts...)

	show := func(title string) {
		fmt.Fprintf(w, "── %s ──\n", title)
		comp.WriteTo(w)
		fmt.Fprintln(w)
		for _, name := range sc.Names() {
			id, _ := sc.ID(name)
			fmt.Fprintf(w, "  %-16s %s\n", name, tree.State(id))
		}
	}

	remaining := len(res.Script)
	finish := func() {
		if remaining == 0 && !sched.Active() {
			loop.Close()
		}
	}
	loop.Post(func() {
		sc.Mount()
		show("mount")
		finish()
	})
	for _, step := range res.Script {
		loop.AfterFunc(step.At, func() {
			remaining--
			if _, err := sc.Apply(step); err != nil {
				errors.Report(&errors.ViewError{Op: "scene." + step.Action, Kind: errors.KindConfig, Node: step.Node, Err: err})
			}
			show(fmt.Sprintf("%s %s %s", step.At, step.Action, step.Node))
			finish()
		})
	}

	// Settled animations leave no task behind, so poll for the end.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(res.FrameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if loop.Post(finish) != nil {
					return
				}
			}
		}
	}()

	if err := loop.Run(ctx); err != nil && !stderrors.Is(err, context.Canceled) {
		return err
	}
	show("settled")
	logger.Debug("play finished", "frames", loop.Frames(), "tasks", loop.Tasks())

	if opts.metrics {
		return writeMetrics(w, reg)
	}
	return nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
