package cmd

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/viewtree/cmd/viewtree/internal/config"
	"github.com/go-drift/viewtree/pkg/errors"
	"github.com/go-drift/viewtree/pkg/renderer/raster"
	"github.com/go-drift/viewtree/pkg/renderer/term"
)

// loadScene reads the scene at path, or viewtree.yaml in the working
// directory when path is empty, and installs its diagnostics settings.
func loadScene(path string) (*config.Resolved, error) {
	var cfg *config.Config
	var err error
	if path == "" {
		dir, werr := os.Getwd()
		if werr != nil {
			return nil, werr
		}
		cfg, err = config.LoadOptional(dir)
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, err
	}
	res, err := cfg.Resolve()
	if err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	if len(res.Nodes) == 0 {
		return nil, fmt.Errorf("scene has no nodes (looked for %s)", describe(path))
	}

	errors.SetDebugMode(res.Debug)
	errors.SetHandler(&errors.LogHandler{
		Logger:  slog.Default(),
		Verbose: logLevel.Level() <= slog.LevelDebug,
	})
	return res, nil
}

func describe(path string) string {
	if path == "" {
		return config.FileName
	}
	return path
}

// classes lists every class used by nodes, defaulting to node names.
func classes(nodes []config.Node) []string {
	var out []string
	for _, n := range nodes {
		if n.Class != "" {
			out = append(out, n.Class)
		} else {
			out = append(out, n.Name)
		}
		out = append(out, classes(n.Children)...)
	}
	return out
}

var termColors = []lipgloss.Color{"63", "170", "36", "214", "99", "203", "42", "141"}

var rasterColors = []color.RGBA{
	{R: 0x5f, G: 0x5f, B: 0xff, A: 0xff},
	{R: 0xd7, G: 0x5f, B: 0xd7, A: 0xff},
	{R: 0x00, G: 0xaf, B: 0x87, A: 0xff},
	{R: 0xff, G: 0xaf, B: 0x00, A: 0xff},
	{R: 0x87, G: 0x5f, B: 0xff, A: 0xff},
	{R: 0xff, G: 0x5f, B: 0x5f, A: 0xff},
	{R: 0x00, G: 0xd7, B: 0x87, A: 0xff},
	{R: 0xaf, G: 0x87, B: 0xff, A: 0xff},
}

func colorIndex(class string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(class))
	return int(h.Sum32() % uint32(n))
}

func termStyles(res *config.Resolved) []term.Option {
	var opts []term.Option
	for _, class := range classes(res.Nodes) {
		bg := termColors[colorIndex(class, len(termColors))]
		opts = append(opts, term.WithStyle(class, lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("15"))))
	}
	return opts
}

func rasterFills(res *config.Resolved) []raster.Option {
	var opts []raster.Option
	for _, class := range classes(res.Nodes) {
		opts = append(opts, raster.WithFill(class, rasterColors[colorIndex(class, len(rasterColors))]))
	}
	return opts
}
