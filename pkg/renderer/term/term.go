// Package term composites the layers of a memory renderer into a grid of
// terminal cells.
//
// Layout units map to cells through a configurable cell size. Each layer
// fills its frame with the style registered for its class and prints its
// content from the top-left corner, one line per row. Layers with
// reduced opacity are drawn faint; invisible layers and their subtrees are
// skipped.
package term

import (
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/valyala/bytebufferpool"

	"github.com/go-drift/viewtree/pkg/layout"
	"github.com/go-drift/viewtree/pkg/renderer/memory"
)

// Source provides the layers to composite.
type Source interface {
	Surface() []memory.Snapshot
}

type cell struct {
	r     rune
	style string
	faint bool
}

// Compositor paints a Source into terminal frames.
type Compositor struct {
	src          Source
	cols, rows   int
	cellW, cellH float64
	styles       map[string]lipgloss.Style
	plain        bool
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithSize sets the grid size in cells.
func WithSize(cols, rows int) Option {
	return func(c *Compositor) {
		c.cols, c.rows = max(cols, 0), max(rows, 0)
	}
}

// WithCellSize sets how many layout units one cell spans.
func WithCellSize(w, h float64) Option {
	return func(c *Compositor) {
		if w > 0 && h > 0 {
			c.cellW, c.cellH = w, h
		}
	}
}

// WithStyle registers the style for layers of the given class.
func WithStyle(class string, style lipgloss.Style) Option {
	return func(c *Compositor) { c.styles[class] = style }
}

// WithPlain disables styling; frames contain text only.
func WithPlain() Option {
	return func(c *Compositor) { c.plain = true }
}

// New creates an 80x24 compositor with one layout unit per cell.
func New(src Source, opts ...Option) *Compositor {
	c := &Compositor{
		src:    src,
		cols:   80,
		rows:   24,
		cellW:  1,
		cellH:  1,
		styles: make(map[string]lipgloss.Style),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resize changes the grid size.
func (c *Compositor) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 0), max(rows, 0)
}

// Frame returns the current surface as newline-separated rows.
func (c *Compositor) Frame() string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	c.write(buf)
	return buf.String()
}

// WriteTo writes the current frame to w.
func (c *Compositor) WriteTo(w io.Writer) (int64, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	c.write(buf)
	return buf.WriteTo(w)
}

func (c *Compositor) write(buf *bytebufferpool.ByteBuffer) {
	grid := c.paint()
	for y, row := range grid {
		if y > 0 {
			buf.WriteByte('\n')
		}
		c.writeRow(buf, row)
	}
}

// writeRow emits runs of equally styled cells through one Render call each.
func (c *Compositor) writeRow(buf *bytebufferpool.ByteBuffer, row []cell) {
	var run strings.Builder
	flush := func(style string, faint bool) {
		if run.Len() == 0 {
			return
		}
		buf.WriteString(c.render(style, faint, run.String()))
		run.Reset()
	}
	for x, cl := range row {
		if x > 0 && (cl.style != row[x-1].style || cl.faint != row[x-1].faint) {
			flush(row[x-1].style, row[x-1].faint)
		}
		run.WriteRune(cl.r)
	}
	if len(row) > 0 {
		last := row[len(row)-1]
		flush(last.style, last.faint)
	}
}

func (c *Compositor) render(class string, faint bool, text string) string {
	if c.plain {
		return text
	}
	style, ok := c.styles[class]
	if !ok && !faint {
		return text
	}
	if faint {
		style = style.Faint(true)
	}
	return style.Render(text)
}

func (c *Compositor) paint() [][]cell {
	grid := make([][]cell, c.rows)
	for y := range grid {
		grid[y] = make([]cell, c.cols)
		for x := range grid[y] {
			grid[y][x].r = ' '
		}
	}
	var walk func(snaps []memory.Snapshot, ox, oy float64, faint bool)
	walk = func(snaps []memory.Snapshot, ox, oy float64, faint bool) {
		for _, s := range snaps {
			if !s.Visible || s.Layout.Opacity <= 0 {
				continue
			}
			f := s.Layout.Frame(ox, oy)
			dim := faint || s.Layout.Opacity < 1
			c.fill(grid, f, s, dim)
			walk(s.Children, f.X, f.Y, dim)
		}
	}
	walk(c.src.Surface(), 0, 0, false)
	return grid
}

func (c *Compositor) fill(grid [][]cell, f layout.Rect, s memory.Snapshot, faint bool) {
	x0, y0, x1, y1 := c.cells(f)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			grid[y][x] = cell{r: ' ', style: s.Class, faint: faint}
		}
	}
	if s.Content == "" {
		return
	}
	for i, line := range strings.Split(s.Content, "\n") {
		y := y0 + i
		if y >= y1 {
			break
		}
		x := x0
		for _, r := range line {
			if x >= x1 {
				break
			}
			grid[y][x].r = r
			x++
		}
	}
}

// cells converts f to a clipped half-open cell range.
func (c *Compositor) cells(f layout.Rect) (x0, y0, x1, y1 int) {
	x0 = clamp(int(math.Floor(f.X/c.cellW)), c.cols)
	y0 = clamp(int(math.Floor(f.Y/c.cellH)), c.rows)
	x1 = clamp(int(math.Ceil((f.X+f.Width)/c.cellW)), c.cols)
	y1 = clamp(int(math.Ceil((f.Y+f.Height)/c.cellH)), c.rows)
	return x0, y0, x1, y1
}

func clamp(v, limit int) int {
	return min(max(v, 0), limit)
}
