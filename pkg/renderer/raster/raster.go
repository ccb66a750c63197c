// Package raster paints the layers of a memory renderer into an RGBA image.
//
// One layout unit is one pixel. Layer frames are filled with the color of
// their class, blended by opacity, and content is drawn with a fixed 7x13
// bitmap face.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/viewtree/pkg/layout"
	"github.com/go-drift/viewtree/pkg/renderer/memory"
)

// Source provides the layers to paint.
type Source interface {
	Surface() []memory.Snapshot
}

// Painter paints a Source into images.
type Painter struct {
	src        Source
	width      int
	height     int
	background color.Color
	text       color.Color
	fills      map[string]color.Color
	face       font.Face
}

// Option configures a Painter.
type Option func(*Painter)

// WithBackground sets the color of the bare surface.
func WithBackground(c color.Color) Option {
	return func(p *Painter) { p.background = c }
}

// WithTextColor sets the color content is drawn in.
func WithTextColor(c color.Color) Option {
	return func(p *Painter) { p.text = c }
}

// WithFill sets the fill color for layers of class. Layers of classes
// without a fill are transparent apart from their content.
func WithFill(class string, c color.Color) Option {
	return func(p *Painter) { p.fills[class] = c }
}

// New creates a painter producing width x height images.
func New(src Source, width, height int, opts ...Option) *Painter {
	p := &Painter{
		src:        src,
		width:      max(width, 1),
		height:     max(height, 1),
		background: color.White,
		text:       color.Black,
		fills:      make(map[string]color.Color),
		face:       basicfont.Face7x13,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Paint returns a new image of the current surface.
func (p *Painter) Paint() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(p.background), image.Point{}, draw.Src)

	var walk func(snaps []memory.Snapshot, ox, oy, alpha float64)
	walk = func(snaps []memory.Snapshot, ox, oy, alpha float64) {
		for _, s := range snaps {
			if !s.Visible || s.Layout.Opacity <= 0 {
				continue
			}
			f := s.Layout.Frame(ox, oy)
			a := alpha * math.Min(s.Layout.Opacity, 1)
			p.paintLayer(img, f, s, a)
			walk(s.Children, f.X, f.Y, a)
		}
	}
	walk(p.src.Surface(), 0, 0, 1)
	return img
}

// WritePNG paints the surface and encodes it to w.
func (p *Painter) WritePNG(w io.Writer) error {
	return png.Encode(w, p.Paint())
}

func (p *Painter) paintLayer(img *image.RGBA, f layout.Rect, s memory.Snapshot, alpha float64) {
	r := pixels(f).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	if fill, ok := p.fills[s.Class]; ok {
		draw.DrawMask(img, r, image.NewUniform(fill), image.Point{}, uniformAlpha(alpha), image.Point{}, draw.Over)
	}
	if s.Content == "" {
		return
	}
	metrics := p.face.Metrics()
	lineHeight := metrics.Height.Ceil()
	d := &font.Drawer{
		Dst:  clipped{img, r},
		Src:  image.NewUniform(withAlpha(p.text, alpha)),
		Face: p.face,
	}
	for i, line := range strings.Split(s.Content, "\n") {
		top := r.Min.Y + i*lineHeight
		if top >= r.Max.Y {
			break
		}
		d.Dot = fixed.Point26_6{
			X: fixed.I(r.Min.X),
			Y: fixed.I(top) + metrics.Ascent,
		}
		d.DrawString(line)
	}
}

func pixels(f layout.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(f.X)), int(math.Floor(f.Y)),
		int(math.Ceil(f.X+f.Width)), int(math.Ceil(f.Y+f.Height)),
	)
}

func uniformAlpha(a float64) *image.Uniform {
	return image.NewUniform(color.Alpha{A: uint8(math.Round(a * 255))})
}

func withAlpha(c color.Color, a float64) color.Color {
	r, g, b, ca := c.RGBA()
	scale := func(v uint32) uint16 { return uint16(float64(v) * a) }
	return color.RGBA64{R: scale(r), G: scale(g), B: scale(b), A: scale(ca)}
}

// clipped limits drawing on an image to a rectangle.
type clipped struct {
	*image.RGBA
	clip image.Rectangle
}

func (c clipped) Bounds() image.Rectangle { return c.clip }
