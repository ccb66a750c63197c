// Package layout describes where a view sits relative to its parent and how
// it is drawn: offsets, size, opacity and scale.
package layout

import "fmt"

// Key identifies one layout property.
type Key uint8

const (
	KeyLeft Key = 1 << iota
	KeyTop
	KeyWidth
	KeyHeight
	KeyOpacity
	KeyScale

	// KeyAll selects every property.
	KeyAll = KeyLeft | KeyTop | KeyWidth | KeyHeight | KeyOpacity | KeyScale
)

// Has reports whether every property in other is selected by k.
func (k Key) Has(other Key) bool {
	return k&other == other
}

func (k Key) String() string {
	names := []struct {
		key  Key
		name string
	}{
		{KeyLeft, "left"}, {KeyTop, "top"}, {KeyWidth, "width"},
		{KeyHeight, "height"}, {KeyOpacity, "opacity"}, {KeyScale, "scale"},
	}
	out := ""
	for _, n := range names {
		if k&n.key == 0 {
			continue
		}
		if out != "" {
			out += ","
		}
		out += n.name
	}
	return "{" + out + "}"
}

// Layout is a view's placement within its parent.
type Layout struct {
	Left    float64 `yaml:"left"`
	Top     float64 `yaml:"top"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Opacity float64 `yaml:"opacity"`
	Scale   float64 `yaml:"scale"`
}

// Default returns a zero-sized, fully opaque, unscaled layout.
func Default() Layout {
	return Layout{Opacity: 1, Scale: 1}
}

// Get returns the value of a single property.
func (l Layout) Get(k Key) float64 {
	switch k {
	case KeyLeft:
		return l.Left
	case KeyTop:
		return l.Top
	case KeyWidth:
		return l.Width
	case KeyHeight:
		return l.Height
	case KeyOpacity:
		return l.Opacity
	case KeyScale:
		return l.Scale
	}
	panic(fmt.Sprintf("layout: Get needs a single key, got %s", k))
}

// Set assigns a single property.
func (l *Layout) Set(k Key, v float64) {
	switch k {
	case KeyLeft:
		l.Left = v
	case KeyTop:
		l.Top = v
	case KeyWidth:
		l.Width = v
	case KeyHeight:
		l.Height = v
	case KeyOpacity:
		l.Opacity = v
	case KeyScale:
		l.Scale = v
	default:
		panic(fmt.Sprintf("layout: Set needs a single key, got %s", k))
	}
}

func (k Key) each(fn func(Key)) {
	for bit := KeyLeft; bit <= KeyScale; bit <<= 1 {
		if k&bit != 0 {
			fn(bit)
		}
	}
}

// Merge returns l with the properties selected by keys copied from src.
func (l Layout) Merge(src Layout, keys Key) Layout {
	keys.each(func(k Key) {
		l.Set(k, src.Get(k))
	})
	return l
}

// Lerp interpolates the selected properties from l towards to by t in [0, 1].
// Unselected properties keep l's values.
func (l Layout) Lerp(to Layout, t float64, keys Key) Layout {
	out := l
	keys.each(func(k Key) {
		from := l.Get(k)
		out.Set(k, from+(to.Get(k)-from)*t)
	})
	return out
}

// Diff returns the keys whose values differ between l and other.
func (l Layout) Diff(other Layout) Key {
	var d Key
	KeyAll.each(func(k Key) {
		if l.Get(k) != other.Get(k) {
			d |= k
		}
	})
	return d
}

// Rect is an absolute rectangle on the display surface.
type Rect struct {
	X, Y, Width, Height float64
}

// Frame returns the rectangle occupied by l inside a parent whose origin is
// at (originX, originY). Scale grows or shrinks the rectangle around its
// center.
func (l Layout) Frame(originX, originY float64) Rect {
	w := l.Width * l.Scale
	h := l.Height * l.Scale
	return Rect{
		X:      originX + l.Left + (l.Width-w)/2,
		Y:      originY + l.Top + (l.Height-h)/2,
		Width:  w,
		Height: h,
	}
}

// Intersect returns the overlap of r and other, or a zero Rect.
func (r Rect) Intersect(other Rect) Rect {
	x0, y0 := max(r.X, other.X), max(r.Y, other.Y)
	x1 := min(r.X+r.Width, other.X+other.Width)
	y1 := min(r.Y+r.Height, other.Y+other.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}
