package animation

import (
	"fmt"
	"math"
	"sort"
)

// Curve maps linear progress t in [0, 1] to eased progress.
type Curve func(t float64) float64

// Linear returns t unchanged.
func Linear(t float64) float64 { return t }

var (
	// Ease matches CSS ease.
	Ease = CubicBezier(0.25, 0.1, 0.25, 1.0)
	// EaseIn matches CSS ease-in. Suits views leaving the surface.
	EaseIn = CubicBezier(0.4, 0.0, 1.0, 1.0)
	// EaseOut matches CSS ease-out. Suits views entering the surface.
	EaseOut = CubicBezier(0.0, 0.0, 0.2, 1.0)
	// EaseInOut matches CSS ease-in-out.
	EaseInOut = CubicBezier(0.4, 0.0, 0.2, 1.0)
)

var curvesByName = map[string]Curve{
	"linear":    Linear,
	"ease":      Ease,
	"easeIn":    EaseIn,
	"easeOut":   EaseOut,
	"easeInOut": EaseInOut,
}

// CurveByName returns a named curve: linear, ease, easeIn, easeOut or
// easeInOut. The empty name is linear.
func CurveByName(name string) (Curve, error) {
	if name == "" {
		return Linear, nil
	}
	if c, ok := curvesByName[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("animation: unknown curve %q (have %v)", name, CurveNames())
}

// CurveNames lists the registered curve names in sorted order.
func CurveNames() []string {
	names := make([]string, 0, len(curvesByName))
	for name := range curvesByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CubicBezier returns a curve with control points (x1,y1) and (x2,y2),
// matching CSS cubic-bezier().
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	bezier := func(a, b, u float64) float64 {
		v := 1 - u
		return 3*v*v*u*a + 3*v*u*u*b + u*u*u
	}
	slope := func(a, b, u float64) float64 {
		v := 1 - u
		return 3*v*v*a + 6*v*u*(b-a) + 3*u*u*(1-b)
	}
	return func(t float64) float64 {
		switch {
		case t <= 0:
			return 0
		case t >= 1:
			return 1
		}
		// Solve x(u) = t by Newton's method, then by bisection if the
		// slope flattens out.
		u := t
		for range 8 {
			dx := bezier(x1, x2, u) - t
			if math.Abs(dx) < 1e-7 {
				return bezier(y1, y2, u)
			}
			d := slope(x1, x2, u)
			if math.Abs(d) < 1e-7 {
				break
			}
			u -= dx / d
		}
		lo, hi := 0.0, 1.0
		u = math.Min(math.Max(u, 0), 1)
		for range 20 {
			dx := bezier(x1, x2, u) - t
			if math.Abs(dx) < 1e-7 {
				break
			}
			if dx > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) / 2
		}
		return bezier(y1, y2, u)
	}
}
