// Package transition provides stock transition plugins for pkg/view.
//
// Each plugin animates part of a node's layout through View.Animate and
// reports completion when the animation ends, whether it finished or was
// cancelled. The view tree ignores completions of transitions it has
// already cancelled, so plugins keep no bookkeeping of their own.
//
//	in, out := transition.Fade()
//	id := tree.New(view.Options{
//		TransitionIn:  view.Transition{Plugin: in},
//		TransitionOut: view.Transition{Plugin: out},
//	})
package transition

import (
	"time"

	"github.com/go-drift/viewtree/pkg/animation"
	"github.com/go-drift/viewtree/pkg/layout"
	"github.com/go-drift/viewtree/pkg/view"
)

// DefaultDuration is used when TransitionOptions.Duration is zero.
const DefaultDuration = 250 * time.Millisecond

func duration(opts view.TransitionOptions) time.Duration {
	if opts.Duration > 0 {
		return opts.Duration
	}
	return DefaultDuration
}

func curve(opts view.TransitionOptions, fallback animation.Curve) animation.Curve {
	if opts.Curve != nil {
		return opts.Curve
	}
	return fallback
}

// effect animates keys from a start layout derived from pre to pre itself
// (entering) or from pre to the derived layout (leaving).
type effect struct {
	keys     layout.Key
	entering bool
	curve    animation.Curve
	// away returns the off-screen or invisible end of the effect.
	away func(pre layout.Layout, preFrame layout.Rect, opts view.TransitionOptions) layout.Layout
}

func (e *effect) LayoutKeys() layout.Key { return e.keys }

func (e *effect) Setup(v view.View, opts view.TransitionOptions, inPlace bool) {
	if !e.entering || inPlace {
		return
	}
	cur := v.Layout()
	away := e.away(cur, v.Frame(), opts)
	v.SetLayout(cur.Merge(away, e.keys))
}

func (e *effect) Run(v view.View, opts view.TransitionOptions, pre layout.Layout, preFrame layout.Rect) {
	target := pre
	if !e.entering {
		target = e.away(pre, preFrame, opts)
	}
	v.Animate(target, e.keys, duration(opts), curve(opts, e.curve), func(bool) {
		if e.entering {
			v.DidTransitionIn()
		} else {
			v.DidTransitionOut()
		}
	})
}

// Fade returns plugins fading opacity in from 0 and out to 0.
func Fade() (in, out view.TransitionPlugin) {
	away := func(pre layout.Layout, _ layout.Rect, _ view.TransitionOptions) layout.Layout {
		pre.Opacity = 0
		return pre
	}
	return &effect{keys: layout.KeyOpacity, entering: true, curve: animation.EaseOut, away: away},
		&effect{keys: layout.KeyOpacity, curve: animation.EaseIn, away: away}
}

// Slide returns plugins sliding the node by its own extent. Options.Direction
// is the side the node enters from and leaves towards.
func Slide() (in, out view.TransitionPlugin) {
	away := func(pre layout.Layout, frame layout.Rect, opts view.TransitionOptions) layout.Layout {
		switch opts.Direction {
		case view.DirectionLeft:
			pre.Left -= frame.Width
		case view.DirectionRight:
			pre.Left += frame.Width
		case view.DirectionUp:
			pre.Top -= frame.Height
		case view.DirectionDown:
			pre.Top += frame.Height
		}
		return pre
	}
	keys := layout.KeyLeft | layout.KeyTop
	return &effect{keys: keys, entering: true, curve: animation.EaseOut, away: away},
		&effect{keys: keys, curve: animation.EaseIn, away: away}
}

// Scale returns plugins growing the node from nothing and shrinking it away.
func Scale() (in, out view.TransitionPlugin) {
	away := func(pre layout.Layout, _ layout.Rect, _ view.TransitionOptions) layout.Layout {
		pre.Scale = 0
		return pre
	}
	return &effect{keys: layout.KeyScale, entering: true, curve: animation.EaseInOut, away: away},
		&effect{keys: layout.KeyScale, curve: animation.EaseInOut, away: away}
}

// Instant completes immediately without touching the layout. It marks a
// slot as transitioned, which still routes the node through the
// transitional states and their hooks.
type Instant struct {
	// Out selects exit completion.
	Out bool
}

func (i Instant) Run(v view.View, _ view.TransitionOptions, _ layout.Layout, _ layout.Rect) {
	if i.Out {
		v.DidTransitionOut()
		return
	}
	v.DidTransitionIn()
}
