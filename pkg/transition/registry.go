package transition

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-drift/viewtree/pkg/view"
)

// Factory builds the entering and leaving halves of a named effect.
type Factory func() (in, out view.TransitionPlugin)

var registry = map[string]Factory{
	"fade":    Fade,
	"slide":   Slide,
	"scale":   Scale,
	"instant": instant,
}

func instant() (in, out view.TransitionPlugin) {
	return Instant{}, Instant{Out: true}
}

// Register adds or replaces a named effect. It is meant for init-time use.
func Register(name string, f Factory) {
	registry[name] = f
}

// Lookup returns fresh plugins for the named effect.
func Lookup(name string) (in, out view.TransitionPlugin, err error) {
	f, ok := registry[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown transition %q (known: %v)", name, Names())
	}
	in, out = f()
	return in, out, nil
}

// Names returns the registered effect names, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}
