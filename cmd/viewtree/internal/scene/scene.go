// Package scene builds a view tree from a resolved scene file and applies
// scripted steps to it.
package scene

import (
	"fmt"
	"log/slog"

	"github.com/go-drift/viewtree/cmd/viewtree/internal/config"
	"github.com/go-drift/viewtree/pkg/transition"
	"github.com/go-drift/viewtree/pkg/view"
)

// Scene is a tree built from config nodes, addressable by node name.
type Scene struct {
	Tree  *view.Tree
	Roots []view.ID

	res    *config.Resolved
	ids    map[string]view.ID
	logger *slog.Logger
}

// Build creates the scene's nodes in tree. Nodes are left unrendered.
func Build(tree *view.Tree, res *config.Resolved, logger *slog.Logger) (*Scene, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scene{
		Tree:   tree,
		res:    res,
		ids:    make(map[string]view.ID),
		logger: logger,
	}
	for _, n := range res.Nodes {
		id, err := s.build(n)
		if err != nil {
			return nil, err
		}
		s.Roots = append(s.Roots, id)
	}
	return s, nil
}

func (s *Scene) build(n config.Node) (view.ID, error) {
	opts := view.Options{
		Name:    n.Name,
		Class:   n.Class,
		Content: n.Content,
		Hidden:  n.Hidden,
		Layout:  n.Layout,
	}
	if opts.Class == "" {
		opts.Class = n.Name
	}
	topts := view.TransitionOptions{Duration: s.res.Duration, Curve: s.res.Curve}
	if n.Direction != "" {
		topts.Direction, _ = view.ParseDirection(n.Direction)
	}
	var err error
	if opts.TransitionIn, err = lookup(n.In, true, topts); err != nil {
		return view.None, fmt.Errorf("node %q: %w", n.Name, err)
	}
	if opts.TransitionOut, err = lookup(n.Out, false, topts); err != nil {
		return view.None, fmt.Errorf("node %q: %w", n.Name, err)
	}
	if opts.TransitionShow, err = lookup(n.Show, true, topts); err != nil {
		return view.None, fmt.Errorf("node %q: %w", n.Name, err)
	}
	if opts.TransitionHide, err = lookup(n.Hide, false, topts); err != nil {
		return view.None, fmt.Errorf("node %q: %w", n.Name, err)
	}

	id := s.Tree.New(opts)
	s.ids[n.Name] = id
	for _, c := range n.Children {
		cid, err := s.build(c)
		if err != nil {
			return view.None, err
		}
		s.Tree.AppendChild(id, cid)
	}
	return id, nil
}

// lookup returns the entering or leaving half of a registered effect.
func lookup(name string, entering bool, opts view.TransitionOptions) (view.Transition, error) {
	if name == "" {
		return view.Transition{}, nil
	}
	in, out, err := transition.Lookup(name)
	if err != nil {
		return view.Transition{}, err
	}
	plugin := out
	if entering {
		plugin = in
	}
	return view.Transition{Plugin: plugin, Options: opts}, nil
}

// ID returns the node named name.
func (s *Scene) ID(name string) (view.ID, bool) {
	id, ok := s.ids[name]
	return id, ok
}

// Names returns every node name in creation order.
func (s *Scene) Names() []string {
	var names []string
	for _, root := range s.Roots {
		s.Tree.Walk(root, func(v view.View) bool {
			names = append(names, v.Name())
			return true
		})
	}
	return names
}

// Mount renders and attaches every root.
func (s *Scene) Mount() {
	for _, id := range s.Roots {
		s.Tree.Render(id)
		s.Tree.Attach(id, view.None)
	}
}

// Apply performs one scripted step and reports whether the tree handled it.
func (s *Scene) Apply(step config.Step) (bool, error) {
	id, ok := s.ids[step.Node]
	if !ok {
		return false, fmt.Errorf("unknown node %q", step.Node)
	}
	t := s.Tree
	var handled bool
	switch step.Action {
	case "render":
		handled = t.Render(id)
	case "attach":
		handled = t.Attach(id, view.None)
	case "detach":
		handled = t.Detach(id, false)
	case "detach-now":
		handled = t.Detach(id, true)
	case "show":
		handled = t.Show(id)
	case "hide":
		handled = t.Hide(id)
	case "destroy":
		handled = t.DestroyLayer(id)
	case "content":
		handled = t.SetContent(id, step.Content)
	case "remove":
		handled = t.RemoveFromParent(id)
	case "release":
		handled = t.Release(id)
		delete(s.ids, step.Node)
	case "animate":
		to, keys, err := step.Target(t.Layout(id))
		if err != nil {
			return false, err
		}
		handled = t.Animate(id, to, keys, s.res.Duration, s.res.Curve, nil)
	default:
		return false, fmt.Errorf("unknown action %q", step.Action)
	}
	s.logger.Debug("scene step", "action", step.Action, "node", step.Node,
		"handled", handled, "state", t.State(id))
	return handled, nil
}
