package viewtest

import (
	"errors"
	"fmt"

	"github.com/go-drift/viewtree/pkg/lifecycle"
	"github.com/go-drift/viewtree/pkg/view"
)

// CheckInvariants walks every live node of tree and returns the structural
// rules it breaks, joined, or nil:
//
//   - a node has a layer exactly when its state is rendered
//   - an attached node's parent is absent or attached
//   - an UNATTACHED_BY_PARENT node's parent has a layer
//   - a BUILDING_OUT_BY_PARENT node's owning view is a building-out
//     ancestor, whose count is positive while the node's exit runs
//   - only a BUILDING_OUT node carries a build-out count, and never a
//     negative one
func CheckInvariants(tree *view.Tree) error {
	var errs []error
	fail := func(id view.ID, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s (%s): %s", tree.Name(id), tree.State(id), fmt.Sprintf(format, args...)))
	}
	for _, root := range tree.Roots() {
		tree.Walk(root, func(v view.View) bool {
			id := v.ID()
			s := tree.State(id)
			parent := tree.Parent(id)

			if rendered := tree.Layer(id) != nil; rendered != lifecycle.IsRendered(s) {
				fail(id, "has layer %t", rendered)
			}
			if lifecycle.IsAttached(s) && parent != view.None && !lifecycle.IsAttached(tree.State(parent)) {
				fail(id, "attached under unattached parent %s", tree.Name(parent))
			}
			if s == lifecycle.UnattachedByParent && (parent == view.None || tree.Layer(parent) == nil) {
				fail(id, "unattached by parent without a parent layer")
			}
			if s == lifecycle.AttachedBuildingOutByParent {
				owner := tree.OwningView(id)
				count, ok := tree.BuildingOutCount(owner)
				switch {
				case owner == view.None:
					fail(id, "no owning view")
				case !isAncestor(tree, owner, id):
					fail(id, "owning view %s is not an ancestor", tree.Name(owner))
				case !ok || tree.State(owner) != lifecycle.AttachedBuildingOut:
					fail(id, "owning view %s is not building out", tree.Name(owner))
				case tree.ActiveTransition(id) == view.TransitionOut && count < 1:
					fail(id, "owning view %s has count %d", tree.Name(owner), count)
				}
			}
			if count, ok := tree.BuildingOutCount(id); ok {
				if s != lifecycle.AttachedBuildingOut {
					fail(id, "carries a build-out count outside BUILDING_OUT")
				}
				if count < 0 {
					fail(id, "negative build-out count %d", count)
				}
			}
			return true
		})
	}
	return errors.Join(errs...)
}

func isAncestor(tree *view.Tree, ancestor, id view.ID) bool {
	for p := tree.Parent(id); p != view.None; p = tree.Parent(p) {
		if p == ancestor {
			return true
		}
	}
	return false
}
