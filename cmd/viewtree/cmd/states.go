package cmd

import (
	"fmt"

	"github.com/go-drift/viewtree/pkg/lifecycle"
)

func init() {
	RegisterCommand(&Command{
		Name:  "states",
		Short: "Print the lifecycle state table",
		Long: `Print the twelve lifecycle states and the flags each implies.

RENDERED means the node owns a layer, ATTACHED that the layer is in the
document, SHOWN that it is visible or still visible while transitioning,
and HIDDEN that it is in the document but not visible.`,
		Usage: "viewtree states",
		Run:   runStates,
	})
}

func runStates(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("states takes no arguments")
	}
	fmt.Printf("%-33s %s\n", "STATE", "FLAGS")
	for _, s := range lifecycle.All() {
		fmt.Printf("%-33s %s\n", s, s.Flags())
	}
	return nil
}
