// Command viewtree runs view lifecycle scenes from yaml files.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/viewtree/cmd/viewtree/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
