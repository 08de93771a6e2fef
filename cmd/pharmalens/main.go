// CLI entry point for PharmaLens.
package main

import (
	"os"

	"github.com/turtacn/PharmaLens/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
