// Command docwiki generates and maintains wiki documentation for
// repositories.
package main

import (
	"os"

	"github.com/custodia-labs/docwiki-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
