// Command rflogs is the RF Logs command-line client.
package main

import (
	"os"

	"github.com/rflogs/rflogs-cli/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
