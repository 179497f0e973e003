// Command check-downloads publishes the crates.io total downloads badge.
package main

import (
	"os"

	"github.com/UnitVectorY-Labs/statbadge/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewCommand("check-downloads", cli.Downloads, cli.Options{})))
}
