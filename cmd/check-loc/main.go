// Command check-loc publishes the total lines of code badge.
package main

import (
	"os"

	"github.com/UnitVectorY-Labs/statbadge/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewCommand("check-loc", cli.LinesOfCode, cli.Options{})))
}
