package main

import (
	"flag"
	"os"

	"github.com/valgq/tablero/internal/cli"
)

func main() {
	flag.Usage = cli.PrintHelp
	flag.Parse()

	// Bare invocation opens the interactive board.
	os.Exit(cli.Run(flag.Args()))
}
