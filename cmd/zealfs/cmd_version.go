package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

const versionHelp = `zealfs version

Print the zealfs tool version.
`

func cmdVersion(ctx context.Context, args []string) error {
	newFlagSet("version", versionHelp).Parse(args)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Printf("\033[1mzealfs\033[0m %s\n", version)
	} else {
		fmt.Printf("zealfs %s\n", version)
	}
	return nil
}
