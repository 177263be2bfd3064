package main

import "github.com/mrlokans/journo/internal/cli"

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cli.Execute(Version)
}
