package main

import "github.com/devicelab-dev/uiprobe/pkg/cli"

// Set by the build process.
var Version = "dev"

func main() {
	cli.Version = Version
	cli.Execute()
}
