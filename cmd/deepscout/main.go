package main

import (
	"os"

	"github.com/custodia-labs/deepscout-cli/internal/adapters/driving/cli"
)

// version is overridden at build time:
//
//	go build -ldflags "-X main.version=v1.2.3" ./cmd/deepscout
var version = ""

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
