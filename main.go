package main

import (
	"github.com/ouchiface/catalog/cmd"

	// Subcommands register themselves with the root command in init()
	_ "github.com/ouchiface/catalog/cmd/cli"
	_ "github.com/ouchiface/catalog/cmd/server"
)

func main() {
	cmd.Execute()
}
