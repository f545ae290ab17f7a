// Package main is the entry point for tubeplay.
package main

import (
	"github.com/samber/lo"
	"github.com/tubeplay-cli/tubeplay/cmd"
	"github.com/tubeplay-cli/tubeplay/config"
	"github.com/tubeplay-cli/tubeplay/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())
	cmd.Execute()
}
