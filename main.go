// Package main is the entry point for the dramasan application.
package main

import (
	"github.com/dramasan-cli/dramasan/cmd"
	"github.com/dramasan-cli/dramasan/config"
	"github.com/dramasan-cli/dramasan/internal/cache"
	"github.com/dramasan-cli/dramasan/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Prune expired cache artifacts without blocking startup.
	go cache.CollectGarbage()

	cmd.Execute()
}
