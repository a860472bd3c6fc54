// Package version provides application version tracking and update discovery.
package version

import (
	"fmt"

	"github.com/dramasan-cli/dramasan/color"
	"github.com/dramasan-cli/dramasan/constant"
	"github.com/dramasan-cli/dramasan/icon"
	"github.com/dramasan-cli/dramasan/key"
	"github.com/dramasan-cli/dramasan/style"
	"github.com/dramasan-cli/dramasan/util"
	"github.com/spf13/viper"
)

// Notify displays a terminal alert if a more recent stable application version is available.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	version, err := Latest()
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(version, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(version),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/dramasan-cli/dramasan/releases/tag/v"+version),
	)
}
