// Package cmd implements the command-line interface for dramasan.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/dramasan-cli/dramasan/color"
	"github.com/dramasan-cli/dramasan/constant"
	"github.com/dramasan-cli/dramasan/icon"
	"github.com/dramasan-cli/dramasan/key"
	"github.com/dramasan-cli/dramasan/log"
	"github.com/dramasan-cli/dramasan/style"
	"github.com/dramasan-cli/dramasan/util"
	"github.com/dramasan-cli/dramasan/version"
	"github.com/dramasan-cli/dramasan/watch"
	"github.com/dramasan-cli/dramasan/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Persist playback progress to the localized watch history")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnWatch, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.Flags().BoolP("continue", "c", false, "Resume playback from the most recent history entry")
	rootCmd.Flags().StringP("query", "q", "", "Skip the search prompt and use this query directly")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Initialize cleanup of localized temporary files on application startup.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the dramasan application.
var rootCmd = &cobra.Command{
	Use:   constant.Dramasan,
	Short: "A minimalist command-line interface for short drama discovery and playback",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.Crimson).Render("    - A minimalist command-line interface for short drama discovery and playback"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		options := watch.Options{
			Continue: lo.Must(cmd.Flags().GetBool("continue")),
			Query:    lo.Must(cmd.Flags().GetString("query")),
		}

		err := watch.Run(&options)
		if err != nil && err.Error() != "interrupt" {
			handleErr(err)
		}
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
