// Package cmd implements the command-line interface for dramasan.
package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/dramasan-cli/dramasan/catalog/dramabox"
	"github.com/dramasan-cli/dramasan/filesystem"
	"github.com/dramasan-cli/dramasan/inline"
	"github.com/dramasan-cli/dramasan/query"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().StringP("query", "q", "", "The search query to execute for drama discovery")
	inlineCmd.Flags().StringP("drama", "d", "", "Criteria for selecting a specific drama from the search results")
	inlineCmd.Flags().StringP("episodes", "e", "", "Criteria for selecting specific episodes from the chosen drama")
	inlineCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	inlineCmd.Flags().BoolP("include-sources", "s", false, "Include media source URLs for the selected episodes")
	inlineCmd.Flags().BoolP("include-episodes", "E", false, "Include episode lists for the selected dramas")
	inlineCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")

	lo.Must0(inlineCmd.MarkFlagRequired("query"))

	_ = inlineCmd.RegisterFlagCompletionFunc("query", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

// inlineCmd executes the application in non-interactive, scriptable inline mode.
var inlineCmd = &cobra.Command{
	Use:   "inline",
	Short: "Execute the application in non-interactive, scriptable inline mode",
	Long: `Initialize the application for automated execution and data extraction using inline mode.

Drama selectors:
  first - first drama in the list
  last - last drama in the list
  exact=[title] - drama with the exact given title
  index=[number] - select drama by index (starting from 0)

Episode selectors:
  first - first episode in the list
  last - last episode in the list
  all - all episodes in the list
  [number] - select episode by index (starting from 0)
  [from]-[to] - select episodes by range
  @[substring]@ - select episodes by name substring

When using the json flag the drama selector may be omitted. That way, every
matching drama is included.`,
	PreRun: func(cmd *cobra.Command, args []string) {
		asJson, _ := cmd.Flags().GetBool("json")

		if !asJson {
			lo.Must0(cmd.MarkFlagRequired("drama"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		q := lo.Must(cmd.Flags().GetString("query"))

		var (
			writer io.Writer = os.Stdout
			err    error
		)
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			writer, err = filesystem.API().Create(output)
			handleErr(err)
		}

		dramaPicker := mo.None[inline.DramaPicker]()
		if dramaFlag := lo.Must(cmd.Flags().GetString("drama")); dramaFlag != "" {
			kind, value, _ := strings.Cut(dramaFlag, "=")
			fn, err := inline.ParseDramaPicker(kind, value)
			handleErr(err)
			dramaPicker = mo.Some(fn)
		}

		episodesFilter := mo.None[inline.EpisodesFilter]()
		if episodeFlag := lo.Must(cmd.Flags().GetString("episodes")); episodeFlag != "" {
			fn, err := inline.ParseEpisodesFilter(episodeFlag)
			handleErr(err)
			episodesFilter = mo.Some(fn)
		}

		options := &inline.Options{
			Out:            writer,
			Catalog:        dramabox.New(),
			Json:           lo.Must(cmd.Flags().GetBool("json")),
			Query:          q,
			DramaPicker:    dramaPicker,
			EpisodesFilter: episodesFilter,
			Episodes:       lo.Must(cmd.Flags().GetBool("include-episodes")),
			Sources:        lo.Must(cmd.Flags().GetBool("include-sources")),
		}

		handleErr(inline.Run(options))
	},
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)
}

// inlineSchemaCmd generates the JSON schema for structured inline mode output.
var inlineSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema for structured inline mode output",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "drama", "episode", "mirror", "mediasource", "output":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		schema := reflector.Reflect(&inline.Output{})
		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
