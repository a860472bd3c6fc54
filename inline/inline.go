// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"fmt"
	"io"
	"os"

	"github.com/dramasan-cli/dramasan/source"
)

func Run(options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	dramas, err := options.Catalog.Search(options.Query)
	if err != nil {
		return fmt.Errorf("search failed for %s: %w", options.Catalog.Name(), err)
	}

	var selected []*source.Drama
	if options.DramaPicker.IsPresent() {
		picker := options.DramaPicker.MustGet()
		if choice := picker(dramas); choice != nil {
			selected = []*source.Drama{choice}
		}
	} else {
		selected = dramas
	}

	if len(selected) == 0 {
		if options.Json {
			return writeJson(options.Out, nil, options)
		}
		return nil
	}

	if options.Episodes || options.Sources || options.EpisodesFilter.IsPresent() {
		for _, drama := range selected {
			if err = prepareDrama(drama, options); err != nil {
				return err
			}
		}
	}

	if options.Json {
		return writeJson(options.Out, selected, options)
	}

	for _, drama := range selected {
		if len(drama.Episodes) == 0 {
			fmt.Fprintln(options.Out, drama.Title)
			continue
		}

		for _, episode := range drama.Episodes {
			if options.Sources {
				if best, ok := episode.BestSource().Get(); ok {
					fmt.Fprintln(options.Out, best.URL)
					continue
				}
			}
			fmt.Fprintln(options.Out, episode.Name)
		}
	}

	return nil
}

// prepareDrama fetches and filters the episode list for one selected drama.
func prepareDrama(drama *source.Drama, options *Options) error {
	episodes, err := options.Catalog.EpisodesOf(drama.ID)
	if err != nil {
		return err
	}

	if options.EpisodesFilter.IsPresent() {
		filter := options.EpisodesFilter.MustGet()
		if episodes, err = filter(episodes); err != nil {
			return err
		}
	}

	for _, episode := range episodes {
		episode.Drama = drama
		if !options.Sources {
			episode.Mirrors = nil
		}
	}

	drama.Episodes = episodes
	return nil
}

func writeJson(out io.Writer, dramas []*source.Drama, options *Options) error {
	data, err := asJson(dramas, options)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
