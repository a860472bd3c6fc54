// Package watch implements the interactive terminal flow for drama search,
// selection and playback.
package watch

import (
	"github.com/dramasan-cli/dramasan/catalog/dramabox"
	"github.com/dramasan-cli/dramasan/relay"
	"github.com/dramasan-cli/dramasan/source"
	"github.com/dramasan-cli/dramasan/util"
)

var truncateAt = 100

// Options configures the interactive flow.
type Options struct {
	// Continue opens the watch-history listing instead of the search prompt.
	Continue bool

	// Query pre-fills the search and skips the prompt when non-empty.
	Query string
}

type watcher struct {
	width, height int

	state   state
	catalog source.Catalog

	query  string
	dramas []*source.Drama

	selectedDrama   *source.Drama
	episodes        []*source.Episode
	selectedEpisode *source.Episode
	startOffset     float64
}

// Run drives the interactive state loop until the viewer quits. The embedded
// relay, if playback started it, is torn down on the way out.
func Run(options *Options) error {
	defer relay.Stop()

	w := &watcher{
		catalog: dramabox.New(),
		state:   searchState,
		query:   options.Query,
	}
	if options.Continue {
		w.state = historySelectState
	}

	if width, height, err := util.TerminalSize(); err == nil {
		w.width, w.height = width, height
		truncateAt = width
	}

	for {
		if err := w.handleState(); err != nil {
			return err
		}
		if w.state == quitState {
			return nil
		}
	}
}

func (w *watcher) handleState() error {
	switch w.state {
	case historySelectState:
		return w.handleHistorySelectState()
	case searchState:
		return w.handleSearchState()
	case dramaSelectState:
		return w.handleDramaSelectState()
	case episodeSelectState:
		return w.handleEpisodeSelectState()
	case playState:
		return w.handlePlayState()
	}

	return nil
}
