// Package watch implements the interactive terminal flow for drama search,
// selection and playback.
package watch

import (
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/dramasan-cli/dramasan/color"
	"github.com/dramasan-cli/dramasan/history"
	"github.com/dramasan-cli/dramasan/icon"
	"github.com/dramasan-cli/dramasan/key"
	"github.com/dramasan-cli/dramasan/playback"
	"github.com/dramasan-cli/dramasan/query"
	"github.com/dramasan-cli/dramasan/relay"
	"github.com/dramasan-cli/dramasan/resume"
	"github.com/dramasan-cli/dramasan/source"
	"github.com/dramasan-cli/dramasan/style"
	"github.com/dramasan-cli/dramasan/util"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type state int

const (
	searchState state = iota + 1
	dramaSelectState
	episodeSelectState
	playState
	historySelectState
	quitState
)

// control identifies one choice in the playback menu.
type control string

const (
	controlNext     control = "Next episode"
	controlPrevious control = "Previous episode"
	controlReplay   control = "Replay"
	controlPause    control = "Pause / resume"
	controlEpisodes control = "Back to episodes"
	controlSearch   control = "New search"
	controlQuit     control = "Quit"
)

// quitOn converts a survey interrupt into a quit transition; every other
// error is surfaced.
func (w *watcher) quitOn(err error) (bool, error) {
	if err == terminal.InterruptErr {
		w.state = quitState
		return true, nil
	}
	if err != nil {
		return true, err
	}
	return false, nil
}

func (w *watcher) handleSearchState() error {
	q := w.query
	w.query = ""

	if q == "" {
		prompt := &survey.Input{
			Message: "Search drama",
			Suggest: query.SuggestMany,
		}
		err := survey.AskOne(prompt, &q, survey.WithValidator(survey.Required))
		if done, err := w.quitOn(err); done {
			return err
		}
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Searching for %s...", icon.Get(icon.Progress), style.Bold(q)))
	dramas, err := w.catalog.Search(q)
	erase()
	if err != nil {
		return err
	}

	if limit := viper.GetInt(key.SearchLimit); limit > 0 && len(dramas) > limit {
		dramas = dramas[:limit]
	}

	if len(dramas) == 0 {
		fmt.Printf("%s Nothing found for %s\n", icon.Get(icon.Fail), style.Bold(q))
		return nil
	}

	w.dramas = dramas
	w.state = dramaSelectState
	return nil
}

func (w *watcher) handleDramaSelectState() error {
	options := lo.Map(w.dramas, func(d *source.Drama, _ int) string {
		return fmt.Sprintf("%s %s", d.Title, style.Faint(util.Quantify(d.EpisodeCount, "episode", "episodes")))
	})

	var index int
	prompt := &survey.Select{
		Message:  "Pick a drama",
		Options:  options,
		PageSize: 10,
	}
	err := survey.AskOne(prompt, &index)
	if done, err := w.quitOn(err); done {
		return err
	}

	w.selectedDrama = w.dramas[index]
	w.printSynopsis(w.selectedDrama)
	w.state = episodeSelectState
	return nil
}

// printSynopsis renders the drama introduction wrapped to the terminal width.
func (w *watcher) printSynopsis(drama *source.Drama) {
	if drama.Introduction == "" {
		return
	}

	width := truncateAt
	if width > 80 {
		width = 80
	}

	fmt.Println()
	fmt.Println(style.Title(drama.Title))
	fmt.Println(wrap.String(drama.Introduction, width))
	if len(drama.Tags) > 0 {
		fmt.Println(style.Faint(fmt.Sprintf("Tags: %v", drama.Tags)))
	}
	fmt.Println()
}

func (w *watcher) handleEpisodeSelectState() error {
	erase := util.PrintErasable(fmt.Sprintf("%s Fetching episodes...", icon.Get(icon.Progress)))
	episodes, err := w.catalog.EpisodesOf(w.selectedDrama.ID)
	erase()
	if err != nil {
		return err
	}

	if len(episodes) == 0 {
		fmt.Printf("%s No episodes found\n", icon.Get(icon.Fail))
		w.state = dramaSelectState
		return nil
	}

	for _, episode := range episodes {
		episode.Drama = w.selectedDrama
	}
	w.selectedDrama.Episodes = episodes
	w.episodes = episodes

	decision := resume.Resolve(w.selectedDrama.ID, episodes[0].ID)

	options := lo.Map(episodes, func(e *source.Episode, _ int) string {
		return w.episodeLabel(e, decision)
	})

	defaultIndex := slices.IndexFunc(episodes, func(e *source.Episode) bool {
		return e.ID == decision.EpisodeID
	})
	if defaultIndex < 0 {
		defaultIndex = 0
	}

	var index int
	prompt := &survey.Select{
		Message:  "Pick an episode",
		Options:  options,
		Default:  options[defaultIndex],
		PageSize: 15,
	}
	err = survey.AskOne(prompt, &index)
	if done, err := w.quitOn(err); done {
		return err
	}

	w.selectedEpisode = episodes[index]
	if w.selectedEpisode.ID == decision.EpisodeID {
		w.startOffset = decision.OffsetSeconds
	} else {
		w.startOffset = resume.OffsetOf(w.selectedDrama.ID, w.selectedEpisode.ID)
	}

	w.state = playState
	return nil
}

// episodeLabel decorates an episode name with its watch state.
func (w *watcher) episodeLabel(episode *source.Episode, decision resume.Decision) string {
	label := episode.Name
	if episode.Locked {
		label += " " + style.Fg(color.Yellow)("vip")
	}

	if episode.ID == decision.EpisodeID {
		switch decision.Label {
		case resume.Resume:
			label += " " + style.Faint(fmt.Sprintf("%s resume at %s", icon.Get(icon.History), formatOffset(decision.OffsetSeconds)))
		case resume.Rewatch:
			label += " " + style.Faint(icon.Get(icon.History)+" rewatch")
		}
		return label
	}

	if record := history.Progress(w.selectedDrama.ID, episode.ID); record.IsPresent() {
		label += " " + style.Faint(fmt.Sprintf("%.0f%%", record.MustGet().Percent))
	}
	return label
}

func formatOffset(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// ensureRelay makes sure a relay is reachable before a progressive episode is
// handed to the engine. Segmented streams play direct and need none; an
// explicitly configured public relay is trusted to be running already;
// otherwise the embedded relay is started on first use.
func (w *watcher) ensureRelay(episode *source.Episode) (string, error) {
	src, ok := episode.BestSource().Get()
	if !ok || src.Transport() == source.TransportSegmented {
		return "", nil
	}

	if public := viper.GetString(key.RelayPublicURL); public != "" {
		return public, nil
	}
	return relay.Ensure(viper.GetString(key.RelayAddress))
}

func (w *watcher) handlePlayState() error {
	index := slices.IndexFunc(w.episodes, func(e *source.Episode) bool {
		return e.ID == w.selectedEpisode.ID
	})
	if index < 0 {
		index = 0
	}
	offset := w.startOffset
	w.startOffset = 0

	prompt := newControlPrompt()

	for {
		episode := w.episodes[index]

		relayURL, err := w.ensureRelay(episode)
		if err != nil {
			return err
		}

		ended := make(chan struct{}, 1)
		session, err := playback.NewSession(&playback.Options{
			Drama:       w.selectedDrama,
			Episode:     episode,
			StartOffset: offset,
			RelayURL:    relayURL,
			OnEnded: func() {
				select {
				case ended <- struct{}{}:
				default:
				}
			},
		})
		if err != nil {
			return err
		}

		erase := util.PrintErasable(fmt.Sprintf("%s Opening %s...", icon.Get(icon.Play), style.Bold(episode.Name)))
		err = session.Start()
		erase()
		if err != nil {
			return err
		}

		choice, err := w.controlLoop(prompt, session, episode, ended, index > 0, index+1 < len(w.episodes))
		_ = session.Close()
		if done, err := w.quitOn(err); done {
			return err
		}

		offset = 0
		switch choice {
		case controlNext:
			// A menu answered across an autoplay hop can pick "next" on the
			// final episode; fall back to the episode list instead.
			if index++; index >= len(w.episodes) {
				w.state = episodeSelectState
				return nil
			}
		case controlPrevious:
			if index--; index < 0 {
				index = 0
			}
		case controlReplay:
			// keep index
		case controlEpisodes:
			w.state = episodeSelectState
			return nil
		case controlSearch:
			w.state = searchState
			return nil
		case controlQuit:
			w.state = quitState
			return nil
		}
	}
}

// controlPrompt owns the playback menu. The terminal can only host one live
// prompt, so a menu left unanswered across an episode transition is carried
// over and consumed by the next control loop instead of being reissued.
type controlPrompt struct {
	choices chan string
	errs    chan error
	pending bool

	// asker is swappable in tests.
	asker func(message string, options []string) (string, error)
}

func newControlPrompt() *controlPrompt {
	return &controlPrompt{
		choices: make(chan string, 1),
		errs:    make(chan error, 1),
		asker: func(message string, options []string) (string, error) {
			var choice string
			prompt := &survey.Select{
				Message: message,
				Options: options,
			}
			err := survey.AskOne(prompt, &choice)
			return choice, err
		},
	}
}

// ask shows the menu unless one is already on screen.
func (p *controlPrompt) ask(message string, options []string) {
	if p.pending {
		return
	}
	p.pending = true

	go func() {
		choice, err := p.asker(message, options)
		if err != nil {
			p.errs <- err
			return
		}
		p.choices <- choice
	}()
}

// playbackControls is the slice of playback.Session the control loop needs.
type playbackControls interface {
	TogglePause() error
	Done() <-chan struct{}
}

// controlLoop waits on the playback menu, the natural end of the media and
// the engine going away, whichever fires first. The prompt is shared across
// episodes of one play session so at most one is ever live.
func (w *watcher) controlLoop(prompt *controlPrompt, session playbackControls, episode *source.Episode, ended <-chan struct{}, hasPrev, hasNext bool) (control, error) {
	var options []string
	if hasNext {
		options = append(options, string(controlNext))
	}
	if hasPrev {
		options = append(options, string(controlPrevious))
	}
	options = append(options, string(controlReplay), string(controlPause), string(controlEpisodes), string(controlSearch), string(controlQuit))

	message := fmt.Sprintf("Watching %s", episode.Name)
	prompt.ask(message, options)

	// A dead engine keeps its done channel closed; nil it after the first
	// receive so the select does not spin.
	done := session.Done()
	engineGone := false

	for {
		select {
		case choice := <-prompt.choices:
			prompt.pending = false
			picked := control(choice)
			if picked == controlPause {
				if !engineGone {
					if err := session.TogglePause(); err != nil {
						return "", err
					}
				}
				prompt.ask(message, options)
				continue
			}
			return picked, nil

		case err := <-prompt.errs:
			prompt.pending = false
			return "", err

		case <-ended:
			if viper.GetBool(key.PlaybackAutoplay) && hasNext {
				return controlNext, nil
			}
			// No autoplay: keep the menu up, the viewer decides.
			ended = nil

		case <-done:
			// The viewer closed the engine window. The menu stays the only
			// live prompt; every choice except pause still applies.
			engineGone = true
			done = nil
		}
	}
}

func (w *watcher) handleHistorySelectState() error {
	entries := history.Entries()
	if len(entries) == 0 {
		fmt.Printf("%s Watch history is empty\n", icon.Get(icon.Fail))
		w.state = searchState
		return nil
	}

	options := lo.Map(entries, func(e history.Entry, _ int) string {
		return e.String()
	})

	var index int
	prompt := &survey.Select{
		Message:  "Continue watching",
		Options:  options,
		PageSize: 10,
	}
	err := survey.AskOne(prompt, &index)
	if done, err := w.quitOn(err); done {
		return err
	}

	entry := entries[index]

	erase := util.PrintErasable(fmt.Sprintf("%s Resolving %s...", icon.Get(icon.Progress), style.Bold(entry.String())))
	detail, err := w.catalog.DetailOf(entry.ContentID, entry.Title)
	erase()
	if err != nil {
		return err
	}

	if detail.IsAbsent() {
		fmt.Printf("%s The catalog no longer lists this drama\n", icon.Get(icon.Fail))
		w.state = searchState
		return nil
	}

	w.selectedDrama = detail.MustGet()
	w.state = episodeSelectState
	return nil
}
