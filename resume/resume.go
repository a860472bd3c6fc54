// Package resume decides which episode and time offset a playback entry point should open.
package resume

import (
	"github.com/dramasan-cli/dramasan/history"
	"github.com/dramasan-cli/dramasan/key"
	"github.com/spf13/viper"
)

// Label describes the kind of decision the resolver reached, used by entry
// points to pick button wording.
type Label string

const (
	// WatchNow means no history exists: start the default episode from zero.
	WatchNow Label = "watch-now"
	// Resume means mid-episode progress exists: continue from the saved offset.
	Resume Label = "resume"
	// Rewatch means the last episode is effectively finished: restart it from
	// zero rather than resuming into the credits.
	Rewatch Label = "rewatch"
)

// NoiseFloorSeconds is the minimum saved position that counts as a genuine
// resume point. Anything below it is pre-roll noise.
const NoiseFloorSeconds = 5.0

// Decision is the resolver's answer for one drama.
type Decision struct {
	EpisodeID     string
	OffsetSeconds float64
	Label         Label
}

// Resolve picks the episode and start offset to open for a drama.
// Without history it falls back to the supplied default episode. A finished
// episode (at or beyond the completion percentage) restarts from zero; the
// resolver deliberately does not advance to the next episode, because it does
// not own the episode list.
func Resolve(contentID, defaultEpisodeID string) Decision {
	content := history.Of(contentID)
	if content.IsAbsent() {
		return Decision{EpisodeID: defaultEpisodeID, Label: WatchNow}
	}

	last := content.MustGet().LastWatchedEpisodeID
	record, ok := content.MustGet().Episodes[last]
	if !ok {
		return Decision{EpisodeID: last, Label: WatchNow}
	}

	if record.Percent >= completionPercentage() {
		return Decision{EpisodeID: last, Label: Rewatch}
	}

	offset := record.CurrentTime
	if offset <= NoiseFloorSeconds {
		offset = 0
	}
	return Decision{EpisodeID: last, OffsetSeconds: offset, Label: Resume}
}

// OffsetOf returns the start offset for one specific episode, applying the
// same gates as Resolve: finished episodes restart from zero and positions
// inside the noise floor are ignored.
func OffsetOf(contentID, episodeID string) float64 {
	record := history.Progress(contentID, episodeID)
	if record.IsAbsent() {
		return 0
	}

	r := record.MustGet()
	if r.Percent >= completionPercentage() || r.CurrentTime <= NoiseFloorSeconds {
		return 0
	}
	return r.CurrentTime
}

func completionPercentage() float64 {
	if p := viper.GetInt(key.PlaybackCompletionPercentage); p > 0 {
		return float64(p)
	}
	return 95
}
