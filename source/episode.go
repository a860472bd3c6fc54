// Package source defines the domain models and interfaces for drama discovery and media resolution.
package source

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/exp/slices"
)

// Episode represents a discrete watchable unit within a drama.
type Episode struct {
	// Catalog-assigned stable episode id.
	ID string `json:"id"`
	// Display name (e.g. "EP 1").
	Name string `json:"name"`
	// Ordinal position within the parent drama. The ordering is load-bearing:
	// prev/next navigation and autoplay chaining depend on it.
	Index int `json:"index"`
	// Whether the catalog marks this episode as premium-gated.
	Locked bool `json:"locked"`

	Drama *Drama `json:"-"`

	// Mirrors carrying this episode, one per CDN.
	Mirrors []*Mirror `json:"mirrors,omitempty"`
}

// String returns the canonical string representation of the episode identifier.
func (e *Episode) String() string {
	return e.Name
}

// BestSource selects the preferred playable media source for the episode:
// the mirror flagged default (falling back to the first listed), and within
// it the highest-quality variant.
func (e *Episode) BestSource() mo.Option[*MediaSource] {
	if len(e.Mirrors) == 0 {
		return mo.None[*MediaSource]()
	}

	mirror, found := lo.Find(e.Mirrors, func(m *Mirror) bool { return m.Default })
	if !found {
		mirror = e.Mirrors[0]
	}

	if len(mirror.Variants) == 0 {
		return mo.None[*MediaSource]()
	}

	best := lo.MaxBy(mirror.Variants, func(a, b *MediaSource) bool {
		return a.Quality > b.Quality
	})
	return mo.Some(best)
}

// SortEpisodes orders episodes by their ordinal index, ascending.
func SortEpisodes(episodes []*Episode) {
	slices.SortFunc(episodes, func(a, b *Episode) int {
		return a.Index - b.Index
	})
}

// NextEpisode returns the episode following current in the ordered list, if any.
func NextEpisode(episodes []*Episode, current *Episode) mo.Option[*Episode] {
	return neighbor(episodes, current, +1)
}

// PrevEpisode returns the episode preceding current in the ordered list, if any.
func PrevEpisode(episodes []*Episode, current *Episode) mo.Option[*Episode] {
	return neighbor(episodes, current, -1)
}

func neighbor(episodes []*Episode, current *Episode, offset int) mo.Option[*Episode] {
	idx := slices.IndexFunc(episodes, func(e *Episode) bool {
		return e.ID == current.ID
	})
	if idx < 0 {
		return mo.None[*Episode]()
	}

	target := idx + offset
	if target < 0 || target >= len(episodes) {
		return mo.None[*Episode]()
	}
	return mo.Some(episodes[target])
}
