// Package query manages the persistence and retrieval of search query history and suggestions.
package query

import (
	"strings"
	"sync"

	"github.com/dramasan-cli/dramasan/filesystem"
	"github.com/dramasan-cli/dramasan/key"
	"github.com/dramasan-cli/dramasan/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var cacher = gache.New[map[string]*record](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

var (
	mu             sync.Mutex
	suggestionMemo = make(map[string][]*record)
)

// Remember records a search query in the persistent history or increments its popularity rank.
func Remember(q string, weight int) error {
	mu.Lock()
	defer mu.Unlock()

	q = sanitize(q)
	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*record)
	}

	if r, ok := cached[q]; ok {
		r.Rank += weight
	} else {
		cached[q] = &record{Rank: weight, Query: q}
	}

	// Ranks changed, memoized suggestion orderings are stale.
	suggestionMemo = make(map[string][]*record)

	return cacher.Set(cached)
}

// Suggest returns the most relevant historical query suggestion for a partial input.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns historical query suggestions fuzzily matching the
// partial input, most popular first. Suggestions can be disabled in the
// config, in which case the result is always empty.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	mu.Lock()
	defer mu.Unlock()

	q = sanitize(q)
	records, ok := suggestionMemo[q]
	if !ok {
		cached, expired, err := cacher.Get()
		if err != nil || expired || cached == nil {
			return []string{}
		}

		for _, r := range cached {
			if fuzzy.Match(q, r.Query) {
				records = append(records, r)
			}
		}

		slices.SortFunc(records, func(a, b *record) int {
			return b.Rank - a.Rank // Descending rank
		})

		suggestionMemo[q] = records
	}

	return lo.Map(records, func(r *record, _ int) string {
		return r.Query
	})
}

// Clear removes the entire persisted query history.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()

	suggestionMemo = make(map[string][]*record)
	return cacher.Set(make(map[string]*record))
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
