// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dramasan-cli/dramasan/source"
	"github.com/dramasan-cli/dramasan/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type (
	DramaPicker    func([]*source.Drama) *source.Drama
	EpisodesFilter func([]*source.Episode) ([]*source.Episode, error)
)

type Options struct {
	Out            io.Writer
	Catalog        source.Catalog
	Json           bool
	Query          string
	DramaPicker    mo.Option[DramaPicker]
	EpisodesFilter mo.Option[EpisodesFilter]

	// Episodes controls whether episode lists are fetched for the
	// selected dramas.
	Episodes bool

	// Sources controls whether media sources (mirrors and variants) are
	// kept in the output. Implies Episodes.
	Sources bool
}

// ParseDramaPicker parses a drama selection expression:
// "first", "last", "exact" (match against value) or "index".
func ParseDramaPicker(kind, value string) (DramaPicker, error) {
	switch kind {
	case "first":
		return func(dramas []*source.Drama) *source.Drama {
			if len(dramas) == 0 {
				return nil
			}
			return dramas[0]
		}, nil
	case "last":
		return func(dramas []*source.Drama) *source.Drama {
			if len(dramas) == 0 {
				return nil
			}
			return dramas[len(dramas)-1]
		}, nil
	case "exact":
		return func(dramas []*source.Drama) *source.Drama {
			for _, d := range dramas {
				if d.Title == value {
					return d
				}
			}
			return nil
		}, nil
	case "index":
		idx, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid index: %s", value)
		}
		return func(dramas []*source.Drama) *source.Drama {
			if len(dramas) == 0 {
				return nil
			}
			i := util.Min(idx, uint64(len(dramas)-1))
			return dramas[i]
		}, nil
	default:
		return nil, fmt.Errorf("unknown picker type: %s", kind)
	}
}

// ParseEpisodesFilter parses an episode filter expression:
// "first", "last", "all", a zero-based index "5", a range "1-5" or a
// name substring "@finale@".
func ParseEpisodesFilter(description string) (EpisodesFilter, error) {
	switch description {
	case "first":
		return func(episodes []*source.Episode) ([]*source.Episode, error) {
			if len(episodes) == 0 {
				return episodes, nil
			}
			return episodes[:1], nil
		}, nil
	case "last":
		return func(episodes []*source.Episode) ([]*source.Episode, error) {
			if len(episodes) == 0 {
				return episodes, nil
			}
			return episodes[len(episodes)-1:], nil
		}, nil
	case "all":
		return func(episodes []*source.Episode) ([]*source.Episode, error) {
			return episodes, nil
		}, nil
	}

	if strings.Contains(description, "-") {
		parts := strings.Split(description, "-")
		if len(parts) == 2 {
			from, err1 := strconv.ParseUint(parts[0], 10, 16)
			to, err2 := strconv.ParseUint(parts[1], 10, 16)
			if err1 == nil && err2 == nil {
				return func(episodes []*source.Episode) ([]*source.Episode, error) {
					start := util.Min(from, uint64(len(episodes)))
					end := util.Min(to+1, uint64(len(episodes)))
					if start > end {
						return []*source.Episode{}, nil
					}
					return episodes[start:end], nil
				}, nil
			}
		}
	}

	if strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") && len(description) > 1 {
		sub := description[1 : len(description)-1]
		return func(episodes []*source.Episode) ([]*source.Episode, error) {
			return lo.Filter(episodes, func(e *source.Episode, _ int) bool {
				return strings.Contains(strings.ToLower(e.Name), strings.ToLower(sub))
			}), nil
		}, nil
	}

	if idx, err := strconv.ParseUint(description, 10, 16); err == nil {
		return func(episodes []*source.Episode) ([]*source.Episode, error) {
			if uint64(len(episodes)) <= idx {
				return []*source.Episode{}, nil
			}
			return []*source.Episode{episodes[idx]}, nil
		}, nil
	}

	return nil, fmt.Errorf("invalid episode filter: %s", description)
}
