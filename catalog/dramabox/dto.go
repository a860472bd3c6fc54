package dramabox

import (
	"fmt"
	"strings"

	"github.com/dramasan-cli/dramasan/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// dramaJson mirrors the upstream book record.
type dramaJson struct {
	BookID       string   `json:"bookId"`
	BookName     string   `json:"bookName"`
	CoverWap     string   `json:"coverWap"`
	Cover        string   `json:"cover"`
	ChapterCount int      `json:"chapterCount"`
	Introduction string   `json:"introduction"`
	Tags         []string `json:"tags"`
}

// vipResponse wraps the premium listing, which arrives as columns of books
// rather than a flat list.
type vipResponse struct {
	ColumnVoList []vipColumn `json:"columnVoList"`
}

type vipColumn struct {
	BookList []*dramaJson `json:"bookList"`
}

// episodeJson mirrors the upstream chapter record.
type episodeJson struct {
	ChapterID    string    `json:"chapterId"`
	ChapterIndex int       `json:"chapterIndex"`
	ChapterName  string    `json:"chapterName"`
	IsCharge     int       `json:"isCharge"`
	CdnList      []cdnJson `json:"cdnList"`
}

type cdnJson struct {
	CdnDomain     string          `json:"cdnDomain"`
	IsDefault     int             `json:"isDefault"`
	VideoPathList []videoPathJson `json:"videoPathList"`
}

type videoPathJson struct {
	Quality   int    `json:"quality"`
	VideoPath string `json:"videoPath"`
}

// toDrama converts an upstream book record into the domain model. The API
// populates at most one of the two cover fields, sometimes neither.
func (j *dramaJson) toDrama() *source.Drama {
	cover := mo.None[string]()
	if j.CoverWap != "" {
		cover = mo.Some(j.CoverWap)
	} else if j.Cover != "" {
		cover = mo.Some(j.Cover)
	}

	return &source.Drama{
		ID:           j.BookID,
		Title:        j.BookName,
		EpisodeCount: j.ChapterCount,
		Introduction: strings.TrimSpace(j.Introduction),
		Tags:         j.Tags,
		Cover:        cover,
	}
}

// toEpisode converts an upstream chapter record into the domain model.
func (j *episodeJson) toEpisode() *source.Episode {
	name := strings.TrimSpace(j.ChapterName)
	if name == "" {
		name = fmt.Sprintf("EP %d", j.ChapterIndex+1)
	}

	return &source.Episode{
		ID:     j.ChapterID,
		Name:   name,
		Index:  j.ChapterIndex,
		Locked: j.IsCharge != 0,
		Mirrors: lo.Map(j.CdnList, func(c cdnJson, _ int) *source.Mirror {
			return &source.Mirror{
				Domain:  c.CdnDomain,
				Default: c.IsDefault != 0,
				Variants: lo.Map(c.VideoPathList, func(v videoPathJson, _ int) *source.MediaSource {
					return &source.MediaSource{URL: v.VideoPath, Quality: v.Quality}
				}),
			}
		}),
	}
}

func toDramas(raw []*dramaJson) []*source.Drama {
	return lo.Map(raw, func(j *dramaJson, _ int) *source.Drama {
		return j.toDrama()
	})
}
