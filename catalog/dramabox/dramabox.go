package dramabox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dramasan-cli/dramasan/constant"
	"github.com/dramasan-cli/dramasan/key"
	"github.com/dramasan-cli/dramasan/log"
	"github.com/dramasan-cli/dramasan/network"
	"github.com/dramasan-cli/dramasan/query"
	"github.com/dramasan-cli/dramasan/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Dramabox is the source.Catalog implementation backed by the Dramabox API.
type Dramabox struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// New constructs a catalog client from the configured base URL and timeout.
func New() *Dramabox {
	timeout := time.Duration(viper.GetInt(key.CatalogTimeout)) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Dramabox{
		baseURL: strings.TrimSuffix(viper.GetString(key.CatalogBaseURL), "/"),
		timeout: timeout,
		client:  network.Client,
	}
}

// Name returns the unique identifier for the catalog backend.
func (d *Dramabox) Name() string {
	return "dramabox"
}

// Trending retrieves the currently trending dramas.
func (d *Dramabox) Trending() ([]*source.Drama, error) {
	return d.listing("/trending")
}

// Latest retrieves the most recently published dramas.
func (d *Dramabox) Latest() ([]*source.Drama, error) {
	return d.listing("/latest")
}

// ForYou retrieves the personalized recommendation listing.
func (d *Dramabox) ForYou() ([]*source.Drama, error) {
	return d.listing("/foryou")
}

// Random retrieves an arbitrary selection of dramas.
func (d *Dramabox) Random() ([]*source.Drama, error) {
	return d.listing("/randomdrama")
}

// Vip retrieves the premium catalog listing. The endpoint answers with
// columns of books, which are flattened into one list.
func (d *Dramabox) Vip() ([]*source.Drama, error) {
	var response vipResponse
	if err := d.get("/vip", &response); err != nil {
		return nil, err
	}

	books := lo.FlatMap(response.ColumnVoList, func(column vipColumn, _ int) []*dramaJson {
		return column.BookList
	})
	return toDramas(books), nil
}

// Search executes a query against the catalog to discover matching dramas.
// The query is remembered for future interactive suggestions.
func (d *Dramabox) Search(q string) ([]*source.Drama, error) {
	_ = query.Remember(q, 1)
	return d.listing("/search?query=" + url.QueryEscape(q))
}

// EpisodesOf retrieves the complete episode list for a drama, ordered by
// episode index.
func (d *Dramabox) EpisodesOf(contentID string) ([]*source.Episode, error) {
	if cached := episodeCacher.Get(contentID); cached.IsPresent() {
		return cached.MustGet(), nil
	}

	var raw []*episodeJson
	if err := d.get("/allepisode?bookId="+url.QueryEscape(contentID), &raw); err != nil {
		return nil, err
	}

	episodes := lo.Map(raw, func(j *episodeJson, _ int) *source.Episode {
		return j.toEpisode()
	})
	source.SortEpisodes(episodes)

	if err := episodeCacher.Set(contentID, episodes); err != nil {
		log.Warnf("episode cache write failed: %v", err)
	}
	return episodes, nil
}

// DetailOf resolves full drama metadata for a content id. The API has no
// dedicated detail endpoint, so the id is hunted through progressively
// heavier listings: a title search first, then trending and latest, then
// the premium catalog. An exhausted chain is an absent result, not an error.
func (d *Dramabox) DetailOf(contentID string, titleHint string) (mo.Option[*source.Drama], error) {
	if cached := detailCacher.Get(contentID); cached.IsPresent() {
		return cached, nil
	}

	byID := func(drama *source.Drama) bool { return drama.ID == contentID }

	if titleHint != "" {
		results, err := d.Search(titleHint)
		if err != nil {
			log.Warnf("detail search for %q failed: %v", titleHint, err)
		} else if found, ok := lo.Find(results, byID); ok {
			return d.cacheDetail(found), nil
		}
	}

	for _, listing := range []func() ([]*source.Drama, error){d.Trending, d.Latest, d.Vip} {
		results, err := listing()
		if err != nil {
			log.Warnf("detail listing scan failed: %v", err)
			continue
		}
		if found, ok := lo.Find(results, byID); ok {
			return d.cacheDetail(found), nil
		}
	}

	return mo.None[*source.Drama](), nil
}

func (d *Dramabox) cacheDetail(drama *source.Drama) mo.Option[*source.Drama] {
	if err := detailCacher.Set(drama.ID, drama); err != nil {
		log.Warnf("detail cache write failed: %v", err)
	}
	return mo.Some(drama)
}

// listing fetches an endpoint answering with a flat list of books.
func (d *Dramabox) listing(path string) ([]*source.Drama, error) {
	var raw []*dramaJson
	if err := d.get(path, &raw); err != nil {
		return nil, err
	}
	return toDramas(raw), nil
}

// get performs one GET round trip against the catalog and decodes the JSON
// response into out.
func (d *Dramabox) get(path string, out interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+path, nil)
	if err != nil {
		log.Error(err)
		return err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)

	log.Infof("catalog request: %s", path)
	resp, err := d.client.Do(req)
	if err != nil {
		log.Error(err)
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("catalog returned status code %d", resp.StatusCode)
		log.Error(err)
		return err
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error(err)
		return err
	}
	return nil
}
