// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"encoding/json"

	"github.com/dramasan-cli/dramasan/history"
	"github.com/dramasan-cli/dramasan/source"
)

type Drama struct {
	// Catalog is the name of the backend the drama came from.
	Catalog string `json:"catalog"`
	// Drama is the drama record, with episodes attached when requested.
	Drama *source.Drama `json:"drama"`
	// History is the saved watch history for the drama (optional).
	History *history.ContentHistory `json:"history,omitempty"`
}

type Output struct {
	Query  string   `json:"query"`
	Result []*Drama `json:"result"`
}

func asJson(dramas []*source.Drama, options *Options) ([]byte, error) {
	var result = make([]*Drama, len(dramas))
	for i, d := range dramas {
		result[i] = &Drama{
			Catalog: options.Catalog.Name(),
			Drama:   d,
			History: history.Of(d.ID).OrElse(nil),
		}
	}

	return json.Marshal(&Output{
		Query:  options.Query,
		Result: result,
	})
}
