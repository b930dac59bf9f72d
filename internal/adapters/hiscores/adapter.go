package hiscores

import (
	"hiscore-tracker/internal/adapters/hiscores/api"
	"hiscore-tracker/internal/core/domain"
)

type Adapter struct {
	client       *api.Client
	schema       domain.Schema
	workers      int
	htmlFallback bool
}

// NewAdapter creates a hiscores fetcher. With htmlFallback set, players whose
// index_lite request fails for reasons other than not found are read from
// the personal HTML page instead.
func NewAdapter(client *api.Client, schema domain.Schema, workers int, htmlFallback bool) *Adapter {
	if workers < 1 {
		workers = 1
	}
	return &Adapter{
		client:       client,
		schema:       schema,
		workers:      workers,
		htmlFallback: htmlFallback,
	}
}
