// Package mock provides test doubles for pusula interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/pusula"
)

// Interface compliance check.
var _ pusula.Recommender = (*Recommender)(nil)

// Recommender is a test double for pusula.Recommender.
// Set RecommendFn before calling Recommend.
type Recommender struct {
	RecommendFn func(ctx context.Context, req pusula.Request) (pusula.ChunkStream, error)
}

// Recommend delegates to RecommendFn.
func (r *Recommender) Recommend(ctx context.Context, req pusula.Request) (pusula.ChunkStream, error) {
	return r.RecommendFn(ctx, req)
}
