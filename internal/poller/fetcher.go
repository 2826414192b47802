package poller

import (
	"context"
	"time"

	"github.com/ekorchmar/HistoricalCoinData/internal/api"
	"github.com/ekorchmar/HistoricalCoinData/internal/model"
	"github.com/ekorchmar/HistoricalCoinData/internal/pacer"
)

// ListingsClient is the part of api.Client used by the fetcher.
type ListingsClient interface {
	GetHistoricalListings(ctx context.Context, q api.ListingsQuery) ([]model.RawRecord, error)
}

// SnapshotFetcher returns the raw records for one date.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context, date time.Time) ([]model.RawRecord, error)
}

// Fetcher issues one paced listings request per date.
type Fetcher struct {
	client ListingsClient
	pacer  *pacer.Pacer
	limit  int
	start  int
}

// NewFetcher creates a Fetcher sending limit and start with every request.
func NewFetcher(client ListingsClient, p *pacer.Pacer, limit, start int) *Fetcher {
	return &Fetcher{
		client: client,
		pacer:  p,
		limit:  limit,
		start:  start,
	}
}

// FetchSnapshot fetches the listing for date, then sleeps out the rest of the
// pacing interval.
func (f *Fetcher) FetchSnapshot(ctx context.Context, date time.Time) ([]model.RawRecord, error) {
	var records []model.RawRecord
	err := f.pacer.Do(ctx, func(ctx context.Context) error {
		var err error
		records, err = f.client.GetHistoricalListings(ctx, api.ListingsQuery{
			Date:  date,
			Limit: f.limit,
			Start: f.start,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
