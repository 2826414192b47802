package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ekorchmar/HistoricalCoinData/internal/flatten"
	"github.com/ekorchmar/HistoricalCoinData/internal/writer"
)

// Config holds poller configuration.
type Config struct {
	Start         time.Time // first snapshot date
	End           time.Time // exclusive bound
	StepDays      int       // cursor increment (default: 7)
	ProgressEvery int       // log the first step and every Nth (default: 25)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Start:         time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		End:           time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		StepDays:      7,
		ProgressEvery: 25,
	}
}

// Summary describes a completed run.
type Summary struct {
	RunID    uuid.UUID
	Steps    int           // snapshots written
	Last     time.Time     // cursor after the final step
	Duration time.Duration
}

// Poller walks the configured dates, fetching and writing one snapshot each.
type Poller struct {
	cfg     Config
	fetcher SnapshotFetcher
	writer  writer.SnapshotWriter
	logger  *slog.Logger
	runID   uuid.UUID
}

// New creates a new Poller.
func New(cfg Config, fetcher SnapshotFetcher, w writer.SnapshotWriter, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.StepDays <= 0 {
		cfg.StepDays = 7
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = 25
	}
	return &Poller{
		cfg:     cfg,
		fetcher: fetcher,
		writer:  w,
		logger:  logger,
		runID:   uuid.New(),
	}
}

// RunID identifies this poller's run in logs and stored rows.
func (p *Poller) RunID() uuid.UUID {
	return p.runID
}

// Run processes every date in order. The first fetch or write error stops the
// run and is returned with the date that failed.
func (p *Poller) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: p.runID, Last: p.cfg.Start}

	for _, date := range Dates(p.cfg.Start, p.cfg.End, p.cfg.StepDays) {
		step := summary.Steps + 1

		if err := p.processDate(ctx, date); err != nil {
			summary.Duration = time.Since(start)
			return summary, fmt.Errorf("step %d (%s): %w", step, date.Format("2006-01-02"), err)
		}

		if p.shouldLog(step) {
			p.logger.Info("processed snapshot",
				"date", date.Format("2006-01-02"),
				"step", step,
			)
		}

		summary.Steps = step
		summary.Last = date.AddDate(0, 0, p.cfg.StepDays)
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

// processDate fetches, flattens and writes one snapshot.
func (p *Poller) processDate(ctx context.Context, date time.Time) error {
	raw, err := p.fetcher.FetchSnapshot(ctx, date)
	if err != nil {
		return err
	}

	snapshot := writer.Snapshot{
		RunID:   p.runID,
		Date:    date,
		Records: flatten.All(raw),
	}

	if err := p.writer.WriteSnapshot(ctx, snapshot); err != nil {
		return err
	}
	return nil
}

func (p *Poller) shouldLog(step int) bool {
	return step == 1 || step%p.cfg.ProgressEvery == 0
}
