package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// DraftSweeper removes drafts untouched for longer than maxAge and reports
// how many were removed.
type DraftSweeper interface {
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)
}

// DraftsSweepJob clears abandoned draft orders from Redis.
type DraftsSweepJob struct {
	logger     *slog.Logger
	store      DraftSweeper
	defaultAge time.Duration
}

func NewDraftsSweepJob(logger *slog.Logger, store DraftSweeper, defaultAge time.Duration) *DraftsSweepJob {
	return &DraftsSweepJob{logger: logger, store: store, defaultAge: defaultAge}
}

// Handle processes TaskDraftsSweep tasks.
func (j *DraftsSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload DraftsSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	maxAge := j.defaultAge
	if payload.MaxAgeHours > 0 {
		maxAge = time.Duration(payload.MaxAgeHours) * time.Hour
	}
	removed, err := j.store.Sweep(ctx, maxAge)
	if err != nil {
		j.logger.Error("drafts sweep failed", slog.Any("error", err))
		return err
	}
	j.logger.Info("drafts sweep done", slog.Int("removed", removed), slog.Duration("max_age", maxAge))
	return nil
}
