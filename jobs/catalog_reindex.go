package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// CatalogRebuilder refreshes every supplier's cached catalog slice.
type CatalogRebuilder interface {
	RebuildCatalog(ctx context.Context) (int, error)
}

// CatalogReindexJob drives the catalog cache refresh.
type CatalogReindexJob struct {
	logger  *slog.Logger
	catalog CatalogRebuilder
}

func NewCatalogReindexJob(logger *slog.Logger, catalog CatalogRebuilder) *CatalogReindexJob {
	return &CatalogReindexJob{logger: logger, catalog: catalog}
}

// Handle processes TaskCatalogReindex tasks.
func (j *CatalogReindexJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload CatalogReindexPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	suppliers, err := j.catalog.RebuildCatalog(ctx)
	if err != nil {
		j.logger.Error("catalog reindex failed", slog.Any("error", err))
		return err
	}
	j.logger.Info("catalog reindex done", slog.Int("suppliers", suppliers), slog.Bool("force", payload.Force))
	return nil
}
