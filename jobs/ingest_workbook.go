package jobs

import (
	"context"

	"github.com/revue-hq/revue-backend/usecases"
)

func IngestWorkbook(ctx context.Context, uc usecases.Usecases, path string) error {
	return executeWithMonitoring(
		ctx,
		uc,
		"workbook-ingestion",
		func(ctx context.Context, uc usecases.Usecases) error {
			return uc.NewIngestionUsecase().IngestWorkbook(ctx, path)
		},
	)
}
