package jobs

import (
	"context"

	"github.com/revue-hq/revue-backend/usecases"
)

func WriteRollup(ctx context.Context, uc usecases.Usecases, path string) error {
	return executeWithMonitoring(
		ctx,
		uc,
		"rollup-report",
		func(ctx context.Context, uc usecases.Usecases) error {
			return uc.NewRollupUsecase().WriteRollup(ctx, path)
		},
	)
}
