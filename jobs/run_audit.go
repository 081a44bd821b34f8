package jobs

import (
	"context"

	"github.com/revue-hq/revue-backend/usecases"
)

func RunAudit(ctx context.Context, uc usecases.Usecases) error {
	return executeWithMonitoring(
		ctx,
		uc,
		"access-review-audit",
		func(ctx context.Context, uc usecases.Usecases) error {
			return uc.NewAuditUsecase().RunAudit(ctx)
		},
	)
}
