package jobs

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"

	"github.com/revue-hq/revue-backend/usecases"
	"github.com/revue-hq/revue-backend/utils"
)

func executeWithMonitoring(
	ctx context.Context,
	uc usecases.Usecases,
	jobName string,
	fn func(context.Context, usecases.Usecases) error,
) error {
	logger := utils.LoggerFromContext(ctx)
	logger.InfoContext(ctx, fmt.Sprintf("Start job %s", jobName))

	checkinId := sentry.CaptureCheckIn(
		&sentry.CheckIn{
			MonitorSlug: jobName,
			Status:      sentry.CheckInStatusInProgress,
		},
		nil,
	)

	err := fn(ctx, uc)
	if err != nil {
		if checkinId != nil {
			sentry.CaptureCheckIn(
				&sentry.CheckIn{
					ID:          *checkinId,
					MonitorSlug: jobName,
					Status:      sentry.CheckInStatusError,
				},
				nil,
			)
		}
		utils.LogAndReportSentryError(ctx, err)
		return errors.Wrap(err, fmt.Sprintf("error executing job %s", jobName))
	}

	if checkinId != nil {
		sentry.CaptureCheckIn(
			&sentry.CheckIn{
				ID:          *checkinId,
				MonitorSlug: jobName,
				Status:      sentry.CheckInStatusOK,
			},
			nil,
		)
	}

	logger.InfoContext(ctx, fmt.Sprintf("Done executing job %s", jobName))
	return nil
}
