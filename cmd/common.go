package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/revue-hq/revue-backend/infra"
	"github.com/revue-hq/revue-backend/usecases"
	"github.com/revue-hq/revue-backend/utils"
)

// appRuntime bundles what every subcommand needs: a context carrying the
// logger, the assembled usecases and a teardown func.
type appRuntime struct {
	ctx      context.Context
	usecases usecases.Usecases
	teardown func()
}

// logLevel maps the CLI verbosity flags onto slog levels, mirroring the
// historical tool's print levels.
func logLevel(verbosity int, debug bool) slog.Level {
	if verbosity > 0 || debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func setupApp(config AppConfig, verbosity int, debug bool) (appRuntime, error) {
	logger := utils.NewLoggerWithLevel(config.loggingFormat, logLevel(verbosity, debug))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	infra.SetupSentry(config.sentryDsn, config.env)

	rules, err := loadReviewRules(config.rulesFile)
	if err != nil {
		return appRuntime{}, err
	}

	pool, err := infra.NewPostgresConnectionPool(ctx, config.pgConfig.GetConnectionString())
	if err != nil {
		return appRuntime{}, err
	}

	return appRuntime{
		ctx: ctx,
		usecases: usecases.Usecases{
			Repositories: usecases.NewRepositories(pool),
			Rules:        rules,
		},
		teardown: makeTeardown(pool),
	}, nil
}

func makeTeardown(pool *pgxpool.Pool) func() {
	return func() {
		pool.Close()
		sentry.Flush(3 * time.Second)
	}
}
