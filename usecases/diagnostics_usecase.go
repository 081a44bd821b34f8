package usecases

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/revue-hq/revue-backend/models"
	"github.com/revue-hq/revue-backend/repositories"
)

// DiagnosticsUsecase backs the read-only CLI entry points used to inspect
// the store: one identity with its trail, the schema listing, raw queries.
type DiagnosticsUsecase struct {
	executorGetter        repositories.ExecutorGetter
	identityRepository    repositories.IdentityRepository
	auditRepository       repositories.AuditRepository
	diagnosticsRepository repositories.DiagnosticsRepository
}

type IdentityReport struct {
	Identity models.Identity
	Entries  []models.AuditEntry
}

func (usecase DiagnosticsUsecase) GetIdentityReport(ctx context.Context, login string) (IdentityReport, error) {
	exec := usecase.executorGetter.GetExecutor()

	identity, err := usecase.identityRepository.GetIdentityByLogin(ctx, exec, login)
	if errors.Is(err, models.NotFoundError) {
		// Identities from login-less sources are keyed by display name and
		// can only be found that way.
		identity, err = usecase.identityRepository.GetIdentityByKey(ctx, exec, login)
	}
	if err != nil {
		return IdentityReport{}, errors.Wrapf(err, "error looking up identity %s", login)
	}

	entries, err := usecase.auditRepository.ListAuditEntriesForIdentity(ctx, exec, identity.IdentityKey)
	if err != nil {
		return IdentityReport{}, errors.Wrapf(err, "error listing audit entries of %s", login)
	}

	return IdentityReport{Identity: identity, Entries: entries}, nil
}

func (usecase DiagnosticsUsecase) ListSchema(ctx context.Context) ([]repositories.TableSchema, error) {
	return usecase.diagnosticsRepository.ListSchema(ctx, usecase.executorGetter.GetExecutor())
}

func (usecase DiagnosticsUsecase) RunRawQuery(ctx context.Context, rawSql string) (repositories.RawQueryResult, error) {
	return usecase.diagnosticsRepository.RunRawQuery(ctx, usecase.executorGetter.GetExecutor(), rawSql)
}
