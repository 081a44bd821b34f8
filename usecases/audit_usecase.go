package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/revue-hq/revue-backend/models"
	"github.com/revue-hq/revue-backend/repositories"
	"github.com/revue-hq/revue-backend/utils"
)

// interfaces used by the usecase
type auditTransactionFactory interface {
	Transaction(ctx context.Context, fn func(tx repositories.Transaction) error) error
	GetExecutor() repositories.Executor
}

type identityLister interface {
	ListIdentities(ctx context.Context, exec repositories.Executor) ([]models.Identity, error)
}

type serviceRowGetter interface {
	ListSourceTables(ctx context.Context, exec repositories.Executor) ([]models.SourceTable, error)
	GetDataRowByLogin(ctx context.Context, exec repositories.Executor, table models.SourceTable, login string) (models.SourceRow, error)
}

type auditTrailWriter interface {
	UpsertAuditEntry(ctx context.Context, exec repositories.Executor, input models.UpsertAuditEntryInput) error
}

// AuditUsecase is the correlation engine: it joins every identity against
// every catalogued source table, aggregates the match evidence into a review
// decision and persists the audit trail.
type AuditUsecase struct {
	transactionFactory auditTransactionFactory
	identityLister     identityLister
	rowGetter          serviceRowGetter
	trailWriter        auditTrailWriter
	rules              models.ReviewRules
}

// RunAudit correlates the full identity registry against all sources. The
// trail of each identity is written as one atomic unit: interrupting a run
// leaves some identities fully processed and the rest untouched, and a
// simple re-invocation converges on the same final state.
func (usecase AuditUsecase) RunAudit(ctx context.Context) error {
	logger := utils.LoggerFromContext(ctx)
	exec := usecase.transactionFactory.GetExecutor()

	identities, err := usecase.identityLister.ListIdentities(ctx, exec)
	if err != nil {
		return errors.Wrap(err, "error listing identities")
	}
	tables, err := usecase.rowGetter.ListSourceTables(ctx, exec)
	if err != nil {
		return errors.Wrap(err, "error listing source tables")
	}

	var flagged int
	for _, identity := range identities {
		logger.DebugContext(ctx, "Processing identity",
			slog.String("key", identity.IdentityKey),
			slog.String("login", identity.Login))

		accumulator := usecase.correlateIdentity(ctx, exec, identity, tables)
		decision := accumulator.Decide(usecase.rules.ReviewThreshold)
		if decision.NeedsReview {
			flagged++
			logger.DebugContext(ctx, "Identity flagged for review",
				slog.String("key", identity.IdentityKey),
				slog.Int("match_count", decision.MatchCount))
		}

		if err := usecase.writeAuditTrail(ctx, identity, accumulator, decision); err != nil {
			return errors.Wrapf(err, "error writing audit trail for %s", identity.IdentityKey)
		}
	}

	logger.InfoContext(ctx, "Audit completed",
		slog.Int("identities", len(identities)),
		slog.Int("flagged", flagged))
	return nil
}

// correlateIdentity visits every non-excluded source table in registration
// order and collects the identity's evidence into an accumulator. A source
// that fails or has no data degrades to placeholder entries; it never aborts
// the traversal.
func (usecase AuditUsecase) correlateIdentity(
	ctx context.Context,
	exec repositories.Executor,
	identity models.Identity,
	tables []models.SourceTable,
) *models.CorrelationAccumulator {
	logger := utils.LoggerFromContext(ctx)
	accumulator := models.NewCorrelationAccumulator()

	for _, table := range tables {
		if usecase.rules.IsExcludedSource(table.Name) {
			continue
		}
		if !table.IdentifierColumn.Valid {
			logger.DebugContext(ctx, "Source has no identifier column, skipping",
				slog.String("source", table.Name))
			continue
		}
		reviewable := table.ReviewableColumns(usecase.rules)
		if len(reviewable) == 0 {
			continue
		}

		if identity.Login == "" {
			// Display-name keyed identity: it cannot be joined to any
			// source, record "no data" everywhere.
			recordPlaceholders(accumulator, table.Name, reviewable)
			continue
		}

		row, err := usecase.rowGetter.GetDataRowByLogin(ctx, exec, table, identity.Login)
		switch {
		case errors.Is(err, models.NotFoundError):
			recordPlaceholders(accumulator, table.Name, reviewable)
			continue
		case err != nil:
			logger.WarnContext(ctx, fmt.Sprintf("Error querying source %s: %v", table.Name, err),
				slog.String("identity", identity.IdentityKey))
			recordPlaceholders(accumulator, table.Name, reviewable)
			continue
		}

		for _, attribute := range reviewable {
			value, ok := row.ValueForColumn(attribute)
			if !ok {
				// Schema drift: the catalog knows the column but the data
				// table row does not carry it.
				accumulator.RecordPlaceholder(table.Name, attribute)
				continue
			}
			accumulator.RecordValue(usecase.rules, table.Name, attribute, value)
		}
	}
	return accumulator
}

// writeAuditTrail persists one identity's entries, stamped with the final
// decisions, inside a single transaction.
func (usecase AuditUsecase) writeAuditTrail(
	ctx context.Context,
	identity models.Identity,
	accumulator *models.CorrelationAccumulator,
	decision models.ReviewDecision,
) error {
	return usecase.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		for _, candidate := range accumulator.Candidates {
			err := usecase.trailWriter.UpsertAuditEntry(ctx, tx, models.UpsertAuditEntryInput{
				IdentityKey:    identity.IdentityKey,
				SourceTable:    candidate.SourceTable,
				AttributeName:  candidate.AttributeName,
				AttributeValue: candidate.AttributeValue,
				NeedsReview:    decision.NeedsReview,
				IsAdmin:        decision.IsAdmin,
				Comments:       decision.Comments,
				AdminComments:  decision.AdminComments,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func recordPlaceholders(accumulator *models.CorrelationAccumulator, tableName string, attributes []string) {
	for _, attribute := range attributes {
		accumulator.RecordPlaceholder(tableName, attribute)
	}
}
