package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/revue-hq/revue-backend/models"
	"github.com/revue-hq/revue-backend/repositories/dbmodels"
)

type AuditRepository interface {
	UpsertAuditEntry(ctx context.Context, exec Executor, input models.UpsertAuditEntryInput) error
	ListAuditEntries(ctx context.Context, exec Executor) ([]models.AuditEntry, error)
	ListAuditEntriesForIdentity(ctx context.Context, exec Executor, identityKey string) ([]models.AuditEntry, error)
}

type AuditRepositoryPostgresql struct{}

// UpsertAuditEntry writes one (identity, source table, attribute)
// observation, replacing the previous run's entry for the same triple. This
// replace-on-conflict write is what makes re-runs converge instead of
// appending, and what drops stale review flags.
func (repo AuditRepositoryPostgresql) UpsertAuditEntry(
	ctx context.Context,
	exec Executor,
	input models.UpsertAuditEntryInput,
) error {
	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_AUDIT_ENTRIES).
		Columns(
			"id",
			"identity_key",
			"source_table",
			"attribute_name",
			"attribute_value",
			"needs_review",
			"is_admin",
			"comments",
			"admin_comments",
		).
		Values(
			uuid.New(),
			input.IdentityKey,
			input.SourceTable,
			input.AttributeName,
			input.AttributeValue,
			input.NeedsReview,
			input.IsAdmin,
			input.Comments,
			input.AdminComments,
		).
		Suffix(`ON CONFLICT (identity_key, source_table, attribute_name) DO UPDATE SET
			attribute_value = EXCLUDED.attribute_value,
			needs_review = EXCLUDED.needs_review,
			is_admin = EXCLUDED.is_admin,
			comments = EXCLUDED.comments,
			admin_comments = EXCLUDED.admin_comments,
			updated_at = NOW()`)

	return ExecBuilder(ctx, exec, query)
}

// ListAuditEntries returns the whole trail in first-seen order, which the
// rollup relies on for stable column ordering.
func (repo AuditRepositoryPostgresql) ListAuditEntries(
	ctx context.Context,
	exec Executor,
) ([]models.AuditEntry, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectAuditEntryColumns...).
		From(dbmodels.TABLE_AUDIT_ENTRIES).
		OrderBy("created_at", "id")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptAuditEntry)
}

func (repo AuditRepositoryPostgresql) ListAuditEntriesForIdentity(
	ctx context.Context,
	exec Executor,
	identityKey string,
) ([]models.AuditEntry, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectAuditEntryColumns...).
		From(dbmodels.TABLE_AUDIT_ENTRIES).
		Where(squirrel.Eq{"identity_key": identityKey}).
		OrderBy("created_at", "id")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptAuditEntry)
}
