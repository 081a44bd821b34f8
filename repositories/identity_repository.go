package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/revue-hq/revue-backend/models"
	"github.com/revue-hq/revue-backend/pure_utils"
	"github.com/revue-hq/revue-backend/repositories/dbmodels"
)

type IdentityRepository interface {
	UpsertIdentity(ctx context.Context, exec Executor, input models.UpsertIdentityInput) error
	GetIdentityByLogin(ctx context.Context, exec Executor, login string) (models.Identity, error)
	GetIdentityByKey(ctx context.Context, exec Executor, key string) (models.Identity, error)
	ListIdentities(ctx context.Context, exec Executor) ([]models.Identity, error)
}

type IdentityRepositoryPostgresql struct{}

// UpsertIdentity creates the identity for an unseen key and updates it in
// place otherwise, last write wins per field. Re-ingestion never duplicates.
func (repo IdentityRepositoryPostgresql) UpsertIdentity(
	ctx context.Context,
	exec Executor,
	input models.UpsertIdentityInput,
) error {
	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_IDENTITIES).
		Columns("id", "identity_key", "login", "display_name", "source_of_origin").
		Values(
			uuid.New(),
			input.Key(),
			input.Login,
			input.DisplayName,
			input.SourceOfOrigin,
		).
		Suffix(`ON CONFLICT (identity_key) DO UPDATE SET
			login = EXCLUDED.login,
			display_name = EXCLUDED.display_name,
			source_of_origin = EXCLUDED.source_of_origin,
			updated_at = NOW()`)

	return ExecBuilder(ctx, exec, query)
}

func (repo IdentityRepositoryPostgresql) GetIdentityByLogin(
	ctx context.Context,
	exec Executor,
	login string,
) (models.Identity, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectIdentityColumns...).
		From(dbmodels.TABLE_IDENTITIES).
		Where(squirrel.Eq{"login": pure_utils.NormalizeLogin(login)})

	return SqlToModel(ctx, exec, query, dbmodels.AdaptIdentity)
}

func (repo IdentityRepositoryPostgresql) GetIdentityByKey(
	ctx context.Context,
	exec Executor,
	key string,
) (models.Identity, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectIdentityColumns...).
		From(dbmodels.TABLE_IDENTITIES).
		Where(squirrel.Eq{"identity_key": key})

	return SqlToModel(ctx, exec, query, dbmodels.AdaptIdentity)
}

// ListIdentities returns every identity in a stable order, so audit runs
// always traverse in the same sequence.
func (repo IdentityRepositoryPostgresql) ListIdentities(
	ctx context.Context,
	exec Executor,
) ([]models.Identity, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectIdentityColumns...).
		From(dbmodels.TABLE_IDENTITIES).
		OrderBy("created_at", "id")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptIdentity)
}
