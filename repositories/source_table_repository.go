package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/revue-hq/revue-backend/models"
	"github.com/revue-hq/revue-backend/pure_utils"
	"github.com/revue-hq/revue-backend/repositories/dbmodels"
)

type SourceTableRepository interface {
	UpsertSourceTable(ctx context.Context, exec Executor, input models.UpsertSourceTableInput) error
	GetSourceTable(ctx context.Context, exec Executor, name string) (models.SourceTable, error)
	ListSourceTables(ctx context.Context, exec Executor) ([]models.SourceTable, error)
	CreateDataTable(ctx context.Context, exec Executor, table models.SourceTable) error
	InsertDataRow(ctx context.Context, exec Executor, table models.SourceTable, row models.SourceRow) error
	ReplaceDataRow(ctx context.Context, exec Executor, table models.SourceTable, row models.SourceRow) error
	DeleteAllDataRows(ctx context.Context, exec Executor, table models.SourceTable) error
	GetDataRowByLogin(ctx context.Context, exec Executor, table models.SourceTable, login string) (models.SourceRow, error)
}

type SourceTableRepositoryPostgresql struct{}

func (repo SourceTableRepositoryPostgresql) UpsertSourceTable(
	ctx context.Context,
	exec Executor,
	input models.UpsertSourceTableInput,
) error {
	columns, err := json.Marshal(input.Columns)
	if err != nil {
		return errors.Wrap(err, "unable to marshal columns of source table "+input.Name)
	}

	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_SOURCE_TABLES).
		Columns("id", "name", "columns", "identifier_column").
		Values(uuid.New(), input.Name, columns, input.IdentifierColumn).
		Suffix(`ON CONFLICT (name) DO UPDATE SET
			columns = EXCLUDED.columns,
			identifier_column = EXCLUDED.identifier_column,
			updated_at = NOW()`)

	return ExecBuilder(ctx, exec, query)
}

func (repo SourceTableRepositoryPostgresql) GetSourceTable(
	ctx context.Context,
	exec Executor,
	name string,
) (models.SourceTable, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectSourceTableColumns...).
		From(dbmodels.TABLE_SOURCE_TABLES).
		Where(squirrel.Eq{"name": name})

	return SqlToModel(ctx, exec, query, dbmodels.AdaptSourceTable)
}

// ListSourceTables returns the catalog in registration order, which is the
// order the Correlator visits sources in.
func (repo SourceTableRepositoryPostgresql) ListSourceTables(
	ctx context.Context,
	exec Executor,
) ([]models.SourceTable, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectSourceTableColumns...).
		From(dbmodels.TABLE_SOURCE_TABLES).
		OrderBy("created_at", "id")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptSourceTable)
}

// CreateDataTable creates or grows the data table backing one source: every
// source column becomes a TEXT column, added idempotently so repeated
// ingestions converge and columns only ever accumulate.
func (repo SourceTableRepositoryPostgresql) CreateDataTable(
	ctx context.Context,
	exec Executor,
	table models.SourceTable,
) error {
	sanitizedTableName := pgx.Identifier{table.Name}.Sanitize()

	sql := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id UUID NOT NULL DEFAULT uuid_generate_v4(),
		PRIMARY KEY (id)
	)`, sanitizedTableName)
	if _, err := exec.Exec(ctx, sql); err != nil {
		return errors.Wrap(err, "unable to create data table "+table.Name)
	}

	for _, column := range table.Columns {
		sql := fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s TEXT",
			sanitizedTableName, pgx.Identifier{column}.Sanitize())
		if _, err := exec.Exec(ctx, sql); err != nil {
			return errors.Wrap(err,
				fmt.Sprintf("unable to add column %s to data table %s", column, table.Name))
		}
	}
	return nil
}

func (repo SourceTableRepositoryPostgresql) InsertDataRow(
	ctx context.Context,
	exec Executor,
	table models.SourceTable,
	row models.SourceRow,
) error {
	columns := make([]string, 0, len(table.Columns))
	values := make([]any, 0, len(table.Columns))
	for _, column := range table.Columns {
		columns = append(columns, pgx.Identifier{column}.Sanitize())
		values = append(values, row[column])
	}

	query := NewQueryBuilder().
		Insert(pgx.Identifier{table.Name}.Sanitize()).
		Columns(columns...).
		Values(values...)

	return ExecBuilder(ctx, exec, query)
}

// ReplaceDataRow re-inserts a row wholesale: any prior row carrying the same
// identifier value (case-insensitively) is deleted first. Both statements
// are expected to run inside the sheet's ingestion transaction.
func (repo SourceTableRepositoryPostgresql) ReplaceDataRow(
	ctx context.Context,
	exec Executor,
	table models.SourceTable,
	row models.SourceRow,
) error {
	if !table.IdentifierColumn.Valid {
		return repo.InsertDataRow(ctx, exec, table, row)
	}

	identifierColumn := table.IdentifierColumn.String
	identifierValue, _ := row.ValueForColumn(identifierColumn)

	sql := fmt.Sprintf("DELETE FROM %s WHERE LOWER(%s) = $1",
		pgx.Identifier{table.Name}.Sanitize(),
		pgx.Identifier{identifierColumn}.Sanitize())
	if _, err := exec.Exec(ctx, sql, pure_utils.NormalizeLogin(identifierValue)); err != nil {
		return errors.Wrap(err, "unable to replace data row in "+table.Name)
	}

	return repo.InsertDataRow(ctx, exec, table, row)
}

// DeleteAllDataRows wipes a data table. Used when re-ingesting a source that
// has no identifier column, where replace-by-identifier cannot apply.
func (repo SourceTableRepositoryPostgresql) DeleteAllDataRows(
	ctx context.Context,
	exec Executor,
	table models.SourceTable,
) error {
	sql := fmt.Sprintf("DELETE FROM %s", pgx.Identifier{table.Name}.Sanitize())
	_, err := exec.Exec(ctx, sql)
	return errors.Wrap(err, "unable to delete data rows of "+table.Name)
}

// GetDataRowByLogin fetches the row whose identifier column matches the
// normalized login. If the store holds several matching rows only the first
// one (in primary key order, for determinism) is used.
func (repo SourceTableRepositoryPostgresql) GetDataRowByLogin(
	ctx context.Context,
	exec Executor,
	table models.SourceTable,
	login string,
) (models.SourceRow, error) {
	if !table.IdentifierColumn.Valid {
		return nil, errors.Wrap(models.BadParameterError,
			"source table "+table.Name+" has no identifier column")
	}

	sql := fmt.Sprintf("SELECT * FROM %s WHERE LOWER(%s) = $1 ORDER BY id LIMIT 1",
		pgx.Identifier{table.Name}.Sanitize(),
		pgx.Identifier{table.IdentifierColumn.String}.Sanitize())

	rows, err := exec.Query(ctx, sql, pure_utils.NormalizeLogin(login))
	if err != nil {
		return nil, errors.Wrap(err, "error querying data table "+table.Name)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, errors.Wrap(err, "error reading data table "+table.Name)
		}
		return nil, errors.Wrap(models.NotFoundError,
			fmt.Sprintf("no row for login in data table %s", table.Name))
	}

	values, err := rows.Values()
	if err != nil {
		return nil, errors.Wrap(err, "error scanning data table "+table.Name)
	}

	row := models.SourceRow{}
	for i, description := range rows.FieldDescriptions() {
		if strings.EqualFold(description.Name, "id") {
			continue
		}
		if values[i] == nil {
			row[description.Name] = ""
			continue
		}
		row[description.Name] = fmt.Sprintf("%v", values[i])
	}
	return row, nil
}
