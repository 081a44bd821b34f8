package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/revue-hq/revue-backend/models"
)

// TableSchema is one table of the store with its columns, for the schema
// diagnostic action.
type TableSchema struct {
	Name    string
	Columns []string
}

// RawQueryResult is the untyped result of a diagnostic query.
type RawQueryResult struct {
	Columns []string
	Rows    [][]string
}

type DiagnosticsRepository interface {
	ListSchema(ctx context.Context, exec Executor) ([]TableSchema, error)
	RunRawQuery(ctx context.Context, exec Executor, rawSql string) (RawQueryResult, error)
}

type DiagnosticsRepositoryPostgresql struct{}

func (repo DiagnosticsRepositoryPostgresql) ListSchema(
	ctx context.Context,
	exec Executor,
) ([]TableSchema, error) {
	query := NewQueryBuilder().
		Select("table_name", "column_name").
		From("information_schema.columns").
		Where(squirrel.Eq{"table_schema": "public"}).
		OrderBy("table_name", "ordinal_position")

	type schemaRow struct {
		table  string
		column string
	}
	rows, err := SqlToListOfRow(ctx, exec, query, func(row pgx.CollectableRow) (schemaRow, error) {
		var result schemaRow
		err := row.Scan(&result.table, &result.column)
		return result, err
	})
	if err != nil {
		return nil, err
	}

	var tables []TableSchema
	for _, row := range rows {
		if len(tables) == 0 || tables[len(tables)-1].Name != row.table {
			tables = append(tables, TableSchema{Name: row.table})
		}
		last := &tables[len(tables)-1]
		last.Columns = append(last.Columns, row.column)
	}
	return tables, nil
}

// RunRawQuery executes an arbitrary read-only query. Only SELECT statements
// are accepted: this is a diagnostic entry point, not a write path.
func (repo DiagnosticsRepositoryPostgresql) RunRawQuery(
	ctx context.Context,
	exec Executor,
	rawSql string,
) (RawQueryResult, error) {
	trimmed := strings.TrimSpace(rawSql)
	if !strings.HasPrefix(strings.ToLower(trimmed), "select") {
		return RawQueryResult{}, errors.Wrap(models.BadParameterError,
			"only SELECT queries are allowed")
	}

	rows, err := exec.Query(ctx, trimmed)
	if err != nil {
		return RawQueryResult{}, errors.Wrap(err, "error executing raw query")
	}
	defer rows.Close()

	result := RawQueryResult{}
	for _, description := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, description.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return RawQueryResult{}, errors.Wrap(err, "error scanning raw query row")
		}
		row := make([]string, len(values))
		for i, value := range values {
			if value == nil {
				continue
			}
			row[i] = fmt.Sprintf("%v", value)
		}
		result.Rows = append(result.Rows, row)
	}
	return result, errors.Wrap(rows.Err(), "error iterating over raw query rows")
}
