package usecases

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"

	"github.com/revue-hq/revue-backend/models"
	"github.com/revue-hq/revue-backend/pure_utils"
	"github.com/revue-hq/revue-backend/repositories"
	"github.com/revue-hq/revue-backend/utils"
	"github.com/revue-hq/revue-backend/workbooks"
)

// displayNameColumn is the conventional column holding a user's display
// name across service exports, matched on the normalized column name.
const displayNameColumn = "displayname"

// reservedTableNames are store tables a source sheet must never shadow.
var reservedTableNames = []string{
	"identities",
	"source_tables",
	"audit_entries",
	"goose_db_version",
	workbooks.RollupSheetName,
}

type IngestionUsecase struct {
	executorGetter        repositories.ExecutorGetter
	identityRepository    repositories.IdentityRepository
	sourceTableRepository repositories.SourceTableRepository
	rules                 models.ReviewRules
}

// IngestWorkbook builds or updates the source-table catalog, the per-source
// data tables and the identity registry from one workbook. Each sheet is
// ingested in its own transaction: a failing sheet commits nothing of its
// own data but does not undo sheets already ingested.
func (usecase IngestionUsecase) IngestWorkbook(ctx context.Context, path string) error {
	logger := utils.LoggerFromContext(ctx)

	workbook, err := workbooks.Open(path)
	if err != nil {
		return err
	}
	defer workbook.Close()

	sheets, err := workbook.Sheets()
	if err != nil {
		return err
	}

	for _, sheet := range sheets {
		if usecase.rules.IsExcludedSource(sheet.Name) {
			logger.DebugContext(ctx, "Skipping excluded sheet", slog.String("sheet", sheet.Name))
			continue
		}
		if isReservedTableName(sheet.Name) {
			return errors.Wrapf(models.ErrReservedTableName, "sheet %s", sheet.Name)
		}

		logger.InfoContext(ctx, "Ingesting sheet",
			slog.String("sheet", sheet.Name),
			slog.Int("rows", len(sheet.Rows)))

		if err := usecase.ingestSheet(ctx, sheet); err != nil {
			return errors.Wrapf(err, "error ingesting sheet %s", sheet.Name)
		}
	}
	return nil
}

func (usecase IngestionUsecase) ingestSheet(ctx context.Context, sheet workbooks.Sheet) error {
	logger := utils.LoggerFromContext(ctx)

	return usecase.executorGetter.Transaction(ctx, func(tx repositories.Transaction) error {
		columns := sheet.Columns
		existing, err := usecase.sourceTableRepository.GetSourceTable(ctx, tx, sheet.Name)
		switch {
		case err == nil:
			// Columns only grow: keep the catalogued order and append the
			// new ones.
			columns = models.MergeColumns(existing.Columns, sheet.Columns)
		case !errors.Is(err, models.NotFoundError):
			return err
		}

		classification := models.ClassifyColumns(usecase.rules, columns)
		if !classification.IdentifierColumn.Valid {
			logger.DebugContext(ctx, "Sheet has no identifier column, it will not be correlated",
				slog.String("sheet", sheet.Name))
		}

		if err := usecase.sourceTableRepository.UpsertSourceTable(ctx, tx, models.UpsertSourceTableInput{
			Name:             sheet.Name,
			Columns:          columns,
			IdentifierColumn: classification.IdentifierColumn,
		}); err != nil {
			return err
		}

		table, err := usecase.sourceTableRepository.GetSourceTable(ctx, tx, sheet.Name)
		if err != nil {
			return err
		}
		if err := usecase.sourceTableRepository.CreateDataTable(ctx, tx, table); err != nil {
			return err
		}

		if !table.IdentifierColumn.Valid {
			// No identifier to replace rows by: re-ingestion rewrites the
			// table wholesale instead.
			if err := usecase.sourceTableRepository.DeleteAllDataRows(ctx, tx, table); err != nil {
				return err
			}
		}

		for i, values := range sheet.Rows {
			row := makeSourceRow(sheet.Columns, values)
			if err := usecase.sourceTableRepository.ReplaceDataRow(ctx, tx, table, row); err != nil {
				return errors.Wrapf(err, "error ingesting row %d", i+2)
			}

			input, ok := extractIdentity(table, row, sheet.Name)
			if !ok {
				continue
			}
			if err := usecase.identityRepository.UpsertIdentity(ctx, tx, input); err != nil {
				return err
			}
			logger.DebugContext(ctx, "Upserted identity",
				slog.String("key", input.Key()),
				slog.String("sheet", sheet.Name))
		}
		return nil
	})
}

func makeSourceRow(columns []string, values []string) models.SourceRow {
	row := make(models.SourceRow, len(columns))
	for i, column := range columns {
		if i < len(values) {
			row[column] = values[i]
		} else {
			row[column] = ""
		}
	}
	return row
}

// extractIdentity derives the identity upsert for one source row: the
// normalized value of the sheet's identifier column, the display name when
// the sheet carries one, and the sheet as source of origin. A row with
// neither login nor display name yields no identity.
func extractIdentity(table models.SourceTable, row models.SourceRow, sourceOfOrigin string) (models.UpsertIdentityInput, bool) {
	input := models.UpsertIdentityInput{SourceOfOrigin: sourceOfOrigin}

	if table.IdentifierColumn.Valid {
		if value, ok := row.ValueForColumn(table.IdentifierColumn.String); ok {
			input.Login = pure_utils.NormalizeLogin(value)
		}
	}
	for column, value := range row {
		if pure_utils.NormalizeLogin(column) == displayNameColumn && value != "" {
			input.DisplayName = null.StringFrom(value)
			break
		}
	}

	if input.Login == "" && !input.DisplayName.Valid {
		return models.UpsertIdentityInput{}, false
	}
	return input, true
}

func isReservedTableName(name string) bool {
	normalized := pure_utils.NormalizeLogin(name)
	for _, reserved := range reservedTableNames {
		if pure_utils.NormalizeLogin(reserved) == normalized {
			return true
		}
	}
	return false
}
