package usecases

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/revue-hq/revue-backend/models"
	"github.com/revue-hq/revue-backend/repositories"
	"github.com/revue-hq/revue-backend/utils"
	"github.com/revue-hq/revue-backend/workbooks"
)

// RollupUsecase flattens the identity registry and the audit trail into the
// per-identity report. It is a read-only projection: building the report
// never mutates the store and can run any number of times.
type RollupUsecase struct {
	executorGetter     repositories.ExecutorGetter
	identityRepository repositories.IdentityRepository
	auditRepository    repositories.AuditRepository
	rules              models.ReviewRules
}

// WriteRollup regenerates the report and replaces the workbook's Rollup
// sheet with it.
func (usecase RollupUsecase) WriteRollup(ctx context.Context, path string) error {
	logger := utils.LoggerFromContext(ctx)

	report, err := usecase.BuildReport(ctx)
	if err != nil {
		return err
	}

	workbook, err := workbooks.Open(path)
	if err != nil {
		return err
	}
	defer workbook.Close()

	if err := workbook.WriteRollup(report); err != nil {
		return errors.Wrap(err, "error writing rollup sheet")
	}

	logger.InfoContext(ctx, "Rollup written",
		slog.Int("rows", len(report.Rows)),
		slog.Int("dynamic_columns", len(report.Columns)))
	return nil
}

// BuildReport produces one row per identity and one column per reviewable
// (source table, attribute) pair present anywhere in the trail. The column
// set is a union over the whole trail in first-seen order, so unchanged
// input yields an identical report.
func (usecase RollupUsecase) BuildReport(ctx context.Context) (models.RollupReport, error) {
	exec := usecase.executorGetter.GetExecutor()

	entries, err := usecase.auditRepository.ListAuditEntries(ctx, exec)
	if err != nil {
		return models.RollupReport{}, errors.Wrap(err, "error listing audit entries")
	}
	identities, err := usecase.identityRepository.ListIdentities(ctx, exec)
	if err != nil {
		return models.RollupReport{}, errors.Wrap(err, "error listing identities")
	}

	report := models.RollupReport{}
	seenColumns := map[models.RollupColumnKey]struct{}{}
	entriesByIdentity := map[string][]models.AuditEntry{}
	for _, entry := range entries {
		key := models.RollupColumnKey{
			SourceTable:   entry.SourceTable,
			AttributeName: entry.AttributeName,
		}
		if _, seen := seenColumns[key]; !seen && usecase.rules.IsReviewableColumn(entry.AttributeName) {
			seenColumns[key] = struct{}{}
			report.Columns = append(report.Columns, key)
		}
		entriesByIdentity[entry.IdentityKey] = append(entriesByIdentity[entry.IdentityKey], entry)
	}

	knownIdentities := map[string]struct{}{}
	for _, identity := range identities {
		knownIdentities[identity.IdentityKey] = struct{}{}
		report.Rows = append(report.Rows,
			buildRollupRow(identity, entriesByIdentity[identity.IdentityKey], report.Columns))
	}

	// Trail entries whose identity vanished from the registry still get a
	// line, with the key standing in for the missing attributes.
	for _, entry := range entries {
		if _, known := knownIdentities[entry.IdentityKey]; known {
			continue
		}
		knownIdentities[entry.IdentityKey] = struct{}{}
		orphan := models.Identity{
			IdentityKey:    entry.IdentityKey,
			Login:          entry.IdentityKey,
			SourceOfOrigin: models.PlaceholderValue,
		}
		report.Rows = append(report.Rows,
			buildRollupRow(orphan, entriesByIdentity[entry.IdentityKey], report.Columns))
	}

	return report, nil
}

func buildRollupRow(
	identity models.Identity,
	entries []models.AuditEntry,
	columns []models.RollupColumnKey,
) models.RollupRow {
	row := models.RollupRow{
		DisplayName:    identity.DisplayName.String,
		Login:          identity.Login,
		SourceOfOrigin: identity.SourceOfOrigin,
		Values:         make(map[models.RollupColumnKey]string, len(columns)),
	}
	if row.DisplayName == "" {
		row.DisplayName = identity.IdentityKey
	}

	values := map[models.RollupColumnKey]string{}
	for _, entry := range entries {
		// All entries of one identity carry the same stamped decision.
		row.NeedsReview = entry.NeedsReview
		row.IsAdmin = entry.IsAdmin
		row.Comments = entry.Comments
		values[models.RollupColumnKey{
			SourceTable:   entry.SourceTable,
			AttributeName: entry.AttributeName,
		}] = entry.AttributeValue
	}

	for _, column := range columns {
		if value, ok := values[column]; ok {
			row.Values[column] = value
		} else {
			row.Values[column] = models.PlaceholderValue
		}
	}
	return row
}
