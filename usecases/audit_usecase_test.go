package usecases

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revue-hq/revue-backend/models"
	"github.com/revue-hq/revue-backend/repositories"
)

type fakeTransactionFactory struct{}

func (fakeTransactionFactory) Transaction(ctx context.Context, fn func(tx repositories.Transaction) error) error {
	return fn(nil)
}

func (fakeTransactionFactory) GetExecutor() repositories.Executor {
	return nil
}

type fakeIdentityLister struct {
	identities []models.Identity
}

func (f fakeIdentityLister) ListIdentities(ctx context.Context, exec repositories.Executor) ([]models.Identity, error) {
	return f.identities, nil
}

type fakeRowGetter struct {
	tables []models.SourceTable
	// rows maps table name to login to the stored row.
	rows    map[string]map[string]models.SourceRow
	failing map[string]bool
	queried []string
}

func (f *fakeRowGetter) ListSourceTables(ctx context.Context, exec repositories.Executor) ([]models.SourceTable, error) {
	return f.tables, nil
}

func (f *fakeRowGetter) GetDataRowByLogin(
	ctx context.Context,
	exec repositories.Executor,
	table models.SourceTable,
	login string,
) (models.SourceRow, error) {
	f.queried = append(f.queried, table.Name)
	if f.failing[table.Name] {
		return nil, errors.New("connection reset")
	}
	if row, ok := f.rows[table.Name][login]; ok {
		return row, nil
	}
	return nil, errors.Wrap(models.NotFoundError, "no row")
}

type fakeTrailWriter struct {
	entries []models.UpsertAuditEntryInput
}

func (f *fakeTrailWriter) UpsertAuditEntry(ctx context.Context, exec repositories.Executor, input models.UpsertAuditEntryInput) error {
	f.entries = append(f.entries, input)
	return nil
}

func auditRules() models.ReviewRules {
	return models.ReviewRules{
		ExcludedSources:  []string{"Rollup"},
		LoginColumns:     []string{"email"},
		ReviewColumns:    []string{"Status", "Role"},
		ReviewValues:     []string{"Active"},
		AdminRoleMarkers: []string{"admin"},
		ReviewThreshold:  2,
	}
}

func sourceTable(name string, columns ...string) models.SourceTable {
	table := models.SourceTable{Name: name, Columns: columns}
	classification := models.ClassifyColumns(auditRules(), columns)
	table.IdentifierColumn = classification.IdentifierColumn
	return table
}

func newAuditUsecase(lister fakeIdentityLister, getter *fakeRowGetter, writer *fakeTrailWriter) AuditUsecase {
	return AuditUsecase{
		transactionFactory: fakeTransactionFactory{},
		identityLister:     lister,
		rowGetter:          getter,
		trailWriter:        writer,
		rules:              auditRules(),
	}
}

func TestAuditUsecaseRunAudit(t *testing.T) {
	ctx := context.Background()
	identity := models.Identity{IdentityKey: "jdoe@example.com", Login: "jdoe@example.com"}

	t.Run("flags an identity reaching the threshold across sources", func(t *testing.T) {
		asserts := assert.New(t)
		getter := &fakeRowGetter{
			tables: []models.SourceTable{
				sourceTable("okta", "email", "Status"),
				sourceTable("github", "email", "Status"),
			},
			rows: map[string]map[string]models.SourceRow{
				"okta":   {"jdoe@example.com": {"email": "jdoe@example.com", "Status": "Active"}},
				"github": {"jdoe@example.com": {"email": "jdoe@example.com", "Status": "Active"}},
			},
		}
		writer := &fakeTrailWriter{}
		usecase := newAuditUsecase(fakeIdentityLister{identities: []models.Identity{identity}}, getter, writer)

		require.NoError(t, usecase.RunAudit(ctx))
		require.Len(t, writer.entries, 2)
		for _, entry := range writer.entries {
			asserts.True(entry.NeedsReview)
			asserts.False(entry.IsAdmin)
			asserts.Equal("github - Status: Active; okta - Status: Active", entry.Comments)
			asserts.Equal("jdoe@example.com", entry.IdentityKey)
		}
	})

	t.Run("one hit is not enough", func(t *testing.T) {
		asserts := assert.New(t)
		getter := &fakeRowGetter{
			tables: []models.SourceTable{sourceTable("okta", "email", "Status")},
			rows: map[string]map[string]models.SourceRow{
				"okta": {"jdoe@example.com": {"email": "jdoe@example.com", "Status": "Active"}},
			},
		}
		writer := &fakeTrailWriter{}
		usecase := newAuditUsecase(fakeIdentityLister{identities: []models.Identity{identity}}, getter, writer)

		require.NoError(t, usecase.RunAudit(ctx))
		require.Len(t, writer.entries, 1)
		asserts.False(writer.entries[0].NeedsReview)
		asserts.Equal("okta - Status: Active", writer.entries[0].Comments)
	})

	t.Run("admin marker flags without reaching the threshold", func(t *testing.T) {
		asserts := assert.New(t)
		getter := &fakeRowGetter{
			tables: []models.SourceTable{sourceTable("aws", "email", "Role")},
			rows: map[string]map[string]models.SourceRow{
				"aws": {"jdoe@example.com": {"email": "jdoe@example.com", "Role": "Administrator"}},
			},
		}
		writer := &fakeTrailWriter{}
		usecase := newAuditUsecase(fakeIdentityLister{identities: []models.Identity{identity}}, getter, writer)

		require.NoError(t, usecase.RunAudit(ctx))
		require.Len(t, writer.entries, 1)
		asserts.False(writer.entries[0].NeedsReview)
		asserts.True(writer.entries[0].IsAdmin)
		asserts.Equal("aws", writer.entries[0].AdminComments)
		asserts.Equal("Administrator", writer.entries[0].AttributeValue)
	})

	t.Run("excluded sources are never queried", func(t *testing.T) {
		asserts := assert.New(t)
		getter := &fakeRowGetter{
			tables: []models.SourceTable{
				sourceTable("Rollup", "email", "Status"),
				sourceTable("okta", "email", "Status"),
			},
			rows: map[string]map[string]models.SourceRow{
				"Rollup": {"jdoe@example.com": {"email": "jdoe@example.com", "Status": "Active"}},
				"okta":   {"jdoe@example.com": {"email": "jdoe@example.com", "Status": "Active"}},
			},
		}
		writer := &fakeTrailWriter{}
		usecase := newAuditUsecase(fakeIdentityLister{identities: []models.Identity{identity}}, getter, writer)

		require.NoError(t, usecase.RunAudit(ctx))
		asserts.Equal([]string{"okta"}, getter.queried)
		require.Len(t, writer.entries, 1)
		asserts.Equal("okta", writer.entries[0].SourceTable)
		asserts.False(writer.entries[0].NeedsReview)
	})

	t.Run("tables without identifier column are skipped entirely", func(t *testing.T) {
		asserts := assert.New(t)
		getter := &fakeRowGetter{
			tables: []models.SourceTable{sourceTable("licenses", "Name", "Status")},
		}
		writer := &fakeTrailWriter{}
		usecase := newAuditUsecase(fakeIdentityLister{identities: []models.Identity{identity}}, getter, writer)

		require.NoError(t, usecase.RunAudit(ctx))
		asserts.Empty(getter.queried)
		asserts.Empty(writer.entries)
	})

	t.Run("missing row yields placeholders", func(t *testing.T) {
		asserts := assert.New(t)
		getter := &fakeRowGetter{
			tables: []models.SourceTable{sourceTable("okta", "email", "Status", "Role")},
		}
		writer := &fakeTrailWriter{}
		usecase := newAuditUsecase(fakeIdentityLister{identities: []models.Identity{identity}}, getter, writer)

		require.NoError(t, usecase.RunAudit(ctx))
		require.Len(t, writer.entries, 2)
		for _, entry := range writer.entries {
			asserts.Equal(models.PlaceholderValue, entry.AttributeValue)
			asserts.False(entry.NeedsReview)
		}
	})

	t.Run("a failing source degrades to placeholders instead of aborting", func(t *testing.T) {
		asserts := assert.New(t)
		getter := &fakeRowGetter{
			tables: []models.SourceTable{
				sourceTable("okta", "email", "Status"),
				sourceTable("github", "email", "Status"),
			},
			rows: map[string]map[string]models.SourceRow{
				"github": {"jdoe@example.com": {"email": "jdoe@example.com", "Status": "Active"}},
			},
			failing: map[string]bool{"okta": true},
		}
		writer := &fakeTrailWriter{}
		usecase := newAuditUsecase(fakeIdentityLister{identities: []models.Identity{identity}}, getter, writer)

		require.NoError(t, usecase.RunAudit(ctx))
		require.Len(t, writer.entries, 2)
		asserts.Equal(models.PlaceholderValue, writer.entries[0].AttributeValue)
		asserts.Equal("Active", writer.entries[1].AttributeValue)
	})

	t.Run("display-name keyed identity gets placeholders everywhere", func(t *testing.T) {
		asserts := assert.New(t)
		nameOnly := models.Identity{
			IdentityKey: "John Doe",
			DisplayName: null.StringFrom("John Doe"),
		}
		getter := &fakeRowGetter{
			tables: []models.SourceTable{sourceTable("okta", "email", "Status")},
		}
		writer := &fakeTrailWriter{}
		usecase := newAuditUsecase(fakeIdentityLister{identities: []models.Identity{nameOnly}}, getter, writer)

		require.NoError(t, usecase.RunAudit(ctx))
		asserts.Empty(getter.queried)
		require.Len(t, writer.entries, 1)
		asserts.Equal(models.PlaceholderValue, writer.entries[0].AttributeValue)
		asserts.Equal("John Doe", writer.entries[0].IdentityKey)
	})

	t.Run("a later run drops a stale flag", func(t *testing.T) {
		asserts := assert.New(t)
		getter := &fakeRowGetter{
			tables: []models.SourceTable{
				sourceTable("okta", "email", "Status"),
				sourceTable("github", "email", "Status"),
			},
			rows: map[string]map[string]models.SourceRow{
				"okta":   {"jdoe@example.com": {"email": "jdoe@example.com", "Status": "Active"}},
				"github": {"jdoe@example.com": {"email": "jdoe@example.com", "Status": "Active"}},
			},
		}
		writer := &fakeTrailWriter{}
		usecase := newAuditUsecase(fakeIdentityLister{identities: []models.Identity{identity}}, getter, writer)

		require.NoError(t, usecase.RunAudit(ctx))
		require.Len(t, writer.entries, 2)
		asserts.True(writer.entries[0].NeedsReview)

		// Access was revoked in one source between the two runs.
		getter.rows["github"]["jdoe@example.com"] = models.SourceRow{
			"email": "jdoe@example.com", "Status": "Deprovisioned",
		}
		writer.entries = nil

		require.NoError(t, usecase.RunAudit(ctx))
		require.Len(t, writer.entries, 2)
		for _, entry := range writer.entries {
			asserts.False(entry.NeedsReview)
			asserts.Equal("okta - Status: Active", entry.Comments)
		}
	})
}
