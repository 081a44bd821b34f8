package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revue-hq/revue-backend/models"
	"github.com/revue-hq/revue-backend/repositories/dbmodels"
)

func TestAuditRepositoryUpsertAuditEntry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO audit_entries").
		WithArgs(
			pgxmock.AnyArg(),
			"jdoe@example.com",
			"okta",
			"Status",
			"Active",
			true,
			false,
			"okta - Status: Active",
			"",
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := AuditRepositoryPostgresql{}
	err = repo.UpsertAuditEntry(context.Background(), mock, models.UpsertAuditEntryInput{
		IdentityKey:    "jdoe@example.com",
		SourceTable:    "okta",
		AttributeName:  "Status",
		AttributeValue: "Active",
		NeedsReview:    true,
		Comments:       "okta - Status: Active",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryListAuditEntries(t *testing.T) {
	now := time.Now()

	t.Run("nominal", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT .* FROM audit_entries").
			WillReturnRows(pgxmock.NewRows(dbmodels.SelectAuditEntryColumns).
				AddRow(uuid.New(), "jdoe@example.com", "okta", "Status", "Active",
					true, false, "okta - Status: Active", "", now, now).
				AddRow(uuid.New(), "jdoe@example.com", "github", "Role", "Member",
					true, false, "okta - Status: Active", "", now, now))

		repo := AuditRepositoryPostgresql{}
		entries, err := repo.ListAuditEntries(context.Background(), mock)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "okta", entries[0].SourceTable)
		assert.Equal(t, "github", entries[1].SourceTable)
		assert.True(t, entries[0].NeedsReview)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT .* FROM audit_entries").
			WillReturnError(assert.AnError)

		repo := AuditRepositoryPostgresql{}
		_, err = repo.ListAuditEntries(context.Background(), mock)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAuditRepositoryListAuditEntriesForIdentity(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM audit_entries WHERE identity_key").
		WithArgs("jdoe@example.com").
		WillReturnRows(pgxmock.NewRows(dbmodels.SelectAuditEntryColumns).
			AddRow(uuid.New(), "jdoe@example.com", "okta", "Status", "Active",
				false, false, "", "", now, now))

	repo := AuditRepositoryPostgresql{}
	entries, err := repo.ListAuditEntriesForIdentity(context.Background(), mock, "jdoe@example.com")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "jdoe@example.com", entries[0].IdentityKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}
