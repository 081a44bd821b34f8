package dbmodels

import (
	"time"

	"github.com/google/uuid"

	"github.com/revue-hq/revue-backend/models"
	"github.com/revue-hq/revue-backend/utils"
)

type DBAuditEntry struct {
	Id             uuid.UUID `db:"id"`
	IdentityKey    string    `db:"identity_key"`
	SourceTable    string    `db:"source_table"`
	AttributeName  string    `db:"attribute_name"`
	AttributeValue string    `db:"attribute_value"`
	NeedsReview    bool      `db:"needs_review"`
	IsAdmin        bool      `db:"is_admin"`
	Comments       string    `db:"comments"`
	AdminComments  string    `db:"admin_comments"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

const TABLE_AUDIT_ENTRIES = "audit_entries"

var SelectAuditEntryColumns = utils.ColumnList[DBAuditEntry]()

func AdaptAuditEntry(db DBAuditEntry) (models.AuditEntry, error) {
	return models.AuditEntry{
		Id:             db.Id,
		IdentityKey:    db.IdentityKey,
		SourceTable:    db.SourceTable,
		AttributeName:  db.AttributeName,
		AttributeValue: db.AttributeValue,
		NeedsReview:    db.NeedsReview,
		IsAdmin:        db.IsAdmin,
		Comments:       db.Comments,
		AdminComments:  db.AdminComments,
		CreatedAt:      db.CreatedAt,
		UpdatedAt:      db.UpdatedAt,
	}, nil
}
