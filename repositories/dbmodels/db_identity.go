package dbmodels

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/revue-hq/revue-backend/models"
	"github.com/revue-hq/revue-backend/utils"
)

type DBIdentity struct {
	Id             uuid.UUID   `db:"id"`
	IdentityKey    string      `db:"identity_key"`
	Login          string      `db:"login"`
	DisplayName    null.String `db:"display_name"`
	SourceOfOrigin string      `db:"source_of_origin"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

const TABLE_IDENTITIES = "identities"

var SelectIdentityColumns = utils.ColumnList[DBIdentity]()

func AdaptIdentity(db DBIdentity) (models.Identity, error) {
	return models.Identity{
		Id:             db.Id,
		IdentityKey:    db.IdentityKey,
		Login:          db.Login,
		DisplayName:    db.DisplayName,
		SourceOfOrigin: db.SourceOfOrigin,
		CreatedAt:      db.CreatedAt,
		UpdatedAt:      db.UpdatedAt,
	}, nil
}
