package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/revue-hq/revue-backend/models"
	"github.com/revue-hq/revue-backend/utils"
)

type DBSourceTable struct {
	Id               uuid.UUID       `db:"id"`
	Name             string          `db:"name"`
	Columns          json.RawMessage `db:"columns"`
	IdentifierColumn null.String     `db:"identifier_column"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

const TABLE_SOURCE_TABLES = "source_tables"

var SelectSourceTableColumns = utils.ColumnList[DBSourceTable]()

func AdaptSourceTable(db DBSourceTable) (models.SourceTable, error) {
	var columns []string
	if err := json.Unmarshal(db.Columns, &columns); err != nil {
		return models.SourceTable{}, errors.Wrap(err,
			"unable to unmarshal columns of source table "+db.Name)
	}

	return models.SourceTable{
		Id:               db.Id,
		Name:             db.Name,
		Columns:          columns,
		IdentifierColumn: db.IdentifierColumn,
		CreatedAt:        db.CreatedAt,
		UpdatedAt:        db.UpdatedAt,
	}, nil
}
