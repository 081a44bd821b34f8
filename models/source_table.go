package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/revue-hq/revue-backend/pure_utils"
)

// SourceTable is one ingested service export, with its dynamically
// discovered column set. Columns only ever grow across repeated ingestions
// of the same source; the declaration order of the first ingestion is kept.
type SourceTable struct {
	Id uuid.UUID
	// Name doubles as the name of the data table in the store.
	Name    string
	Columns []string
	// IdentifierColumn is the column classified as holding the login, null
	// if no column of the source matched the identifier vocabulary. A source
	// without one is catalogued but never correlated.
	IdentifierColumn null.String
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type UpsertSourceTableInput struct {
	Name             string
	Columns          []string
	IdentifierColumn null.String
}

// SourceRow is one materialized row of a source table, column name to raw
// (stringified) value.
type SourceRow map[string]string

// ColumnClassification is the Schema Introspector's verdict on one source
// table's columns.
type ColumnClassification struct {
	IdentifierColumn null.String
	Reviewable       []string
}

// ClassifyColumns classifies a source table's columns against the configured
// vocabulary: the identifier column is the first one, in declaration order,
// whose normalized name is in the login-column vocabulary; reviewable
// columns are the ones named in the review-column set. Classification is
// total: any column set yields a (possibly empty) result, never an error.
func ClassifyColumns(rules ReviewRules, columns []string) ColumnClassification {
	classification := ColumnClassification{}

	for _, column := range columns {
		if classification.IdentifierColumn.Valid {
			break
		}
		if rules.IsLoginColumn(column) {
			classification.IdentifierColumn = null.StringFrom(column)
		}
	}

	for _, column := range columns {
		if rules.IsReviewableColumn(column) {
			classification.Reviewable = append(classification.Reviewable, column)
		}
	}

	return classification
}

// ReviewableColumns returns the subset of the table's columns eligible to
// contribute review evidence, in table declaration order.
func (table SourceTable) ReviewableColumns(rules ReviewRules) []string {
	return ClassifyColumns(rules, table.Columns).Reviewable
}

// MergeColumns appends the columns of a re-ingested source that the catalog
// has not seen yet, preserving the existing order.
func MergeColumns(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, column := range existing {
		seen[column] = struct{}{}
	}
	merged := existing
	for _, column := range incoming {
		if _, ok := seen[column]; !ok {
			merged = append(merged, column)
			seen[column] = struct{}{}
		}
	}
	return merged
}

// ValueForColumn does a case-insensitive column lookup, since the store
// lower-cases column identifiers while the catalog keeps the sheet spelling.
func (row SourceRow) ValueForColumn(column string) (string, bool) {
	if value, ok := row[column]; ok {
		return value, true
	}
	normalized := pure_utils.NormalizeLogin(column)
	for name, value := range row {
		if pure_utils.NormalizeLogin(name) == normalized {
			return value, true
		}
	}
	return "", false
}
