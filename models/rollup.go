package models

// RollupColumnKey identifies one dynamic rollup column: a (source table,
// attribute) pair observed somewhere in the audit trail.
type RollupColumnKey struct {
	SourceTable   string
	AttributeName string
}

func (key RollupColumnKey) Header() string {
	return key.SourceTable + " - " + key.AttributeName
}

// RollupRow is one identity's flattened line of the report.
type RollupRow struct {
	DisplayName    string
	Login          string
	SourceOfOrigin string
	NeedsReview    bool
	IsAdmin        bool
	Comments       string
	// Values holds the audited value per dynamic column; missing pairs are
	// rendered as PlaceholderValue.
	Values map[RollupColumnKey]string
}

// RollupReport is the derived, non-authoritative projection of the audit
// trail: one row per identity, one column per (source table, attribute)
// pair present anywhere in the trail. It is regenerated wholesale on each
// request and never persisted.
type RollupReport struct {
	// Columns are the dynamic columns in first-seen order over the trail,
	// which is stable across runs on unchanged input.
	Columns []RollupColumnKey
	Rows    []RollupRow
}

var RollupFixedHeaders = []string{
	"User", "Email", "Created From", "Needs Review", "Admin Privileges Review", "Comments",
}

func (report RollupReport) Headers() []string {
	headers := make([]string, 0, len(RollupFixedHeaders)+len(report.Columns))
	headers = append(headers, RollupFixedHeaders...)
	for _, column := range report.Columns {
		headers = append(headers, column.Header())
	}
	return headers
}
