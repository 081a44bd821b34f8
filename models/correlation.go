package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-set/v2"
)

// AuditCandidate is one (source table, attribute, value) observation
// collected during correlation, before the final decision is known.
type AuditCandidate struct {
	SourceTable    string
	AttributeName  string
	AttributeValue string
}

// CorrelationAccumulator is the evidence collected for one identity while
// visiting its source tables. It is an explicit value threaded through the
// traversal; nothing observable exists until Decide is called after the
// last source.
//
// Evidence and admin sources are sets: repeated runs or repeated columns
// must not inflate the trail.
type CorrelationAccumulator struct {
	MatchCount   int
	Evidence     *set.Set[string]
	AdminFlag    bool
	AdminSources *set.Set[string]
	Candidates   []AuditCandidate
}

func NewCorrelationAccumulator() *CorrelationAccumulator {
	return &CorrelationAccumulator{
		Evidence:     set.New[string](0),
		AdminSources: set.New[string](0),
	}
}

// RecordValue registers the observed value of one reviewable attribute and
// updates the running match evidence against the rules.
func (acc *CorrelationAccumulator) RecordValue(rules ReviewRules, sourceTable, attribute, value string) {
	acc.Candidates = append(acc.Candidates, AuditCandidate{
		SourceTable:    sourceTable,
		AttributeName:  attribute,
		AttributeValue: value,
	})

	if rules.IsTriggerValue(value) {
		acc.MatchCount++
		acc.Evidence.Insert(fmt.Sprintf("%s - %s: %s", sourceTable, attribute, value))
	}
	if rules.MatchesAdminMarker(value) {
		acc.AdminFlag = true
		acc.AdminSources.Insert(sourceTable)
	}
}

// RecordPlaceholder registers "no data from this source" for one reviewable
// attribute: row absent, schema drift, or a per-table query failure.
func (acc *CorrelationAccumulator) RecordPlaceholder(sourceTable, attribute string) {
	acc.Candidates = append(acc.Candidates, AuditCandidate{
		SourceTable:    sourceTable,
		AttributeName:  attribute,
		AttributeValue: PlaceholderValue,
	})
}

// Decide applies the threshold rule to the final accumulated state. It must
// only be called after every source table has been visited: the threshold
// compares against the final count, not an intermediate one.
func (acc *CorrelationAccumulator) Decide(threshold int) ReviewDecision {
	return ReviewDecision{
		MatchCount:    acc.MatchCount,
		NeedsReview:   acc.MatchCount >= threshold,
		IsAdmin:       acc.AdminFlag,
		Comments:      joinSorted(acc.Evidence),
		AdminComments: joinSorted(acc.AdminSources),
	}
}

// joinSorted flattens a comment set into its persisted form. Sorting is what
// makes re-runs byte-identical; the set itself only guarantees membership.
func joinSorted(values *set.Set[string]) string {
	slice := values.Slice()
	sort.Strings(slice)
	return strings.Join(slice, CommentSeparator)
}
