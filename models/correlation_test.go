package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func correlationRules() ReviewRules {
	return ReviewRules{
		LoginColumns:     []string{"email"},
		ReviewColumns:    []string{"Role", "Status"},
		ReviewValues:     []string{"Active"},
		AdminRoleMarkers: []string{"admin"},
		ReviewThreshold:  2,
	}
}

func TestCorrelationAccumulatorDecide(t *testing.T) {
	rules := correlationRules()

	t.Run("one hit stays below the threshold", func(t *testing.T) {
		asserts := assert.New(t)
		acc := NewCorrelationAccumulator()
		acc.RecordValue(rules, "okta", "Status", "Active")
		acc.RecordValue(rules, "okta", "Role", "Member")

		decision := acc.Decide(rules.ReviewThreshold)
		asserts.Equal(1, decision.MatchCount)
		asserts.False(decision.NeedsReview)
		asserts.False(decision.IsAdmin)
		asserts.Equal("okta - Status: Active", decision.Comments)
	})

	t.Run("hits across sources add up to the threshold", func(t *testing.T) {
		asserts := assert.New(t)
		acc := NewCorrelationAccumulator()
		acc.RecordValue(rules, "okta", "Status", "Active")
		acc.RecordValue(rules, "github", "Status", "Active")

		decision := acc.Decide(rules.ReviewThreshold)
		asserts.Equal(2, decision.MatchCount)
		asserts.True(decision.NeedsReview)
		asserts.Equal("github - Status: Active; okta - Status: Active", decision.Comments)
	})

	t.Run("admin marker flags independently of the threshold", func(t *testing.T) {
		asserts := assert.New(t)
		acc := NewCorrelationAccumulator()
		acc.RecordValue(rules, "aws", "Role", "Administrator")

		decision := acc.Decide(rules.ReviewThreshold)
		asserts.False(decision.NeedsReview)
		asserts.True(decision.IsAdmin)
		asserts.Equal("", decision.Comments)
		asserts.Equal("aws", decision.AdminComments)
	})

	t.Run("placeholders never count as hits", func(t *testing.T) {
		asserts := assert.New(t)
		acc := NewCorrelationAccumulator()
		acc.RecordPlaceholder("okta", "Status")
		acc.RecordPlaceholder("github", "Role")

		decision := acc.Decide(rules.ReviewThreshold)
		asserts.Equal(0, decision.MatchCount)
		asserts.False(decision.NeedsReview)
		asserts.Len(acc.Candidates, 2)
		asserts.Equal(PlaceholderValue, acc.Candidates[0].AttributeValue)
	})

	t.Run("duplicated evidence lines are recorded once", func(t *testing.T) {
		asserts := assert.New(t)
		acc := NewCorrelationAccumulator()
		acc.RecordValue(rules, "okta", "Status", "Active")
		acc.RecordValue(rules, "okta", "Status", "Active")

		decision := acc.Decide(rules.ReviewThreshold)
		asserts.Equal(2, decision.MatchCount)
		asserts.Equal("okta - Status: Active", decision.Comments)
	})

	t.Run("threshold compares against the final count", func(t *testing.T) {
		asserts := assert.New(t)
		acc := NewCorrelationAccumulator()
		acc.RecordValue(rules, "okta", "Status", "Active")
		intermediate := acc.Decide(rules.ReviewThreshold)
		asserts.False(intermediate.NeedsReview)

		acc.RecordValue(rules, "github", "Status", "Active")
		acc.RecordValue(rules, "jira", "Status", "Active")
		final := acc.Decide(rules.ReviewThreshold)
		asserts.Equal(3, final.MatchCount)
		asserts.True(final.NeedsReview)
	})
}

func TestCorrelationAccumulatorCandidates(t *testing.T) {
	asserts := assert.New(t)
	rules := correlationRules()

	acc := NewCorrelationAccumulator()
	acc.RecordValue(rules, "okta", "Status", "Active")
	acc.RecordPlaceholder("github", "Role")

	asserts.Equal([]AuditCandidate{
		{SourceTable: "okta", AttributeName: "Status", AttributeValue: "Active"},
		{SourceTable: "github", AttributeName: "Role", AttributeValue: PlaceholderValue},
	}, acc.Candidates)
}
