package models

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/revue-hq/revue-backend/pure_utils"
)

const DefaultReviewThreshold = 2

// ReviewRules is the static rule document driving correlation. It is loaded
// once per run and immutable afterwards; a malformed document is fatal at
// startup because running with partial rules would silently produce wrong
// review decisions.
type ReviewRules struct {
	// ExcludedSources are sheet/table names never ingested nor scanned.
	ExcludedSources []string `yaml:"excluded_sources"`
	// LoginColumns is the identifier-column vocabulary, matched on
	// normalized column names.
	LoginColumns []string `yaml:"login_columns"`
	// ReviewColumns are the attribute names eligible to contribute evidence.
	ReviewColumns []string `yaml:"review_columns"`
	// ReviewValues are the exact values that count as one review hit.
	ReviewValues []string `yaml:"review_values"`
	// AdminRoleMarkers are substrings whose case-insensitive presence in a
	// reviewable value flags admin privileges.
	AdminRoleMarkers []string `yaml:"admin_role_markers"`
	// ReviewThreshold is the number of hits across all sources required to
	// flag an identity for review. Defaults to DefaultReviewThreshold.
	ReviewThreshold int `yaml:"review_threshold"`
}

func (rules ReviewRules) Validate() error {
	if rules.ReviewThreshold < 1 {
		return errors.Wrap(BadParameterError, "review_threshold must be >= 1")
	}
	if len(rules.LoginColumns) == 0 {
		return errors.Wrap(BadParameterError, "login_columns must not be empty")
	}
	if len(rules.ReviewColumns) == 0 {
		return errors.Wrap(BadParameterError, "review_columns must not be empty")
	}
	for _, marker := range rules.AdminRoleMarkers {
		if strings.TrimSpace(marker) == "" {
			return errors.Wrap(BadParameterError, "admin_role_markers must not contain blank entries")
		}
	}
	return nil
}

func (rules ReviewRules) IsExcludedSource(name string) bool {
	return containsNormalized(rules.ExcludedSources, name)
}

func (rules ReviewRules) IsLoginColumn(column string) bool {
	return containsNormalized(rules.LoginColumns, column)
}

// IsReviewableColumn matches on the exact column name, like the original
// review-column set did.
func (rules ReviewRules) IsReviewableColumn(column string) bool {
	for _, reviewable := range rules.ReviewColumns {
		if reviewable == column {
			return true
		}
	}
	return false
}

func (rules ReviewRules) IsTriggerValue(value string) bool {
	for _, trigger := range rules.ReviewValues {
		if trigger == value {
			return true
		}
	}
	return false
}

// MatchesAdminMarker reports whether the value contains any admin-role
// marker, case-insensitively.
func (rules ReviewRules) MatchesAdminMarker(value string) bool {
	return pure_utils.ContainsAnyFold(value, rules.AdminRoleMarkers)
}

func containsNormalized(haystack []string, needle string) bool {
	normalized := pure_utils.NormalizeLogin(needle)
	for _, entry := range haystack {
		if pure_utils.NormalizeLogin(entry) == normalized {
			return true
		}
	}
	return false
}
