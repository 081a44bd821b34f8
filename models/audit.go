package models

import (
	"time"

	"github.com/google/uuid"
)

// PlaceholderValue is recorded for every reviewable attribute of a source
// the identity has no row in, so the rollup can show "not present".
const PlaceholderValue = "N/A"

// CommentSeparator joins the de-duplicated comment sets into the persisted
// comment strings.
const CommentSeparator = "; "

// AuditEntry is one persisted observation: the value one source table held
// for one reviewable attribute of one identity, stamped with the decisions
// in force when the trail was written. There is exactly one logical entry
// per (identity, source table, attribute) triple scanned.
type AuditEntry struct {
	Id             uuid.UUID
	IdentityKey    string
	SourceTable    string
	AttributeName  string
	AttributeValue string
	NeedsReview    bool
	IsAdmin        bool
	Comments       string
	AdminComments  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type UpsertAuditEntryInput struct {
	IdentityKey    string
	SourceTable    string
	AttributeName  string
	AttributeValue string
	NeedsReview    bool
	IsAdmin        bool
	Comments       string
	AdminComments  string
}

// ReviewDecision is the Review Classifier's output for one identity,
// evaluated once after all sources have been visited.
type ReviewDecision struct {
	MatchCount  int
	NeedsReview bool
	IsAdmin     bool
	// Comments and AdminComments are the joined, de-duplicated evidence
	// strings, sorted so that re-runs produce identical bytes.
	Comments      string
	AdminComments string
}
