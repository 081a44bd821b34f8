package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
)

// Identity is the canonical record for one real-world user. Identities are
// keyed by the normalized login when one was seen, and by display name as a
// fallback for sources that export no login at all (see IdentityKey).
type Identity struct {
	Id             uuid.UUID
	Login          string
	IdentityKey    string
	DisplayName    null.String
	SourceOfOrigin string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type UpsertIdentityInput struct {
	Login          string
	DisplayName    null.String
	SourceOfOrigin string
}

// Key returns the value identities are deduplicated on: the normalized login
// when present, else the display name. The display-name fallback is kept for
// compatibility with historical exports that carry no login column.
func (input UpsertIdentityInput) Key() string {
	if input.Login != "" {
		return input.Login
	}
	return input.DisplayName.String
}
