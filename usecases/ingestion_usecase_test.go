package usecases

import (
	"testing"

	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"

	"github.com/revue-hq/revue-backend/models"
)

func TestMakeSourceRow(t *testing.T) {
	t.Run("pads short rows to the column set", func(t *testing.T) {
		row := makeSourceRow([]string{"email", "Role", "Team"}, []string{"jdoe@example.com", "Member"})
		assert.Equal(t, models.SourceRow{
			"email": "jdoe@example.com",
			"Role":  "Member",
			"Team":  "",
		}, row)
	})

	t.Run("ignores extra values beyond the columns", func(t *testing.T) {
		row := makeSourceRow([]string{"email"}, []string{"jdoe@example.com", "spillover"})
		assert.Equal(t, models.SourceRow{"email": "jdoe@example.com"}, row)
	})
}

func TestExtractIdentity(t *testing.T) {
	table := models.SourceTable{
		Name:             "okta",
		Columns:          []string{"Email", "DisplayName", "Role"},
		IdentifierColumn: null.StringFrom("Email"),
	}

	t.Run("normalizes the login and picks up the display name", func(t *testing.T) {
		asserts := assert.New(t)
		row := models.SourceRow{
			"Email":       " JDoe@Example.COM ",
			"DisplayName": "John Doe",
			"Role":        "Member",
		}

		input, ok := extractIdentity(table, row, "okta")
		asserts.True(ok)
		asserts.Equal("jdoe@example.com", input.Login)
		asserts.Equal("John Doe", input.DisplayName.String)
		asserts.Equal("okta", input.SourceOfOrigin)
		asserts.Equal("jdoe@example.com", input.Key())
	})

	t.Run("display name alone still yields an identity", func(t *testing.T) {
		asserts := assert.New(t)
		row := models.SourceRow{"Email": "", "DisplayName": "John Doe"}

		input, ok := extractIdentity(table, row, "okta")
		asserts.True(ok)
		asserts.Equal("", input.Login)
		asserts.Equal("John Doe", input.Key())
	})

	t.Run("no login and no display name yields nothing", func(t *testing.T) {
		row := models.SourceRow{"Email": "  ", "DisplayName": ""}

		_, ok := extractIdentity(table, row, "okta")
		assert.False(t, ok)
	})

	t.Run("table without identifier column can still key by display name", func(t *testing.T) {
		asserts := assert.New(t)
		noIdentifier := models.SourceTable{Name: "licenses", Columns: []string{"DisplayName", "Product"}}
		row := models.SourceRow{"DisplayName": "John Doe", "Product": "IDE"}

		input, ok := extractIdentity(noIdentifier, row, "licenses")
		asserts.True(ok)
		asserts.Equal("", input.Login)
		asserts.Equal("John Doe", input.Key())
	})
}

func TestIsReservedTableName(t *testing.T) {
	asserts := assert.New(t)

	asserts.True(isReservedTableName("identities"))
	asserts.True(isReservedTableName("Audit_Entries"))
	asserts.True(isReservedTableName("rollup"))
	asserts.False(isReservedTableName("okta"))
}
