package pure_utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLogin(t *testing.T) {
	asserts := assert.New(t)

	asserts.Equal("jdoe@example.com", NormalizeLogin("  JDoe@Example.COM "))
	asserts.Equal("jdoe", NormalizeLogin("jdoe"))
	asserts.Equal("", NormalizeLogin("   "))
	asserts.Equal("", NormalizeLogin(""))
}

func TestContainsAnyFold(t *testing.T) {
	t.Run("matches any marker case-insensitively", func(t *testing.T) {
		asserts := assert.New(t)
		markers := []string{"admin", "owner"}

		asserts.True(ContainsAnyFold("Global Administrator", markers))
		asserts.True(ContainsAnyFold("account OWNER", markers))
		asserts.False(ContainsAnyFold("reader", markers))
	})

	t.Run("empty markers never match", func(t *testing.T) {
		asserts := assert.New(t)

		asserts.False(ContainsAnyFold("anything", []string{""}))
		asserts.False(ContainsAnyFold("anything", nil))
	})
}
