package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTempPassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		pw := GenerateTempPassword(TempPasswordLength)
		assert.Len(t, pw, TempPasswordLength)
		for _, ch := range pw {
			assert.True(t, strings.ContainsRune(passwordCharset, ch), "unexpected character %q", ch)
		}
		seen[pw] = true
	}
	assert.Greater(t, len(seen), 45, "passwords should be effectively unique")
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"ana@example.com",
		"a.b+tag@sub.domain.io",
		"x@y.co",
	}
	invalid := []string{
		"",
		"not-an-email",
		"missing@tld",
		"@example.com",
		"spaces in@example.com",
	}

	for _, email := range valid {
		assert.Truef(t, IsValidEmail(email), "expected %q to be valid", email)
	}
	for _, email := range invalid {
		assert.Falsef(t, IsValidEmail(email), "expected %q to be invalid", email)
	}
}
