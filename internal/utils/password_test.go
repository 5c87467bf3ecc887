package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordPolicyViolations(t *testing.T) {
	cases := []struct {
		name     string
		password string
		username string
		wantLen  int
	}{
		{"valid", "Str0ng!Pass", "alice", 0},
		{"too short", "Ab1!", "", 1},
		{"no upper", "weak1!pass", "", 1},
		{"no lower", "WEAK1!PASS", "", 1},
		{"no digit", "Weak!Pass", "", 1},
		{"no special", "Weak1Pass", "", 1},
		{"contains username", "Alice#2024x", "alice", 1},
		{"empty", "", "", 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, PasswordPolicyViolations(tc.password, tc.username), tc.wantLen)
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!Pass")
	require.NoError(t, err)
	require.NotEqual(t, "Str0ng!Pass", hash)

	assert.True(t, CheckPasswordHash("Str0ng!Pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
