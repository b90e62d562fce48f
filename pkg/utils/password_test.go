package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("1234")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "1234", hash)

	// 每次加盐，同一明文两次哈希不相等
	hash2, err := HashPassword("1234")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("securePassword123!")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"matching password", "securePassword123!", hash, true},
		{"wrong password", "wrongPassword", hash, false},
		{"empty password", "", hash, false},
		{"malformed digest", "securePassword123!", "not-a-bcrypt-hash", false},
		{"empty digest", "securePassword123!", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPassword(tt.password, tt.hash))
		})
	}
}
