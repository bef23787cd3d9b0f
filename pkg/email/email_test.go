package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"ada.lovelace@example.com", "Ada Lovelace"},
		{"grace_hopper@example.com", "Grace Hopper"},
		{"tim+test@example.com", "Tim Test"},
		{"dennis@example.com", "Dennis"},
		{"...@example.com", "User"},
		{"", "User"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayName(tt.email), tt.email)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ada@example.com", Normalize("  Ada@Example.COM "))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("ada@example.com"))
	assert.False(t, Valid("ada"))
	assert.False(t, Valid("@example.com"))
	assert.False(t, Valid("ada@"))
	assert.False(t, Valid("ada lovelace@example.com"))
}
