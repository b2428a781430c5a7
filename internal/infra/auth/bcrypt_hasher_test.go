package auth

import (
	"testing"

	"knowledgeos/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHasher() *bcryptHasher {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: 4},
	}

	return NewBcryptHasher(cfg).(*bcryptHasher)
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := newTestHasher()

	hash, err := hasher.Hash("Sup3rSecret")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret", hash)

	assert.True(t, hasher.Check("Sup3rSecret", hash))
	assert.False(t, hasher.Check("WrongSecret1", hash))
}

func TestBcryptHasher_HashesAreSalted(t *testing.T) {
	hasher := newTestHasher()

	first, err := hasher.Hash("Sup3rSecret")
	require.NoError(t, err)
	second, err := hasher.Hash("Sup3rSecret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	hasher := newTestHasher()

	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Str0ngEnough", false},
		{"too short", "Ab1", true},
		{"missing uppercase", "weakbutl0ng", true},
		{"missing lowercase", "SHOUTINGL0UD", true},
		{"missing number", "NoDigitsHere", true},
		{"forbidden word", "MyPassword123", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := hasher.ValidatePasswordStrength(tc.password)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBcryptHasher_CustomPolicy(t *testing.T) {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: 4},
		PasswordStrength: &config.PasswordStrengthConfig{
			MinLength: 4,
		},
	}
	hasher := NewBcryptHasher(cfg)

	// With only a length rule, a lowercase password passes.
	assert.NoError(t, hasher.ValidatePasswordStrength("tiny"))
	assert.Error(t, hasher.ValidatePasswordStrength("abc"))
}
