package security

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_SaltedAndVerifiable(t *testing.T) {
	h1, err := HashPassword("secret1")
	require.NoError(t, err)

	h2, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", h1)
	assert.NotEqual(t, h1, h2, "two hashes of the same password must differ")

	cost, err := bcrypt.Cost([]byte(h1))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)

	assert.True(t, CheckPassword(h1, "secret1"))
	assert.True(t, CheckPassword(h2, "secret1"))
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		hash  string
		plain string
		want  bool
	}{
		{name: "match", hash: hash, plain: "secret1", want: true},
		{name: "wrong password", hash: hash, plain: "wrong", want: false},
		{name: "empty password", hash: hash, plain: "", want: false},
		{name: "malformed hash", hash: "not-a-bcrypt-hash", plain: "secret1", want: false},
		{name: "empty hash", hash: "", plain: "secret1", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CheckPassword(tc.hash, tc.plain))
		})
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	// 30 three-byte runes: 90 bytes
	_, err := HashPassword(strings.Repeat("€", 30))
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("got %v, want ErrPasswordTooLong", err)
	}
}
