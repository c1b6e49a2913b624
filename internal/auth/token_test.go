package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer([]byte("super-secret"), 30*time.Minute)

	token, err := issuer.Issue(42)
	require.NoError(t, err)

	subject, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), subject)
}

func TestVerifyExpired(t *testing.T) {
	issuer := NewTokenIssuer([]byte("super-secret"), -time.Second)

	token, err := issuer.Issue(7)
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer([]byte("right-secret"), time.Hour)

	token, err := issuer.Issue(7)
	require.NoError(t, err)

	other := NewTokenIssuer([]byte("wrong-secret"), time.Hour)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyMalformed(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), time.Hour)

	_, err := issuer.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
