package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func TestVerifyValidToken(t *testing.T) {
	v := NewVerifier(testSecret, "https://auth.example.com")
	raw := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user_abc",
		"iss": "https://auth.example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	sub, err := v.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user_abc", sub)
}

func TestVerifyRejections(t *testing.T) {
	v := NewVerifier(testSecret, "https://auth.example.com")
	exp := time.Now().Add(time.Hour).Unix()

	cases := map[string]string{
		"garbage": "not-a-token",
		"wrong secret": signToken(t, "other-secret", jwt.MapClaims{
			"sub": "u", "iss": "https://auth.example.com", "exp": exp,
		}),
		"expired": signToken(t, testSecret, jwt.MapClaims{
			"sub": "u", "iss": "https://auth.example.com", "exp": time.Now().Add(-time.Minute).Unix(),
		}),
		"wrong issuer": signToken(t, testSecret, jwt.MapClaims{
			"sub": "u", "iss": "https://evil.example.com", "exp": exp,
		}),
		"no expiry": signToken(t, testSecret, jwt.MapClaims{
			"sub": "u", "iss": "https://auth.example.com",
		}),
		"no subject": signToken(t, testSecret, jwt.MapClaims{
			"iss": "https://auth.example.com", "exp": exp,
		}),
	}
	for name, raw := range cases {
		_, err := v.Verify(raw)
		assert.ErrorIs(t, err, ErrUnauthorized, name)
	}
}

func TestVerifyEmptyIssuerSkipsCheck(t *testing.T) {
	v := NewVerifier(testSecret, "")
	raw := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user_abc",
		"iss": "anything",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	sub, err := v.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user_abc", sub)
}
