package auth

import (
	"dm-chat/errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "AVeryStr0ngPassword!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("WrongPassword1!", hash)
	req.NoError(err)
	req.False(match)
}

func TestComparePassword_MalformedHash(t *testing.T) {
	req := require.New(t)
	for _, encoded := range []string{"", "plain", "$bcrypt$v=19$m=1,t=1,p=1$a$b", "$argon2id$v=x$m=1,t=1,p=1$a$b"} {
		match, err := ComparePassword("whatever", encoded)
		req.Error(err, encoded)
		req.False(match)
	}
}

func TestRegistrationValidation(t *testing.T) {
	tests := []struct {
		name      string
		req       RegisterRequest
		wantField string
	}{
		{"Valid request", RegisterRequest{"Alice", "alice@example.com", "ComplexPass123!"}, ""},
		{"Missing name", RegisterRequest{"", "alice@example.com", "ComplexPass123!"}, "name"},
		{"Invalid email", RegisterRequest{"Alice", "notanemail", "ComplexPass123!"}, "email"},
		{"Password too short", RegisterRequest{"Alice", "alice@example.com", "Short1!"}, "password"},
		{"Missing digit", RegisterRequest{"Alice", "alice@example.com", "NoDigitPassword!"}, "password"},
		{"Missing special char", RegisterRequest{"Alice", "alice@example.com", "NoSpecialChar123"}, "password"},
		{"Missing uppercase", RegisterRequest{"Alice", "alice@example.com", "nouppercase123!"}, "password"},
		{"Password too long", RegisterRequest{"Alice", "alice@example.com", strings.Repeat("a", 73)}, "password"},
		{"Low entropy", RegisterRequest{"Alice", "alice@example.com", "Aaaaaaaaaaa1!"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			err := ValidateRegister(tt.req)
			if tt.wantField == "" {
				req.NoError(err)
				return
			}
			var de *errors.DomainError
			req.True(errors.As(err, &de))
			req.Equal(errors.KindValidation, de.Kind)
			req.Equal(tt.wantField, de.Field)
		})
	}
}

func TestTokenIssuer(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("test-secret", time.Hour)
	issuer.now = func() time.Time { return now }

	t.Run("should round trip the subject", func(t *testing.T) {
		req := require.New(t)
		token, err := issuer.GenerateToken("user-1", "alice@example.com")
		req.NoError(err)

		claims, err := issuer.ValidateToken(token)
		req.NoError(err)
		req.Equal("user-1", claims.Subject)
		req.Equal("alice@example.com", claims.Email)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		req := require.New(t)
		token, err := issuer.GenerateToken("user-1", "alice@example.com")
		req.NoError(err)

		later := NewTokenIssuer("test-secret", time.Hour)
		later.now = func() time.Time { return now.Add(2 * time.Hour) }
		_, err = later.ValidateToken(token)
		req.ErrorIs(err, jwt.ErrTokenExpired)
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		req := require.New(t)
		other := NewTokenIssuer("other-secret", time.Hour)
		other.now = issuer.now
		token, err := other.GenerateToken("user-1", "alice@example.com")
		req.NoError(err)

		_, err = issuer.ValidateToken(token)
		req.ErrorIs(err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("should reject a tampered token", func(t *testing.T) {
		req := require.New(t)
		token, err := issuer.GenerateToken("user-1", "alice@example.com")
		req.NoError(err)

		_, err = issuer.ValidateToken(token + "x")
		req.Error(err)
	})

	t.Run("should reject the none algorithm", func(t *testing.T) {
		req := require.New(t)
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "dm-chat",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		req.NoError(err)

		_, err = issuer.ValidateToken(token)
		req.Error(err)
	})
}

func TestBearerToken(t *testing.T) {
	req := require.New(t)
	tests := map[string]struct {
		token string
		ok    bool
	}{
		"":               {"", false},
		"Bearer":         {"", false},
		"Bearer ":        {"", false},
		"Basic abc":      {"", false},
		"Bearer abc":     {"abc", true},
		"bearer abc":     {"abc", true},
		"  BEARER abc  ": {"abc", true},
	}
	for header, want := range tests {
		token, ok := BearerToken(header)
		req.Equal(want.ok, ok, header)
		req.Equal(want.token, token, header)
	}
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
