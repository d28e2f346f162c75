package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewGenerator は各種設定でGeneratorが正しく生成されることを検証します。
func TestNewGenerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		secret     string
		expiration time.Duration
	}{
		{"standard config", "my-secret-key", time.Hour},
		{"long expiration", "secret", 24 * time.Hour * 30},
		{"short expiration", "s", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator(tt.secret, tt.expiration)

			require.NotNil(t, gen)
			assert.Equal(t, tt.secret, string(gen.secret))
			assert.Equal(t, tt.expiration, gen.expiration)
		})
	}
}

// TestGenerator_GenerateToken は生成されたJWTトークンが有効で正しいクレームを含むことを検証します。
func TestGenerator_GenerateToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		subject    string
		expiration time.Duration
	}{
		{"cli client", "tradectl", time.Hour},
		{"service client", "reporting-service", 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator("test-secret", tt.expiration)
			tokenStr, err := gen.GenerateToken(tt.subject)
			require.NoError(t, err)
			require.NotEmpty(t, tokenStr)

			token, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (interface{}, error) {
				// Verify signing method is HMAC
				_, ok := tok.Method.(*jwt.SigningMethodHMAC)
				assert.True(t, ok, "unexpected signing method: %v", tok.Header["alg"])
				return []byte("test-secret"), nil
			})
			require.NoError(t, err)
			assert.True(t, token.Valid)

			sub, err := token.Claims.GetSubject()
			require.NoError(t, err)
			assert.Equal(t, tt.subject, sub)
		})
	}
}

// TestGenerator_GenerateToken_Expiration はトークンのexp・iatクレームが固定時刻から計算されることを検証します。
func TestGenerator_GenerateToken_Expiration(t *testing.T) {
	t.Parallel()

	issued := time.Now().Truncate(time.Second)
	gen := NewGenerator("test-secret", 2*time.Hour)
	gen.now = func() time.Time { return issued }

	tokenStr, err := gen.GenerateToken("tradectl")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)

	exp, err := token.Claims.GetExpirationTime()
	require.NoError(t, err)
	assert.Equal(t, issued.Add(2*time.Hour).Unix(), exp.Unix())

	iat, err := token.Claims.GetIssuedAt()
	require.NoError(t, err)
	assert.Equal(t, issued.Unix(), iat.Unix())
}

// TestGenerator_GenerateToken_Errors は空のシークレットやsubjectでエラーになることを検証します。
func TestGenerator_GenerateToken_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator("", time.Hour).GenerateToken("tradectl")
	assert.Error(t, err)

	_, err = NewGenerator("secret", time.Hour).GenerateToken("")
	assert.Error(t, err)
}

// TestGenerator_DifferentSubjectsProduceDifferentTokens は異なるsubjectに対して異なるトークンが生成されることを検証します。
func TestGenerator_DifferentSubjectsProduceDifferentTokens(t *testing.T) {
	t.Parallel()

	gen := NewGenerator("test-secret", time.Hour)

	token1, _ := gen.GenerateToken("client-a")
	token2, _ := gen.GenerateToken("client-b")

	assert.NotEqual(t, token1, token2)
}
