package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/groveline/orchard-api/internal/auth"
	"github.com/groveline/orchard-api/internal/config"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testValidator() *auth.JWTValidator {
	return auth.NewJWTValidator(&config.AuthConfig{
		JWTSecret:      "test-signing-secret",
		Issuer:         "groveline-test",
		Audience:       "orchard-api",
		AccessTokenTTL: 60,
	})
}

func TestIssueAndValidateToken(t *testing.T) {
	validator := testValidator()

	user := &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Maria Lopez",
		Email:       "maria@sunridge.example",
		Roles:       []domain.UserRoleType{domain.RoleFieldManager},
		GrowerID:    "sunridge",
	}

	token, err := validator.IssueToken(user, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := validator.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, user.UserID, parsed.UserID)
	assert.Equal(t, "Maria Lopez", parsed.DisplayName)
	assert.Equal(t, "maria@sunridge.example", parsed.Email)
	assert.Equal(t, domain.GrowerID("sunridge"), parsed.GrowerID)
	require.Len(t, parsed.Roles, 1)
	assert.Equal(t, domain.RoleFieldManager, parsed.Roles[0])
}

func TestValidateToken_Expired(t *testing.T) {
	validator := testValidator()

	user := &auth.UserContext{
		UserID:   uuid.New(),
		Email:    "maria@sunridge.example",
		Roles:    []domain.UserRoleType{domain.RoleViewer},
		GrowerID: "sunridge",
	}

	// Issue a token dated two hours in the past so it is already expired
	token, err := validator.IssueToken(user, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	validator := testValidator()

	other := auth.NewJWTValidator(&config.AuthConfig{
		JWTSecret:      "a-different-secret",
		Issuer:         "groveline-test",
		Audience:       "orchard-api",
		AccessTokenTTL: 60,
	})

	user := &auth.UserContext{
		UserID:   uuid.New(),
		Email:    "maria@sunridge.example",
		GrowerID: "sunridge",
	}

	token, err := other.IssueToken(user, time.Now())
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	validator := testValidator()

	other := auth.NewJWTValidator(&config.AuthConfig{
		JWTSecret:      "test-signing-secret",
		Issuer:         "someone-else",
		Audience:       "orchard-api",
		AccessTokenTTL: 60,
	})

	user := &auth.UserContext{
		UserID:   uuid.New(),
		Email:    "maria@sunridge.example",
		GrowerID: "sunridge",
	}

	token, err := other.IssueToken(user, time.Now())
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	validator := testValidator()

	_, err := validator.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_NoSecretConfigured(t *testing.T) {
	validator := auth.NewJWTValidator(&config.AuthConfig{})

	_, err := validator.ValidateToken("anything")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_UserIDDerivedFromEmail(t *testing.T) {
	validator := testValidator()

	// Token with no sub claim, only an email
	claims := jwt.MapClaims{
		"email":     "office@kernvalley.example",
		"grower_id": "kern-valley",
		"roles":     []string{string(domain.RoleOffice)},
		"iss":       "groveline-test",
		"aud":       "orchard-api",
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-signing-secret"))
	require.NoError(t, err)

	parsed, err := validator.ValidateToken(signed)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, parsed.UserID, "user ID should be derived from email")

	// The same email must always derive the same ID
	parsedAgain, err := validator.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, parsed.UserID, parsedAgain.UserID)
}

func TestExtractRoles(t *testing.T) {
	tests := []struct {
		name     string
		claims   jwt.MapClaims
		expected []domain.UserRoleType
	}{
		{
			name:     "roles as interface slice",
			claims:   jwt.MapClaims{"roles": []interface{}{"grower_admin", "office"}},
			expected: []domain.UserRoleType{domain.RoleGrowerAdmin, domain.RoleOffice},
		},
		{
			name:     "single role string",
			claims:   jwt.MapClaims{"role": "viewer"},
			expected: []domain.UserRoleType{domain.RoleViewer},
		},
		{
			name:     "no roles",
			claims:   jwt.MapClaims{},
			expected: []domain.UserRoleType{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := auth.ExtractRoles(tt.claims)
			assert.Equal(t, tt.expected, roles)
		})
	}
}
