package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "comercio/pkg/domain"
	dErrors "comercio/pkg/domain-errors"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("test-signing-key", "comercio")
	accountID := id.NewAccountID()

	token, err := svc.Generate(accountID, "ada@example.com", []string{"user", "admin"}, time.Hour)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, accountID.String(), claims.AccountID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, []string{"user", "admin"}, claims.Roles)
	assert.Equal(t, "comercio", claims.Issuer)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := New("test-signing-key", "comercio")

	token, err := svc.Generate(id.NewAccountID(), "ada@example.com", nil, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "token has expired")
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := New("key-one", "comercio").Generate(id.NewAccountID(), "ada@example.com", nil, time.Hour)
	require.NoError(t, err)

	_, err = New("key-two", "comercio").Validate(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := New("test-signing-key", "comercio")
	_, err := svc.Validate("not-a-token")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidatorAdaptsClaims(t *testing.T) {
	svc := New("test-signing-key", "comercio")
	accountID := id.NewAccountID()
	token, err := svc.Generate(accountID, "ada@example.com", []string{"admin"}, time.Hour)
	require.NoError(t, err)

	identity, err := NewValidator(svc).Validate(token)
	require.NoError(t, err)
	assert.Equal(t, accountID, identity.AccountID)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.Equal(t, []string{"admin"}, identity.Roles)
}
