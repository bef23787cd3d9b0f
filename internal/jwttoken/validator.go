package jwttoken

import (
	id "comercio/pkg/domain"
	dErrors "comercio/pkg/domain-errors"
	"comercio/pkg/platform/middleware/auth"
)

// Validator adapts the token service to the auth middleware contract.
type Validator struct {
	svc *Service
}

func NewValidator(svc *Service) *Validator {
	return &Validator{svc: svc}
}

func (v *Validator) Validate(tokenString string) (*auth.TokenIdentity, error) {
	claims, err := v.svc.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	accountID, err := id.ParseAccountID(claims.AccountID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return &auth.TokenIdentity{
		AccountID: accountID,
		Email:     claims.Email,
		Roles:     claims.Roles,
	}, nil
}
