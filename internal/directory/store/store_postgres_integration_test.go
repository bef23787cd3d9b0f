//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"comercio/internal/directory/models"
	"comercio/internal/directory/store"
	id "comercio/pkg/domain"
	"comercio/pkg/platform/sentinel"
	"comercio/pkg/testutil/containers"
)

const directorySchema = `
CREATE TABLE profiles (
    email        TEXT PRIMARY KEY,
    national_id  TEXT NOT NULL UNIQUE,
    name         TEXT NOT NULL DEFAULT '',
    phone        TEXT NOT NULL DEFAULT '',
    address      TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL
);
CREATE TABLE accounts (
    id                   UUID PRIMARY KEY,
    email                TEXT NOT NULL UNIQUE,
    password_hash        TEXT NOT NULL DEFAULT '',
    roles                TEXT[] NOT NULL DEFAULT '{}',
    email_confirmed      BOOLEAN NOT NULL DEFAULT FALSE,
    identity_verified    BOOLEAN NOT NULL DEFAULT FALSE,
    profile_completeness INT NOT NULL DEFAULT 0,
    created_at           TIMESTAMPTZ NOT NULL,
    updated_at           TIMESTAMPTZ NOT NULL
);
`

type PostgresDirectorySuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	now      time.Time
}

func TestPostgresDirectorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresDirectorySuite))
}

func (s *PostgresDirectorySuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T(), directorySchema)
	s.store = store.NewPostgres(s.postgres.DB)
	s.now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
}

func (s *PostgresDirectorySuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "profiles", "accounts")
	s.Require().NoError(err)
}

func (s *PostgresDirectorySuite) profile(email, nationalID string) *models.Profile {
	return &models.Profile{
		Email:      email,
		NationalID: nationalID,
		Name:       "Ada Lovelace",
		Phone:      "+34600000000",
		Address:    "Calle Mayor 1",
		CreatedAt:  s.now,
		UpdatedAt:  s.now,
	}
}

func (s *PostgresDirectorySuite) account(email string, roles ...string) *models.Account {
	return &models.Account{
		ID:        id.NewAccountID(),
		Email:     email,
		Roles:     roles,
		CreatedAt: s.now,
		UpdatedAt: s.now,
	}
}

func (s *PostgresDirectorySuite) TestProfileUniqueness() {
	ctx := context.Background()

	s.Require().NoError(s.store.CreateProfile(ctx, s.profile("ada@example.com", "X1")))

	err := s.store.CreateProfile(ctx, s.profile("Ada@Example.com", "X2"))
	s.ErrorIs(err, sentinel.ErrConflict, "email uniqueness is case-insensitive")

	err = s.store.CreateProfile(ctx, s.profile("other@example.com", "X1"))
	s.ErrorIs(err, sentinel.ErrConflict, "national id is unique")
}

func (s *PostgresDirectorySuite) TestFindProfileByNationalID() {
	ctx := context.Background()

	s.Require().NoError(s.store.CreateProfile(ctx, s.profile("ada@example.com", "X1")))

	found, err := s.store.FindProfileByNationalID(ctx, "X1")
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal("ada@example.com", found.Email)
	s.Equal("Ada Lovelace", found.Name)

	missing, err := s.store.FindProfileByNationalID(ctx, "X9")
	s.Require().NoError(err)
	s.Nil(missing)
}

func (s *PostgresDirectorySuite) TestAccountLifecycle() {
	ctx := context.Background()

	account := s.account("ada@example.com", "user")
	s.Require().NoError(s.store.CreateAccount(ctx, account))
	s.ErrorIs(s.store.CreateAccount(ctx, s.account("ADA@example.com")), sentinel.ErrConflict)

	loaded, err := s.store.FindAccount(ctx, "ADA@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(loaded)
	s.Equal(account.ID, loaded.ID)
	s.Equal([]string{"user"}, loaded.Roles)
	s.False(loaded.IdentityVerified)

	loaded.IdentityVerified = true
	loaded.ProfileCompleteness = 100
	loaded.UpdatedAt = s.now.Add(time.Minute)
	s.Require().NoError(s.store.SaveAccount(ctx, loaded))

	saved, err := s.store.FindAccount(ctx, "ada@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(saved)
	s.True(saved.IdentityVerified)
	s.Equal(100, saved.ProfileCompleteness)
}

func (s *PostgresDirectorySuite) TestSaveUnknownAccountIsNotFound() {
	err := s.store.SaveAccount(context.Background(), s.account("ghost@example.com"))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresDirectorySuite) TestFindVerifiedAccountExcludesSelf() {
	ctx := context.Background()

	account := s.account("ada@example.com")
	account.IdentityVerified = true
	s.Require().NoError(s.store.CreateAccount(ctx, account))

	dup, err := s.store.FindVerifiedAccount(ctx, "ada@example.com", account.ID)
	s.Require().NoError(err)
	s.Nil(dup, "the account itself is not its own duplicate")

	dup, err = s.store.FindVerifiedAccount(ctx, "ada@example.com", id.NewAccountID())
	s.Require().NoError(err)
	s.Require().NotNil(dup)
	s.Equal(account.ID, dup.ID)
}

func (s *PostgresDirectorySuite) TestListAccountsByRole() {
	ctx := context.Background()

	s.Require().NoError(s.store.CreateAccount(ctx, s.account("admin1@example.com", "user", models.RoleAdmin)))
	s.Require().NoError(s.store.CreateAccount(ctx, s.account("admin2@example.com", models.RoleAdmin)))
	s.Require().NoError(s.store.CreateAccount(ctx, s.account("user@example.com", "user")))

	admins, err := s.store.ListAccountsByRole(ctx, models.RoleAdmin)
	s.Require().NoError(err)
	s.Len(admins, 2)
}
