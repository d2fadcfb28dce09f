package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/diarycard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialRepo_CreateAndLookup(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.SeedUser(t, db, testutil.WithEmail("Sam@Example.com"))
	repo := NewSQLiteCredentialRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &Credential{
		UserID: user.UserID, Email: "Sam@Example.com", PasswordHash: "h1", CreatedAt: time.Now(),
	}))

	got, err := repo.GetByEmail(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, got.UserID)
	assert.Equal(t, "h1", got.PasswordHash)

	require.NoError(t, repo.UpdatePassword(ctx, user.UserID, "h2"))
	got, err = repo.GetByEmail(ctx, "SAM@example.com")
	require.NoError(t, err)
	assert.Equal(t, "h2", got.PasswordHash)
}

func TestCredentialRepo_DuplicateEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	a := testutil.SeedUser(t, db)
	b := testutil.SeedUser(t, db)
	repo := NewSQLiteCredentialRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &Credential{UserID: a.UserID, Email: "dup@example.com", PasswordHash: "x", CreatedAt: time.Now()}))
	err := repo.Create(ctx, &Credential{UserID: b.UserID, Email: "DUP@example.com", PasswordHash: "y", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCredentialRepo_Resets(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.SeedUser(t, db)
	repo := NewSQLiteCredentialRepo(db)
	ctx := context.Background()

	exp := time.Now().Add(time.Hour).UTC()
	require.NoError(t, repo.CreateReset(ctx, &PasswordReset{Token: "tok", UserID: user.UserID, ExpiresAt: exp}))

	got, err := repo.GetReset(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, got.Used)
	assert.True(t, got.ExpiresAt.Equal(exp))

	require.NoError(t, repo.MarkResetUsed(ctx, "tok"))
	got, err = repo.GetReset(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, got.Used)

	_, err = repo.GetReset(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepo_PutGetClear(t *testing.T) {
	db := testutil.NewTestDB(t)
	a := testutil.SeedUser(t, db)
	b := testutil.SeedUser(t, db)
	repo := NewSQLiteSessionRepo(db)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Put(ctx, &AuthSession{UserID: a.UserID, Email: a.Email, StartedAt: time.Now()}))
	require.NoError(t, repo.Put(ctx, &AuthSession{UserID: b.UserID, Email: b.Email, StartedAt: time.Now()}))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.UserID, got.UserID)

	require.NoError(t, repo.Clear(ctx))
	_, err = repo.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}
