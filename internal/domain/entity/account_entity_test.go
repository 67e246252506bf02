package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "admin@example.com", NormalizeEmail("  Admin@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestNewAccountStartsPending(t *testing.T) {
	now := time.Date(2025, 8, 25, 7, 0, 0, 0, time.UTC)
	a := NewAccount(NewAccountParams{Username: "alice", Email: "alice@example.com", PasswordHash: "h", RoleID: RoleUserID}, now)

	assert.False(t, a.IsEmailConfirmed)
	assert.True(t, a.IsActive)
	assert.Equal(t, now, a.CreatedAt)
	assert.Nil(t, a.PasswordChangedAt)
}

func TestSetPasswordStampsChange(t *testing.T) {
	a := &Account{PasswordHash: "old"}
	now := time.Now()
	a.SetPassword("new", now)

	assert.Equal(t, "new", a.PasswordHash)
	require.NotNil(t, a.PasswordChangedAt)
	assert.Equal(t, now, *a.PasswordChangedAt)
}

func TestApplyProfileKeepsCredentials(t *testing.T) {
	created := time.Now().Add(-time.Hour)
	a := &Account{Username: "alice", PasswordHash: "h", IsEmailConfirmed: true, CreatedAt: created}
	a.ApplyProfile(ProfileChanges{Username: "alice2", FullName: "Alice B"})

	assert.Equal(t, "alice2", a.Username)
	assert.Equal(t, "h", a.PasswordHash)
	assert.True(t, a.IsEmailConfirmed)
	assert.Equal(t, created, a.CreatedAt)
}
