package entity

import (
	"strings"
	"time"
)

// NormalizeEmail is the canonical form used for storage, lookups and code keys.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Account is the aggregate root for the account domain.
// PasswordHash holds an opaque adaptive hash and is never empty once persisted.
type Account struct {
	ID                int64
	Username          string
	Email             string
	PasswordHash      string
	PasswordChangedAt *time.Time
	FullName          string
	Bio               string
	Birthday          *time.Time
	GithubLink        string
	LinkedInLink      string
	Avatar            string
	IsEmailConfirmed  bool
	IsActive          bool
	RoleID            int64
	CreatedAt         time.Time
}

// NewAccountParams carries the registration fields that become a new Account.
type NewAccountParams struct {
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Bio          string
	Birthday     *time.Time
	GithubLink   string
	LinkedInLink string
	RoleID       int64
}

// NewAccount builds a pending (unconfirmed) account.
func NewAccount(p NewAccountParams, now time.Time) *Account {
	return &Account{
		Username:         p.Username,
		Email:            p.Email,
		PasswordHash:     p.PasswordHash,
		FullName:         p.FullName,
		Bio:              p.Bio,
		Birthday:         p.Birthday,
		GithubLink:       p.GithubLink,
		LinkedInLink:     p.LinkedInLink,
		IsEmailConfirmed: false,
		IsActive:         true,
		RoleID:           p.RoleID,
		CreatedAt:        now,
	}
}

// ConfirmEmail moves the account from pending to confirmed. It is one-way.
func (a *Account) ConfirmEmail() {
	a.IsEmailConfirmed = true
}

// SetPassword replaces the stored hash and stamps the change time.
func (a *Account) SetPassword(hash string, now time.Time) {
	a.PasswordHash = hash
	t := now
	a.PasswordChangedAt = &t
}

// ProfileChanges lists the editable profile fields.
type ProfileChanges struct {
	Username     string
	FullName     string
	Bio          string
	Birthday     *time.Time
	GithubLink   string
	LinkedInLink string
}

// ApplyProfile overwrites the editable profile fields. Credentials, flags and
// CreatedAt are left untouched.
func (a *Account) ApplyProfile(c ProfileChanges) {
	a.Username = c.Username
	a.FullName = c.FullName
	a.Bio = c.Bio
	a.Birthday = c.Birthday
	a.GithubLink = c.GithubLink
	a.LinkedInLink = c.LinkedInLink
}
