package application

import (
	"context"
	"encoding/json"
	"io"
	"time"
)

// CredentialHasher hashes passwords one way. Verify returns false for a
// malformed digest instead of failing.
type CredentialHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// TokenIssuer signs bearer tokens carrying the account identity.
type TokenIssuer interface {
	Issue(accountID int64, username, roleName string) (token string, expiresAt time.Time, err error)
}

// EmailSender delivers an email with a plain-text and an HTML body.
// Callers treat failures as non-fatal.
type EmailSender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// BlobUploader stores a file and returns its public URL.
type BlobUploader interface {
	Upload(ctx context.Context, r io.Reader, fileName, contentType string) (url string, err error)
}

// ProfileIndex is the search index of public profiles.
type ProfileIndex interface {
	Put(ctx context.Context, id string, doc any) error
	Search(ctx context.Context, q string, fields []string, size int) ([]json.RawMessage, error)
}
