package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/user-service/internal/domain/entity"
	repo "github.com/oksasatya/user-service/internal/domain/repository"
)

type memRepo struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]entity.Account
	roles    map[int64]string

	failWith error // returned by every call when set
	addErr   error
	adds     int
	updates  int
}

func newMemRepo() *memRepo {
	return &memRepo{
		accounts: map[int64]entity.Account{},
		roles:    map[int64]string{entity.RoleAdminID: "Admin", entity.RoleUserID: "User"},
	}
}

func (r *memRepo) find(match func(entity.Account) bool) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, a := range r.accounts {
		if match(a) {
			cp := a
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memRepo) FindByUsernameOrEmail(_ context.Context, id string) (*entity.Account, error) {
	return r.find(func(a entity.Account) bool { return a.Username == id || a.Email == id })
}

func (r *memRepo) FindByID(_ context.Context, id int64) (*entity.Account, error) {
	return r.find(func(a entity.Account) bool { return a.ID == id })
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	return r.find(func(a entity.Account) bool { return a.Email == email })
}

func (r *memRepo) FindByUsername(_ context.Context, username string) (*entity.Account, error) {
	return r.find(func(a entity.Account) bool { return a.Username == username })
}

func (r *memRepo) ExistsByUsername(_ context.Context, username string, excludeID int64) (bool, error) {
	_, err := r.find(func(a entity.Account) bool { return a.Username == username && a.ID != excludeID })
	return existsResult(err)
}

func (r *memRepo) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	_, err := r.find(func(a entity.Account) bool { return a.Email == email && a.ID != excludeID })
	return existsResult(err)
}

func existsResult(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repo.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (r *memRepo) conflicts(a *entity.Account) bool {
	for _, x := range r.accounts {
		if x.ID != a.ID && (x.Username == a.Username || x.Email == a.Email) {
			return true
		}
	}
	return false
}

func (r *memRepo) Add(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.addErr != nil {
		return r.addErr
	}
	if a.PasswordHash == "" {
		return errors.New("password_hash must not be empty")
	}
	if r.conflicts(a) {
		return repo.ErrConflict
	}
	r.nextID++
	a.ID = r.nextID
	r.accounts[a.ID] = *a
	r.adds++
	return nil
}

func (r *memRepo) Update(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.accounts[a.ID]; !ok {
		return repo.ErrNotFound
	}
	if r.conflicts(a) {
		return repo.ErrConflict
	}
	r.accounts[a.ID] = *a
	r.updates++
	return nil
}

func (r *memRepo) RoleName(_ context.Context, roleID int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.roles[roleID]
	if !ok {
		return "", repo.ErrNotFound
	}
	return name, nil
}

func (r *memRepo) seed(a entity.Account) entity.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	if a.RoleID == 0 {
		a.RoleID = entity.RoleUserID
	}
	a.IsActive = true
	r.accounts[a.ID] = a
	return a
}

func (r *memRepo) get(id int64) entity.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[id]
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

// plainHasher is a fast stand-in for bcrypt.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "h$" + p, nil }

func (plainHasher) Verify(p, digest string) bool {
	if !strings.HasPrefix(digest, "h$") {
		return false
	}
	return digest == "h$"+p
}

type fakeTokens struct{ now time.Time }

func (f fakeTokens) Issue(id int64, username, role string) (string, time.Time, error) {
	return "token-" + username + "-" + role, f.now.Add(time.Hour), nil
}

type sentMail struct {
	To, Subject, Text, HTML string
}

type captureMail struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *captureMail) Send(_ context.Context, to, subject, text, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Text: text, HTML: html})
	return m.err
}

func (m *captureMail) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

type fakeBlobs struct {
	got []byte
	err error
}

func (b *fakeBlobs) Upload(_ context.Context, r io.Reader, fileName, _ string) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	b.got, _ = io.ReadAll(r)
	return "https://cdn.example.com/avatars/" + fileName, nil
}

type fakeIndex struct {
	mu   sync.Mutex
	docs map[string]ProfileDocument
	hits []json.RawMessage
}

func (x *fakeIndex) Put(_ context.Context, id string, doc any) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.docs == nil {
		x.docs = map[string]ProfileDocument{}
	}
	x.docs[id] = doc.(ProfileDocument)
	return nil
}

func (x *fakeIndex) Search(context.Context, string, []string, int) ([]json.RawMessage, error) {
	return x.hits, nil
}
