package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bloodbay/internal/common"
	"github.com/dmitrijs2005/bloodbay/internal/dbx"
	"github.com/dmitrijs2005/bloodbay/internal/logging"
	"github.com/dmitrijs2005/bloodbay/internal/server/mail"
	"github.com/dmitrijs2005/bloodbay/internal/server/models"
	casesrepo "github.com/dmitrijs2005/bloodbay/internal/server/repositories/cases"
	filesrepo "github.com/dmitrijs2005/bloodbay/internal/server/repositories/files"
	usersrepo "github.com/dmitrijs2005/bloodbay/internal/server/repositories/users"
	verificationsrepo "github.com/dmitrijs2005/bloodbay/internal/server/repositories/verifications"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newTestLogger() logging.Logger {
	return logging.New(logging.FormatJSON, io.Discard)
}

// memStore is an in-memory stand-in for the four tables.
type memStore struct {
	mu            sync.Mutex
	seq           int
	users         map[string]*models.User
	verifications map[string]*models.EmailVerification
	cases         map[string]*models.Case
	files         []*models.File

	// errors injected into the next matching call
	usersErr      error
	createUserErr error
	casesErr      error
	filesErr      error
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[string]*models.User{},
		verifications: map[string]*models.EmailVerification{},
		cases:         map[string]*models.Case{},
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// clock hands out strictly increasing timestamps so ordering is stable.
func (s *memStore) clock() time.Time {
	return time.Date(2021, 1, 1, 0, 0, s.seq, 0, time.UTC)
}

type fakeUsersRepo struct{ s *memStore }

func (r *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createUserErr != nil {
		return nil, r.s.createUserErr
	}
	for _, existing := range r.s.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return nil, fmt.Errorf("db error: %w", common.ErrConflict)
		}
	}
	cp := *u
	cp.ID = r.s.nextID("u")
	cp.CreatedAt = r.s.clock()
	r.s.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usersErr != nil {
		return nil, r.s.usersErr
	}
	for _, u := range r.s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r *fakeUsersRepo) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsersRepo) DeleteAll(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users = map[string]*models.User{}
	return nil
}

type fakeVerificationsRepo struct{ s *memStore }

func (r *fakeVerificationsRepo) Create(ctx context.Context, token, userID string) (*models.EmailVerification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v := &models.EmailVerification{ID: r.s.nextID("v"), Token: token, UserID: userID, CreatedAt: r.s.clock()}
	r.s.verifications[token] = v
	cp := *v
	return &cp, nil
}

func (r *fakeVerificationsRepo) GetByToken(ctx context.Context, token string) (*models.EmailVerification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.verifications[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVerificationsRepo) GetByUserID(ctx context.Context, userID string) (*models.EmailVerification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.verifications {
		if v.UserID == userID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeVerificationsRepo) MarkVerified(ctx context.Context, token string) (*models.EmailVerification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.verifications[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if v.Verified {
		return nil, common.ErrConflict
	}
	v.Verified = true
	cp := *v
	return &cp, nil
}

func (r *fakeVerificationsRepo) DeleteAll(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.verifications = map[string]*models.EmailVerification{}
	return nil
}

type fakeCasesRepo struct{ s *memStore }

func (r *fakeCasesRepo) Create(ctx context.Context, c *models.Case) (*models.Case, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.casesErr != nil {
		return nil, r.s.casesErr
	}
	cp := *c
	cp.ID = r.s.nextID("c")
	cp.CreatedAt = r.s.clock()
	r.s.cases[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeCasesRepo) GetByID(ctx context.Context, id string) (*models.Case, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.casesErr != nil {
		return nil, r.s.casesErr
	}
	c, ok := r.s.cases[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCasesRepo) filter(match func(*models.Case) bool) ([]*models.Case, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.casesErr != nil {
		return nil, r.s.casesErr
	}
	out := []*models.Case{}
	for _, c := range r.s.cases {
		if match(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeCasesRepo) List(ctx context.Context) ([]*models.Case, error) {
	return r.filter(func(*models.Case) bool { return true })
}

func (r *fakeCasesRepo) ListByReporter(ctx context.Context, reporterID string) ([]*models.Case, error) {
	return r.filter(func(c *models.Case) bool { return c.ReportedByID == reporterID })
}

func (r *fakeCasesRepo) SearchByTag(ctx context.Context, tag string) ([]*models.Case, error) {
	return r.filter(func(c *models.Case) bool {
		for _, t := range c.Tags {
			if t == tag {
				return true
			}
		}
		return false
	})
}

func (r *fakeCasesRepo) Update(ctx context.Context, id string, upd models.CaseUpdate) (*models.Case, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cases[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Title != nil {
		c.Title = *upd.Title
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCasesRepo) Delete(ctx context.Context, id, reporterID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cases[id]
	if !ok || c.ReportedByID != reporterID {
		return 0, nil
	}
	delete(r.s.cases, id)
	return 1, nil
}

func (r *fakeCasesRepo) DeleteAll(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.cases = map[string]*models.Case{}
	return nil
}

type fakeFilesRepo struct{ s *memStore }

func (r *fakeFilesRepo) Create(ctx context.Context, f *models.File) (*models.File, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.filesErr != nil {
		return nil, r.s.filesErr
	}
	cp := *f
	cp.ID = r.s.nextID("f")
	cp.CreatedAt = r.s.clock()
	r.s.files = append(r.s.files, &cp)
	out := cp
	return &out, nil
}

func (r *fakeFilesRepo) ListByCase(ctx context.Context, caseID string) ([]*models.File, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.filesErr != nil {
		return nil, r.s.filesErr
	}
	out := []*models.File{}
	for _, f := range r.s.files {
		if f.LinkedToID == caseID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeFilesRepo) DeleteAll(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.files = nil
	return nil
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository         { return &fakeUsersRepo{m.s} }
func (m *fakeRepoManager) Verifications(dbx.DBTX) verificationsrepo.Repository {
	return &fakeVerificationsRepo{m.s}
}
func (m *fakeRepoManager) Cases(dbx.DBTX) casesrepo.Repository { return &fakeCasesRepo{m.s} }
func (m *fakeRepoManager) Files(dbx.DBTX) filesrepo.Repository { return &fakeFilesRepo{m.s} }

// fakeBlobStore keeps blob contents in memory.
type fakeBlobStore struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	putErr    error
	statErr   error
	deleteErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (b *fakeBlobStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if b.putErr != nil {
		return b.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[key] = data
	return nil
}

func (b *fakeBlobStore) Stat(ctx context.Context, key string) (*models.FileMetadata, error) {
	if b.statErr != nil {
		return nil, b.statErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.blobs[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.FileMetadata{
		MediaLink:   "https://blobs.local/" + key,
		Name:        key,
		TimeCreated: "2021-01-01T00:00:00Z",
		Size:        fmt.Sprint(len(data)),
	}, nil
}

func (b *fakeBlobStore) DeleteAll(ctx context.Context) error {
	if b.deleteErr != nil {
		return b.deleteErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs = map[string][]byte{}
	return nil
}

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func upload(name, content string) Upload {
	return Upload{
		Filename:    name,
		ContentType: "application/octet-stream",
		Size:        int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewBufferString(content)), nil
		},
	}
}
