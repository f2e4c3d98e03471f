package repo

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/tazhibayda/oauth-service/internal/domain"
	"github.com/tazhibayda/oauth-service/internal/oauth"
)

var ErrEmailTaken = errors.New("email already registered")

// Store is the in-process user table. It lives for the process duration and
// is never persisted; records are append/merge only, there is no deletion
// path. All access goes through one mutex, and the lock is held only for
// in-memory work — callers must never hold it across I/O.
type Store struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User // key: case-folded email
	byID    map[string]*domain.User
}

func NewStore() *Store {
	return &Store{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
}

// FindOrCreate reconciles a normalized OAuth profile against the table,
// keyed by case-folded email, and returns the user id. The lookup and the
// mutation happen under one critical section so two simultaneous first
// logins with the same new email cannot produce two records.
//
// On a match the record is merged: name, email and provider are overwritten,
// photo only when the incoming profile carries one, updated_at is refreshed
// and the id never changes. Otherwise a fresh verified user is inserted.
func (s *Store) FindOrCreate(ctx context.Context, info oauth.UserInfo) string {
	sp, _ := tracer.StartSpanFromContext(ctx, "store.user.find_or_create",
		tracer.Tag("provider", info.Provider),
	)
	defer sp.Finish()

	email := strings.ToLower(strings.TrimSpace(info.Email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.byEmail[email]; ok {
		u.Name = info.Name
		u.Email = email
		u.Provider = info.Provider
		if info.Photo != "" {
			u.Photo = info.Photo
		}
		u.UpdatedAt = time.Now().UTC()
		return u.ID
	}

	now := time.Now().UTC()
	u := &domain.User{
		ID:        uuid.NewString(),
		Name:      info.Name,
		Email:     email,
		Verified:  true,
		Provider:  info.Provider,
		Role:      "user",
		Password:  "",
		Photo:     info.Photo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if u.Photo == "" {
		u.Photo = domain.DefaultPhoto
	}
	s.byEmail[email] = u
	s.byID[u.ID] = u
	return u.ID
}

// CreateLocal inserts a password-backed account. The password is stored as
// received; the local credential path predates any hashing scheme here.
func (s *Store) CreateLocal(ctx context.Context, name, email, password string) (domain.User, error) {
	sp, _ := tracer.StartSpanFromContext(ctx, "store.user.create_local")
	defer sp.Finish()

	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		sp.SetTag("error", ErrEmailTaken)
		return domain.User{}, ErrEmailTaken
	}

	now := time.Now().UTC()
	u := &domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Verified:  false,
		Provider:  domain.ProviderLocal,
		Role:      "user",
		Password:  password,
		Photo:     domain.DefaultPhoto,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.byEmail[email] = u
	s.byID[u.ID] = u
	return *u, nil
}

// FindByID returns a copy of the user record; callers never hold a
// reference into the table.
func (s *Store) FindByID(id string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		return *u, true
	}
	return domain.User{}, false
}

func (s *Store) FindByEmail(email string) (domain.User, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byEmail[email]; ok {
		return *u, true
	}
	return domain.User{}, false
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
