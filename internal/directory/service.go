package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"studyportal.org/internal/ids"
	"studyportal.org/internal/kv"
)

// Storage keys, shared with the original portal's layout.
const (
	usersKey   = "studyportal_users"
	sessionKey = "studyportal_current_user"
)

// Service owns the registered-users collection and the session pointer. It is
// the only writer to both keys. A mutex serializes the read-modify-write cycle
// on the user list; cross-process writers remain last-write-wins.
type Service struct {
	mu    sync.Mutex
	store kv.Store
	now   func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the directory over the given store.
func NewService(store kv.Store, opts ...ServiceOption) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every registered user, empty when none are stored.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.load(ctx)
}

// FindByEmail scans for an exact, case-sensitive email match.
func (s *Service) FindByEmail(ctx context.Context, email string) (User, bool, error) {
	users, err := s.load(ctx)
	if err != nil {
		return User{}, false, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return User{}, false, nil
}

// Register creates a new account. The email must be unused; the password is
// bcrypt-hashed before it touches the store.
func (s *Service) Register(ctx context.Context, email, password, name string, role Role) (User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return User{}, ErrInvalidInput
	}
	if !role.Valid() {
		return User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return User{}, ErrDuplicateUser
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("directory: hash password: %w", err)
	}

	user := User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Registered:   true,
		CreatedAt:    s.now().UTC(),
	}
	users = append(users, user)
	if err := s.save(ctx, users); err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate verifies credentials. Unknown email and wrong password produce
// the same error so callers cannot probe which emails are registered.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, ok, err := s.FindByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// SetSession persists the current-user pointer under its own key.
func (s *Service) SetSession(ctx context.Context, user User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("directory: encode session: %w", err)
	}
	return s.store.Set(ctx, sessionKey, string(raw))
}

// Session returns the persisted current user, if any. The session never
// expires on its own; it ends with ClearSession or external storage wipe.
func (s *Service) Session(ctx context.Context) (User, bool, error) {
	raw, err := s.store.Get(ctx, sessionKey)
	if err != nil {
		if err == kv.ErrNoKey {
			return User{}, false, nil
		}
		return User{}, false, err
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return User{}, false, fmt.Errorf("directory: decode session: %w", err)
	}
	return user, true, nil
}

// ClearSession removes the current-user pointer.
func (s *Service) ClearSession(ctx context.Context) error {
	return s.store.Remove(ctx, sessionKey)
}

func (s *Service) load(ctx context.Context) ([]User, error) {
	raw, err := s.store.Get(ctx, usersKey)
	if err != nil {
		if err == kv.ErrNoKey {
			return []User{}, nil
		}
		return nil, err
	}
	var users []User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("directory: decode users: %w", err)
	}
	return users, nil
}

func (s *Service) save(ctx context.Context, users []User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("directory: encode users: %w", err)
	}
	return s.store.Set(ctx, usersKey, string(raw))
}
