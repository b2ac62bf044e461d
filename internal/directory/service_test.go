package directory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"studyportal.org/internal/kv"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(kv.NewMemory())
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice, err := svc.Register(ctx, "a@x.com", "pw", "Alice", RoleStudent)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if alice.ID == "" || !alice.Registered {
		t.Fatalf("incomplete record: %+v", alice)
	}
	if alice.PasswordHash == "pw" || !strings.HasPrefix(alice.PasswordHash, "$2") {
		t.Fatalf("password stored without bcrypt hashing: %q", alice.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(alice.PasswordHash), []byte("pw")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@x.com", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	got, err := svc.Authenticate(ctx, "a@x.com", "pw")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != alice.ID || got.Name != "Alice" {
		t.Fatalf("authenticate returned wrong record: %+v", got)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@x.com", "pw", "Alice", RoleStudent); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "a@x.com", "pw2", "Alice2", RoleStudent); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}

	users, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("duplicate register must not persist, have %d users", len(users))
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		email, password, name string
		role                  Role
	}{
		{"", "pw", "Alice", RoleStudent},
		{"a@x.com", "", "Alice", RoleStudent},
		{"a@x.com", "pw", "", RoleStudent},
		{"a@x.com", "pw", "Alice", Role("admin")},
	}
	for _, c := range cases {
		if _, err := svc.Register(ctx, c.email, c.password, c.name, c.role); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Register(%q,...,%q) expected ErrInvalidInput, got %v", c.email, c.role, err)
		}
	}
}

func TestEmailMatchIsCaseSensitive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A@x.com", "pw", "Alice", RoleStudent); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, ok, _ := svc.FindByEmail(ctx, "a@x.com"); ok {
		t.Fatalf("lookup must be case-sensitive as stored")
	}
	if _, ok, _ := svc.FindByEmail(ctx, "A@x.com"); !ok {
		t.Fatalf("exact match not found")
	}
}

func TestSessionLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, ok, err := svc.Session(ctx); err != nil || ok {
		t.Fatalf("fresh directory must have no session (ok=%v err=%v)", ok, err)
	}

	user, err := svc.Register(ctx, "i@uni.edu", "pw", "ETH Zurich", RoleInstitution)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.SetSession(ctx, user); err != nil {
		t.Fatalf("set session: %v", err)
	}

	got, ok, err := svc.Session(ctx)
	if err != nil || !ok {
		t.Fatalf("session read failed (ok=%v err=%v)", ok, err)
	}
	if got.ID != user.ID || got.Role != RoleInstitution {
		t.Fatalf("session returned wrong user: %+v", got)
	}

	if err := svc.ClearSession(ctx); err != nil {
		t.Fatalf("clear session: %v", err)
	}
	if _, ok, _ := svc.Session(ctx); ok {
		t.Fatalf("session survived logout")
	}
}

func TestSessionIndependentOfUserList(t *testing.T) {
	store := kv.NewMemory()
	svc := NewService(store)
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@x.com", "pw", "Alice", RoleStudent)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.SetSession(ctx, user); err != nil {
		t.Fatalf("set session: %v", err)
	}

	// wiping the user list must not clear the session pointer
	if err := store.Remove(ctx, "studyportal_users"); err != nil {
		t.Fatalf("remove users key: %v", err)
	}
	if _, ok, _ := svc.Session(ctx); !ok {
		t.Fatalf("session pointer should live under its own key")
	}
}
