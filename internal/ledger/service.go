package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"studyportal.org/internal/catalog"
	"studyportal.org/internal/ids"
	"studyportal.org/internal/kv"
)

const applicationsKey = "studyportal_applications"

// Catalog is the slice of the program catalog the ledger needs for joins and
// submission checks.
type Catalog interface {
	Find(ctx context.Context, id string) (catalog.Program, bool, error)
	List(ctx context.Context) ([]catalog.Program, error)
}

// Service owns the persisted application collection and is its only writer.
type Service struct {
	mu      sync.Mutex
	store   kv.Store
	catalog Catalog
	now     func() time.Time
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

// NewService constructs the ledger over the given store and catalog.
func NewService(store kv.Store, cat Catalog, opts ...ServiceOption) *Service {
	s := &Service{store: store, catalog: cat, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every stored application.
func (s *Service) List(ctx context.Context) ([]Application, error) {
	return s.load(ctx)
}

// Submit records a new pending application. The program must exist and the
// student must not already have an application for it.
func (s *Service) Submit(ctx context.Context, programID, studentID string) (Application, error) {
	programID = strings.TrimSpace(programID)
	studentID = strings.TrimSpace(studentID)
	if programID == "" || studentID == "" {
		return Application{}, ErrInvalidInput
	}

	if _, ok, err := s.catalog.Find(ctx, programID); err != nil {
		return Application{}, err
	} else if !ok {
		return Application{}, fmt.Errorf("%w: %s", ErrProgramNotFound, programID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.load(ctx)
	if err != nil {
		return Application{}, err
	}
	for _, a := range apps {
		if a.ProgramID == programID && a.StudentID == studentID {
			return Application{}, ErrDuplicateApplication
		}
	}

	app := Application{
		ID:        ids.New(),
		ProgramID: programID,
		StudentID: studentID,
		Status:    StatusPending,
		AppliedAt: s.now().UTC(),
	}
	apps = append(apps, app)
	if err := s.save(ctx, apps); err != nil {
		return Application{}, err
	}
	return app, nil
}

// HasApplied reports whether the student already applied to the program.
func (s *Service) HasApplied(ctx context.Context, programID, studentID string) (bool, error) {
	apps, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	for _, a := range apps {
		if a.ProgramID == programID && a.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

// UpdateStatus applies an institution decision. Setting the same final status
// twice is idempotent; flipping between approved and rejected is refused.
func (s *Service) UpdateStatus(ctx context.Context, applicationID string, status Status) (Application, error) {
	if !status.Final() {
		return Application{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.load(ctx)
	if err != nil {
		return Application{}, err
	}
	for i, a := range apps {
		if a.ID != applicationID {
			continue
		}
		if a.Status == status {
			return a, nil
		}
		if a.Status.Final() {
			return Application{}, fmt.Errorf("%w: %s is %s", ErrStatusFinal, a.ID, a.Status)
		}
		apps[i].Status = status
		if err := s.save(ctx, apps); err != nil {
			return Application{}, err
		}
		return apps[i], nil
	}
	return Application{}, fmt.Errorf("%w: %s", ErrApplicationNotFound, applicationID)
}

// ListByStudent returns the student's applications joined with their programs.
func (s *Service) ListByStudent(ctx context.Context, studentID string) ([]JoinedApplication, error) {
	apps, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []JoinedApplication
	for _, a := range apps {
		if a.StudentID != studentID {
			continue
		}
		program, ok, err := s.catalog.Find(ctx, a.ProgramID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: application %s -> program %s", ErrDanglingProgram, a.ID, a.ProgramID)
		}
		out = append(out, JoinedApplication{Application: a, Program: program})
	}
	return out, nil
}

// ListByInstitution returns applications to the institution's programs, joined.
// Ownership is InstitutionID; programs without an owner (the seed catalog)
// match by university name instead, preserving the original portal's linkage.
func (s *Service) ListByInstitution(ctx context.Context, institutionID string) ([]JoinedApplication, error) {
	programs, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]catalog.Program)
	for _, p := range programs {
		if p.InstitutionID == institutionID || (p.InstitutionID == "" && p.University == institutionID) {
			owned[p.ID] = p
		}
	}

	apps, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []JoinedApplication
	for _, a := range apps {
		program, ok := owned[a.ProgramID]
		if !ok {
			continue
		}
		out = append(out, JoinedApplication{Application: a, Program: program})
	}
	return out, nil
}

func (s *Service) load(ctx context.Context) ([]Application, error) {
	raw, err := s.store.Get(ctx, applicationsKey)
	if err != nil {
		if err == kv.ErrNoKey {
			return []Application{}, nil
		}
		return nil, err
	}
	var apps []Application
	if err := json.Unmarshal([]byte(raw), &apps); err != nil {
		return nil, fmt.Errorf("ledger: decode applications: %w", err)
	}
	return apps, nil
}

func (s *Service) save(ctx context.Context, apps []Application) error {
	raw, err := json.Marshal(apps)
	if err != nil {
		return fmt.Errorf("ledger: encode applications: %w", err)
	}
	return s.store.Set(ctx, applicationsKey, string(raw))
}
