package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"studyportal.org/internal/ids"
	"studyportal.org/internal/kv"
)

const programsKey = "studyportal_programs"

// Service owns the persisted program collection. The catalog is append-only:
// programs are seeded or added, never updated or deleted.
type Service struct {
	mu    sync.Mutex
	store kv.Store
}

// NewService constructs the catalog over the given store.
func NewService(store kv.Store) *Service {
	return &Service{store: store}
}

// SeedIfEmpty writes the fixed program list when no catalog is persisted yet.
// Idempotent; every read path runs it first so the catalog is never empty.
func (s *Service) SeedIfEmpty(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seedLocked(ctx)
}

func (s *Service) seedLocked(ctx context.Context) error {
	_, err := s.store.Get(ctx, programsKey)
	if err == nil {
		return nil
	}
	if err != kv.ErrNoKey {
		return err
	}
	return s.save(ctx, seedPrograms())
}

// List returns the full catalog in insertion order, seeding first when needed.
func (s *Service) List(ctx context.Context) ([]Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.seedLocked(ctx); err != nil {
		return nil, err
	}
	return s.load(ctx)
}

// Find returns the program with the exact id.
func (s *Service) Find(ctx context.Context, id string) (Program, bool, error) {
	programs, err := s.List(ctx)
	if err != nil {
		return Program{}, false, err
	}
	for _, p := range programs {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Program{}, false, nil
}

// ListByDegree filters on the degree field, case-insensitively.
func (s *Service) ListByDegree(ctx context.Context, degree string) ([]Program, error) {
	programs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Program
	for _, p := range programs {
		if strings.EqualFold(p.Degree, degree) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Add appends an institution-submitted program under a fresh id and returns
// the stored record. Callers must fill the required fields; optional fields
// pass through untouched.
func (s *Service) Add(ctx context.Context, draft Program) (Program, error) {
	for field, v := range map[string]string{
		"title":       draft.Title,
		"university":  draft.University,
		"location":    draft.Location,
		"discipline":  draft.Discipline,
		"degree":      draft.Degree,
		"duration":    draft.Duration,
		"tuition":     draft.Tuition,
		"description": draft.Description,
	} {
		if strings.TrimSpace(v) == "" {
			return Program{}, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.seedLocked(ctx); err != nil {
		return Program{}, err
	}
	programs, err := s.load(ctx)
	if err != nil {
		return Program{}, err
	}

	draft.ID = ids.New()
	programs = append(programs, draft)
	if err := s.save(ctx, programs); err != nil {
		return Program{}, err
	}
	return draft, nil
}

// Query describes one browse request. Empty fields impose no constraint.
type Query struct {
	Search      string
	Disciplines []string
	Degrees     []string
	Countries   []string
}

// Filter applies the browse rules in memory: the search term must substring-
// match title, university or description (case-insensitive), and each selected
// set must contain the program's discipline, degree or country respectively.
func (s *Service) Filter(ctx context.Context, q Query) ([]Program, error) {
	programs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]Program, 0, len(programs))
	for _, p := range programs {
		if search != "" {
			if !strings.Contains(strings.ToLower(p.Title), search) &&
				!strings.Contains(strings.ToLower(p.University), search) &&
				!strings.Contains(strings.ToLower(p.Description), search) {
				continue
			}
		}
		if len(q.Disciplines) > 0 && !contains(q.Disciplines, p.Discipline) {
			continue
		}
		if len(q.Degrees) > 0 && !contains(q.Degrees, p.Degree) {
			continue
		}
		if len(q.Countries) > 0 && !contains(q.Countries, p.Country()) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func (s *Service) load(ctx context.Context) ([]Program, error) {
	raw, err := s.store.Get(ctx, programsKey)
	if err != nil {
		if err == kv.ErrNoKey {
			return []Program{}, nil
		}
		return nil, err
	}
	var programs []Program
	if err := json.Unmarshal([]byte(raw), &programs); err != nil {
		return nil, fmt.Errorf("catalog: decode programs: %w", err)
	}
	return programs, nil
}

func (s *Service) save(ctx context.Context, programs []Program) error {
	raw, err := json.Marshal(programs)
	if err != nil {
		return fmt.Errorf("catalog: encode programs: %w", err)
	}
	return s.store.Set(ctx, programsKey, string(raw))
}
