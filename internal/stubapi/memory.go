package stubapi

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

type userRecord struct {
	user domain.User
	hash string
}

// MemoryRepository keeps everything in process memory. Used when the
// database is disabled and in tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	users     map[string]userRecord
	sessions  map[string]string // token -> username
	personnel []domain.Person
	reports   map[string]domain.Report
	archived  []domain.Report
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:    map[string]userRecord{},
		sessions: map[string]string{},
		reports:  map[string]domain.Report{},
	}
}

func (m *MemoryRepository) CreateSession(_ context.Context, token, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; !ok {
		return ErrNotFound
	}
	m.sessions[token] = username
	return nil
}

func (m *MemoryRepository) SessionUser(_ context.Context, token string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name, ok := m.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	rec, ok := m.users[name]
	if !ok {
		return nil, ErrNotFound
	}
	u := rec.user
	return &u, nil
}

func (m *MemoryRepository) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *MemoryRepository) Credential(_ context.Context, username string) (*domain.User, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.users[username]
	if !ok {
		return nil, "", ErrNotFound
	}
	u := rec.user
	return &u, rec.hash, nil
}

func contains(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func (m *MemoryRepository) ListUsers(_ context.Context, search string) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.User, 0, len(m.users))
	for _, rec := range m.users {
		u := rec.user
		if term != "" && !contains(term, u.Username, u.FirstName, u.LastName, u.Department) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *MemoryRepository) CreateUser(_ context.Context, u domain.User, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return ErrExists
	}
	m.users[u.Username] = userRecord{user: u.WithoutPassword(), hash: hash}
	return nil
}

func (m *MemoryRepository) UpdateUser(_ context.Context, u domain.User, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.users[u.Username]
	if !ok {
		return ErrNotFound
	}
	if hash == "" {
		hash = rec.hash
	}
	m.users[u.Username] = userRecord{user: u.WithoutPassword(), hash: hash}
	return nil
}

func (m *MemoryRepository) DeleteUser(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, username)
	for tok, name := range m.sessions {
		if name == username {
			delete(m.sessions, tok)
		}
	}
	return nil
}

func (m *MemoryRepository) ListPersonnel(_ context.Context, dept, search string) ([]domain.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Person, 0, len(m.personnel))
	for _, p := range m.personnel {
		if dept != "" && p.Department != dept {
			continue
		}
		if term != "" && !contains(term, p.FirstName, p.LastName, p.Position) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *MemoryRepository) CreatePersonnel(_ context.Context, p domain.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.personnel = append(m.personnel, p)
	return nil
}

func (m *MemoryRepository) UpdatePersonnel(_ context.Context, p domain.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.personnel {
		if m.personnel[i].ID == p.ID {
			m.personnel[i] = p
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryRepository) DeletePersonnel(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.personnel {
		if m.personnel[i].ID == id {
			m.personnel = append(m.personnel[:i], m.personnel[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MemoryRepository) ReplacePersonnel(_ context.Context, people []domain.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.personnel = append([]domain.Person(nil), people...)
	return nil
}

func (m *MemoryRepository) SaveReport(_ context.Context, r domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[r.ID] = r
	return nil
}

func (m *MemoryRepository) GetReport(_ context.Context, id string) (*domain.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *MemoryRepository) ListReports(_ context.Context) ([]domain.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Report, 0, len(m.reports))
	for _, r := range m.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

func (m *MemoryRepository) ArchiveReports(_ context.Context, archived []domain.Report, liveIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archived = append(m.archived, archived...)
	for _, id := range liveIDs {
		delete(m.reports, id)
	}
	return nil
}

func (m *MemoryRepository) ListArchived(_ context.Context) ([]domain.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]domain.Report(nil), m.archived...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Month != b.Month {
			return a.Month > b.Month
		}
		return a.Date > b.Date
	})
	return out, nil
}
