package services

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/tourexpress/internal/models"
)

// MockAccountRepository is a function-field mock of AccountRepository.
// Unset functions return ErrNotFound or zero values.
type MockAccountRepository struct {
	GetByIDFunc              func(ctx context.Context, id int64) (*models.Account, error)
	GetByUsernameFunc        func(ctx context.Context, username string) (*models.Account, error)
	GetByEmailFunc           func(ctx context.Context, email string) (*models.Account, error)
	ListFunc                 func(ctx context.Context, limit, offset int) ([]*models.Account, error)
	ListAdminsMissingKeyFunc func(ctx context.Context, limit int) ([]*models.Account, error)
	CreateFunc               func(ctx context.Context, a *models.Account) (*models.Account, error)
	UpdateFunc               func(ctx context.Context, a *models.Account) (*models.Account, error)
	SetSecurityKeyFunc       func(ctx context.Context, id int64, key string) (*models.Account, error)
	ModifyFunc               func(ctx context.Context, id int64, fn func(*models.Account) error) (*models.Account, error)
	DeleteFunc               func(ctx context.Context, id int64) error
	CountFunc                func(ctx context.Context) (int64, error)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockAccountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, models.ErrNotFound
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *MockAccountRepository) ListAdminsMissingKey(ctx context.Context, limit int) ([]*models.Account, error) {
	if m.ListAdminsMissingKeyFunc != nil {
		return m.ListAdminsMissingKeyFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockAccountRepository) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, a)
	}
	return a, nil
}

func (m *MockAccountRepository) Update(ctx context.Context, a *models.Account) (*models.Account, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, a)
	}
	return a, nil
}

func (m *MockAccountRepository) SetSecurityKeyIfEmpty(ctx context.Context, id int64, key string) (*models.Account, error) {
	if m.SetSecurityKeyFunc != nil {
		return m.SetSecurityKeyFunc(ctx, id, key)
	}
	return &models.Account{ID: id, Role: models.RoleAdmin, SecurityKey: key}, nil
}

func (m *MockAccountRepository) Modify(ctx context.Context, id int64, fn func(*models.Account) error) (*models.Account, error) {
	if m.ModifyFunc != nil {
		return m.ModifyFunc(ctx, id, fn)
	}
	return nil, models.ErrNotFound
}

func (m *MockAccountRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockAccountRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// MemoryAccountRepository is an in-memory AccountRepository enforcing the
// username and email uniqueness constraints. Returned accounts are copies.
type MemoryAccountRepository struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]models.Account
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{accounts: make(map[int64]models.Account)}
}

func (m *MemoryAccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &a, nil
}

func (m *MemoryAccountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return m.find(func(a models.Account) bool { return a.Username == username })
}

func (m *MemoryAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return m.find(func(a models.Account) bool { return a.Email == email })
}

func (m *MemoryAccountRepository) List(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Account, 0, len(m.accounts))
	for id := int64(1); id <= m.nextID; id++ {
		if a, ok := m.accounts[id]; ok {
			out = append(out, &a)
		}
	}
	if offset >= len(out) {
		return []*models.Account{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryAccountRepository) ListAdminsMissingKey(ctx context.Context, limit int) ([]*models.Account, error) {
	all, _ := m.List(ctx, 0, 0)
	out := make([]*models.Account, 0)
	for _, a := range all {
		if a.NeedsSecurityKey() && (limit <= 0 || len(out) < limit) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MemoryAccountRepository) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkUnique(0, a); err != nil {
		return nil, err
	}
	m.nextID++
	stored := *a
	stored.ID = m.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.accounts[stored.ID] = stored
	return &stored, nil
}

func (m *MemoryAccountRepository) Update(ctx context.Context, a *models.Account) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[a.ID]; !ok {
		return nil, models.ErrNotFound
	}
	if err := m.checkUnique(a.ID, a); err != nil {
		return nil, err
	}
	stored := *a
	stored.UpdatedAt = time.Now()
	m.accounts[a.ID] = stored
	return &stored, nil
}

func (m *MemoryAccountRepository) SetSecurityKeyIfEmpty(ctx context.Context, id int64, key string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.accounts[id]
	if !ok || !stored.NeedsSecurityKey() {
		return nil, models.ErrNotFound
	}
	stored.SecurityKey = key
	stored.UpdatedAt = time.Now()
	m.accounts[id] = stored
	return &stored, nil
}

// Modify holds the repository lock while fn runs; fn must not call back
// into the repository.
func (m *MemoryAccountRepository) Modify(ctx context.Context, id int64, fn func(*models.Account) error) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.accounts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	working := stored
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.ID = id
	if err := m.checkUnique(id, &working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now()
	m.accounts[id] = working
	return &working, nil
}

func (m *MemoryAccountRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.accounts, id)
	return nil
}

func (m *MemoryAccountRepository) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.accounts)), nil
}

func (m *MemoryAccountRepository) find(match func(models.Account) bool) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if match(a) {
			return &a, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MemoryAccountRepository) checkUnique(selfID int64, a *models.Account) error {
	for id, other := range m.accounts {
		if id == selfID {
			continue
		}
		if other.Username == a.Username {
			return models.NewFieldError("username", "a user with that username already exists", models.ErrConflict)
		}
		if other.Email == a.Email {
			return models.NewFieldError("email", "a user with that email already exists", models.ErrConflict)
		}
	}
	return nil
}

// MockSessionStore keeps revoked session IDs in memory.
type MockSessionStore struct {
	mu           sync.Mutex
	Revoked      map[string]time.Time
	RevokeErr    error
	IsRevokedErr error
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{Revoked: make(map[string]time.Time)}
}

func (m *MockSessionStore) Revoke(ctx context.Context, jti string, accountID int64, expiresAt time.Time) error {
	if m.RevokeErr != nil {
		return m.RevokeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Revoked[jti] = expiresAt
	return nil
}

func (m *MockSessionStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if m.IsRevokedErr != nil {
		return false, m.IsRevokedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Revoked[jti]
	return ok, nil
}

// SentCode is one notification captured by MockNotifier.
type SentCode struct {
	Kind     string // "confirmation" or "admin"
	To       string
	Username string
	Code     string
}

// MockNotifier records every code it is asked to send. Err, when set, is
// returned after recording.
type MockNotifier struct {
	mu   sync.Mutex
	Sent []SentCode
	Err  error
}

func (m *MockNotifier) SendConfirmationCode(ctx context.Context, to, username, code string) error {
	return m.record("confirmation", to, username, code)
}

func (m *MockNotifier) SendAdminCode(ctx context.Context, to, username, code string) error {
	return m.record("admin", to, username, code)
}

func (m *MockNotifier) record(kind, to, username, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentCode{Kind: kind, To: to, Username: username, Code: code})
	return m.Err
}

// Last returns the most recent notification, or nil.
func (m *MockNotifier) Last() *SentCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return nil
	}
	s := m.Sent[len(m.Sent)-1]
	return &s
}

// MockKeyEnsurer counts calls and can be made to fail.
type MockKeyEnsurer struct {
	Calls int
	Err   error
	Key   string
}

func (m *MockKeyEnsurer) EnsureAdminKey(ctx context.Context, a *models.Account) (string, bool, error) {
	m.Calls++
	if m.Err != nil {
		return "", false, m.Err
	}
	if !a.NeedsSecurityKey() {
		return a.SecurityKey, false, nil
	}
	key := m.Key
	if key == "" {
		key = "0123456789abcdef"
	}
	a.SecurityKey = key
	return key, true, nil
}
