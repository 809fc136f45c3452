package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/BradenHooton/tourexpress/internal/config"
	"github.com/BradenHooton/tourexpress/internal/models"
	pkgauth "github.com/BradenHooton/tourexpress/pkg/auth"
	pkglogger "github.com/BradenHooton/tourexpress/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

const testAdminSecret = "ADMIN2025"

func TestMain(m *testing.M) {
	pkgauth.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testAuditLogger() *pkglogger.AuditLogger {
	return pkglogger.NewAuditLogger(testLogger())
}

func newTestElevationService(repo AccountRepository, notifier Notifier) *ElevationService {
	return NewElevationService(repo, notifier, config.ElevationConfig{
		AdminSecretCode: testAdminSecret,
	}, testLogger(), testAuditLogger())
}

// memTable is an in-memory CRUDRepository keyed by the record ID.
type memTable[T any] struct {
	rows  map[int64]T
	next  int64
	id    func(*T) *int64
	err   error
	order []int64
}

func newMemTable[T any](id func(*T) *int64) *memTable[T] {
	return &memTable[T]{rows: make(map[int64]T), id: id}
}

func (m *memTable[T]) List(ctx context.Context, limit, offset int) ([]T, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		if r, ok := m.rows[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memTable[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.rows[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &r, nil
}

func (m *memTable[T]) Create(ctx context.Context, rec *T) (*T, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.next++
	r := *rec
	*m.id(&r) = m.next
	m.rows[m.next] = r
	m.order = append(m.order, m.next)
	return &r, nil
}

func (m *memTable[T]) Update(ctx context.Context, rec *T) (*T, error) {
	if m.err != nil {
		return nil, m.err
	}
	id := *m.id(rec)
	if _, ok := m.rows[id]; !ok {
		return nil, models.ErrNotFound
	}
	m.rows[id] = *rec
	r := *rec
	return &r, nil
}

func (m *memTable[T]) Delete(ctx context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.rows[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func placeID(p *models.Place) *int64           { return &p.ID }
func articleID(a *models.Article) *int64       { return &a.ID }
func giftID(g *models.Gift) *int64             { return &g.ID }
func territoryID(t *models.Territory) *int64   { return &t.ID }
func friendshipID(f *models.Friendship) *int64 { return &f.ID }
func loungeID(l *models.Lounge) *int64         { return &l.ID }

var (
	testAdmin  = &models.Account{ID: 1, Username: "root", Role: models.RoleAdmin, SecurityKey: "00112233445566ff", IsActive: true}
	testPlayer = &models.Account{ID: 2, Username: "ana", Role: models.RolePlayer, IsActive: true}
	testOther  = &models.Account{ID: 3, Username: "ben", Role: models.RolePlayer, IsActive: true}
)
