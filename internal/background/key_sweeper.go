package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/BradenHooton/tourexpress/internal/metrics"
	"github.com/BradenHooton/tourexpress/internal/models"
)

const sweepBatchSize = 100

// AdminLister finds admin-role accounts that still lack a security key.
type AdminLister interface {
	ListAdminsMissingKey(ctx context.Context, limit int) ([]*models.Account, error)
}

// KeyEnsurer issues the security key for one account.
type KeyEnsurer interface {
	EnsureAdminKey(ctx context.Context, a *models.Account) (string, bool, error)
}

// KeySweeper periodically issues security keys to admins that have none,
// so the key invariant holds even for admins who never sign in.
type KeySweeper struct {
	accounts AdminLister
	keys     KeyEnsurer
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewKeySweeper creates a new key sweeper
func NewKeySweeper(accounts AdminLister, keys KeyEnsurer, logger *slog.Logger, interval time.Duration) *KeySweeper {
	return &KeySweeper{
		accounts: accounts,
		keys:     keys,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep. It blocks until Stop is called or ctx
// is cancelled.
func (ks *KeySweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(ks.interval)
	defer ticker.Stop()

	// Run immediately on startup
	ks.RunOnce(ctx)

	for {
		select {
		case <-ticker.C:
			ks.RunOnce(ctx)
		case <-ks.stopCh:
			ks.logger.Info("key sweeper stopped")
			return
		case <-ctx.Done():
			ks.logger.Info("key sweeper context cancelled")
			return
		}
	}
}

// RunOnce sweeps every admin missing a key and returns how many keys were
// issued. Failures on one account do not stop the sweep.
func (ks *KeySweeper) RunOnce(ctx context.Context) int {
	start := time.Now()
	defer func() { metrics.RecordKeySweep(time.Since(start)) }()

	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	issued := 0
	seen := make(map[int64]bool)
	for {
		batch, err := ks.accounts.ListAdminsMissingKey(sweepCtx, sweepBatchSize)
		if err != nil {
			ks.logger.Error("failed to list admins without security key", slog.Any("error", err))
			return issued
		}

		progressed := false
		for _, a := range batch {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			progressed = true

			if _, ok, err := ks.keys.EnsureAdminKey(sweepCtx, a); err != nil {
				ks.logger.Error("failed to issue security key", slog.Int64("account_id", a.ID), slog.Any("error", err))
			} else if ok {
				issued++
			}
		}

		// A failing account stays in the result set; stop once a batch
		// brings nothing new.
		if len(batch) < sweepBatchSize || !progressed {
			break
		}
	}

	if issued > 0 {
		ks.logger.Info("security key sweep completed", slog.Int("keys_issued", issued))
	}
	return issued
}

// Stop signals the sweeper to stop
func (ks *KeySweeper) Stop() {
	close(ks.stopCh)
}
