package cache

import (
	"context"
	"sync"

	"tally/internal/models"
	"tally/internal/repositories"

	"go.uber.org/zap"
)

// CachedAccountRepository is a write-through Redis cache in front of another store.
// Reads made inside ExecuteInTransaction always go to the inner store.
//
// An id is stale while its cached copy may differ from the store: from the
// moment a write to it begins until a refresh of the committed value succeeds.
// Get bypasses the cache for stale ids, so a Redis outage during a write can
// never leave an old balance behind.
type CachedAccountRepository struct {
	inner  repositories.AccountRepository
	cache  *CacheService
	logger *zap.Logger

	mu       sync.Mutex
	versions map[string]uint64
	stale    map[string]bool
}

func NewCachedAccountRepository(inner repositories.AccountRepository, cache *CacheService, logger *zap.Logger) *CachedAccountRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedAccountRepository{
		inner:    inner,
		cache:    cache,
		logger:   logger,
		versions: make(map[string]uint64),
		stale:    make(map[string]bool),
	}
}

func (r *CachedAccountRepository) Get(ctx context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	version, stale := r.versions[id], r.stale[id]
	r.mu.Unlock()

	if !stale {
		account, err := r.cache.GetAccount(ctx, id)
		if err != nil {
			r.logger.Warn("account cache read failed", zap.String("account_id", id), zap.Error(err))
		}
		if account != nil {
			return account, nil
		}
	}

	account, err := r.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.fill(ctx, account, version)
	return account, nil
}

func (r *CachedAccountRepository) Create(ctx context.Context, account *models.Account) error {
	version := r.begin(ctx, account.ID)
	if err := r.inner.Create(ctx, account); err != nil {
		return err
	}
	r.publish(ctx, account, version)
	return nil
}

func (r *CachedAccountRepository) Save(ctx context.Context, account *models.Account) error {
	version := r.begin(ctx, account.ID)
	if err := r.inner.Save(ctx, account); err != nil {
		return err
	}
	r.publish(ctx, account, version)
	return nil
}

func (r *CachedAccountRepository) ExecuteInTransaction(ctx context.Context, fn func(repositories.AccountRepository) error) error {
	var (
		order    []string
		latest   map[string]models.Account
		versions map[string]uint64
	)
	err := r.inner.ExecuteInTransaction(ctx, func(tx repositories.AccountRepository) error {
		rec := &recordingTx{AccountRepository: tx, latest: make(map[string]models.Account)}
		if err := fn(rec); err != nil {
			return err
		}
		// Cached copies of everything written are dropped before the inner store commits.
		order, latest = rec.order, rec.latest
		versions = make(map[string]uint64, len(order))
		for _, id := range order {
			versions[id] = r.begin(ctx, id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, id := range order {
		account := latest[id]
		r.publish(ctx, &account, versions[id])
	}
	return nil
}

// begin marks id stale and drops its cached copy. The returned version identifies the write.
func (r *CachedAccountRepository) begin(ctx context.Context, id string) uint64 {
	r.mu.Lock()
	r.versions[id]++
	version := r.versions[id]
	r.stale[id] = true
	r.mu.Unlock()

	if err := r.cache.InvalidateAccount(ctx, id); err != nil {
		r.logger.Warn("account cache invalidation failed", zap.String("account_id", id), zap.Error(err))
	}
	return version
}

// publish caches a committed account. The id stays stale unless the write
// succeeds and no other write to it began meanwhile.
func (r *CachedAccountRepository) publish(ctx context.Context, account *models.Account, version uint64) {
	err := r.cache.CacheAccount(ctx, account)
	if err != nil {
		r.logger.Warn("account cache write failed, bypassing cache", zap.String("account_id", account.ID), zap.Error(err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil && r.versions[account.ID] == version {
		delete(r.stale, account.ID)
	}
	r.versions[account.ID]++
}

// fill caches a value read from the store at version. A write that began or
// finished since then may have been overwritten, so the id is marked stale.
func (r *CachedAccountRepository) fill(ctx context.Context, account *models.Account, version uint64) {
	if err := r.cache.CacheAccount(ctx, account); err != nil {
		r.logger.Warn("account cache write failed", zap.String("account_id", account.ID), zap.Error(err))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.versions[account.ID] == version {
		delete(r.stale, account.ID)
	} else {
		r.stale[account.ID] = true
	}
}

// recordingTx remembers what a transaction wrote so the cache is updated only after commit.
type recordingTx struct {
	repositories.AccountRepository
	order  []string
	latest map[string]models.Account
}

func (tx *recordingTx) Create(ctx context.Context, account *models.Account) error {
	if err := tx.AccountRepository.Create(ctx, account); err != nil {
		return err
	}
	tx.record(account)
	return nil
}

func (tx *recordingTx) Save(ctx context.Context, account *models.Account) error {
	if err := tx.AccountRepository.Save(ctx, account); err != nil {
		return err
	}
	tx.record(account)
	return nil
}

func (tx *recordingTx) ExecuteInTransaction(ctx context.Context, fn func(repositories.AccountRepository) error) error {
	return fn(tx)
}

func (tx *recordingTx) record(account *models.Account) {
	if _, ok := tx.latest[account.ID]; !ok {
		tx.order = append(tx.order, account.ID)
	}
	tx.latest[account.ID] = *account
}
