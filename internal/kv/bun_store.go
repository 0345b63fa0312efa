package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var errBunStoreNoDB = errors.New("kv: bun store requires a database")

type entryModel struct {
	bun.BaseModel `bun:"table:kv_entries"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Key       string    `bun:"key,notnull,unique"`
	Value     string    `bun:"value,notnull"`
	ExpiresAt time.Time `bun:"expires_at,nullzero"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func newEntryRepository(db *bun.DB) repository.Repository[*entryModel] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*entryModel]{
		NewRecord:          func() *entryModel { return &entryModel{} },
		GetID:              func(entry *entryModel) uuid.UUID { return entry.ID },
		SetID:              func(entry *entryModel, id uuid.UUID) { entry.ID = id },
		GetIdentifier:      func() string { return "key" },
		GetIdentifierValue: func(entry *entryModel) string { return entry.Key },
	})
}

// BunStore persists entries in the kv_entries table. Expired rows are hidden
// from reads and removed by PurgeExpired.
type BunStore struct {
	db   *bun.DB
	repo repository.Repository[*entryModel]
	now  func() time.Time
}

var (
	_ interfaces.KVStore  = (*BunStore)(nil)
	_ interfaces.KVPurger = (*BunStore)(nil)
)

// BunOption customises a BunStore.
type BunOption func(*BunStore)

// WithBunClock overrides the clock used for expiry.
func WithBunClock(clock func() time.Time) BunOption {
	return func(s *BunStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewBunStore constructs a Bun-backed store.
func NewBunStore(db *bun.DB, opts ...BunOption) *BunStore {
	s := &BunStore{db: db, now: time.Now}
	if db != nil {
		s.repo = newEntryRepository(db)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateSchema creates the kv_entries table and its expiry index when missing.
func (s *BunStore) CreateSchema(ctx context.Context) error {
	if s.db == nil {
		return errBunStoreNoDB
	}
	if _, err := s.db.NewCreateTable().Model((*entryModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("kv: create table: %w", err)
	}
	if _, err := s.db.NewCreateIndex().
		Model((*entryModel)(nil)).
		Index("kv_entries_expires_at_idx").
		Column("expires_at").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("kv: create index: %w", err)
	}
	return nil
}

// Get returns the live value for key or interfaces.ErrKeyNotFound.
func (s *BunStore) Get(ctx context.Context, key string) (string, error) {
	if s.repo == nil {
		return "", errBunStoreNoDB
	}
	entry, err := s.lookup(ctx, key)
	if err != nil {
		return "", err
	}
	if !entry.ExpiresAt.IsZero() && !s.now().UTC().Before(entry.ExpiresAt) {
		return "", interfaces.ErrKeyNotFound
	}
	return entry.Value, nil
}

// Set upserts value under key. An existing row keeps its id.
func (s *BunStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if s.repo == nil {
		return errBunStoreNoDB
	}
	now := s.now().UTC()
	entry := &entryModel{ID: uuid.New(), Key: key, Value: value, UpdatedAt: now}
	if ttl > 0 {
		entry.ExpiresAt = now.Add(ttl)
	}

	existing, err := s.lookup(ctx, key)
	switch {
	case err == nil:
		entry.ID = existing.ID
	case !errors.Is(err, interfaces.ErrKeyNotFound):
		return err
	}

	if _, err := s.repo.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("kv: upsert %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *BunStore) Delete(ctx context.Context, key string) error {
	if s.repo == nil {
		return errBunStoreNoDB
	}
	entry, err := s.lookup(ctx, key)
	if err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			return nil
		}
		return err
	}
	return s.repo.Delete(ctx, entry)
}

// PurgeExpired deletes expired rows and reports how many were removed.
func (s *BunStore) PurgeExpired(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, errBunStoreNoDB
	}
	res, err := s.db.NewDelete().
		Model((*entryModel)(nil)).
		Where("expires_at IS NOT NULL").
		Where("expires_at <= ?", s.now().UTC()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// lookup fetches the row for key, live or expired.
func (s *BunStore) lookup(ctx context.Context, key string) (*entryModel, error) {
	entry, err := s.repo.GetByIdentifier(ctx, key)
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) || errors.Is(err, sql.ErrNoRows) {
			return nil, interfaces.ErrKeyNotFound
		}
		return nil, fmt.Errorf("kv: lookup %q: %w", key, err)
	}
	if entry == nil {
		return nil, interfaces.ErrKeyNotFound
	}
	return entry, nil
}
