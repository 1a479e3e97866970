package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Record is a key/value row holding one serialized document.
type Record struct {
	bun.BaseModel `bun:"table:auth_records,alias:ar"`

	Key       string    `bun:"key,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Store is a bun-backed RecordStore for the adminauth package.
type Store struct {
	db *bun.DB
}

// Open creates a Store over a sqlite database at the given DSN.
// Use ":memory:" for an ephemeral database.
func Open(dsn string) (*Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	return New(bun.NewDB(sqldb, sqlitedialect.New())), nil
}

// New wraps an existing bun.DB.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// Init creates the backing table if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*Record)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// Get fetches a value by key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	record := new(Record)
	err := s.db.NewSelect().
		Model(record).
		Where("ar.key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return record.Value, true, nil
}

// Put upserts a value.
func (s *Store) Put(ctx context.Context, key, value string) error {
	record := &Record{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// PutIfAbsent inserts only when the key is free. The database decides
// the winner between concurrent inserts, so exactly one caller sees
// true for a contested key.
func (s *Store) PutIfAbsent(ctx context.Context, key, value string) (bool, error) {
	record := &Record{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	res, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (key) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
