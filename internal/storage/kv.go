package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// Key names one persisted collection.
type Key string

const (
	KeyUser         Key = "user"
	KeyHabits       Key = "habits"
	KeyRewards      Key = "rewards"
	KeyGameState    Key = "gameState"
	KeyAchievements Key = "achievements"
)

// KV is raw get/set of JSON snapshots. ok=false means the key was never written.
type KV interface {
	Get(ctx context.Context, key Key) (value []byte, ok bool, err error)
	Put(ctx context.Context, key Key, value []byte) error
}

// Backend is a KV that can group writes: everything fn writes becomes
// visible together, or not at all when fn returns an error.
type Backend interface {
	KV
	Atomic(ctx context.Context, fn func(kv KV) error) error
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteKV stores snapshots in the kv table.
type SQLiteKV struct {
	db  *sql.DB // nil when bound to a transaction
	q   querier
	now func() time.Time
}

func NewSQLiteKV(db *sql.DB) *SQLiteKV {
	return &SQLiteKV{db: db, q: db, now: time.Now}
}

func (s *SQLiteKV) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	row := s.q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, string(key))
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("kv get %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *SQLiteKV) Put(ctx context.Context, key Key, value []byte) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, string(key), string(value), s.now().UTC())
	if err != nil {
		return fmt.Errorf("kv put %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteKV) Atomic(ctx context.Context, fn func(kv KV) error) error {
	if s.db == nil {
		return fn(s)
	}
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(&SQLiteKV{q: tx, now: s.now})
	})
}

// MemoryKV keeps snapshots in process memory.
type MemoryKV struct {
	mu   sync.Mutex
	data map[Key][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[Key][]byte{}}
}

func (m *MemoryKV) Get(_ context.Context, key Key) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryKV) Put(_ context.Context, key Key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) Atomic(ctx context.Context, fn func(kv KV) error) error {
	staged := &stagedKV{base: m, writes: map[Key][]byte{}}
	if err := fn(staged); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range staged.writes {
		m.data[k] = v
	}
	return nil
}

// stagedKV buffers writes until the enclosing Atomic call succeeds.
type stagedKV struct {
	base   *MemoryKV
	writes map[Key][]byte
}

func (s *stagedKV) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	if v, ok := s.writes[key]; ok {
		return append([]byte(nil), v...), true, nil
	}
	return s.base.Get(ctx, key)
}

func (s *stagedKV) Put(_ context.Context, key Key, value []byte) error {
	s.writes[key] = append([]byte(nil), value...)
	return nil
}
