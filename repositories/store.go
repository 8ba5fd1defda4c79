package repositories

import (
	"context"
	"dm-chat/errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	messageSequenceKey       = "seq:msg"
	messageSequenceBandwidth = 1000
	conflictRetries          = 5
)

// StoreConfig describes how the document store is opened.
type StoreConfig struct {
	Path     string
	InMemory bool
	ReadOnly bool
	Timeout  time.Duration
}

// Store owns the Badger handle shared by every repository.
// It is built once by the composition root and closed on shutdown.
type Store struct {
	db      *badger.DB
	seq     *badger.Sequence
	log     *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

func Open(cfg StoreConfig, log *slog.Logger) (*Store, error) {
	options := badger.DefaultOptions(cfg.Path).
		WithLoggingLevel(badger.WARNING).
		WithInMemory(cfg.InMemory).
		WithReadOnly(cfg.ReadOnly).
		WithBypassLockGuard(cfg.ReadOnly)
	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("database opening failed: %w", err)
	}
	store, err := NewStore(db, log, cfg.Timeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewStore wraps an already opened database. The store takes ownership of db.
func NewStore(db *badger.DB, log *slog.Logger, timeout time.Duration) (*Store, error) {
	s := &Store{db: db, log: log, timeout: timeout, now: time.Now}
	if !db.Opts().ReadOnly {
		seq, err := db.GetSequence([]byte(messageSequenceKey), messageSequenceBandwidth)
		if err != nil {
			return nil, fmt.Errorf("message sequence: %w", err)
		}
		s.seq = seq
	}
	return s, nil
}

func (s *Store) DB() *badger.DB {
	return s.db
}

func (s *Store) Close() error {
	if s.seq != nil {
		if err := s.seq.Release(); err != nil {
			s.log.Warn("Failed to release message sequence", "error", err)
		}
	}
	return s.db.Close()
}

// Ping reports whether the store answers a read.
func (s *Store) Ping(ctx context.Context) error {
	return s.view(ctx, "ping", func(*badger.Txn) error { return nil })
}

// CollectGarbage rewrites value log files until none is worth reclaiming.
// It returns the number of files rewritten.
func (s *Store) CollectGarbage(discardRatio float64) (int, error) {
	if s.db.Opts().InMemory || s.db.Opts().ReadOnly {
		return 0, nil
	}
	rewritten := 0
	for {
		err := s.db.RunValueLogGC(discardRatio)
		switch {
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrRejected):
			return rewritten, nil
		case err != nil:
			return rewritten, fmt.Errorf("value log gc: %w", err)
		}
		rewritten++
	}
}

func (s *Store) view(ctx context.Context, op string, fn func(txn *badger.Txn) error) error {
	return s.run(ctx, op, func() error { return s.db.View(fn) })
}

// update applies fn in a write transaction bounded by the configured timeout.
func (s *Store) update(ctx context.Context, op string, fn func(txn *badger.Txn) error) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	return s.commit(ctx, op, fn)
}

// updateWithRetry replays fn when a concurrent transaction invalidated its reads.
func (s *Store) updateWithRetry(ctx context.Context, op string, fn func(txn *badger.Txn) error) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var err error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		if err = s.commit(ctx, op, fn); !errors.Is(err, badger.ErrConflict) {
			return err
		}
		s.log.Debug("Transaction conflict, retrying", "op", op, "attempt", attempt+1)
	}
	return err
}

// commit runs fn and commits only if the deadline has not passed.
// A started commit is waited for, so the reported outcome always matches what was persisted.
func (s *Store) commit(ctx context.Context, op string, fn func(txn *badger.Txn) error) error {
	if err := s.expired(ctx, op); err != nil {
		return err
	}
	txn := s.db.NewTransaction(true)
	defer txn.Discard()

	if err := fn(txn); err != nil {
		return err
	}
	if err := s.expired(ctx, op); err != nil {
		return err
	}
	return txn.Commit()
}

func (s *Store) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// expired reports a cancelled context or a deadline already behind the wall clock.
func (s *Store) expired(ctx context.Context, op string) error {
	deadline, hasDeadline := ctx.Deadline()
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded),
		hasDeadline && !time.Now().Before(deadline):
		s.log.Warn("Store operation timed out", "op", op, "timeout", s.timeout)
		return fmt.Errorf("%s: %w", op, errors.ErrStoreTimeout)
	case ctx.Err() != nil:
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
	return nil
}

// run bounds a read by the configured timeout.
// A timed out read keeps running in the background but its result is discarded.
func (s *Store) run(ctx context.Context, op string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.timeout <= 0 {
		return fn()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		s.log.Warn("Store operation timed out", "op", op, "timeout", s.timeout)
		return fmt.Errorf("%s: %w", op, errors.ErrStoreTimeout)
	}
}
