package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/crosspay/internal/core/domain"
	"github.com/vietddude/crosspay/internal/metrics"
)

// State gives typed access to the three persisted records.
//
// Reads never fail: a missing, unreadable or corrupt record degrades to its
// empty value and the cause is logged. Writes return an error wrapping
// ErrSaveFailed.
type State struct {
	kv  KV
	now func() time.Time
	log *slog.Logger
}

// Option configures a State.
type Option func(*State)

// WithClock overrides the time source used for session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// WithLogger overrides the logger used for degraded reads.
func WithLogger(l *slog.Logger) Option {
	return func(s *State) { s.log = l }
}

// NewState creates a State over kv.
func NewState(kv KV, opts ...Option) *State {
	s := &State{
		kv:  kv,
		now: time.Now,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks the underlying store.
func (s *State) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// Keys lists the keys present in the underlying store.
func (s *State) Keys(ctx context.Context) ([]string, error) {
	return s.kv.Keys(ctx)
}

// Addresses returns the stored registry in persisted order.
func (s *State) Addresses(ctx context.Context) []domain.AddressEntry {
	var rows []addressRow
	if !s.load(ctx, KeyAddresses, "addresses", &rows) {
		return []domain.AddressEntry{}
	}

	entries := make([]domain.AddressEntry, 0, len(rows))
	for i := range rows {
		entry := rows[i].toDomain()
		if !entry.Category.Valid() {
			s.log.Warn("Skipping address with unknown category",
				"address", entry.Address, "category", rows[i].Category)
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// SaveAddresses replaces the stored registry.
func (s *State) SaveAddresses(ctx context.Context, entries []domain.AddressEntry) error {
	rows := make([]addressRow, len(entries))
	for i, e := range entries {
		rows[i] = newAddressRow(e)
	}
	return s.save(ctx, KeyAddresses, "addresses", rows)
}

// Transactions returns the stored transaction log in persisted order.
func (s *State) Transactions(ctx context.Context) []domain.TxRecord {
	var rows []txRow
	if !s.load(ctx, KeyTransactions, "transactions", &rows) {
		return []domain.TxRecord{}
	}

	txs := make([]domain.TxRecord, len(rows))
	for i := range rows {
		txs[i] = rows[i].toDomain()
	}
	metrics.TransactionLogSize.Set(float64(len(txs)))
	return txs
}

// SaveTransactions replaces the stored transaction log.
func (s *State) SaveTransactions(ctx context.Context, txs []domain.TxRecord) error {
	rows := make([]txRow, len(txs))
	for i, tx := range txs {
		rows[i] = newTxRow(tx)
	}
	if err := s.save(ctx, KeyTransactions, "transactions", rows); err != nil {
		return err
	}
	metrics.TransactionLogSize.Set(float64(len(txs)))
	return nil
}

// ClearAll removes the registry and the transaction log. The admin session
// is kept.
func (s *State) ClearAll(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyAddresses, KeyTransactions); err != nil {
		metrics.StorageErrors.WithLabelValues("all", "delete").Inc()
		s.log.Error("Error clearing data", "error", err)
		return fmt.Errorf("%w: failed to clear data: %w", ErrSaveFailed, err)
	}
	metrics.TransactionLogSize.Set(0)
	return nil
}

// Session returns the admin session. An expired session is removed and
// reported as unauthenticated.
func (s *State) Session(ctx context.Context) domain.AdminSession {
	session, expired := s.readSession(ctx)
	if expired {
		s.ClearSession(ctx)
	}
	return session
}

// PeekSession is Session without the cleanup: an expired record reads as
// unauthenticated but stays in the store.
func (s *State) PeekSession(ctx context.Context) domain.AdminSession {
	session, _ := s.readSession(ctx)
	return session
}

func (s *State) readSession(ctx context.Context) (domain.AdminSession, bool) {
	var row sessionRow
	if !s.load(ctx, KeyAdminSession, "admin session", &row) {
		return domain.AdminSession{}, false
	}

	session := row.toDomain()
	if session.Expired(s.now()) {
		return domain.AdminSession{}, true
	}
	return session, false
}

// SaveSession persists the admin session.
func (s *State) SaveSession(ctx context.Context, session domain.AdminSession) error {
	row := sessionRow{
		IsAuthenticated: session.IsAuthenticated,
		LoginTime:       toMillis(session.LoginTime),
		ExpiresAt:       toMillis(session.ExpiresAt),
	}
	return s.save(ctx, KeyAdminSession, "admin session", row)
}

// ClearSession removes the admin session. Failures are logged only.
func (s *State) ClearSession(ctx context.Context) {
	if err := s.kv.Delete(ctx, KeyAdminSession); err != nil {
		metrics.StorageErrors.WithLabelValues("admin session", "delete").Inc()
		s.log.Error("Error clearing admin session", "error", err)
	}
}

// load decodes key into dst and reports whether a usable value was found.
func (s *State) load(ctx context.Context, key, record string, dst any) bool {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false
	}
	if err != nil {
		metrics.StorageErrors.WithLabelValues(record, "read").Inc()
		s.log.Error("Error loading "+record, "error", err)
		return false
	}
	if len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.StorageErrors.WithLabelValues(record, "decode").Inc()
		s.log.Error("Error loading "+record, "error", err)
		return false
	}
	return true
}

func (s *State) save(ctx context.Context, key, record string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		metrics.StorageErrors.WithLabelValues(record, "encode").Inc()
		return fmt.Errorf("%w: failed to save %s: %w", ErrSaveFailed, record, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		metrics.StorageErrors.WithLabelValues(record, "write").Inc()
		s.log.Error("Error saving "+record, "error", err)
		return fmt.Errorf("%w: failed to save %s: %w", ErrSaveFailed, record, err)
	}
	return nil
}
