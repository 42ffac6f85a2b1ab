// Package txlog keeps the bounded, newest-first log of simulated payments.
package txlog

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vietddude/crosspay/internal/core/domain"
)

// MaxEntries is the number of transactions kept; older ones are evicted.
const MaxEntries = domain.MaxTransactions

// Store is the persistence the log needs.
type Store interface {
	Transactions(ctx context.Context) []domain.TxRecord
	SaveTransactions(ctx context.Context, txs []domain.TxRecord) error
}

// Log appends transactions to a Store.
type Log struct {
	store Store
	now   func() time.Time
	newID func(time.Time) string
}

// New creates a Log. A nil clock means time.Now.
func New(store Store, now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{store: store, now: now, newID: NewTxID}
}

// Append records a payment to toAddress and returns the stored record.
func (l *Log) Append(ctx context.Context, toAddress string, amount decimal.Decimal) (domain.TxRecord, error) {
	ts := l.now()
	tx := domain.TxRecord{
		TxID:      l.newID(ts),
		ToAddress: strings.TrimSpace(toAddress),
		Amount:    amount,
		Timestamp: ts,
	}

	txs := l.store.Transactions(ctx)
	txs = append([]domain.TxRecord{tx}, txs...)
	if len(txs) > MaxEntries {
		txs = txs[:MaxEntries]
	}

	if err := l.store.SaveTransactions(ctx, txs); err != nil {
		return domain.TxRecord{}, err
	}
	return tx, nil
}

// List returns the log, newest first. Records with equal timestamps keep
// their stored order.
func (l *Log) List(ctx context.Context) []domain.TxRecord {
	txs := l.store.Transactions(ctx)
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})
	return txs
}

// NewTxID returns "tx_<epoch ms>_<9 random [0-9a-f]>". Uniqueness is
// best-effort.
func NewTxID(ts time.Time) string {
	// The first 9 hex digits of a v4 UUID precede its version nibble.
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "tx_" + strconv.FormatInt(ts.UnixMilli(), 10) + "_" + random[:9]
}
