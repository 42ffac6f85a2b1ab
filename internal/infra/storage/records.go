package storage

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vietddude/crosspay/internal/core/domain"
)

// Persisted layouts. Times are stored as epoch milliseconds.

type addressRow struct {
	Address   string `json:"address"`
	Category  string `json:"category"`
	Note      string `json:"note,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

func (r *addressRow) toDomain() domain.AddressEntry {
	return domain.AddressEntry{
		Address:   r.Address,
		Category:  domain.TrustCategory(r.Category),
		Note:      r.Note,
		CreatedAt: fromMillis(r.CreatedAt),
	}
}

func newAddressRow(e domain.AddressEntry) addressRow {
	return addressRow{
		Address:   e.Address,
		Category:  string(e.Category),
		Note:      e.Note,
		CreatedAt: toMillis(e.CreatedAt),
	}
}

type txRow struct {
	TxID      string          `json:"txId"`
	ToAddress string          `json:"toAddress"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp int64           `json:"timestamp"`
}

func (r *txRow) toDomain() domain.TxRecord {
	return domain.TxRecord{
		TxID:      r.TxID,
		ToAddress: r.ToAddress,
		Amount:    r.Amount,
		Timestamp: fromMillis(r.Timestamp),
	}
}

func newTxRow(tx domain.TxRecord) txRow {
	return txRow{
		TxID:      tx.TxID,
		ToAddress: tx.ToAddress,
		Amount:    tx.Amount,
		Timestamp: toMillis(tx.Timestamp),
	}
}

type sessionRow struct {
	IsAuthenticated bool  `json:"isAuthenticated"`
	LoginTime       int64 `json:"loginTime"`
	ExpiresAt       int64 `json:"expiresAt"`
}

func (r *sessionRow) toDomain() domain.AdminSession {
	return domain.AdminSession{
		IsAuthenticated: r.IsAuthenticated,
		LoginTime:       fromMillis(r.LoginTime),
		ExpiresAt:       fromMillis(r.ExpiresAt),
	}
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
