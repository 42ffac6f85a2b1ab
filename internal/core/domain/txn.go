package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxTransactions caps the persisted transaction log.
const MaxTransactions = 200

// TxRecord represents a simulated payment
type TxRecord struct {
	TxID      string
	ToAddress string
	Amount    decimal.Decimal
	Timestamp time.Time
}
