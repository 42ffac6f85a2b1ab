// Package send orchestrates a simulated payment: classify the destination,
// gate risky destinations behind explicit confirmation, then record the
// transaction.
package send

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vietddude/crosspay/internal/core/classifier"
	"github.com/vietddude/crosspay/internal/core/domain"
	"github.com/vietddude/crosspay/internal/metrics"
)

var (
	// ErrInvalidAmount is returned when the amount is missing, malformed or not positive
	ErrInvalidAmount = errors.New("please enter a valid amount greater than 0")

	// ErrConfirmationRequired is returned when committing a risky quote without confirmation
	ErrConfirmationRequired = errors.New("confirmation required for risky destination")

	// ErrCancelled is returned when the user declines the confirmation prompt
	ErrCancelled = errors.New("payment cancelled")

	// ErrTransactionFailed wraps storage failures while recording the payment
	ErrTransactionFailed = errors.New("transaction failed")
)

// Classifier resolves addresses to categories.
type Classifier interface {
	Classify(ctx context.Context, address string) (classifier.Classification, error)
}

// Ledger records committed payments.
type Ledger interface {
	Append(ctx context.Context, toAddress string, amount decimal.Decimal) (domain.TxRecord, error)
}

// Confirmer asks the user to acknowledge a risky payment.
type Confirmer interface {
	Confirm(ctx context.Context, quote Quote) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, quote Quote) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, quote Quote) (bool, error) {
	return f(ctx, quote)
}

// RequiresConfirmation is the send policy: C and D need an explicit yes,
// A and B go straight through.
func RequiresConfirmation(c domain.TrustCategory) bool {
	return c == domain.CategoryC || c == domain.CategoryD
}

// Quote is a validated, classified payment that has not been committed.
type Quote struct {
	// Address is the destination as entered; the classification carries the
	// registered spelling.
	Address              string
	Classification       classifier.Classification
	Amount               decimal.Decimal
	RequiresConfirmation bool
}

// Flow runs the send sequence.
type Flow struct {
	classifier Classifier
	ledger     Ledger
}

func NewFlow(c Classifier, l Ledger) *Flow {
	return &Flow{classifier: c, ledger: l}
}

// Prepare validates the input and classifies the destination.
func (f *Flow) Prepare(ctx context.Context, address string, amount decimal.Decimal) (Quote, error) {
	if !amount.IsPositive() {
		return Quote{}, ErrInvalidAmount
	}
	cls, err := f.classifier.Classify(ctx, address)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Address:              strings.TrimSpace(address),
		Classification:       cls,
		Amount:               amount,
		RequiresConfirmation: RequiresConfirmation(cls.Category),
	}, nil
}

// Commit records the payment. A quote that requires confirmation is only
// recorded when confirmed is true.
func (f *Flow) Commit(ctx context.Context, q Quote, confirmed bool) (domain.TxRecord, error) {
	if q.RequiresConfirmation && !confirmed {
		return domain.TxRecord{}, ErrConfirmationRequired
	}

	tx, err := f.ledger.Append(ctx, q.Address, q.Amount)
	if err != nil {
		return domain.TxRecord{}, fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}
	metrics.PaymentsCommitted.WithLabelValues(string(q.Classification.Category)).Inc()
	return tx, nil
}

// Send prepares, confirms when the policy demands it, and commits.
// The confirmer is not consulted for A and B destinations.
func (f *Flow) Send(ctx context.Context, address string, amount decimal.Decimal, confirmer Confirmer) (domain.TxRecord, error) {
	q, err := f.Prepare(ctx, address, amount)
	if err != nil {
		return domain.TxRecord{}, err
	}
	return f.SendQuote(ctx, q, confirmer)
}

// SendQuote confirms and commits a quote returned by Prepare.
func (f *Flow) SendQuote(ctx context.Context, q Quote, confirmer Confirmer) (domain.TxRecord, error) {
	confirmed := false
	if q.RequiresConfirmation {
		category := string(q.Classification.Category)
		metrics.ConfirmationsRequested.WithLabelValues(category).Inc()
		if confirmer == nil {
			return domain.TxRecord{}, ErrConfirmationRequired
		}
		var err error
		confirmed, err = confirmer.Confirm(ctx, q)
		if err != nil {
			return domain.TxRecord{}, fmt.Errorf("confirmation failed: %w", err)
		}
		if !confirmed {
			metrics.ConfirmationsDeclined.WithLabelValues(category).Inc()
			return domain.TxRecord{}, ErrCancelled
		}
	}

	return f.Commit(ctx, q, confirmed)
}

// ParseAmount parses a user-entered amount and requires it to be positive.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
