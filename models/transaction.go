package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeBet        TransactionType = "BET"
	TransactionTypePrize      TransactionType = "PRIZE"
	// TransactionTypeAdjustment records direct admin balance overrides so
	// every balance mutation leaves an audit trail.
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

// TransactionStatus is the review state of a ledger entry. Deposits and
// withdrawals start PENDING and require admin action; bets, prizes and
// adjustments are created already APPROVED.
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "PENDING"
	TransactionStatusApproved TransactionStatus = "APPROVED"
	TransactionStatusRejected TransactionStatus = "REJECTED"
)

// Transaction is an append-only ledger entry. ReferenceID links BET and
// PRIZE entries to their pool; manual entries leave it empty. Metadata
// carries type-specific detail (adjustment deltas, settlement context).
type Transaction struct {
	ID          string            `db:"id"`
	UserID      string            `db:"user_id"`
	Type        TransactionType   `db:"type"`
	Amount      decimal.Decimal   `db:"amount"`
	Status      TransactionStatus `db:"status"`
	ReceiptURL  *string           `db:"receipt_url"`
	ReferenceID *string           `db:"reference_id"`
	Metadata    map[string]any    `db:"metadata"`
	CreatedAt   time.Time         `db:"created_at"`
}

// IsPending reports whether the entry still awaits admin review
func (t *Transaction) IsPending() bool {
	return t.Status == TransactionStatusPending
}
