package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PoolStatus represents the lifecycle state of a betting pool
type PoolStatus string

const (
	PoolStatusOpen           PoolStatus = "OPEN"
	PoolStatusAwaitingResult PoolStatus = "AWAITING_RESULT"
	PoolStatusFinished       PoolStatus = "FINISHED"
)

// OverdueGrace is how long a pool may sit past its event time before it is
// flagged as overdue for settlement.
const OverdueGrace = time.Hour

// Pool is a single proposition with exactly two named outcomes. Every
// participant stakes the same BetAmount. DateTime is the betting deadline;
// EventDateTime is when the real-world event happens.
type Pool struct {
	ID            string          `db:"id"`
	CreatorID     string          `db:"creator_id"`
	Name          string          `db:"name"`
	Modality      string          `db:"modality"`
	DateTime      time.Time       `db:"date_time"`
	EventDateTime time.Time       `db:"event_date_time"`
	BetAmount     decimal.Decimal `db:"bet_amount"`
	Options       []string        `db:"options"`
	Status        PoolStatus      `db:"status"`
	WinnerOption  *string         `db:"winner_option"`
	CreatedAt     time.Time       `db:"created_at"`
}

// DeriveStatus computes the pool's effective status at the given instant.
// A stored OPEN pool reads as AWAITING_RESULT once the deadline passes.
// FINISHED is terminal and only ever set by settlement; the derived value
// is a view and must never be written back by a read path.
func DeriveStatus(p *Pool, now time.Time) PoolStatus {
	if p.Status == PoolStatusFinished {
		return PoolStatusFinished
	}
	if !now.Before(p.DateTime) {
		return PoolStatusAwaitingResult
	}
	return PoolStatusOpen
}

// IsFinished reports whether the pool has been settled
func (p *Pool) IsFinished() bool {
	return p.Status == PoolStatusFinished
}

// IsOverdue reports whether a not-yet-settled pool has sat more than the
// grace period past its event time.
func (p *Pool) IsOverdue(now time.Time) bool {
	if DeriveStatus(p, now) != PoolStatusAwaitingResult {
		return false
	}
	return !now.Before(p.EventDateTime.Add(OverdueGrace))
}

// HasOption reports whether label is one of the pool's registered outcomes
func (p *Pool) HasOption(label string) bool {
	for _, opt := range p.Options {
		if opt == label {
			return true
		}
	}
	return false
}

// SettlementResult summarizes a pool settlement
type SettlementResult struct {
	Pool            *Pool
	WinnerOption    string
	TotalCollected  decimal.Decimal
	PrizePool       decimal.Decimal
	IndividualPrize decimal.Decimal
	Winners         []*Bet
	PrizePaid       decimal.Decimal
}
