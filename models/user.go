package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserRole distinguishes regular members from administrators
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// User represents a club member with two independent balances: Balance is
// wagering money (spendable only on bets), WithdrawableBalance is money
// eligible for cash-out (credited only by prizes or admin adjustment).
type User struct {
	ID                  string          `db:"id"`
	Name                string          `db:"name"`
	Email               string          `db:"email"`
	PasswordHash        string          `db:"password_hash"`
	Whatsapp            string          `db:"whatsapp"`
	Role                UserRole        `db:"role"`
	Balance             decimal.Decimal `db:"balance"`
	WithdrawableBalance decimal.Decimal `db:"withdrawable_balance"`
	CreatedAt           time.Time       `db:"created_at"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
