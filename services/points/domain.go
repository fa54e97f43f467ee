// Package points implements the points ledger: lifetime-earned and
// lifetime-spent counters with a derived available balance.
package points

import "time"

// Account is a user's points ledger. Earned and spent are tracked
// separately so the lifetime-earned figure stays auditable and an
// insufficient-funds check is a plain comparison.
type Account struct {
	TotalEarned int64     `json:"total_earned"`
	TotalSpent  int64     `json:"total_spent"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Available returns the spendable balance.
func (a Account) Available() int64 {
	return a.TotalEarned - a.TotalSpent
}

// DefaultAccount returns a fresh, empty ledger.
func DefaultAccount() Account {
	return Account{}
}
