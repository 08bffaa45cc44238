package model

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// TxType distinguishes money in from money out.
type TxType string

const (
	TypeIncome  TxType = "income"
	TypeExpense TxType = "expense"
)

// Origin marks which store a record currently lives in. Local ids keep the
// "local_" prefix for storage compatibility, but dispatch goes through this
// field, never through string inspection.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
)

// Categories is the fixed category vocabulary. Budgets are keyed by these
// names and the views layer rejects anything outside the set.
var Categories = []string{"Salary", "Food", "Rent", "Entertainment", "Transportation", "Other"}

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 10

// Transaction is a single income or expense record.
type Transaction struct {
	ID          string          `json:"id"`
	Origin      Origin          `json:"-"`
	OwnerID     string          `json:"uid,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TxType          `json:"type"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt,omitempty"`
}

// BudgetValues maps category name to monthly budget amount. A zero value
// means unset.
type BudgetValues map[string]decimal.Decimal

// BudgetDoc is the single per-owner budget aggregate.
type BudgetDoc struct {
	ID      string       `json:"id"`
	OwnerID string       `json:"uid"`
	Values  BudgetValues `json:"values"`
}

// User identifies the current session. Guest sessions carry the fixed uid
// "guest" and no email.
type User struct {
	UID         string
	DisplayName string
	Email       string
	Guest       bool
}

// GuestUser is the session every process starts in.
func GuestUser() User {
	return User{UID: "guest", DisplayName: "Guest", Guest: true}
}

// NewLocalID generates an id for a guest-mode record.
func NewLocalID() string {
	return fmt.Sprintf("local_%d_%06d", time.Now().UnixMilli(), rand.Intn(1000000))
}

// ValidCategory reports whether name is in the fixed category set.
func ValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
