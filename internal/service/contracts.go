package service

import (
	"context"

	"github.com/jask/pocketledger/internal/model"
)

// GuestStore is the local persistence boundary for guest-mode data.
// Implementations never fail a read: malformed storage is an empty dataset.
type GuestStore interface {
	GuestTransactions() []model.Transaction
	SaveGuestTransactions(txs []model.Transaction) error
	GuestBudgets() model.BudgetValues
	SaveGuestBudgets(values model.BudgetValues) error
	ClearGuestData() error
	DarkMode() bool
	SetDarkMode(on bool) error
}

// RemoteStore is the synced document-store boundary. All operations are
// owner-scoped; Commit is atomic; Subscribe delivers change notifications
// until the returned detach func runs.
type RemoteStore interface {
	Transactions(ctx context.Context, ownerID string) ([]model.Transaction, error)
	InsertTransaction(ctx context.Context, t model.Transaction) (id string, err error)
	UpdateTransaction(ctx context.Context, t model.Transaction) error
	DeleteTransaction(ctx context.Context, id, ownerID string) error
	Budget(ctx context.Context, ownerID string) (*model.BudgetDoc, error)
	UpsertBudget(ctx context.Context, doc model.BudgetDoc) (id string, err error)
	Commit(ctx context.Context, batch model.Batch) error
	Subscribe(ownerID string, fn func()) (unsubscribe func())
}
