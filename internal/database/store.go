package database

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/jask/pocketledger/internal/database/repository"
	"github.com/jask/pocketledger/internal/model"
)

// Store adapts the sqlite repositories to the remote document-store
// contract: owner-scoped fetches, store-assigned ids, atomic batch commit
// and change subscription.
type Store struct {
	db           *sql.DB
	transactions *repository.TransactionRepo
	budgets      *repository.BudgetRepo

	mu      sync.Mutex
	nextSub int
	subs    map[int]subscription
}

type subscription struct {
	ownerID string
	fn      func()
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		transactions: repository.NewTransactionRepo(db),
		budgets:      repository.NewBudgetRepo(db),
		subs:         map[int]subscription{},
	}
}

// Transactions returns the owner's records, newest first.
func (s *Store) Transactions(ctx context.Context, ownerID string) ([]model.Transaction, error) {
	return s.transactions.ListByOwner(ctx, ownerID)
}

// InsertTransaction stores t under a store-assigned id and returns it.
func (s *Store) InsertTransaction(ctx context.Context, t model.Transaction) (string, error) {
	t.ID = uuid.NewString()
	t.Origin = model.OriginRemote
	if err := s.transactions.Insert(ctx, t); err != nil {
		return "", err
	}
	s.notify(t.OwnerID)
	return t.ID, nil
}

// UpdateTransaction rewrites the stored record matching t's id and owner.
func (s *Store) UpdateTransaction(ctx context.Context, t model.Transaction) error {
	if err := s.transactions.Update(ctx, t); err != nil {
		return err
	}
	s.notify(t.OwnerID)
	return nil
}

// DeleteTransaction removes the record; deleting an absent id succeeds.
func (s *Store) DeleteTransaction(ctx context.Context, id, ownerID string) error {
	if err := s.transactions.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	s.notify(ownerID)
	return nil
}

// Budget returns the owner's budget aggregate, nil when absent.
func (s *Store) Budget(ctx context.Context, ownerID string) (*model.BudgetDoc, error) {
	return s.budgets.GetByOwner(ctx, ownerID)
}

// UpsertBudget creates or replaces the aggregate and returns its id.
func (s *Store) UpsertBudget(ctx context.Context, doc model.BudgetDoc) (string, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if err := s.budgets.Upsert(ctx, doc); err != nil {
		return "", err
	}
	s.notify(doc.OwnerID)
	return doc.ID, nil
}

// Commit applies a staged batch in one sql transaction. Inserted records
// receive store-assigned ids before commit, like pre-generated document
// refs.
func (s *Store) Commit(ctx context.Context, batch model.Batch) error {
	if batch.Empty() {
		return nil
	}
	var owner string
	err := WithTx(s.db, func(tx *sql.Tx) error {
		for _, t := range batch.InsertTransactions {
			if t.ID == "" {
				t.ID = uuid.NewString()
			}
			t.Origin = model.OriginRemote
			owner = t.OwnerID
			if err := s.transactions.InsertTx(ctx, tx, t); err != nil {
				return err
			}
		}
		if batch.PutBudget != nil {
			doc := *batch.PutBudget
			if doc.ID == "" {
				doc.ID = uuid.NewString()
			}
			owner = doc.OwnerID
			if err := s.budgets.UpsertTx(ctx, tx, doc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notify(owner)
	return nil
}

// Subscribe registers a change callback for one owner's documents and
// returns a detach func. Callbacks fire after each committed mutation.
func (s *Store) Subscribe(ownerID string, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs[id] = subscription{ownerID: ownerID, fn: fn}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(ownerID string) {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.ownerID == ownerID {
			fns = append(fns, sub.fn)
		}
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
