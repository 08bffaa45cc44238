package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jask/pocketledger/internal/localstore"
	"github.com/jask/pocketledger/internal/model"
)

// fakeRemote is an in-memory RemoteStore with the same observable behavior
// as the real one: store-assigned ids, atomic batches and synchronous
// change notifications.
type fakeRemote struct {
	mu      sync.Mutex
	txs     map[string][]model.Transaction
	budgets map[string]*model.BudgetDoc
	nextID  int

	commits    int
	failCommit bool
	failList   bool

	subs map[int]fakeSub
	next int
}

type fakeSub struct {
	ownerID string
	fn      func()
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		txs:     map[string][]model.Transaction{},
		budgets: map[string]*model.BudgetDoc{},
		subs:    map[int]fakeSub{},
	}
}

func (f *fakeRemote) assignID() string {
	f.nextID++
	return fmt.Sprintf("doc-%d", f.nextID)
}

func (f *fakeRemote) Transactions(ctx context.Context, ownerID string) ([]model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errors.New("remote unavailable")
	}
	return append([]model.Transaction(nil), f.txs[ownerID]...), nil
}

func (f *fakeRemote) InsertTransaction(ctx context.Context, t model.Transaction) (string, error) {
	f.mu.Lock()
	t.ID = f.assignID()
	t.Origin = model.OriginRemote
	f.txs[t.OwnerID] = append([]model.Transaction{t}, f.txs[t.OwnerID]...)
	f.mu.Unlock()
	f.notify(t.OwnerID)
	return t.ID, nil
}

func (f *fakeRemote) UpdateTransaction(ctx context.Context, t model.Transaction) error {
	f.mu.Lock()
	list := f.txs[t.OwnerID]
	for i := range list {
		if list[i].ID == t.ID {
			list[i] = t
		}
	}
	f.mu.Unlock()
	f.notify(t.OwnerID)
	return nil
}

func (f *fakeRemote) DeleteTransaction(ctx context.Context, id, ownerID string) error {
	f.mu.Lock()
	list := f.txs[ownerID][:0]
	for _, t := range f.txs[ownerID] {
		if t.ID != id {
			list = append(list, t)
		}
	}
	f.txs[ownerID] = list
	f.mu.Unlock()
	f.notify(ownerID)
	return nil
}

func (f *fakeRemote) Budget(ctx context.Context, ownerID string) (*model.BudgetDoc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.budgets[ownerID]
	if !ok {
		return nil, nil
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeRemote) UpsertBudget(ctx context.Context, doc model.BudgetDoc) (string, error) {
	f.mu.Lock()
	if doc.ID == "" {
		doc.ID = f.assignID()
	}
	f.budgets[doc.OwnerID] = &doc
	f.mu.Unlock()
	f.notify(doc.OwnerID)
	return doc.ID, nil
}

func (f *fakeRemote) Commit(ctx context.Context, batch model.Batch) error {
	f.mu.Lock()
	if f.failCommit {
		f.mu.Unlock()
		return errors.New("commit failed")
	}
	f.commits++
	var owner string
	for _, t := range batch.InsertTransactions {
		if t.ID == "" {
			t.ID = f.assignID()
		}
		t.Origin = model.OriginRemote
		owner = t.OwnerID
		f.txs[t.OwnerID] = append([]model.Transaction{t}, f.txs[t.OwnerID]...)
	}
	if batch.PutBudget != nil {
		doc := *batch.PutBudget
		if doc.ID == "" {
			doc.ID = f.assignID()
		}
		owner = doc.OwnerID
		f.budgets[doc.OwnerID] = &doc
	}
	f.mu.Unlock()
	f.notify(owner)
	return nil
}

func (f *fakeRemote) Subscribe(ownerID string, fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	id := f.next
	f.subs[id] = fakeSub{ownerID: ownerID, fn: fn}
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *fakeRemote) notify(ownerID string) {
	f.mu.Lock()
	fns := make([]func(), 0, len(f.subs))
	for _, sub := range f.subs {
		if sub.ownerID == ownerID {
			fns = append(fns, sub.fn)
		}
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// gatedRemote stalls one list fetch on demand, after it has read its
// result, so a test can let a newer load win the race before the stalled
// response returns.
type gatedRemote struct {
	*fakeRemote

	gateMu  sync.Mutex
	gate    chan struct{}
	entered chan struct{}
}

// holdNextList arms the gate. The returned channel closes once the next
// Transactions call has read its (soon to be stale) result and stalled;
// release lets that call return.
func (g *gatedRemote) holdNextList() (entered <-chan struct{}, release func()) {
	g.gateMu.Lock()
	defer g.gateMu.Unlock()
	g.gate = make(chan struct{})
	g.entered = make(chan struct{})
	gate := g.gate
	return g.entered, func() { close(gate) }
}

func (g *gatedRemote) Transactions(ctx context.Context, ownerID string) ([]model.Transaction, error) {
	txs, err := g.fakeRemote.Transactions(ctx, ownerID)
	g.gateMu.Lock()
	gate, entered := g.gate, g.entered
	g.gate, g.entered = nil, nil
	g.gateMu.Unlock()
	if gate != nil {
		close(entered)
		<-gate
	}
	return txs, err
}

// flakyGuestStore wraps the real guest store with switchable save failures.
type flakyGuestStore struct {
	*localstore.Store
	failSaves bool
}

func (f *flakyGuestStore) SaveGuestTransactions(txs []model.Transaction) error {
	if f.failSaves {
		return errors.New("disk full")
	}
	return f.Store.SaveGuestTransactions(txs)
}

// seedRemote bypasses notifications, for arranging preexisting remote data.
func (f *fakeRemote) seedRemote(ownerID string, txs ...model.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range txs {
		if txs[i].ID == "" {
			txs[i].ID = f.assignID()
		}
		txs[i].Origin = model.OriginRemote
		txs[i].OwnerID = ownerID
	}
	f.txs[ownerID] = append(txs, f.txs[ownerID]...)
}
