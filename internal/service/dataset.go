package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jask/pocketledger/internal/model"
	"github.com/jask/pocketledger/internal/views"
)

// DatasetService is the single source of truth for the current identity's
// transactions and budgets. Every mutation routes to the correct backing
// adapter for the active mode; all other components read through it.
//
// The mutex is never held across adapter calls: the remote store notifies
// subscribers synchronously, and a notification triggers a reload through
// this same service.
type DatasetService struct {
	local      GuestStore
	remote     RemoteStore
	reconciler *Reconciler
	log        *logrus.Logger

	mu           sync.Mutex
	user         model.User
	transactions []model.Transaction
	budgets      model.BudgetValues
	budgetDocID  string
	lastErr      error
	state        views.State
	loadEpoch    uint64
	unsubscribe  func()
}

// TxInput carries user-entered transaction fields. Amount arrives as text
// and is validated here, before any store is touched.
type TxInput struct {
	Title       string
	Description string
	Amount      string
	Type        model.TxType
	Category    string
	Date        time.Time // zero = now on add, keep existing on update
}

func NewDatasetService(local GuestStore, remote RemoteStore, reconciler *Reconciler, log *logrus.Logger) *DatasetService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DatasetService{
		local:      local,
		remote:     remote,
		reconciler: reconciler,
		log:        log,
		user:       model.GuestUser(),
		budgets:    model.BudgetValues{},
		state:      views.NewState(),
	}
}

// HandleAuthChange is the identity-provider callback target. A nil user is
// a sign-out: detach the live subscription, forget merge attempts, reset
// view state and fall back to the guest dataset. A non-nil user merges
// guest data exactly once, loads the remote dataset and attaches a change
// subscription. Safe against duplicate invocations.
func (s *DatasetService) HandleAuthChange(ctx context.Context, u *model.User) {
	s.detach()

	if u == nil {
		s.reconciler.Reset()
		s.mu.Lock()
		s.user = model.GuestUser()
		s.state = views.NewState()
		s.budgetDocID = ""
		s.lastErr = nil
		s.mu.Unlock()
		s.Load(ctx)
		return
	}

	user := *u
	user.Guest = false
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	mergeErr := s.reconciler.MergeGuestData(ctx, user.UID)
	s.Load(ctx)
	if mergeErr != nil {
		// keep going: the remote dataset still loaded and guest data is
		// retained, but the failure must survive the reload so the
		// presentation layer can show it
		s.setErr(mergeErr)
	}

	unsub := s.remote.Subscribe(user.UID, func() {
		s.Load(context.Background())
	})
	s.mu.Lock()
	s.unsubscribe = unsub
	s.mu.Unlock()
}

func (s *DatasetService) detach() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Load (re)populates in-memory state from the adapter for the current
// mode. Remote failures are soft: the previous in-memory data stays and
// the error is surfaced via LastError. A monotonic epoch discards
// responses from loads that were superseded while in flight.
func (s *DatasetService) Load(ctx context.Context) {
	s.mu.Lock()
	user := s.user
	s.loadEpoch++
	epoch := s.loadEpoch
	s.mu.Unlock()

	if user.Guest {
		txs := s.local.GuestTransactions()
		budgets := s.local.GuestBudgets()
		s.mu.Lock()
		defer s.mu.Unlock()
		if epoch != s.loadEpoch || !s.user.Guest {
			return
		}
		s.transactions = txs
		s.budgets = budgets
		s.budgetDocID = ""
		return
	}

	txs, err := s.remote.Transactions(ctx, user.UID)
	var doc *model.BudgetDoc
	if err == nil {
		doc, err = s.remote.Budget(ctx, user.UID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.loadEpoch || s.user.UID != user.UID {
		return // a newer load or identity change won
	}
	if err != nil {
		s.lastErr = fmt.Errorf("load remote data: %w", err)
		s.log.WithError(err).WithField("owner", user.UID).Error("remote load failed, keeping last known data")
		return
	}
	s.transactions = txs
	if doc != nil {
		s.budgets = doc.Values
		s.budgetDocID = doc.ID
	} else {
		s.budgets = model.BudgetValues{}
		s.budgetDocID = ""
	}
	s.lastErr = nil
}

// AddTransaction validates fields, stores the record in the mode's backing
// adapter and prepends it to the in-memory list. Returns the record with
// its final id. Resets the current page to 1.
func (s *DatasetService) AddTransaction(ctx context.Context, in TxInput) (model.Transaction, error) {
	amount, err := model.ParseAmount(in.Amount)
	if err != nil {
		return model.Transaction{}, err
	}
	now := time.Now().UTC()
	t := model.Transaction{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Amount:      amount,
		Type:        in.Type,
		Category:    in.Category,
		Date:        in.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Date.IsZero() {
		t.Date = now
	}
	if err := t.Validate(); err != nil {
		return model.Transaction{}, err
	}

	s.mu.Lock()
	user := s.user
	s.mu.Unlock()

	if user.Guest {
		t.ID = model.NewLocalID()
		t.Origin = model.OriginLocal
		// persist first: on failure the in-memory list must not diverge
		// from storage
		list := append([]model.Transaction{t}, s.Transactions()...)
		if err := s.local.SaveGuestTransactions(list); err != nil {
			s.setErr(err)
			return model.Transaction{}, fmt.Errorf("persist guest transaction: %w", err)
		}
		s.prepend(t)
		return t, nil
	}

	t.OwnerID = user.UID
	t.Origin = model.OriginRemote
	id, err := s.remote.InsertTransaction(ctx, t)
	if err != nil {
		s.setErr(err)
		return model.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	t.ID = id
	s.prepend(t)
	return t, nil
}

// prepend adds t at the head (most-recent-first) and resets paging. Skips
// the insert if a concurrent reload already delivered the record.
func (s *DatasetService) prepend(t model.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexByID(s.transactions, t.ID) < 0 {
		s.transactions = append([]model.Transaction{t}, s.transactions...)
	}
	s.state.Page = 1
}

// UpdateTransaction re-validates and rewrites an existing record. A record
// whose origin does not match the current mode is not ours to touch: the
// operation logs a warning and becomes a no-op.
func (s *DatasetService) UpdateTransaction(ctx context.Context, id string, in TxInput) error {
	amount, err := model.ParseAmount(in.Amount)
	if err != nil {
		return err
	}

	s.mu.Lock()
	user := s.user
	idx := indexByID(s.transactions, id)
	var existing model.Transaction
	if idx >= 0 {
		existing = s.transactions[idx]
	}
	s.mu.Unlock()

	if idx < 0 {
		s.log.WithField("id", id).Warn("update for unknown transaction id")
		return nil
	}
	if !ownedByCurrentMode(user, existing) {
		s.log.WithFields(logrus.Fields{"id": id, "origin": existing.Origin}).
			Warn("record not owned by current context")
		return nil
	}

	updated := existing
	updated.Title = strings.TrimSpace(in.Title)
	updated.Description = strings.TrimSpace(in.Description)
	updated.Amount = amount
	updated.Type = in.Type
	updated.Category = in.Category
	if !in.Date.IsZero() {
		updated.Date = in.Date
	}
	updated.UpdatedAt = time.Now().UTC()
	if err := updated.Validate(); err != nil {
		return err
	}

	if user.Guest {
		list := s.Transactions()
		for i := range list {
			if list[i].ID == updated.ID {
				list[i] = updated
			}
		}
		if err := s.local.SaveGuestTransactions(list); err != nil {
			s.setErr(err)
			return fmt.Errorf("persist guest transaction: %w", err)
		}
		s.replace(updated)
		return nil
	}

	updated.OwnerID = user.UID
	if err := s.remote.UpdateTransaction(ctx, updated); err != nil {
		s.setErr(err)
		return fmt.Errorf("update transaction: %w", err)
	}
	s.replace(updated)
	return nil
}

// replace swaps the record matching t's id by identity, never by index:
// the list order may have changed since the caller looked.
func (s *DatasetService) replace(t model.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := indexByID(s.transactions, t.ID); idx >= 0 {
		s.transactions[idx] = t
	}
}

// DeleteTransaction removes a record from the backing store and the
// in-memory list. Deleting an absent id is a no-op success; a mode
// mismatch logs and no-ops like update.
func (s *DatasetService) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	user := s.user
	idx := indexByID(s.transactions, id)
	var existing model.Transaction
	if idx >= 0 {
		existing = s.transactions[idx]
	}
	s.mu.Unlock()

	if idx < 0 {
		return nil
	}
	if !ownedByCurrentMode(user, existing) {
		s.log.WithFields(logrus.Fields{"id": id, "origin": existing.Origin}).
			Warn("record not owned by current context")
		return nil
	}

	if user.Guest {
		var list []model.Transaction
		for _, t := range s.Transactions() {
			if t.ID != id {
				list = append(list, t)
			}
		}
		if err := s.local.SaveGuestTransactions(list); err != nil {
			s.setErr(err)
			return fmt.Errorf("persist guest transactions: %w", err)
		}
		s.remove(id)
		return nil
	}

	if err := s.remote.DeleteTransaction(ctx, id, user.UID); err != nil {
		s.setErr(err)
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.remove(id)
	return nil
}

func (s *DatasetService) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.transactions[:0]
	for _, t := range s.transactions {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.transactions = out
}

// SetBudget merges one category value into the identity's single budget
// aggregate, creating it when absent. Invalid amounts coerce to zero
// (unset) rather than erroring.
func (s *DatasetService) SetBudget(ctx context.Context, category, amount string) error {
	if !model.ValidCategory(category) {
		return model.ErrUnknownCategory
	}
	value := model.CoerceBudget(amount)

	s.mu.Lock()
	user := s.user
	merged := model.BudgetValues{}
	for cat, v := range s.budgets {
		merged[cat] = v
	}
	merged[category] = value
	s.budgets = merged
	docID := s.budgetDocID
	s.mu.Unlock()

	if user.Guest {
		if err := s.local.SaveGuestBudgets(merged); err != nil {
			s.setErr(err)
			return fmt.Errorf("persist guest budgets: %w", err)
		}
		return nil
	}

	id, err := s.remote.UpsertBudget(ctx, model.BudgetDoc{ID: docID, OwnerID: user.UID, Values: merged})
	if err != nil {
		s.setErr(err)
		return fmt.Errorf("upsert budget: %w", err)
	}
	s.mu.Lock()
	s.budgetDocID = id
	s.mu.Unlock()
	return nil
}

// DarkMode reads the theme preference; it lives in local storage in both
// modes.
func (s *DatasetService) DarkMode() bool { return s.local.DarkMode() }

// SetDarkMode persists the theme preference.
func (s *DatasetService) SetDarkMode(on bool) error { return s.local.SetDarkMode(on) }

// User returns the current session identity.
func (s *DatasetService) User() model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Transactions returns a copy of the raw in-memory list, newest first.
func (s *DatasetService) Transactions() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Transaction(nil), s.transactions...)
}

// Budgets returns a copy of the current budget values.
func (s *DatasetService) Budgets() model.BudgetValues {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := model.BudgetValues{}
	for cat, v := range s.budgets {
		out[cat] = v
	}
	return out
}

// LastError returns the most recent recoverable remote error, or nil.
func (s *DatasetService) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// State returns the active filter/sort/page state.
func (s *DatasetService) State() views.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UpdateState mutates the view state under the service's lock.
func (s *DatasetService) UpdateState(fn func(*views.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func (s *DatasetService) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

func indexByID(txs []model.Transaction, id string) int {
	for i, t := range txs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// ownedByCurrentMode is the routing rule: guest mode owns local-origin
// records, authenticated mode owns remote-origin records belonging to the
// signed-in identity.
func ownedByCurrentMode(user model.User, t model.Transaction) bool {
	if user.Guest {
		return t.Origin == model.OriginLocal
	}
	return t.Origin == model.OriginRemote && (t.OwnerID == "" || t.OwnerID == user.UID)
}
