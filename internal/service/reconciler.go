package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jask/pocketledger/internal/model"
)

// Reconciler migrates the guest dataset into a newly authenticated
// identity's remote dataset, once per identity per process. Duplicates are
// detected by content signature, never by id: guest and remote records do
// not share an id space.
type Reconciler struct {
	local  GuestStore
	remote RemoteStore
	log    *logrus.Logger

	mu        sync.Mutex
	attempted map[string]struct{}
}

func NewReconciler(local GuestStore, remote RemoteStore, log *logrus.Logger) *Reconciler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Reconciler{
		local:     local,
		remote:    remote,
		log:       log,
		attempted: map[string]struct{}{},
	}
}

// MergeGuestData runs the one-time merge for ownerID. The attempted marker
// is set before the batch commit starts, so a re-entrant provider callback
// cannot start a second merge for the same identity. On failure the marker
// is cleared and guest storage is left intact, making the next sign-in
// retry safe; signature dedup makes the retry idempotent.
func (r *Reconciler) MergeGuestData(ctx context.Context, ownerID string) error {
	r.mu.Lock()
	if _, ok := r.attempted[ownerID]; ok {
		r.mu.Unlock()
		return nil
	}
	r.attempted[ownerID] = struct{}{}
	r.mu.Unlock()

	guestTxs := r.local.GuestTransactions()
	guestBudgets := nonZeroBudgets(r.local.GuestBudgets())
	if len(guestTxs) == 0 && len(guestBudgets) == 0 {
		return nil
	}

	if err := r.merge(ctx, ownerID, guestTxs, guestBudgets); err != nil {
		r.mu.Lock()
		delete(r.attempted, ownerID)
		r.mu.Unlock()
		r.log.WithError(err).WithField("owner", ownerID).Error("guest data merge failed")
		return fmt.Errorf("merge guest data: %w", err)
	}

	if err := r.local.ClearGuestData(); err != nil {
		// remote commit landed; the next attempt is still duplicate-safe
		r.mu.Lock()
		delete(r.attempted, ownerID)
		r.mu.Unlock()
		return fmt.Errorf("clear guest data: %w", err)
	}
	r.log.WithField("owner", ownerID).Info("guest data merged")
	return nil
}

func (r *Reconciler) merge(ctx context.Context, ownerID string, guestTxs []model.Transaction, guestBudgets model.BudgetValues) error {
	existing, err := r.remote.Transactions(ctx, ownerID)
	if err != nil {
		return err
	}
	sigs := model.SignatureSet(existing)

	var batch model.Batch
	now := time.Now().UTC()
	for _, t := range guestTxs {
		if t.Date.IsZero() {
			t.Date = now
		}
		if _, dup := sigs[model.Signature(t)]; dup {
			r.log.WithField("title", t.Title).Debug("skipping duplicate guest transaction")
			continue
		}
		t.ID = "" // remote store assigns
		t.Origin = model.OriginRemote
		t.OwnerID = ownerID
		batch.InsertTransactions = append(batch.InsertTransactions, t)
	}

	if len(guestBudgets) > 0 {
		doc, err := r.remote.Budget(ctx, ownerID)
		if err != nil {
			return err
		}
		if doc == nil {
			batch.PutBudget = &model.BudgetDoc{OwnerID: ownerID, Values: guestBudgets}
		} else {
			merged := model.BudgetValues{}
			for cat, v := range doc.Values {
				merged[cat] = v
			}
			// guest values win only when actually set
			for cat, v := range guestBudgets {
				if v.IsPositive() {
					merged[cat] = v
				}
			}
			batch.PutBudget = &model.BudgetDoc{ID: doc.ID, OwnerID: ownerID, Values: merged}
		}
	}

	if batch.Empty() {
		return nil
	}
	return r.remote.Commit(ctx, batch)
}

// Reset forgets all merge attempts. Called on sign-out so a later sign-in
// to the same identity can merge data added while signed out.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempted = map[string]struct{}{}
}

func nonZeroBudgets(values model.BudgetValues) model.BudgetValues {
	out := model.BudgetValues{}
	for cat, v := range values {
		if v.IsPositive() {
			out[cat] = v
		}
	}
	return out
}
