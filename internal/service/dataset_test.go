package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/pocketledger/internal/model"
	"github.com/jask/pocketledger/internal/views"
)

func newTestService(t *testing.T) (*DatasetService, *fakeRemote) {
	t.Helper()
	local := newGuestStore(t)
	remote := newFakeRemote()
	r := NewReconciler(local, remote, testLogger())
	svc := NewDatasetService(local, remote, r, testLogger())
	svc.Load(context.Background())
	return svc, remote
}

func signIn(t *testing.T, svc *DatasetService, uid string) {
	t.Helper()
	svc.HandleAuthChange(context.Background(), &model.User{UID: uid, Email: uid + "@test.local", DisplayName: "Tester"})
}

func TestGuestAddUpdateDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	added, err := svc.AddTransaction(ctx, TxInput{
		Title:    "  Coffee ",
		Amount:   "4.5",
		Type:     model.TypeExpense,
		Category: "Food",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(added.ID, "local_"))
	require.Equal(t, model.OriginLocal, added.Origin)
	require.Equal(t, "Coffee", added.Title, "title is trimmed")
	require.False(t, added.Date.IsZero(), "empty date defaults to now")

	require.NoError(t, svc.UpdateTransaction(ctx, added.ID, TxInput{
		Title:    "Flat white",
		Amount:   "5.00",
		Type:     model.TypeExpense,
		Category: "Food",
	}))
	txs := svc.Transactions()
	require.Len(t, txs, 1)
	require.Equal(t, "Flat white", txs[0].Title)
	require.Equal(t, "5.00", txs[0].Amount.StringFixed(2))

	// survives a reload from local storage
	svc.Load(ctx)
	require.Len(t, svc.Transactions(), 1)

	require.NoError(t, svc.DeleteTransaction(ctx, added.ID))
	require.Empty(t, svc.Transactions())
	require.NoError(t, svc.DeleteTransaction(ctx, added.ID), "deleting an absent id is a no-op")
}

func TestAddValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.AddTransaction(ctx, TxInput{Title: "x", Amount: "0", Type: model.TypeExpense, Category: "Food"})
	require.ErrorIs(t, err, model.ErrInvalidAmount)

	_, err = svc.AddTransaction(ctx, TxInput{Title: " ", Amount: "5", Type: model.TypeExpense, Category: "Food"})
	require.ErrorIs(t, err, model.ErrEmptyTitle)

	_, err = svc.AddTransaction(ctx, TxInput{Title: "x", Amount: "5", Type: "transfer", Category: "Food"})
	require.ErrorIs(t, err, model.ErrInvalidType)

	require.Empty(t, svc.Transactions(), "nothing persists on validation failure")
}

func TestAddResetsPage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)
	svc.UpdateState(func(s *views.State) { s.Page = 3 })

	_, err := svc.AddTransaction(ctx, TxInput{Title: "Coffee", Amount: "4.5", Type: model.TypeExpense, Category: "Food"})
	require.NoError(t, err)
	require.Equal(t, 1, svc.State().Page)
}

func TestSignInMergesAndSwitchesDataset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, remote := newTestService(t)

	_, err := svc.AddTransaction(ctx, TxInput{Title: "Coffee", Amount: "4.5", Type: model.TypeExpense, Category: "Food"})
	require.NoError(t, err)

	remote.seedRemote("owner-a", model.Transaction{
		Title: "Salary", Amount: decimal.NewFromInt(3000), Type: model.TypeIncome,
		Category: "Salary", Date: time.Now().UTC(),
	})

	signIn(t, svc, "owner-a")

	require.False(t, svc.User().Guest)
	txs := svc.Transactions()
	require.Len(t, txs, 2, "remote dataset plus the migrated guest record")
	for _, tx := range txs {
		require.Equal(t, model.OriginRemote, tx.Origin)
	}
	require.NoError(t, svc.LastError())
}

func TestAuthenticatedMutationsHitRemote(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, remote := newTestService(t)
	signIn(t, svc, "owner-a")

	added, err := svc.AddTransaction(ctx, TxInput{Title: "Cinema", Amount: "18", Type: model.TypeExpense, Category: "Entertainment"})
	require.NoError(t, err)
	require.Equal(t, model.OriginRemote, added.Origin)
	require.False(t, strings.HasPrefix(added.ID, "local_"))

	remoteTxs, err := remote.Transactions(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, remoteTxs, 1)

	require.Len(t, svc.Transactions(), 1, "subscription reload and prepend do not double-insert")

	require.NoError(t, svc.DeleteTransaction(ctx, added.ID))
	remoteTxs, err = remote.Transactions(ctx, "owner-a")
	require.NoError(t, err)
	require.Empty(t, remoteTxs)
	require.Empty(t, svc.Transactions())
}

func TestModeMismatchIsNoOp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, remote := newTestService(t)
	signIn(t, svc, "owner-a")

	// a record that slipped in with the wrong origin tag is not ours to touch
	stray := model.Transaction{
		ID: "doc-stray", Title: "Stray", Amount: decimal.NewFromInt(5),
		Type: model.TypeExpense, Category: "Other", Date: time.Now().UTC(),
		OwnerID: "owner-a",
	}
	remote.mu.Lock()
	strayLocal := stray
	strayLocal.Origin = model.OriginLocal
	remote.txs["owner-a"] = []model.Transaction{strayLocal}
	remote.mu.Unlock()
	svc.Load(ctx)
	require.Len(t, svc.Transactions(), 1)

	require.NoError(t, svc.UpdateTransaction(ctx, "doc-stray", TxInput{
		Title: "Renamed", Amount: "9", Type: model.TypeExpense, Category: "Other",
	}))
	require.NoError(t, svc.DeleteTransaction(ctx, "doc-stray"))

	remoteTxs, err := remote.Transactions(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, remoteTxs, 1)
	require.Equal(t, "Stray", remoteTxs[0].Title, "mismatched records are left untouched")
}

func TestSignOutReturnsToGuestDataset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	signIn(t, svc, "owner-a")
	_, err := svc.AddTransaction(ctx, TxInput{Title: "Cinema", Amount: "18", Type: model.TypeExpense, Category: "Entertainment"})
	require.NoError(t, err)
	svc.UpdateState(func(s *views.State) { s.Month = "Mar 2026"; s.Search = "cin" })

	svc.HandleAuthChange(ctx, nil)

	require.True(t, svc.User().Guest)
	require.Empty(t, svc.Transactions(), "remote records do not leak into guest mode")
	require.Equal(t, views.NewState(), svc.State(), "view state resets on sign-out")

	// guest additions while signed out go to local storage
	added, err := svc.AddTransaction(ctx, TxInput{Title: "Coffee", Amount: "4.5", Type: model.TypeExpense, Category: "Food"})
	require.NoError(t, err)
	require.Equal(t, model.OriginLocal, added.Origin)
}

func TestSignOutThenSignInMergesAgain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	signIn(t, svc, "owner-a")
	svc.HandleAuthChange(ctx, nil)

	_, err := svc.AddTransaction(ctx, TxInput{Title: "Groceries", Amount: "80", Type: model.TypeExpense, Category: "Food"})
	require.NoError(t, err)

	signIn(t, svc, "owner-a")
	txs := svc.Transactions()
	require.Len(t, txs, 1)
	require.Equal(t, "Groceries", txs[0].Title, "data added while signed out merges on the next sign-in")
	require.Equal(t, model.OriginRemote, txs[0].Origin)
}

func TestMergeFailureSurfacesOnSignIn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	local := newGuestStore(t)
	remote := newFakeRemote()
	svc := NewDatasetService(local, remote, NewReconciler(local, remote, testLogger()), testLogger())
	svc.Load(ctx)

	_, err := svc.AddTransaction(ctx, TxInput{Title: "Coffee", Amount: "4.5", Type: model.TypeExpense, Category: "Food"})
	require.NoError(t, err)

	remote.failCommit = true
	signIn(t, svc, "owner-a")

	require.Error(t, svc.LastError(), "the merge failure survives the post-merge reload")
	require.Error(t, svc.Snapshot().Err, "the failure is visible to the presentation layer")
	require.False(t, svc.User().Guest, "the session is still authenticated")
	require.Empty(t, svc.Transactions(), "the remote dataset still loaded")
	require.Len(t, local.GuestTransactions(), 1, "guest data is retained for the retry")

	// the next reload of healthy remote data clears the notice
	svc.Load(ctx)
	require.NoError(t, svc.LastError())
}

func TestStaleLoadResponsesAreDiscarded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	local := newGuestStore(t)
	remote := &gatedRemote{fakeRemote: newFakeRemote()}
	svc := NewDatasetService(local, remote, NewReconciler(local, remote, testLogger()), testLogger())
	svc.Load(ctx)
	signIn(t, svc, "owner-a")

	remote.seedRemote("owner-a", model.Transaction{
		Title: "Old", Amount: decimal.NewFromInt(10), Type: model.TypeExpense,
		Category: "Other", Date: time.Now().UTC(),
	})

	entered, release := remote.holdNextList()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		svc.Load(ctx)
	}()
	<-entered // the first load has read a one-record result and stalled

	remote.seedRemote("owner-a", model.Transaction{
		Title: "New", Amount: decimal.NewFromInt(20), Type: model.TypeExpense,
		Category: "Other", Date: time.Now().UTC(),
	})
	svc.Load(ctx)
	require.Len(t, svc.Transactions(), 2)

	release()
	wg.Wait()

	txs := svc.Transactions()
	require.Len(t, txs, 2, "the superseded response does not overwrite the newer load")
	require.Equal(t, "New", txs[0].Title)
}

func TestGuestSaveFailureLeavesMemoryConsistent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	local := &flakyGuestStore{Store: newGuestStore(t)}
	remote := newFakeRemote()
	svc := NewDatasetService(local, remote, NewReconciler(local, remote, testLogger()), testLogger())
	svc.Load(ctx)

	added, err := svc.AddTransaction(ctx, TxInput{Title: "Coffee", Amount: "4.5", Type: model.TypeExpense, Category: "Food"})
	require.NoError(t, err)

	local.failSaves = true

	_, err = svc.AddTransaction(ctx, TxInput{Title: "Groceries", Amount: "80", Type: model.TypeExpense, Category: "Food"})
	require.Error(t, err)
	require.Len(t, svc.Transactions(), 1, "a record that failed to persist does not linger in memory")

	err = svc.UpdateTransaction(ctx, added.ID, TxInput{Title: "Renamed", Amount: "9", Type: model.TypeExpense, Category: "Food"})
	require.Error(t, err)
	require.Equal(t, "Coffee", svc.Transactions()[0].Title, "a failed update leaves the record as stored")

	require.Error(t, svc.DeleteTransaction(ctx, added.ID))
	require.Len(t, svc.Transactions(), 1, "a failed delete keeps the record")

	local.failSaves = false
	require.NoError(t, svc.DeleteTransaction(ctx, added.ID))
	require.Empty(t, svc.Transactions())
	require.Empty(t, local.GuestTransactions())
}

func TestRemoteLoadFailureKeepsLastKnownData(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, remote := newTestService(t)
	signIn(t, svc, "owner-a")

	_, err := svc.AddTransaction(ctx, TxInput{Title: "Cinema", Amount: "18", Type: model.TypeExpense, Category: "Entertainment"})
	require.NoError(t, err)
	require.Len(t, svc.Transactions(), 1)

	remote.mu.Lock()
	remote.failList = true
	remote.mu.Unlock()
	svc.Load(ctx)

	require.Len(t, svc.Transactions(), 1, "stale data beats no data")
	require.Error(t, svc.LastError())

	remote.mu.Lock()
	remote.failList = false
	remote.mu.Unlock()
	svc.Load(ctx)
	require.NoError(t, svc.LastError(), "a successful reload clears the error")
}

func TestSetBudget(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, remote := newTestService(t)

	require.ErrorIs(t, svc.SetBudget(ctx, "Gambling", "100"), model.ErrUnknownCategory)

	require.NoError(t, svc.SetBudget(ctx, "Food", "250"))
	require.True(t, svc.Budgets()["Food"].Equal(decimal.NewFromInt(250)))

	require.NoError(t, svc.SetBudget(ctx, "Food", "not a number"))
	require.True(t, svc.Budgets()["Food"].IsZero(), "invalid input unsets rather than errors")

	require.NoError(t, svc.SetBudget(ctx, "Rent", "900"))
	signIn(t, svc, "owner-a")
	require.True(t, svc.Budgets()["Rent"].Equal(decimal.NewFromInt(900)), "guest budgets migrate on sign-in")

	require.NoError(t, svc.SetBudget(ctx, "Food", "300"))
	doc, err := remote.Budget(ctx, "owner-a")
	require.NoError(t, err)
	require.NotNil(t, doc)
	require.True(t, doc.Values["Food"].Equal(decimal.NewFromInt(300)))
	require.True(t, doc.Values["Rent"].Equal(decimal.NewFromInt(900)), "existing categories survive a single-category set")
}

func TestSnapshotDerivesViews(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	for i := 0; i < 23; i++ {
		_, err := svc.AddTransaction(ctx, TxInput{
			Title:    "Item",
			Amount:   "10",
			Type:     model.TypeExpense,
			Category: "Other",
			Date:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}
	_, err := svc.AddTransaction(ctx, TxInput{
		Title: "Salary", Amount: "3000", Type: model.TypeIncome, Category: "Salary",
		Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	snap := svc.Snapshot()
	require.Len(t, snap.Transactions, 24)
	require.Len(t, snap.Filtered, 24)
	require.Equal(t, 3, snap.TotalPages)
	require.Len(t, snap.Page, 10)
	require.Equal(t, "3000.00", snap.Totals.Income.StringFixed(2))
	require.Equal(t, "230.00", snap.Totals.Expense.StringFixed(2))
	require.Contains(t, snap.MonthOptions, "Mar 2026")

	svc.UpdateState(func(s *views.State) { s.Type = model.TypeIncome })
	snap = svc.Snapshot()
	require.Len(t, snap.Filtered, 1)
	require.Equal(t, 1, snap.TotalPages)
}
