package service

import (
	"github.com/jask/pocketledger/internal/model"
	"github.com/jask/pocketledger/internal/views"
)

// Snapshot bundles everything the presentation layer renders from one
// consistent read of the dataset. It is recomputed from scratch on every
// call; the view functions are pure, so this is the dependency-tracked
// cache with the tracking removed.
type Snapshot struct {
	User         model.User
	State        views.State
	Transactions []model.Transaction // full set, newest first
	Filtered     []model.Transaction // filter pipeline + sort applied
	Page         []model.Transaction // current page of Filtered
	TotalPages   int
	Totals       views.Totals
	Monthly      []views.MonthPoint
	Breakdown    []views.CategoryValue
	Budgets      model.BudgetValues
	Overspend    []string
	MonthOptions []string
	Err          error
}

// Snapshot computes the full derived view of the current dataset.
func (s *DatasetService) Snapshot() Snapshot {
	s.mu.Lock()
	user := s.user
	state := s.state
	txs := append([]model.Transaction(nil), s.transactions...)
	budgets := model.BudgetValues{}
	for cat, v := range s.budgets {
		budgets[cat] = v
	}
	err := s.lastErr
	s.mu.Unlock()

	filtered := views.Apply(txs, state)
	return Snapshot{
		User:         user,
		State:        state,
		Transactions: txs,
		Filtered:     filtered,
		Page:         views.Paginate(filtered, state.Page, state.PageSize),
		TotalPages:   views.TotalPages(len(filtered), state.PageSize),
		Totals:       views.CalcTotals(txs),
		Monthly:      views.MonthlySeries(txs, views.DefaultSeriesMonths),
		Breakdown:    views.CategoryBreakdown(txs),
		Budgets:      budgets,
		Overspend:    views.Overspend(filtered, budgets),
		MonthOptions: views.MonthOptions(txs),
		Err:          err,
	}
}
