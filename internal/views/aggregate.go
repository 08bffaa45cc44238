package views

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jask/pocketledger/internal/model"
)

// Totals is the unfiltered income/expense split.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// CalcTotals sums the full transaction set by type. Balance is always
// income minus expense, all at two decimals.
func CalcTotals(txs []model.Transaction) Totals {
	income := decimal.Zero
	expense := decimal.Zero
	for _, t := range txs {
		if t.Type == model.TypeIncome {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}
	income = income.Round(2)
	expense = expense.Round(2)
	return Totals{Income: income, Expense: expense, Balance: income.Sub(expense).Round(2)}
}

// MonthPoint is one bar-chart group: a calendar month's income and expense.
type MonthPoint struct {
	Key     string // "2006-01", keeps cross-year months distinct
	Label   string // "Jan 2006"
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// DefaultSeriesMonths limits the bar chart to the most recent groups.
const DefaultSeriesMonths = 6

// MonthlySeries groups transactions by calendar month and returns the most
// recent limit groups in chronological ascending order for charting.
func MonthlySeries(txs []model.Transaction, limit int) []MonthPoint {
	if limit <= 0 {
		limit = DefaultSeriesMonths
	}
	groups := map[string]*MonthPoint{}
	for _, t := range txs {
		key := t.Date.Format("2006-01")
		p, ok := groups[key]
		if !ok {
			p = &MonthPoint{Key: key, Label: monthLabel(t.Date), Income: decimal.Zero, Expense: decimal.Zero}
			groups[key] = p
		}
		if t.Type == model.TypeIncome {
			p.Income = p.Income.Add(t.Amount)
		} else {
			p.Expense = p.Expense.Add(t.Amount)
		}
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > limit {
		keys = keys[len(keys)-limit:]
	}
	out := make([]MonthPoint, 0, len(keys))
	for _, k := range keys {
		p := groups[k]
		p.Income = p.Income.Round(2)
		p.Expense = p.Expense.Round(2)
		out = append(out, *p)
	}
	return out
}

// CategoryValue is one pie-chart slice.
type CategoryValue struct {
	Name  string
	Value decimal.Decimal
}

// CategoryBreakdown sums expense amounts per category, dropping categories
// with no spend and ordering by value descending (name ascending on ties,
// so output is deterministic).
func CategoryBreakdown(txs []model.Transaction) []CategoryValue {
	sums := map[string]decimal.Decimal{}
	for _, t := range txs {
		if t.Type != model.TypeExpense {
			continue
		}
		sums[t.Category] = sums[t.Category].Add(t.Amount)
	}
	out := make([]CategoryValue, 0, len(sums))
	for name, v := range sums {
		if v.IsZero() {
			continue
		}
		out = append(out, CategoryValue{Name: name, Value: v.Round(2)})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Value.Cmp(out[j].Value); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Overspend returns the categories whose expense total in txs exceeds a
// nonzero budget, in fixed category order.
func Overspend(txs []model.Transaction, budgets model.BudgetValues) []string {
	spent := map[string]decimal.Decimal{}
	for _, t := range txs {
		if t.Type == model.TypeExpense {
			spent[t.Category] = spent[t.Category].Add(t.Amount)
		}
	}
	var out []string
	for _, cat := range model.Categories {
		budget, ok := budgets[cat]
		if !ok || !budget.IsPositive() {
			continue
		}
		if spent[cat].GreaterThan(budget) {
			out = append(out, cat)
		}
	}
	return out
}

// CategorySpend reports one category's expense total, for budget progress
// rendering.
func CategorySpend(txs []model.Transaction, category string) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Type == model.TypeExpense && t.Category == category {
			total = total.Add(t.Amount)
		}
	}
	return total.Round(2)
}
