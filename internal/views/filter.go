package views

import (
	"sort"
	"strings"
	"time"

	"github.com/jask/pocketledger/internal/model"
)

// Apply runs the filter pipeline and sort stage over txs and returns a new
// slice. Stage order matches the narrowing sequence the rest of the app
// assumes: date range, free-text search, type, category, month.
func Apply(txs []model.Transaction, s State) []model.Transaction {
	out := make([]model.Transaction, 0, len(txs))
	for _, t := range txs {
		if !matchesDate(t, s.Date) {
			continue
		}
		if !matchesSearch(t, s.Search) {
			continue
		}
		if s.Type != "" && t.Type != s.Type {
			continue
		}
		if s.Category != "" && t.Category != s.Category {
			continue
		}
		if !matchesMonth(t, s.Month) {
			continue
		}
		out = append(out, t)
	}
	sortTransactions(out, s.Sort)
	return out
}

// day truncates to midnight in the timestamp's location.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func matchesDate(t model.Transaction, f DateFilter) bool {
	switch f.Kind {
	case DateOn:
		return day(t.Date).Equal(day(f.Start))
	case DateBefore:
		return day(t.Date).Before(day(f.Start))
	case DateAfter:
		return day(t.Date).After(day(f.Start))
	case DateRange:
		// end day extends to its last instant so the range is inclusive
		start := day(f.Start)
		end := day(f.End).AddDate(0, 0, 1)
		return !t.Date.Before(start) && t.Date.Before(end)
	default:
		return true
	}
}

func matchesSearch(t model.Transaction, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Title), term) {
		return true
	}
	return t.Description != "" && strings.Contains(strings.ToLower(t.Description), term)
}

func matchesMonth(t model.Transaction, month string) bool {
	if month == "" || month == "All" {
		return true
	}
	return monthLabel(t.Date) == month
}

func monthLabel(t time.Time) string {
	return t.Format("Jan 2006")
}

func sortTransactions(txs []model.Transaction, cfg SortConfig) {
	if cfg.Column == "" {
		return
	}
	dir := 1
	if !cfg.Ascending {
		dir = -1
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return compare(txs[i], txs[j], cfg.Column)*dir < 0
	})
}

func compare(a, b model.Transaction, column string) int {
	switch column {
	case "date":
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		}
		return 0
	case "amount":
		return a.Amount.Cmp(b.Amount)
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "type":
		return strings.Compare(string(a.Type), string(b.Type))
	case "category":
		return strings.Compare(a.Category, b.Category)
	default:
		return 0
	}
}

// Paginate returns the 1-indexed page slice of list. Pages outside the list
// come back empty rather than panicking.
func Paginate(list []model.Transaction, page, size int) []model.Transaction {
	if size <= 0 {
		size = model.DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(list) {
		return nil
	}
	end := start + size
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// TotalPages is ceil(count/size), clamped to at least one page so an empty
// result still renders page 1 of 1.
func TotalPages(count, size int) int {
	if size <= 0 {
		size = model.DefaultPageSize
	}
	pages := (count + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// MonthOptions derives the month dropdown values from the data: "All"
// followed by each distinct "Jan 2006" label in chronological order.
func MonthOptions(txs []model.Transaction) []string {
	seen := map[string]time.Time{}
	for _, t := range txs {
		label := monthLabel(t.Date)
		if _, ok := seen[label]; !ok {
			seen[label] = time.Date(t.Date.Year(), t.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return seen[labels[i]].Before(seen[labels[j]]) })
	return append([]string{"All"}, labels...)
}
