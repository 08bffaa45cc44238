package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/pocketledger/internal/model"
	"github.com/jask/pocketledger/internal/views"
)

var (
	stmtTitleStyle   = lipgloss.NewStyle().Bold(true)
	stmtHeaderStyle  = lipgloss.NewStyle().Underline(true)
	stmtIncomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	stmtExpenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// RenderStatement produces the rich statement: one row per transaction
// with income rows in green and expense rows in red, followed by the
// income/expense/balance summary for the listed rows.
func RenderStatement(txs []model.Transaction, currency string) string {
	var b strings.Builder
	b.WriteString(stmtTitleStyle.Render("Transaction Statement"))
	b.WriteString("\n")
	b.WriteString(stmtHeaderStyle.Render(fmt.Sprintf("%-4s %-12s %-28s %-8s %-16s %12s", "S.No", "Date", "Title", "Type", "Category", "Amount")))
	b.WriteString("\n")
	for i, t := range txs {
		line := fmt.Sprintf("%-4d %-12s %-28s %-8s %-16s %12s",
			i+1,
			t.Date.Format("2006-01-02"),
			clip(t.Title, 28),
			t.Type,
			t.Category,
			currency+t.Amount.Round(2).StringFixed(2),
		)
		if t.Type == model.TypeIncome {
			line = stmtIncomeStyle.Render(line)
		} else {
			line = stmtExpenseStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	totals := views.CalcTotals(txs)
	b.WriteString(fmt.Sprintf("\nIncome: %s%s  Expense: %s%s  Balance: %s%s\n",
		currency, totals.Income.StringFixed(2),
		currency, totals.Expense.StringFixed(2),
		currency, totals.Balance.StringFixed(2),
	))
	return b.String()
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
