// Package tui is the terminal front end. It is presentation glue only:
// every piece of data it renders comes out of a service.Snapshot and every
// mutation goes through the dataset service.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/pocketledger/internal/auth"
	"github.com/jask/pocketledger/internal/config"
	"github.com/jask/pocketledger/internal/export"
	"github.com/jask/pocketledger/internal/model"
	"github.com/jask/pocketledger/internal/service"
	"github.com/jask/pocketledger/internal/views"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selectStyle  = lipgloss.NewStyle().Reverse(true)
)

type appState string

const (
	viewDashboard    appState = "dashboard"
	viewTransactions appState = "transactions"
	viewBudgets      appState = "budgets"
)

type modalState string

const (
	modalNone          modalState = ""
	modalAddTx         modalState = "addTx"
	modalEditTx        modalState = "editTx"
	modalConfirmDelete modalState = "confirmDelete"
	modalLogin         modalState = "login"
	modalSignup        modalState = "signup"
	modalBudgetEdit    modalState = "budgetEdit"
)

const dateInputFormat = "2006-01-02"

// App ties the engine to the terminal.
type App struct {
	ctx      context.Context
	svc      *service.DatasetService
	provider auth.Provider
	cfg      config.Config

	snap  service.Snapshot
	state appState
	modal modalState

	cursor       int // row cursor within the current page
	budgetCursor int
	monthIdx     int
	typeIdx      int
	categoryIdx  int

	inputs   []textinput.Model
	focus    int
	formType model.TxType
	formCat  int

	searching bool
	search    textinput.Model

	editingID string
	deleteID  string

	dark   bool
	status string
	width  int
	height int
}

func New(ctx context.Context, cfg config.Config, svc *service.DatasetService, provider auth.Provider) *App {
	search := textinput.New()
	search.Placeholder = "search title or description"
	search.CharLimit = 64
	return &App{
		ctx:      ctx,
		svc:      svc,
		provider: provider,
		cfg:      cfg,
		state:    viewDashboard,
		formType: model.TypeExpense,
		search:   search,
		dark:     svc.DarkMode(),
	}
}

func (a *App) Init() tea.Cmd {
	a.refresh()
	return nil
}

func (a *App) refresh() {
	a.snap = a.svc.Snapshot()
	if a.cursor >= len(a.snap.Page) {
		a.cursor = max(0, len(a.snap.Page)-1)
	}
	if a.monthIdx >= len(a.snap.MonthOptions) {
		a.monthIdx = 0
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.updateModal(msg)
		}
		if a.searching {
			return a.updateSearch(msg)
		}
		return a.updateMain(msg)
	}
	return a, nil
}

func (a *App) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "d":
		a.state = viewDashboard
	case "t":
		a.state = viewTransactions
	case "b":
		a.state = viewBudgets
	case "D":
		a.dark = !a.dark
		if err := a.svc.SetDarkMode(a.dark); err != nil {
			a.status = err.Error()
		}
	case "L":
		if a.snap.User.Guest {
			a.openLogin()
		} else {
			a.signOut()
		}
	case "U":
		if a.snap.User.Guest {
			a.openSignup()
		}
	}

	switch a.state {
	case viewTransactions:
		a.updateTransactionKeys(msg)
	case viewBudgets:
		a.updateBudgetKeys(msg)
	}
	a.refresh()
	return a, nil
}

func (a *App) updateTransactionKeys(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.snap.Page)-1 {
			a.cursor++
		}
	case "n", "right":
		a.setPage(a.snap.State.Page + 1)
	case "p", "left":
		a.setPage(a.snap.State.Page - 1)
	case "a":
		a.openTxForm(modalAddTx, nil)
	case "e":
		if t, ok := a.selected(); ok {
			a.openTxForm(modalEditTx, &t)
		}
	case "x":
		if t, ok := a.selected(); ok {
			a.deleteID = t.ID
			a.modal = modalConfirmDelete
		}
	case "/":
		a.searching = true
		a.search.SetValue(a.snap.State.Search)
		a.search.Focus()
	case "m":
		a.cycleMonth()
	case "f":
		a.cycleType()
	case "c":
		a.cycleCategory()
	case "r":
		a.resetFilters()
	case "1", "2", "3", "4", "5":
		cols := []string{"date", "amount", "title", "type", "category"}
		col := cols[int(msg.String()[0]-'1')]
		a.svc.UpdateState(func(s *views.State) {
			s.ToggleSort(col)
			s.Page = 1
		})
	case "E":
		a.exportCSV(a.snap.Filtered, "all")
	case "O":
		a.exportCSV(a.snap.Page, "page")
	case "S":
		a.exportStatement(a.snap.Filtered, "all")
	case "P":
		a.exportStatement(a.snap.Page, "page")
	}
}

func (a *App) updateBudgetKeys(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		if a.budgetCursor > 0 {
			a.budgetCursor--
		}
	case "down", "j":
		if a.budgetCursor < len(model.Categories)-1 {
			a.budgetCursor++
		}
	case "enter":
		cat := model.Categories[a.budgetCursor]
		in := textinput.New()
		in.Placeholder = "monthly budget for " + cat
		current := a.snap.Budgets[cat]
		if current.IsPositive() {
			in.SetValue(current.StringFixed(2))
		}
		in.Focus()
		a.inputs = []textinput.Model{in}
		a.focus = 0
		a.modal = modalBudgetEdit
	}
}

func (a *App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		term := a.search.Value()
		a.svc.UpdateState(func(s *views.State) {
			s.Search = term
			s.Page = 1
		})
		a.searching = false
	case "esc":
		a.svc.UpdateState(func(s *views.State) {
			s.Search = ""
			s.Page = 1
		})
		a.searching = false
	default:
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		a.refresh()
		return a, cmd
	}
	a.refresh()
	return a, nil
}

func (a *App) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmDelete:
		switch msg.String() {
		case "y":
			if err := a.svc.DeleteTransaction(a.ctx, a.deleteID); err != nil {
				a.status = err.Error()
			} else {
				a.status = "transaction deleted"
			}
			a.deleteID = ""
			a.modal = modalNone
		case "n", "esc":
			a.deleteID = ""
			a.modal = modalNone
		}
		a.refresh()
		return a, nil
	case modalAddTx, modalEditTx:
		return a.updateTxForm(msg)
	case modalLogin, modalSignup:
		return a.updateAuthForm(msg)
	case modalBudgetEdit:
		switch msg.String() {
		case "enter":
			cat := model.Categories[a.budgetCursor]
			if err := a.svc.SetBudget(a.ctx, cat, a.inputs[0].Value()); err != nil {
				a.status = err.Error()
			} else {
				a.status = "budget saved"
			}
			a.modal = modalNone
		case "esc":
			a.modal = modalNone
		default:
			var cmd tea.Cmd
			a.inputs[0], cmd = a.inputs[0].Update(msg)
			return a, cmd
		}
		a.refresh()
		return a, nil
	}
	return a, nil
}

func (a *App) updateTxForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.modal = modalNone
		return a, nil
	case "tab":
		if a.formType == model.TypeExpense {
			a.formType = model.TypeIncome
		} else {
			a.formType = model.TypeExpense
		}
		return a, nil
	case "ctrl+n":
		a.formCat = (a.formCat + 1) % len(model.Categories)
		return a, nil
	case "up", "shift+tab":
		a.setFocus(a.focus - 1)
		return a, nil
	case "down":
		a.setFocus(a.focus + 1)
		return a, nil
	case "enter":
		if a.focus < len(a.inputs)-1 {
			a.setFocus(a.focus + 1)
			return a, nil
		}
		a.submitTxForm()
		a.refresh()
		return a, nil
	}
	var cmd tea.Cmd
	a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
	return a, cmd
}

func (a *App) submitTxForm() {
	in := service.TxInput{
		Title:       a.inputs[0].Value(),
		Amount:      a.inputs[1].Value(),
		Description: a.inputs[3].Value(),
		Type:        a.formType,
		Category:    model.Categories[a.formCat],
	}
	if raw := strings.TrimSpace(a.inputs[2].Value()); raw != "" {
		d, err := time.Parse(dateInputFormat, raw)
		if err != nil {
			a.status = "date must be YYYY-MM-DD"
			return
		}
		in.Date = d.UTC()
	}

	var err error
	if a.modal == modalEditTx {
		err = a.svc.UpdateTransaction(a.ctx, a.editingID, in)
	} else {
		_, err = a.svc.AddTransaction(a.ctx, in)
	}
	if err != nil {
		a.status = err.Error()
		return
	}
	a.status = "transaction saved"
	a.modal = modalNone
}

func (a *App) updateAuthForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.modal = modalNone
		return a, nil
	case "up", "shift+tab":
		a.setFocus(a.focus - 1)
		return a, nil
	case "down", "tab":
		a.setFocus(a.focus + 1)
		return a, nil
	case "enter":
		if a.focus < len(a.inputs)-1 {
			a.setFocus(a.focus + 1)
			return a, nil
		}
		a.submitAuthForm()
		a.refresh()
		return a, nil
	}
	var cmd tea.Cmd
	a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
	return a, cmd
}

func (a *App) submitAuthForm() {
	var err error
	if a.modal == modalSignup {
		_, err = a.provider.SignUp(a.ctx, a.inputs[0].Value(), a.inputs[1].Value(), a.inputs[2].Value())
	} else {
		_, err = a.provider.SignIn(a.ctx, a.inputs[0].Value(), a.inputs[1].Value())
	}
	if err != nil {
		a.status = err.Error()
		return
	}
	a.status = "signed in"
	a.modal = modalNone
	a.cursor = 0
}

func (a *App) signOut() {
	if err := a.provider.SignOut(a.ctx); err != nil {
		a.status = err.Error()
		return
	}
	a.status = "signed out"
	a.cursor = 0
	a.monthIdx = 0
	a.typeIdx = 0
	a.categoryIdx = 0
}

func (a *App) openTxForm(m modalState, t *model.Transaction) {
	fields := []struct{ placeholder, value string }{
		{"title", ""},
		{"amount", ""},
		{"date (YYYY-MM-DD, empty = today)", ""},
		{"description (optional)", ""},
	}
	a.formType = model.TypeExpense
	a.formCat = 1 // Food
	a.editingID = ""
	if t != nil {
		fields[0].value = t.Title
		fields[1].value = t.Amount.StringFixed(2)
		fields[2].value = t.Date.Format(dateInputFormat)
		fields[3].value = t.Description
		a.formType = t.Type
		for i, c := range model.Categories {
			if c == t.Category {
				a.formCat = i
			}
		}
		a.editingID = t.ID
	}
	a.inputs = a.inputs[:0]
	for _, f := range fields {
		in := textinput.New()
		in.Placeholder = f.placeholder
		in.SetValue(f.value)
		a.inputs = append(a.inputs, in)
	}
	a.setFocus(0)
	a.modal = m
}

func (a *App) openLogin() {
	email := textinput.New()
	email.Placeholder = "email"
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	a.inputs = []textinput.Model{email, password}
	a.setFocus(0)
	a.modal = modalLogin
}

func (a *App) openSignup() {
	name := textinput.New()
	name.Placeholder = "name"
	email := textinput.New()
	email.Placeholder = "email"
	password := textinput.New()
	password.Placeholder = "password (min 6 chars)"
	password.EchoMode = textinput.EchoPassword
	a.inputs = []textinput.Model{name, email, password}
	a.setFocus(0)
	a.modal = modalSignup
}

func (a *App) setFocus(i int) {
	if len(a.inputs) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(a.inputs) {
		i = len(a.inputs) - 1
	}
	for j := range a.inputs {
		a.inputs[j].Blur()
	}
	a.focus = i
	a.inputs[i].Focus()
}

func (a *App) selected() (model.Transaction, bool) {
	if a.cursor < 0 || a.cursor >= len(a.snap.Page) {
		return model.Transaction{}, false
	}
	return a.snap.Page[a.cursor], true
}

func (a *App) setPage(page int) {
	total := a.snap.TotalPages
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	a.svc.UpdateState(func(s *views.State) { s.Page = page })
	a.cursor = 0
}

func (a *App) cycleMonth() {
	opts := a.snap.MonthOptions
	if len(opts) == 0 {
		return
	}
	a.monthIdx = (a.monthIdx + 1) % len(opts)
	month := opts[a.monthIdx]
	a.svc.UpdateState(func(s *views.State) {
		s.Month = month
		s.Page = 1
	})
}

func (a *App) cycleType() {
	types := []model.TxType{"", model.TypeIncome, model.TypeExpense}
	a.typeIdx = (a.typeIdx + 1) % len(types)
	t := types[a.typeIdx]
	a.svc.UpdateState(func(s *views.State) {
		s.Type = t
		s.Page = 1
	})
}

func (a *App) cycleCategory() {
	opts := append([]string{""}, model.Categories...)
	a.categoryIdx = (a.categoryIdx + 1) % len(opts)
	cat := opts[a.categoryIdx]
	a.svc.UpdateState(func(s *views.State) {
		s.Category = cat
		s.Page = 1
	})
}

func (a *App) resetFilters() {
	a.monthIdx = 0
	a.typeIdx = 0
	a.categoryIdx = 0
	a.svc.UpdateState(func(s *views.State) {
		page := s.PageSize
		*s = views.NewState()
		s.PageSize = page
	})
}

func (a *App) exportCSV(rows []model.Transaction, scope string) {
	name := fmt.Sprintf("transactions-%s-%s.csv", scope, time.Now().Format("20060102-150405"))
	path := filepath.Join(a.cfg.UI.ExportDir, name)
	if err := export.WriteCSVFile(path, rows); err != nil {
		a.status = err.Error()
		return
	}
	a.status = "exported " + path
}

func (a *App) exportStatement(rows []model.Transaction, scope string) {
	name := fmt.Sprintf("statement-%s-%s.txt", scope, time.Now().Format("20060102-150405"))
	path := filepath.Join(a.cfg.UI.ExportDir, name)
	if err := os.WriteFile(path, []byte(export.RenderStatement(rows, a.cfg.UI.CurrencySymbol)), 0o644); err != nil {
		a.status = err.Error()
		return
	}
	a.status = "exported " + path
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")
	if a.modal != modalNone {
		b.WriteString(a.renderModal())
		return b.String()
	}
	switch a.state {
	case viewDashboard:
		b.WriteString(a.renderDashboard())
	case viewTransactions:
		b.WriteString(a.renderTransactions())
	case viewBudgets:
		b.WriteString(a.renderBudgets())
	}
	if a.snap.Err != nil {
		b.WriteString("\n" + warnStyle.Render("sync issue: "+a.snap.Err.Error()+" (showing last known data)"))
	}
	if a.status != "" {
		b.WriteString("\n" + faintStyle.Render(a.status))
	}
	return b.String()
}

func (a *App) renderHeader() string {
	who := "Guest (local only)"
	action := "[L] Sign in  [U] Sign up"
	if !a.snap.User.Guest {
		who = fmt.Sprintf("%s <%s>", a.snap.User.DisplayName, a.snap.User.Email)
		action = "[L] Sign out"
	}
	theme := "light"
	if a.dark {
		theme = "dark"
	}
	return titleStyle.Render("Pocketledger") + "  " +
		faintStyle.Render(who) + "\n" +
		faintStyle.Render(fmt.Sprintf("[d] Dashboard  [t] Transactions  [b] Budgets  %s  [D] Theme: %s  [q] Quit", action, theme))
}

func (a *App) renderDashboard() string {
	cur := a.cfg.UI.CurrencySymbol
	totals := a.snap.Totals
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Render(fmt.Sprintf("Income\n%s", incomeStyle.Render(cur+totals.Income.StringFixed(2)))),
		cardStyle.Render(fmt.Sprintf("Expense\n%s", expenseStyle.Render(cur+totals.Expense.StringFixed(2)))),
		cardStyle.Render(fmt.Sprintf("Balance\n%s%s", cur, totals.Balance.StringFixed(2))),
	)

	var chart strings.Builder
	chart.WriteString(titleStyle.Render("Last months") + "\n")
	maxV := 0.0
	for _, p := range a.snap.Monthly {
		if v, _ := p.Income.Float64(); v > maxV {
			maxV = v
		}
		if v, _ := p.Expense.Float64(); v > maxV {
			maxV = v
		}
	}
	if maxV <= 0 {
		maxV = 1
	}
	barWidth := 30
	for _, p := range a.snap.Monthly {
		in, _ := p.Income.Float64()
		ex, _ := p.Expense.Float64()
		chart.WriteString(fmt.Sprintf("%-9s %s\n          %s\n",
			p.Label,
			incomeStyle.Render(bar(in, maxV, barWidth)+" "+cur+p.Income.StringFixed(2)),
			expenseStyle.Render(bar(ex, maxV, barWidth)+" "+cur+p.Expense.StringFixed(2)),
		))
	}

	var cats strings.Builder
	cats.WriteString(titleStyle.Render("Spending by category") + "\n")
	if len(a.snap.Breakdown) == 0 {
		cats.WriteString(faintStyle.Render("(no expenses yet)") + "\n")
	}
	for _, cv := range a.snap.Breakdown {
		cats.WriteString(fmt.Sprintf("%-16s %s\n", cv.Name, cur+cv.Value.StringFixed(2)))
	}

	out := cards + "\n\n" + chart.String() + "\n" + cats.String()
	if len(a.snap.Overspend) > 0 {
		out += "\n" + warnStyle.Render("Over budget: "+strings.Join(a.snap.Overspend, ", "))
	}
	return out
}

func (a *App) renderTransactions() string {
	var b strings.Builder
	state := a.snap.State

	filters := fmt.Sprintf("month:%s  type:%s  category:%s", state.Month, orAll(string(state.Type)), orAll(state.Category))
	if state.Search != "" {
		filters += "  search:" + state.Search
	}
	if state.Sort.Column != "" {
		dir := "asc"
		if !state.Sort.Ascending {
			dir = "desc"
		}
		filters += fmt.Sprintf("  sort:%s(%s)", state.Sort.Column, dir)
	}
	b.WriteString(faintStyle.Render(filters) + "\n")

	if a.searching {
		b.WriteString("search: " + a.search.View() + "\n")
	}

	b.WriteString(fmt.Sprintf("%-12s %-28s %-8s %-16s %12s\n", "Date", "Title", "Type", "Category", "Amount"))
	cur := a.cfg.UI.CurrencySymbol
	for i, t := range a.snap.Page {
		amount := cur + t.Amount.StringFixed(2)
		line := fmt.Sprintf("%-12s %-28s %-8s %-16s %12s",
			t.Date.Format("2006-01-02"), clip(t.Title, 28), t.Type, t.Category, amount)
		if t.Type == model.TypeIncome {
			line = incomeStyle.Render(line)
		} else {
			line = expenseStyle.Render(line)
		}
		if i == a.cursor {
			line = selectStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if len(a.snap.Page) == 0 {
		b.WriteString(faintStyle.Render("(no transactions match)") + "\n")
	}
	b.WriteString(faintStyle.Render(fmt.Sprintf("page %d/%d  (%d matching)", state.Page, a.snap.TotalPages, len(a.snap.Filtered))) + "\n")
	b.WriteString(faintStyle.Render("[a] Add  [e] Edit  [x] Delete  [/] Search  [m] Month  [f] Type  [c] Category  [r] Reset  [1-5] Sort  [n/p] Page  [E/O] CSV all/page  [S/P] Statement all/page"))
	return b.String()
}

func (a *App) renderBudgets() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Monthly budgets") + "\n")
	cur := a.cfg.UI.CurrencySymbol
	for i, cat := range model.Categories {
		budget := a.snap.Budgets[cat]
		spent := views.CategorySpend(a.snap.Filtered, cat)
		status := ""
		if budget.IsPositive() && spent.GreaterThan(budget) {
			status = warnStyle.Render("  OVER")
		}
		budgetText := "-"
		if budget.IsPositive() {
			budgetText = cur + budget.StringFixed(2)
		}
		line := fmt.Sprintf("%-16s budget %10s   spent %10s%s", cat, budgetText, cur+spent.StringFixed(2), status)
		if i == a.budgetCursor {
			line = selectStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(faintStyle.Render("[enter] Edit budget  [d] Dashboard  [t] Transactions"))
	return b.String()
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirmDelete:
		return titleStyle.Render("Delete transaction?") + "\n[y] Yes  [n] No"
	case modalAddTx, modalEditTx:
		heading := "Add transaction"
		if a.modal == modalEditTx {
			heading = "Edit transaction"
		}
		var b strings.Builder
		b.WriteString(titleStyle.Render(heading) + "\n")
		labels := []string{"Title", "Amount", "Date", "Notes"}
		for i, in := range a.inputs {
			b.WriteString(fmt.Sprintf("%-7s %s\n", labels[i], in.View()))
		}
		b.WriteString(fmt.Sprintf("Type:   %s (tab to toggle)\n", a.formType))
		b.WriteString(fmt.Sprintf("Category: %s (ctrl+n to cycle)\n", model.Categories[a.formCat]))
		b.WriteString(faintStyle.Render("[enter] Next/Save  [esc] Cancel"))
		return b.String()
	case modalLogin, modalSignup:
		heading := "Sign in"
		if a.modal == modalSignup {
			heading = "Create account"
		}
		var b strings.Builder
		b.WriteString(titleStyle.Render(heading) + "\n")
		for _, in := range a.inputs {
			b.WriteString(in.View() + "\n")
		}
		b.WriteString(faintStyle.Render("[enter] Next/Submit  [esc] Cancel"))
		return b.String()
	case modalBudgetEdit:
		return titleStyle.Render("Set budget: "+model.Categories[a.budgetCursor]) + "\n" +
			a.inputs[0].View() + "\n" +
			faintStyle.Render("[enter] Save  [esc] Cancel")
	}
	return ""
}

func bar(v, maxV float64, width int) string {
	w := int(v / maxV * float64(width))
	if w < 1 && v > 0 {
		w = 1
	}
	return strings.Repeat("█", w)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
