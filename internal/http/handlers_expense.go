package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"fincontrol/internal/core"
	"fincontrol/internal/services"
	"fincontrol/internal/store"
)

type expenseView struct {
	ID          string
	Description string
	Amount      string
	Category    string
	Date        string
}

type expenseListView struct {
	Expenses []expenseView
	Total    string
	Category string
	Period   string
}

type expensesPageView struct {
	List       expenseListView
	Categories []string
	Today      string
}

func newExpenseListView(items []core.Expense, category string, period core.Period) expenseListView {
	view := expenseListView{
		Total:    formatReais(core.TotalExpenses(items).Cents),
		Category: category,
		Period:   string(period),
	}
	for _, e := range items {
		view.Expenses = append(view.Expenses, expenseView{
			ID:          e.ID,
			Description: e.Description,
			Amount:      formatReais(e.Amount.Cents),
			Category:    e.Category,
			Date:        e.Date.ISO(),
		})
	}
	return view
}

// handleExpensesPage renders the expense listing with its filters and
// the creation form.
func (s *Server) handleExpensesPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	category, period := parseListFilters(r)
	expenses, err := s.ledger.Expenses(ctx, category, period)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list expenses", "error", err)
		http.Error(w, "erro ao carregar as despesas", http.StatusInternalServerError)
		return
	}
	categories, err := s.ledger.Categories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load categories", "error", err)
		http.Error(w, "erro ao carregar as categorias", http.StatusInternalServerError)
		return
	}

	s.renderPage(w, r, "despesas_page", expensesPageView{
		List:       newExpenseListView(expenses, category, period),
		Categories: categories,
		Today:      core.Today().ISO(),
	})
}

// handleExpenseList returns the list fragment, honoring the categoria
// and periodo query filters.
func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	category, period := parseListFilters(r)
	expenses, err := s.ledger.Expenses(ctx, category, period)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list expenses", "error", err)
		InternalServerError("Erro ao carregar as despesas").Write(w)
		return
	}

	s.renderPage(w, r, "despesas_list", newExpenseListView(expenses, category, period))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	in := services.ExpenseInput{
		Description: sanitizeInput(r.Form.Get("descricao")),
		Amount:      sanitizeInput(r.Form.Get("valor")),
		Category:    sanitizeInput(r.Form.Get("categoria")),
		Date:        sanitizeInput(r.Form.Get("data")),
	}

	exp, err := s.ledger.CreateExpense(r.Context(), in)
	if err != nil {
		s.writeLedgerError(w, r, err, "Failed to save expense")
		return
	}

	s.invalidateSummary()
	slog.InfoContext(r.Context(), "Expense created", "expense_id", exp.ID, "amount_cents", exp.Amount.Cents)

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerRecordChanged("despesas").
		TriggerFormReset().
		TriggerSuccessNotification("Despesa registrada").
		Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		BadRequestError("Identificador ausente").Write(w)
		return
	}

	if err := s.ledger.DeleteExpense(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete expense", "error", err, "expense_id", id)
		InternalServerError("Erro ao excluir a despesa").Write(w)
		return
	}

	s.invalidateSummary()
	NewHTMXResponse().
		TriggerRecordChanged("despesas").
		Write(w)
}

// writeLedgerError maps a service error onto an htmx fragment: user
// mistakes become a 422 with the Portuguese reason, everything else a
// logged 500.
func (s *Server) writeLedgerError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		UnprocessableEntityError(verr.Field + ": " + verr.Reason).Write(w)
		return
	}
	if errors.Is(err, store.ErrDebtNotFound) {
		NotFoundError("Dívida não encontrada").Write(w)
		return
	}
	slog.ErrorContext(r.Context(), logMsg, "error", err)
	InternalServerError("Erro interno. Tente novamente.").Write(w)
}
