package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"fincontrol/internal/core"
	"fincontrol/internal/services"
)

type investmentView struct {
	ID          string
	Description string
	Amount      string
	Yield       string
	Date        string
}

type transactionView struct {
	ID          string
	Kind        string
	Description string
	Amount      string
	Date        string
	Withdrawal  bool
}

type investmentsPageView struct {
	Investments   []investmentView
	Transactions  []transactionView
	TotalInvested string
	TotalYields   string
	Balance       string
	Today         string
}

// handleInvestmentsPage renders investments together with the deposit
// and withdrawal history and the running balance.
func (s *Server) handleInvestmentsPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	investments, err := s.ledger.Investments(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list investments", "error", err)
		http.Error(w, "erro ao carregar os investimentos", http.StatusInternalServerError)
		return
	}
	transactions, err := s.ledger.Transactions(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list transactions", "error", err)
		http.Error(w, "erro ao carregar as movimentações", http.StatusInternalServerError)
		return
	}

	data := investmentsPageView{
		TotalInvested: formatReais(core.TotalInvested(investments).Cents),
		TotalYields:   formatReais(core.TotalYields(investments).Cents),
		Balance:       formatReais(core.NetDeposits(transactions).Cents),
		Today:         core.Today().ISO(),
	}
	for _, inv := range investments {
		data.Investments = append(data.Investments, investmentView{
			ID:          inv.ID,
			Description: inv.Description,
			Amount:      formatReais(inv.Amount.Cents),
			Yield:       formatReais(inv.Yield.Cents),
			Date:        inv.Date.ISO(),
		})
	}
	for _, t := range transactions {
		data.Transactions = append(data.Transactions, transactionView{
			ID:          t.ID,
			Kind:        string(t.Kind),
			Description: t.Description,
			Amount:      formatReais(t.Amount.Cents),
			Date:        t.Date.ISO(),
			Withdrawal:  t.Kind == core.Withdrawal,
		})
	}

	s.renderPage(w, r, "investimentos_page", data)
}

func (s *Server) handleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	in := services.InvestmentInput{
		Description: sanitizeInput(r.Form.Get("descricao")),
		Amount:      sanitizeInput(r.Form.Get("valor")),
		Date:        sanitizeInput(r.Form.Get("data")),
	}

	inv, err := s.ledger.CreateInvestment(r.Context(), in)
	if err != nil {
		s.writeLedgerError(w, r, err, "Failed to save investment")
		return
	}

	s.invalidateSummary()
	slog.InfoContext(r.Context(), "Investment created",
		"investment_id", inv.ID,
		"amount_cents", inv.Amount.Cents,
		"yield_cents", inv.Yield.Cents)

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerRecordChanged("investimentos").
		TriggerFormReset().
		TriggerSuccessNotification("Investimento registrado").
		Write(w)
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		BadRequestError("Identificador ausente").Write(w)
		return
	}

	if err := s.ledger.DeleteInvestment(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete investment", "error", err, "investment_id", id)
		InternalServerError("Erro ao excluir o investimento").Write(w)
		return
	}

	s.invalidateSummary()
	NewHTMXResponse().
		TriggerRecordChanged("investimentos").
		Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	in := services.TransactionInput{
		Kind:        sanitizeInput(r.Form.Get("tipo")),
		Description: sanitizeInput(r.Form.Get("descricao")),
		Amount:      sanitizeInput(r.Form.Get("valor")),
		Date:        sanitizeInput(r.Form.Get("data")),
	}

	if _, err := s.ledger.CreateTransaction(r.Context(), in); err != nil {
		s.writeLedgerError(w, r, err, "Failed to save transaction")
		return
	}

	s.invalidateSummary()
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerRecordChanged("transacoes").
		TriggerFormReset().
		TriggerSuccessNotification("Movimentação registrada").
		Write(w)
}
