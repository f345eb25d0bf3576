package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"fincontrol/internal/core"
	"fincontrol/internal/services"
)

type debtView struct {
	ID          string
	Description string
	Total       string
	Paid        string
	Outstanding string
	Settled     bool
	CreatedAt   string
	DueDate     string
	Payments    []paymentView
}

type paymentView struct {
	ID     string
	Amount string
	Date   string
}

type debtsPageView struct {
	Debts       []debtView
	TotalDebt   string
	TotalPaid   string
	DebtBalance string
	Today       string
}

// handleDebtsPage renders debts with their payment history and
// outstanding balances.
func (s *Server) handleDebtsPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	debts, err := s.ledger.Debts(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list debts", "error", err)
		http.Error(w, "erro ao carregar as dívidas", http.StatusInternalServerError)
		return
	}

	data := debtsPageView{
		TotalDebt:   formatReais(core.TotalDebt(debts).Cents),
		TotalPaid:   formatReais(core.TotalPaid(debts).Cents),
		DebtBalance: formatReais(core.TotalDebt(debts).Cents - core.TotalPaid(debts).Cents),
		Today:       core.Today().ISO(),
	}
	for _, d := range debts {
		view := debtView{
			ID:          d.ID,
			Description: d.Description,
			Total:       formatReais(d.Total.Cents),
			Paid:        formatReais(d.Paid.Cents),
			Outstanding: formatReais(d.Outstanding().Cents),
			Settled:     d.Outstanding().Cents == 0,
			CreatedAt:   d.CreatedAt.ISO(),
			DueDate:     d.DueDate.ISO(),
		}
		payments, err := s.ledger.PaymentsByDebt(ctx, d.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to list payments", "error", err, "debt_id", d.ID)
			http.Error(w, "erro ao carregar os pagamentos", http.StatusInternalServerError)
			return
		}
		for _, p := range payments {
			view.Payments = append(view.Payments, paymentView{
				ID:     p.ID,
				Amount: formatReais(p.Amount.Cents),
				Date:   p.Date.ISO(),
			})
		}
		data.Debts = append(data.Debts, view)
	}

	s.renderPage(w, r, "dividas_page", data)
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	in := services.DebtInput{
		Description: sanitizeInput(r.Form.Get("descricao")),
		Total:       sanitizeInput(r.Form.Get("valorTotal")),
		DueDate:     sanitizeInput(r.Form.Get("dataVencimento")),
	}

	debt, err := s.ledger.CreateDebt(r.Context(), in)
	if err != nil {
		s.writeLedgerError(w, r, err, "Failed to save debt")
		return
	}

	s.invalidateSummary()
	slog.InfoContext(r.Context(), "Debt created", "debt_id", debt.ID, "total_cents", debt.Total.Cents)

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerRecordChanged("dividas").
		TriggerFormReset().
		TriggerSuccessNotification("Dívida registrada").
		Write(w)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		BadRequestError("Identificador ausente").Write(w)
		return
	}

	if err := s.ledger.DeleteDebt(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete debt", "error", err, "debt_id", id)
		InternalServerError("Erro ao excluir a dívida").Write(w)
		return
	}

	s.invalidateSummary()
	NewHTMXResponse().
		TriggerRecordChanged("dividas").
		Write(w)
}

// handleRegisterPayment records a payment against the debt in the URL.
// Payments above the outstanding balance come back as a 422 fragment.
func (s *Server) handleRegisterPayment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	in := services.PaymentInput{
		DebtID: r.PathValue("id"),
		Amount: sanitizeInput(r.Form.Get("valor")),
		Date:   sanitizeInput(r.Form.Get("data")),
	}

	payment, err := s.ledger.RegisterPayment(r.Context(), in)
	if err != nil {
		s.writeLedgerError(w, r, err, "Failed to register payment")
		return
	}

	s.invalidateSummary()
	slog.InfoContext(r.Context(), "Payment registered",
		"payment_id", payment.ID,
		"debt_id", payment.DebtID,
		"amount_cents", payment.Amount.Cents)

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerRecordChanged("pagamentos").
		TriggerFormReset().
		TriggerSuccessNotification("Pagamento registrado").
		Write(w)
}
