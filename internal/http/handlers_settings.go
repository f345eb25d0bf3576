package http

import (
	"log/slog"
	"net/http"
)

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	name := sanitizeInput(r.Form.Get("nome"))
	if err := s.ledger.AddCategory(r.Context(), name); err != nil {
		s.writeLedgerError(w, r, err, "Failed to add category")
		return
	}

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerRecordChanged("categories").
		TriggerFormReset().
		Write(w)
}

// handleRemoveCategory drops the category. Expenses already filed under
// it keep their label.
func (s *Server) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		BadRequestError("Nome ausente").Write(w)
		return
	}

	if err := s.ledger.RemoveCategory(r.Context(), name); err != nil {
		slog.ErrorContext(r.Context(), "Failed to remove category", "error", err, "category", name)
		InternalServerError("Erro ao remover a categoria").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerRecordChanged("categories").
		Write(w)
}

func (s *Server) handleSetSalary(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	salary, err := s.ledger.SetSalary(r.Context(), sanitizeInput(r.Form.Get("valor")))
	if err != nil {
		s.writeLedgerError(w, r, err, "Failed to set salary")
		return
	}

	s.invalidateSummary()
	slog.InfoContext(r.Context(), "Salary updated", "amount_cents", salary.Amount.Cents)

	NewHTMXResponse().
		TriggerRecordChanged("salario").
		TriggerSuccessNotification("Salário atualizado").
		Write(w)
}
