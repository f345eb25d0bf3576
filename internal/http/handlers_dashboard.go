package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"fincontrol/internal/core"
)

type summaryView struct {
	TotalExpenses string
	TotalInvested string
	TotalYields   string
	DebtBalance   string
	Salary        string
	Available     string
	Negative      bool
	TopCategories []categoryView
}

type categoryView struct {
	Name   string
	Amount string
}

type dashboardView struct {
	Email      string
	Summary    summaryView
	Categories []string
	Today      string
}

func newSummaryView(s core.Summary) summaryView {
	view := summaryView{
		TotalExpenses: formatReais(s.TotalExpenses.Cents),
		TotalInvested: formatReais(s.TotalInvested.Cents),
		TotalYields:   formatReais(s.TotalYields.Cents),
		DebtBalance:   formatReais(s.DebtBalance.Cents),
		Salary:        formatReais(s.Salary.Cents),
		Available:     formatReais(s.Available.Cents),
		Negative:      s.Available.Cents < 0,
	}
	for _, c := range s.TopCategories {
		view.TopCategories = append(view.TopCategories, categoryView{
			Name:   c.Name,
			Amount: formatReais(c.Amount.Cents),
		})
	}
	return view
}

// handleDashboard renders the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	summary, err := s.summary(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load summary", "error", err)
		http.Error(w, "erro ao carregar o resumo", http.StatusInternalServerError)
		return
	}
	categories, err := s.ledger.Categories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load categories", "error", err)
		http.Error(w, "erro ao carregar as categorias", http.StatusInternalServerError)
		return
	}

	data := dashboardView{
		Summary:    newSummaryView(summary),
		Categories: categories,
		Today:      core.Today().ISO(),
	}
	if user, ok := userFromContext(r.Context()); ok {
		data.Email = user.Email
	}

	s.renderPage(w, r, "dashboard_page", data)
}

// handleSummaryFragment returns the summary cards partial for htmx
// refreshes after any record change.
func (s *Server) handleSummaryFragment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	summary, err := s.summary(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load summary", "error", err)
		InternalServerError("Erro ao carregar o resumo").Write(w)
		return
	}

	s.renderPage(w, r, "resumo", newSummaryView(summary))
}
