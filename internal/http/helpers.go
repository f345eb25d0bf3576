package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"fincontrol/internal/core"
)

// formatReais formats cents as a Brazilian currency string (e.g., "R$ 12,34").
func formatReais(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	reais := cents / 100
	rem := cents % 100
	s := strconv.FormatInt(reais, 10) + "," + fmt.Sprintf("%02d", rem)
	if neg {
		return "-R$ " + s
	}
	return "R$ " + s
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// parseListFilters extracts the optional category and period filters from
// query parameters. An unknown period is ignored rather than rejected.
func parseListFilters(r *http.Request) (category string, period core.Period) {
	category = strings.TrimSpace(r.URL.Query().Get("categoria"))
	if v := core.Period(strings.TrimSpace(r.URL.Query().Get("periodo"))); v.Valid() {
		period = v
	}
	return category, period
}
