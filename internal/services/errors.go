package services

import "fmt"

// Validation failure reasons, rendered verbatim in form feedback.
const (
	ReasonRequired        = "campo obrigatório"
	ReasonInvalidAmount   = "valor inválido"
	ReasonInvalidDate     = "data inválida"
	ReasonInvalidKind     = "tipo inválido"
	ReasonExceedsBalance  = "valor excede o saldo devedor"
	ReasonDuplicate       = "categoria já existe"
	ReasonUnknownCategory = "categoria desconhecida"
)

// ValidationError reports exactly one rejected form field. Handlers
// branch on it to re-render the form instead of failing the request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
