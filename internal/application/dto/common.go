package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-ingresos/internal/domain"
)

func init() {
	// El contrato REST expresa cantidades como número JSON, no como string.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []FieldErrorPayload `json:"fields,omitempty"`
}

// FieldErrorPayload error de un campo concreto.
type FieldErrorPayload struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FromFieldErrors convierte errores de validación de dominio al formato de respuesta.
func FromFieldErrors(fields []domain.FieldError) []FieldErrorPayload {
	out := make([]FieldErrorPayload, 0, len(fields))
	for _, f := range fields {
		out = append(out, FieldErrorPayload{Field: f.Field, Message: f.Message})
	}
	return out
}
