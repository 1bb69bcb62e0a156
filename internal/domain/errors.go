package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrIllegalTransition = errors.New("transición de estado no permitida")
	ErrDocumentLocked    = errors.New("la nota de ingreso ya no admite cambios en sus líneas")
	ErrTimeout           = errors.New("tiempo de espera agotado")
	ErrRemote            = errors.New("respuesta remota no exitosa")
	ErrInvalidResponse   = errors.New("respuesta remota fuera de contrato")
)

// FieldError describe un campo inválido.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError entrada mal formada detectada antes de cualquier I/O. No se reintenta.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError atajo para un único campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// IllegalTransitionError el par (From, To) no pertenece al grafo de estados.
// From y To se guardan como string para no acoplar domain a entity.
type IllegalTransitionError struct {
	From string
	To   string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: %s → %s", ErrIllegalTransition.Error(), e.From, e.To)
}

func (e *IllegalTransitionError) Is(target error) bool { return target == ErrIllegalTransition }

// ConflictError ya hay una transición en curso para el documento.
type ConflictError struct {
	DocumentID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: transición en curso para la nota %s", ErrConflict.Error(), e.DocumentID)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// NotFoundError el documento no está en la caché local; se recomienda recargar la lista completa.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrNotFound.Error(), e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// TimeoutError la llamada de red superó su plazo. Elegible para reintento manual.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTimeout.Error(), e.Op)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// RemoteError respuesta no-2xx del backend, con código y cuerpo.
type RemoteError struct {
	Op     string
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s HTTP %d: %s", ErrRemote.Error(), e.Op, e.Status, e.Body)
}

func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// ResponseError el backend respondió 2xx con un cuerpo que no respeta el contrato
// (JSON inválido, código de estado desconocido). Es un fallo remoto, no de la entrada.
type ResponseError struct {
	Op  string
	Err error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInvalidResponse.Error(), e.Op, e.Err)
}

func (e *ResponseError) Unwrap() error { return e.Err }

func (e *ResponseError) Is(target error) bool {
	return target == ErrInvalidResponse || target == ErrRemote
}
