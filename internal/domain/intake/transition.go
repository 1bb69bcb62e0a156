// Package intake contiene la lógica pura del ciclo de vida de la nota de ingreso:
// política de transiciones de estado y validación de esquema de entradas.
// Nada en este paquete hace I/O.
package intake

import (
	"github.com/jhoicas/wms-ingresos/internal/domain"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
)

// transiciones grafo de estados permitido. Los estados terminales no tienen salida.
//
//	paletizado ──► validado ──► almacenado
//	     │             │
//	     └──► anulado ◄┘
var transiciones = map[entity.Estado][]entity.Estado{
	entity.EstadoPaletizado: {entity.EstadoValidado, entity.EstadoAnulado},
	entity.EstadoValidado:   {entity.EstadoAlmacenado, entity.EstadoAnulado},
}

// CanTransition indica si el par (current, target) es una transición legal.
func CanTransition(current, target entity.Estado) bool {
	for _, t := range transiciones[current] {
		if t == target {
			return true
		}
	}
	return false
}

// ValidateTransition devuelve *domain.IllegalTransitionError si el par no es legal.
// No se permite saltar estados: paletizado → almacenado debe pasar por validado.
func ValidateTransition(current, target entity.Estado) error {
	if !CanTransition(current, target) {
		return &domain.IllegalTransitionError{From: string(current), To: string(target)}
	}
	return nil
}

// Transitions lista los destinos legales desde current (vacío si es terminal o desconocido).
func Transitions(current entity.Estado) []entity.Estado {
	out := make([]entity.Estado, len(transiciones[current]))
	copy(out, transiciones[current])
	return out
}
