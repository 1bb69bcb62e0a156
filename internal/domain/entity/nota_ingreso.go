package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/wms-ingresos/internal/domain"
)

// Estado estado del ciclo de vida de una nota de ingreso.
type Estado string

// Estados de la nota de ingreso.
const (
	EstadoPaletizado Estado = "paletizado" // inicial: mercadería paletizada, pendiente de validar
	EstadoValidado   Estado = "validado"   // cantidades escaneadas/esperadas validadas
	EstadoAlmacenado Estado = "almacenado" // terminal: ubicada en almacén
	EstadoAnulado    Estado = "anulado"    // terminal: cancelada
)

// Estados devuelve los cuatro estados en orden canónico.
func Estados() []Estado {
	return []Estado{EstadoPaletizado, EstadoValidado, EstadoAlmacenado, EstadoAnulado}
}

// Valid indica si e es uno de los estados definidos.
func (e Estado) Valid() bool {
	switch e {
	case EstadoPaletizado, EstadoValidado, EstadoAlmacenado, EstadoAnulado:
		return true
	}
	return false
}

// ParseEstado convierte texto en Estado; rechaza valores desconocidos.
func ParseEstado(s string) (Estado, error) {
	e := Estado(s)
	if !e.Valid() {
		return "", fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, s)
	}
	return e, nil
}

// Terminal indica si el estado no admite más transiciones.
func (e Estado) Terminal() bool {
	return e == EstadoAlmacenado || e == EstadoAnulado
}

// Tipos de ingreso.
type TipoIngreso string

const (
	TipoProduccion TipoIngreso = "produccion"
	TipoTraslado   TipoIngreso = "traslado"
	TipoReingreso  TipoIngreso = "reingreso"
	TipoAnulacion  TipoIngreso = "anulacion"
)

// Valid indica si t es un tipo de ingreso definido.
func (t TipoIngreso) Valid() bool {
	switch t {
	case TipoProduccion, TipoTraslado, TipoReingreso, TipoAnulacion:
		return true
	}
	return false
}

// NotaIngreso representa un evento de recepción en almacén con sus líneas de detalle.
// Las líneas se conservan en orden de inserción (Linea 1..n).
type NotaIngreso struct {
	ID                    string
	NroDocumento          string
	Origen                string
	AlmacenID             string
	Tipo                  TipoIngreso
	Estado                Estado
	UsuarioCreacion       string
	UsuarioValidacion     string
	UsuarioAlmacenamiento string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	Detalles              []DetalleIngreso
}

// Clone devuelve una copia profunda (detalles y punteros incluidos).
func (n NotaIngreso) Clone() NotaIngreso {
	out := n
	if n.Detalles != nil {
		out.Detalles = make([]DetalleIngreso, len(n.Detalles))
		for i, d := range n.Detalles {
			out.Detalles[i] = d.Clone()
		}
	}
	return out
}
