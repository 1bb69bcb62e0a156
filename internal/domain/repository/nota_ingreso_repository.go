package repository

import (
	"context"

	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
)

// NotaIngresoRepository define el puerto de persistencia para notas de ingreso.
// GetByID y GetForUpdate devuelven (nil, nil) cuando la nota no existe.
type NotaIngresoRepository interface {
	// Create persiste la cabecera y sus líneas (en el orden recibido).
	Create(ctx context.Context, nota *entity.NotaIngreso) error
	GetByID(ctx context.Context, id string) (*entity.NotaIngreso, error)
	// GetForUpdate bloquea la fila de la cabecera (SELECT ... FOR UPDATE). Requiere transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.NotaIngreso, error)
	// List devuelve las notas con sus líneas; almacenID vacío = todas.
	List(ctx context.Context, almacenID string) ([]*entity.NotaIngreso, error)
	// Update actualiza campos de cabecera (estado, origen, usuarios, updated_at).
	Update(ctx context.Context, nota *entity.NotaIngreso) error
	// NextNroDocumento reserva el siguiente número correlativo de documento.
	NextNroDocumento(ctx context.Context) (string, error)
}

// DetalleIngresoRepository define el puerto de persistencia para líneas de ingreso.
type DetalleIngresoRepository interface {
	Create(ctx context.Context, detalle *entity.DetalleIngreso) error
	GetByID(ctx context.Context, id string) (*entity.DetalleIngreso, error)
	// List devuelve líneas; notaIngresoID vacío = todas.
	List(ctx context.Context, notaIngresoID string) ([]*entity.DetalleIngreso, error)
	Update(ctx context.Context, detalle *entity.DetalleIngreso) error
	Delete(ctx context.Context, id string) error
	CountByNota(ctx context.Context, notaIngresoID string) (int, error)
	NextLinea(ctx context.Context, notaIngresoID string) (int, error)
}
