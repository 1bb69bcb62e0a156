package usecase

import (
	"context"

	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	"github.com/jhoicas/wms-ingresos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		notas repository.NotaIngresoRepository,
		detalles repository.DetalleIngresoRepository,
	) error) error
}

// NotaPDFGenerator genera el documento imprimible de una nota de ingreso.
type NotaPDFGenerator interface {
	Generate(nota *entity.NotaIngreso) ([]byte, error)
}

// NotaExporter exporta un conjunto de notas a hoja de cálculo.
type NotaExporter interface {
	Export(notas []*entity.NotaIngreso) ([]byte, error)
}
