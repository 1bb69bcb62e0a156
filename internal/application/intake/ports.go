// Package intake coordina el ciclo de vida de las notas de ingreso en el lado cliente:
// una caché local (Store) reflejo del backend y el orquestador, único componente que
// solicita cambios de estado.
package intake

import (
	"context"

	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	domintake "github.com/jhoicas/wms-ingresos/internal/domain/intake"
)

// Gateway acceso remoto al backend de notas de ingreso.
type Gateway interface {
	ListDocuments(ctx context.Context) ([]entity.NotaIngreso, error)
	CreateDocument(ctx context.Context, in domintake.NotaInput) (*entity.NotaIngreso, error)
	UpdateStatus(ctx context.Context, id string, target entity.Estado, usuario string) error
}

// TransitionObserver recibe el resultado de cada solicitud de transición (métricas).
type TransitionObserver interface {
	ObserveTransition(from, to, outcome string)
}
