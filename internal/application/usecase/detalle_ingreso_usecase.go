package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/wms-ingresos/internal/application/dto"
	"github.com/jhoicas/wms-ingresos/internal/domain"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	"github.com/jhoicas/wms-ingresos/internal/domain/intake"
	"github.com/jhoicas/wms-ingresos/internal/domain/repository"
)

// DetalleIngresoUseCase CRUD de líneas. Solo las notas en paletizado admiten cambios en sus líneas.
type DetalleIngresoUseCase struct {
	repo repository.DetalleIngresoRepository
	tx   TxRunner
}

// NewDetalleIngresoUseCase construye el caso de uso.
func NewDetalleIngresoUseCase(repo repository.DetalleIngresoRepository, tx TxRunner) *DetalleIngresoUseCase {
	return &DetalleIngresoUseCase{repo: repo, tx: tx}
}

// Create agrega una línea al final de la nota.
func (uc *DetalleIngresoUseCase) Create(ctx context.Context, in dto.CreateDetalleIngresoRequest) (*dto.DetalleIngresoResponse, error) {
	fe := intake.ValidateDetalle(in.DetallePayload.ToInput(), "")
	if in.NotaIngresoID == "" {
		fe = append(fe, domain.FieldError{Field: "notaIngresoId", Message: "es requerido"})
	}
	fe.CheckLength("notaIngresoId", in.NotaIngresoID)
	if err := fe.Err(); err != nil {
		return nil, err
	}

	var created entity.DetalleIngreso
	err := uc.tx.Run(ctx, func(notas repository.NotaIngresoRepository, detalles repository.DetalleIngresoRepository) error {
		if err := lockEditable(ctx, notas, in.NotaIngresoID); err != nil {
			return err
		}
		linea, err := detalles.NextLinea(ctx, in.NotaIngresoID)
		if err != nil {
			return err
		}
		created = intake.BuildDetalle(in.DetallePayload.ToInput(), linea)
		created.ID = uuid.New().String()
		created.NotaIngresoID = in.NotaIngresoID
		return detalles.Create(ctx, &created)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToDetalleIngresoResponse(&created)
	return &out, nil
}

// GetByID obtiene una línea.
func (uc *DetalleIngresoUseCase) GetByID(ctx context.Context, id string) (*dto.DetalleIngresoResponse, error) {
	d, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToDetalleIngresoResponse(d)
	return &out, nil
}

// List lista líneas; notaIngresoID vacío = todas.
func (uc *DetalleIngresoUseCase) List(ctx context.Context, notaIngresoID string) ([]dto.DetalleIngresoResponse, error) {
	var fe intake.FieldErrors
	fe.CheckLength("notaIngresoId", notaIngresoID)
	if err := fe.Err(); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, notaIngresoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DetalleIngresoResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.ToDetalleIngresoResponse(d))
	}
	return out, nil
}

// Update aplica una actualización parcial y revalida la línea completa.
func (uc *DetalleIngresoUseCase) Update(ctx context.Context, id string, in dto.UpdateDetalleIngresoRequest) (*dto.DetalleIngresoResponse, error) {
	current, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := in.ApplyTo(*current)
	if err := intake.ValidateDetalle(merged, "").Err(); err != nil {
		return nil, err
	}

	var updated entity.DetalleIngreso
	err = uc.tx.Run(ctx, func(notas repository.NotaIngresoRepository, detalles repository.DetalleIngresoRepository) error {
		if err := lockEditable(ctx, notas, current.NotaIngresoID); err != nil {
			return err
		}
		updated = intake.BuildDetalle(merged, current.Linea)
		updated.ID = current.ID
		updated.NotaIngresoID = current.NotaIngresoID
		return detalles.Update(ctx, &updated)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToDetalleIngresoResponse(&updated)
	return &out, nil
}

// Delete elimina una línea. La nota nunca queda sin líneas.
func (uc *DetalleIngresoUseCase) Delete(ctx context.Context, id string) error {
	current, err := uc.find(ctx, id)
	if err != nil {
		return err
	}
	return uc.tx.Run(ctx, func(notas repository.NotaIngresoRepository, detalles repository.DetalleIngresoRepository) error {
		if err := lockEditable(ctx, notas, current.NotaIngresoID); err != nil {
			return err
		}
		n, err := detalles.CountByNota(ctx, current.NotaIngresoID)
		if err != nil {
			return err
		}
		if n <= 1 {
			return fmt.Errorf("%w: la nota %s debe conservar al menos una línea", domain.ErrConflict, current.NotaIngresoID)
		}
		return detalles.Delete(ctx, id)
	})
}

func (uc *DetalleIngresoUseCase) find(ctx context.Context, id string) (*entity.DetalleIngreso, error) {
	var fe intake.FieldErrors
	fe.CheckLength("id", id)
	if err := fe.Err(); err != nil {
		return nil, err
	}
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, &domain.NotFoundError{Resource: "detalle_ingreso", ID: id}
	}
	return d, nil
}

// lockEditable bloquea la cabecera y exige que siga en paletizado.
func lockEditable(ctx context.Context, notas repository.NotaIngresoRepository, notaID string) error {
	nota, err := notas.GetForUpdate(ctx, notaID)
	if err != nil {
		return err
	}
	if nota == nil {
		return &domain.NotFoundError{Resource: "nota_ingreso", ID: notaID}
	}
	if nota.Estado != entity.EstadoPaletizado {
		return fmt.Errorf("%w: nota %s en estado %s", domain.ErrDocumentLocked, notaID, nota.Estado)
	}
	return nil
}
