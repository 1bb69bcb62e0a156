package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/wms-ingresos/internal/application/dto"
	"github.com/jhoicas/wms-ingresos/internal/domain"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	"github.com/jhoicas/wms-ingresos/internal/domain/intake"
	"github.com/jhoicas/wms-ingresos/internal/domain/repository"
)

// NotaIngresoUseCase casos de uso del backend para notas de ingreso.
// El backend es el árbitro final de las transiciones: las valida bajo bloqueo de fila.
type NotaIngresoUseCase struct {
	repo repository.NotaIngresoRepository
	tx   TxRunner
	now  func() time.Time
}

// NewNotaIngresoUseCase construye el caso de uso.
func NewNotaIngresoUseCase(repo repository.NotaIngresoRepository, tx TxRunner) *NotaIngresoUseCase {
	return &NotaIngresoUseCase{repo: repo, tx: tx, now: time.Now}
}

// Create valida y persiste una nota con todas sus líneas en una sola transacción.
// Sin nroDocumento se asigna el siguiente correlativo.
func (uc *NotaIngresoUseCase) Create(ctx context.Context, in dto.CreateNotaIngresoRequest) (*dto.NotaIngresoResponse, error) {
	input := in.ToInput()
	if input.Tipo == "" {
		input.Tipo = entity.TipoProduccion
	}
	if err := intake.ValidateNota(input).Err(); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	nota := &entity.NotaIngreso{
		ID:              uuid.New().String(),
		NroDocumento:    input.NroDocumento,
		Origen:          input.Origen,
		AlmacenID:       input.AlmacenID,
		Tipo:            input.Tipo,
		Estado:          entity.EstadoPaletizado,
		UsuarioCreacion: input.Usuario,
		CreatedAt:       now,
		UpdatedAt:       now,
		Detalles:        make([]entity.DetalleIngreso, 0, len(input.Detalles)),
	}
	for i, d := range input.Detalles {
		det := intake.BuildDetalle(d, i+1)
		det.ID = uuid.New().String()
		det.NotaIngresoID = nota.ID
		nota.Detalles = append(nota.Detalles, det)
	}

	err := uc.tx.Run(ctx, func(notas repository.NotaIngresoRepository, _ repository.DetalleIngresoRepository) error {
		if nota.NroDocumento == "" {
			nro, err := notas.NextNroDocumento(ctx)
			if err != nil {
				return err
			}
			nota.NroDocumento = nro
		}
		return notas.Create(ctx, nota)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: nroDocumento %q ya existe", domain.ErrDuplicate, nota.NroDocumento)
		}
		return nil, err
	}
	return dto.ToNotaIngresoResponse(nota)
}

// GetByID obtiene una nota con sus líneas.
func (uc *NotaIngresoUseCase) GetByID(ctx context.Context, id string) (*dto.NotaIngresoResponse, error) {
	nota, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToNotaIngresoResponse(nota)
}

// List lista todas las notas, opcionalmente filtradas por almacén.
func (uc *NotaIngresoUseCase) List(ctx context.Context, almacenID string) ([]dto.NotaIngresoResponse, error) {
	notas, err := uc.ListEntities(ctx, almacenID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotaIngresoResponse, 0, len(notas))
	for _, n := range notas {
		r, err := dto.ToNotaIngresoResponse(n)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// ListEntities igual que List pero devuelve entidades (para exportaciones).
func (uc *NotaIngresoUseCase) ListEntities(ctx context.Context, almacenID string) ([]*entity.NotaIngreso, error) {
	var fe intake.FieldErrors
	fe.CheckLength("almacenId", almacenID)
	if err := fe.Err(); err != nil {
		return nil, err
	}
	return uc.repo.List(ctx, almacenID)
}

// Update aplica una actualización parcial. El cambio de estado se decide dentro de la
// transacción, con la fila bloqueada, contra la política de transiciones.
func (uc *NotaIngresoUseCase) Update(ctx context.Context, id string, in dto.UpdateNotaIngresoRequest) (*dto.NotaIngresoResponse, error) {
	var fe intake.FieldErrors
	if in.Estado == nil && in.Origen == nil {
		fe = append(fe, domain.FieldError{Field: "estado", Message: "se requiere estado u origen"})
	}
	var target entity.Estado
	if in.Estado != nil {
		e, err := dto.EstadoFromWire(*in.Estado)
		if err != nil {
			return nil, err
		}
		target = e
	}
	fe.CheckLength("usuario", in.Usuario)
	if in.Origen != nil {
		fe.CheckLength("origen", *in.Origen)
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	var updated *entity.NotaIngreso
	err := uc.tx.Run(ctx, func(notas repository.NotaIngresoRepository, _ repository.DetalleIngresoRepository) error {
		nota, err := notas.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if nota == nil {
			return &domain.NotFoundError{Resource: "nota_ingreso", ID: id}
		}
		if in.Origen != nil {
			if nota.Estado != entity.EstadoPaletizado {
				return fmt.Errorf("%w: origen solo editable en %s", domain.ErrDocumentLocked, entity.EstadoPaletizado)
			}
			nota.Origen = *in.Origen
		}
		if in.Estado != nil {
			if err := intake.ValidateTransition(nota.Estado, target); err != nil {
				return err
			}
			nota.Estado = target
			switch target {
			case entity.EstadoValidado:
				nota.UsuarioValidacion = in.Usuario
			case entity.EstadoAlmacenado:
				nota.UsuarioAlmacenamiento = in.Usuario
			}
		}
		nota.UpdatedAt = uc.now().UTC()
		if err := notas.Update(ctx, nota); err != nil {
			return err
		}
		updated = nota
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.ToNotaIngresoResponse(updated)
}

func (uc *NotaIngresoUseCase) find(ctx context.Context, id string) (*entity.NotaIngreso, error) {
	var fe intake.FieldErrors
	fe.CheckLength("id", id)
	if err := fe.Err(); err != nil {
		return nil, err
	}
	nota, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if nota == nil {
		return nil, &domain.NotFoundError{Resource: "nota_ingreso", ID: id}
	}
	return nota, nil
}
