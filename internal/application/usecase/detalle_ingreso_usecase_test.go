package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ingresos/internal/application/dto"
	"github.com/jhoicas/wms-ingresos/internal/application/usecase"
	"github.com/jhoicas/wms-ingresos/internal/domain"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
)

type detalleFixture struct {
	notas    *usecase.NotaIngresoUseCase
	detalles *usecase.DetalleIngresoUseCase
	nota     *dto.NotaIngresoResponse
}

func newDetalleFixture(t *testing.T) detalleFixture {
	t.Helper()
	notas, mem := newNotaUC()
	nota, err := notas.Create(context.Background(), crearReq("W1", "10"))
	require.NoError(t, err)
	return detalleFixture{
		notas:    notas,
		detalles: usecase.NewDetalleIngresoUseCase(mem.Detalles(), mem),
		nota:     nota,
	}
}

func TestDetalleIngresoUseCase_CreateYList(t *testing.T) {
	f := newDetalleFixture(t)
	ctx := context.Background()
	esperada := decimal.NewFromInt(4)

	out, err := f.detalles.Create(ctx, dto.CreateDetalleIngresoRequest{
		NotaIngresoID: f.nota.ID,
		DetallePayload: dto.DetallePayload{
			ProductoID:       "P-Z",
			Cantidad:         decimal.RequireFromString("3.5"),
			CantidadEsperada: &esperada,
			FechaVencimiento: "2027-06-30",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Linea)
	require.NotNil(t, out.Discrepancia)
	assert.True(t, out.Discrepancia.Equal(decimal.RequireFromString("-0.5")))
	assert.Equal(t, "2027-06-30", out.FechaVencimiento)

	list, err := f.detalles.List(ctx, f.nota.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "P-Z", list[1].ProductoID)
}

func TestDetalleIngresoUseCase_Create_Validacion(t *testing.T) {
	f := newDetalleFixture(t)

	_, err := f.detalles.Create(context.Background(), dto.CreateDetalleIngresoRequest{
		NotaIngresoID:  f.nota.ID,
		DetallePayload: dto.DetallePayload{ProductoID: "P", Cantidad: decimal.RequireFromString("0.009")},
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "cantidad", ve.Fields[0].Field)

	// Más de 4 decimales se rechaza en vez de redondearse al guardar.
	_, err = f.detalles.Create(context.Background(), dto.CreateDetalleIngresoRequest{
		NotaIngresoID:  f.nota.ID,
		DetallePayload: dto.DetallePayload{ProductoID: "P", Cantidad: decimal.RequireFromString("2.12345")},
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "cantidad", ve.Fields[0].Field)

	_, err = f.detalles.Create(context.Background(), dto.CreateDetalleIngresoRequest{
		NotaIngresoID:  "no-existe",
		DetallePayload: dto.DetallePayload{ProductoID: "P", Cantidad: decimal.NewFromInt(1)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDetalleIngresoUseCase_Update(t *testing.T) {
	f := newDetalleFixture(t)
	ctx := context.Background()
	lineaID := f.nota.Detalles[0].ID

	lote := "L-77"
	out, err := f.detalles.Update(ctx, lineaID, dto.UpdateDetalleIngresoRequest{Lote: &lote})
	require.NoError(t, err)
	assert.Equal(t, "L-77", out.Lote)
	assert.True(t, out.Cantidad.Equal(decimal.NewFromInt(10)), "los campos ausentes se conservan")
	assert.Equal(t, 1, out.Linea)

	cero := decimal.Zero
	_, err = f.detalles.Update(ctx, lineaID, dto.UpdateDetalleIngresoRequest{Cantidad: &cero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDetalleIngresoUseCase_NotaBloqueada(t *testing.T) {
	f := newDetalleFixture(t)
	ctx := context.Background()
	lineaID := f.nota.Detalles[0].ID

	_, err := f.notas.Update(ctx, f.nota.ID, dto.UpdateNotaIngresoRequest{Estado: estado(entity.EstadoValidado)})
	require.NoError(t, err)

	lote := "L-1"
	_, err = f.detalles.Update(ctx, lineaID, dto.UpdateDetalleIngresoRequest{Lote: &lote})
	assert.ErrorIs(t, err, domain.ErrDocumentLocked)

	_, err = f.detalles.Create(ctx, dto.CreateDetalleIngresoRequest{
		NotaIngresoID:  f.nota.ID,
		DetallePayload: dto.DetallePayload{ProductoID: "P", Cantidad: decimal.NewFromInt(1)},
	})
	assert.ErrorIs(t, err, domain.ErrDocumentLocked)

	// Lectura sigue permitida.
	got, err := f.detalles.GetByID(ctx, lineaID)
	require.NoError(t, err)
	assert.Equal(t, lineaID, got.ID)
}

func TestDetalleIngresoUseCase_Delete(t *testing.T) {
	f := newDetalleFixture(t)
	ctx := context.Background()
	primera := f.nota.Detalles[0].ID

	// La única línea no se puede borrar.
	err := f.detalles.Delete(ctx, primera)
	assert.ErrorIs(t, err, domain.ErrConflict)

	segunda, err := f.detalles.Create(ctx, dto.CreateDetalleIngresoRequest{
		NotaIngresoID:  f.nota.ID,
		DetallePayload: dto.DetallePayload{ProductoID: "P", Cantidad: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)

	require.NoError(t, f.detalles.Delete(ctx, primera))
	_, err = f.detalles.GetByID(ctx, primera)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	nota, err := f.notas.GetByID(ctx, f.nota.ID)
	require.NoError(t, err)
	require.Len(t, nota.Detalles, 1)
	assert.Equal(t, segunda.ID, nota.Detalles[0].ID)
}
