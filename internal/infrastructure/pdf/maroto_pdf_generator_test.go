package pdf_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	"github.com/jhoicas/wms-ingresos/internal/infrastructure/pdf"
)

func TestMarotoPDFGenerator_Generate(t *testing.T) {
	esperada := decimal.NewFromInt(12)
	vence := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)
	nota := &entity.NotaIngreso{
		ID:              "7f1c1f3e-0000-4000-8000-000000000001",
		NroDocumento:    "NI-000001",
		AlmacenID:       "W1",
		Origen:          "Planta 1",
		Tipo:            entity.TipoProduccion,
		Estado:          entity.EstadoValidado,
		UsuarioCreacion: "op1",
		CreatedAt:       time.Date(2026, 10, 1, 8, 30, 0, 0, time.UTC),
		Detalles: []entity.DetalleIngreso{
			{Linea: 1, ProductoID: "SKU-1", Cantidad: decimal.NewFromInt(10), CantidadEsperada: &esperada, Lote: "L1", FechaVencimiento: &vence},
			{Linea: 2, ProductoID: "SKU-2", Cantidad: decimal.RequireFromString("2.5")},
		},
	}

	b, err := pdf.NewMarotoPDFGenerator().Generate(nota)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
}

func TestMarotoPDFGenerator_SinLineas(t *testing.T) {
	b, err := pdf.NewMarotoPDFGenerator().Generate(&entity.NotaIngreso{ID: "x", NroDocumento: "NI-X"})
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}
