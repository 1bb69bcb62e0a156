package intake_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ingresos/internal/domain"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	"github.com/jhoicas/wms-ingresos/internal/domain/intake"
)

func linea(cantidad string) intake.DetalleInput {
	return intake.DetalleInput{ProductoID: "SKU-1", Cantidad: decimal.RequireFromString(cantidad)}
}

func campos(fe intake.FieldErrors) []string {
	out := make([]string, 0, len(fe))
	for _, f := range fe {
		out = append(out, f.Field)
	}
	return out
}

// Frontera de cantidad: 0.009 falla, 0.01 pasa.
func TestValidateDetalle_FronteraCantidad(t *testing.T) {
	fe := intake.ValidateDetalle(linea("0.009"), "")
	require.Len(t, fe, 1)
	assert.Equal(t, "cantidad", fe[0].Field)

	assert.Empty(t, intake.ValidateDetalle(linea("0.01"), ""))
	assert.Len(t, intake.ValidateDetalle(linea("0"), ""), 1)
	assert.Len(t, intake.ValidateDetalle(linea("-5"), ""), 1)
}

func TestValidateDetalle_CamposOpcionales(t *testing.T) {
	in := linea("3")
	in.FechaVencimiento = "2026-13-01"
	in.Lote = strings.Repeat("L", intake.MaxFieldLength+1)
	neg := decimal.NewFromInt(-1)
	in.CantidadEsperada = &neg
	in.ProductCodes = &entity.ProductCodes{Barcode: strings.Repeat("7", intake.MaxFieldLength+1)}

	fe := intake.ValidateDetalle(in, "detalles[2].")
	assert.ElementsMatch(t, []string{
		"detalles[2].fechaVencimiento",
		"detalles[2].lote",
		"detalles[2].cantidadEsperada",
		"detalles[2].productCodes.barcode",
	}, campos(fe))
}

func TestValidateDetalle_ProductoRequerido(t *testing.T) {
	fe := intake.ValidateDetalle(intake.DetalleInput{Cantidad: decimal.NewFromInt(1)}, "")
	assert.Equal(t, []string{"productoId"}, campos(fe))
}

func TestValidateNota_SinLineas(t *testing.T) {
	err := intake.ValidateNota(intake.NotaInput{AlmacenID: "W1"}).Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "detalles", ve.Fields[0].Field)
}

func TestValidateNota_Valida(t *testing.T) {
	in := intake.NotaInput{
		AlmacenID: "W1",
		Tipo:      entity.TipoTraslado,
		Detalles:  []intake.DetalleInput{linea("10")},
	}
	assert.NoError(t, intake.ValidateNota(in).Err())
}

func TestValidateNota_TipoYAlmacen(t *testing.T) {
	in := intake.NotaInput{
		Tipo:     entity.TipoIngreso("donacion"),
		Detalles: []intake.DetalleInput{linea("1"), linea("0.001")},
	}
	assert.ElementsMatch(t, []string{"almacenId", "tipo", "detalles[1].cantidad"}, campos(intake.ValidateNota(in)))
}

// La longitud se mide en caracteres NFC: "é" descompuesto cuenta como uno.
func TestFieldLength_NormalizaNFC(t *testing.T) {
	descompuesto := "e\u0301"
	assert.Equal(t, 1, intake.FieldLength(descompuesto))

	justo := strings.Repeat(descompuesto, intake.MaxFieldLength)
	var fe intake.FieldErrors
	fe.CheckLength("origen", justo)
	assert.Empty(t, fe)

	fe.CheckLength("origen", justo+"x")
	assert.Len(t, fe, 1)
}

func TestBuildDetalle(t *testing.T) {
	esperada := decimal.NewFromInt(12)
	in := linea("10")
	in.CantidadEsperada = &esperada
	in.FechaVencimiento = "2027-01-31"

	d := intake.BuildDetalle(in, 1)
	assert.Equal(t, 1, d.Linea)
	require.NotNil(t, d.FechaVencimiento)
	assert.Equal(t, "2027-01-31", d.FechaVencimiento.Format(intake.DateLayout))

	disc, ok := d.Discrepancia()
	require.True(t, ok)
	assert.True(t, disc.Equal(decimal.NewFromInt(-2)), "10 escaneadas − 12 esperadas = −2")

	// La entidad no comparte punteros con la entrada.
	esperada = decimal.NewFromInt(99)
	assert.True(t, d.CantidadEsperada.Equal(decimal.NewFromInt(12)))
}

// Las cantidades se guardan con 4 decimales: más precisión se rechaza, no se redondea.
func TestValidateDetalle_EscalaYMagnitudCantidad(t *testing.T) {
	assert.Empty(t, intake.ValidateDetalle(linea("1.2345"), ""))
	assert.Empty(t, intake.ValidateDetalle(linea("1.50000"), ""), "ceros finales no cambian el valor")
	assert.Equal(t, []string{"cantidad"}, campos(intake.ValidateDetalle(linea("1.23456"), "")))

	assert.Empty(t, intake.ValidateDetalle(linea("99999999999999.9999"), ""))
	assert.Equal(t, []string{"cantidad"}, campos(intake.ValidateDetalle(linea("100000000000000"), "")))

	in := linea("3")
	esperada := decimal.RequireFromString("2.00001")
	in.CantidadEsperada = &esperada
	assert.Equal(t, []string{"detalles[0].cantidadEsperada"}, campos(intake.ValidateDetalle(in, "detalles[0].")))
}

func TestValidateNotaMax_LimitePropio(t *testing.T) {
	in := intake.NotaInput{
		AlmacenID: "W1",
		Origen:    strings.Repeat("o", 50),
		Detalles:  []intake.DetalleInput{{ProductoID: "SKU-1", Cantidad: decimal.NewFromInt(1), Serie: strings.Repeat("s", 11)}},
	}
	assert.Empty(t, intake.ValidateNota(in))
	assert.ElementsMatch(t, []string{"origen", "detalles[0].serie"}, campos(intake.ValidateNotaMax(in, 10)))
}
