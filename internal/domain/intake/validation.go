package intake

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/wms-ingresos/internal/domain"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
)

// MaxFieldLength longitud máxima (en caracteres) de cualquier campo de texto o valor de query.
const MaxFieldLength = 1000

// DateLayout formato de fecha de vencimiento (ISO, solo fecha).
const DateLayout = "2006-01-02"

// CantidadScale decimales que admite el almacenamiento de cantidades.
const CantidadScale = 4

var (
	// MinCantidad cantidad mínima aceptada por línea.
	MinCantidad = decimal.RequireFromString("0.01")
	// MaxCantidad cota exclusiva: 14 dígitos enteros, como la columna NUMERIC(18,4).
	MaxCantidad = decimal.New(1, 14)
)

// NotaInput datos para crear una nota de ingreso con sus líneas.
// NroDocumento es opcional: si viene vacío el backend asigna uno.
type NotaInput struct {
	AlmacenID    string
	NroDocumento string
	Origen       string
	Tipo         entity.TipoIngreso
	Usuario      string
	Detalles     []DetalleInput
}

// DetalleInput datos de una línea de producto.
type DetalleInput struct {
	ProductoID        string
	Cantidad          decimal.Decimal
	CantidadEsperada  *decimal.Decimal
	Lote              string
	FechaVencimiento  string // YYYY-MM-DD
	Serie             string
	ProductCodes      *entity.ProductCodes
	UbicacionSugerida string
}

// FieldErrors lista ordenada de errores de campo.
type FieldErrors []domain.FieldError

func (fe *FieldErrors) add(field, format string, args ...any) {
	*fe = append(*fe, domain.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err devuelve *domain.ValidationError si hay errores, nil si no.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: []domain.FieldError(fe)}
}

// FieldLength cuenta caracteres tras normalizar a NFC, para que una misma cadena
// compuesta o descompuesta mida lo mismo en cliente y servidor.
func FieldLength(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}

// CheckLength agrega un error si s supera MaxFieldLength. Nunca trunca.
func (fe *FieldErrors) CheckLength(field, s string) {
	fe.CheckLengthMax(field, s, MaxFieldLength)
}

// CheckLengthMax igual que CheckLength con un límite propio.
func (fe *FieldErrors) CheckLengthMax(field, s string, maxLen int) {
	if n := FieldLength(s); n > maxLen {
		fe.add(field, "máximo %d caracteres (recibido %d)", maxLen, n)
	}
}

func (fe *FieldErrors) checkCantidad(field string, d decimal.Decimal) {
	if !d.Equal(d.Truncate(CantidadScale)) {
		fe.add(field, "máximo %d decimales", CantidadScale)
	}
	if d.Abs().GreaterThanOrEqual(MaxCantidad) {
		fe.add(field, "debe ser menor que %s", MaxCantidad.String())
	}
}

// ValidateDetalle valida una línea. prefix califica los nombres de campo (ej. "detalles[0].").
func ValidateDetalle(in DetalleInput, prefix string) FieldErrors {
	return ValidateDetalleMax(in, prefix, MaxFieldLength)
}

// ValidateDetalleMax igual que ValidateDetalle con maxLen como longitud máxima de texto.
func ValidateDetalleMax(in DetalleInput, prefix string, maxLen int) FieldErrors {
	var fe FieldErrors
	if in.ProductoID == "" {
		fe.add(prefix+"productoId", "es requerido")
	}
	fe.CheckLengthMax(prefix+"productoId", in.ProductoID, maxLen)
	if in.Cantidad.LessThan(MinCantidad) {
		fe.add(prefix+"cantidad", "debe ser mayor o igual a %s", MinCantidad.String())
	}
	fe.checkCantidad(prefix+"cantidad", in.Cantidad)
	if in.CantidadEsperada != nil {
		if in.CantidadEsperada.IsNegative() {
			fe.add(prefix+"cantidadEsperada", "no puede ser negativa")
		}
		fe.checkCantidad(prefix+"cantidadEsperada", *in.CantidadEsperada)
	}
	if in.FechaVencimiento != "" {
		if _, err := time.Parse(DateLayout, in.FechaVencimiento); err != nil {
			fe.add(prefix+"fechaVencimiento", "formato esperado YYYY-MM-DD")
		}
	}
	fe.CheckLengthMax(prefix+"lote", in.Lote, maxLen)
	fe.CheckLengthMax(prefix+"serie", in.Serie, maxLen)
	fe.CheckLengthMax(prefix+"ubicacionSugerida", in.UbicacionSugerida, maxLen)
	if pc := in.ProductCodes; pc != nil {
		fe.CheckLengthMax(prefix+"productCodes.barcode", pc.Barcode, maxLen)
		fe.CheckLengthMax(prefix+"productCodes.sku", pc.SKU, maxLen)
		fe.CheckLengthMax(prefix+"productCodes.factoryCode", pc.FactoryCode, maxLen)
		fe.CheckLengthMax(prefix+"productCodes.systemCode", pc.SystemCode, maxLen)
	}
	return fe
}

// ValidateNota valida la cabecera y todas sus líneas. La secuencia de líneas no puede estar vacía.
func ValidateNota(in NotaInput) FieldErrors {
	return ValidateNotaMax(in, MaxFieldLength)
}

// ValidateNotaMax igual que ValidateNota con maxLen como longitud máxima de texto.
func ValidateNotaMax(in NotaInput, maxLen int) FieldErrors {
	var fe FieldErrors
	if in.AlmacenID == "" {
		fe.add("almacenId", "es requerido")
	}
	fe.CheckLengthMax("almacenId", in.AlmacenID, maxLen)
	fe.CheckLengthMax("nroDocumento", in.NroDocumento, maxLen)
	fe.CheckLengthMax("origen", in.Origen, maxLen)
	fe.CheckLengthMax("usuario", in.Usuario, maxLen)
	if in.Tipo != "" && !in.Tipo.Valid() {
		fe.add("tipo", "valor desconocido %q", in.Tipo)
	}
	if len(in.Detalles) == 0 {
		fe.add("detalles", "debe contener al menos una línea")
	}
	for i, d := range in.Detalles {
		fe = append(fe, ValidateDetalleMax(d, fmt.Sprintf("detalles[%d].", i), maxLen)...)
	}
	return fe
}

// BuildDetalle convierte una entrada ya validada en entidad con número de línea.
func BuildDetalle(in DetalleInput, linea int) entity.DetalleIngreso {
	d := entity.DetalleIngreso{
		Linea:             linea,
		ProductoID:        in.ProductoID,
		Cantidad:          in.Cantidad,
		Lote:              in.Lote,
		Serie:             in.Serie,
		UbicacionSugerida: in.UbicacionSugerida,
	}
	if in.CantidadEsperada != nil {
		v := *in.CantidadEsperada
		d.CantidadEsperada = &v
	}
	if in.FechaVencimiento != "" {
		if t, err := time.Parse(DateLayout, in.FechaVencimiento); err == nil {
			d.FechaVencimiento = &t
		}
	}
	if in.ProductCodes != nil {
		v := *in.ProductCodes
		d.ProductCodes = &v
	}
	return d
}
