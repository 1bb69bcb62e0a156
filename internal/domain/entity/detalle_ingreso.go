package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductCodes identificadores alternativos del producto escaneado.
type ProductCodes struct {
	Barcode     string
	SKU         string
	FactoryCode string
	SystemCode  string
}

// DetalleIngreso representa una línea de producto dentro de una nota de ingreso.
type DetalleIngreso struct {
	ID                string
	NotaIngresoID     string
	Linea             int
	ProductoID        string
	Cantidad          decimal.Decimal
	CantidadEsperada  *decimal.Decimal // opcional, para conciliación de escaneo
	Lote              string
	FechaVencimiento  *time.Time // solo fecha (YYYY-MM-DD)
	Serie             string
	ProductCodes      *ProductCodes
	UbicacionSugerida string
}

// Discrepancia devuelve cantidad escaneada − esperada. Es informativa: no bloquea la persistencia.
func (d DetalleIngreso) Discrepancia() (decimal.Decimal, bool) {
	if d.CantidadEsperada == nil {
		return decimal.Zero, false
	}
	return d.Cantidad.Sub(*d.CantidadEsperada), true
}

// Clone devuelve una copia sin punteros compartidos.
func (d DetalleIngreso) Clone() DetalleIngreso {
	out := d
	if d.CantidadEsperada != nil {
		v := *d.CantidadEsperada
		out.CantidadEsperada = &v
	}
	if d.FechaVencimiento != nil {
		v := *d.FechaVencimiento
		out.FechaVencimiento = &v
	}
	if d.ProductCodes != nil {
		v := *d.ProductCodes
		out.ProductCodes = &v
	}
	return out
}
