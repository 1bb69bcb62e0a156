package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	"github.com/jhoicas/wms-ingresos/internal/domain/intake"
)

// CreateDetalleIngresoRequest body para POST /detalle-ingreso.
type CreateDetalleIngresoRequest struct {
	NotaIngresoID string `json:"notaIngresoId"`
	DetallePayload
}

// UpdateDetalleIngresoRequest body para PATCH /detalle-ingreso/:id (campos opcionales).
type UpdateDetalleIngresoRequest struct {
	ProductoID        *string              `json:"productoId,omitempty"`
	Cantidad          *decimal.Decimal     `json:"cantidad,omitempty"`
	CantidadEsperada  *decimal.Decimal     `json:"cantidadEsperada,omitempty"`
	Lote              *string              `json:"lote,omitempty"`
	FechaVencimiento  *string              `json:"fechaVencimiento,omitempty"`
	Serie             *string              `json:"serie,omitempty"`
	ProductCodes      *ProductCodesPayload `json:"productCodes,omitempty"`
	UbicacionSugerida *string              `json:"ubicacionSugerida,omitempty"`
}

// DetalleIngresoResponse salida de una línea. Discrepancia solo aparece con cantidad esperada.
type DetalleIngresoResponse struct {
	ID                string               `json:"id"`
	NotaIngresoID     string               `json:"notaIngresoId"`
	Linea             int                  `json:"linea"`
	ProductoID        string               `json:"productoId"`
	Cantidad          decimal.Decimal      `json:"cantidad"`
	CantidadEsperada  *decimal.Decimal     `json:"cantidadEsperada,omitempty"`
	Discrepancia      *decimal.Decimal     `json:"discrepancia,omitempty"`
	Lote              string               `json:"lote,omitempty"`
	FechaVencimiento  string               `json:"fechaVencimiento,omitempty"`
	Serie             string               `json:"serie,omitempty"`
	ProductCodes      *ProductCodesPayload `json:"productCodes,omitempty"`
	UbicacionSugerida string               `json:"ubicacionSugerida,omitempty"`
}

// ApplyTo superpone los campos presentes sobre la línea actual y devuelve la entrada resultante.
func (r UpdateDetalleIngresoRequest) ApplyTo(d entity.DetalleIngreso) intake.DetalleInput {
	in := intake.DetalleInput{
		ProductoID:        d.ProductoID,
		Cantidad:          d.Cantidad,
		CantidadEsperada:  d.CantidadEsperada,
		Lote:              d.Lote,
		Serie:             d.Serie,
		ProductCodes:      d.ProductCodes,
		UbicacionSugerida: d.UbicacionSugerida,
	}
	if d.FechaVencimiento != nil {
		in.FechaVencimiento = d.FechaVencimiento.Format(intake.DateLayout)
	}
	if r.ProductoID != nil {
		in.ProductoID = *r.ProductoID
	}
	if r.Cantidad != nil {
		in.Cantidad = *r.Cantidad
	}
	if r.CantidadEsperada != nil {
		in.CantidadEsperada = r.CantidadEsperada
	}
	if r.Lote != nil {
		in.Lote = *r.Lote
	}
	if r.FechaVencimiento != nil {
		in.FechaVencimiento = *r.FechaVencimiento
	}
	if r.Serie != nil {
		in.Serie = *r.Serie
	}
	if r.ProductCodes != nil {
		in.ProductCodes = r.ProductCodes.toEntity()
	}
	if r.UbicacionSugerida != nil {
		in.UbicacionSugerida = *r.UbicacionSugerida
	}
	return in
}

// ToDetalleIngresoResponse serializa una línea.
func ToDetalleIngresoResponse(d *entity.DetalleIngreso) DetalleIngresoResponse {
	out := DetalleIngresoResponse{
		ID:                d.ID,
		NotaIngresoID:     d.NotaIngresoID,
		Linea:             d.Linea,
		ProductoID:        d.ProductoID,
		Cantidad:          d.Cantidad,
		CantidadEsperada:  d.CantidadEsperada,
		Lote:              d.Lote,
		Serie:             d.Serie,
		ProductCodes:      productCodesPayload(d.ProductCodes),
		UbicacionSugerida: d.UbicacionSugerida,
	}
	if disc, ok := d.Discrepancia(); ok {
		out.Discrepancia = &disc
	}
	if d.FechaVencimiento != nil {
		out.FechaVencimiento = d.FechaVencimiento.Format(intake.DateLayout)
	}
	return out
}

// ToEntity decodifica una línea recibida del backend.
func (r DetalleIngresoResponse) ToEntity() (entity.DetalleIngreso, error) {
	d := entity.DetalleIngreso{
		ID:                r.ID,
		NotaIngresoID:     r.NotaIngresoID,
		Linea:             r.Linea,
		ProductoID:        r.ProductoID,
		Cantidad:          r.Cantidad,
		CantidadEsperada:  r.CantidadEsperada,
		Lote:              r.Lote,
		Serie:             r.Serie,
		ProductCodes:      r.ProductCodes.toEntity(),
		UbicacionSugerida: r.UbicacionSugerida,
	}
	if r.FechaVencimiento != "" {
		t, err := time.Parse(intake.DateLayout, r.FechaVencimiento)
		if err != nil {
			return entity.DetalleIngreso{}, fmt.Errorf("línea %s: fechaVencimiento %q: %w", r.ID, r.FechaVencimiento, err)
		}
		d.FechaVencimiento = &t
	}
	return d, nil
}
