package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	"github.com/jhoicas/wms-ingresos/internal/domain/intake"
)

// ProductCodesPayload códigos alternativos del producto.
type ProductCodesPayload struct {
	Barcode     string `json:"barcode,omitempty"`
	SKU         string `json:"sku,omitempty"`
	FactoryCode string `json:"factoryCode,omitempty"`
	SystemCode  string `json:"systemCode,omitempty"`
}

// DetallePayload línea dentro de POST /nota-ingreso.
type DetallePayload struct {
	ProductoID        string               `json:"productoId"`
	Cantidad          decimal.Decimal      `json:"cantidad"`
	CantidadEsperada  *decimal.Decimal     `json:"cantidadEsperada,omitempty"`
	Lote              string               `json:"lote,omitempty"`
	FechaVencimiento  string               `json:"fechaVencimiento,omitempty"`
	Serie             string               `json:"serie,omitempty"`
	ProductCodes      *ProductCodesPayload `json:"productCodes,omitempty"`
	UbicacionSugerida string               `json:"ubicacionSugerida,omitempty"`
}

// CreateNotaIngresoRequest body para POST /nota-ingreso.
type CreateNotaIngresoRequest struct {
	AlmacenID    string           `json:"almacenId"`
	NroDocumento string           `json:"nroDocumento,omitempty"`
	Origen       string           `json:"origen,omitempty"`
	Tipo         string           `json:"tipo,omitempty"`
	Usuario      string           `json:"usuario,omitempty"`
	Detalles     []DetallePayload `json:"detalles"`
}

// UpdateNotaIngresoRequest body para PATCH /nota-ingreso/:id (actualización parcial).
type UpdateNotaIngresoRequest struct {
	Estado  *int    `json:"estado,omitempty"`
	Usuario string  `json:"usuario,omitempty"`
	Origen  *string `json:"origen,omitempty"`
}

// NotaIngresoResponse salida de una nota de ingreso (estado codificado 0..3).
type NotaIngresoResponse struct {
	ID                    string                   `json:"id"`
	NroDocumento          string                   `json:"nroDocumento"`
	Origen                string                   `json:"origen"`
	AlmacenID             string                   `json:"almacenId"`
	Tipo                  string                   `json:"tipo"`
	Estado                int                      `json:"estado"`
	Transiciones          []int                    `json:"transiciones"`
	UsuarioCreacion       string                   `json:"usuarioCreacion,omitempty"`
	UsuarioValidacion     string                   `json:"usuarioValidacion,omitempty"`
	UsuarioAlmacenamiento string                   `json:"usuarioAlmacenamiento,omitempty"`
	CreatedAt             time.Time                `json:"createdAt"`
	UpdatedAt             time.Time                `json:"updatedAt"`
	Detalles              []DetalleIngresoResponse `json:"detalles"`
}

// ToInput convierte el body en la entrada de dominio (sin validar).
func (r CreateNotaIngresoRequest) ToInput() intake.NotaInput {
	in := intake.NotaInput{
		AlmacenID:    r.AlmacenID,
		NroDocumento: r.NroDocumento,
		Origen:       r.Origen,
		Tipo:         entity.TipoIngreso(r.Tipo),
		Usuario:      r.Usuario,
		Detalles:     make([]intake.DetalleInput, 0, len(r.Detalles)),
	}
	for _, d := range r.Detalles {
		in.Detalles = append(in.Detalles, d.ToInput())
	}
	return in
}

// ToInput convierte la línea en entrada de dominio.
func (d DetallePayload) ToInput() intake.DetalleInput {
	return intake.DetalleInput{
		ProductoID:        d.ProductoID,
		Cantidad:          d.Cantidad,
		CantidadEsperada:  d.CantidadEsperada,
		Lote:              d.Lote,
		FechaVencimiento:  d.FechaVencimiento,
		Serie:             d.Serie,
		ProductCodes:      d.ProductCodes.toEntity(),
		UbicacionSugerida: d.UbicacionSugerida,
	}
}

// NewCreateNotaIngresoRequest construye el body a partir de la entrada de dominio (lado cliente).
func NewCreateNotaIngresoRequest(in intake.NotaInput) CreateNotaIngresoRequest {
	req := CreateNotaIngresoRequest{
		AlmacenID:    in.AlmacenID,
		NroDocumento: in.NroDocumento,
		Origen:       in.Origen,
		Tipo:         string(in.Tipo),
		Usuario:      in.Usuario,
		Detalles:     make([]DetallePayload, 0, len(in.Detalles)),
	}
	for _, d := range in.Detalles {
		req.Detalles = append(req.Detalles, NewDetallePayload(d))
	}
	return req
}

// NewDetallePayload construye la línea del body a partir de la entrada de dominio.
func NewDetallePayload(d intake.DetalleInput) DetallePayload {
	return DetallePayload{
		ProductoID:        d.ProductoID,
		Cantidad:          d.Cantidad,
		CantidadEsperada:  d.CantidadEsperada,
		Lote:              d.Lote,
		FechaVencimiento:  d.FechaVencimiento,
		Serie:             d.Serie,
		ProductCodes:      productCodesPayload(d.ProductCodes),
		UbicacionSugerida: d.UbicacionSugerida,
	}
}

// ToNotaIngresoResponse serializa la entidad para el contrato REST.
func ToNotaIngresoResponse(n *entity.NotaIngreso) (*NotaIngresoResponse, error) {
	estado, err := EstadoToWire(n.Estado)
	if err != nil {
		return nil, err
	}
	siguientes := intake.Transitions(n.Estado)
	transiciones := make([]int, 0, len(siguientes))
	for _, e := range siguientes {
		code, err := EstadoToWire(e)
		if err != nil {
			return nil, err
		}
		transiciones = append(transiciones, code)
	}
	out := &NotaIngresoResponse{
		ID:                    n.ID,
		NroDocumento:          n.NroDocumento,
		Origen:                n.Origen,
		AlmacenID:             n.AlmacenID,
		Tipo:                  string(n.Tipo),
		Estado:                estado,
		Transiciones:          transiciones,
		UsuarioCreacion:       n.UsuarioCreacion,
		UsuarioValidacion:     n.UsuarioValidacion,
		UsuarioAlmacenamiento: n.UsuarioAlmacenamiento,
		CreatedAt:             n.CreatedAt,
		UpdatedAt:             n.UpdatedAt,
		Detalles:              make([]DetalleIngresoResponse, 0, len(n.Detalles)),
	}
	for i := range n.Detalles {
		out.Detalles = append(out.Detalles, ToDetalleIngresoResponse(&n.Detalles[i]))
	}
	return out, nil
}

// ToEntity decodifica la respuesta del backend (lado cliente). Los errores describen
// el cuerpo recibido; nunca son *domain.ValidationError.
func (r NotaIngresoResponse) ToEntity() (entity.NotaIngreso, error) {
	estado, err := decodeEstado(r.Estado)
	if err != nil {
		return entity.NotaIngreso{}, fmt.Errorf("nota %s: %w", r.ID, err)
	}
	n := entity.NotaIngreso{
		ID:                    r.ID,
		NroDocumento:          r.NroDocumento,
		Origen:                r.Origen,
		AlmacenID:             r.AlmacenID,
		Tipo:                  entity.TipoIngreso(r.Tipo),
		Estado:                estado,
		UsuarioCreacion:       r.UsuarioCreacion,
		UsuarioValidacion:     r.UsuarioValidacion,
		UsuarioAlmacenamiento: r.UsuarioAlmacenamiento,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
		Detalles:              make([]entity.DetalleIngreso, 0, len(r.Detalles)),
	}
	for _, d := range r.Detalles {
		det, err := d.ToEntity()
		if err != nil {
			return entity.NotaIngreso{}, fmt.Errorf("nota %s: %w", r.ID, err)
		}
		n.Detalles = append(n.Detalles, det)
	}
	return n, nil
}

func (p *ProductCodesPayload) toEntity() *entity.ProductCodes {
	if p == nil {
		return nil
	}
	return &entity.ProductCodes{Barcode: p.Barcode, SKU: p.SKU, FactoryCode: p.FactoryCode, SystemCode: p.SystemCode}
}

func productCodesPayload(pc *entity.ProductCodes) *ProductCodesPayload {
	if pc == nil {
		return nil
	}
	return &ProductCodesPayload{Barcode: pc.Barcode, SKU: pc.SKU, FactoryCode: pc.FactoryCode, SystemCode: pc.SystemCode}
}
