package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jhoicas/wms-ingresos/internal/application/dto"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	"github.com/jhoicas/wms-ingresos/internal/domain/intake"
)

// CreateLine POST /detalle-ingreso. No se reintenta.
func (c *Client) CreateLine(ctx context.Context, notaIngresoID string, in intake.DetalleInput) (*entity.DetalleIngreso, error) {
	const op = "CreateLine"
	if err := c.checkID("notaIngresoId", notaIngresoID); err != nil {
		return nil, c.rejectLocal(op, err)
	}
	if err := intake.ValidateDetalleMax(in, "", c.cfg.MaxFieldLength).Err(); err != nil {
		return nil, c.rejectLocal(op, err)
	}
	body, err := c.encode(dto.CreateDetalleIngresoRequest{NotaIngresoID: notaIngresoID, DetallePayload: dto.NewDetallePayload(in)})
	if err != nil {
		return nil, c.rejectLocal(op, err)
	}
	var resp dto.DetalleIngresoResponse
	if err := c.do(ctx, call{op: op, method: http.MethodPost, path: detallePath, body: body, out: &resp}); err != nil {
		return nil, err
	}
	return lineFromResponse(op, resp)
}

// ListLines GET /detalle-ingreso; notaIngresoID vacío = todas. Idempotente: se reintenta.
func (c *Client) ListLines(ctx context.Context, notaIngresoID string) ([]entity.DetalleIngreso, error) {
	const op = "ListLines"
	var q url.Values
	if notaIngresoID != "" {
		if err := c.checkValue("notaIngresoId", notaIngresoID); err != nil {
			return nil, c.rejectLocal(op, err)
		}
		q = url.Values{"notaIngresoId": {notaIngresoID}}
	}
	var resp []dto.DetalleIngresoResponse
	if err := c.do(ctx, call{op: op, method: http.MethodGet, path: detallePath, query: q, out: &resp, idempotent: true}); err != nil {
		return nil, err
	}
	out := make([]entity.DetalleIngreso, 0, len(resp))
	for _, r := range resp {
		d, err := r.ToEntity()
		if err != nil {
			return nil, invalidResponse(op, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// GetLine GET /detalle-ingreso/:id. Idempotente: se reintenta.
func (c *Client) GetLine(ctx context.Context, id string) (*entity.DetalleIngreso, error) {
	const op = "GetLine"
	if err := c.checkID("id", id); err != nil {
		return nil, c.rejectLocal(op, err)
	}
	var resp dto.DetalleIngresoResponse
	if err := c.do(ctx, call{op: op, method: http.MethodGet, path: detallePath + "/" + url.PathEscape(id), out: &resp, idempotent: true}); err != nil {
		return nil, err
	}
	return lineFromResponse(op, resp)
}

// UpdateLine PATCH /detalle-ingreso/:id enviando la línea completa ya validada. No se reintenta.
func (c *Client) UpdateLine(ctx context.Context, id string, in intake.DetalleInput) (*entity.DetalleIngreso, error) {
	const op = "UpdateLine"
	if err := c.checkID("id", id); err != nil {
		return nil, c.rejectLocal(op, err)
	}
	if err := intake.ValidateDetalleMax(in, "", c.cfg.MaxFieldLength).Err(); err != nil {
		return nil, c.rejectLocal(op, err)
	}
	p := dto.NewDetallePayload(in)
	body, err := c.encode(dto.UpdateDetalleIngresoRequest{
		ProductoID:        &p.ProductoID,
		Cantidad:          &p.Cantidad,
		CantidadEsperada:  p.CantidadEsperada,
		Lote:              &p.Lote,
		FechaVencimiento:  &p.FechaVencimiento,
		Serie:             &p.Serie,
		ProductCodes:      p.ProductCodes,
		UbicacionSugerida: &p.UbicacionSugerida,
	})
	if err != nil {
		return nil, c.rejectLocal(op, err)
	}
	var resp dto.DetalleIngresoResponse
	if err := c.do(ctx, call{op: op, method: http.MethodPatch, path: detallePath + "/" + url.PathEscape(id), body: body, out: &resp}); err != nil {
		return nil, err
	}
	return lineFromResponse(op, resp)
}

// DeleteLine DELETE /detalle-ingreso/:id. No se reintenta.
func (c *Client) DeleteLine(ctx context.Context, id string) error {
	const op = "DeleteLine"
	if err := c.checkID("id", id); err != nil {
		return c.rejectLocal(op, err)
	}
	return c.do(ctx, call{op: op, method: http.MethodDelete, path: detallePath + "/" + url.PathEscape(id)})
}

func lineFromResponse(op string, r dto.DetalleIngresoResponse) (*entity.DetalleIngreso, error) {
	d, err := r.ToEntity()
	if err != nil {
		return nil, invalidResponse(op, err)
	}
	return &d, nil
}
