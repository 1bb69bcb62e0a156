package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jhoicas/wms-ingresos/internal/application/dto"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	"github.com/jhoicas/wms-ingresos/internal/domain/intake"
)

// ListDocuments GET /nota-ingreso. Idempotente: se reintenta.
func (c *Client) ListDocuments(ctx context.Context) ([]entity.NotaIngreso, error) {
	return c.listDocuments(ctx, "ListDocuments", nil)
}

// ListByWarehouse GET /nota-ingreso?almacenId=... Idempotente: se reintenta.
func (c *Client) ListByWarehouse(ctx context.Context, almacenID string) ([]entity.NotaIngreso, error) {
	const op = "ListByWarehouse"
	if err := c.checkValue("almacenId", almacenID); err != nil {
		return nil, c.rejectLocal(op, err)
	}
	return c.listDocuments(ctx, op, url.Values{"almacenId": {almacenID}})
}

func (c *Client) listDocuments(ctx context.Context, op string, q url.Values) ([]entity.NotaIngreso, error) {
	var resp []dto.NotaIngresoResponse
	err := c.do(ctx, call{op: op, method: http.MethodGet, path: notaPath, query: q, out: &resp, idempotent: true})
	if err != nil {
		return nil, err
	}
	out := make([]entity.NotaIngreso, 0, len(resp))
	for _, r := range resp {
		n, err := r.ToEntity()
		if err != nil {
			return nil, invalidResponse(op, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// GetDocument GET /nota-ingreso/:id. Idempotente: se reintenta.
func (c *Client) GetDocument(ctx context.Context, id string) (*entity.NotaIngreso, error) {
	const op = "GetDocument"
	if err := c.checkID("id", id); err != nil {
		return nil, c.rejectLocal(op, err)
	}
	var resp dto.NotaIngresoResponse
	err := c.do(ctx, call{op: op, method: http.MethodGet, path: notaPath + "/" + url.PathEscape(id), out: &resp, idempotent: true})
	if err != nil {
		return nil, err
	}
	n, err := resp.ToEntity()
	if err != nil {
		return nil, invalidResponse(op, err)
	}
	return &n, nil
}

// CreateDocument POST /nota-ingreso. Valida esquema y tamaño antes de transmitir; no se reintenta.
func (c *Client) CreateDocument(ctx context.Context, in intake.NotaInput) (*entity.NotaIngreso, error) {
	const op = "CreateDocument"
	if err := intake.ValidateNotaMax(in, c.cfg.MaxFieldLength).Err(); err != nil {
		return nil, c.rejectLocal(op, err)
	}
	body, err := c.encode(dto.NewCreateNotaIngresoRequest(in))
	if err != nil {
		return nil, c.rejectLocal(op, err)
	}
	var resp dto.NotaIngresoResponse
	if err := c.do(ctx, call{op: op, method: http.MethodPost, path: notaPath, body: body, out: &resp}); err != nil {
		return nil, err
	}
	n, err := resp.ToEntity()
	if err != nil {
		return nil, invalidResponse(op, err)
	}
	return &n, nil
}

// UpdateStatus PATCH /nota-ingreso/:id con {estado, usuario}. El backend decide la legalidad
// final de la transición; un rechazo llega como *domain.RemoteError. No se reintenta.
func (c *Client) UpdateStatus(ctx context.Context, id string, target entity.Estado, usuario string) error {
	const op = "UpdateStatus"
	if err := c.checkID("id", id); err != nil {
		return c.rejectLocal(op, err)
	}
	if err := c.checkValue("usuario", usuario); err != nil {
		return c.rejectLocal(op, err)
	}
	code, err := dto.EstadoToWire(target)
	if err != nil {
		return c.rejectLocal(op, err)
	}
	body, err := c.encode(dto.UpdateNotaIngresoRequest{Estado: &code, Usuario: usuario})
	if err != nil {
		return c.rejectLocal(op, err)
	}
	return c.do(ctx, call{op: op, method: http.MethodPatch, path: notaPath + "/" + url.PathEscape(id), body: body})
}
