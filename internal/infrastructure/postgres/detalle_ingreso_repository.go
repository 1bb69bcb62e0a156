package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-ingresos/internal/domain"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	"github.com/jhoicas/wms-ingresos/internal/domain/repository"
)

var _ repository.DetalleIngresoRepository = (*DetalleIngresoRepo)(nil)

const detalleColumns = `id, nota_ingreso_id, linea, producto_id, cantidad, cantidad_esperada, lote,
	fecha_vencimiento, serie, barcode, sku, factory_code, system_code, ubicacion_sugerida`

// DetalleIngresoRepo implementación del puerto DetalleIngresoRepository sobre PostgreSQL (usable con pool o tx).
type DetalleIngresoRepo struct {
	q Querier
}

// NewDetalleIngresoRepository construye el adaptador de persistencia para líneas. Pasar pool o tx (Querier).
func NewDetalleIngresoRepository(q Querier) *DetalleIngresoRepo {
	return &DetalleIngresoRepo{q: q}
}

// Create persiste una línea.
func (r *DetalleIngresoRepo) Create(ctx context.Context, d *entity.DetalleIngreso) error {
	return insertDetalle(ctx, r.q, d)
}

func insertDetalle(ctx context.Context, q Querier, d *entity.DetalleIngreso) error {
	var pc entity.ProductCodes
	if d.ProductCodes != nil {
		pc = *d.ProductCodes
	}
	query := `
		INSERT INTO detalle_ingreso (` + detalleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := q.Exec(ctx, query,
		d.ID, d.NotaIngresoID, d.Linea, d.ProductoID, d.Cantidad, d.CantidadEsperada,
		nullIfEmpty(d.Lote), d.FechaVencimiento, nullIfEmpty(d.Serie),
		nullIfEmpty(pc.Barcode), nullIfEmpty(pc.SKU), nullIfEmpty(pc.FactoryCode), nullIfEmpty(pc.SystemCode),
		nullIfEmpty(d.UbicacionSugerida),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert detalle_ingreso: %w", err)
	}
	return nil
}

// GetByID obtiene una línea por ID. (nil, nil) si no existe.
func (r *DetalleIngresoRepo) GetByID(ctx context.Context, id string) (*entity.DetalleIngreso, error) {
	query := `SELECT ` + detalleColumns + ` FROM detalle_ingreso WHERE id = $1`
	d, err := scanDetalle(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get detalle_ingreso: %w", err)
	}
	return d, nil
}

// List lista líneas ordenadas por nota y número de línea.
func (r *DetalleIngresoRepo) List(ctx context.Context, notaIngresoID string) ([]*entity.DetalleIngreso, error) {
	query := `SELECT ` + detalleColumns + ` FROM detalle_ingreso
		WHERE ($1 = '' OR nota_ingreso_id = $1)
		ORDER BY nota_ingreso_id, linea`
	return queryDetalles(ctx, r.q, query, notaIngresoID)
}

// Update actualiza los datos de la línea (nota y número de línea no cambian).
func (r *DetalleIngresoRepo) Update(ctx context.Context, d *entity.DetalleIngreso) error {
	var pc entity.ProductCodes
	if d.ProductCodes != nil {
		pc = *d.ProductCodes
	}
	query := `
		UPDATE detalle_ingreso SET producto_id = $2, cantidad = $3, cantidad_esperada = $4, lote = $5,
			fecha_vencimiento = $6, serie = $7, barcode = $8, sku = $9, factory_code = $10,
			system_code = $11, ubicacion_sugerida = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		d.ID, d.ProductoID, d.Cantidad, d.CantidadEsperada, nullIfEmpty(d.Lote), d.FechaVencimiento,
		nullIfEmpty(d.Serie), nullIfEmpty(pc.Barcode), nullIfEmpty(pc.SKU), nullIfEmpty(pc.FactoryCode),
		nullIfEmpty(pc.SystemCode), nullIfEmpty(d.UbicacionSugerida),
	)
	if err != nil {
		return fmt.Errorf("update detalle_ingreso: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una línea.
func (r *DetalleIngresoRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM detalle_ingreso WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete detalle_ingreso: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByNota cuenta las líneas de una nota.
func (r *DetalleIngresoRepo) CountByNota(ctx context.Context, notaIngresoID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM detalle_ingreso WHERE nota_ingreso_id = $1`, notaIngresoID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count detalle_ingreso: %w", err)
	}
	return n, nil
}

// NextLinea devuelve el siguiente número de línea de la nota (los huecos por borrado no se reutilizan).
func (r *DetalleIngresoRepo) NextLinea(ctx context.Context, notaIngresoID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(MAX(linea), 0) + 1 FROM detalle_ingreso WHERE nota_ingreso_id = $1`,
		notaIngresoID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next linea: %w", err)
	}
	return n, nil
}

func queryDetalles(ctx context.Context, q Querier, query string, args ...any) ([]*entity.DetalleIngreso, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list detalle_ingreso: %w", err)
	}
	defer rows.Close()

	var list []*entity.DetalleIngreso
	for rows.Next() {
		d, err := scanDetalle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan detalle_ingreso: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func scanDetalle(row pgx.Row) (*entity.DetalleIngreso, error) {
	var (
		d                                     entity.DetalleIngreso
		esperada                              decimal.NullDecimal
		vence                                 *time.Time
		lote, serie, ubicacion                *string
		barcode, sku, factoryCode, systemCode *string
	)
	err := row.Scan(
		&d.ID, &d.NotaIngresoID, &d.Linea, &d.ProductoID, &d.Cantidad, &esperada, &lote,
		&vence, &serie, &barcode, &sku, &factoryCode, &systemCode, &ubicacion,
	)
	if err != nil {
		return nil, err
	}
	if esperada.Valid {
		v := esperada.Decimal
		d.CantidadEsperada = &v
	}
	d.FechaVencimiento = vence
	d.Lote = deref(lote)
	d.Serie = deref(serie)
	d.UbicacionSugerida = deref(ubicacion)
	if barcode != nil || sku != nil || factoryCode != nil || systemCode != nil {
		d.ProductCodes = &entity.ProductCodes{
			Barcode:     deref(barcode),
			SKU:         deref(sku),
			FactoryCode: deref(factoryCode),
			SystemCode:  deref(systemCode),
		}
	}
	return &d, nil
}
