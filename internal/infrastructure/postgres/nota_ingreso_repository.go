package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-ingresos/internal/domain"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	"github.com/jhoicas/wms-ingresos/internal/domain/repository"
)

var _ repository.NotaIngresoRepository = (*NotaIngresoRepo)(nil)

const notaColumns = `id, nro_documento, origen, almacen_id, tipo, estado, usuario_creacion,
	usuario_validacion, usuario_almacenamiento, created_at, updated_at`

// NotaIngresoRepo implementación del puerto NotaIngresoRepository sobre PostgreSQL (usable con pool o tx).
type NotaIngresoRepo struct {
	q Querier
}

// NewNotaIngresoRepository construye el adaptador de persistencia para notas. Pasar pool o tx (Querier).
func NewNotaIngresoRepository(q Querier) *NotaIngresoRepo {
	return &NotaIngresoRepo{q: q}
}

// Create persiste la cabecera y sus líneas. Debe ejecutarse dentro de una transacción
// para que la nota nunca quede sin líneas.
func (r *NotaIngresoRepo) Create(ctx context.Context, n *entity.NotaIngreso) error {
	query := `
		INSERT INTO nota_ingreso (` + notaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.NroDocumento, n.Origen, n.AlmacenID, string(n.Tipo), string(n.Estado),
		nullIfEmpty(n.UsuarioCreacion), nullIfEmpty(n.UsuarioValidacion), nullIfEmpty(n.UsuarioAlmacenamiento),
		n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert nota_ingreso: %w", err)
	}
	for i := range n.Detalles {
		if err := insertDetalle(ctx, r.q, &n.Detalles[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene una nota con sus líneas. (nil, nil) si no existe.
func (r *NotaIngresoRepo) GetByID(ctx context.Context, id string) (*entity.NotaIngreso, error) {
	return r.get(ctx, `SELECT `+notaColumns+` FROM nota_ingreso WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila de la cabecera hasta el fin de la transacción.
func (r *NotaIngresoRepo) GetForUpdate(ctx context.Context, id string) (*entity.NotaIngreso, error) {
	return r.get(ctx, `SELECT `+notaColumns+` FROM nota_ingreso WHERE id = $1 FOR UPDATE`, id)
}

func (r *NotaIngresoRepo) get(ctx context.Context, query, id string) (*entity.NotaIngreso, error) {
	n, err := scanNota(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get nota_ingreso: %w", err)
	}
	detalles, err := queryDetalles(ctx, r.q,
		`SELECT `+detalleColumns+` FROM detalle_ingreso WHERE nota_ingreso_id = $1 ORDER BY linea`, id)
	if err != nil {
		return nil, err
	}
	n.Detalles = make([]entity.DetalleIngreso, 0, len(detalles))
	for _, d := range detalles {
		n.Detalles = append(n.Detalles, *d)
	}
	return n, nil
}

// List lista notas (con líneas) por fecha de creación. almacenID vacío = todas.
func (r *NotaIngresoRepo) List(ctx context.Context, almacenID string) ([]*entity.NotaIngreso, error) {
	rows, err := r.q.Query(ctx, `SELECT `+notaColumns+` FROM nota_ingreso
		WHERE ($1 = '' OR almacen_id = $1)
		ORDER BY created_at, nro_documento`, almacenID)
	if err != nil {
		return nil, fmt.Errorf("list nota_ingreso: %w", err)
	}
	var list []*entity.NotaIngreso
	byID := make(map[string]*entity.NotaIngreso)
	for rows.Next() {
		n, err := scanNota(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan nota_ingreso: %w", err)
		}
		n.Detalles = []entity.DetalleIngreso{}
		list = append(list, n)
		byID[n.ID] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list nota_ingreso: %w", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	detalles, err := queryDetalles(ctx, r.q, `SELECT `+detalleColumns+` FROM detalle_ingreso
		WHERE nota_ingreso_id IN (SELECT id FROM nota_ingreso WHERE ($1 = '' OR almacen_id = $1))
		ORDER BY nota_ingreso_id, linea`, almacenID)
	if err != nil {
		return nil, err
	}
	for _, d := range detalles {
		if n, ok := byID[d.NotaIngresoID]; ok {
			n.Detalles = append(n.Detalles, *d)
		}
	}
	return list, nil
}

// Update actualiza los campos mutables de la cabecera.
func (r *NotaIngresoRepo) Update(ctx context.Context, n *entity.NotaIngreso) error {
	query := `
		UPDATE nota_ingreso SET origen = $2, estado = $3, usuario_validacion = $4,
			usuario_almacenamiento = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		n.ID, n.Origen, string(n.Estado), nullIfEmpty(n.UsuarioValidacion),
		nullIfEmpty(n.UsuarioAlmacenamiento), n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update nota_ingreso: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextNroDocumento reserva el siguiente correlativo (NI-000001, NI-000002, ...).
func (r *NotaIngresoRepo) NextNroDocumento(ctx context.Context) (string, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('nota_ingreso_nro_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("nextval nota_ingreso_nro_seq: %w", err)
	}
	return fmt.Sprintf("NI-%06d", n), nil
}

func scanNota(row pgx.Row) (*entity.NotaIngreso, error) {
	var (
		n                                    entity.NotaIngreso
		tipo, estado                         string
		creacion, validacion, almacenamiento *string
	)
	err := row.Scan(
		&n.ID, &n.NroDocumento, &n.Origen, &n.AlmacenID, &tipo, &estado,
		&creacion, &validacion, &almacenamiento, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.Tipo = entity.TipoIngreso(tipo)
	n.Estado = entity.Estado(estado)
	n.UsuarioCreacion = deref(creacion)
	n.UsuarioValidacion = deref(validacion)
	n.UsuarioAlmacenamiento = deref(almacenamiento)
	return &n, nil
}
