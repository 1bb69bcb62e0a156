// Package usecasetest provee repositorios en memoria para probar casos de uso y handlers sin PostgreSQL.
package usecasetest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/wms-ingresos/internal/domain"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	"github.com/jhoicas/wms-ingresos/internal/domain/repository"
)

var (
	_ repository.NotaIngresoRepository    = (*Memory)(nil)
	_ repository.DetalleIngresoRepository = (*MemoryDetalles)(nil)
)

// Memory almacén en memoria con semántica transaccional simple: Run trabaja sobre una
// copia y solo la publica si fn no devuelve error.
type Memory struct {
	mu     sync.Mutex
	data   *state
	nroSeq int64
	// FailNext, si no es nil, se devuelve en la próxima operación de escritura.
	FailNext error
}

type state struct {
	notas    map[string]entity.NotaIngreso // cabeceras sin líneas
	detalles map[string]entity.DetalleIngreso
}

// NewMemory crea un almacén vacío.
func NewMemory() *Memory {
	return &Memory{data: &state{
		notas:    make(map[string]entity.NotaIngreso),
		detalles: make(map[string]entity.DetalleIngreso),
	}}
}

// Detalles devuelve la vista de líneas del mismo almacén.
func (m *Memory) Detalles() *MemoryDetalles {
	return &MemoryDetalles{m: m}
}

// Run implementa usecase.TxRunner.
func (m *Memory) Run(ctx context.Context, fn func(
	notas repository.NotaIngresoRepository,
	detalles repository.DetalleIngresoRepository,
) error) error {
	m.mu.Lock()
	snapshot := m.data.clone()
	seq := m.nroSeq
	m.mu.Unlock()

	tx := &Memory{data: snapshot, nroSeq: seq, FailNext: m.takeFail()}
	if err := fn(tx, tx.Detalles()); err != nil {
		return err
	}

	m.mu.Lock()
	m.data = tx.data
	m.nroSeq = tx.nroSeq
	m.mu.Unlock()
	return nil
}

func (m *Memory) takeFail() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.FailNext
	m.FailNext = nil
	return err
}

func (s *state) clone() *state {
	out := &state{
		notas:    make(map[string]entity.NotaIngreso, len(s.notas)),
		detalles: make(map[string]entity.DetalleIngreso, len(s.detalles)),
	}
	for k, v := range s.notas {
		out.notas[k] = v.Clone()
	}
	for k, v := range s.detalles {
		out.detalles[k] = v.Clone()
	}
	return out
}

// Create implementa repository.NotaIngresoRepository.
func (m *Memory) Create(_ context.Context, n *entity.NotaIngreso) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failLocked(); err != nil {
		return err
	}
	for _, existing := range m.data.notas {
		if existing.NroDocumento == n.NroDocumento || existing.ID == n.ID {
			return domain.ErrDuplicate
		}
	}
	head := n.Clone()
	head.Detalles = nil
	m.data.notas[n.ID] = head
	for _, d := range n.Detalles {
		m.data.detalles[d.ID] = d.Clone()
	}
	return nil
}

// GetByID implementa repository.NotaIngresoRepository.
func (m *Memory) GetByID(_ context.Context, id string) (*entity.NotaIngreso, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(id), nil
}

// GetForUpdate implementa repository.NotaIngresoRepository (sin bloqueo real).
func (m *Memory) GetForUpdate(ctx context.Context, id string) (*entity.NotaIngreso, error) {
	return m.GetByID(ctx, id)
}

func (m *Memory) getLocked(id string) *entity.NotaIngreso {
	head, ok := m.data.notas[id]
	if !ok {
		return nil
	}
	n := head.Clone()
	n.Detalles = m.detallesLocked(id)
	return &n
}

// List implementa repository.NotaIngresoRepository.
func (m *Memory) List(_ context.Context, almacenID string) ([]*entity.NotaIngreso, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.NotaIngreso
	for id, n := range m.data.notas {
		if almacenID != "" && n.AlmacenID != almacenID {
			continue
		}
		out = append(out, m.getLocked(id))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].NroDocumento < out[j].NroDocumento
	})
	return out, nil
}

// Update implementa repository.NotaIngresoRepository.
func (m *Memory) Update(_ context.Context, n *entity.NotaIngreso) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failLocked(); err != nil {
		return err
	}
	head, ok := m.data.notas[n.ID]
	if !ok {
		return domain.ErrNotFound
	}
	head.Origen = n.Origen
	head.Estado = n.Estado
	head.UsuarioValidacion = n.UsuarioValidacion
	head.UsuarioAlmacenamiento = n.UsuarioAlmacenamiento
	head.UpdatedAt = n.UpdatedAt
	m.data.notas[n.ID] = head
	return nil
}

// NextNroDocumento implementa repository.NotaIngresoRepository.
func (m *Memory) NextNroDocumento(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nroSeq++
	return fmt.Sprintf("NI-%06d", m.nroSeq), nil
}

func (m *Memory) failLocked() error {
	err := m.FailNext
	m.FailNext = nil
	return err
}

func (m *Memory) detallesLocked(notaID string) []entity.DetalleIngreso {
	out := []entity.DetalleIngreso{}
	for _, d := range m.data.detalles {
		if notaID == "" || d.NotaIngresoID == notaID {
			out = append(out, d.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NotaIngresoID != out[j].NotaIngresoID {
			return out[i].NotaIngresoID < out[j].NotaIngresoID
		}
		return out[i].Linea < out[j].Linea
	})
	return out
}

// MemoryDetalles vista de líneas sobre un Memory.
type MemoryDetalles struct {
	m *Memory
}

// Create implementa repository.DetalleIngresoRepository.
func (r *MemoryDetalles) Create(_ context.Context, d *entity.DetalleIngreso) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failLocked(); err != nil {
		return err
	}
	if _, ok := r.m.data.detalles[d.ID]; ok {
		return domain.ErrDuplicate
	}
	r.m.data.detalles[d.ID] = d.Clone()
	return nil
}

// GetByID implementa repository.DetalleIngresoRepository.
func (r *MemoryDetalles) GetByID(_ context.Context, id string) (*entity.DetalleIngreso, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d, ok := r.m.data.detalles[id]
	if !ok {
		return nil, nil
	}
	c := d.Clone()
	return &c, nil
}

// List implementa repository.DetalleIngresoRepository.
func (r *MemoryDetalles) List(_ context.Context, notaIngresoID string) ([]*entity.DetalleIngreso, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	list := r.m.detallesLocked(notaIngresoID)
	out := make([]*entity.DetalleIngreso, 0, len(list))
	for i := range list {
		out = append(out, &list[i])
	}
	return out, nil
}

// Update implementa repository.DetalleIngresoRepository.
func (r *MemoryDetalles) Update(_ context.Context, d *entity.DetalleIngreso) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failLocked(); err != nil {
		return err
	}
	if _, ok := r.m.data.detalles[d.ID]; !ok {
		return domain.ErrNotFound
	}
	r.m.data.detalles[d.ID] = d.Clone()
	return nil
}

// Delete implementa repository.DetalleIngresoRepository.
func (r *MemoryDetalles) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.data.detalles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.m.data.detalles, id)
	return nil
}

// CountByNota implementa repository.DetalleIngresoRepository.
func (r *MemoryDetalles) CountByNota(_ context.Context, notaIngresoID string) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	n := 0
	for _, d := range r.m.data.detalles {
		if d.NotaIngresoID == notaIngresoID {
			n++
		}
	}
	return n, nil
}

// NextLinea implementa repository.DetalleIngresoRepository.
func (r *MemoryDetalles) NextLinea(_ context.Context, notaIngresoID string) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	last := 0
	for _, d := range r.m.data.detalles {
		if d.NotaIngresoID == notaIngresoID && d.Linea > last {
			last = d.Linea
		}
	}
	return last + 1, nil
}
