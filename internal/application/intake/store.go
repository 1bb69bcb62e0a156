package intake

import (
	"sync"

	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
)

// Store caché en proceso de las notas de ingreso. Es un espejo del backend, nunca la fuente
// de verdad: solo se modifica con ReplaceAll tras una lectura remota exitosa.
// Todas las lecturas devuelven copias profundas.
type Store struct {
	mu      sync.RWMutex
	docs    []entity.NotaIngreso
	byID    map[string]int
	version uint64
}

// NewStore crea una caché vacía.
func NewStore() *Store {
	return &Store{byID: make(map[string]int)}
}

// GetAll devuelve una instantánea de todas las notas.
func (s *Store) GetAll() []entity.NotaIngreso {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.NotaIngreso, len(s.docs))
	for i, d := range s.docs {
		out[i] = d.Clone()
	}
	return out
}

// Get busca una nota por ID.
func (s *Store) Get(id string) (entity.NotaIngreso, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return entity.NotaIngreso{}, false
	}
	return s.docs[i].Clone(), true
}

// GetByWarehouse filtra por almacén. Nunca falla: sin coincidencias devuelve un slice vacío.
func (s *Store) GetByWarehouse(almacenID string) []entity.NotaIngreso {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []entity.NotaIngreso{}
	for _, d := range s.docs {
		if d.AlmacenID == almacenID {
			out = append(out, d.Clone())
		}
	}
	return out
}

// ReplaceAll reemplaza el contenido completo de forma atómica.
func (s *Store) ReplaceAll(docs []entity.NotaIngreso) {
	next := make([]entity.NotaIngreso, len(docs))
	byID := make(map[string]int, len(docs))
	for i, d := range docs {
		next[i] = d.Clone()
		byID[d.ID] = i
	}

	s.mu.Lock()
	s.docs = next
	s.byID = byID
	s.version++
	s.mu.Unlock()
}

// StatusCounts cuenta notas por estado en un almacén; siempre incluye los cuatro estados.
// Se calcula en cada llamada.
func (s *Store) StatusCounts(almacenID string) map[entity.Estado]int {
	counts := make(map[entity.Estado]int, 4)
	for _, e := range entity.Estados() {
		counts[e] = 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.docs {
		if d.AlmacenID == almacenID {
			counts[d.Estado]++
		}
	}
	return counts
}

// Len número de notas en caché.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Version se incrementa en cada ReplaceAll. Solo diagnóstico.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
