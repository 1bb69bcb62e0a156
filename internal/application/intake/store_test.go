package intake_test

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ingresos/internal/application/intake"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
)

func nota(id, almacen string, e entity.Estado) entity.NotaIngreso {
	esperada := decimal.NewFromInt(10)
	return entity.NotaIngreso{
		ID:        id,
		AlmacenID: almacen,
		Estado:    e,
		Detalles: []entity.DetalleIngreso{{
			ID: id + "-1", NotaIngresoID: id, Linea: 1, ProductoID: "SKU-1",
			Cantidad: decimal.NewFromInt(10), CantidadEsperada: &esperada,
		}},
	}
}

func TestStore_ReplaceAllIdempotente(t *testing.T) {
	s := intake.NewStore()
	docs := []entity.NotaIngreso{nota("a", "W1", entity.EstadoPaletizado), nota("b", "W2", entity.EstadoValidado)}

	s.ReplaceAll(docs)
	first := s.GetAll()
	s.ReplaceAll(docs)
	second := s.GetAll()

	assert.Equal(t, first, second)
	assert.Equal(t, uint64(2), s.Version())
	assert.Equal(t, 2, s.Len())
}

func TestStore_InstantaneaInmutable(t *testing.T) {
	s := intake.NewStore()
	docs := []entity.NotaIngreso{nota("a", "W1", entity.EstadoPaletizado)}
	s.ReplaceAll(docs)

	// Mutar la entrada después de ReplaceAll no afecta la caché.
	docs[0].Estado = entity.EstadoAnulado
	*docs[0].Detalles[0].CantidadEsperada = decimal.NewFromInt(99)

	got := s.GetAll()
	got[0].AlmacenID = "X"
	got[0].Detalles[0].Cantidad = decimal.Zero

	again, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, entity.EstadoPaletizado, again.Estado)
	assert.Equal(t, "W1", again.AlmacenID)
	assert.True(t, again.Detalles[0].Cantidad.Equal(decimal.NewFromInt(10)))
	assert.True(t, again.Detalles[0].CantidadEsperada.Equal(decimal.NewFromInt(10)))
}

func TestStore_GetByWarehouse(t *testing.T) {
	s := intake.NewStore()
	assert.NotNil(t, s.GetByWarehouse("W1"))
	assert.Empty(t, s.GetByWarehouse("W1"))

	s.ReplaceAll([]entity.NotaIngreso{
		nota("a", "W1", entity.EstadoPaletizado),
		nota("b", "W2", entity.EstadoPaletizado),
		nota("c", "W1", entity.EstadoAnulado),
	})
	got := s.GetByWarehouse("W1")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
	assert.Empty(t, s.GetByWarehouse("W9"))
}

func TestStore_StatusCounts(t *testing.T) {
	s := intake.NewStore()
	s.ReplaceAll([]entity.NotaIngreso{
		nota("a", "W1", entity.EstadoPaletizado),
		nota("b", "W1", entity.EstadoPaletizado),
		nota("c", "W1", entity.EstadoAlmacenado),
		nota("d", "W2", entity.EstadoValidado),
	})

	assert.Equal(t, map[entity.Estado]int{
		entity.EstadoPaletizado: 2,
		entity.EstadoValidado:   0,
		entity.EstadoAlmacenado: 1,
		entity.EstadoAnulado:    0,
	}, s.StatusCounts("W1"))

	// Derivado en cada llamada: refleja el último reemplazo.
	s.ReplaceAll(nil)
	assert.Equal(t, 0, s.StatusCounts("W1")[entity.EstadoPaletizado])
	assert.Len(t, s.StatusCounts("W1"), 4)
}

func TestStore_LectoresConcurrentesNoVenEstadoParcial(t *testing.T) {
	s := intake.NewStore()
	lote := func(e entity.Estado) []entity.NotaIngreso {
		out := make([]entity.NotaIngreso, 50)
		for i := range out {
			out[i] = nota(string(rune('a'+i%26))+string(rune('0'+i/26)), "W1", e)
		}
		return out
	}
	a, b := lote(entity.EstadoPaletizado), lote(entity.EstadoValidado)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if i%2 == 0 {
				s.ReplaceAll(a)
			} else {
				s.ReplaceAll(b)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			docs := s.GetAll()
			if len(docs) == 0 {
				continue
			}
			first := docs[0].Estado
			for _, d := range docs {
				assert.Equal(t, first, d.Estado)
			}
		}
	}()
	wg.Wait()
}
