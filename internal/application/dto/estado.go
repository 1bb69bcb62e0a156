package dto

import (
	"fmt"

	"github.com/jhoicas/wms-ingresos/internal/domain"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
)

// Codificación numérica del estado en el contrato REST. Única tabla bidireccional;
// ningún otro sitio debe conocer los enteros.
var (
	estadoToWire = map[entity.Estado]int{
		entity.EstadoPaletizado: 0,
		entity.EstadoValidado:   1,
		entity.EstadoAlmacenado: 2,
		entity.EstadoAnulado:    3,
	}
	estadoFromWire = func() map[int]entity.Estado {
		m := make(map[int]entity.Estado, len(estadoToWire))
		for e, n := range estadoToWire {
			m[n] = e
		}
		return m
	}()
)

// EstadoToWire codifica el estado para el backend.
func EstadoToWire(e entity.Estado) (int, error) {
	n, ok := estadoToWire[e]
	if !ok {
		return 0, domain.NewValidationError("estado", fmt.Sprintf("estado desconocido %q", e))
	}
	return n, nil
}

// EstadoFromWire decodifica el entero recibido en una petición. Un código desconocido
// es entrada inválida.
func EstadoFromWire(n int) (entity.Estado, error) {
	e, err := decodeEstado(n)
	if err != nil {
		return "", domain.NewValidationError("estado", err.Error())
	}
	return e, nil
}

func decodeEstado(n int) (entity.Estado, error) {
	e, ok := estadoFromWire[n]
	if !ok {
		return "", fmt.Errorf("código de estado desconocido %d", n)
	}
	return e, nil
}
