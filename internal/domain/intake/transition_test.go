package intake_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ingresos/internal/domain"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	"github.com/jhoicas/wms-ingresos/internal/domain/intake"
)

var legales = map[[2]entity.Estado]bool{
	{entity.EstadoPaletizado, entity.EstadoValidado}: true,
	{entity.EstadoPaletizado, entity.EstadoAnulado}:  true,
	{entity.EstadoValidado, entity.EstadoAlmacenado}: true,
	{entity.EstadoValidado, entity.EstadoAnulado}:    true,
}

// Recorre el producto cartesiano de estados: solo los cuatro pares de la tabla son legales.
func TestValidateTransition_ProductoCartesiano(t *testing.T) {
	for _, from := range entity.Estados() {
		for _, to := range entity.Estados() {
			err := intake.ValidateTransition(from, to)
			if legales[[2]entity.Estado{from, to}] {
				assert.NoError(t, err, "%s → %s debe ser legal", from, to)
				assert.True(t, intake.CanTransition(from, to))
				continue
			}
			require.Error(t, err, "%s → %s debe ser ilegal", from, to)
			assert.True(t, errors.Is(err, domain.ErrIllegalTransition))
			assert.False(t, intake.CanTransition(from, to))

			var ite *domain.IllegalTransitionError
			require.ErrorAs(t, err, &ite)
			assert.Equal(t, string(from), ite.From)
			assert.Equal(t, string(to), ite.To)
		}
	}
}

func TestValidateTransition_NoPermiteSaltarValidado(t *testing.T) {
	err := intake.ValidateTransition(entity.EstadoPaletizado, entity.EstadoAlmacenado)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestValidateTransition_EstadoDesconocido(t *testing.T) {
	err := intake.ValidateTransition(entity.Estado("perdido"), entity.EstadoValidado)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestTransitions_TerminalesSinSalida(t *testing.T) {
	assert.Empty(t, intake.Transitions(entity.EstadoAlmacenado))
	assert.Empty(t, intake.Transitions(entity.EstadoAnulado))
	assert.ElementsMatch(t,
		[]entity.Estado{entity.EstadoValidado, entity.EstadoAnulado},
		intake.Transitions(entity.EstadoPaletizado))

	// La copia devuelta no debe alterar la tabla interna.
	out := intake.Transitions(entity.EstadoValidado)
	out[0] = entity.EstadoPaletizado
	assert.True(t, intake.CanTransition(entity.EstadoValidado, entity.EstadoAlmacenado))
}
