package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

func TestNormalizeMovementType(t *testing.T) {
	cases := []struct {
		raw  string
		want entity.MovementType
	}{
		{"IN", entity.MovementTypeIn},
		{"Receive", entity.MovementTypeIn},
		{"receipt", entity.MovementTypeIn},
		{"RETURN", entity.MovementTypeIn},
		{"  received  ", entity.MovementTypeIn},
		{"OUT", entity.MovementTypeOut},
		{"Issue", entity.MovementTypeOut},
		{"checkout", entity.MovementTypeOut},
		{"ADJUST", entity.MovementTypeAdjust},
		{"Adjustment", entity.MovementTypeAdjust},
		{"consume", entity.MovementTypeConsumption},
		{"Consumption", entity.MovementTypeConsumption},
		{"produce", entity.MovementTypeProduction},
		{"PRODUCED", entity.MovementTypeProduction},
		{"TRANSFER", ""},
		{"", ""},
	}
	for _, tc := range cases {
		got := dto.NormalizeMovementType(tc.raw)
		assert.Equal(t, tc.want, got, "entrada %q", tc.raw)
	}
}

func TestNormalizeSignedQuantity(t *testing.T) {
	// Tipos de salida: el valor absoluto se vuelve negativo.
	assert.Equal(t, int64(-5), dto.NormalizeSignedQuantity(entity.MovementTypeOut, 5))
	assert.Equal(t, int64(-5), dto.NormalizeSignedQuantity(entity.MovementTypeOut, -5))
	assert.Equal(t, int64(-3), dto.NormalizeSignedQuantity(entity.MovementTypeConsumption, 3))

	// Tipos de entrada: el signo negativo se corrige.
	assert.Equal(t, int64(7), dto.NormalizeSignedQuantity(entity.MovementTypeIn, -7))
	assert.Equal(t, int64(7), dto.NormalizeSignedQuantity(entity.MovementTypeIn, 7))
	assert.Equal(t, int64(2), dto.NormalizeSignedQuantity(entity.MovementTypeProduction, -2))

	// ADJUST respeta el signo del cliente.
	assert.Equal(t, int64(-4), dto.NormalizeSignedQuantity(entity.MovementTypeAdjust, -4))
	assert.Equal(t, int64(4), dto.NormalizeSignedQuantity(entity.MovementTypeAdjust, 4))
}
