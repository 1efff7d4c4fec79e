package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmadesk/stockdesk/internal/application/dto"
	"github.com/farmadesk/stockdesk/internal/domain"
	"github.com/farmadesk/stockdesk/internal/infrastructure/memory"
)

func TestAuthenticate(t *testing.T) {
	store := memory.NewSeeded()

	user, err := store.Authenticate("admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)

	// El username no distingue mayúsculas ni espacios alrededor.
	_, err = store.Authenticate("  ADMIN ", "admin123")
	assert.NoError(t, err)

	_, err = store.Authenticate("admin", "otra")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = store.Authenticate("nadie", "admin123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestListProducts(t *testing.T) {
	store := memory.NewSeeded()

	all := store.ListProducts("")
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID, "el catálogo sale ordenado por id")
	}

	// Filtro sin mayúsculas ni tildes sobre nombre y descripción.
	got := store.ListProducts("CÁPSULAS")
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.Contains(t, p.Description, "cápsulas")
	}

	assert.Empty(t, store.ListProducts("inexistente"))
}

// Un movimiento se aplica entero o se rechaza entero: nunca hay commit parcial.
func TestApplyMovement_TodoONada(t *testing.T) {
	store := memory.NewSeeded()
	antes := store.ListProducts("")

	// Loratadina (id 7) tiene stock 8: pedir 50 rechaza el movimiento entero,
	// incluido el renglón de Ibuprofeno que sí tenía stock.
	rejected, err := store.ApplyMovement(dto.CreateMovementRequest{
		Type: "sale",
		Lines: []dto.MovementLineRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 7, Quantity: 50},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	require.Len(t, rejected, 1)
	assert.Equal(t, int64(7), rejected[0].ProductID)
	assert.Equal(t, 8, rejected[0].Available)

	despues := store.ListProducts("")
	assert.Equal(t, antes, despues, "un rechazo no debe tocar ningún stock")
}

func TestApplyMovement_VentaDescuentaStock(t *testing.T) {
	store := memory.NewSeeded()

	rejected, err := store.ApplyMovement(dto.CreateMovementRequest{
		Type:  "sale",
		Lines: []dto.MovementLineRequest{{ProductID: 1, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Empty(t, rejected)

	p := store.ListProducts("ibuprofeno")[0]
	assert.Equal(t, 45, p.Stock)
}

func TestApplyMovement_EntradaSumaStock(t *testing.T) {
	store := memory.NewSeeded()

	// Entrada sobre un producto sin stock de sobra: la dirección suma, no valida.
	_, err := store.ApplyMovement(dto.CreateMovementRequest{
		Type:  "entry",
		Lines: []dto.MovementLineRequest{{ProductID: 7, Quantity: 100}},
	})
	require.NoError(t, err)

	p := store.ListProducts("loratadina")[0]
	assert.Equal(t, 108, p.Stock)
}

func TestApplyMovement_Invalidos(t *testing.T) {
	store := memory.NewSeeded()

	_, err := store.ApplyMovement(dto.CreateMovementRequest{Type: "sale"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin renglones")

	_, err = store.ApplyMovement(dto.CreateMovementRequest{
		Type:  "magia",
		Lines: []dto.MovementLineRequest{{ProductID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo desconocido")

	_, err = store.ApplyMovement(dto.CreateMovementRequest{
		Type:  "sale",
		Lines: []dto.MovementLineRequest{{ProductID: 999, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.ApplyMovement(dto.CreateMovementRequest{
		Type:  "sale",
		Lines: []dto.MovementLineRequest{{ProductID: 1, Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad menor a 1")
}
