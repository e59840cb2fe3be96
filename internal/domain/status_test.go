package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"logistics-console/internal/apperr"
)

func TestParseOrderState_CaseInsensitive(t *testing.T) {
	t.Parallel()

	require.Equal(t, OrderInTransit, ParseOrderState("En Tránsito"))
	require.Equal(t, OrderInTransit, ParseOrderState("  EN TRÁNSITO "))
	require.Equal(t, OrderPending, ParseOrderState("En espera"))
	require.Equal(t, OrderPending, ParseOrderState("Pendiente"))
	require.Equal(t, OrderDelivered, ParseOrderState("entregado"))
	require.Equal(t, OrderUnknown, ParseOrderState("perdido"))
}

func TestParseCarrierState_AndLabel(t *testing.T) {
	t.Parallel()

	require.Equal(t, CarrierAvailable, ParseCarrierState("Disponible"))
	require.Equal(t, CarrierEnRoute, ParseCarrierState("en ruta"))
	require.Equal(t, "En Mantenimiento", CarrierMaintenance.Label())
	require.False(t, CarrierUnknown.Valid())
	require.Len(t, CarrierStates(), 4)
}

func TestTones(t *testing.T) {
	t.Parallel()

	require.Equal(t, ToneInTransit, OrderTone("en tránsito"))
	require.Equal(t, TonePending, OrderTone("Pendiente"))
	require.Equal(t, ToneDefault, OrderTone(""))
	require.Equal(t, ToneOnRoute, CarrierTone("En Ruta"))
	require.Equal(t, ToneOnRoute, CarrierTone("En tránsito"))
	require.Equal(t, ToneAvailable, CarrierTone("Entregado"))
	require.Equal(t, ToneInactive, CarrierTone("INACTIVO"))
}

func TestStatusEvent_DescriptionOrDefault(t *testing.T) {
	t.Parallel()

	require.Equal(t, "custom", StatusEvent{Status: "entregado", Description: "custom"}.DescriptionOrDefault())
	require.Equal(t, "La orden ha sido cancelada.", StatusEvent{Status: "Cancelado"}.DescriptionOrDefault())
	require.Equal(t, "Estado actualizado.", StatusEvent{Status: "otro"}.DescriptionOrDefault())
}

func TestValidatePhoneAndAddress(t *testing.T) {
	t.Parallel()

	require.Empty(t, ValidatePhone("+57 (300) 123-4567"))
	require.NotEmpty(t, ValidatePhone("300abc4567"))
	require.Equal(t, "El teléfono debe tener al menos 7 dígitos", ValidatePhone("12-34"))

	require.Empty(t, ValidateStreetAddress("Calle 10"))
	require.Equal(t, "La dirección debe tener al menos 5 caracteres", ValidateStreetAddress("C 1"))
	require.Equal(t, "La dirección debe incluir un número", ValidateStreetAddress("Avenida Siempre Viva"))
}

func TestValidateRegistration(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateRegistration("ana", "secret1", "secret1"))

	err := ValidateRegistration(" ", "123", "456")
	require.True(t, errors.Is(err, apperr.ErrInvalid))

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	require.Contains(t, fe, "username")
	require.Contains(t, fe, "password")
	require.Contains(t, fe, "confirmPassword")
}
