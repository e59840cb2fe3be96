package domain

import "strings"

type (
	// OrderState is the normalized lifecycle state of an order.
	OrderState string
	// CarrierState is the normalized availability state of a carrier.
	CarrierState string
)

// Order states.
const (
	OrderPending   OrderState = "pending"
	OrderAssigned  OrderState = "assigned"
	OrderInTransit OrderState = "in_transit"
	OrderDelivered OrderState = "delivered"
	OrderCancelled OrderState = "cancelled"
	OrderUnknown   OrderState = "unknown"
)

// Carrier states.
const (
	CarrierAvailable   CarrierState = "available"
	CarrierEnRoute     CarrierState = "en_route"
	CarrierMaintenance CarrierState = "maintenance"
	CarrierInactive    CarrierState = "inactive"
	CarrierUnknown     CarrierState = "unknown"
)

var orderAliases = map[string]OrderState{
	"en espera":   OrderPending,
	"pendiente":   OrderPending,
	"pending":     OrderPending,
	"asignado":    OrderAssigned,
	"asignada":    OrderAssigned,
	"assigned":    OrderAssigned,
	"en tránsito": OrderInTransit,
	"en transito": OrderInTransit,
	"in_transit":  OrderInTransit,
	"in-transit":  OrderInTransit,
	"entregado":   OrderDelivered,
	"entregada":   OrderDelivered,
	"delivered":   OrderDelivered,
	"cancelado":   OrderCancelled,
	"cancelada":   OrderCancelled,
	"cancelled":   OrderCancelled,
}

var carrierAliases = map[string]CarrierState{
	"disponible":       CarrierAvailable,
	"available":        CarrierAvailable,
	"en ruta":          CarrierEnRoute,
	"en-route":         CarrierEnRoute,
	"en_route":         CarrierEnRoute,
	"en mantenimiento": CarrierMaintenance,
	"mantenimiento":    CarrierMaintenance,
	"maintenance":      CarrierMaintenance,
	"inactivo":         CarrierInactive,
	"inactive":         CarrierInactive,
}

var carrierLabels = map[CarrierState]string{
	CarrierAvailable:   "Disponible",
	CarrierEnRoute:     "En Ruta",
	CarrierMaintenance: "En Mantenimiento",
	CarrierInactive:    "Inactivo",
}

// NormalizeStatus lowercases and trims a backend status label.
func NormalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseOrderState maps a backend label (any case) to an OrderState.
func ParseOrderState(s string) OrderState {
	if st, ok := orderAliases[NormalizeStatus(s)]; ok {
		return st
	}
	return OrderUnknown
}

// ParseCarrierState maps a backend label (any case) to a CarrierState.
func ParseCarrierState(s string) CarrierState {
	if st, ok := carrierAliases[NormalizeStatus(s)]; ok {
		return st
	}
	return CarrierUnknown
}

// Label returns the label the backend expects for the state.
func (s CarrierState) Label() string {
	return carrierLabels[s]
}

// Valid reports whether s is one of the selectable carrier states.
func (s CarrierState) Valid() bool {
	_, ok := carrierLabels[s]
	return ok
}

// CarrierStates lists the selectable carrier states in display order.
func CarrierStates() []CarrierState {
	return []CarrierState{CarrierAvailable, CarrierEnRoute, CarrierMaintenance, CarrierInactive}
}

// DefaultDescription returns the stock history text for a status label.
func DefaultDescription(status string) string {
	switch ParseOrderState(status) {
	case OrderPending:
		return "La orden ha sido registrada y está en espera de ser procesada."
	case OrderAssigned:
		return "La orden ha sido asignada a un transportista y está lista para ser recogida."
	case OrderInTransit:
		return "La orden está en camino hacia el destino."
	case OrderDelivered:
		return "La orden ha sido entregada exitosamente en el destino."
	case OrderCancelled:
		return "La orden ha sido cancelada."
	default:
		return "Estado actualizado."
	}
}
