package domain

// Tone is the presentation class a status badge is rendered with.
type Tone string

// Status tones.
const (
	ToneDelivered   Tone = "delivered"
	ToneInTransit   Tone = "in-transit"
	TonePending     Tone = "pending"
	ToneCancelled   Tone = "cancelled"
	ToneAvailable   Tone = "available"
	ToneOnRoute     Tone = "on-route"
	ToneMaintenance Tone = "maintenance"
	ToneInactive    Tone = "inactive"
	ToneDefault     Tone = "default"
)

// OrderTone maps an order status label to its badge tone.
func OrderTone(status string) Tone {
	switch ParseOrderState(status) {
	case OrderDelivered:
		return ToneDelivered
	case OrderInTransit:
		return ToneInTransit
	case OrderPending:
		return TonePending
	case OrderCancelled:
		return ToneCancelled
	default:
		return ToneDefault
	}
}

// CarrierTone maps a carrier status label to its badge tone.
// Order labels shown on the carrier screen (its active orders) are mapped too.
func CarrierTone(status string) Tone {
	switch ParseCarrierState(status) {
	case CarrierAvailable:
		return ToneAvailable
	case CarrierEnRoute:
		return ToneOnRoute
	case CarrierMaintenance:
		return ToneMaintenance
	case CarrierInactive:
		return ToneInactive
	}
	switch ParseOrderState(status) {
	case OrderInTransit:
		return ToneOnRoute
	case OrderDelivered:
		return ToneAvailable
	}
	return ToneDefault
}
