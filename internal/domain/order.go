package domain

import "time"

// Package describes the parcel attached to an order.
type Package struct {
	Weight     float64
	Dimensions string
	Type       string
}

// Recipient is the person receiving an order.
type Recipient struct {
	Name  string
	Phone string
}

// Order is a shipment request as reported by the backend.
// Status keeps the backend-supplied label verbatim; use State for comparisons.
type Order struct {
	ID                 int64
	Status             string
	OriginAddress      string
	DestinationAddress string
	Package            Package
	Recipient          Recipient
	TrackingCode       string
	RouteID            *int64
	CarrierID          *int64
	UserID             int64
	CreatedAt          time.Time

	// Filled by the tracking lookup and carrier order listings only.
	CarrierName    string
	CarrierPhone   string
	LicensePlate   string
	VehicleType    string
	AssignmentDate *time.Time
}

// State returns the normalized order state.
func (o Order) State() OrderState { return ParseOrderState(o.Status) }

// StatusEvent is one entry of an order's status history.
type StatusEvent struct {
	Status      string
	Description string
	Location    string
	Notes       string
	User        string
	Timestamp   time.Time
}

// DescriptionOrDefault returns the event description or the stock text for its status.
func (e StatusEvent) DescriptionOrDefault() string {
	if e.Description != "" {
		return e.Description
	}
	return DefaultDescription(e.Status)
}

// NewOrder carries the fields of the create-order form after validation.
type NewOrder struct {
	PackageWeight      string
	PackageDimensions  string
	PackageType        string
	OriginAddress      string
	DestinationAddress string
	RecipientName      string
	RecipientPhone     string
	UserID             int64
}

// Assignment binds one route and one carrier to one order.
type Assignment struct {
	OrderID   int64
	RouteID   int64
	CarrierID int64
}
