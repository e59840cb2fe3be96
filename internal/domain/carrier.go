package domain

import "time"

// Vehicle holds the vehicle attributes of a carrier.
type Vehicle struct {
	Type     string
	Plate    string
	Capacity float64
	Model    string
	Year     int
}

// CarrierStats are the performance counters reported for a carrier.
type CarrierStats struct {
	ActiveOrders    int
	CompletedOrders int
	TotalDistance   float64
	Rating          float64
}

// Carrier is a driver plus vehicle that orders can be assigned to.
type Carrier struct {
	ID              int64
	Name            string
	Phone           string
	Email           string
	DocumentID      string
	Status          string
	Vehicle         Vehicle
	CurrentCity     string
	Stats           CarrierStats
	LastMaintenance *time.Time
	LastUpdate      *time.Time
	CreatedAt       *time.Time
}

// State returns the normalized carrier state.
func (c Carrier) State() CarrierState { return ParseCarrierState(c.Status) }

// Route is a fixed origin-destination path.
type Route struct {
	ID            int64
	Name          string
	Origin        string
	Destination   string
	Distance      float64
	EstimatedTime string
}

// User is the authenticated staff identity.
type User struct {
	ID       int64
	Username string
	Role     string
}
