package backend

import (
	"strings"

	"logistics-console/internal/domain"
)

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e errorBody) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

type ackBody struct {
	Message string `json:"message"`
}

type userDTO struct {
	ID       flexInt `json:"id"`
	Username string  `json:"username"`
	Role     string  `json:"role"`
}

func (u userDTO) toDomain() domain.User {
	return domain.User{ID: int64(u.ID), Username: u.Username, Role: u.Role}
}

type loginBody struct {
	Token string   `json:"token"`
	User  *userDTO `json:"user"`
}

type orderDTO struct {
	ID                 flexInt   `json:"id"`
	Status             string    `json:"status"`
	OriginAddress      string    `json:"origin_address"`
	DestinationAddress string    `json:"destination_address"`
	PackageWeight      flexFloat `json:"package_weight"`
	PackageDimensions  string    `json:"package_dimensions"`
	PackageType        string    `json:"package_type"`
	RecipientName      string    `json:"recipient_name"`
	RecipientPhone     string    `json:"recipient_phone"`
	TrackingCode       string    `json:"tracking_code"`
	RouteID            *flexInt  `json:"route_id"`
	CarrierID          *flexInt  `json:"carrier_id"`
	UserID             flexInt   `json:"user_id"`
	CreatedAt          flexTime  `json:"created_at"`
	CarrierName        string    `json:"carrier_name"`
	CarrierPhone       string    `json:"carrier_phone"`
	LicensePlate       string    `json:"license_plate"`
	VehicleType        string    `json:"vehicle_type"`
	AssignmentDate     *flexTime `json:"assignment_date"`
}

func (o orderDTO) toDomain() domain.Order {
	return domain.Order{
		ID:                 int64(o.ID),
		Status:             o.Status,
		OriginAddress:      o.OriginAddress,
		DestinationAddress: o.DestinationAddress,
		Package: domain.Package{
			Weight:     float64(o.PackageWeight),
			Dimensions: o.PackageDimensions,
			Type:       o.PackageType,
		},
		Recipient:      domain.Recipient{Name: o.RecipientName, Phone: o.RecipientPhone},
		TrackingCode:   o.TrackingCode,
		RouteID:        o.RouteID.ptr(),
		CarrierID:      o.CarrierID.ptr(),
		UserID:         int64(o.UserID),
		CreatedAt:      o.CreatedAt.Time,
		CarrierName:    o.CarrierName,
		CarrierPhone:   o.CarrierPhone,
		LicensePlate:   o.LicensePlate,
		VehicleType:    o.VehicleType,
		AssignmentDate: o.AssignmentDate.ptr(),
	}
}

func ordersToDomain(in []orderDTO) []domain.Order {
	out := make([]domain.Order, 0, len(in))
	for _, o := range in {
		out = append(out, o.toDomain())
	}
	return out
}

type ordersBody struct {
	Orders []orderDTO `json:"orders"`
}

type orderBody struct {
	Order *orderDTO `json:"order"`
}

type statusEventDTO struct {
	Status      string   `json:"status"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Notes       string   `json:"notes"`
	User        string   `json:"user"`
	Timestamp   flexTime `json:"timestamp"`
}

// historyBody: the backend returns the history array under "order".
type historyBody struct {
	Order   []statusEventDTO `json:"order"`
	History []statusEventDTO `json:"history"`
}

func (h historyBody) toDomain() []domain.StatusEvent {
	src := h.Order
	if len(src) == 0 {
		src = h.History
	}
	out := make([]domain.StatusEvent, 0, len(src))
	for _, e := range src {
		out = append(out, domain.StatusEvent{
			Status:      e.Status,
			Description: e.Description,
			Location:    e.Location,
			Notes:       e.Notes,
			User:        e.User,
			Timestamp:   e.Timestamp.Time,
		})
	}
	return out
}

type routeDTO struct {
	ID            flexInt   `json:"id"`
	Name          string    `json:"name"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	Distance      flexFloat `json:"distance"`
	EstimatedTime string    `json:"estimated_time"`
}

func (r routeDTO) toDomain() domain.Route {
	return domain.Route{
		ID:            int64(r.ID),
		Name:          r.Name,
		Origin:        r.Origin,
		Destination:   r.Destination,
		Distance:      float64(r.Distance),
		EstimatedTime: r.EstimatedTime,
	}
}

type routesBody struct {
	Routes []routeDTO `json:"routes"`
}

type routeBody struct {
	Route *routeDTO `json:"route"`
}

type carrierDTO struct {
	ID              flexInt   `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	DocumentID      string    `json:"document_id"`
	Status          string    `json:"status"`
	VehicleType     string    `json:"vehicle_type"`
	LicensePlate    string    `json:"license_plate"`
	Capacity        flexFloat `json:"capacity"`
	VehicleModel    string    `json:"vehicle_model"`
	VehicleYear     flexInt   `json:"vehicle_year"`
	CurrentCity     string    `json:"current_city"`
	ActiveOrders    flexInt   `json:"active_orders"`
	CompletedOrders flexInt   `json:"completed_orders"`
	TotalDistance   flexFloat `json:"total_distance"`
	Rating          flexFloat `json:"rating"`
	LastMaintenance *flexTime `json:"last_maintenance"`
	LastUpdate      *flexTime `json:"last_update"`
	CreatedAt       *flexTime `json:"created_at"`
}

func (c carrierDTO) toDomain() domain.Carrier {
	return domain.Carrier{
		ID:         int64(c.ID),
		Name:       c.Name,
		Phone:      c.Phone,
		Email:      c.Email,
		DocumentID: c.DocumentID,
		Status:     c.Status,
		Vehicle: domain.Vehicle{
			Type:     c.VehicleType,
			Plate:    c.LicensePlate,
			Capacity: float64(c.Capacity),
			Model:    c.VehicleModel,
			Year:     int(c.VehicleYear),
		},
		CurrentCity: c.CurrentCity,
		Stats: domain.CarrierStats{
			ActiveOrders:    int(c.ActiveOrders),
			CompletedOrders: int(c.CompletedOrders),
			TotalDistance:   float64(c.TotalDistance),
			Rating:          float64(c.Rating),
		},
		LastMaintenance: c.LastMaintenance.ptr(),
		LastUpdate:      c.LastUpdate.ptr(),
		CreatedAt:       c.CreatedAt.ptr(),
	}
}

type carriersBody struct {
	Carriers []carrierDTO `json:"carriers"`
}

type carrierBody struct {
	Carrier *carrierDTO `json:"carrier"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createOrderRequest struct {
	PackageWeight      string `json:"packageWeight"`
	PackageDimensions  string `json:"packageDimensions"`
	PackageType        string `json:"packageType"`
	OriginAddress      string `json:"originAddress"`
	DestinationAddress string `json:"destinationAddress"`
	RecipientName      string `json:"recipientName"`
	RecipientPhone     string `json:"recipientPhone"`
	UserID             int64  `json:"userId"`
}

func newCreateOrderRequest(o domain.NewOrder) createOrderRequest {
	return createOrderRequest{
		PackageWeight:      strings.TrimSpace(o.PackageWeight),
		PackageDimensions:  strings.TrimSpace(o.PackageDimensions),
		PackageType:        o.PackageType,
		OriginAddress:      o.OriginAddress,
		DestinationAddress: o.DestinationAddress,
		RecipientName:      strings.TrimSpace(o.RecipientName),
		RecipientPhone:     strings.TrimSpace(o.RecipientPhone),
		UserID:             o.UserID,
	}
}

type assignRequest struct {
	OrderID   int64 `json:"orderId"`
	RouteID   int64 `json:"routeId"`
	CarrierID int64 `json:"carrierId"`
}

type carrierStatusRequest struct {
	Status string `json:"status"`
}
