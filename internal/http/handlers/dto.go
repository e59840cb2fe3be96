package handlers

import (
	"time"

	"logistics-console/internal/domain"
	"logistics-console/internal/service/assignment"
	"logistics-console/internal/service/detail"
	"logistics-console/internal/service/listing"
)

type userDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

type sessionDTO struct {
	Active   bool       `json:"active"`
	User     *userDTO   `json:"user,omitempty"`
	Greeting string     `json:"greeting,omitempty"`
	Menu     []menuItem `json:"menu,omitempty"`
}

type menuItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type orderDTO struct {
	ID                 int64       `json:"id"`
	Status             string      `json:"status"`
	Tone               domain.Tone `json:"tone"`
	OriginAddress      string      `json:"origin_address"`
	DestinationAddress string      `json:"destination_address"`
	Origin             string      `json:"origin"`
	Destination        string      `json:"destination"`
	PackageWeight      float64     `json:"package_weight"`
	PackageDimensions  string      `json:"package_dimensions"`
	PackageType        string      `json:"package_type"`
	RecipientName      string      `json:"recipient_name"`
	RecipientPhone     string      `json:"recipient_phone"`
	TrackingCode       string      `json:"tracking_code"`
	RouteID            *int64      `json:"route_id"`
	CarrierID          *int64      `json:"carrier_id"`
	CreatedAt          *time.Time  `json:"created_at,omitempty"`
	CarrierName        string      `json:"carrier_name,omitempty"`
	AssignmentDate     *time.Time  `json:"assignment_date,omitempty"`
}

func toOrderDTO(o domain.Order) orderDTO {
	dto := orderDTO{
		ID:                 o.ID,
		Status:             o.Status,
		Tone:               domain.OrderTone(o.Status),
		OriginAddress:      o.OriginAddress,
		DestinationAddress: o.DestinationAddress,
		Origin:             domain.ExtractCityAndDepartment(o.OriginAddress),
		Destination:        domain.ExtractCityAndDepartment(o.DestinationAddress),
		PackageWeight:      o.Package.Weight,
		PackageDimensions:  o.Package.Dimensions,
		PackageType:        o.Package.Type,
		RecipientName:      o.Recipient.Name,
		RecipientPhone:     o.Recipient.Phone,
		TrackingCode:       o.TrackingCode,
		RouteID:            o.RouteID,
		CarrierID:          o.CarrierID,
		CarrierName:        o.CarrierName,
		AssignmentDate:     o.AssignmentDate,
	}
	if !o.CreatedAt.IsZero() {
		t := o.CreatedAt
		dto.CreatedAt = &t
	}
	return dto
}

func toOrderDTOs(orders []domain.Order) []orderDTO {
	out := make([]orderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o))
	}
	return out
}

type routeDTO struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	Distance      float64 `json:"distance"`
	EstimatedTime string  `json:"estimated_time"`
}

func toRouteDTO(r domain.Route) routeDTO {
	return routeDTO{
		ID:            r.ID,
		Name:          r.Name,
		Origin:        r.Origin,
		Destination:   r.Destination,
		Distance:      r.Distance,
		EstimatedTime: r.EstimatedTime,
	}
}

func toRouteDTOs(routes []domain.Route) []routeDTO {
	out := make([]routeDTO, 0, len(routes))
	for _, r := range routes {
		out = append(out, toRouteDTO(r))
	}
	return out
}

type carrierDTO struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Phone           string      `json:"phone"`
	Email           string      `json:"email"`
	DocumentID      string      `json:"document_id"`
	Status          string      `json:"status"`
	Tone            domain.Tone `json:"tone"`
	VehicleType     string      `json:"vehicle_type"`
	LicensePlate    string      `json:"license_plate"`
	Capacity        float64     `json:"capacity"`
	VehicleModel    string      `json:"vehicle_model,omitempty"`
	VehicleYear     int         `json:"vehicle_year,omitempty"`
	CurrentCity     string      `json:"current_city"`
	ActiveOrders    int         `json:"active_orders"`
	CompletedOrders int         `json:"completed_orders"`
	TotalDistance   float64     `json:"total_distance"`
	Rating          float64     `json:"rating"`
	LastMaintenance *time.Time  `json:"last_maintenance,omitempty"`
	LastUpdate      *time.Time  `json:"last_update,omitempty"`
}

func toCarrierDTO(c domain.Carrier) carrierDTO {
	return carrierDTO{
		ID:              c.ID,
		Name:            c.Name,
		Phone:           c.Phone,
		Email:           c.Email,
		DocumentID:      c.DocumentID,
		Status:          c.Status,
		Tone:            domain.CarrierTone(c.Status),
		VehicleType:     c.Vehicle.Type,
		LicensePlate:    c.Vehicle.Plate,
		Capacity:        c.Vehicle.Capacity,
		VehicleModel:    c.Vehicle.Model,
		VehicleYear:     c.Vehicle.Year,
		CurrentCity:     c.CurrentCity,
		ActiveOrders:    c.Stats.ActiveOrders,
		CompletedOrders: c.Stats.CompletedOrders,
		TotalDistance:   c.Stats.TotalDistance,
		Rating:          c.Stats.Rating,
		LastMaintenance: c.LastMaintenance,
		LastUpdate:      c.LastUpdate,
	}
}

func toCarrierDTOs(carriers []domain.Carrier) []carrierDTO {
	out := make([]carrierDTO, 0, len(carriers))
	for _, c := range carriers {
		out = append(out, toCarrierDTO(c))
	}
	return out
}

type pageDTO[T any] struct {
	Items      []T    `json:"items"`
	Page       int    `json:"page"`
	Size       int    `json:"size"`
	TotalItems int    `json:"total_items"`
	TotalPages int    `json:"total_pages"`
	HasPrev    bool   `json:"has_prev"`
	HasNext    bool   `json:"has_next"`
	Loading    bool   `json:"loading"`
	Error      string `json:"error,omitempty"`
}

func toPageDTO[T, D any](p listing.Page[T], conv func([]T) []D, v listView) pageDTO[D] {
	_, loading, errMsg := v.Status()
	return pageDTO[D]{
		Items:      conv(p.Items),
		Page:       p.Number,
		Size:       p.Size,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
		HasPrev:    p.HasPrev(),
		HasNext:    p.HasNext(),
		Loading:    loading,
		Error:      errMsg,
	}
}

type statusEventDTO struct {
	Status      string      `json:"status"`
	Tone        domain.Tone `json:"tone"`
	Description string      `json:"description"`
	Location    string      `json:"location,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	User        string      `json:"user,omitempty"`
	Timestamp   *time.Time  `json:"timestamp,omitempty"`
}

func toHistoryDTO(events []domain.StatusEvent) []statusEventDTO {
	out := make([]statusEventDTO, 0, len(events))
	for _, e := range events {
		dto := statusEventDTO{
			Status:      e.Status,
			Tone:        domain.OrderTone(e.Status),
			Description: e.DescriptionOrDefault(),
			Location:    e.Location,
			Notes:       e.Notes,
			User:        e.User,
		}
		if !e.Timestamp.IsZero() {
			ts := e.Timestamp
			dto.Timestamp = &ts
		}
		out = append(out, dto)
	}
	return out
}

type orderDetailDTO struct {
	Order        orderDTO         `json:"order"`
	Route        *routeDTO        `json:"route"`
	Carrier      *carrierDTO      `json:"carrier"`
	RouteLabel   string           `json:"route_label"`
	CarrierLabel string           `json:"carrier_label"`
	History      []statusEventDTO `json:"history"`
	Reassignable bool             `json:"reassignable"`
}

func toOrderDetailDTO(v detail.OrderView, reassignable bool) orderDetailDTO {
	dto := orderDetailDTO{
		Order:        toOrderDTO(v.Order),
		RouteLabel:   v.RouteLabel(),
		CarrierLabel: v.CarrierLabel(),
		History:      toHistoryDTO(v.History),
		Reassignable: reassignable,
	}
	if v.Route != nil {
		r := toRouteDTO(*v.Route)
		dto.Route = &r
	}
	if v.Carrier != nil {
		c := toCarrierDTO(*v.Carrier)
		dto.Carrier = &c
	}
	return dto
}

type trackingDTO struct {
	Code    string           `json:"code"`
	Order   orderDTO         `json:"order"`
	History []statusEventDTO `json:"history"`
}

type carrierDetailDTO struct {
	Carrier      carrierDTO `json:"carrier"`
	ActiveOrders []orderDTO `json:"active_orders"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type modalDTO struct {
	State     string `json:"state"`
	CarrierID int64  `json:"carrier_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
	Success   string `json:"success,omitempty"`
}

func toModalDTO(s detail.ModalSnapshot) modalDTO {
	return modalDTO{
		State:     s.State.String(),
		CarrierID: s.CarrierID,
		Status:    s.Choice,
		Error:     s.Error,
		Success:   s.Success,
	}
}

type createOrderRequest struct {
	PackageWeight         string `json:"packageWeight"`
	PackageDimensions     string `json:"packageDimensions"`
	PackageType           string `json:"packageType"`
	OriginDepartment      string `json:"originDepartamento"`
	OriginCity            string `json:"originCiudad"`
	OriginAddress         string `json:"originAddress"`
	DestinationDepartment string `json:"destinationDepartamento"`
	DestinationCity       string `json:"destinationCiudad"`
	DestinationAddress    string `json:"destinationAddress"`
	RecipientName         string `json:"recipientName"`
	RecipientPhone        string `json:"recipientPhone"`
}

type selectionRequest struct {
	RouteID   string `json:"routeId"`
	CarrierID string `json:"carrierId"`
}

type assignmentDTO struct {
	State         string       `json:"state"`
	OrderID       int64        `json:"order_id,omitempty"`
	Routes        []routeDTO   `json:"routes"`
	Carriers      []carrierDTO `json:"carriers"`
	RoutesError   string       `json:"routes_error,omitempty"`
	CarriersError string       `json:"carriers_error,omitempty"`
	RouteID       string       `json:"route_id,omitempty"`
	CarrierID     string       `json:"carrier_id,omitempty"`
	Error         string       `json:"error,omitempty"`
	Success       string       `json:"success,omitempty"`
	// Order is the refetched order once a finished workflow has settled.
	Order *orderDetailDTO `json:"order,omitempty"`
}

func toAssignmentDTO(s assignment.Snapshot) assignmentDTO {
	return assignmentDTO{
		State:         s.State.String(),
		OrderID:       s.Order.ID,
		Routes:        toRouteDTOs(s.Routes),
		Carriers:      toCarrierDTOs(s.Carriers),
		RoutesError:   s.RoutesError,
		CarriersError: s.CarriersError,
		RouteID:       s.Selection.RouteID,
		CarrierID:     s.Selection.CarrierID,
		Error:         s.Error,
		Success:       s.Success,
	}
}
