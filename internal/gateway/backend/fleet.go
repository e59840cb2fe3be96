package backend

import (
	"context"
	"net/http"

	"logistics-console/internal/domain"
)

// ListRoutes returns every route.
func (c *Client) ListRoutes(ctx context.Context) Result[[]domain.Route] {
	body, f := fetch[routesBody](ctx, c, call{endpoint: "list_routes", method: http.MethodGet, path: "/api/list-routes"})
	if f != nil {
		return Fail[[]domain.Route](f)
	}
	out := make([]domain.Route, 0, len(body.Routes))
	for _, r := range body.Routes {
		out = append(out, r.toDomain())
	}
	return Ok(out)
}

// GetRoute returns one route.
func (c *Client) GetRoute(ctx context.Context, id int64) Result[domain.Route] {
	cl := call{endpoint: "get_route", method: http.MethodGet, path: idPath("/api/list-routes/%d", id)}
	body, f := fetch[routeBody](ctx, c, cl)
	if f != nil {
		return Fail[domain.Route](f)
	}
	if body.Route == nil {
		return Fail[domain.Route](missing(cl.endpoint, "route"))
	}
	return Ok(body.Route.toDomain())
}

// ListCarriers returns every carrier.
func (c *Client) ListCarriers(ctx context.Context) Result[[]domain.Carrier] {
	body, f := fetch[carriersBody](ctx, c, call{endpoint: "list_carriers", method: http.MethodGet, path: "/api/list-carriers"})
	if f != nil {
		return Fail[[]domain.Carrier](f)
	}
	out := make([]domain.Carrier, 0, len(body.Carriers))
	for _, cr := range body.Carriers {
		out = append(out, cr.toDomain())
	}
	return Ok(out)
}

// GetCarrier returns one carrier.
func (c *Client) GetCarrier(ctx context.Context, id int64) Result[domain.Carrier] {
	cl := call{endpoint: "get_carrier", method: http.MethodGet, path: idPath("/api/list-carriers/%d", id)}
	body, f := fetch[carrierBody](ctx, c, cl)
	if f != nil {
		return Fail[domain.Carrier](f)
	}
	if body.Carrier == nil {
		return Fail[domain.Carrier](missing(cl.endpoint, "carrier"))
	}
	return Ok(body.Carrier.toDomain())
}

// CarrierOrders returns the active orders of a carrier.
func (c *Client) CarrierOrders(ctx context.Context, id int64) Result[[]domain.Order] {
	body, f := fetch[ordersBody](ctx, c, call{endpoint: "carrier_orders", method: http.MethodGet, path: idPath("/api/carriers/%d/orders", id)})
	if f != nil {
		return Fail[[]domain.Order](f)
	}
	return Ok(ordersToDomain(body.Orders))
}

// UpdateCarrierStatus sets the carrier status to the given backend label.
func (c *Client) UpdateCarrierStatus(ctx context.Context, id int64, status string) Result[Ack] {
	return ack(ctx, c, call{
		endpoint: "update_carrier_status",
		method:   http.MethodPatch,
		path:     idPath("/api/carriers/%d/status", id),
		body:     carrierStatusRequest{Status: status},
	})
}

// DeleteCarrier removes a carrier. The backend refuses while it has active orders.
func (c *Client) DeleteCarrier(ctx context.Context, id int64) Result[Ack] {
	return ack(ctx, c, call{endpoint: "delete_carrier", method: http.MethodDelete, path: idPath("/api/carriers/%d", id)})
}
