package backend

import (
	"context"
	"net/http"
	"net/url"

	"logistics-console/internal/domain"
	"logistics-console/internal/logx"
)

// ListOrders returns every order visible to the session.
func (c *Client) ListOrders(ctx context.Context) Result[[]domain.Order] {
	body, f := fetch[ordersBody](ctx, c, call{endpoint: "list_orders", method: http.MethodGet, path: "/api/orders"})
	if f != nil {
		return Fail[[]domain.Order](f)
	}
	for _, o := range body.Orders {
		c.noteUnparsed("list_orders", int64(o.ID), o.CreatedAt)
	}
	return Ok(ordersToDomain(body.Orders))
}

// GetOrder returns one order.
func (c *Client) GetOrder(ctx context.Context, id int64) Result[domain.Order] {
	cl := call{endpoint: "get_order", method: http.MethodGet, path: idPath("/api/orders/%d", id)}
	body, f := fetch[orderBody](ctx, c, cl)
	if f != nil {
		return Fail[domain.Order](f)
	}
	if body.Order == nil {
		return Fail[domain.Order](missing(cl.endpoint, "order"))
	}
	c.noteUnparsed(cl.endpoint, int64(body.Order.ID), body.Order.CreatedAt)
	return Ok(body.Order.toDomain())
}

// OrderByTracking looks an order up by tracking code. The value is nil when
// the backend answers without an order.
func (c *Client) OrderByTracking(ctx context.Context, code string) Result[*domain.Order] {
	cl := call{endpoint: "order_by_tracking", method: http.MethodGet, path: "/api/orders/tracking/" + url.PathEscape(code)}
	body, f := fetch[orderBody](ctx, c, cl)
	if f != nil {
		return Fail[*domain.Order](f)
	}
	if body.Order == nil || body.Order.ID == 0 {
		return Ok[*domain.Order](nil)
	}
	o := body.Order.toDomain()
	return Ok(&o)
}

// StatusHistory returns the chronological status events of an order.
func (c *Client) StatusHistory(ctx context.Context, id int64) Result[[]domain.StatusEvent] {
	cl := call{endpoint: "status_history", method: http.MethodGet, path: idPath("/api/orders/%d/status-history", id)}
	body, f := fetch[historyBody](ctx, c, cl)
	if f != nil {
		return Fail[[]domain.StatusEvent](f)
	}
	return Ok(body.toDomain())
}

// CreateOrder submits a new order.
func (c *Client) CreateOrder(ctx context.Context, o domain.NewOrder) Result[Ack] {
	return ack(ctx, c, call{
		endpoint: "create_order",
		method:   http.MethodPost,
		path:     "/api/orders",
		body:     newCreateOrderRequest(o),
	})
}

// AssignManually binds a route and a carrier to an order in one request.
func (c *Client) AssignManually(ctx context.Context, a domain.Assignment) Result[Ack] {
	return ack(ctx, c, call{
		endpoint: "assign_manually",
		method:   http.MethodPost,
		path:     "/api/assign-manually",
		body:     assignRequest{OrderID: a.OrderID, RouteID: a.RouteID, CarrierID: a.CarrierID},
	})
}

// noteUnparsed logs a creation timestamp that decoded as the zero time.
func (c *Client) noteUnparsed(endpoint string, id int64, t flexTime) {
	if t.Unparsed == "" {
		return
	}
	c.logger.Debug("unparsed timestamp",
		logx.String("endpoint", endpoint),
		logx.Int64("id", id),
		logx.String("value", t.Unparsed),
	)
}
