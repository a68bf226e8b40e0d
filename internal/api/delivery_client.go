package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rc-foods/courier-client/internal/domain"
)

// AreaOrdersRequest filters an area order query. Zero values are omitted
// from the outgoing query string.
type AreaOrdersRequest struct {
	AreaID        int
	MealTime      domain.MealTime
	Date          string // YYYY-MM-DD
	PaymentStatus domain.PaymentStatus
}

// Params exposes the query as a parameter set, used both for the wire
// query and for cache key derivation.
func (r AreaOrdersRequest) Params() map[string]any {
	params := map[string]any{}
	if r.AreaID != 0 {
		params["area_id"] = r.AreaID
	}
	if r.MealTime != "" {
		params["meal_time"] = string(r.MealTime)
	}
	if r.Date != "" {
		params["date"] = r.Date
	}
	if r.PaymentStatus != "" {
		params["payment_status"] = string(r.PaymentStatus)
	}
	return params
}

// AreaOrdersResponse is a typed order listing for one area query.
type AreaOrdersResponse struct {
	Message       string                 `json:"message"`
	AreaID        int                    `json:"area_id"`
	MealTime      string                 `json:"meal_time"`
	Date          string                 `json:"date"`
	PaymentStatus string                 `json:"payment_status"`
	Orders        []domain.DeliveryOrder `json:"orders"`
	Total         int                    `json:"total"`
}

// PaymentUpdateResponse acknowledges a payment-status change.
type PaymentUpdateResponse struct {
	Message       string `json:"message"`
	OrderID       string `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
	Result        any    `json:"result"`
}

// DeliveryClient shapes requests against the delivery/orders service.
type DeliveryClient struct {
	pipeline *Client
}

// NewDeliveryClient builds the client over a pipeline.
func NewDeliveryClient(pipeline *Client) *DeliveryClient {
	return &DeliveryClient{pipeline: pipeline}
}

// AreaOrders lists orders for an area. The raw records are normalized at
// this boundary, so callers only ever see the typed shape regardless of
// which field spelling the backend picked.
func (c *DeliveryClient) AreaOrders(ctx context.Context, req AreaOrdersRequest) (*AreaOrdersResponse, error) {
	query := url.Values{}
	for name, value := range req.Params() {
		switch v := value.(type) {
		case int:
			query.Set(name, strconv.Itoa(v))
		case string:
			query.Set(name, v)
		}
	}

	var raw struct {
		Message       string `json:"message"`
		AreaID        int    `json:"area_id"`
		MealTime      string `json:"meal_time"`
		Date          string `json:"date"`
		PaymentStatus string `json:"payment_status"`
		Orders        []any  `json:"orders"`
	}
	if _, err := c.pipeline.Get(ctx, "/delivery/orders/area", query, &raw); err != nil {
		return nil, err
	}

	orders := domain.NormalizeOrders(raw.Orders)
	return &AreaOrdersResponse{
		Message:       raw.Message,
		AreaID:        raw.AreaID,
		MealTime:      raw.MealTime,
		Date:          raw.Date,
		PaymentStatus: raw.PaymentStatus,
		Orders:        orders,
		Total:         len(orders),
	}, nil
}

// MyAreaOrders lists orders for the delivery person's assigned area.
func (c *DeliveryClient) MyAreaOrders(ctx context.Context) (*AreaOrdersResponse, error) {
	var raw struct {
		Message string `json:"message"`
		AreaID  int    `json:"area_id"`
		Orders  []any  `json:"orders"`
	}
	if _, err := c.pipeline.Get(ctx, "/delivery/orders/my-area", nil, &raw); err != nil {
		return nil, err
	}

	orders := domain.NormalizeOrders(raw.Orders)
	return &AreaOrdersResponse{
		Message: raw.Message,
		AreaID:  raw.AreaID,
		Orders:  orders,
		Total:   len(orders),
	}, nil
}

// UpdatePaymentStatus marks an order's collection state.
func (c *DeliveryClient) UpdatePaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus) (*PaymentUpdateResponse, error) {
	body := map[string]string{"payment_status": string(status)}
	var resp PaymentUpdateResponse
	if _, err := c.pipeline.Put(ctx, "/delivery/orders/"+url.PathEscape(orderID)+"/payment", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
