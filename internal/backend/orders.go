package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mmeshcher/restopanel-system/internal/model"
	"github.com/mmeshcher/restopanel-system/internal/session"
)

// CreateOrderRequest описывает данные создания заказа.
type CreateOrderRequest struct {
	RestaurantID string            `json:"id_restaurante"`
	TableID      string            `json:"id_mesa,omitempty"`
	Type         model.OrderType   `json:"tipo_pedido"`
	Status       model.OrderStatus `json:"estado"`
	Total        float64           `json:"total"`
	Number       string            `json:"numero"`
	Address      string            `json:"direccion,omitempty"`
	DeliveryFee  string            `json:"valor_domicilio,omitempty"`
}

// UpdateOrderRequest описывает частичное обновление заказа.
// Незаполненные поля не отправляются.
type UpdateOrderRequest struct {
	TableID string            `json:"id_mesa,omitempty"`
	Type    model.OrderType   `json:"tipo_pedido,omitempty"`
	Status  model.OrderStatus `json:"estado,omitempty"`
	Total   *float64          `json:"total,omitempty"`
	Number  string            `json:"numero,omitempty"`
	Address string            `json:"direccion,omitempty"`
}

// ListOrders возвращает все заказы, доступные пользователю.
func (c *Client) ListOrders(ctx context.Context, s *session.Session) ([]model.Order, error) {
	return call[[]model.Order](ctx, c, s, http.MethodGet, "/pedidos", nil)
}

// GetOrder возвращает заказ по идентификатору.
func (c *Client) GetOrder(ctx context.Context, s *session.Session, id string) (*model.Order, error) {
	o, err := call[model.Order](ctx, c, s, http.MethodGet, "/pedidos/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrder создаёт заказ.
func (c *Client) CreateOrder(ctx context.Context, s *session.Session, req CreateOrderRequest) (*model.Order, error) {
	o, err := call[model.Order](ctx, c, s, http.MethodPost, "/pedidos", req)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateOrder обновляет заказ; в частности, через него меняется статус.
func (c *Client) UpdateOrder(ctx context.Context, s *session.Session, id string, req UpdateOrderRequest) (*model.Order, error) {
	o, err := call[model.Order](ctx, c, s, http.MethodPut, "/pedidos/"+url.PathEscape(id), req)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// DeleteOrder удаляет заказ.
func (c *Client) DeleteOrder(ctx context.Context, s *session.Session, id string) error {
	_, err := call[struct{}](ctx, c, s, http.MethodDelete, "/pedidos/"+url.PathEscape(id), nil)
	return err
}
