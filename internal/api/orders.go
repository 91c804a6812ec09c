package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmeshcher/artmarket-system/internal/model"
)

// OrderItemInput описывает строку заказа в запросе оформления: количество и
// цена берутся из снимка корзины, а не из актуального товара.
type OrderItemInput struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CreateOrderInput описывает запрос на создание заказа.
type CreateOrderInput struct {
	Items           []OrderItemInput      `json:"items"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   model.PaymentMethod   `json:"paymentMethod"`
	Notes           string                `json:"notes,omitempty"`
}

// Orders возвращает страницу заказов текущего пользователя.
func (c *Client) Orders(ctx context.Context, page, limit int) ([]model.Order, *model.Pagination, error) {
	path := "/orders"
	if page > 0 || limit > 0 {
		path = fmt.Sprintf("/orders?page=%d&limit=%d", page, limit)
	}

	var orders []model.Order
	pg, err := c.do(ctx, http.MethodGet, path, nil, &orders)
	if err != nil {
		return nil, nil, err
	}
	return orders, pg, nil
}

// Order возвращает заказ по идентификатору.
func (c *Client) Order(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if _, err := c.do(ctx, http.MethodGet, "/orders/"+id, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder создаёт заказ из переданных строк. Сервер очищает корзину
// как побочный эффект успешного создания.
func (c *Client) CreateOrder(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	var order model.Order
	if _, err := c.do(ctx, http.MethodPost, "/orders", in, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder отменяет заказ. Допустимо только для заказов в статусе pending;
// решение остаётся за сервером.
func (c *Client) CancelOrder(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if _, err := c.do(ctx, http.MethodPatch, "/orders/"+id+"/cancel", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// AllOrders возвращает заказы всех пользователей. Требует роли администратора.
func (c *Client) AllOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if _, err := c.do(ctx, http.MethodGet, "/orders/admin/all", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus переводит заказ в новый статус. Требует роли администратора.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	in := map[string]model.OrderStatus{"orderStatus": status}
	var order model.Order
	if _, err := c.do(ctx, http.MethodPut, "/orders/"+id, in, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
