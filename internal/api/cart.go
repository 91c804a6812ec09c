package api

import (
	"context"
	"net/http"

	"github.com/mmeshcher/artmarket-system/internal/model"
)

// cartItemRequest описывает тело запросов добавления и изменения позиции корзины.
type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// GetCart возвращает корзину текущего пользователя. Отсутствие корзины
// сервер сигнализирует статусом 404, который транслируется в ErrNotFound.
func (c *Client) GetCart(ctx context.Context) (*model.Cart, error) {
	var cart model.Cart
	if _, err := c.do(ctx, http.MethodGet, "/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart добавляет товар в корзину и возвращает полную обновлённую корзину.
func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) (*model.Cart, error) {
	var cart model.Cart
	in := cartItemRequest{ProductID: productID, Quantity: quantity}
	if _, err := c.do(ctx, http.MethodPost, "/cart/add", in, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateCartItem изменяет количество позиции и возвращает полную обновлённую корзину.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) (*model.Cart, error) {
	var cart model.Cart
	in := cartItemRequest{ProductID: productID, Quantity: quantity}
	if _, err := c.do(ctx, http.MethodPut, "/cart/update", in, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveFromCart удаляет позицию и возвращает полную обновлённую корзину.
func (c *Client) RemoveFromCart(ctx context.Context, productID string) (*model.Cart, error) {
	var cart model.Cart
	if _, err := c.do(ctx, http.MethodDelete, "/cart/remove/"+productID, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// ClearCart удаляет корзину целиком.
func (c *Client) ClearCart(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/cart/clear", nil, nil)
	return err
}
