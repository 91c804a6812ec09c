package model

import "time"

// ProductSnapshot содержит срез данных товара на момент добавления в корзину.
// Снимок может отсутствовать, если товар был удалён на сервере; потребители
// обязаны трактовать это как «товар больше не существует», а не как ошибку.
type ProductSnapshot struct {
	Title      string   `json:"title"`
	Images     []string `json:"images,omitempty"`
	Stock      int      `json:"stock"`
	ArtistName string   `json:"artistName"`
}

// CartItem представляет позицию корзины. Quantity всегда не меньше единицы:
// запрос на установку количества <= 0 переопределяется как удаление позиции.
type CartItem struct {
	ProductID string           `json:"productId"`
	Product   *ProductSnapshot `json:"product,omitempty"`
	Quantity  int              `json:"quantity"`
	Price     float64          `json:"price"`
}

// Cart представляет корзину пользователя. Итоги TotalItems и TotalPrice
// авторитетны со стороны сервера и локально не пересчитываются.
type Cart struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// IsEmpty сообщает, пуста ли корзина. Отсутствующая корзина тоже считается пустой.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// ConsistentTotals проверяет инварианты корзины: TotalItems равен сумме
// количеств, TotalPrice равен сумме price*quantity по всем позициям.
func (c *Cart) ConsistentTotals() bool {
	if c == nil {
		return true
	}
	items := 0
	price := 0.0
	for _, it := range c.Items {
		items += it.Quantity
		price += it.Price * float64(it.Quantity)
	}
	return items == c.TotalItems && price == c.TotalPrice
}

// Clone возвращает глубокую копию корзины для безопасной выдачи читателям.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Items = make([]CartItem, len(c.Items))
	copy(cp.Items, c.Items)
	for i, it := range c.Items {
		if it.Product != nil {
			snap := *it.Product
			cp.Items[i].Product = &snap
		}
	}
	return &cp
}
