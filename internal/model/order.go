package model

import "time"

// OrderStatus описывает статус обработки заказа.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// next задаёт однонаправленную последовательность статусов заказа.
var next = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusConfirmed,
	OrderStatusConfirmed:  OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusShipped,
	OrderStatusShipped:    OrderStatusDelivered,
}

// CanTransition проверяет допустимость перехода статуса. Движение возможно
// только вперёд по цепочке pending -> confirmed -> processing -> shipped ->
// delivered; cancelled достижим только из pending.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if to == OrderStatusCancelled {
		return s == OrderStatusPending
	}
	return next[s] == to
}

// CanCancel сообщает, доступна ли отмена заказа в текущем статусе.
func (s OrderStatus) CanCancel() bool {
	return s == OrderStatusPending
}

// PaymentMethod описывает способ оплаты заказа.
type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "cod"
	PaymentMethodCard PaymentMethod = "card"
)

// Valid проверяет, что способ оплаты поддерживается.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodCard
}

// PaymentStatus описывает состояние оплаты заказа.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ShippingAddress содержит адрес доставки заказа.
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	Ward     string `json:"ward"`
	District string `json:"district"`
	City     string `json:"city"`
}

// OrderItem представляет строку заказа. Количество и цена фиксируются в
// момент оформления и после создания заказа не меняются.
type OrderItem struct {
	ProductID string           `json:"productId"`
	Product   *ProductSnapshot `json:"product,omitempty"`
	Quantity  int              `json:"quantity"`
	Price     float64          `json:"price"`
	Subtotal  float64          `json:"subtotal"`
}

// Order представляет заказ, созданный из корзины при оформлении.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	OrderNumber     string          `json:"orderNumber"`
	Items           []OrderItem     `json:"items"`
	Subtotal        float64         `json:"subtotal"`
	ShippingFee     float64         `json:"shippingFee"`
	TotalAmount     float64         `json:"totalAmount"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	OrderStatus     OrderStatus     `json:"orderStatus"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
