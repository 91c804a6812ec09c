// Package checkout реализует оформление заказа: проверку условий входа,
// валидацию адреса доставки, политику стоимости доставки и отправку заказа.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mmeshcher/artmarket-system/internal/api"
	"github.com/mmeshcher/artmarket-system/internal/guard"
	"github.com/mmeshcher/artmarket-system/internal/model"
	"github.com/mmeshcher/artmarket-system/internal/validation"
)

// Политика стоимости доставки: бесплатно от порога, иначе фиксированная
// ставка. Порог воспроизводится на клиенте только для отображения; итоговую
// сумму к оплате считает сервер по тем же константам.
const (
	FreeShippingThreshold = 5_000_000
	FlatShippingFee       = 50_000
)

// Fee возвращает стоимость доставки для указанной суммы корзины.
func Fee(total float64) float64 {
	if total >= FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

// ErrEmptyCart возвращается при попытке оформить заказ из пустой корзины.
var ErrEmptyCart = errors.New("cart is empty")

// Errors содержит ошибки валидации по полям формы.
type Errors map[string]string

// ValidationError сигнализирует, что форма не прошла локальную проверку.
// Запрос к серверу при этом не выполняется.
type ValidationError struct {
	Fields Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid checkout form: %d field(s)", len(e.Fields))
}

// Form содержит поля формы оформления заказа.
type Form struct {
	FullName      string
	Phone         string
	Street        string
	Ward          string
	District      string
	City          string
	Notes         string
	PaymentMethod model.PaymentMethod
}

// Prefill заполняет форму данными профиля пользователя, как это делает
// страница оформления при первом открытии.
func (f *Form) Prefill(ident *model.Identity) {
	if ident == nil {
		return
	}
	f.FullName = ident.DisplayName()
	f.Phone = ident.Phone
	if ident.Address != nil {
		f.Street = ident.Address.Street
		f.Ward = ident.Address.Ward
		f.District = ident.Address.District
		f.City = ident.Address.City
	}
}

// Validate проверяет обязательные поля формы. Каждое невалидное поле несёт
// собственное сообщение; пустой результат означает успех.
func (f *Form) Validate() Errors {
	errs := Errors{}

	if validation.IsBlank(f.FullName) {
		errs["fullName"] = "full name is required"
	}
	switch {
	case validation.IsBlank(f.Phone):
		errs["phone"] = "phone is required"
	case !validation.IsValidPhone(f.Phone):
		errs["phone"] = "phone number is invalid"
	}
	if validation.IsBlank(f.Street) {
		errs["street"] = "street is required"
	}
	if validation.IsBlank(f.Ward) {
		errs["ward"] = "ward is required"
	}
	if validation.IsBlank(f.District) {
		errs["district"] = "district is required"
	}
	if validation.IsBlank(f.City) {
		errs["city"] = "city is required"
	}
	if f.PaymentMethod != "" && !f.PaymentMethod.Valid() {
		errs["paymentMethod"] = "unsupported payment method"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Address собирает адрес доставки из полей формы.
func (f *Form) Address() model.ShippingAddress {
	return model.ShippingAddress{
		FullName: f.FullName,
		Phone:    f.Phone,
		Street:   f.Street,
		Ward:     f.Ward,
		District: f.District,
		City:     f.City,
	}
}

// Totals содержит рассчитанные для отображения суммы заказа.
type Totals struct {
	Subtotal    float64
	ShippingFee float64
	Total       float64
}

// Estimate считает суммы заказа для текущей корзины.
func Estimate(cart *model.Cart) Totals {
	if cart.IsEmpty() {
		return Totals{}
	}
	fee := Fee(cart.TotalPrice)
	return Totals{
		Subtotal:    cart.TotalPrice,
		ShippingFee: fee,
		Total:       cart.TotalPrice + fee,
	}
}

// OrderAPI описывает операции API заказов, используемые оформлением.
type OrderAPI interface {
	CreateOrder(ctx context.Context, in api.CreateOrderInput) (*model.Order, error)
	Orders(ctx context.Context, page, limit int) ([]model.Order, *model.Pagination, error)
	Order(ctx context.Context, id string) (*model.Order, error)
	CancelOrder(ctx context.Context, id string) (*model.Order, error)
}

// CartSource описывает координатор корзины с точки зрения оформления.
type CartSource interface {
	Cart() *model.Cart
	Refresh(ctx context.Context) error
}

// Service выполняет оформление и сопровождение заказов.
type Service struct {
	api    OrderAPI
	cart   CartSource
	guard  *guard.Guard
	logger *zap.Logger
}

// NewService создаёт сервис оформления заказов.
func NewService(orderAPI OrderAPI, cartSrc CartSource, g *guard.Guard, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:    orderAPI,
		cart:   cartSrc,
		guard:  g,
		logger: logger,
	}
}

// Access проверяет предусловия страницы оформления. Проверка выполняется при
// каждом открытии: неаутентифицированного пользователя уводит на вход с
// запоминанием возврата, пустая корзина уводит в каталог.
func (s *Service) Access() guard.Decision {
	d := s.guard.Check("/checkout", guard.RequireAuth())
	if d.Kind != guard.DecisionAllow {
		return d
	}
	if s.cart.Cart().IsEmpty() {
		return guard.Decision{Kind: guard.DecisionRedirect, Target: "/products"}
	}
	return d
}

// Submit оформляет заказ из текущей корзины. Строки заказа собираются из
// снимка корзины (зафиксированные productId, quantity, price), после успеха
// корзина перечитывается — сервер уже очистил её при создании заказа.
// Повторных попыток при сбое нет.
func (s *Service) Submit(ctx context.Context, form Form) (*model.Order, error) {
	snapshot := s.cart.Cart()
	if snapshot.IsEmpty() {
		return nil, ErrEmptyCart
	}

	if errs := form.Validate(); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	method := form.PaymentMethod
	if method == "" {
		method = model.PaymentMethodCOD
	}

	items := make([]api.OrderItemInput, 0, len(snapshot.Items))
	for _, it := range snapshot.Items {
		items = append(items, api.OrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	order, err := s.api.CreateOrder(ctx, api.CreateOrderInput{
		Items:           items,
		ShippingAddress: form.Address(),
		PaymentMethod:   method,
		Notes:           form.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.cart.Refresh(ctx); err != nil {
		s.logger.Warn("refresh cart after checkout", zap.Error(err))
	}

	return order, nil
}

// Orders возвращает страницу заказов текущего пользователя.
func (s *Service) Orders(ctx context.Context, page, limit int) ([]model.Order, *model.Pagination, error) {
	return s.api.Orders(ctx, page, limit)
}

// Order возвращает заказ по идентификатору.
func (s *Service) Order(ctx context.Context, id string) (*model.Order, error) {
	return s.api.Order(ctx, id)
}

// Cancel отменяет заказ. Независимо от исхода отмены заказ перечитывается,
// чтобы показать состояние по версии сервера; оптимистичного локального
// перехода статуса нет.
func (s *Service) Cancel(ctx context.Context, id string) (*model.Order, error) {
	_, cancelErr := s.api.CancelOrder(ctx, id)

	order, getErr := s.api.Order(ctx, id)
	if cancelErr != nil {
		if order != nil {
			return order, cancelErr
		}
		return nil, cancelErr
	}
	if getErr != nil {
		return nil, getErr
	}
	return order, nil
}
