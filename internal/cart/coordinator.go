// Package cart реализует координатор корзины: локальное представление
// серверной корзины и пять операций её изменения. Сервер авторитетен:
// каждый успешный ответ целиком замещает локальную корзину, слияния на
// клиенте нет. При конкурентных мутациях побеждает последний пришедший
// ответ — это принятое окно несогласованности, а не гарантия порядка.
package cart

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mmeshcher/artmarket-system/internal/api"
	"github.com/mmeshcher/artmarket-system/internal/model"
	"github.com/mmeshcher/artmarket-system/internal/session"
)

// ErrLoginRequired возвращается мутациями корзины для неаутентифицированного
// пользователя. Запрос к серверу при этом не выполняется; вызывающая сторона
// показывает приглашение войти.
var ErrLoginRequired = errors.New("login required to modify the cart")

// CartAPI описывает операции удалённого API корзины, используемые координатором.
type CartAPI interface {
	GetCart(ctx context.Context) (*model.Cart, error)
	AddToCart(ctx context.Context, productID string, quantity int) (*model.Cart, error)
	UpdateCartItem(ctx context.Context, productID string, quantity int) (*model.Cart, error)
	RemoveFromCart(ctx context.Context, productID string) (*model.Cart, error)
	ClearCart(ctx context.Context) error
}

// Session описывает читаемое координатором состояние сессии.
type Session interface {
	IsAuthenticated() bool
	Subscribe(fn session.Listener)
}

// Coordinator владеет клиентским представлением корзины. Страницы читают
// корзину только через него и меняют только пятью операциями ниже.
type Coordinator struct {
	mu      sync.RWMutex
	api     CartAPI
	session Session
	logger  *zap.Logger
	cart    *model.Cart
	pending atomic.Int32
}

// NewCoordinator создаёт координатор корзины поверх API и сессии.
func NewCoordinator(cartAPI CartAPI, sess Session, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		api:     cartAPI,
		session: sess,
		logger:  logger,
	}
}

// Bind подписывает координатор на смену Identity: вход загружает корзину
// ровно один раз, выход немедленно очищает локальную корзину без запроса.
func (c *Coordinator) Bind() {
	c.session.Subscribe(func(ctx context.Context, ident *model.Identity) {
		if ident == nil {
			c.mu.Lock()
			c.cart = nil
			c.mu.Unlock()
			return
		}
		if err := c.Load(ctx); err != nil {
			c.logger.Warn("load cart after login", zap.Error(err))
		}
	})
}

// Load запрашивает корзину текущего пользователя. Отсутствие корзины на
// сервере — штатное пустое состояние; любой другой сбой логируется и тоже
// сводится к отсутствующей корзине, чтобы страница деградировала до
// «пустой корзины», а не падала с ошибкой.
func (c *Coordinator) Load(ctx context.Context) error {
	if !c.session.IsAuthenticated() {
		return nil
	}

	c.pending.Add(1)
	defer c.pending.Add(-1)

	remote, err := c.api.GetCart(ctx)
	if err != nil {
		if !errors.Is(err, api.ErrNotFound) {
			c.logger.Error("load cart", zap.Error(err))
		}
		c.replace(nil)
		return nil
	}

	c.replace(remote)
	return nil
}

// Add добавляет товар в корзину. При сбое локальная корзина не меняется,
// ошибка передаётся вызывающему.
func (c *Coordinator) Add(ctx context.Context, productID string, quantity int) error {
	if !c.session.IsAuthenticated() {
		return ErrLoginRequired
	}

	c.pending.Add(1)
	defer c.pending.Add(-1)

	remote, err := c.api.AddToCart(ctx, productID, quantity)
	if err != nil {
		return err
	}

	c.replace(remote)
	return nil
}

// UpdateQuantity меняет количество позиции. Запрошенное количество <= 0
// переопределяется как удаление позиции: неположительное количество
// никогда не отправляется на сервер.
func (c *Coordinator) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return c.Remove(ctx, productID)
	}

	if !c.session.IsAuthenticated() {
		return ErrLoginRequired
	}

	c.pending.Add(1)
	defer c.pending.Add(-1)

	remote, err := c.api.UpdateCartItem(ctx, productID, quantity)
	if err != nil {
		return err
	}

	c.replace(remote)
	return nil
}

// Remove удаляет позицию из корзины.
func (c *Coordinator) Remove(ctx context.Context, productID string) error {
	if !c.session.IsAuthenticated() {
		return ErrLoginRequired
	}

	c.pending.Add(1)
	defer c.pending.Add(-1)

	remote, err := c.api.RemoveFromCart(ctx, productID)
	if err != nil {
		return err
	}

	c.replace(remote)
	return nil
}

// Clear удаляет корзину целиком. При успехе локальная корзина становится
// отсутствующей.
func (c *Coordinator) Clear(ctx context.Context) error {
	if !c.session.IsAuthenticated() {
		return ErrLoginRequired
	}

	c.pending.Add(1)
	defer c.pending.Add(-1)

	if err := c.api.ClearCart(ctx); err != nil {
		return err
	}

	c.replace(nil)
	return nil
}

// Refresh повторно загружает корзину. Действует только для
// аутентифицированного пользователя.
func (c *Coordinator) Refresh(ctx context.Context) error {
	return c.Load(ctx)
}

// Cart возвращает копию текущей корзины или nil, если корзина отсутствует.
func (c *Coordinator) Cart() *model.Cart {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cart.Clone()
}

// ItemCount возвращает суммарное количество товаров в корзине.
// Значение выводится из текущей корзины и нигде не хранится.
func (c *Coordinator) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cart == nil {
		return 0
	}
	return c.cart.TotalItems
}

// TotalPrice возвращает суммарную стоимость корзины.
func (c *Coordinator) TotalPrice() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cart == nil {
		return 0
	}
	return c.cart.TotalPrice
}

// Busy сообщает, есть ли незавершённые обращения к серверу корзины.
func (c *Coordinator) Busy() bool {
	return c.pending.Load() > 0
}

func (c *Coordinator) replace(cart *model.Cart) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart = cart
}
