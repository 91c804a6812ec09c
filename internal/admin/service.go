// Package admin реализует операции бэк-офиса маркетплейса: управление
// пользователями, художниками, товарами, категориями и заказами, а также
// сводку для панели администратора. Все операции требуют роли admin; точка
// входа для неаутентифицированных попыток — /admin/login.
package admin

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/artmarket-system/internal/api"
	"github.com/mmeshcher/artmarket-system/internal/guard"
	"github.com/mmeshcher/artmarket-system/internal/model"
)

// recentOrdersLimit — сколько последних заказов попадает в сводку.
const recentOrdersLimit = 5

// AdminAPI описывает используемые бэк-офисом операции клиента маркетплейса.
type AdminAPI interface {
	Users(ctx context.Context) ([]model.Identity, error)
	User(ctx context.Context, id string) (*model.Identity, error)
	UpdateUser(ctx context.Context, id string, in model.Identity) (*model.Identity, error)
	DeleteUser(ctx context.Context, id string) error

	Artists(ctx context.Context, filters api.ArtistFilters) ([]model.Artist, *model.Pagination, error)
	CreateArtist(ctx context.Context, in model.Artist) (*model.Artist, error)
	UpdateArtist(ctx context.Context, id string, in model.Artist) (*model.Artist, error)
	DeleteArtist(ctx context.Context, id string) error

	Products(ctx context.Context, filters api.ProductFilters) ([]model.Product, *model.Pagination, error)
	CreateProduct(ctx context.Context, in model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, in model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	Categories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, in model.Category) (*model.Category, error)
	UpdateCategory(ctx context.Context, id string, in model.Category) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	RecountCategories(ctx context.Context) ([]model.Category, error)

	AllOrders(ctx context.Context) ([]model.Order, error)
	Order(ctx context.Context, id string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
}

// Service — операции бэк-офиса поверх клиента маркетплейса.
type Service struct {
	api    AdminAPI
	guard  *guard.Guard
	logger *zap.Logger
}

// NewService создаёт сервис бэк-офиса.
func NewService(adminAPI AdminAPI, g *guard.Guard, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: adminAPI, guard: g, logger: logger}
}

// Access проверяет доступ к бэк-офису: требуется роль admin, вход через
// /admin/login.
func (s *Service) Access() guard.Decision {
	return s.guard.Check("/admin", guard.RequireRole(model.RoleAdmin, "/admin/login"))
}

// Users возвращает всех пользователей.
func (s *Service) Users(ctx context.Context) ([]model.Identity, error) {
	return s.api.Users(ctx)
}

// User возвращает пользователя по идентификатору.
func (s *Service) User(ctx context.Context, id string) (*model.Identity, error) {
	return s.api.User(ctx, id)
}

// UpdateUser обновляет пользователя, включая смену роли.
func (s *Service) UpdateUser(ctx context.Context, id string, in model.Identity) (*model.Identity, error) {
	if in.Role != "" && !in.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q", in.Role)
	}
	return s.api.UpdateUser(ctx, id, in)
}

// DeleteUser удаляет пользователя.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.api.DeleteUser(ctx, id)
}

// Artists возвращает страницу художников.
func (s *Service) Artists(ctx context.Context, filters api.ArtistFilters) ([]model.Artist, *model.Pagination, error) {
	return s.api.Artists(ctx, filters)
}

// CreateArtist создаёт профиль художника.
func (s *Service) CreateArtist(ctx context.Context, in model.Artist) (*model.Artist, error) {
	return s.api.CreateArtist(ctx, in)
}

// UpdateArtist обновляет профиль художника.
func (s *Service) UpdateArtist(ctx context.Context, id string, in model.Artist) (*model.Artist, error) {
	return s.api.UpdateArtist(ctx, id, in)
}

// DeleteArtist удаляет профиль художника.
func (s *Service) DeleteArtist(ctx context.Context, id string) error {
	return s.api.DeleteArtist(ctx, id)
}

// Products возвращает страницу товаров.
func (s *Service) Products(ctx context.Context, filters api.ProductFilters) ([]model.Product, *model.Pagination, error) {
	return s.api.Products(ctx, filters)
}

// CreateProduct создаёт товар.
func (s *Service) CreateProduct(ctx context.Context, in model.Product) (*model.Product, error) {
	return s.api.CreateProduct(ctx, in)
}

// UpdateProduct обновляет товар.
func (s *Service) UpdateProduct(ctx context.Context, id string, in model.Product) (*model.Product, error) {
	return s.api.UpdateProduct(ctx, id, in)
}

// DeleteProduct удаляет товар.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.api.DeleteProduct(ctx, id)
}

// Categories возвращает категории каталога.
func (s *Service) Categories(ctx context.Context) ([]model.Category, error) {
	return s.api.Categories(ctx)
}

// CreateCategory создаёт категорию.
func (s *Service) CreateCategory(ctx context.Context, in model.Category) (*model.Category, error) {
	return s.api.CreateCategory(ctx, in)
}

// UpdateCategory обновляет категорию.
func (s *Service) UpdateCategory(ctx context.Context, id string, in model.Category) (*model.Category, error) {
	return s.api.UpdateCategory(ctx, id, in)
}

// DeleteCategory удаляет категорию.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.api.DeleteCategory(ctx, id)
}

// RecountCategories пересчитывает количество товаров по категориям.
func (s *Service) RecountCategories(ctx context.Context) ([]model.Category, error) {
	return s.api.RecountCategories(ctx)
}

// Orders возвращает все заказы маркетплейса.
func (s *Service) Orders(ctx context.Context) ([]model.Order, error) {
	return s.api.AllOrders(ctx)
}

// SetOrderStatus переводит заказ в статус status. Переход проверяется до
// запроса: статусы движутся только вперёд по цепочке, отмена доступна лишь
// из pending.
func (s *Service) SetOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	order, err := s.api.Order(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.OrderStatus.CanTransition(status) {
		return nil, fmt.Errorf("order %s: transition %s -> %s is not allowed", order.OrderNumber, order.OrderStatus, status)
	}

	return s.api.UpdateOrderStatus(ctx, id, status)
}

// Stats — сводка для панели администратора.
type Stats struct {
	Users        int
	Artists      int
	Products     int
	Categories   int
	Orders       int
	Pending      int
	Revenue      float64
	RecentOrders []model.Order
}

// DashboardStats собирает сводку по маркетплейсу. Пять списков запрашиваются
// параллельно; выручка считается по всем неотменённым заказам.
func (s *Service) DashboardStats(ctx context.Context) (*Stats, error) {
	var (
		users      []model.Identity
		artists    []model.Artist
		products   []model.Product
		categories []model.Category
		orders     []model.Order
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.api.Users(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		artists, _, err = s.api.Artists(ctx, api.ArtistFilters{})
		return err
	})
	g.Go(func() error {
		var err error
		products, _, err = s.api.Products(ctx, api.ProductFilters{})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.api.Categories(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.api.AllOrders(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &Stats{
		Users:      len(users),
		Artists:    len(artists),
		Products:   len(products),
		Categories: len(categories),
		Orders:     len(orders),
	}
	for _, order := range orders {
		if order.OrderStatus == model.OrderStatusPending {
			stats.Pending++
		}
		if order.OrderStatus != model.OrderStatusCancelled {
			stats.Revenue += order.TotalAmount
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	if len(orders) > recentOrdersLimit {
		orders = orders[:recentOrdersLimit]
	}
	stats.RecentOrders = orders

	return stats, nil
}
