// Package catalog предоставляет витрину каталога: товары, художников и
// категории. Витрина доступна без аутентификации и только читает данные;
// единственная запись — счётчик просмотров товара, и его сбой не мешает
// показать карточку.
package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/artmarket-system/internal/api"
	"github.com/mmeshcher/artmarket-system/internal/model"
)

// CatalogAPI описывает читающие операции каталога маркетплейса.
type CatalogAPI interface {
	Products(ctx context.Context, filters api.ProductFilters) ([]model.Product, *model.Pagination, error)
	Product(ctx context.Context, id string) (*model.Product, error)
	IncrementViews(ctx context.Context, id string) error
	Artists(ctx context.Context, filters api.ArtistFilters) ([]model.Artist, *model.Pagination, error)
	Artist(ctx context.Context, id string) (*model.Artist, error)
	Categories(ctx context.Context) ([]model.Category, error)
}

// Service — витрина каталога поверх клиента маркетплейса.
type Service struct {
	api    CatalogAPI
	logger *zap.Logger
}

// NewService создаёт витрину каталога.
func NewService(catalogAPI CatalogAPI, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: catalogAPI, logger: logger}
}

// Products возвращает страницу товаров по фильтрам.
func (s *Service) Products(ctx context.Context, filters api.ProductFilters) ([]model.Product, *model.Pagination, error) {
	return s.api.Products(ctx, filters)
}

// Product возвращает карточку товара и лучшим усилием увеличивает счётчик
// просмотров: сбой счётчика логируется и не скрывает товар.
func (s *Service) Product(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.api.Product(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.api.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("increment product views", zap.String("product_id", id), zap.Error(err))
	}

	return product, nil
}

// Featured возвращает до limit избранных товаров для главной страницы.
func (s *Service) Featured(ctx context.Context, limit int) ([]model.Product, error) {
	featured := true
	products, _, err := s.api.Products(ctx, api.ProductFilters{
		Limit:    limit,
		Featured: &featured,
	})
	return products, err
}

// Artists возвращает страницу художников по фильтрам.
func (s *Service) Artists(ctx context.Context, filters api.ArtistFilters) ([]model.Artist, *model.Pagination, error) {
	return s.api.Artists(ctx, filters)
}

// Artist возвращает профиль художника.
func (s *Service) Artist(ctx context.Context, id string) (*model.Artist, error) {
	return s.api.Artist(ctx, id)
}

// Categories возвращает список категорий каталога.
func (s *Service) Categories(ctx context.Context) ([]model.Category, error) {
	return s.api.Categories(ctx)
}
