package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/mmeshcher/artmarket-system/internal/api"
	"github.com/mmeshcher/artmarket-system/internal/model"
)

type stubCatalogAPI struct {
	products       []model.Product
	productFilters api.ProductFilters
	product        *model.Product
	productErr     error
	viewsErr       error
	viewsCalls     int
}

func (s *stubCatalogAPI) Products(ctx context.Context, filters api.ProductFilters) ([]model.Product, *model.Pagination, error) {
	s.productFilters = filters
	return s.products, nil, nil
}

func (s *stubCatalogAPI) Product(ctx context.Context, id string) (*model.Product, error) {
	if s.productErr != nil {
		return nil, s.productErr
	}
	return s.product, nil
}

func (s *stubCatalogAPI) IncrementViews(ctx context.Context, id string) error {
	s.viewsCalls++
	return s.viewsErr
}

func (s *stubCatalogAPI) Artists(ctx context.Context, filters api.ArtistFilters) ([]model.Artist, *model.Pagination, error) {
	return nil, nil, nil
}

func (s *stubCatalogAPI) Artist(ctx context.Context, id string) (*model.Artist, error) {
	return nil, nil
}

func (s *stubCatalogAPI) Categories(ctx context.Context) ([]model.Category, error) {
	return nil, nil
}

func TestProduct_CountsViewBestEffort(t *testing.T) {
	stub := &stubCatalogAPI{
		product:  &model.Product{ID: "p1", Title: "Sunrise"},
		viewsErr: errors.New("counter unavailable"),
	}
	svc := NewService(stub, nil)

	product, err := svc.Product(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Product error: %v", err)
	}
	if product.Title != "Sunrise" {
		t.Fatalf("unexpected product: %+v", product)
	}
	if stub.viewsCalls != 1 {
		t.Fatalf("views calls = %d, want 1", stub.viewsCalls)
	}
}

func TestProduct_MissingDoesNotCountView(t *testing.T) {
	stub := &stubCatalogAPI{productErr: api.ErrNotFound}
	svc := NewService(stub, nil)

	if _, err := svc.Product(context.Background(), "ghost"); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if stub.viewsCalls != 0 {
		t.Fatalf("missing product must not be counted, calls = %d", stub.viewsCalls)
	}
}

func TestFeatured_FiltersAndLimits(t *testing.T) {
	stub := &stubCatalogAPI{products: []model.Product{{ID: "p1"}, {ID: "p2"}}}
	svc := NewService(stub, nil)

	products, err := svc.Featured(context.Background(), 8)
	if err != nil {
		t.Fatalf("Featured error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("products = %d, want 2", len(products))
	}
	if stub.productFilters.Featured == nil || !*stub.productFilters.Featured {
		t.Fatalf("featured filter must be set, got %+v", stub.productFilters)
	}
	if stub.productFilters.Limit != 8 {
		t.Fatalf("limit = %d, want 8", stub.productFilters.Limit)
	}
}
