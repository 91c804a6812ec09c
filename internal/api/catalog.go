package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mmeshcher/artmarket-system/internal/model"
)

// ProductFilters описывает параметры выборки товаров.
type ProductFilters struct {
	Page        int
	Limit       int
	Category    string
	MinPrice    float64
	MaxPrice    float64
	ArtistID    string
	Search      string
	SortBy      string
	SortOrder   string
	Featured    *bool
	IsAvailable *bool
}

// Encode сериализует фильтры в строку запроса.
func (f ProductFilters) Encode() string {
	params := url.Values{}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Category != "" {
		params.Set("category", f.Category)
	}
	if f.MinPrice > 0 {
		params.Set("minPrice", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		params.Set("maxPrice", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.ArtistID != "" {
		params.Set("artistId", f.ArtistID)
	}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.SortBy != "" {
		params.Set("sortBy", f.SortBy)
	}
	if f.SortOrder != "" {
		params.Set("sortOrder", f.SortOrder)
	}
	if f.Featured != nil {
		params.Set("featured", strconv.FormatBool(*f.Featured))
	}
	if f.IsAvailable != nil {
		params.Set("isAvailable", strconv.FormatBool(*f.IsAvailable))
	}
	return params.Encode()
}

// ArtistFilters описывает параметры выборки художников.
type ArtistFilters struct {
	Page      int
	Limit     int
	Specialty string
	Search    string
	Featured  *bool
	Verified  *bool
}

// Encode сериализует фильтры в строку запроса.
func (f ArtistFilters) Encode() string {
	params := url.Values{}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Specialty != "" {
		params.Set("specialty", f.Specialty)
	}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.Featured != nil {
		params.Set("featured", strconv.FormatBool(*f.Featured))
	}
	if f.Verified != nil {
		params.Set("verified", strconv.FormatBool(*f.Verified))
	}
	return params.Encode()
}

// Products возвращает страницу товаров по фильтрам.
func (c *Client) Products(ctx context.Context, filters ProductFilters) ([]model.Product, *model.Pagination, error) {
	path := "/products"
	if q := filters.Encode(); q != "" {
		path += "?" + q
	}

	var products []model.Product
	pg, err := c.do(ctx, http.MethodGet, path, nil, &products)
	if err != nil {
		return nil, nil, err
	}
	return products, pg, nil
}

// Product возвращает товар по идентификатору.
func (c *Client) Product(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if _, err := c.do(ctx, http.MethodGet, "/products/"+id, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// IncrementViews увеличивает счётчик просмотров товара.
func (c *Client) IncrementViews(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPost, "/products/"+id+"/view", nil, nil)
	return err
}

// CreateProduct создаёт товар. Требует роли художника или администратора.
func (c *Client) CreateProduct(ctx context.Context, in model.Product) (*model.Product, error) {
	var product model.Product
	if _, err := c.do(ctx, http.MethodPost, "/products", in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct обновляет товар. Требует роли художника или администратора.
func (c *Client) UpdateProduct(ctx context.Context, id string, in model.Product) (*model.Product, error) {
	var product model.Product
	if _, err := c.do(ctx, http.MethodPut, "/products/"+id, in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct удаляет товар. Требует роли художника или администратора.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/products/"+id, nil, nil)
	return err
}

// Artists возвращает страницу художников по фильтрам.
func (c *Client) Artists(ctx context.Context, filters ArtistFilters) ([]model.Artist, *model.Pagination, error) {
	path := "/artists"
	if q := filters.Encode(); q != "" {
		path += "?" + q
	}

	var artists []model.Artist
	pg, err := c.do(ctx, http.MethodGet, path, nil, &artists)
	if err != nil {
		return nil, nil, err
	}
	return artists, pg, nil
}

// Artist возвращает художника по идентификатору.
func (c *Client) Artist(ctx context.Context, id string) (*model.Artist, error) {
	var artist model.Artist
	if _, err := c.do(ctx, http.MethodGet, "/artists/"+id, nil, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// CreateArtist создаёт профиль художника. Требует роли администратора.
func (c *Client) CreateArtist(ctx context.Context, in model.Artist) (*model.Artist, error) {
	var artist model.Artist
	if _, err := c.do(ctx, http.MethodPost, "/artists", in, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// UpdateArtist обновляет профиль художника. Требует роли администратора.
func (c *Client) UpdateArtist(ctx context.Context, id string, in model.Artist) (*model.Artist, error) {
	var artist model.Artist
	if _, err := c.do(ctx, http.MethodPut, "/artists/"+id, in, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// DeleteArtist удаляет профиль художника. Требует роли администратора.
func (c *Client) DeleteArtist(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/artists/"+id, nil, nil)
	return err
}

// Categories возвращает список категорий каталога.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if _, err := c.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory создаёт категорию. Требует роли администратора.
func (c *Client) CreateCategory(ctx context.Context, in model.Category) (*model.Category, error) {
	var category model.Category
	if _, err := c.do(ctx, http.MethodPost, "/categories", in, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory обновляет категорию. Требует роли администратора.
func (c *Client) UpdateCategory(ctx context.Context, id string, in model.Category) (*model.Category, error) {
	var category model.Category
	if _, err := c.do(ctx, http.MethodPut, "/categories/"+id, in, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory удаляет категорию. Требует роли администратора.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/categories/"+id, nil, nil)
	return err
}

// RecountCategories пересчитывает количество товаров в категориях.
// Требует роли администратора.
func (c *Client) RecountCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if _, err := c.do(ctx, http.MethodPost, "/categories/update-counts", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Users возвращает список пользователей. Требует роли администратора.
func (c *Client) Users(ctx context.Context) ([]model.Identity, error) {
	var users []model.Identity
	if _, err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// User возвращает пользователя по идентификатору. Требует роли администратора.
func (c *Client) User(ctx context.Context, id string) (*model.Identity, error) {
	var user model.Identity
	if _, err := c.do(ctx, http.MethodGet, "/users/"+id, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser обновляет пользователя. Требует роли администратора.
func (c *Client) UpdateUser(ctx context.Context, id string, in model.Identity) (*model.Identity, error) {
	var user model.Identity
	if _, err := c.do(ctx, http.MethodPut, "/users/"+id, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser удаляет пользователя. Требует роли администратора.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/users/"+id, nil, nil)
	return err
}
