// Package stubserver реализует заглушку REST API арт-маркетплейса: chi-роутер
// поверх потокобезопасного хранилища в памяти. Заглушка используется тестами
// и локальной разработкой клиента; контракт ответов совпадает с боевым API.
package stubserver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/artmarket-system/internal/checkout"
	"github.com/mmeshcher/artmarket-system/internal/model"
)

var (
	ErrUserExists         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNotCancellable     = errors.New("order can no longer be cancelled")
)

const defaultPageLimit = 10

type userRecord struct {
	identity     model.Identity
	passwordHash string
}

// Store — хранилище заглушки в памяти. Все методы потокобезопасны.
type Store struct {
	mu sync.RWMutex

	users      map[string]*userRecord
	emails     map[string]string
	artists    map[string]*model.Artist
	products   map[string]*model.Product
	categories map[string]*model.Category
	carts      map[string]*model.Cart
	orders     map[string]*model.Order

	orderSeq int
}

// NewStore создаёт пустое хранилище.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]*userRecord),
		emails:     make(map[string]string),
		artists:    make(map[string]*model.Artist),
		products:   make(map[string]*model.Product),
		categories: make(map[string]*model.Category),
		carts:      make(map[string]*model.Cart),
		orders:     make(map[string]*model.Order),
	}
}

func hashPassword(email, password string) string {
	sum := sha256.Sum256([]byte(email + ":" + password))
	return hex.EncodeToString(sum[:])
}

// CreateUser регистрирует пользователя с ролью user.
func (s *Store) CreateUser(firstName, lastName, email, password, phone string) (*model.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := s.emails[key]; exists {
		return nil, ErrUserExists
	}

	now := time.Now().UTC()
	ident := model.Identity{
		ID:        uuid.NewString(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     key,
		Role:      model.RoleUser,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[ident.ID] = &userRecord{
		identity:     ident,
		passwordHash: hashPassword(key, password),
	}
	s.emails[key] = ident.ID

	return &ident, nil
}

// Authenticate проверяет пару email/пароль.
func (s *Store) Authenticate(email, password string) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := strings.ToLower(email)
	id, ok := s.emails[key]
	if !ok {
		return nil, ErrInvalidCredentials
	}

	rec := s.users[id]
	if rec.passwordHash != hashPassword(key, password) {
		return nil, ErrInvalidCredentials
	}

	ident := rec.identity
	return &ident, nil
}

// User возвращает пользователя по идентификатору.
func (s *Store) User(id string) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	ident := rec.identity
	return &ident, nil
}

// Users возвращает всех пользователей, отсортированных по дате регистрации.
func (s *Store) Users() []model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Identity, 0, len(s.users))
	for _, rec := range s.users {
		out = append(out, rec.identity)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// RoleOf возвращает роль пользователя.
func (s *Store) RoleOf(id string) (model.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[id]
	if !ok {
		return "", false
	}
	return rec.identity.Role, true
}

// ProfilePatch содержит изменяемые поля профиля.
type ProfilePatch struct {
	FirstName string
	LastName  string
	Phone     string
	Avatar    string
	Address   *model.Address
}

// UpdateProfile применяет частичное обновление профиля пользователя.
func (s *Store) UpdateProfile(id string, patch ProfilePatch) (*model.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	if patch.FirstName != "" {
		rec.identity.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		rec.identity.LastName = patch.LastName
	}
	if patch.Phone != "" {
		rec.identity.Phone = patch.Phone
	}
	if patch.Avatar != "" {
		rec.identity.Avatar = patch.Avatar
	}
	if patch.Address != nil {
		addr := *patch.Address
		rec.identity.Address = &addr
	}
	rec.identity.UpdatedAt = time.Now().UTC()

	ident := rec.identity
	return &ident, nil
}

// ChangePassword меняет пароль пользователя после проверки текущего.
func (s *Store) ChangePassword(id, current, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	if rec.passwordHash != hashPassword(rec.identity.Email, current) {
		return ErrInvalidCredentials
	}
	rec.passwordHash = hashPassword(rec.identity.Email, next)
	rec.identity.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateUser применяет административное обновление пользователя, включая роль.
func (s *Store) UpdateUser(id string, in model.Identity) (*model.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	if in.FirstName != "" {
		rec.identity.FirstName = in.FirstName
	}
	if in.LastName != "" {
		rec.identity.LastName = in.LastName
	}
	if in.Phone != "" {
		rec.identity.Phone = in.Phone
	}
	if in.Role != "" {
		if !in.Role.Valid() {
			return nil, fmt.Errorf("unknown role %q", in.Role)
		}
		rec.identity.Role = in.Role
	}
	rec.identity.UpdatedAt = time.Now().UTC()

	ident := rec.identity
	return &ident, nil
}

// DeleteUser удаляет пользователя вместе с его корзиной.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.emails, rec.identity.Email)
	delete(s.users, id)
	delete(s.carts, id)
	return nil
}

// ProductQuery описывает фильтры выборки товаров.
type ProductQuery struct {
	Page        int
	Limit       int
	Category    string
	MinPrice    float64
	MaxPrice    float64
	ArtistID    string
	Search      string
	Featured    *bool
	IsAvailable *bool
}

// Products возвращает страницу товаров по фильтрам, новые первыми.
func (s *Store) Products(q ProductQuery) ([]model.Product, *model.Pagination) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.ArtistID != "" && p.ArtistID != q.ArtistID {
			continue
		}
		if q.MinPrice > 0 && p.PriceValue < q.MinPrice {
			continue
		}
		if q.MaxPrice > 0 && p.PriceValue > q.MaxPrice {
			continue
		}
		if q.Featured != nil && p.Featured != *q.Featured {
			continue
		}
		if q.IsAvailable != nil && p.IsAvailable != *q.IsAvailable {
			continue
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(p.Title), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
		}
		matched = append(matched, *p)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	page, pagination := paginate(len(matched), q.Page, q.Limit)
	return matched[page.from:page.to], pagination
}

// Product возвращает товар по идентификатору.
func (s *Store) Product(id string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

// IncrementViews увеличивает счётчик просмотров товара.
func (s *Store) IncrementViews(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return ErrNotFound
	}
	p.Views++
	return nil
}

// CreateProduct добавляет товар в каталог.
func (s *Store) CreateProduct(in model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	in.ID = uuid.NewString()
	in.CreatedAt = now
	in.UpdatedAt = now
	if artist, ok := s.artists[in.ArtistID]; ok {
		in.ArtistName = artist.Name
		artist.TotalProducts++
	}
	s.products[in.ID] = &in

	out := in
	return &out, nil
}

// UpdateProduct замещает изменяемые поля товара.
func (s *Store) UpdateProduct(id string, in model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}

	in.ID = p.ID
	in.ArtistID = p.ArtistID
	in.ArtistName = p.ArtistName
	in.Views = p.Views
	in.Likes = p.Likes
	in.CreatedAt = p.CreatedAt
	in.UpdatedAt = time.Now().UTC()
	s.products[id] = &in

	out := in
	return &out, nil
}

// DeleteProduct удаляет товар из каталога.
func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return ErrNotFound
	}
	if artist, found := s.artists[p.ArtistID]; found && artist.TotalProducts > 0 {
		artist.TotalProducts--
	}
	delete(s.products, id)
	return nil
}

// ArtistQuery описывает фильтры выборки художников.
type ArtistQuery struct {
	Page      int
	Limit     int
	Specialty string
	Search    string
	Featured  *bool
	Verified  *bool
}

// Artists возвращает страницу художников по фильтрам.
func (s *Store) Artists(q ArtistQuery) ([]model.Artist, *model.Pagination) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Artist, 0, len(s.artists))
	for _, a := range s.artists {
		if q.Specialty != "" && a.Specialty != q.Specialty {
			continue
		}
		if q.Featured != nil && a.Featured != *q.Featured {
			continue
		}
		if q.Verified != nil && a.Verified != *q.Verified {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(q.Search)) {
			continue
		}
		matched = append(matched, *a)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	page, pagination := paginate(len(matched), q.Page, q.Limit)
	return matched[page.from:page.to], pagination
}

// Artist возвращает профиль художника.
func (s *Store) Artist(id string) (*model.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.artists[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *a
	return &out, nil
}

// CreateArtist добавляет профиль художника.
func (s *Store) CreateArtist(in model.Artist) (*model.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	in.ID = uuid.NewString()
	in.CreatedAt = now
	in.UpdatedAt = now
	s.artists[in.ID] = &in

	out := in
	return &out, nil
}

// UpdateArtist замещает изменяемые поля профиля художника.
func (s *Store) UpdateArtist(id string, in model.Artist) (*model.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.artists[id]
	if !ok {
		return nil, ErrNotFound
	}

	in.ID = a.ID
	in.UserID = a.UserID
	in.TotalProducts = a.TotalProducts
	in.TotalSales = a.TotalSales
	in.CreatedAt = a.CreatedAt
	in.UpdatedAt = time.Now().UTC()
	s.artists[id] = &in

	if in.Name != a.Name {
		for _, p := range s.products {
			if p.ArtistID == id {
				p.ArtistName = in.Name
			}
		}
	}

	out := in
	return &out, nil
}

// DeleteArtist удаляет профиль художника.
func (s *Store) DeleteArtist(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.artists[id]; !ok {
		return ErrNotFound
	}
	delete(s.artists, id)
	return nil
}

// Categories возвращает активные категории в заданном порядке.
func (s *Store) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// CreateCategory добавляет категорию.
func (s *Store) CreateCategory(in model.Category) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	in.ID = uuid.NewString()
	if in.Slug == "" {
		in.Slug = strings.ToLower(strings.ReplaceAll(in.Name, " ", "-"))
	}
	in.CreatedAt = now
	in.UpdatedAt = now
	s.categories[in.ID] = &in

	out := in
	return &out, nil
}

// UpdateCategory замещает изменяемые поля категории.
func (s *Store) UpdateCategory(id string, in model.Category) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, ErrNotFound
	}

	in.ID = c.ID
	in.ProductCount = c.ProductCount
	in.CreatedAt = c.CreatedAt
	in.UpdatedAt = time.Now().UTC()
	s.categories[id] = &in

	out := in
	return &out, nil
}

// DeleteCategory удаляет категорию.
func (s *Store) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

// RecountCategories пересчитывает количество товаров в каждой категории по
// фактическому каталогу.
func (s *Store) RecountCategories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for _, p := range s.products {
		counts[p.Category]++
	}

	out := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		c.ProductCount = counts[c.Slug]
		c.UpdatedAt = time.Now().UTC()
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Cart возвращает корзину пользователя. Отсутствующая корзина — ErrNotFound.
func (s *Store) Cart(userID string) (*model.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return cart.Clone(), nil
}

// AddToCart добавляет товар в корзину пользователя. Цена позиции фиксируется
// в момент добавления; превышение остатка отклоняется.
func (s *Store) AddToCart(userID, productID string, quantity int) (*model.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return nil, ErrNotFound
	}

	cart, ok := s.carts[userID]
	if !ok {
		now := time.Now().UTC()
		cart = &model.Cart{
			ID:        uuid.NewString(),
			UserID:    userID,
			CreatedAt: now,
		}
		s.carts[userID] = cart
	}

	idx := -1
	for i, it := range cart.Items {
		if it.ProductID == productID {
			idx = i
			break
		}
	}

	total := quantity
	if idx >= 0 {
		total += cart.Items[idx].Quantity
	}
	if total > product.Stock {
		return nil, ErrInsufficientStock
	}

	if idx >= 0 {
		cart.Items[idx].Quantity = total
	} else {
		cart.Items = append(cart.Items, model.CartItem{
			ProductID: productID,
			Product: &model.ProductSnapshot{
				Title:      product.Title,
				Images:     product.Images,
				Stock:      product.Stock,
				ArtistName: product.ArtistName,
			},
			Quantity: quantity,
			Price:    product.PriceValue,
		})
	}

	s.recalc(cart)
	return cart.Clone(), nil
}

// UpdateCartItem устанавливает количество позиции; ноль и меньше удаляет её.
func (s *Store) UpdateCartItem(userID, productID string, quantity int) (*model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}

	idx := -1
	for i, it := range cart.Items {
		if it.ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotFound
	}

	if quantity <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		if product, found := s.products[productID]; found && quantity > product.Stock {
			return nil, ErrInsufficientStock
		}
		cart.Items[idx].Quantity = quantity
	}

	s.recalc(cart)
	return cart.Clone(), nil
}

// RemoveFromCart удаляет позицию из корзины.
func (s *Store) RemoveFromCart(userID, productID string) (*model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}

	for i, it := range cart.Items {
		if it.ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			s.recalc(cart)
			return cart.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// ClearCart удаляет корзину пользователя целиком.
func (s *Store) ClearCart(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[userID]; !ok {
		return ErrNotFound
	}
	delete(s.carts, userID)
	return nil
}

func (s *Store) recalc(cart *model.Cart) {
	items := 0
	price := 0.0
	for _, it := range cart.Items {
		items += it.Quantity
		price += it.Price * float64(it.Quantity)
	}
	cart.TotalItems = items
	cart.TotalPrice = price
	cart.UpdatedAt = time.Now().UTC()
}

// OrderLine описывает строку создаваемого заказа.
type OrderLine struct {
	ProductID string
	Quantity  int
	Price     float64
}

// CreateOrder создаёт заказ из переданных строк, списывает остатки и очищает
// корзину пользователя. Суммы считаются по зафиксированным ценам строк; порог
// бесплатной доставки общий с клиентом.
func (s *Store) CreateOrder(userID string, lines []OrderLine, addr model.ShippingAddress, method model.PaymentMethod, notes string) (*model.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.OrderItem, 0, len(lines))
	subtotal := 0.0
	for _, line := range lines {
		product, ok := s.products[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %s: %w", line.ProductID, ErrNotFound)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("product %s: quantity must be positive", line.ProductID)
		}
		if line.Quantity > product.Stock {
			return nil, fmt.Errorf("product %s: %w", line.ProductID, ErrInsufficientStock)
		}

		items = append(items, model.OrderItem{
			ProductID: line.ProductID,
			Product: &model.ProductSnapshot{
				Title:      product.Title,
				Images:     product.Images,
				Stock:      product.Stock,
				ArtistName: product.ArtistName,
			},
			Quantity: line.Quantity,
			Price:    line.Price,
			Subtotal: line.Price * float64(line.Quantity),
		})
		subtotal += line.Price * float64(line.Quantity)
	}

	for _, line := range lines {
		product := s.products[line.ProductID]
		product.Stock -= line.Quantity
		if product.Stock == 0 {
			product.IsAvailable = false
		}
	}

	s.orderSeq++
	fee := checkout.Fee(subtotal)
	now := time.Now().UTC()
	order := &model.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		OrderNumber:     fmt.Sprintf("AM-%06d", s.orderSeq),
		Items:           items,
		Subtotal:        subtotal,
		ShippingFee:     fee,
		TotalAmount:     subtotal + fee,
		ShippingAddress: addr,
		PaymentMethod:   method,
		PaymentStatus:   model.PaymentStatusPending,
		OrderStatus:     model.OrderStatusPending,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.orders[order.ID] = order

	delete(s.carts, userID)

	out := *order
	return &out, nil
}

// Orders возвращает страницу заказов пользователя, новые первыми.
func (s *Store) Orders(userID string, page, limit int) ([]model.Order, *model.Pagination) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID {
			matched = append(matched, *o)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	p, pagination := paginate(len(matched), page, limit)
	return matched[p.from:p.to], pagination
}

// Order возвращает заказ по идентификатору. Не-администратор видит только
// собственные заказы.
func (s *Store) Order(requesterID string, admin bool, orderID string) (*model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	if !admin && o.UserID != requesterID {
		return nil, ErrNotFound
	}
	out := *o
	return &out, nil
}

// CancelOrder отменяет заказ пользователя. Отмена доступна только из статуса
// pending; остатки товаров возвращаются в каталог.
func (s *Store) CancelOrder(userID, orderID string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, ErrNotFound
	}
	if !o.OrderStatus.CanCancel() {
		return nil, ErrNotCancellable
	}

	for _, it := range o.Items {
		if product, found := s.products[it.ProductID]; found {
			product.Stock += it.Quantity
			product.IsAvailable = true
		}
	}

	o.OrderStatus = model.OrderStatusCancelled
	o.UpdatedAt = time.Now().UTC()

	out := *o
	return &out, nil
}

// AllOrders возвращает все заказы маркетплейса, новые первыми.
func (s *Store) AllOrders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// SetOrderStatus переводит заказ в новый статус с проверкой допустимости
// перехода.
func (s *Store) SetOrderStatus(orderID string, status model.OrderStatus) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	if !o.OrderStatus.CanTransition(status) {
		return nil, fmt.Errorf("transition %s -> %s is not allowed", o.OrderStatus, status)
	}

	o.OrderStatus = status
	if status == model.OrderStatusDelivered && o.PaymentMethod == model.PaymentMethodCOD {
		o.PaymentStatus = model.PaymentStatusPaid
	}
	o.UpdatedAt = time.Now().UTC()

	out := *o
	return &out, nil
}

type pageBounds struct {
	from, to int
}

func paginate(total, page, limit int) (pageBounds, *model.Pagination) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}

	from := (page - 1) * limit
	if from > total {
		from = total
	}
	to := from + limit
	if to > total {
		to = total
	}

	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	return pageBounds{from: from, to: to}, &model.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
