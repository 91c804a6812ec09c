package stubserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/artmarket-system/internal/middleware"
	"github.com/mmeshcher/artmarket-system/internal/model"
	"github.com/mmeshcher/artmarket-system/internal/validation"
)

// Handler реализует HTTP-обработчики заглушки маркетплейса.
type Handler struct {
	store  *Store
	auth   *middleware.Authenticator
	logger *zap.Logger
}

// NewHandler создаёт обработчик поверх хранилища и аутентификатора.
func NewHandler(store *Store, auth *middleware.Authenticator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:  store,
		auth:   auth,
		logger: logger,
	}
}

type response struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Data       any               `json:"data,omitempty"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any, pagination *model.Pagination) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response{Success: true, Data: data, Pagination: pagination})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response{Success: false, Message: message})
}

// fail транслирует ошибки хранилища в HTTP-статусы.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ErrUserExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrInsufficientStock):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrEmptyCart):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotCancellable):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
	}
	return userID, ok
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
}

// Register регистрирует нового пользователя и выдаёт пару токенов.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if validation.IsBlank(req.FirstName) || validation.IsBlank(req.LastName) {
		writeError(w, http.StatusBadRequest, "first and last name are required")
		return
	}
	if !validation.IsValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "email is invalid")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	ident, err := h.store.CreateUser(req.FirstName, req.LastName, req.Email, req.Password, req.Phone)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeData(w, http.StatusCreated, map[string]any{
		"user":         ident,
		"accessToken":  h.auth.AccessToken(ident.ID),
		"refreshToken": h.auth.RefreshToken(ident.ID),
	}, nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login аутентифицирует пользователя и выдаёт пару токенов.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	ident, err := h.store.Authenticate(req.Email, req.Password)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"user":         ident,
		"accessToken":  h.auth.AccessToken(ident.ID),
		"refreshToken": h.auth.RefreshToken(ident.ID),
	}, nil)
}

// Logout завершает сессию. Токены не хранятся на сервере, поэтому операция
// сводится к подтверждению.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, nil, nil)
}

// Refresh обменивает refresh-токен на новую пару токенов.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	userID, ok := h.auth.Parse(req.RefreshToken)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}
	if _, err := h.store.User(userID); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	writeData(w, http.StatusOK, map[string]string{
		"accessToken":  h.auth.AccessToken(userID),
		"refreshToken": h.auth.RefreshToken(userID),
	}, nil)
}

// Me возвращает текущего аутентифицированного пользователя.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	ident, err := h.store.User(userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, ident, nil)
}

// UpdateProfile обновляет профиль текущего пользователя.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		FirstName string         `json:"firstName"`
		LastName  string         `json:"lastName"`
		Phone     string         `json:"phone"`
		Avatar    string         `json:"avatar"`
		Address   *model.Address `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	ident, err := h.store.UpdateProfile(userID, ProfilePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Avatar:    req.Avatar,
		Address:   req.Address,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, ident, nil)
}

// ChangePassword меняет пароль текущего пользователя.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if len(req.NewPassword) < 6 {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	if err := h.store.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, nil, nil)
}

func parseBoolParam(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

func parseIntParam(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}

func parseFloatParam(r *http.Request, name string) float64 {
	v, _ := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	return v
}

// Products возвращает страницу товаров по фильтрам запроса.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	products, pagination := h.store.Products(ProductQuery{
		Page:        parseIntParam(r, "page"),
		Limit:       parseIntParam(r, "limit"),
		Category:    r.URL.Query().Get("category"),
		MinPrice:    parseFloatParam(r, "minPrice"),
		MaxPrice:    parseFloatParam(r, "maxPrice"),
		ArtistID:    r.URL.Query().Get("artistId"),
		Search:      r.URL.Query().Get("search"),
		Featured:    parseBoolParam(r, "featured"),
		IsAvailable: parseBoolParam(r, "isAvailable"),
	})
	writeData(w, http.StatusOK, products, pagination)
}

// Product возвращает товар по идентификатору.
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	product, err := h.store.Product(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, product, nil)
}

// IncrementViews увеличивает счётчик просмотров товара.
func (h *Handler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	if err := h.store.IncrementViews(chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, nil, nil)
}

// CreateProduct добавляет товар в каталог.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in model.Product
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if validation.IsBlank(in.Title) || in.PriceValue <= 0 {
		writeError(w, http.StatusBadRequest, "title and positive price are required")
		return
	}

	product, err := h.store.CreateProduct(in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusCreated, product, nil)
}

// UpdateProduct обновляет товар.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in model.Product
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	product, err := h.store.UpdateProduct(chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, product, nil)
}

// DeleteProduct удаляет товар.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteProduct(chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, nil, nil)
}

// Artists возвращает страницу художников по фильтрам запроса.
func (h *Handler) Artists(w http.ResponseWriter, r *http.Request) {
	artists, pagination := h.store.Artists(ArtistQuery{
		Page:      parseIntParam(r, "page"),
		Limit:     parseIntParam(r, "limit"),
		Specialty: r.URL.Query().Get("specialty"),
		Search:    r.URL.Query().Get("search"),
		Featured:  parseBoolParam(r, "featured"),
		Verified:  parseBoolParam(r, "verified"),
	})
	writeData(w, http.StatusOK, artists, pagination)
}

// Artist возвращает профиль художника.
func (h *Handler) Artist(w http.ResponseWriter, r *http.Request) {
	artist, err := h.store.Artist(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, artist, nil)
}

// CreateArtist добавляет профиль художника.
func (h *Handler) CreateArtist(w http.ResponseWriter, r *http.Request) {
	var in model.Artist
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if validation.IsBlank(in.Name) {
		writeError(w, http.StatusBadRequest, "artist name is required")
		return
	}

	artist, err := h.store.CreateArtist(in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusCreated, artist, nil)
}

// UpdateArtist обновляет профиль художника.
func (h *Handler) UpdateArtist(w http.ResponseWriter, r *http.Request) {
	var in model.Artist
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	artist, err := h.store.UpdateArtist(chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, artist, nil)
}

// DeleteArtist удаляет профиль художника.
func (h *Handler) DeleteArtist(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteArtist(chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, nil, nil)
}

// Categories возвращает категории каталога.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.store.Categories(), nil)
}

// CreateCategory добавляет категорию.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in model.Category
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if validation.IsBlank(in.Name) {
		writeError(w, http.StatusBadRequest, "category name is required")
		return
	}

	category, err := h.store.CreateCategory(in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusCreated, category, nil)
}

// UpdateCategory обновляет категорию.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var in model.Category
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	category, err := h.store.UpdateCategory(chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, category, nil)
}

// DeleteCategory удаляет категорию.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCategory(chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, nil, nil)
}

// RecountCategories пересчитывает количество товаров по категориям.
func (h *Handler) RecountCategories(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.store.RecountCategories(), nil)
}

// Users возвращает всех пользователей.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.store.Users(), nil)
}

// GetUser возвращает пользователя по идентификатору.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ident, err := h.store.User(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, ident, nil)
}

// UpdateUser применяет административное обновление пользователя.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var in model.Identity
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	ident, err := h.store.UpdateUser(chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, ident, nil)
}

// DeleteUser удаляет пользователя.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteUser(chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, nil, nil)
}

// GetCart возвращает корзину текущего пользователя; отсутствующая корзина —
// это 404, а не пустой объект.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	cart, err := h.store.Cart(userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, cart, nil)
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// AddToCart добавляет товар в корзину и возвращает её целиком.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	cart, err := h.store.AddToCart(userID, req.ProductID, req.Quantity)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, cart, nil)
}

// UpdateCartItem изменяет количество позиции и возвращает корзину целиком.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	cart, err := h.store.UpdateCartItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, cart, nil)
}

// RemoveFromCart удаляет позицию и возвращает корзину целиком.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	cart, err := h.store.RemoveFromCart(userID, chi.URLParam(r, "productId"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, cart, nil)
}

// ClearCart удаляет корзину целиком.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.store.ClearCart(userID); err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, nil, nil)
}

type createOrderRequest struct {
	Items []struct {
		ProductID string  `json:"productId"`
		Quantity  int     `json:"quantity"`
		Price     float64 `json:"price"`
	} `json:"items"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   model.PaymentMethod   `json:"paymentMethod"`
	Notes           string                `json:"notes"`
}

// CreateOrder создаёт заказ из строк запроса.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if !req.PaymentMethod.Valid() {
		writeError(w, http.StatusBadRequest, "unsupported payment method")
		return
	}
	addr := req.ShippingAddress
	if validation.IsBlank(addr.FullName) || validation.IsBlank(addr.Phone) ||
		validation.IsBlank(addr.Street) || validation.IsBlank(addr.Ward) ||
		validation.IsBlank(addr.District) || validation.IsBlank(addr.City) {
		writeError(w, http.StatusBadRequest, "shipping address is incomplete")
		return
	}

	lines := make([]OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, OrderLine{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}

	order, err := h.store.CreateOrder(userID, lines, addr, req.PaymentMethod, req.Notes)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.logger.Info("order created",
		zap.String("order", order.OrderNumber),
		zap.Float64("total", order.TotalAmount),
	)
	writeData(w, http.StatusCreated, order, nil)
}

// Orders возвращает страницу заказов текущего пользователя.
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	orders, pagination := h.store.Orders(userID, parseIntParam(r, "page"), parseIntParam(r, "limit"))
	writeData(w, http.StatusOK, orders, pagination)
}

// GetOrder возвращает заказ; администратор видит любой заказ.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	role, _ := h.store.RoleOf(userID)
	order, err := h.store.Order(userID, role == model.RoleAdmin, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, order, nil)
}

// CancelOrder отменяет заказ текущего пользователя.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	order, err := h.store.CancelOrder(userID, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, order, nil)
}

// AllOrders возвращает все заказы маркетплейса.
func (h *Handler) AllOrders(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.store.AllOrders(), nil)
}

// UpdateOrderStatus переводит заказ в новый статус.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderStatus model.OrderStatus `json:"orderStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	order, err := h.store.SetOrderStatus(chi.URLParam(r, "id"), req.OrderStatus)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, order, nil)
}
