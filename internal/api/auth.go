package api

import (
	"context"
	"net/http"

	"github.com/mmeshcher/artmarket-system/internal/model"
)

// Credentials содержит данные для входа пользователя.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput содержит данные для регистрации нового пользователя.
type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
}

// AuthResponse содержит пользователя и пару токенов после входа или регистрации.
type AuthResponse struct {
	User         *model.Identity `json:"user"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
}

// TokenPair содержит обновлённую пару токенов.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register регистрирует нового пользователя.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	var resp AuthResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/register", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login выполняет вход пользователя по email и паролю.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout завершает сессию на сервере.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	return err
}

// Me возвращает текущего аутентифицированного пользователя.
func (c *Client) Me(ctx context.Context) (*model.Identity, error) {
	var ident model.Identity
	if _, err := c.do(ctx, http.MethodGet, "/auth/me", nil, &ident); err != nil {
		return nil, err
	}
	return &ident, nil
}

// RefreshToken обменивает refresh-токен на новую пару токенов.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	in := map[string]string{"refreshToken": refreshToken}
	var pair TokenPair
	if _, err := c.do(ctx, http.MethodPost, "/auth/refresh-token", in, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// ProfileUpdate содержит изменяемые поля профиля пользователя.
type ProfileUpdate struct {
	FirstName string         `json:"firstName,omitempty"`
	LastName  string         `json:"lastName,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Avatar    string         `json:"avatar,omitempty"`
	Address   *model.Address `json:"address,omitempty"`
}

// UpdateProfile обновляет профиль текущего пользователя.
func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (*model.Identity, error) {
	var ident model.Identity
	if _, err := c.do(ctx, http.MethodPut, "/auth/profile", in, &ident); err != nil {
		return nil, err
	}
	return &ident, nil
}

// ChangePassword меняет пароль текущего пользователя.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	in := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	_, err := c.do(ctx, http.MethodPost, "/auth/change-password", in, nil)
	return err
}
