// Package api предоставляет клиент REST API арт-маркетплейса.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/mmeshcher/artmarket-system/internal/model"
)

// ErrNotFound возвращается, когда запрошенный ресурс отсутствует на сервере.
// Для корзины это штатное состояние «корзина ещё не создана», а не ошибка.
var ErrNotFound = errors.New("resource not found")

// Error описывает отказ сервера с человекочитаемым сообщением. Message,
// если он задан, показывается пользователю дословно.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}

// TokenSource выдаёт текущий access-токен для авторизации запросов.
// Пустая строка означает отсутствие аутентификации.
type TokenSource interface {
	AccessToken() string
}

// Client инкапсулирует HTTP-взаимодействие с API маркетплейса.
// Мутации выполняются без повторов; идемпотентные GET-запросы
// используют транспорт с ограниченным числом повторов.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	getClient  *http.Client
}

// NewClient создаёт клиент API маркетплейса по указанному базовому адресу.
func NewClient(baseURL string, tokens TokenSource) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient = cleanhttp.DefaultPooledClient()
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.Logger = nil

	mc := cleanhttp.DefaultPooledClient()
	mc.Timeout = 10 * time.Second

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: mc,
		getClient:  rc.StandardClient(),
	}
}

// envelope описывает конверт ответа API: полезная нагрузка в data,
// сообщение об ошибке в message, параметры страницы в pagination.
type envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Data       json.RawMessage   `json:"data,omitempty"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) (*model.Pagination, error) {
	if c == nil || c.baseURL == "" {
		return nil, fmt.Errorf("api client not configured")
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	hc := c.httpClient
	if method == http.MethodGet {
		hc = c.getClient
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil, fmt.Errorf("decode response: %w", err)
			}
			return nil, &Error{Status: resp.StatusCode}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode response data: %w", err)
		}
	}

	return env.Pagination, nil
}

// Message извлекает из ошибки серверное сообщение для показа пользователю.
// Для прочих ошибок возвращается пустая строка.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
