// Package session владеет состоянием аутентификации клиента: текущей
// Identity, парой токенов и их сохранением между запусками. Хранилище —
// единственный писатель Identity; guard, координатор корзины и страницы
// держат только читающую ссылку.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/mmeshcher/artmarket-system/internal/api"
	"github.com/mmeshcher/artmarket-system/internal/model"
)

// AuthAPI описывает операции аутентификации, используемые хранилищем сессии.
type AuthAPI interface {
	Register(ctx context.Context, in api.RegisterInput) (*api.AuthResponse, error)
	Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*model.Identity, error)
	RefreshToken(ctx context.Context, refreshToken string) (*api.TokenPair, error)
	UpdateProfile(ctx context.Context, in api.ProfileUpdate) (*model.Identity, error)
}

// Listener вызывается при каждой смене Identity. Контекст — контекст
// вызова, породившего переход; nil identity означает выход из системы.
type Listener func(ctx context.Context, ident *model.Identity)

// persisted описывает формат файла сессии на диске.
type persisted struct {
	User         *model.Identity `json:"user,omitempty"`
	AccessToken  string          `json:"accessToken,omitempty"`
	RefreshToken string          `json:"refreshToken,omitempty"`
}

// Store хранит текущую сессию пользователя и уведомляет подписчиков о её смене.
type Store struct {
	mu        sync.RWMutex
	client    AuthAPI
	logger    *zap.Logger
	tokenFile string

	ident     *model.Identity
	access    string
	refresh   string
	ready     bool
	listeners []Listener
}

// NewStore создаёт хранилище сессии с сохранением токенов в указанный файл.
func NewStore(tokenFile string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		tokenFile: tokenFile,
		logger:    logger,
	}
}

// Bind связывает хранилище с клиентом API. Вызывается один раз после
// создания клиента: клиенту нужен источник токенов, а хранилищу — клиент.
func (s *Store) Bind(client AuthAPI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = client
}

// AccessToken возвращает текущий access-токен. Реализует api.TokenSource.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// Ready сообщает, завершено ли восстановление сессии. До завершения guard
// не принимает решений о доступе.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Identity возвращает копию текущей Identity или nil для гостя.
func (s *Store) Identity() *model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ident == nil {
		return nil
	}
	ident := *s.ident
	return &ident
}

// IsAuthenticated сообщает, аутентифицирован ли текущий пользователь.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ident != nil
}

// Subscribe регистрирует подписчика на смену Identity.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Init восстанавливает сессию из файла и проверяет её на сервере.
// Неуспех восстановления не является ошибкой запуска: хранилище становится
// готовым в любом случае, просто без Identity.
func (s *Store) Init(ctx context.Context) error {
	saved, err := s.readFile()
	if err != nil {
		s.logger.Warn("read session file", zap.Error(err))
	}

	if saved == nil || saved.AccessToken == "" {
		s.markReady()
		return nil
	}

	s.mu.Lock()
	s.access = saved.AccessToken
	s.refresh = saved.RefreshToken
	s.mu.Unlock()

	ident, err := s.verify(ctx)
	if err != nil {
		s.logger.Info("stored session rejected", zap.Error(err))
		s.mu.Lock()
		s.access = ""
		s.refresh = ""
		s.mu.Unlock()
		s.removeFile()
		s.markReady()
		return nil
	}

	s.setIdentity(ctx, ident, "", "")
	s.markReady()
	return nil
}

// verify подтверждает сохранённые токены запросом текущего пользователя.
// Сетевые сбои повторяются с фибоначчиевой паузой; ответ 401 допускает одну
// попытку обмена refresh-токена.
func (s *Store) verify(ctx context.Context) (*model.Identity, error) {
	var ident *model.Identity

	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(300*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var reqErr error
		ident, reqErr = s.client.Me(ctx)
		if reqErr == nil {
			return nil
		}
		var apiErr *api.Error
		if errors.As(reqErr, &apiErr) || errors.Is(reqErr, api.ErrNotFound) {
			return reqErr
		}
		return retry.RetryableError(reqErr)
	})
	if err == nil {
		return ident, nil
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return nil, err
	}

	s.mu.RLock()
	refresh := s.refresh
	s.mu.RUnlock()
	if refresh == "" {
		return nil, err
	}

	pair, refreshErr := s.client.RefreshToken(ctx, refresh)
	if refreshErr != nil {
		return nil, fmt.Errorf("refresh token: %w", refreshErr)
	}

	s.mu.Lock()
	s.access = pair.AccessToken
	s.refresh = pair.RefreshToken
	s.mu.Unlock()

	return s.client.Me(ctx)
}

// Login выполняет вход и сохраняет полученную сессию.
func (s *Store) Login(ctx context.Context, creds api.Credentials) (*model.Identity, error) {
	resp, err := s.client.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	s.setIdentity(ctx, resp.User, resp.AccessToken, resp.RefreshToken)
	s.persist()
	return s.Identity(), nil
}

// Register регистрирует пользователя и сразу открывает сессию.
func (s *Store) Register(ctx context.Context, in api.RegisterInput) (*model.Identity, error) {
	resp, err := s.client.Register(ctx, in)
	if err != nil {
		return nil, err
	}

	s.setIdentity(ctx, resp.User, resp.AccessToken, resp.RefreshToken)
	s.persist()
	return s.Identity(), nil
}

// Logout завершает сессию. Локальное состояние и файл очищаются даже если
// удалённый вызов не удался.
func (s *Store) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		s.logger.Warn("remote logout failed", zap.Error(err))
	}

	s.setIdentity(ctx, nil, "", "")
	s.removeFile()
}

// UpdateProfile обновляет профиль текущего пользователя.
func (s *Store) UpdateProfile(ctx context.Context, in api.ProfileUpdate) (*model.Identity, error) {
	ident, err := s.client.UpdateProfile(ctx, in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.ident = ident
	s.mu.Unlock()
	s.persist()
	s.notify(ctx, ident)
	return s.Identity(), nil
}

// RefreshIdentity перечитывает текущего пользователя с сервера.
func (s *Store) RefreshIdentity(ctx context.Context) error {
	ident, err := s.client.Me(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ident = ident
	s.mu.Unlock()
	s.persist()
	s.notify(ctx, ident)
	return nil
}

// Close освобождает подписчиков хранилища.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = nil
}

func (s *Store) markReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
}

// setIdentity заменяет текущую сессию и уведомляет подписчиков.
// Пустые токены при ненулевой identity сохраняют прежние значения.
func (s *Store) setIdentity(ctx context.Context, ident *model.Identity, access, refresh string) {
	s.mu.Lock()
	s.ident = ident
	if ident == nil {
		s.access = ""
		s.refresh = ""
	} else {
		if access != "" {
			s.access = access
		}
		if refresh != "" {
			s.refresh = refresh
		}
	}
	s.mu.Unlock()

	s.notify(ctx, ident)
}

func (s *Store) notify(ctx context.Context, ident *model.Identity) {
	s.mu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(ctx, ident)
	}
}

func (s *Store) readFile() (*persisted, error) {
	if s.tokenFile == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(s.tokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var saved persisted
	if err := json.Unmarshal(raw, &saved); err != nil {
		return nil, fmt.Errorf("decode token file: %w", err)
	}
	return &saved, nil
}

func (s *Store) persist() {
	if s.tokenFile == "" {
		return
	}

	s.mu.RLock()
	saved := persisted{
		User:         s.ident,
		AccessToken:  s.access,
		RefreshToken: s.refresh,
	}
	s.mu.RUnlock()

	raw, err := json.Marshal(saved)
	if err != nil {
		s.logger.Warn("encode session file", zap.Error(err))
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.tokenFile), 0o700); err != nil {
		s.logger.Warn("create session dir", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.tokenFile, raw, 0o600); err != nil {
		s.logger.Warn("write session file", zap.Error(err))
	}
}

func (s *Store) removeFile() {
	if s.tokenFile == "" {
		return
	}
	if err := os.Remove(s.tokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("remove session file", zap.Error(err))
	}
}
