package session

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/mmeshcher/artmarket-system/internal/api"
	"github.com/mmeshcher/artmarket-system/internal/model"
)

type stubAuth struct {
	loginResp *api.AuthResponse
	loginErr  error

	meResp  *model.Identity
	meErr   error
	meCalls int

	refreshResp *api.TokenPair
	refreshErr  error

	logoutErr   error
	logoutCalls int
}

func (s *stubAuth) Register(ctx context.Context, in api.RegisterInput) (*api.AuthResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuth) Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuth) Logout(ctx context.Context) error {
	s.logoutCalls++
	return s.logoutErr
}

func (s *stubAuth) Me(ctx context.Context) (*model.Identity, error) {
	s.meCalls++
	return s.meResp, s.meErr
}

func (s *stubAuth) RefreshToken(ctx context.Context, refreshToken string) (*api.TokenPair, error) {
	return s.refreshResp, s.refreshErr
}

func (s *stubAuth) UpdateProfile(ctx context.Context, in api.ProfileUpdate) (*model.Identity, error) {
	return s.meResp, s.meErr
}

func newTestStore(t *testing.T, auth AuthAPI) *Store {
	t.Helper()
	file := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(file, zap.NewNop())
	store.Bind(auth)
	return store
}

func TestInit_NoStoredSession(t *testing.T) {
	auth := &stubAuth{}
	store := newTestStore(t, auth)

	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if !store.Ready() {
		t.Fatalf("store must be ready after Init")
	}
	if store.IsAuthenticated() {
		t.Fatalf("store must stay unauthenticated without a token file")
	}
	if auth.meCalls != 0 {
		t.Fatalf("Me must not be called without stored tokens, got %d calls", auth.meCalls)
	}
}

func TestLogin_PersistsAndNotifies(t *testing.T) {
	user := &model.Identity{ID: "u1", Email: "a@b.c", Role: model.RoleUser}
	auth := &stubAuth{
		loginResp: &api.AuthResponse{User: user, AccessToken: "acc", RefreshToken: "ref"},
	}
	store := newTestStore(t, auth)

	var notified *model.Identity
	store.Subscribe(func(ctx context.Context, ident *model.Identity) {
		notified = ident
	})

	got, err := store.Login(context.Background(), api.Credentials{Email: "a@b.c", Password: "x"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if got == nil || got.ID != "u1" {
		t.Fatalf("unexpected identity: %+v", got)
	}
	if notified == nil || notified.ID != "u1" {
		t.Fatalf("listener was not notified with the new identity")
	}
	if store.AccessToken() != "acc" {
		t.Fatalf("access token = %q, want acc", store.AccessToken())
	}

	// Новый Store с тем же файлом восстанавливает сессию.
	restored := NewStore(store.tokenFile, zap.NewNop())
	restored.Bind(&stubAuth{meResp: user})
	if err := restored.Init(context.Background()); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if !restored.IsAuthenticated() {
		t.Fatalf("restored store must be authenticated")
	}
}

func TestInit_RejectedTokenClearsFile(t *testing.T) {
	user := &model.Identity{ID: "u1", Role: model.RoleUser}
	auth := &stubAuth{
		loginResp: &api.AuthResponse{User: user, AccessToken: "acc", RefreshToken: ""},
	}
	store := newTestStore(t, auth)
	if _, err := store.Login(context.Background(), api.Credentials{}); err != nil {
		t.Fatalf("Login error: %v", err)
	}

	rejected := NewStore(store.tokenFile, zap.NewNop())
	rejected.Bind(&stubAuth{meErr: &api.Error{Status: http.StatusUnauthorized}})
	if err := rejected.Init(context.Background()); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if rejected.IsAuthenticated() {
		t.Fatalf("rejected session must not authenticate")
	}
	if !rejected.Ready() {
		t.Fatalf("store must be ready even after rejection")
	}
	if _, err := os.Stat(store.tokenFile); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("token file must be removed after rejection, stat err = %v", err)
	}
}

func TestInit_RefreshesExpiredToken(t *testing.T) {
	user := &model.Identity{ID: "u1", Role: model.RoleUser}
	auth := &stubAuth{
		loginResp: &api.AuthResponse{User: user, AccessToken: "acc", RefreshToken: "ref"},
	}
	store := newTestStore(t, auth)
	if _, err := store.Login(context.Background(), api.Credentials{}); err != nil {
		t.Fatalf("Login error: %v", err)
	}

	// Первый Me отвечает 401, после обмена refresh-токена — успех.
	verifier := &refreshingAuth{user: user}
	restored := NewStore(store.tokenFile, zap.NewNop())
	restored.Bind(verifier)
	if err := restored.Init(context.Background()); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if !restored.IsAuthenticated() {
		t.Fatalf("store must authenticate after token refresh")
	}
	if restored.AccessToken() != "acc-2" {
		t.Fatalf("access token = %q, want refreshed acc-2", restored.AccessToken())
	}
}

type refreshingAuth struct {
	stubAuth
	user      *model.Identity
	refreshed bool
}

func (r *refreshingAuth) Me(ctx context.Context) (*model.Identity, error) {
	if !r.refreshed {
		return nil, &api.Error{Status: http.StatusUnauthorized}
	}
	return r.user, nil
}

func (r *refreshingAuth) RefreshToken(ctx context.Context, refreshToken string) (*api.TokenPair, error) {
	if refreshToken != "ref" {
		return nil, &api.Error{Status: http.StatusUnauthorized}
	}
	r.refreshed = true
	return &api.TokenPair{AccessToken: "acc-2", RefreshToken: "ref-2"}, nil
}

func TestLogout_ClearsStateEvenOnRemoteFailure(t *testing.T) {
	user := &model.Identity{ID: "u1", Role: model.RoleUser}
	auth := &stubAuth{
		loginResp: &api.AuthResponse{User: user, AccessToken: "acc", RefreshToken: "ref"},
		logoutErr: errors.New("network down"),
	}
	store := newTestStore(t, auth)
	if _, err := store.Login(context.Background(), api.Credentials{}); err != nil {
		t.Fatalf("Login error: %v", err)
	}

	var saw []*model.Identity
	store.Subscribe(func(ctx context.Context, ident *model.Identity) {
		saw = append(saw, ident)
	})

	store.Logout(context.Background())

	if auth.logoutCalls != 1 {
		t.Fatalf("logout calls = %d, want 1", auth.logoutCalls)
	}
	if store.IsAuthenticated() {
		t.Fatalf("store must be unauthenticated after logout")
	}
	if store.AccessToken() != "" {
		t.Fatalf("access token must be cleared")
	}
	if len(saw) != 1 || saw[0] != nil {
		t.Fatalf("listener must observe nil identity on logout, got %+v", saw)
	}
	if _, err := os.Stat(store.tokenFile); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("token file must be removed on logout")
	}
}
