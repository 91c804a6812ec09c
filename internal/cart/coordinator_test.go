package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/mmeshcher/artmarket-system/internal/api"
	"github.com/mmeshcher/artmarket-system/internal/model"
	"github.com/mmeshcher/artmarket-system/internal/session"
)

type stubCartAPI struct {
	getResp *model.Cart
	getErr  error

	mutResp *model.Cart
	mutErr  error

	clearErr error

	getCalls    int
	addCalls    int
	updateCalls int
	removeCalls int
	clearCalls  int

	// onCall выполняется внутри каждого удалённого вызова, до возврата ответа.
	onCall func()
}

func (s *stubCartAPI) hook() {
	if s.onCall != nil {
		s.onCall()
	}
}

func (s *stubCartAPI) GetCart(ctx context.Context) (*model.Cart, error) {
	s.getCalls++
	s.hook()
	return s.getResp, s.getErr
}

func (s *stubCartAPI) AddToCart(ctx context.Context, productID string, quantity int) (*model.Cart, error) {
	s.addCalls++
	s.hook()
	return s.mutResp, s.mutErr
}

func (s *stubCartAPI) UpdateCartItem(ctx context.Context, productID string, quantity int) (*model.Cart, error) {
	s.updateCalls++
	s.hook()
	return s.mutResp, s.mutErr
}

func (s *stubCartAPI) RemoveFromCart(ctx context.Context, productID string) (*model.Cart, error) {
	s.removeCalls++
	s.hook()
	return s.mutResp, s.mutErr
}

func (s *stubCartAPI) ClearCart(ctx context.Context) error {
	s.clearCalls++
	s.hook()
	return s.clearErr
}

func (s *stubCartAPI) totalCalls() int {
	return s.getCalls + s.addCalls + s.updateCalls + s.removeCalls + s.clearCalls
}

type fakeSession struct {
	authenticated bool
	listener      session.Listener
}

func (f *fakeSession) IsAuthenticated() bool         { return f.authenticated }
func (f *fakeSession) Subscribe(fn session.Listener) { f.listener = fn }

func sampleCart() *model.Cart {
	return &model.Cart{
		UserID: "u1",
		Items: []model.CartItem{
			{ProductID: "P1", Quantity: 2, Price: 100000},
		},
		TotalItems: 2,
		TotalPrice: 200000,
	}
}

func TestMutations_UnauthenticatedMakeNoCalls(t *testing.T) {
	stub := &stubCartAPI{}
	c := NewCoordinator(stub, &fakeSession{authenticated: false}, nil)

	ctx := context.Background()

	if err := c.Add(ctx, "P1", 1); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("Add error = %v, want ErrLoginRequired", err)
	}
	if err := c.UpdateQuantity(ctx, "P1", 2); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("UpdateQuantity error = %v, want ErrLoginRequired", err)
	}
	if err := c.Remove(ctx, "P1"); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("Remove error = %v, want ErrLoginRequired", err)
	}
	if err := c.Clear(ctx); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("Clear error = %v, want ErrLoginRequired", err)
	}
	if err := c.Load(ctx); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if stub.totalCalls() != 0 {
		t.Fatalf("remote calls = %d, want 0 while unauthenticated", stub.totalCalls())
	}
	if c.Cart() != nil {
		t.Fatalf("cart must stay absent")
	}
}

func TestLoad_NotFoundIsEmptyState(t *testing.T) {
	stub := &stubCartAPI{getErr: api.ErrNotFound}
	c := NewCoordinator(stub, &fakeSession{authenticated: true}, nil)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load error: %v, want nil for missing cart", err)
	}
	if c.Cart() != nil {
		t.Fatalf("missing cart must map to absent local cart")
	}
	if c.ItemCount() != 0 || c.TotalPrice() != 0 {
		t.Fatalf("derived values must be zero for absent cart")
	}
}

func TestLoad_OtherFailureDegradesToEmpty(t *testing.T) {
	stub := &stubCartAPI{getErr: errors.New("connection reset")}
	c := NewCoordinator(stub, &fakeSession{authenticated: true}, nil)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load error: %v, want nil (degrade to empty)", err)
	}
	if c.Cart() != nil {
		t.Fatalf("failed load must leave cart absent")
	}
}

func TestAdd_ReplacesWholeCart(t *testing.T) {
	stub := &stubCartAPI{mutResp: sampleCart()}
	c := NewCoordinator(stub, &fakeSession{authenticated: true}, nil)

	if err := c.Add(context.Background(), "P1", 2); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	got := c.Cart()
	if got == nil || got.TotalItems != 2 || got.TotalPrice != 200000 {
		t.Fatalf("unexpected cart: %+v", got)
	}
	if !got.ConsistentTotals() {
		t.Fatalf("applied cart must keep totals invariant")
	}
	if c.ItemCount() != 2 || c.TotalPrice() != 200000 {
		t.Fatalf("derived values mismatch: count=%d price=%v", c.ItemCount(), c.TotalPrice())
	}
}

func TestAdd_FailureKeepsLastKnownGoodState(t *testing.T) {
	stub := &stubCartAPI{getResp: sampleCart()}
	c := NewCoordinator(stub, &fakeSession{authenticated: true}, nil)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	stub.mutErr = &api.Error{Status: 400, Message: "insufficient stock"}
	err := c.Add(context.Background(), "P1", 99)
	if err == nil {
		t.Fatalf("expected error from failed mutation")
	}
	if api.Message(err) != "insufficient stock" {
		t.Fatalf("server message must propagate, got %q", api.Message(err))
	}

	got := c.Cart()
	if got == nil || got.TotalItems != 2 {
		t.Fatalf("failed mutation must not touch local cart: %+v", got)
	}
}

func TestUpdateQuantity_NonPositiveBecomesRemove(t *testing.T) {
	for _, q := range []int{0, -3} {
		stub := &stubCartAPI{mutResp: &model.Cart{}}
		c := NewCoordinator(stub, &fakeSession{authenticated: true}, nil)

		if err := c.UpdateQuantity(context.Background(), "P1", q); err != nil {
			t.Fatalf("UpdateQuantity(%d) error: %v", q, err)
		}
		if stub.removeCalls != 1 {
			t.Fatalf("q=%d: remove calls = %d, want 1", q, stub.removeCalls)
		}
		if stub.updateCalls != 0 {
			t.Fatalf("q=%d: non-positive quantity must never reach the update endpoint", q)
		}
	}
}

func TestRemoveLastItem_EmptiesCart(t *testing.T) {
	stub := &stubCartAPI{
		getResp: sampleCart(),
		mutResp: &model.Cart{UserID: "u1", Items: []model.CartItem{}, TotalItems: 0, TotalPrice: 0},
	}
	c := NewCoordinator(stub, &fakeSession{authenticated: true}, nil)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if err := c.Remove(context.Background(), "P1"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}

	got := c.Cart()
	if !got.IsEmpty() {
		t.Fatalf("cart must be empty after removing the only item: %+v", got)
	}
	if c.ItemCount() != 0 || c.TotalPrice() != 0 {
		t.Fatalf("derived values must be zero after removal")
	}
}

func TestClear_MakesCartAbsent(t *testing.T) {
	stub := &stubCartAPI{getResp: sampleCart()}
	c := NewCoordinator(stub, &fakeSession{authenticated: true}, nil)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if err := c.Clear(context.Background()); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if c.Cart() != nil {
		t.Fatalf("cart must be absent after clear")
	}
}

func TestRefresh_Idempotent(t *testing.T) {
	stub := &stubCartAPI{getResp: sampleCart()}
	c := NewCoordinator(stub, &fakeSession{authenticated: true}, nil)

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	first := c.Cart()

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	second := c.Cart()

	if first.TotalItems != second.TotalItems || first.TotalPrice != second.TotalPrice {
		t.Fatalf("refresh must not drift: %+v vs %+v", first, second)
	}
	if len(first.Items) != len(second.Items) {
		t.Fatalf("refresh must not duplicate items")
	}
	if stub.getCalls != 2 {
		t.Fatalf("get calls = %d, want 2", stub.getCalls)
	}
}

func TestMutation_NotVisibleBeforeServerResponse(t *testing.T) {
	stub := &stubCartAPI{getResp: sampleCart()}
	c := NewCoordinator(stub, &fakeSession{authenticated: true}, nil)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	updated := sampleCart()
	updated.Items[0].Quantity = 5
	updated.TotalItems = 5
	updated.TotalPrice = 500000
	stub.mutResp = updated

	stub.onCall = func() {
		// Пока ответ сервера не получен, локальная корзина прежняя.
		if got := c.Cart(); got.TotalItems != 2 {
			t.Fatalf("local cart mutated before server response: %+v", got)
		}
		if !c.Busy() {
			t.Fatalf("coordinator must report in-flight state during a call")
		}
	}

	if err := c.UpdateQuantity(context.Background(), "P1", 5); err != nil {
		t.Fatalf("UpdateQuantity error: %v", err)
	}
	if got := c.Cart(); got.TotalItems != 5 {
		t.Fatalf("cart must reflect server response after completion: %+v", got)
	}
	if c.Busy() {
		t.Fatalf("coordinator must be idle after the call resolves")
	}
}

func TestBind_LoginLoadsOnceLogoutClearsLocally(t *testing.T) {
	stub := &stubCartAPI{getResp: sampleCart()}
	sess := &fakeSession{authenticated: false}
	c := NewCoordinator(stub, sess, nil)
	c.Bind()

	if sess.listener == nil {
		t.Fatalf("Bind must subscribe to session changes")
	}

	// Вход: ровно одна загрузка корзины.
	sess.authenticated = true
	sess.listener(context.Background(), &model.Identity{ID: "u1", Role: model.RoleUser})
	if stub.getCalls != 1 {
		t.Fatalf("get calls = %d, want exactly 1 after login", stub.getCalls)
	}
	if c.Cart() == nil {
		t.Fatalf("cart must be loaded after login")
	}

	// Выход: локальная очистка без обращения к серверу.
	sess.authenticated = false
	sess.listener(context.Background(), nil)
	if c.Cart() != nil {
		t.Fatalf("cart must be cleared locally on logout")
	}
	if stub.totalCalls() != 1 {
		t.Fatalf("logout must not trigger remote calls, got %d", stub.totalCalls())
	}
}
