package admin

import (
	"context"
	"testing"
	"time"

	"github.com/mmeshcher/artmarket-system/internal/api"
	"github.com/mmeshcher/artmarket-system/internal/guard"
	"github.com/mmeshcher/artmarket-system/internal/model"
)

type stubAdminAPI struct {
	users      []model.Identity
	artists    []model.Artist
	products   []model.Product
	categories []model.Category
	orders     []model.Order

	order       *model.Order
	updateCalls int
}

func (s *stubAdminAPI) Users(ctx context.Context) ([]model.Identity, error) { return s.users, nil }

func (s *stubAdminAPI) User(ctx context.Context, id string) (*model.Identity, error) {
	return nil, api.ErrNotFound
}

func (s *stubAdminAPI) UpdateUser(ctx context.Context, id string, in model.Identity) (*model.Identity, error) {
	return &in, nil
}

func (s *stubAdminAPI) DeleteUser(ctx context.Context, id string) error { return nil }

func (s *stubAdminAPI) Artists(ctx context.Context, filters api.ArtistFilters) ([]model.Artist, *model.Pagination, error) {
	return s.artists, nil, nil
}

func (s *stubAdminAPI) CreateArtist(ctx context.Context, in model.Artist) (*model.Artist, error) {
	return &in, nil
}

func (s *stubAdminAPI) UpdateArtist(ctx context.Context, id string, in model.Artist) (*model.Artist, error) {
	return &in, nil
}

func (s *stubAdminAPI) DeleteArtist(ctx context.Context, id string) error { return nil }

func (s *stubAdminAPI) Products(ctx context.Context, filters api.ProductFilters) ([]model.Product, *model.Pagination, error) {
	return s.products, nil, nil
}

func (s *stubAdminAPI) CreateProduct(ctx context.Context, in model.Product) (*model.Product, error) {
	return &in, nil
}

func (s *stubAdminAPI) UpdateProduct(ctx context.Context, id string, in model.Product) (*model.Product, error) {
	return &in, nil
}

func (s *stubAdminAPI) DeleteProduct(ctx context.Context, id string) error { return nil }

func (s *stubAdminAPI) Categories(ctx context.Context) ([]model.Category, error) {
	return s.categories, nil
}

func (s *stubAdminAPI) CreateCategory(ctx context.Context, in model.Category) (*model.Category, error) {
	return &in, nil
}

func (s *stubAdminAPI) UpdateCategory(ctx context.Context, id string, in model.Category) (*model.Category, error) {
	return &in, nil
}

func (s *stubAdminAPI) DeleteCategory(ctx context.Context, id string) error { return nil }

func (s *stubAdminAPI) RecountCategories(ctx context.Context) ([]model.Category, error) {
	return s.categories, nil
}

func (s *stubAdminAPI) AllOrders(ctx context.Context) ([]model.Order, error) { return s.orders, nil }

func (s *stubAdminAPI) Order(ctx context.Context, id string) (*model.Order, error) {
	return s.order, nil
}

func (s *stubAdminAPI) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	s.updateCalls++
	out := *s.order
	out.OrderStatus = status
	return &out, nil
}

type fakeGuardSession struct {
	ready bool
	ident *model.Identity
}

func (f *fakeGuardSession) Ready() bool               { return f.ready }
func (f *fakeGuardSession) Identity() *model.Identity { return f.ident }

func TestAccess(t *testing.T) {
	tests := []struct {
		name   string
		ident  *model.Identity
		kind   guard.DecisionKind
		target string
	}{
		{name: "unauthenticated enters via admin login", ident: nil, kind: guard.DecisionRedirect, target: "/admin/login"},
		{name: "regular user is sent home", ident: &model.Identity{ID: "u1", Role: model.RoleUser}, kind: guard.DecisionRedirect, target: "/"},
		{name: "admin passes", ident: &model.Identity{ID: "a1", Role: model.RoleAdmin}, kind: guard.DecisionAllow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := guard.New(&fakeGuardSession{ready: true, ident: tt.ident})
			svc := NewService(&stubAdminAPI{}, g, nil)

			d := svc.Access()
			if d.Kind != tt.kind || d.Target != tt.target {
				t.Fatalf("decision = %+v, want kind=%v target=%q", d, tt.kind, tt.target)
			}
		})
	}
}

func TestSetOrderStatus_AllowsForwardStep(t *testing.T) {
	stub := &stubAdminAPI{order: &model.Order{ID: "o1", OrderNumber: "AM-000001", OrderStatus: model.OrderStatusPending}}
	svc := NewService(stub, guard.New(&fakeGuardSession{ready: true}), nil)

	order, err := svc.SetOrderStatus(context.Background(), "o1", model.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("SetOrderStatus error: %v", err)
	}
	if order.OrderStatus != model.OrderStatusConfirmed {
		t.Fatalf("status = %s, want confirmed", order.OrderStatus)
	}
}

func TestSetOrderStatus_RejectsSkippedStep(t *testing.T) {
	stub := &stubAdminAPI{order: &model.Order{ID: "o1", OrderNumber: "AM-000001", OrderStatus: model.OrderStatusPending}}
	svc := NewService(stub, guard.New(&fakeGuardSession{ready: true}), nil)

	if _, err := svc.SetOrderStatus(context.Background(), "o1", model.OrderStatusShipped); err == nil {
		t.Fatalf("pending -> shipped must be rejected")
	}
	if stub.updateCalls != 0 {
		t.Fatalf("rejected transition must not reach the network, calls = %d", stub.updateCalls)
	}
}

func TestUpdateUser_RejectsUnknownRole(t *testing.T) {
	svc := NewService(&stubAdminAPI{}, guard.New(&fakeGuardSession{ready: true}), nil)

	if _, err := svc.UpdateUser(context.Background(), "u1", model.Identity{Role: "superadmin"}); err == nil {
		t.Fatalf("unknown role must be rejected")
	}
}

func TestDashboardStats(t *testing.T) {
	now := time.Now()
	stub := &stubAdminAPI{
		users:      make([]model.Identity, 3),
		artists:    make([]model.Artist, 2),
		products:   make([]model.Product, 4),
		categories: make([]model.Category, 5),
		orders: []model.Order{
			{ID: "o1", OrderStatus: model.OrderStatusPending, TotalAmount: 250000, CreatedAt: now.Add(-6 * time.Hour)},
			{ID: "o2", OrderStatus: model.OrderStatusDelivered, TotalAmount: 5000000, CreatedAt: now.Add(-5 * time.Hour)},
			{ID: "o3", OrderStatus: model.OrderStatusCancelled, TotalAmount: 900000, CreatedAt: now.Add(-4 * time.Hour)},
			{ID: "o4", OrderStatus: model.OrderStatusShipped, TotalAmount: 100000, CreatedAt: now.Add(-3 * time.Hour)},
			{ID: "o5", OrderStatus: model.OrderStatusPending, TotalAmount: 150000, CreatedAt: now.Add(-2 * time.Hour)},
			{ID: "o6", OrderStatus: model.OrderStatusConfirmed, TotalAmount: 50000, CreatedAt: now.Add(-time.Hour)},
		},
	}
	svc := NewService(stub, guard.New(&fakeGuardSession{ready: true}), nil)

	stats, err := svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("DashboardStats error: %v", err)
	}

	if stats.Users != 3 || stats.Artists != 2 || stats.Products != 4 || stats.Categories != 5 || stats.Orders != 6 {
		t.Fatalf("unexpected counters: %+v", stats)
	}
	if stats.Pending != 2 {
		t.Fatalf("pending = %d, want 2", stats.Pending)
	}
	// Отменённый o3 в выручку не входит.
	if stats.Revenue != 5550000 {
		t.Fatalf("revenue = %v, want 5550000", stats.Revenue)
	}
	if len(stats.RecentOrders) != 5 {
		t.Fatalf("recent orders = %d, want 5", len(stats.RecentOrders))
	}
	if stats.RecentOrders[0].ID != "o6" || stats.RecentOrders[4].ID != "o2" {
		t.Fatalf("recent orders must be newest first without the oldest: %v, %v",
			stats.RecentOrders[0].ID, stats.RecentOrders[4].ID)
	}
}
