package stubserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/artmarket-system/internal/middleware"
	"github.com/mmeshcher/artmarket-system/internal/model"
)

// SetupRouter настраивает HTTP-маршруты и middleware заглушки маркетплейса.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.RequestLogger(h.logger))

	requireAdmin := custommiddleware.RequireRole(model.RoleAdmin, h.store.RoleOf)

	r.Route("/api", func(r chi.Router) {
		h.mountRoutes(r, requireAdmin)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

func (h *Handler) mountRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh-token", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(h.auth.Middleware)

			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
			r.Put("/profile", h.UpdateProfile)
			r.Post("/change-password", h.ChangePassword)
		})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.Products)
		r.Get("/{id}", h.Product)
		r.Post("/{id}/view", h.IncrementViews)

		r.Group(func(r chi.Router) {
			r.Use(h.auth.Middleware, requireAdmin)

			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})
	})

	r.Route("/artists", func(r chi.Router) {
		r.Get("/", h.Artists)
		r.Get("/{id}", h.Artist)

		r.Group(func(r chi.Router) {
			r.Use(h.auth.Middleware, requireAdmin)

			r.Post("/", h.CreateArtist)
			r.Put("/{id}", h.UpdateArtist)
			r.Delete("/{id}", h.DeleteArtist)
		})
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.Categories)

		r.Group(func(r chi.Router) {
			r.Use(h.auth.Middleware, requireAdmin)

			r.Post("/", h.CreateCategory)
			r.Post("/update-counts", h.RecountCategories)
			r.Put("/{id}", h.UpdateCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(h.auth.Middleware, requireAdmin)

		r.Get("/", h.Users)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(h.auth.Middleware)

		r.Get("/", h.GetCart)
		r.Post("/add", h.AddToCart)
		r.Put("/update", h.UpdateCartItem)
		r.Delete("/remove/{productId}", h.RemoveFromCart)
		r.Delete("/clear", h.ClearCart)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(h.auth.Middleware)

		r.Get("/", h.Orders)
		r.Post("/", h.CreateOrder)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)

			r.Get("/admin/all", h.AllOrders)
		})

		r.Get("/{id}", h.GetOrder)
		r.Patch("/{id}/cancel", h.CancelOrder)
		r.With(requireAdmin).Put("/{id}", h.UpdateOrderStatus)
	})
}
