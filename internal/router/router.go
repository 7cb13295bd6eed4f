// Package router sets up all HTTP routes and middleware chains for the
// PartsHub API. It organizes routes into public storefront and admin
// groups with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"partshub/internal/auth"
	"partshub/internal/handlers"
	"partshub/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(h *handlers.Handlers, issuer *auth.TokenIssuer, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.TenantHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	r.Use(middleware.LoadClaims(issuer))

	// Health check and metrics, outside tenant resolution.
	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	// Everything else is tenant-scoped.
	r.Group(func(r chi.Router) {
		r.Use(middleware.ResolveTenant(h.Tenants))

		// Auth, rate-limited to slow down credential stuffing.
		loginLimiter := middleware.NewRateLimiter(10, time.Minute)
		r.Route("/auth", func(r chi.Router) {
			r.Use(loginLimiter.Middleware)
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
			r.With(middleware.RequireAuth).Get("/me", h.Me)
		})

		// Public storefront.
		r.Get("/categories", h.CategoryTree)
		r.Get("/categories/search", h.CategorySearch)
		r.Get("/categories/breadcrumb", h.Breadcrumb)
		r.Get("/categories/{id}/breadcrumb", h.Breadcrumb)
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/fields", h.VisibleFields)
		r.Get("/settings", h.PublicSettings)

		// Carts and checkout.
		r.Route("/cart", func(r chi.Router) {
			r.Post("/", h.CreateCart)
			r.Get("/{token}", h.GetCart)
			r.Put("/{token}/items", h.UpdateCartItem)
			r.Delete("/{token}", h.DeleteCart)
		})
		r.Post("/orders", h.Checkout)
		r.With(middleware.RequireAuth).Get("/orders/me", h.MyOrders)

		// Admin back office.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireAdmin)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", h.AdminListCategories)
				r.Post("/", h.AdminCreateCategory)
				r.Get("/{id}", h.AdminGetCategory)
				r.Put("/{id}", h.AdminUpdateCategory)
				r.Delete("/{id}", h.AdminDeleteCategory)
				r.Post("/reorder", h.AdminReorderCategories)
			})

			r.Route("/fields", func(r chi.Router) {
				r.Get("/", h.AdminListFields)
				r.Post("/", h.AdminCreateField)
				r.Put("/{id}", h.AdminUpdateField)
				r.Post("/{id}/deactivate", h.AdminDeactivateField)
				r.Post("/{id}/restore", h.AdminRestoreField)
				r.Delete("/{id}", h.AdminDeleteField)
			})

			r.Route("/displays", func(r chi.Router) {
				r.Get("/", h.AdminListDisplays)
				r.Post("/init", h.AdminInitSystemFields)
				r.Post("/move", h.AdminMoveDisplay)
				r.Post("/{id}/toggle", h.AdminToggleDisplay)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.AdminListProducts)
				r.Post("/", h.AdminCreateProduct)
				r.Get("/{id}", h.AdminGetProduct)
				r.Put("/{id}", h.AdminUpdateProduct)
				r.Delete("/{id}", h.AdminDeleteProduct)
				r.Post("/{id}/photo", h.AdminUploadPhoto)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.AdminListOrders)
				r.Get("/{id}", h.AdminGetOrder)
				r.Put("/{id}/status", h.AdminUpdateOrderStatus)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.AdminListUsers)
				r.Post("/", h.AdminCreateUser)
				r.Put("/{id}", h.AdminUpdateUser)
				r.Post("/{id}/deactivate", h.AdminDeactivateUser)
			})

			r.Get("/settings", h.AdminListSettings)
			r.Put("/settings", h.AdminUpdateSettings)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
