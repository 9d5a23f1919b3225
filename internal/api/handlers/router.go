package handlers

import (
	"github.com/go-chi/chi/v5"

	"pos-service/internal/auth"
	"pos-service/internal/logger"
	"pos-service/internal/models"
)

type RouterDeps struct {
	Auth      *AuthHandler
	Products  *ProductHandler
	Orders    *OrderHandler
	Payments  *PaymentHandler
	Dashboard *DashboardHandler
	Tokens    *auth.TokenManager
	Log       *logger.Logger
}

const (
	roleAdmin   = models.RoleAdmin
	roleCashier = models.RoleCashier
)

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(RequestLogger(deps.Log))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.Auth.Register)
			r.Post("/login", deps.Auth.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(deps.Tokens))

			r.Route("/products", func(r chi.Router) {
				r.With(auth.RequireRole(roleAdmin, roleCashier)).Get("/", deps.Products.GetAll)

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRole(roleAdmin))
					r.Post("/", deps.Products.Create)
					r.Put("/{id}", deps.Products.Update)
					r.Delete("/{id}", deps.Products.Delete)
				})
			})

			r.Route("/orders", func(r chi.Router) {
				r.Use(auth.RequireRole(roleAdmin, roleCashier))
				r.Get("/", deps.Orders.GetAll)
				r.Post("/", deps.Orders.Create)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Use(auth.RequireRole(roleAdmin, roleCashier))
				r.Get("/", deps.Payments.GetAll)
				r.Post("/", deps.Payments.Pay)
				r.Delete("/", deps.Payments.Cancel)
			})

			r.With(auth.RequireRole(roleAdmin)).Get("/dashboard", deps.Dashboard.Get)
		})
	})

	return r
}
