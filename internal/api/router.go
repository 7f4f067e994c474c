// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/kennelwise/kennelwise/internal/auth"
	"github.com/kennelwise/kennelwise/internal/middleware"
	"github.com/kennelwise/kennelwise/internal/models"
	"github.com/kennelwise/kennelwise/internal/tenant"
)

// Router wires handlers, tenant resolution, authentication, and the chi
// middleware stack into the HTTP surface.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	tenantMW      *tenant.Middleware
	authMW        *auth.Middleware
}

// NewRouter creates the router.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, tenantMW *tenant.Middleware, authMW *auth.Middleware) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
		tenantMW:      tenantMW,
		authMW:        authMW,
	}
}

// Setup configures all HTTP routes.
//
// Route groups, outermost first:
//
//   - /api/v1/health        liveness and readiness, no tenant required
//   - /metrics, /swagger    observability, no tenant required
//   - /api/v1/tenants       platform operations, super-admin key only
//   - everything else       tenant-resolved, then JWT-authenticated, with
//     per-group role guards (staff read, manager
//     write, admin for staff management)
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight works

	// Health endpoints: permissive rate limiting for monitoring tools.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.HealthSummary)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Platform operations: provisioning and lifecycle of tenants. Only the
	// super-admin API key reaches these; staff JWTs are rejected.
	r.Route("/api/v1/tenants", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.authMW.RequireSuperAdmin)

		r.Post("/", router.handler.TenantCreate)
		r.Get("/", router.handler.TenantList)
		r.Get("/{id}", router.handler.TenantGet)
		r.Put("/{id}/status", router.handler.TenantUpdateStatus)
	})

	// Login: tenant-resolved but unauthenticated, with strict rate limiting
	// against credential stuffing.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitLogin())
		r.Use(APISecurityHeaders())
		r.Use(router.tenantMW.Resolve)

		r.Post("/login", router.handler.Login)
	})

	// Tenant-scoped data endpoints. Every request resolves a tenant, then
	// authenticates, then hits the role guard for its group.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.tenantMW.Resolve)
		r.Use(router.authMW.RequireAuth)

		staffRead := router.authMW.RequireRole(models.RoleStaff)
		managerWrite := router.authMW.RequireRole(models.RoleManager)
		adminOnly := router.authMW.RequireRole(models.RoleAdmin)

		// Front-desk event stream
		r.With(staffRead).Get("/ws", router.handler.WebSocket)

		r.Route("/customers", func(r chi.Router) {
			r.With(staffRead).Get("/", router.handler.CustomerList)
			r.With(staffRead).Get("/{id}", router.handler.CustomerGet)
			r.With(managerWrite).Post("/", router.handler.CustomerCreate)
			r.With(managerWrite).Put("/{id}", router.handler.CustomerUpdate)
			r.With(managerWrite).Delete("/{id}", router.handler.CustomerDelete)
		})

		r.Route("/pets", func(r chi.Router) {
			r.With(staffRead).Get("/", router.handler.PetList)
			r.With(staffRead).Get("/{id}", router.handler.PetGet)
			r.With(managerWrite).Post("/", router.handler.PetCreate)
			r.With(managerWrite).Put("/{id}", router.handler.PetUpdate)
			r.With(managerWrite).Delete("/{id}", router.handler.PetDelete)
		})

		r.Route("/resources", func(r chi.Router) {
			r.With(staffRead).Get("/", router.handler.ResourceList)
			r.With(staffRead).Get("/{id}", router.handler.ResourceGet)
			r.With(managerWrite).Post("/", router.handler.ResourceCreate)
			r.With(managerWrite).Put("/{id}", router.handler.ResourceUpdate)
			r.With(managerWrite).Delete("/{id}", router.handler.ResourceDeactivate)
		})

		r.Route("/services", func(r chi.Router) {
			r.With(staffRead).Get("/", router.handler.ServiceList)
			r.With(staffRead).Get("/{id}", router.handler.ServiceGet)
			r.With(managerWrite).Post("/", router.handler.ServiceCreate)
			r.With(managerWrite).Put("/{id}", router.handler.ServiceUpdate)
		})

		r.Route("/add-ons", func(r chi.Router) {
			r.With(staffRead).Get("/", router.handler.AddOnList)
			r.With(managerWrite).Post("/", router.handler.AddOnCreate)
		})

		r.Route("/reservations", func(r chi.Router) {
			r.With(staffRead).Get("/", router.handler.ReservationList)
			r.With(staffRead).Get("/{id}", router.handler.ReservationGet)
			r.With(staffRead).Post("/", router.handler.ReservationCreate)
			// Check-in/check-out is a front-desk operation, so the status
			// transition stays at staff level while rescheduling requires
			// a manager.
			r.With(staffRead).Put("/{id}/status", router.handler.ReservationUpdateStatus)
			r.With(managerWrite).Put("/{id}", router.handler.ReservationUpdate)
		})

		r.With(staffRead).Get("/availability", router.handler.AvailabilityCheck)
		r.With(managerWrite).Get("/audit/double-bookings", router.handler.DoubleBookingAudit)

		r.Route("/invoices", func(r chi.Router) {
			r.With(staffRead).Get("/", router.handler.InvoiceList)
			r.With(staffRead).Get("/{id}", router.handler.InvoiceGet)
			r.With(managerWrite).Post("/", router.handler.InvoiceCreate)
			r.With(managerWrite).Put("/{id}/status", router.handler.InvoiceUpdateStatus)
		})

		r.Route("/payments", func(r chi.Router) {
			r.With(staffRead).Get("/", router.handler.PaymentList)
			r.With(staffRead).Post("/", router.handler.PaymentCreate)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitReports())
			r.With(managerWrite).Get("/revenue", router.handler.RevenueReport)
			r.With(managerWrite).Get("/occupancy", router.handler.OccupancyReport)
		})

		r.Route("/staff", func(r chi.Router) {
			r.With(managerWrite).Get("/", router.handler.StaffList)
			r.With(managerWrite).Get("/{id}", router.handler.StaffGet)
			r.With(adminOnly).Post("/", router.handler.StaffCreate)
			r.With(adminOnly).Put("/{id}", router.handler.StaffUpdate)
			r.With(adminOnly).Put("/{id}/password", router.handler.StaffUpdatePassword)
		})

		r.Route("/shifts", func(r chi.Router) {
			r.With(staffRead).Get("/", router.handler.ShiftList)
			r.With(managerWrite).Post("/", router.handler.ShiftCreate)
			r.With(managerWrite).Delete("/{id}", router.handler.ShiftDelete)
		})
	})

	// Observability
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
