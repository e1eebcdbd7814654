// Package router sets up all HTTP routes and middleware chains of the club
// API. Public reads are open, writes are grouped behind role guards.
package router

import (
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"nunchakuclub/internal/handlers"
	"nunchakuclub/internal/middleware"
	"nunchakuclub/internal/models"
)

// Deps holds everything the router wires together. The rate limiters are
// optional; a nil limiter disables limiting for its routes.
type Deps struct {
	Tokens         middleware.TokenVerifier
	Metrics        *middleware.Metrics
	AuthLimiter    *middleware.RateLimiter
	ContactLimiter *middleware.RateLimiter
	CORSOrigins    []string
	TrustedProxies []netip.Prefix

	Health  http.Handler
	Auth    *handlers.Auth
	Posts   *handlers.Posts
	Catalog *handlers.Catalog
	Contact *handlers.Contact
	Layouts *handlers.Layouts
	Media   *handlers.Media
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.TrustProxies(d.TrustedProxies))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(d.CORSOrigins))

	r.Method(http.MethodGet, "/health", d.Health)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	staff := middleware.RequireRole(models.RoleAdmin, models.RoleEditor)
	admin := middleware.RequireRole(models.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(d.Tokens))

		r.Route("/auth", func(r chi.Router) {
			r.Use(limit(d.AuthLimiter))
			r.Post("/register", d.Auth.Register)
			r.Post("/login", d.Auth.Login)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", d.Posts.List)
			r.Get("/slug/{slug}", d.Posts.GetBySlug)
			r.Get("/slug/{slug}/related", d.Posts.Related)
			r.Get("/{id}", d.Posts.Get)
			r.Post("/{id}/like", d.Posts.Like)
			r.Get("/{id}/comments", d.Posts.ListComments)
			r.Post("/{id}/comments", d.Posts.AddComment)

			r.Group(func(r chi.Router) {
				r.Use(staff)
				r.Post("/", d.Posts.Create)
				r.Put("/{id}", d.Posts.Update)
				r.Post("/{id}/publish", d.Posts.Publish)
			})
			r.With(admin).Delete("/{id}", d.Posts.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Catalog.ListCategories)
			r.With(admin).Post("/", d.Catalog.CreateCategory)
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", d.Catalog.ListCourses)
			r.With(admin).Post("/", d.Catalog.CreateCourse)
		})

		r.Route("/contact", func(r chi.Router) {
			r.With(limit(d.ContactLimiter)).Post("/", d.Contact.Submit)
			r.With(admin, middleware.NoStore).Get("/", d.Contact.List)
		})

		r.Route("/layouts", func(r chi.Router) {
			r.Get("/section-types", d.Layouts.ListSectionTypes)
			r.Get("/templates", d.Layouts.ListTemplates)
			r.Get("/templates/{id}", d.Layouts.GetTemplate)

			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Post("/section-types", d.Layouts.CreateSectionType)
				r.Post("/templates", d.Layouts.CreateTemplate)
				r.Put("/templates/{id}", d.Layouts.UpdateTemplate)
				r.Delete("/templates/{id}", d.Layouts.DeleteTemplate)
			})
		})

		// {page} is a slug on the public read and an ID under /layout.
		r.Route("/pages", func(r chi.Router) {
			r.Get("/{page}", d.Layouts.GetPage)
			r.With(staff, middleware.NoStore).Get("/{page}/layout", d.Layouts.GetPageLayout)
			r.With(admin).Put("/{page}/layout", d.Layouts.UpdatePageLayout)
			r.With(admin).Post("/{page}/layout/apply/{templateId}", d.Layouts.ApplyTemplate)
		})

		r.Route("/media", func(r chi.Router) {
			r.Use(staff)
			r.Post("/upload", d.Media.Upload)
			r.Post("/upload-multiple", d.Media.UploadMany)
			r.Delete("/{id}", d.Media.Delete)
			r.Get("/{id}/url", d.Media.URL)
		})
	})

	return r
}

// limit returns the limiter's middleware, or a pass-through when rl is nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}
