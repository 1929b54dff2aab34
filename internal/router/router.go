// Package router sets up all HTTP routes and middleware chains of the
// template manager. Routes are organized into the JSON API, the host
// pages, and the sandboxed frame documents.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lpmanager/internal/handlers"
	"lpmanager/internal/metrics"
	"lpmanager/internal/middleware"
	"lpmanager/internal/session"
	"lpmanager/web"
)

// Deps are the handlers and middleware state the router wires together.
type Deps struct {
	Sessions *session.Manager
	API      *handlers.API
	Preview  *handlers.Preview
	Health   http.Handler
	// Limiter throttles LLM generation. Optional.
	Limiter *middleware.RateLimiter
	// SecureCookies marks the CSRF cookie as TLS-only.
	SecureCookies bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Operational endpoints: no session, no CSRF.
	r.Method(http.MethodGet, "/health", d.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Handle("/static/*", staticHandler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(d.Sessions))
		r.Use(middleware.NewCSRF(d.SecureCookies))

		// Host pages.
		r.Get("/", d.Preview.Index)
		r.Get("/templates/{id}", d.Preview.Template)
		r.Get("/draft", d.Preview.Draft)

		// Rendered documents, only ever shown inside sandboxed iframes.
		r.Route("/frames", func(r chi.Router) {
			r.Use(middleware.Sandbox)
			r.Get("/templates/{id}", d.Preview.FrameTemplate)
			r.Get("/draft", d.Preview.FrameDraft)
		})

		r.Route("/api", func(r chi.Router) {
			r.Get("/sections", d.API.Sections)
			r.Get("/stats", d.API.Stats)
			r.Get("/export", d.API.Export)
			r.Post("/import", d.API.Import)
			r.Delete("/workspace", d.API.ResetWorkspace)

			r.Route("/ai", func(r chi.Router) {
				r.Get("/", d.API.AIProviderStatus)
				r.Put("/provider", d.API.AISetProvider)
			})

			r.Route("/templates", func(r chi.Router) {
				r.Get("/", d.API.ListTemplates)
				r.Post("/", d.API.CreateTemplate)
				r.Get("/{id}", d.API.GetTemplate)
				r.Patch("/{id}", d.API.UpdateTemplate)
				r.Delete("/{id}", d.API.DeleteTemplate)
				r.Post("/{id}/status", d.API.SetStatus)
				r.Get("/{id}/download", d.API.DownloadTemplate)
			})

			r.Route("/draft", func(r chi.Router) {
				r.Get("/", d.API.GetDraft)
				r.Post("/", d.API.StartDraft)
				r.Delete("/", d.API.DiscardDraft)
				r.Get("/prompt", d.API.DraftPrompt)
				r.Post("/json", d.API.DraftJSON)
				r.Post("/html", d.API.DraftHTML)
				r.Post("/commit", d.API.CommitDraft)
				r.Group(func(r chi.Router) {
					if d.Limiter != nil {
						r.Use(d.Limiter.Middleware)
					}
					r.Post("/generate", d.API.GenerateDraft)
				})
			})

			r.Route("/page", func(r chi.Router) {
				r.Get("/sections", d.API.PageSections)
				r.Post("/", d.API.AssemblePage)
				r.Post("/publish", d.API.PublishPage)
			})

			r.Route("/snapshots", func(r chi.Router) {
				r.Get("/", d.API.ListSnapshots)
				r.Post("/", d.API.CreateSnapshot)
				r.Post("/{id}/restore", d.API.RestoreSnapshot)
				r.Delete("/{id}", d.API.DeleteSnapshot)
			})
		})
	})

	return r
}

// staticHandler serves the embedded web/static tree under /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("router: embedded static dir missing: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
