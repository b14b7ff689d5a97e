package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/auth"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/cache"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/links"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/service"
)

// Deps is everything the router needs. Cache, Limiter and DB may be nil.
type Deps struct {
	Events        *service.EventService
	Registrations *service.RegistrationService
	Admin         *auth.Admin
	EnforceAdmin  bool
	Links         *links.Builder
	Log           *zap.Logger

	Cache    cache.Store
	CacheTTL time.Duration
	Limiter  *RateLimiter
	DB       Pinger

	CORSOrigin string
	StaticDir  string
}

// NewRouter builds the chi router with the global middleware stack.
func NewRouter(d Deps) http.Handler {
	events := NewEventHandler(d.Events, d.Links, d.Log)
	regs := NewRegistrationHandler(d.Registrations, d.Links, d.Log)
	admin := NewAdminHandler(d.Admin, d.Log)
	requireAdmin := RequireAdmin(d.Admin, d.EnforceAdmin)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logger(d.Log))
	r.Use(CORS(d.CORSOrigin))
	r.Use(Metrics)

	r.Get("/health", HealthCheck(d.DB))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/admin/login", admin.Login)

		// Public reads, served from the response cache.
		r.Group(func(r chi.Router) {
			if d.Cache != nil {
				r.Use(ResponseCache(d.Cache, d.CacheTTL, d.Log))
			}
			r.Get("/events", events.ListEvents)
			r.Get("/events/{id}", events.GetEvent)
			r.Get("/slots", events.ListSlots)
			r.Get("/slots/{id}", events.GetSlot)
			r.Get("/topics", events.ListTopics)
			r.Get("/topics/{id}", events.GetTopic)
			r.Get("/workshop-data", events.WorkshopData)
		})

		// Attendee writes.
		r.Group(func(r chi.Router) {
			if d.Limiter != nil {
				r.Use(d.Limiter.Middleware(ClientIP))
			}
			if d.Cache != nil {
				r.Use(InvalidateCache(d.Cache, d.Log))
			}
			r.Post("/registrations", regs.Register)
			r.Post("/registrations/summary", regs.SendSummary)
			r.Put("/events/{id}/enrollments", regs.Enroll)
		})

		// Attendees look up their own bookings by email; anything wider is
		// for admins.
		r.With(unless(hasEmailQuery, requireAdmin)).Get("/registrations", regs.ListRegistrations)
		r.Get("/registrations/{id}", regs.GetRegistration)

		// Admin.
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			if d.Cache != nil {
				r.Use(InvalidateCache(d.Cache, d.Log))
			}
			r.Post("/events", events.CreateEvent)
			r.Put("/events/{id}", events.UpdateEvent)
			r.Delete("/events/{id}", events.DeleteEvent)
			r.Post("/slots", events.CreateSlot)
			r.Put("/slots/{id}", events.UpdateSlot)
			r.Delete("/slots/{id}", events.DeleteSlot)
			r.Post("/topics", events.CreateTopic)
			r.Put("/topics/{id}", events.UpdateTopic)
			r.Delete("/topics/{id}", events.DeleteTopic)
			r.Delete("/registrations/{id}", regs.DeleteRegistration)
			r.Get("/registrations/export", regs.Export)
		})
	})

	if d.StaticDir != "" {
		r.Handle("/*", spaHandler(d.StaticDir))
	}
	return r
}

// spaHandler serves files from dir and falls back to index.html so client
// routes such as /event/{uuid} load the app.
func spaHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(p); err != nil || info.IsDir() && r.URL.Path != "/" {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		files.ServeHTTP(w, r)
	})
}
