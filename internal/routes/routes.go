package routes

import (
	"net/http"

	"github.com/BradenHooton/tourexpress/internal/auth"
	"github.com/BradenHooton/tourexpress/internal/handlers"
	"github.com/BradenHooton/tourexpress/internal/metrics"
	"github.com/BradenHooton/tourexpress/internal/middleware"
	pkghttp "github.com/BradenHooton/tourexpress/pkg/http"
	"github.com/go-chi/chi/v5"
)

// CatalogRoutes is the handler set for one catalog entity.
type CatalogRoutes interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// Handlers groups every handler the router mounts.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Elevation *handlers.ElevationHandler
	Accounts  *handlers.AccountHandler
	Game      *handlers.GameHandler
	Admin     *handlers.AdminHandler
	Health    *handlers.HealthHandler

	Places   CatalogRoutes
	Missions CatalogRoutes
	Articles CatalogRoutes
	Gifts    CatalogRoutes
}

// Options tunes the public endpoints.
type Options struct {
	RateLimitPerMinute int // 0 disables limiting
	IPConfig           *pkghttp.IPConfig
}

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, h Handlers, authenticator auth.SessionAuthenticator, opts Options) {
	limit := middleware.RateLimitByIP(opts.RateLimitPerMinute, opts.IPConfig)

	// Public routes - no authentication required
	router.Get("/health", h.Health.Health)
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.With(limit).Post("/register", h.Auth.Register)
	router.Get(auth.LoginPath, h.Auth.LoginPage)
	router.With(limit).Post(auth.LoginPath, h.Auth.Login)
	router.With(limit).Post("/admin-code/request", h.Elevation.RequestCode)

	// Protected routes - a valid session is required
	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(authenticator))

		r.Get("/", h.Accounts.Home)
		r.Get("/profile", h.Accounts.Home)
		r.Put("/profile", h.Accounts.UpdateProfile)
		r.Post("/logout", h.Auth.Logout)
		r.Post("/confirm-code", h.Elevation.ConfirmCode)
		r.Post("/admin-code/redeem", h.Elevation.RedeemCode)

		mountCatalog(r, "/places", h.Places)
		mountCatalog(r, "/missions", h.Missions)
		mountCatalog(r, "/articles", h.Articles)
		mountCatalog(r, "/gifts", h.Gifts, func(r chi.Router) {
			r.Post("/send/{accountID}", h.Game.SendGift)
			r.Get("/received", h.Game.ReceivedGifts)
		})

		r.Route("/territories", func(r chi.Router) {
			r.Get("/", h.Game.ListTerritories)
			r.Post("/", h.Game.CreateTerritory)
			r.Get("/{id}", h.Game.GetTerritory)
			r.Put("/{id}", h.Game.UpdateTerritory)
			r.Delete("/{id}", h.Game.DeleteTerritory)
			r.Post("/{id}/visit", h.Game.VisitTerritory)
		})

		r.Route("/friendships", func(r chi.Router) {
			r.Get("/", h.Game.ListFriendships)
			r.Post("/", h.Game.CreateFriendship)
			r.Get("/{id}", h.Game.GetFriendship)
			r.Put("/{id}", h.Game.UpdateFriendship)
			r.Delete("/{id}", h.Game.DeleteFriendship)
			r.Post("/{id}/accept", h.Game.AcceptFriendship)
			r.Post("/{id}/reject", h.Game.RejectFriendship)
		})

		r.Route("/lounges", func(r chi.Router) {
			r.Get("/", h.Game.ListLounges)
			r.Post("/", h.Game.CreateLounge)
			r.Get("/{id}", h.Game.GetLounge)
			r.Put("/{id}", h.Game.UpdateLounge)
			r.Delete("/{id}", h.Game.DeleteLounge)
			r.Post("/{id}/rooms", h.Game.AddLoungeRoom)
			r.Delete("/{id}/rooms/{roomID}", h.Game.RemoveLoungeRoom)
			r.Post("/{id}/items", h.Game.AddLoungeItem)
			r.Delete("/{id}/items/{itemID}", h.Game.RemoveLoungeItem)
		})

		r.Get("/rankings/territories", h.Admin.TerritoryRanking)
		r.Get("/rankings/lounges", h.Admin.LoungeRanking)
		r.Get("/statistics", h.Admin.Statistics)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Get("/admin/dashboard", h.Admin.Dashboard)
			r.Get("/admin/security-key.png", h.Admin.SecurityKeyQR)

			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", h.Accounts.ListAccounts)
				r.Post("/", h.Accounts.CreateAccount)
				r.Get("/{id}", h.Accounts.GetAccount)
				r.Put("/{id}", h.Accounts.UpdateAccount)
				r.Delete("/{id}", h.Accounts.DeleteAccount)
			})
		})
	})
}

// mountCatalog exposes reads to every session and writes to admins only.
// extra registers additional session routes under the same prefix.
func mountCatalog(r chi.Router, path string, h CatalogRoutes, extra ...func(r chi.Router)) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		for _, fn := range extra {
			fn(r)
		}

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}
