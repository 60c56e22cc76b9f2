package http

import (
	"net/http"

	"github.com/auth-api-nosql/internal/application/auth"
	"github.com/auth-api-nosql/internal/application/notify"
	"github.com/auth-api-nosql/internal/config"
	"github.com/auth-api-nosql/internal/infrastructure/session"
	"github.com/auth-api-nosql/internal/pkg/password"
	"github.com/auth-api-nosql/internal/transport/http/handler"
	appmiddleware "github.com/auth-api-nosql/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	// Credentials must be allowed: the session rides an http-only cookie.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	dispatcher := notify.NewDispatcher(deps.Mailer)
	authSvc := auth.NewService(auth.ServiceDeps{
		AccountRepo: deps.AccountRepo,
		Dispatcher:  dispatcher,
		Signer:      deps.JWTProvider,
		Hasher:      password.NewHasher(cfg.BcryptCost),
		ClientURL:   cfg.ClientURL,
	})
	issuer := session.NewIssuer(cfg, deps.JWTProvider.Expiry())

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, issuer)

	r.Get("/health-check/{action}", healthH.Ping)

	r.Route("/api/auth", func(r chi.Router) {
		// ── Public routes (no session required) ─────────────────────────────
		r.Post("/signup", authH.Signup)
		r.Post("/verify-email", authH.VerifyEmail)
		r.Post("/login", authH.Login)
		r.Post("/logout", authH.Logout)
		r.Post("/forgot-password", authH.ForgotPassword)
		r.Post("/reset-password/{token}", authH.ResetPassword)

		// ── Session-bound routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Session(deps.JWTProvider))
			r.Get("/check-auth", authH.CheckAuth)
		})
	})

	return r
}
