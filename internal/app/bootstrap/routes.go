// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	auditeventsfeature "github.com/dalemusser/influencehub/internal/app/features/auditevents"
	billingfeature "github.com/dalemusser/influencehub/internal/app/features/billing"
	billingconnectionsfeature "github.com/dalemusser/influencehub/internal/app/features/billingconnections"
	brandsfeature "github.com/dalemusser/influencehub/internal/app/features/brands"
	errorsfeature "github.com/dalemusser/influencehub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/influencehub/internal/app/features/health"
	homefeature "github.com/dalemusser/influencehub/internal/app/features/home"
	loginfeature "github.com/dalemusser/influencehub/internal/app/features/login"
	profilesfeature "github.com/dalemusser/influencehub/internal/app/features/profiles"
	systemusersfeature "github.com/dalemusser/influencehub/internal/app/features/systemusers"
	"github.com/dalemusser/influencehub/internal/app/store/audit"
	userstore "github.com/dalemusser/influencehub/internal/app/store/users"
	"github.com/dalemusser/influencehub/internal/app/system/auditlog"
	"github.com/dalemusser/influencehub/internal/app/system/auth"
	"github.com/dalemusser/influencehub/internal/app/system/metrics"
	"github.com/dalemusser/influencehub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. Every API route sits under /api and reads
// its caller from the bearer token loaded by mw.LoadUser.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	tokens, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.JWTIssuer, appCfg.AccessTokenTTL)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}
	// The fetcher reloads the user on each request so role changes and
	// deactivation take effect before the token expires.
	mw := auth.NewMiddleware(tokens, userstore.NewFetcher(db), logger)

	m := metrics.New("influencehub")
	errLog := errorsfeature.NewErrorLogger(logger).WithMetrics(m)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	limiter := ratelimit.NewLoginLimiter(appCfg.LoginIPLimit, appCfg.LoginEmailLimit)
	startBackground(limiter.Run)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins(appCfg.CORSAllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(m.Middleware)
	r.Use(mw.LoadUser)

	// Health checks for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Get("/healthcheck", healthHandler.ServeLiveness)

	if appCfg.MetricsEnabled {
		r.Handle("/metrics", m.Handler())
	}

	homeHandler := homefeature.NewHandler("InfluenceHub", logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	r.Route("/api", func(api chi.Router) {
		// Accounts and sign-in
		loginHandler := loginfeature.NewHandler(db, tokens, limiter, errLog, auditLog, logger)
		usersHandler := systemusersfeature.NewHandler(db, errLog, auditLog, logger)
		authRouter := systemusersfeature.Routes(usersHandler, mw)
		authRouter.Mount("/login", loginfeature.Routes(loginHandler))
		api.Mount("/auth", authRouter)

		profilesHandler := profilesfeature.NewHandler(db, errLog, auditLog, m, logger)
		api.Mount("/profiles", profilesfeature.Routes(profilesHandler, mw))

		billingHandler := billingfeature.NewHandler(db, errLog, auditLog, m, logger)
		api.Mount("/billing", billingfeature.Routes(billingHandler, mw))

		brandsHandler := brandsfeature.NewHandler(db, errLog, auditLog, m, logger)
		api.Mount("/brands", brandsfeature.Routes(brandsHandler, mw))

		connHandler := billingconnectionsfeature.NewHandler(db, errLog, auditLog, logger)
		api.Mount("/billing-connections", billingconnectionsfeature.Routes(connHandler, mw))

		auditHandler := auditeventsfeature.NewHandler(db, errLog, logger)
		api.Mount("/audit-events", auditeventsfeature.Routes(auditHandler, mw))
	})

	return r, nil
}

func corsOrigins(configured []string) []string {
	if len(configured) == 0 {
		return []string{"*"}
	}
	return configured
}
