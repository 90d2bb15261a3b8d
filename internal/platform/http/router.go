package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/kyros/internal/platform/metrics"
	"github.com/aussiebroadwan/kyros/internal/platform/service"
	"github.com/aussiebroadwan/kyros/internal/platform/store"
	"github.com/aussiebroadwan/kyros/pkg/httpx"
	"github.com/aussiebroadwan/kyros/pkg/jwtx"
	"github.com/aussiebroadwan/kyros/pkg/slogx"
	"github.com/go-chi/cors"

	_ "github.com/aussiebroadwan/kyros/api/platform" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	gate         *httpx.Gate
	signer       jwtx.Signer
	limits       httpx.RateLimits
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	metrics *metrics.Metrics

	LoginService      *service.LoginService
	ExchangeService   *service.ExchangeService
	TenantService     *service.TenantService
	MembershipService *service.MembershipService

	// MockLoginEnabled exposes POST /api/auth/mock-login.
	MockLoginEnabled bool
}

// RouterConfig carries the settings NewRouter needs besides the store.
type RouterConfig struct {
	Verifier     jwtx.Verifier
	Signer       jwtx.Signer
	Issuer       string
	BuildVersion string
	CORSOrigins  []string
	RateLimits   httpx.RateLimits
	Metrics      *metrics.Metrics
}

func NewRouter(cfg RouterConfig, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       cfg.Signer,
		limits:       cfg.RateLimits,
		buildVersion: cfg.BuildVersion,
		startTime:    time.Now(),
		store:        st,
		metrics:      cfg.Metrics,
		logger:       logger,
	}

	r.gate = &httpx.Gate{
		Verifier: cfg.Verifier,
		Issuer:   cfg.Issuer,
		OnReject: r.metrics.ObserveRejection,
	}

	// Logging runs first so CORS rejections and preflights still get a
	// request ID.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", slogx.RequestIDHeader},
			ExposedHeaders:   []string{slogx.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerExchange()
	r.registerProfile()
	r.registerTenants()
	r.registerMembers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Kyros Tenant Platform API
//	@version		0.1.0
//	@description	Multi-tenant platform API. Users log in for a user access token listing their tenants,
//	@description	then exchange it for a short-lived token scoped to one tenant and carrying their role.
//	@description
//	@description				All tokens are HS256 JWTs signed with the platform secret.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/kyros
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8000
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &MockLoginHandler{LoginService: r.LoginService, Enabled: r.MockLoginEnabled}

	// POST /api/auth/mock-login - strict rate limit by IP (issues credentials)
	r.Mux.Handle("POST /api/auth/mock-login",
		httpx.Chain(h,
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
}

func (r *Router) registerExchange() {
	h := &ExchangeHandler{ExchangeService: r.ExchangeService}

	// Rate limit by IP before the gate so invalid tokens are also counted.
	secured := httpx.Chain(h,
		httpx.RateLimitByIP(r.limits.Strict),
		r.gate.RequireUser(),
	)

	r.Mux.Handle("POST /api/token/exchange", secured)
	r.Mux.Handle("POST /token/exchange", secured)
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{TenantService: r.TenantService}

	r.Mux.Handle("GET /api/me",
		httpx.Chain(h,
			r.gate.RequireUser(),
			httpx.RateLimitByUser(r.limits.Moderate),
		),
	)
}

func (r *Router) registerTenants() {
	h := &TenantHandler{TenantService: r.TenantService}

	tenantScoped := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			r.gate.RequireTenant(),
			httpx.TenantAccessGuard("tenant_id", r.metrics.ObserveRejection),
			httpx.RateLimitByUser(r.limits.Moderate),
		)
	}

	r.Mux.Handle("GET /api/tenant/{tenant_id}", tenantScoped(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("GET /api/tenant/{tenant_id}/dashboards", tenantScoped(http.HandlerFunc(h.HandleDashboards)))
}

func (r *Router) registerMembers() {
	h := &MembersHandler{MembershipService: r.MembershipService}

	adminOnly := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			r.gate.RequireTenant(),
			httpx.TenantAccessGuard("tenant_id", r.metrics.ObserveRejection),
			httpx.RequireRole(r.metrics.ObserveRejection, jwtx.RoleAdmin),
			httpx.RateLimitByUser(r.limits.Moderate),
		)
	}

	r.Mux.Handle("PUT /api/tenant/{tenant_id}/members/{user_id}", adminOnly(http.HandlerFunc(h.HandlePut)))
	r.Mux.Handle("DELETE /api/tenant/{tenant_id}/members/{user_id}", adminOnly(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerSystem() {
	// Health check endpoints - public rate limits (monitoring systems may poll frequently)
	public := httpx.RateLimitByIP(r.limits.Public)

	r.Mux.Handle("GET /health", httpx.Chain(HealthHandler(), public))
	r.Mux.Handle("GET /health/db", httpx.Chain(&DBHealthHandler{TenantService: r.TenantService}, public))
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion), public),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer), public),
	)

	r.Mux.Handle("GET /metrics", r.metrics.Handler())
}
