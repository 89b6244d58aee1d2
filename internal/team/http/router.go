package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/aussiebroadwan/khpl/api/khpl" // Swagger docs
	"github.com/aussiebroadwan/khpl/internal/team/metrics"
	"github.com/aussiebroadwan/khpl/internal/team/service"
	"github.com/aussiebroadwan/khpl/internal/team/store"
	"github.com/aussiebroadwan/khpl/pkg/httpx"
	"github.com/aussiebroadwan/khpl/pkg/slogx"
)

// Pinger is implemented by dependencies that report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Limits holds the rate limit tiers applied to the routes.
type Limits struct {
	Strict   httpx.RateLimitConfig
	Moderate httpx.RateLimitConfig
	Lenient  httpx.RateLimitConfig
}

// DefaultLimits mirrors the httpx profiles.
var DefaultLimits = Limits{
	Strict:   httpx.StrictLimit,
	Moderate: httpx.ModerateLimit,
	Lenient:  httpx.LenientLimit,
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService       *service.AuthService
	InvitationService *service.InvitationService
	TeamService       *service.TeamService

	// Cache is optional; when set its health is reported by /readyz and /health.
	Cache Pinger

	// Limits defaults to DefaultLimits. Invalid tiers fall back to the default.
	Limits Limits

	// CORSOrigins enables CORS for the listed origins when non-empty.
	CORSOrigins []string
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Limits:       DefaultLimits,
	}
}

// ApplyRoutes registers every route and freezes the middleware chain. It must
// be called once, after the services are set.
func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerInvitations()
	r.registerTeam()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
	r.Mux.Handle("GET /metrics", promhttp.Handler())

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		otelhttp.NewMiddleware("khpl"),
	}
	if len(r.CORSOrigins) > 0 {
		r.middlewares = append(r.middlewares, httpx.CORS(r.CORSOrigins))
	}
	// Innermost so the mux has resolved r.Pattern before it is read.
	r.middlewares = append(r.middlewares, metrics.HTTPMetricsMiddleware)

	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			KHPL Team Service API
//	@version		0.1.0
//	@description	Invitation-only membership service. Each member may invite at most two direct team members,
//	@description	and every member can browse the team that grew beneath them.
//	@description
//	@description				Access tokens are HS256 signed JWTs returned by login and registration.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/khpl
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) limits() Limits {
	return Limits{
		Strict:   r.Limits.Strict.OrDefault(httpx.StrictLimit),
		Moderate: r.Limits.Moderate.OrDefault(httpx.ModerateLimit),
		Lenient:  r.Limits.Lenient.OrDefault(httpx.LenientLimit),
	}
}

// authed wraps h with bearer authentication and a per-user rate limit.
func (r *Router) authed(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		RequireUser(r.AuthService),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	limits := r.limits()

	// Credential endpoints - strict rate limit by IP
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(&LoginHandler{AuthService: r.AuthService, TeamService: r.TeamService},
			httpx.RateLimitByIP(limits.Strict),
		),
	)
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(&RegisterHandler{InvitationService: r.InvitationService},
			httpx.RateLimitByIP(limits.Strict),
		),
	)

	r.Mux.Handle("GET /api/auth/me", r.authed(&MeHandler{TeamService: r.TeamService}, limits.Lenient))
}

func (r *Router) registerInvitations() {
	limits := r.limits()

	r.Mux.Handle("POST /api/invite",
		r.authed(&InviteHandler{InvitationService: r.InvitationService}, limits.Moderate),
	)

	// Public lookup - moderate rate limit by IP to slow token guessing
	r.Mux.Handle("GET /api/invitation/{token}",
		httpx.Chain(&InvitationHandler{InvitationService: r.InvitationService},
			httpx.RateLimitByIP(limits.Moderate),
		),
	)
}

func (r *Router) registerTeam() {
	limits := r.limits()
	h := &TeamHandler{TeamService: r.TeamService}

	r.Mux.Handle("GET /api/my-team", r.authed(http.HandlerFunc(h.HandleMyTeam), limits.Lenient))
	r.Mux.Handle("GET /api/team-tree", r.authed(http.HandlerFunc(h.HandleTree), limits.Lenient))
	r.Mux.Handle("GET /api/stats", r.authed(http.HandlerFunc(h.HandleStats), limits.Lenient))
}

func (r *Router) registerSystem() {
	limits := r.limits()

	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Cache),
			httpx.RateLimitByIP(limits.Lenient),
		),
	)
	r.Mux.Handle("GET /health",
		httpx.Chain(HealthHandler(r.startTime, r.buildVersion, r.store, r.Cache),
			httpx.RateLimitByIP(limits.Lenient),
		),
	)
	r.Mux.Handle("GET /api/ping", PingHandler())
}
