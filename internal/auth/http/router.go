package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/aussiebroadwan/lectern/internal/auth/metrics"
	"github.com/aussiebroadwan/lectern/internal/auth/service"
	"github.com/aussiebroadwan/lectern/internal/auth/store"
	"github.com/aussiebroadwan/lectern/pkg/httpx"
	"github.com/aussiebroadwan/lectern/pkg/jwtx"
	"github.com/aussiebroadwan/lectern/pkg/slogx"

	_ "github.com/aussiebroadwan/lectern/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux     *http.ServeMux
	handler http.Handler

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	InviteService  *service.InviteService
	CourseService  *service.CourseService
	UserService    *service.UserService
	SessionService *service.SessionService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}
}

// ApplyRoutes registers every endpoint. Services must be set first.
func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerCourses()
	r.registerInviteIssue()
	r.registerInviteRedeem()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	// The metrics middleware reads the pattern the mux matched, so it wraps
	// the mux directly and request logging goes around it.
	r.handler = httpx.Chain(metrics.HTTPMiddleware(r.Mux), slogx.HTTPMiddleware(r.logger))
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Lectern API
//	@version		0.1.0
//	@description	Invite-gated sign in and course enrollment. Teachers invite students by email; the invite link
//	@description	signs the student in once and enrolls them in the course.
//	@description
//	@description				Session tokens are EdDSA signed JWTs and can be verified with the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/lectern
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
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// secured authenticates the session, checks scopes and limits per user.
func (r *Router) secured(h http.HandlerFunc, limit httpx.RateLimitConfig, scopes ...string) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(scopes...),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAccounts() {
	// POST /users - strict by IP, anyone can try to register
	r.Mux.Handle("POST /v1/users",
		httpx.Chain(&RegisterHandler{Users: r.UserService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /sessions - strict by IP + email so one address cannot be brute forced
	r.Mux.Handle("POST /v1/sessions",
		httpx.Chain(&SessionHandler{Sessions: r.SessionService},
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)

	userinfo := &UserInfoHandler{Users: r.UserService}
	r.Mux.Handle("GET /v1/userinfo",
		r.secured(userinfo.ServeHTTP, httpx.LenientLimit, domain.ScopeProfileRead),
	)
}

func (r *Router) registerCourses() {
	h := &CoursesHandler{Courses: r.CourseService}

	r.Mux.Handle("POST /v1/courses",
		r.secured(h.HandleCreate, httpx.ModerateLimit, domain.ScopeCoursesWrite),
	)
	r.Mux.Handle("GET /v1/courses",
		r.secured(h.HandleList, httpx.LenientLimit, domain.ScopeCoursesRead),
	)
	r.Mux.Handle("GET /v1/courses/{id}/access",
		r.secured(h.HandleAccess, httpx.LenientLimit, domain.ScopeCoursesRead),
	)
}

func (r *Router) registerInviteIssue() {
	h := &InviteIssueHandler{Invites: r.InviteService, Courses: r.CourseService}

	r.Mux.Handle("POST /v1/invites",
		r.secured(h.HandleCreate, httpx.ModerateLimit, domain.ScopeInvitesWrite),
	)
	r.Mux.Handle("GET /v1/courses/{id}/invites",
		r.secured(h.HandleList, httpx.ModerateLimit, domain.ScopeInvitesWrite),
	)
	r.Mux.Handle("POST /v1/invites/{id}/resend",
		r.secured(h.HandleResend, httpx.ModerateLimit, domain.ScopeInvitesWrite),
	)
}

func (r *Router) registerInviteRedeem() {
	h := &InviteRedeemHandler{Invites: r.InviteService}

	// Token holders are anonymous, so these are limited by IP. Tokens are
	// 256 bits; the limit only slows down scanning.
	r.Mux.Handle("GET /v1/invites/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify), httpx.RateLimitByIP(httpx.StrictLimit)),
	)
	r.Mux.Handle("POST /v1/invites/auto-login",
		httpx.Chain(http.HandlerFunc(h.HandleAutoLogin), httpx.RateLimitByIP(httpx.StrictLimit)),
	)
	r.Mux.Handle("POST /v1/invites/accept",
		httpx.Chain(http.HandlerFunc(h.HandleAccept), httpx.RateLimitByIP(httpx.StrictLimit)),
	)

	// POST /invites/confirm - the session proves the email
	r.Mux.Handle("POST /v1/invites/confirm",
		r.secured(h.HandleConfirm, httpx.ModerateLimit, domain.ScopeProfileRead),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /metrics", metrics.Handler())
}
