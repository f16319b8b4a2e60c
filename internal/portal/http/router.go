package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tcsservices/loginportal/internal/portal/service"
	"github.com/tcsservices/loginportal/internal/portal/store"
	"github.com/tcsservices/loginportal/pkg/httpx"
	"github.com/tcsservices/loginportal/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	cookies        *CookieWriter
	SessionService *service.SessionService
}

func NewRouter(
	buildVersion, cookieDomain string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		cookies:      &CookieWriter{Domain: cookieDomain},
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSessions()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSessions() {
	// POST /login - strict rate limit, these are password attempts
	r.Mux.Handle("POST /v1/sessions/login",
		httpx.Chain(&LoginHandler{Sessions: r.SessionService, Cookies: r.cookies},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /credentials - silent re-auth happens on every page load
	r.Mux.Handle("POST /v1/sessions/credentials",
		httpx.Chain(&CredentialsHandler{Sessions: r.SessionService, Cookies: r.cookies},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/sessions/logout",
		httpx.Chain(&LogoutHandler{Sessions: r.SessionService, Cookies: r.cookies},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/sessions/manifest",
		httpx.Chain(&ManifestHandler{Sessions: r.SessionService, Cookies: r.cookies},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/sessions/company",
		httpx.Chain(&CompanyHandler{Sessions: r.SessionService, Cookies: r.cookies},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
