package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/crispycret/blog-api/internal/blog/service"
	"github.com/crispycret/blog-api/internal/blog/store"
	"github.com/crispycret/blog-api/pkg/httpx"
	"github.com/crispycret/blog-api/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	adminSecret  string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	SessionService *service.SessionService
	UserService    *service.UserService
	BlogService    *service.BlogService
}

func NewRouter(
	adminSecret, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		adminSecret:  adminSecret,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerPosts()
	r.registerComments()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /register - strict rate limit by IP (public signup endpoint)
	registerHandler := &RegisterHandler{UserService: r.UserService}
	r.Mux.Handle("POST /register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - strict rate limit by IP (authentication attempts)
	loginHandler := &LoginHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /logout - requires a live session
	logoutHandler := &LogoutHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /logout",
		httpx.Chain(logoutHandler,
			RequireSession(r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /admin/create - guarded by the out-of-band admin secret, not a
	// session, so rate limit aggressively by IP
	createAdminHandler := &CreateAdminHandler{
		UserService: r.UserService,
		AdminSecret: r.adminSecret,
	}
	r.Mux.Handle("POST /admin/create",
		httpx.Chain(createAdminHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	// DELETE /user/delete - requires a live session; admins may name
	// another account in the body
	deleteHandler := &DeleteUserHandler{UserService: r.UserService}
	r.Mux.Handle("DELETE /user/delete",
		httpx.Chain(deleteHandler,
			RequireSession(r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /users/all - admin only
	listHandler := &ListUsersHandler{UserService: r.UserService}
	r.Mux.Handle("GET /users/all",
		httpx.Chain(listHandler,
			RequireAdmin(r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerPosts() {
	h := &PostsHandler{BlogService: r.BlogService}

	// Reads are public with a lenient IP limit
	r.Mux.Handle("GET /posts",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /post/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Writes require a live session
	r.Mux.Handle("POST /post/create",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			RequireSession(r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH /post/{id}/update",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			RequireSession(r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /post/{id}/delete",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			RequireSession(r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerComments() {
	h := &CommentsHandler{BlogService: r.BlogService}

	r.Mux.Handle("GET /post/{post_id}/comments",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /post/{post_id}/comment/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /post/{post_id}/comment/create",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			RequireSession(r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH /post/{post_id}/comment/{id}/update",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			RequireSession(r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /post/{post_id}/comment/{id}/delete",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			RequireSession(r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may
	// poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
