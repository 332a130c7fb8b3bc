package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"inkwell/auth"
	"inkwell/domain"
	"inkwell/errs"
)

// sessionCookie is the cookie the credential travels in when the client
// doesn't send an Authorization header.
const sessionCookie = "session"

// Server provides most of the http functionality of this app, namely routing,
// request handling, and middleware. It verifies session credentials through
// the authority before handing things over to one of the crud services.
type Server struct {
	router    *mux.Router
	logger    *slog.Logger
	authority *auth.Authority
	tokenTTL  time.Duration
	us        domain.UserService
	ps        domain.PostService
	cs        domain.CommentService
	ls        domain.LikeService
	fs        domain.FollowService
}

// Services bundles the service interfaces the server depends on. Tests swap
// in stubs here; main passes the crud implementations.
type Services struct {
	User    domain.UserService
	Post    domain.PostService
	Comment domain.CommentService
	Like    domain.LikeService
	Follow  domain.FollowService
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the services passed in.
func NewServer(authority *auth.Authority, tokenTTL time.Duration, logger *slog.Logger, services Services) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		logger:    logger,
		authority: authority,
		tokenTTL:  tokenTTL,
		us:        services.User,
		ps:        services.Post,
		cs:        services.Comment,
		ls:        services.Like,
		fs:        services.Follow,
	}

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)

	// Register routes of the crud system.
	s.registerPostRoutes(s.router)
	s.registerCommentRoutes(s.router)
	s.registerLikeRoutes(s.router)
	s.registerFollowRoutes(s.router)
	s.registerAdminRoutes(s.router)

	// Set up middleware that needs to run on every request.
	s.router.Use(s.logRequest, setContentTypeJSON)
	return s
}

// ServeHTTP makes the Server itself a handler, so tests can drive it
// through httptest without opening a port.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) error {
	return http.ListenAndServe(":"+strconv.Itoa(port), s.router)
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// The logRequest middleware tags every request with an id and logs it.
func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"id", uuid.NewString(),
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// requireRole is the authorization guard in front of every state-changing
// handler. It verifies the request's credential against the required role
// and stores the verified identity in the request context. All role checks
// in the app go through here; no handler repeats its own.
func (s *Server) requireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.authority.Verify(bearerToken(r), role)
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		next(w, r.WithContext(auth.SetIdentity(r.Context(), identity)))
	}
}

// requireAuth is like requireRole but accepts any valid credential.
// It guards read endpoints that any signed-in subject may hit.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.authority.Identify(bearerToken(r))
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		next(w, r.WithContext(auth.SetIdentity(r.Context(), identity)))
	}
}

// bearerToken extracts the credential from the request, preferring the
// Authorization header over the session cookie when both are present.
func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, found := strings.CutPrefix(header, "Bearer "); found {
			return token
		}
		return ""
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}
