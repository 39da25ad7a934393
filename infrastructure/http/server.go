package http

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"adminconsole/frontend/console"
	sessioncontext "adminconsole/frontend/shared/context"
	"adminconsole/infrastructure/audit"
	sessioncookie "adminconsole/infrastructure/session"
	"adminconsole/infrastructure/sqlite"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed assets/*
var assets embed.FS

var ShutdownTimeout = 2 * time.Second

// Server bundles dependencies and route wiring for either binary.
type Server struct {
	Addr   string
	ln     net.Listener
	server *http.Server
	router *chi.Mux

	// Console server.
	Deps     console.Deps
	Sessions *console.Sessions

	// Directory API server.
	DB       *sqlite.DB
	Audit    *audit.Service
	PageSize int
}

func newServer(addr string) *Server {
	s := &Server{
		Addr:   addr,
		router: chi.NewRouter(),
		server: &http.Server{
			MaxHeaderBytes: 1 << 20,
		},
	}

	// Secure headers first.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-XSS-Protection", "1; mode=block")
			next.ServeHTTP(w, r)
		})
	})

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Compress(5))

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.server.Handler = s.router
	return s
}

// NewConsoleServer serves the admin console pages and commands.
func NewConsoleServer(addr string, deps console.Deps, sessions *console.Sessions) *Server {
	s := newServer(addr)
	s.Deps = deps
	s.Sessions = sessions

	// Serve assets from embedded FS.
	var assetsFS fs.FS = assets
	if sub, err := fs.Sub(assets, "assets"); err == nil {
		assetsFS = sub
	} else {
		slog.Error("assets subfs init failed; serving fallback fs", slog.Any("err", err))
	}
	s.router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, console.Path, http.StatusSeeOther)
	})

	s.router.Group(func(r chi.Router) {
		r.Use(s.CSRFMiddleware)
		r.Use(s.ConsoleSessionMiddleware)
		s.RegisterConsoleRoutes(r)
	})
	return s
}

// NewDirectoryServer serves the JSON directory API the console reads from.
func NewDirectoryServer(addr string, db *sqlite.DB, auditSvc *audit.Service, pageSize int) *Server {
	s := newServer(addr)
	s.DB = db
	s.Audit = auditSvc
	s.PageSize = pageSize
	s.RegisterDirectoryRoutes(s.router)
	return s
}

// ConsoleSessionMiddleware resolves the browser's console session, starting a
// fresh one when the cookie is missing or its session was evicted.
func (s *Server) ConsoleSessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessioncookie.TokenFromRequest(r)
		if token != "" {
			if _, ok := s.Sessions.Find(token); !ok {
				slog.Info("console session expired, starting a new one", slog.String("method", r.Method), slog.String("path", r.URL.Path))
				token = ""
			}
		}
		if token == "" {
			token = sessioncookie.NewToken()
			s.Sessions.Add(token, console.NewSession(s.Deps))
			http.SetCookie(w, sessioncookie.SessionCookie(token, 0))
		}

		ctx := sessioncontext.NewContextWithSessionToken(r.Context(), token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go s.server.Serve(s.ln)
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %v", err)
	}
	s.ln = nil
	return nil
}
