// Package server implements a small HTTP service around the formulon
// library: compile and evaluate expressions over the network, keep
// short-lived handles to compiled ASTs for cheap re-evaluation, and audit
// every call to a persistence layer.
//
// It is a host of the library in the sense of spec.md §1 ("the host program
// invoking the library" is out of scope for the library itself): it performs
// no arithmetic of its own and drives Compile/Eval/Print exclusively.
package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/formulon/server/api"
	"github.com/dekarrin/formulon/server/dao"
	"github.com/dekarrin/formulon/server/middle"
)

// Server is a running (or ready to run) formulon evaluation service.
type Server struct {
	cfg Config
	db  dao.Store
	mux *chi.Mux
}

// New builds a Server from cfg: it hashes the configured API key, opens the
// configured persistence layer, and mounts every endpoint onto a chi router
// behind request-ID and panic-recovery middleware. Every endpoint except
// GET /v1/info and POST /v1/auth is also behind bearer-auth middleware.
func New(cfg Config) (*Server, error) {
	api.SetTextFormatter(FormatResult)

	apiKeyHash, err := bcrypt.GenerateFromPassword([]byte(cfg.APIKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash configured API key: %w", err)
	}

	secret := cfg.TokenSecret
	if len(secret) == 0 {
		secret, err = randomSecret()
		if err != nil {
			return nil, err
		}
	}

	db, err := cfg.connectStore()
	if err != nil {
		return nil, err
	}

	a := api.API{
		Registry:    NewRegistry(cfg.HandleTTL),
		Audit:       db.Audit(),
		Secret:      secret,
		APIKeyHash:  apiKeyHash,
		UnauthDelay: unauthorizedResponseDelay,
		Options:     cfg.compileOptions(),
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler { return middle.AssignRequestID()(next) })
	r.Use(func(next http.Handler) http.Handler { return middle.DontPanic()(next) })

	r.Get("/v1/info", a.HTTPGetInfo())
	r.Post("/v1/auth", a.HTTPCreateAuth())

	r.Group(func(r chi.Router) {
		authMW := middle.RequireAuth(secret, apiKeyHash)
		r.Use(func(next http.Handler) http.Handler { return authMW(next) })

		r.Post("/v1/eval", a.HTTPCreateEval())
		r.Post("/v1/compile", a.HTTPCreateCompile())
		r.Get("/v1/eval/{handle}", a.HTTPGetEval())
		r.Get("/v1/ast/{handle}", a.HTTPGetAST())
		r.Delete("/v1/compile/{handle}", a.HTTPDeleteCompile())
	})

	cfg.APIKey = ""
	return &Server{cfg: cfg, db: db, mux: r}, nil
}

// unauthorizedResponseDelay is the UnauthDelay given to the API. It is zero,
// so 401/403/500 responses are sent without being held.
const unauthorizedResponseDelay = 0

// ListenAndServe starts serving HTTP requests on cfg.ListenAddress. It blocks
// until the server stops, returning whatever error http.ListenAndServe does.
func (s *Server) ListenAndServe() error {
	return http.ListenAndServe(s.cfg.ListenAddress, s.mux)
}

// Close releases the underlying persistence layer.
func (s *Server) Close() error {
	return s.db.Close()
}

// ServeHTTP lets a *Server be used directly as an http.Handler, e.g. in
// tests with httptest.NewServer.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.mux.ServeHTTP(w, req)
}
