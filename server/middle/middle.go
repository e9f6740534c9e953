// Package middle contains middleware for use with the formulon evaluation
// server.
package middle

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"

	"github.com/dekarrin/formulon/server/result"
	"github.com/dekarrin/formulon/server/token"
)

// Middleware is a function that takes a handler and returns a new handler
// which wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// ContextKey is a key in the context of a request populated by this
// package's middleware.
type ContextKey int64

const (
	// AuthLoggedIn holds a bool: whether the request carried a valid
	// operator bearer token.
	AuthLoggedIn ContextKey = iota

	// RequestID holds the uuid.UUID assigned to the request by
	// [AssignRequestID].
	RequestID
)

type authHandler struct {
	secret     []byte
	apiKeyHash []byte
	next       http.Handler
}

func (ah *authHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	tok, err := bearerToken(req)
	if err != nil {
		r := result.Unauthorized("", err.Error())
		r.WriteResponse(w)
		r.Log(req)
		return
	}

	if err := token.Validate(tok, ah.secret, ah.apiKeyHash); err != nil {
		r := result.Unauthorized("", err.Error())
		r.WriteResponse(w)
		r.Log(req)
		return
	}

	ctx := context.WithValue(req.Context(), AuthLoggedIn, true)
	ah.next.ServeHTTP(w, req.WithContext(ctx))
}

// RequireAuth returns middleware that rejects every request lacking a valid
// bearer token signed with secret and apiKeyHash (see package token), and
// otherwise marks the request context as logged in.
func RequireAuth(secret []byte, apiKeyHash []byte) Middleware {
	return func(next http.Handler) http.Handler {
		return &authHandler{secret: secret, apiKeyHash: apiKeyHash, next: next}
	}
}

func bearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "bearer") {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return strings.TrimSpace(parts[1]), nil
}

// AssignRequestID returns middleware that mints a fresh uuid for every
// request and stores it in the request context under RequestID, also
// echoing it back as the X-Request-Id response header.
func AssignRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := uuid.New()
			w.Header().Set("X-Request-Id", id.String())
			ctx := context.WithValue(req.Context(), RequestID, id)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// DontPanic returns middleware that performs a panic check as it exits. If
// the wrapped handler panics, it writes a generic HTTP-500 response and logs
// the panic and stack trace instead of crashing the server.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer panicTo500(w, req)
			next.ServeHTTP(w, req)
		})
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		r.WriteResponse(w)
		r.Log(req)
		return true
	}
	return false
}
