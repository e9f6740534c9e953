// Package api provides the HTTP handlers for the formulon evaluation
// server: compiling, evaluating, and inspecting expressions over HTTP, plus
// the single-operator bearer-token auth endpoint that gates them.
//
// Grounded on the teacher's server/api package (api.Endpoint's
// panic-recovery/logging/unauth-delay wrapper around an EndpointFunc
// returning a uniform Result), trimmed down from a multi-entity REST API
// (users, games, sessions) to the handful of endpoints this library's demo
// service needs.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/formulon"
	"github.com/dekarrin/formulon/server/dao"
	"github.com/dekarrin/formulon/server/result"
	"github.com/dekarrin/formulon/server/serr"
)

// compiler is the subset of *server.Registry's behavior the eval endpoints
// need. It is satisfied structurally by *server.Registry without either
// package importing the other.
type compiler interface {
	Put(source string, ast *formulon.Node) (string, error)
	Get(handle string) (ast *formulon.Node, source string, ok bool)
	Delete(handle string) bool
}

// API holds the dependencies the formulon evaluation endpoints need.
type API struct {
	// Registry holds compiled ASTs addressed by the opaque handles
	// POST /v1/compile hands out.
	Registry compiler

	// Audit records one entry per /v1/eval and /v1/compile call.
	Audit dao.AuditRepository

	// Secret and APIKeyHash parameterize the bearer tokens issued by
	// POST /v1/auth; see server/token.
	Secret     []byte
	APIKeyHash []byte

	// UnauthDelay is how long a 401/403/500 response is delayed before
	// being sent, to deprioritize malformed or malicious traffic.
	UnauthDelay time.Duration

	// Options are the formulon compile options (associativity, log base)
	// applied to every expression this server compiles.
	Options []formulon.Option
}

// EndpointFunc handles one HTTP request and returns a uniform result.Result
// to be written back to the client.
type EndpointFunc func(req *http.Request) result.Result

// Endpoint adapts an EndpointFunc into an http.HandlerFunc: it recovers
// panics into HTTP-500s, logs the outcome, and delays unauthorized/forbidden/
// server-error responses by api.UnauthDelay.
func (api API) Endpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer api.panicTo500(w, req)

		r := ep(req)
		if r.Status == 0 {
			r = result.InternalServerError("endpoint result was never populated")
		}

		r.Log(req)

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			time.Sleep(api.UnauthDelay)
		}

		r.WriteResponse(w)
	}
}

func (api API) panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		r := result.InternalServerError("panic: %v", panicErr)
		r.Log(req)
		r.WriteResponse(w)
	}
}

// parseJSON decodes req's body as JSON into v, restoring the body afterward
// so later middleware (e.g. audit logging) can still read the raw bytes if
// needed.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := strings.ToLower(req.Header.Get("Content-Type"))
	if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	if err := json.Unmarshal(bodyData, v); err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}
	return nil
}
