package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dekarrin/formulon"
	"github.com/dekarrin/formulon/server/dao"
	"github.com/dekarrin/formulon/server/result"
	"github.com/dekarrin/rosed"
)

// textFormatter renders a result as locale-aware human-readable text for
// callers that pass ?format=text, e.g. *server.FormatResult. It is a narrow
// seam so this package never has to import the top-level server package.
var textFormatter func(v float64, locale string) string

// SetTextFormatter installs the locale-aware text renderer used by
// ?format=text responses. *server.Server calls this during construction.
func SetTextFormatter(f func(v float64, locale string) string) {
	textFormatter = f
}

// HTTPCreateEval returns a HandlerFunc for POST /v1/eval: parse, optimize,
// evaluate, and free an expression in one call, per spec.md §6's interp
// entry point.
func (api API) HTTPCreateEval() http.HandlerFunc {
	return api.Endpoint(api.epCreateEval)
}

func (api API) epCreateEval(req *http.Request) result.Result {
	var body EvalRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if strings.TrimSpace(body.Expr) == "" {
		return result.BadRequest("expr: property is empty or missing from request", "empty expr")
	}

	start := time.Now()
	v, err := formulon.Interp(body.Expr, nil, api.Options...)
	took := time.Since(start)

	resp := EvalResponse{Result: v, ErrorIndex: formulon.ErrorIndex(err)}
	if err != nil {
		resp.Error = err.Error()
	}

	api.recordAudit(req, body.Expr, resp.Result, resp.ErrorIndex, took)

	if wantsTextFormat(req) && err == nil && textFormatter != nil {
		return result.TextOK(textFormatter(resp.Result, req.URL.Query().Get("locale")), "evaluated expression %q", body.Expr)
	}

	return result.OK(resp, "evaluated expression %q", body.Expr)
}

// wantsTextFormat reports whether req asked for the locale-formatted plain
// text rendering of a result via ?format=text, instead of the default JSON
// body.
func wantsTextFormat(req *http.Request) bool {
	return strings.EqualFold(req.URL.Query().Get("format"), "text")
}

// HTTPCreateCompile returns a HandlerFunc for POST /v1/compile: compile an
// expression and keep it as a re-evaluable handle (spec.md §6 compile).
func (api API) HTTPCreateCompile() http.HandlerFunc {
	return api.Endpoint(api.epCreateCompile)
}

func (api API) epCreateCompile(req *http.Request) result.Result {
	var body CompileRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if strings.TrimSpace(body.Expr) == "" {
		return result.BadRequest("expr: property is empty or missing from request", "empty expr")
	}

	start := time.Now()
	ast, err := formulon.Compile(body.Expr, nil, api.Options...)
	took := time.Since(start)

	if err != nil {
		resp := CompileResponse{ErrorIndex: formulon.ErrorIndex(err), Error: err.Error()}
		api.recordAudit(req, body.Expr, 0, resp.ErrorIndex, took)
		return result.BadRequest(err.Error(), "compile %q: %s", body.Expr, err.Error())
	}

	handle, err := api.Registry.Put(body.Expr, ast)
	if err != nil {
		formulon.Free(ast)
		return result.InternalServerError("could not register compiled handle: %s", err.Error())
	}

	api.recordAudit(req, body.Expr, formulon.Eval(ast), 0, took)

	return result.Created(CompileResponse{Handle: handle}, "compiled expression %q", body.Expr)
}

// HTTPGetEval returns a HandlerFunc for GET /v1/eval/{handle}: re-evaluate a
// previously compiled AST without recompiling (spec.md §6 eval).
func (api API) HTTPGetEval() http.HandlerFunc {
	return api.Endpoint(api.epGetEval)
}

func (api API) epGetEval(req *http.Request) result.Result {
	handle := chi.URLParam(req, "handle")

	ast, source, ok := api.Registry.Get(handle)
	if !ok {
		return result.NotFound("handle %q not found or expired", handle)
	}

	start := time.Now()
	v := formulon.Eval(ast)
	took := time.Since(start)

	api.recordAudit(req, source, v, 0, took)

	if wantsTextFormat(req) && textFormatter != nil {
		return result.TextOK(textFormatter(v, req.URL.Query().Get("locale")), "re-evaluated handle %q", handle)
	}

	return result.OK(EvalResponse{Result: v}, "re-evaluated handle %q", handle)
}

// HTTPGetAST returns a HandlerFunc for GET /v1/ast/{handle}: render a
// previously compiled AST's tree dump as word-wrapped plain text (spec.md §6
// print).
func (api API) HTTPGetAST() http.HandlerFunc {
	return api.Endpoint(api.epGetAST)
}

func (api API) epGetAST(req *http.Request) result.Result {
	handle := chi.URLParam(req, "handle")

	ast, _, ok := api.Registry.Get(handle)
	if !ok {
		return result.NotFound("handle %q not found or expired", handle)
	}

	tree := formulon.SprintTree(ast)
	wrapped := rosed.Edit(tree).Wrap(100).String()

	return result.TextOK(wrapped, "printed AST for handle %q", handle)
}

// HTTPDeleteCompile returns a HandlerFunc for DELETE /v1/compile/{handle}:
// free a compiled AST and forget its handle.
func (api API) HTTPDeleteCompile() http.HandlerFunc {
	return api.Endpoint(api.epDeleteCompile)
}

func (api API) epDeleteCompile(req *http.Request) result.Result {
	handle := chi.URLParam(req, "handle")

	if !api.Registry.Delete(handle) {
		return result.NotFound("handle %q not found or expired", handle)
	}

	return result.NoContent("freed handle %q", handle)
}

func (api API) recordAudit(req *http.Request, source string, v float64, errorIndex int, took time.Duration) {
	if api.Audit == nil {
		return
	}
	_, _ = api.Audit.Create(req.Context(), dao.AuditEntry{
		ID:         uuid.Nil,
		Source:     source,
		Result:     v,
		ErrorIndex: errorIndex,
		TookMillis: took.Milliseconds(),
	})
}
