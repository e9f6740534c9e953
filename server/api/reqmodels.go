package api

// Requests and responses exchanged with clients of the formulon evaluation
// server. These are distinct from any internal type; they are the wire
// shapes POST/GET bodies are (un)marshaled into.

// EvalRequest is the body of POST /v1/eval: a one-shot expression to parse,
// optimize, and evaluate (spec.md §6 interp).
type EvalRequest struct {
	Expr string `json:"expr"`
}

// EvalResponse reports the outcome of evaluating an expression, using the
// ErrorIndex convention of spec.md §6: zero means success.
type EvalResponse struct {
	Result     float64 `json:"result"`
	ErrorIndex int     `json:"error_index"`
	Error      string  `json:"error,omitempty"`
}

// CompileRequest is the body of POST /v1/compile: an expression to compile
// and keep as a re-evaluable handle (spec.md §6 compile).
type CompileRequest struct {
	Expr string `json:"expr"`
}

// CompileResponse returns the opaque handle addressing a compiled AST, or a
// syntax error location if compilation failed.
type CompileResponse struct {
	Handle     string `json:"handle,omitempty"`
	ErrorIndex int    `json:"error_index"`
	Error      string `json:"error,omitempty"`
}

// AuthRequest is the body of POST /v1/auth: the operator API key.
type AuthRequest struct {
	APIKey string `json:"api_key"`
}

// AuthResponse carries the bearer token to use as
// "Authorization: Bearer <token>" on subsequent calls.
type AuthResponse struct {
	Token string `json:"token"`
}

// InfoResponse is returned by GET /v1/info.
type InfoResponse struct {
	ServerVersion  string `json:"server_version"`
	LibraryVersion string `json:"library_version"`
}
