package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dekarrin/formulon/server/api"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	srv, err := New(Config{APIKey: "test-key"})
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return srv, ts.URL
}

func authToken(t *testing.T, baseURL string) string {
	t.Helper()

	body, _ := json.Marshal(api.AuthRequest{APIKey: "test-key"})
	resp, err := http.Post(baseURL+"/v1/auth", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var auth api.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&auth))
	return auth.Token
}

func authedRequest(t *testing.T, method, url, token string, body []byte) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func Test_Server_authThenEval(t *testing.T) {
	_, baseURL := newTestServer(t)
	token := authToken(t, baseURL)

	body, _ := json.Marshal(api.EvalRequest{Expr: "1 + 2 * 3"})
	resp := authedRequest(t, http.MethodPost, baseURL+"/v1/eval", token, body)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out api.EvalResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, 7.0, out.Result)
}

func Test_Server_unauthenticatedEvalIsRejected(t *testing.T) {
	_, baseURL := newTestServer(t)

	body, _ := json.Marshal(api.EvalRequest{Expr: "1 + 1"})
	resp, err := http.Post(baseURL+"/v1/eval", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func Test_Server_compileEvalAndDeleteHandle(t *testing.T) {
	_, baseURL := newTestServer(t)
	token := authToken(t, baseURL)

	compileBody, _ := json.Marshal(api.CompileRequest{Expr: "2 ** 10"})
	resp := authedRequest(t, http.MethodPost, baseURL+"/v1/compile", token, compileBody)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var compiled api.CompileResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&compiled))
	require.NotEmpty(t, compiled.Handle)

	evalResp := authedRequest(t, http.MethodGet, baseURL+"/v1/eval/"+compiled.Handle, token, nil)
	defer evalResp.Body.Close()
	require.Equal(t, http.StatusOK, evalResp.StatusCode)

	var out api.EvalResponse
	require.NoError(t, json.NewDecoder(evalResp.Body).Decode(&out))
	require.Equal(t, 1024.0, out.Result)

	delResp := authedRequest(t, http.MethodDelete, baseURL+"/v1/compile/"+compiled.Handle, token, nil)
	defer delResp.Body.Close()
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)

	goneResp := authedRequest(t, http.MethodGet, baseURL+"/v1/eval/"+compiled.Handle, token, nil)
	defer goneResp.Body.Close()
	require.Equal(t, http.StatusNotFound, goneResp.StatusCode)
}

func Test_Server_compileOptionsAppliedToEval(t *testing.T) {
	srv, err := New(Config{APIKey: "test-key", LeftAssocExponent: true})
	require.NoError(t, err)
	defer srv.Close()

	ts := httptest.NewServer(srv)
	defer ts.Close()

	token := authToken(t, ts.URL)

	body, _ := json.Marshal(api.EvalRequest{Expr: "2 ** 3 ** 2"})
	resp := authedRequest(t, http.MethodPost, ts.URL+"/v1/eval", token, body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out api.EvalResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, 64.0, out.Result, "LeftAssocExponent should make ** left-associative: (2**3)**2")
}

func Test_Server_info(t *testing.T) {
	_, baseURL := newTestServer(t)

	resp, err := http.Get(baseURL + "/v1/info")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info api.InfoResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	require.NotEmpty(t, info.ServerVersion)
	require.NotEmpty(t, info.LibraryVersion)
}
