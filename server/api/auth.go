package api

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/formulon/server/result"
	"github.com/dekarrin/formulon/server/token"
)

// HTTPCreateAuth returns a HandlerFunc for POST /v1/auth: given the
// operator's plaintext API key, issues a bearer token usable on every other
// endpoint for the next hour (see server/token).
func (api API) HTTPCreateAuth() http.HandlerFunc {
	return api.Endpoint(api.epCreateAuth)
}

func (api API) epCreateAuth(req *http.Request) result.Result {
	var body AuthRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if body.APIKey == "" {
		return result.BadRequest("api_key: property is empty or missing from request", "empty api_key")
	}

	if err := bcrypt.CompareHashAndPassword(api.APIKeyHash, []byte(body.APIKey)); err != nil {
		return result.Unauthorized("the supplied API key is incorrect", "api key check failed: %s", err.Error())
	}

	tok, err := token.Generate(api.Secret, api.APIKeyHash)
	if err != nil {
		return result.InternalServerError("could not generate JWT: %s", err.Error())
	}

	return result.Created(AuthResponse{Token: tok}, "operator authenticated")
}
