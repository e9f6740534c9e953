package api

import (
	"net/http"

	"github.com/dekarrin/formulon/internal/version"
	"github.com/dekarrin/formulon/server/result"
)

// HTTPGetInfo returns a HandlerFunc for GET /v1/info: report the running
// server and library versions. Unlike every other endpoint, it requires no
// authentication.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return api.Endpoint(api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	return result.OK(InfoResponse{
		ServerVersion:  version.ServerCurrent,
		LibraryVersion: version.Current,
	}, "reported server info")
}
