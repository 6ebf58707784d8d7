package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"issuetrack-restful/auth"
	"issuetrack-restful/policy"
	"issuetrack-restful/services"

	restful "github.com/emicklei/go-restful/v3"
)

// parseID coerces a path parameter into a numeric identifier. Controllers
// reject bad ids here, before any store access.
func parseID(request *restful.Request, param string) (uint, error) {
	raw := request.PathParameter(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// requireIdentity extracts the identity resolved by the auth filter, or
// stops the request with 401 when the filter was bypassed or misconfigured.
func requireIdentity(request *restful.Request, response *restful.Response) (policy.Identity, bool) {
	identity, ok := auth.GetIdentity(request)
	if !ok {
		_ = response.WriteHeaderAndJson(http.StatusUnauthorized, map[string]string{"message": "Unauthorized: Cannot identify requesting user"}, restful.MIME_JSON)
		return policy.Identity{}, false
	}
	return identity, true
}

func writeBadID(response *restful.Response) {
	_ = response.WriteHeaderAndJson(http.StatusBadRequest, map[string]string{"message": "ID is required"}, restful.MIME_JSON)
}

// handleServiceError translates service sentinel errors to HTTP responses.
// Unrecognized errors map to 500 with the underlying message surfaced for
// diagnostics.
func handleServiceError(response *restful.Response, err error) {
	statusCode := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		statusCode = http.StatusForbidden
	case errors.Is(err, services.ErrValidation):
		statusCode = http.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		statusCode = http.StatusConflict
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrUsernameTaken):
		// The sign-up client keys its "already used" toast off 408.
		statusCode = http.StatusRequestTimeout
	}
	_ = response.WriteHeaderAndJson(statusCode, map[string]string{"message": err.Error()}, restful.MIME_JSON)
}
