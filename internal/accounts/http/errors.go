package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/halcyonlabs/accounts/internal/accounts/domain"
	"github.com/halcyonlabs/accounts/internal/accounts/service"
	"github.com/halcyonlabs/accounts/pkg/httpx"
	"github.com/halcyonlabs/accounts/pkg/slogx"
	"github.com/halcyonlabs/accounts/pkg/validate"
)

// serviceMessages maps service and domain sentinel errors to the outward
// status code and message each one carries.
var serviceMessages = map[error]struct {
	code    int
	message string
}{
	service.ErrEmailExists:        {http.StatusBadRequest, "Email already exists"},
	service.ErrLinkNotValid:       {http.StatusBadRequest, "This link is not valid"},
	service.ErrLinkExpired:        {http.StatusBadRequest, "This link is either expired or not valid"},
	service.ErrEmailNotRegistered: {http.StatusBadRequest, "Email is not registered with us"},
	service.ErrBadCredentials:     {http.StatusBadRequest, "Incorrect email or password"},
	service.ErrNotVerified:        {http.StatusBadRequest, "Your account is not verified. Please check your email inbox to verify your account."},
	service.ErrDeactivated:        {http.StatusBadRequest, "Your account has been deactivated. Please contact support."},
	service.ErrInvalidRefresh:     {http.StatusBadRequest, "Invalid request."},
	service.ErrResetNotAllowed:    {http.StatusBadRequest, "Invalid request"},
	service.ErrInvalidWindow:      {http.StatusBadRequest, "Invalid window"},
	service.ErrEmailTaken:         {http.StatusBadRequest, "Email already taken"},
	service.ErrUserNotFound:       {http.StatusNotFound, "User does not exist"},
	service.ErrProviderUnverified: {http.StatusBadRequest, "Authentication failed"},
	domain.ErrAlreadyDeleted:      {http.StatusConflict, "User is already deleted"},
	domain.ErrUpdateDeleted:       {http.StatusBadRequest, "User is deleted and cannot be updated"},
	domain.ErrUpdateNotVerified:   {http.StatusBadRequest, "User is not verified and cannot be updated"},
	domain.ErrUpdateInactive:      {http.StatusBadRequest, "User is inactive and cannot be updated"},
}

// writeServiceError translates a service-layer error into its envelope.
// Unrecognised errors are logged and surfaced as a plain 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for sentinel, out := range serviceMessages {
		if errors.Is(err, sentinel) {
			httpx.WriteMessage(w, out.code, out.message)
			return
		}
	}

	slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
	httpx.WriteMessage(w, http.StatusInternalServerError, "Internal server error")
}

// decodeJSON parses a request body into dst and validates it, writing the
// error response itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v *validate.Validator, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := v.Struct(dst); err != nil {
		var fields validate.Errors
		if errors.As(err, &fields) {
			httpx.WriteValidationErrors(w, fields)
		} else {
			httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		}
		return false
	}
	return true
}
