package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/halcyonlabs/accounts/internal/accounts/service"
	"github.com/halcyonlabs/accounts/pkg/httpx"
	"github.com/halcyonlabs/accounts/pkg/validate"
)

// AuthHandler serves the credential endpoints: register, verify, login,
// refresh and the password recovery pair.
type AuthHandler struct {
	AuthService  *service.AuthService
	Validator    *validate.Validator
	CookieSecure bool
	RefreshTTL   time.Duration
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=64,passlower,passupper,passdigit,passspecial"`
	FirstName string `json:"first_name" validate:"required,min=3,max=30"`
	LastName  string `json:"last_name" validate:"required,min=3,max=30"`
}

type verifyRequest struct {
	Token string `json:"token" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetRequest struct {
	Token    string `json:"token" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64,passlower,passupper,passdigit,passspecial"`
}

// HandleRegister godoc
//
//	@Summary		Register Endpoint
//	@Description	Create a new unverified account and send its verification email.
//	@Description	Returns an access token; the refresh token travels as an HttpOnly cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest	true	"Registration data"
//	@Success		201		{object}	httpx.Envelope	"status_code, message, access_token, data"
//	@Failure		400		{object}	httpx.Envelope	"email already registered"
//	@Failure		422		{object}	httpx.Envelope	"validation failure per field"
//	@Router			/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, h.Validator, &req) {
		return
	}

	user, pair, err := h.AuthService.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, h.CookieSecure, h.RefreshTTL)
	httpx.WriteEnvelope(w, http.StatusCreated, httpx.Envelope{
		Message:     fmt.Sprintf("User %s created successfully", user.Email),
		AccessToken: pair.AccessToken,
		Data:        user.Project(),
	})
}

// HandleVerify godoc
//
//	@Summary		Account Verification Endpoint
//	@Description	Activate an account from an emailed verification token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		verifyRequest	true	"Email and verification token"
//	@Success		200		{object}	httpx.Envelope	"status_code, message"
//	@Failure		400		{object}	httpx.Envelope	"invalid or expired link"
//	@Router			/auth/verify [post].
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeJSON(w, r, h.Validator, &req) {
		return
	}

	user, err := h.AuthService.Verify(r.Context(), req.Email, req.Token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK,
		fmt.Sprintf("User %s account successfully activated.", user.Email))
}

// HandleLogin godoc
//
//	@Summary		Login Endpoint
//	@Description	Authenticate with email and password. Any earlier sessions for the
//	@Description	account are invalidated; the refresh token travels as an HttpOnly cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	httpx.Envelope	"status_code, message, access_token, data"
//	@Failure		400		{object}	httpx.Envelope	"bad credentials or account state"
//	@Router			/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, h.Validator, &req) {
		return
	}

	user, pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, h.CookieSecure, h.RefreshTTL)
	httpx.WriteEnvelope(w, http.StatusOK, httpx.Envelope{
		Message:     "Login successful",
		AccessToken: pair.AccessToken,
		Data:        user.Project(),
	})
}

// HandleRefresh godoc
//
//	@Summary		Refresh Endpoint
//	@Description	Exchange the refresh cookie for a fresh token pair. The spent
//	@Description	session dies even if the exchange is replayed.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	httpx.Envelope	"status_code, message, access_token"
//	@Failure		400	{object}	httpx.Envelope	"missing, invalid or replayed token"
//	@Router			/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	token, ok := refreshTokenFromRequest(r)
	if !ok {
		writeServiceError(w, r, service.ErrInvalidRefresh)
		return
	}

	pair, err := h.AuthService.Refresh(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, h.CookieSecure, h.RefreshTTL)
	httpx.WriteEnvelope(w, http.StatusOK, httpx.Envelope{
		Message:     "Refresh successful",
		AccessToken: pair.AccessToken,
	})
}

// HandleForgotPassword godoc
//
//	@Summary		Forgot Password Endpoint
//	@Description	Email a password reset link. Unknown emails are accepted without
//	@Description	sending anything so the endpoint cannot enumerate accounts.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		emailRequest	true	"Account email"
//	@Success		200		{object}	httpx.Envelope	"status_code, message"
//	@Failure		400		{object}	httpx.Envelope	"unverified or deactivated account"
//	@Router			/auth/forgot-password [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeJSON(w, r, h.Validator, &req) {
		return
	}

	if err := h.AuthService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "Please check your mail to change password")
}

// HandleResetPassword godoc
//
//	@Summary		Reset Password Endpoint
//	@Description	Set a new password from an emailed reset token. The token dies once
//	@Description	the password changes.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		resetRequest	true	"Email, reset token and new password"
//	@Success		200		{object}	httpx.Envelope	"status_code, message"
//	@Failure		400		{object}	httpx.Envelope	"invalid account state or token"
//	@Router			/auth/reset-password [put].
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !decodeJSON(w, r, h.Validator, &req) {
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), req.Email, req.Token, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "Your password has been updated.")
}
