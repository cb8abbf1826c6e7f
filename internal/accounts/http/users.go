package http

import (
	"net/http"
	"strconv"

	"github.com/halcyonlabs/accounts/internal/accounts/domain"
	"github.com/halcyonlabs/accounts/internal/accounts/service"
	"github.com/halcyonlabs/accounts/pkg/httpx"
	"github.com/halcyonlabs/accounts/pkg/validate"
)

// UsersHandler serves profile reads and the administrative user endpoints.
type UsersHandler struct {
	UserService *service.UserService
	Validator   *validate.Validator
}

type updateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"first_name" validate:"omitempty,min=3,max=30"`
	LastName  *string `json:"last_name" validate:"omitempty,min=3,max=30"`
}

// HandleMe godoc
//
//	@Summary		Current User Endpoint
//	@Description	Fetch the authenticated user's own projection
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	httpx.Envelope	"status_code, message, data"
//	@Failure		401	{object}	httpx.Envelope	"missing or invalid token"
//	@Router			/users/me [get].
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.UserService.Fetch(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, httpx.Envelope{
		Message: "User fetched successfully",
		Data:    user.Project(),
	})
}

// HandleGet godoc
//
//	@Summary		Fetch User Endpoint
//	@Description	Fetch any user's projection by id. Superadmin only.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string			true	"User id"
//	@Success		200	{object}	httpx.Envelope	"status_code, message, data"
//	@Failure		403	{object}	httpx.Envelope	"not a superadmin"
//	@Failure		404	{object}	httpx.Envelope	"unknown user"
//	@Router			/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.Fetch(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, httpx.Envelope{
		Message: "User fetched successfully",
		Data:    user.Project(),
	})
}

// HandleUpdateMe godoc
//
//	@Summary		Update Current User Endpoint
//	@Description	Partially update the authenticated user's own profile. The account
//	@Description	must be verified, active and not deleted.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		updateUserRequest	true	"Fields to change"
//	@Success		200		{object}	httpx.Envelope		"status_code, message, data"
//	@Failure		400		{object}	httpx.Envelope		"frozen account state or taken email"
//	@Router			/users [patch].
func (h *UsersHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	h.update(w, r, userID)
}

// HandleUpdate godoc
//
//	@Summary		Update User Endpoint
//	@Description	Partially update any user's profile. Superadmin only.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string				true	"User id"
//	@Param			request	body		updateUserRequest	true	"Fields to change"
//	@Success		200		{object}	httpx.Envelope		"status_code, message, data"
//	@Failure		400		{object}	httpx.Envelope		"frozen account state or taken email"
//	@Failure		404		{object}	httpx.Envelope		"unknown user"
//	@Router			/users/{id} [patch].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, r.PathValue("id"))
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request, targetID string) {
	var req updateUserRequest
	if !decodeJSON(w, r, h.Validator, &req) {
		return
	}

	user, err := h.UserService.Update(r.Context(), targetID, domain.UserUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, httpx.Envelope{
		Message: "User updated successfully",
		Data:    user.Project(),
	})
}

// HandleDelete godoc
//
//	@Summary		Delete User Endpoint
//	@Description	Soft-delete a user and kill their live sessions. Superadmin only.
//	@Tags			Users
//	@Security		BearerAuth
//	@Param			id	path	string	true	"User id"
//	@Success		204	"no content"
//	@Failure		404	{object}	httpx.Envelope	"unknown user"
//	@Failure		409	{object}	httpx.Envelope	"already deleted"
//	@Router			/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.UserService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// userPage is the data payload for the directory listing.
type userPage struct {
	Users   []domain.Projection `json:"users"`
	Page    int                 `json:"page"`
	PerPage int                 `json:"per_page"`
	Total   int                 `json:"total"`
}

// HandleList godoc
//
//	@Summary		List Users Endpoint
//	@Description	Page through user projections with optional boolean flag filters.
//	@Description	Superadmin only. The total reflects the rows in the returned page.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			page			query		int		false	"Page number, starts at 1"
//	@Param			per_page		query		int		false	"Rows per page"
//	@Param			is_active		query		bool	false	"Filter on the active flag"
//	@Param			is_verified		query		bool	false	"Filter on the verified flag"
//	@Param			is_deleted		query		bool	false	"Filter on the deleted flag"
//	@Param			is_superadmin	query		bool	false	"Filter on the superadmin flag"
//	@Success		200				{object}	httpx.Envelope	"status_code, message, data"
//	@Failure		422				{object}	httpx.Envelope	"non-integer paging or non-boolean filter"
//	@Router			/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fields := map[string]string{}

	page := queryInt(q.Get("page"), service.DefaultPage, "page", fields)
	perPage := queryInt(q.Get("per_page"), service.DefaultPerPage, "per_page", fields)
	filter := domain.UserFilter{
		IsActive:     queryBool(q.Get("is_active"), "is_active", fields),
		IsVerified:   queryBool(q.Get("is_verified"), "is_verified", fields),
		IsDeleted:    queryBool(q.Get("is_deleted"), "is_deleted", fields),
		IsSuperadmin: queryBool(q.Get("is_superadmin"), "is_superadmin", fields),
	}
	if len(fields) > 0 {
		httpx.WriteValidationErrors(w, fields)
		return
	}

	users, total, err := h.UserService.List(r.Context(), page, perPage, filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	message := "Users fetched successfully"
	if len(users) == 0 {
		message = "No User(s) found"
	}
	httpx.WriteEnvelope(w, http.StatusOK, httpx.Envelope{
		Message: message,
		Data: userPage{
			Users:   users,
			Page:    page,
			PerPage: perPage,
			Total:   total,
		},
	})
}

// queryInt parses a positive integer query parameter, recording a field error
// on anything else.
func queryInt(raw string, fallback int, name string, fields map[string]string) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		fields[name] = "Must be a positive integer"
		return fallback
	}
	return n
}

// queryBool parses an optional strictly-boolean query parameter.
func queryBool(raw, name string, fields map[string]string) *bool {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		fields[name] = "Must be a boolean"
		return nil
	}
	return &v
}
