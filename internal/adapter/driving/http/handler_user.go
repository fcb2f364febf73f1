package httphandler

import (
	"net/http"
	"strconv"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
)

// ListUsers returns accounts filtered by the userId, loginId, nickname, role,
// isActive and isFirstLogin query parameters.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	filter, err := userFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter")
		return
	}

	users, err := h.users.List(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.users.Create(r.Context(), req); err != nil {
		h.writeServiceError(w, r, "create user", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req model.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = id

	if err := h.users.Update(r.Context(), req); err != nil {
		h.writeServiceError(w, r, "update user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req PasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.users.ResetPassword(r.Context(), id, req.NewPassword); err != nil {
		h.writeServiceError(w, r, "reset password", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func userFilter(r *http.Request) (model.UserFilter, error) {
	q := r.URL.Query()
	filter := model.UserFilter{
		LoginID:  q.Get("loginId"),
		Nickname: q.Get("nickname"),
		Role:     q.Get("role"),
	}

	if v := q.Get("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.UserID = id
	}

	var err error
	if filter.IsActive, err = optionalBool(q.Get("isActive")); err != nil {
		return filter, err
	}
	if filter.IsFirstLogin, err = optionalBool(q.Get("isFirstLogin")); err != nil {
		return filter, err
	}
	return filter, nil
}

func optionalBool(v string) (*bool, error) {
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
