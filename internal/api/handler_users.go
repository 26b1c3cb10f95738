package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"grocery-graph/internal/domain"
)

// userResponse is the wire shape of an account.
type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func userToAPI(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type createUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type updateUserRequest struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
	Role  *string `json:"role"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	users, err := h.principals.List(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userToAPI(u))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	var body createUserRequest
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}

	u, err := h.principals.Create(r.Context(), p, domain.CreateUserRequest{
		Email: body.Email,
		Name:  body.Name,
		Role:  body.Role,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, userToAPI(*u))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	id, err := userIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	u, err := h.principals.Get(r.Context(), p, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, userToAPI(*u))
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	id, err := userIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var body updateUserRequest
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}

	u, err := h.principals.Update(r.Context(), p, id, domain.UpdateUserRequest{
		Email: body.Email,
		Name:  body.Name,
		Role:  body.Role,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, userToAPI(*u))
}

func (h *Handler) deactivateUser(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	id, err := userIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.principals.Deactivate(r.Context(), p, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	id, err := strconv.ParseInt(p.ID, 10, 64)
	if err != nil {
		h.writeError(w, r, domain.ErrNotFound("account not found"))
		return
	}

	u, err := h.principals.Get(r.Context(), p, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, userToAPI(*u))
}

func userIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		return 0, domain.ErrValidation("user id must be an integer")
	}
	return id, nil
}
