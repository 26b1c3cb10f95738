// Package api provides the HTTP handlers for the grocery graph REST API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"grocery-graph/internal/domain"
	"grocery-graph/internal/middleware"
	"grocery-graph/internal/service"
)

// Handler bundles the resource services behind the chi routes.
type Handler struct {
	groceries  *service.GroceryService
	items      *service.ItemService
	incomes    *service.IncomeService
	principals *service.PrincipalService
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required service dependencies.
func NewHandler(
	groceries *service.GroceryService,
	items *service.ItemService,
	incomes *service.IncomeService,
	principals *service.PrincipalService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		groceries:  groceries,
		items:      items,
		incomes:    incomes,
		principals: principals,
		logger:     logger,
	}
}

// Routes mounts every authenticated resource route on r. The caller is
// responsible for wrapping r in the auth middleware.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/groceries", func(r chi.Router) {
		r.Get("/", h.listGroceries)
		r.Post("/", h.createGrocery)

		r.Route("/{groceryUID}", func(r chi.Router) {
			r.Get("/", h.getGrocery)
			r.Patch("/", h.updateGrocery)
			r.Delete("/", h.deleteGrocery)

			r.Route("/items", func(r chi.Router) {
				r.Get("/", h.listItems)
				r.Post("/", h.createItem)
				r.Get("/{itemUID}", h.getItem)
				r.Patch("/{itemUID}", h.updateItem)
				r.Delete("/{itemUID}", h.deleteItem)
			})

			r.Route("/incomes", func(r chi.Router) {
				r.Get("/", h.listIncomes)
				r.Post("/", h.recordIncome)
			})
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.listUsers)
		r.Post("/", h.createUser)
		r.Get("/{userID}", h.getUser)
		r.Patch("/{userID}", h.updateUser)
		r.Delete("/{userID}", h.deactivateUser)
	})

	r.Get("/me", h.me)
}

// principal pulls the authenticated identity the middleware resolved.
// Every service call receives it explicitly.
func (h *Handler) principal(r *http.Request) (domain.Principal, bool) {
	return middleware.PrincipalFromContext(r.Context())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			h.logger.Error("encode response", "error", err)
		}
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFromDomainError(err)

	body := map[string]any{
		"code":    status,
		"message": err.Error(),
	}
	var denied *domain.AccessDeniedError
	if errors.As(err, &denied) && denied.Reason != "" {
		body["reason"] = denied.Reason
	}

	var invariant *domain.InvariantError
	if status == http.StatusInternalServerError && !errors.As(err, &invariant) {
		// Invariant failures were already logged with context by the
		// service; everything else unexpected gets logged here.
		h.logger.Error("request failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"path", r.URL.Path, "error", err)
	}

	h.writeJSON(w, status, body)
}

func (h *Handler) writeUnauthenticated(w http.ResponseWriter) {
	h.writeJSON(w, http.StatusUnauthorized, map[string]any{
		"code":    http.StatusUnauthorized,
		"message": "unauthorized",
	})
}

// decodeJSON parses the request body, rejecting unknown fields so typos
// in payloads fail loudly instead of silently dropping updates.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.ErrValidation("invalid JSON payload: %v", err)
	}
	return nil
}
