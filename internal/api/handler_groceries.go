package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"grocery-graph/internal/domain"
)

// groceryResponse is the wire shape of a grocery.
type groceryResponse struct {
	UID                   string    `json:"uid"`
	Name                  string    `json:"name"`
	Location              string    `json:"location"`
	ResponsibleSupplierID *string   `json:"responsible_supplier_id,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func groceryToAPI(g domain.Grocery) groceryResponse {
	resp := groceryResponse{
		UID:       g.UID,
		Name:      g.Name,
		Location:  g.Location,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if g.ResponsibleSupplierID != "" {
		resp.ResponsibleSupplierID = &g.ResponsibleSupplierID
	}
	return resp
}

type createGroceryRequest struct {
	Name                  string  `json:"name"`
	Location              string  `json:"location"`
	ResponsibleSupplierID *string `json:"responsible_supplier_id"`
}

type updateGroceryRequest struct {
	Name                  *string `json:"name"`
	Location              *string `json:"location"`
	ResponsibleSupplierID *string `json:"responsible_supplier_id"`
}

func (h *Handler) listGroceries(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	groceries, err := h.groceries.List(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]groceryResponse, 0, len(groceries))
	for _, g := range groceries {
		out = append(out, groceryToAPI(g))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createGrocery(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	var body createGroceryRequest
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}

	g, err := h.groceries.Create(r.Context(), p, domain.CreateGroceryRequest{
		Name:                  body.Name,
		Location:              body.Location,
		ResponsibleSupplierID: body.ResponsibleSupplierID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, groceryToAPI(*g))
}

func (h *Handler) getGrocery(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	g, err := h.groceries.Get(r.Context(), p, chi.URLParam(r, "groceryUID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, groceryToAPI(*g))
}

func (h *Handler) updateGrocery(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	var body updateGroceryRequest
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}

	g, err := h.groceries.Update(r.Context(), p, chi.URLParam(r, "groceryUID"), domain.UpdateGroceryRequest{
		Name:                  body.Name,
		Location:              body.Location,
		ResponsibleSupplierID: body.ResponsibleSupplierID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, groceryToAPI(*g))
}

func (h *Handler) deleteGrocery(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	if err := h.groceries.Delete(r.Context(), p, chi.URLParam(r, "groceryUID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
