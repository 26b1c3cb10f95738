package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"grocery-graph/internal/domain"
)

// itemResponse is the wire shape of an item.
type itemResponse struct {
	UID          string     `json:"uid"`
	Name         string     `json:"name"`
	ItemType     string     `json:"item_type"`
	ItemLocation string     `json:"item_location"`
	Price        float64    `json:"price"`
	IsDeleted    bool       `json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func itemToAPI(it domain.Item) itemResponse {
	return itemResponse{
		UID:          it.UID,
		Name:         it.Name,
		ItemType:     it.ItemType,
		ItemLocation: it.ItemLocation,
		Price:        it.Price,
		IsDeleted:    it.IsDeleted,
		DeletedAt:    it.DeletedAt,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

type createItemRequest struct {
	Name         string   `json:"name"`
	ItemType     string   `json:"item_type"`
	ItemLocation string   `json:"item_location"`
	Price        *float64 `json:"price"`
}

type updateItemRequest struct {
	Name         *string  `json:"name"`
	ItemType     *string  `json:"item_type"`
	ItemLocation *string  `json:"item_location"`
	Price        *float64 `json:"price"`
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	includeDeleted := queryFlag(r, "include_deleted")
	items, err := h.items.List(r.Context(), p, chi.URLParam(r, "groceryUID"), includeDeleted)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, itemToAPI(it))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	var body createItemRequest
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}

	it, err := h.items.Create(r.Context(), p, chi.URLParam(r, "groceryUID"), domain.CreateItemRequest{
		Name:         body.Name,
		ItemType:     body.ItemType,
		ItemLocation: body.ItemLocation,
		Price:        body.Price,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, itemToAPI(*it))
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	it, err := h.items.Get(r.Context(), p, chi.URLParam(r, "groceryUID"), chi.URLParam(r, "itemUID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, itemToAPI(*it))
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	var body updateItemRequest
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}

	it, err := h.items.Update(r.Context(), p, chi.URLParam(r, "groceryUID"), chi.URLParam(r, "itemUID"), domain.UpdateItemRequest{
		Name:         body.Name,
		ItemType:     body.ItemType,
		ItemLocation: body.ItemLocation,
		Price:        body.Price,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, itemToAPI(*it))
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	if err := h.items.SoftDelete(r.Context(), p, chi.URLParam(r, "groceryUID"), chi.URLParam(r, "itemUID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryFlag reads a boolean query parameter, accepting 1/true/True.
func queryFlag(r *http.Request, name string) bool {
	switch r.URL.Query().Get(name) {
	case "1", "true", "True":
		return true
	}
	return false
}
