package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"grocery-graph/internal/domain"
)

// incomeResponse is the wire shape of a daily income record.
type incomeResponse struct {
	UID       string    `json:"uid"`
	Amount    float64   `json:"amount"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// incomeSummaryResponse is the filtered income list plus its aggregates.
type incomeSummaryResponse struct {
	GroceryUID string           `json:"grocery_uid"`
	Count      int              `json:"count"`
	Total      float64          `json:"total"`
	Incomes    []incomeResponse `json:"incomes"`
}

type recordIncomeRequest struct {
	Amount *float64 `json:"amount"`
	Date   string   `json:"date"`
}

func incomeToAPI(inc domain.DailyIncome) incomeResponse {
	return incomeResponse{
		UID:       inc.UID,
		Amount:    inc.Amount,
		Date:      inc.Date,
		CreatedAt: inc.CreatedAt,
	}
}

func (h *Handler) listIncomes(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	query := domain.IncomeQuery{
		Mine: queryFlag(r, "mine"),
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	summary, err := h.incomes.List(r.Context(), p, chi.URLParam(r, "groceryUID"), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := incomeSummaryResponse{
		GroceryUID: summary.GroceryUID,
		Count:      summary.Count,
		Total:      summary.Total,
		Incomes:    make([]incomeResponse, 0, len(summary.Incomes)),
	}
	for _, inc := range summary.Incomes {
		out.Incomes = append(out.Incomes, incomeToAPI(inc))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) recordIncome(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(r)
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	var body recordIncomeRequest
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}

	inc, err := h.incomes.Record(r.Context(), p, chi.URLParam(r, "groceryUID"), domain.RecordIncomeRequest{
		Amount: body.Amount,
		Date:   body.Date,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, incomeToAPI(*inc))
}
