package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
)

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	expenses, err := h.expenses.List(r.Context(), year)
	if err != nil {
		h.writeServiceError(w, r, "list expenses", err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req model.ExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expense, err := h.expenses.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, "create expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req model.ExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expense, err := h.expenses.Update(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, "update expense", err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.expenses.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "delete expense", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteExpenses(w http.ResponseWriter, r *http.Request) {
	var req IDsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.expenses.DeleteMany(r.Context(), req.IDs); err != nil {
		h.writeServiceError(w, r, "delete expenses", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
