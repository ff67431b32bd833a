package handlers

import (
	"net/http"

	"gridpay/pkg/api"
)

// GetBudget handles GET /get-budget/{user_id}.
// Read-only: a user with no budget row reads as the {0, 1000} baseline
// and no row is created.
func (h *Handlers) GetBudget(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")

	budget, err := h.store.GetBudget(r.Context(), userID)
	if err != nil {
		h.storeError(r.Context(), w, err, "")
		return
	}

	h.respondJson(w, http.StatusOK, api.BudgetResponse{
		SpentCents:  budget.SpentCents,
		EarnedCents: budget.EarnedCents,
	})
}
