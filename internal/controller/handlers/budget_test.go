package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gridpay/internal/store"
	"gridpay/pkg/api"
)

func getBudget(t *testing.T, h *Handlers, userID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/get-budget/"+userID, nil)
	req.SetPathValue("user_id", userID)
	rr := httptest.NewRecorder()
	h.GetBudget(rr, req)
	return rr
}

func TestGetBudget_Existing(t *testing.T) {
	mock := &mockStore{
		getBudgetResp: &store.Budget{UserID: "alice", SpentCents: -250, EarnedCents: 0},
	}
	h := New(mock, nil, nil)

	rr := getBudget(t, h, "alice")
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}

	var resp api.BudgetResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.SpentCents != -250 || resp.EarnedCents != 0 {
		t.Errorf("got %+v, want spent -250 earned 0", resp)
	}
}

func TestGetBudget_NeverSeenUser(t *testing.T) {
	// The mock mirrors the store: no row means the informational baseline.
	h := New(&mockStore{}, nil, nil)

	rr := getBudget(t, h, "stranger")
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}

	var resp api.BudgetResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.SpentCents != 0 || resp.EarnedCents != 1000 {
		t.Errorf("got %+v, want the {0, 1000} baseline", resp)
	}
}

func TestGetBudget_StoreFailure(t *testing.T) {
	mock := &mockStore{getBudgetErr: errors.New("connection refused")}
	h := New(mock, nil, nil)

	rr := getBudget(t, h, "alice")
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("got status %d, want 500", rr.Code)
	}
}
