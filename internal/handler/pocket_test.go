package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kongphop555/pocket-ledger/internal/ledger"
	"github.com/kongphop555/pocket-ledger/internal/store"
)

func newTestAPI(t *testing.T) *http.ServeMux {
	t.Helper()

	mem := store.NewMemory()
	repo := ledger.NewRepository(mem, "pockets")
	require.NoError(t, repo.Load(context.Background()))

	return NewMux(
		NewPocketHandler(repo),
		NewTransactionHandler(ledger.NewEngine(repo)),
		NewBillPaymentHandler(ledger.NewBillPayments(repo)),
		NewReportHandler(ledger.NewAggregator(repo)),
		NewHealthHandler(mem),
	)
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

type pocketEnvelope struct {
	Success bool      `json:"success"`
	Data    pocketDTO `json:"data"`
	Error   *APIError `json:"error"`
}

func decodePocket(t *testing.T, rec *httptest.ResponseRecorder) pocketDTO {
	t.Helper()
	var env pocketEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success)
	return env.Data
}

func createPocketViaAPI(t *testing.T, mux *http.ServeMux, name, category, goal string, dueInDays *int) pocketDTO {
	t.Helper()
	body := map[string]any{"name": name, "category": category, "goal": goal}
	if dueInDays != nil {
		body["due_in_days"] = *dueInDays
	}
	rec := doJSON(t, mux, http.MethodPost, "/api/v1/pockets", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodePocket(t, rec)
}

func TestCreatePocketEndpoint(t *testing.T) {
	mux := newTestAPI(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/pockets",
		map[string]any{"name": "Groceries", "category": "expense", "goal": "500"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decodePocket(t, rec)
	assert.Equal(t, "Groceries", got.Name)
	assert.Equal(t, "expense", got.Category)
	assert.True(t, got.CurrentAmount.Equal(decimal.RequireFromString("500")))
	assert.Nil(t, got.IsPaid, "is_paid is bill-only")
	assert.NotEmpty(t, rec.Header().Get("Location"))
}

func TestCreatePocketValidationErrors(t *testing.T) {
	mux := newTestAPI(t)

	tests := []struct {
		name      string
		body      map[string]any
		wantField string
	}{
		{
			name:      "missing name",
			body:      map[string]any{"category": "saving", "goal": "100"},
			wantField: "name",
		},
		{
			name:      "bad category",
			body:      map[string]any{"name": "X", "category": "loan", "goal": "100"},
			wantField: "category",
		},
		{
			name:      "non-positive goal",
			body:      map[string]any{"name": "X", "category": "saving", "goal": "0"},
			wantField: "goal",
		},
		{
			name:      "bill without due date",
			body:      map[string]any{"name": "Rent", "category": "bill", "goal": "900"},
			wantField: "due_in_days",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, mux, http.MethodPost, "/api/v1/pockets", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var env struct {
				Success bool `json:"success"`
				Error   struct {
					Code    string       `json:"code"`
					Details []FieldError `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.False(t, env.Success)
			assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

			found := false
			for _, f := range env.Error.Details {
				if f.Field == tc.wantField {
					found = true
				}
			}
			assert.True(t, found, "expected a field error for %q, got %v", tc.wantField, env.Error.Details)
		})
	}
}

func TestPocketLifecycleEndpoints(t *testing.T) {
	mux := newTestAPI(t)

	p := createPocketViaAPI(t, mux, "Groceries", "expense", "500", nil)

	rec := doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/v1/pockets/%s/transactions", p.ID),
		map[string]any{"amount": "120", "type": "expense", "description": "weekly shop"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decodePocket(t, rec)
	assert.True(t, got.CurrentAmount.Equal(decimal.RequireFromString("380")))
	require.Len(t, got.Transactions, 1)
	assert.Equal(t, "weekly shop", got.Transactions[0].Description)

	rec = doJSON(t, mux, http.MethodPatch, "/api/v1/pockets/"+p.ID.String(),
		map[string]any{"name": "Food"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Food", decodePocket(t, rec).Name)

	rec = doJSON(t, mux, http.MethodPatch, "/api/v1/pockets/"+p.ID.String(),
		map[string]any{"category": "saving"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, "category is immutable")

	var immutable pocketEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &immutable))
	require.NotNil(t, immutable.Error)
	assert.Equal(t, "IMMUTABLE_FIELD", immutable.Error.Code)

	rec = doJSON(t, mux, http.MethodGet, "/api/v1/pockets/"+p.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "expense", decodePocket(t, rec).Category)

	rec = doJSON(t, mux, http.MethodDelete, "/api/v1/pockets/"+p.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/api/v1/pockets/"+p.ID.String(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, mux, http.MethodDelete, "/api/v1/pockets/"+p.ID.String(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code, "second delete is not a silent no-op")
}

func TestListPocketsByCategory(t *testing.T) {
	mux := newTestAPI(t)

	createPocketViaAPI(t, mux, "Groceries", "expense", "500", nil)
	createPocketViaAPI(t, mux, "Vacation", "saving", "1200", nil)

	rec := doJSON(t, mux, http.MethodGet, "/api/v1/pockets?category=expense", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data []pocketDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Groceries", env.Data[0].Name)

	rec = doJSON(t, mux, http.MethodGet, "/api/v1/pockets?category=loans", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayBillEndpoint(t *testing.T) {
	mux := newTestAPI(t)

	groceries := createPocketViaAPI(t, mux, "Groceries", "expense", "500", nil)
	due := 5
	bill := createPocketViaAPI(t, mux, "Electricity", "bill", "150", &due)

	rec := doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/v1/bills/%s/pay", bill.ID),
		map[string]any{"source_id": groceries.ID.String()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		Data paymentReceiptDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Data.Source.CurrentAmount.Equal(decimal.RequireFromString("350")))
	require.NotNil(t, env.Data.Bill.IsPaid)
	assert.True(t, *env.Data.Bill.IsPaid)

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/v1/bills/%s/pay", bill.ID),
		map[string]any{"source_id": groceries.ID.String()})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestPayBillEndpointInsufficientFunds(t *testing.T) {
	mux := newTestAPI(t)

	groceries := createPocketViaAPI(t, mux, "Groceries", "expense", "100", nil)
	due := 3
	rent := createPocketViaAPI(t, mux, "Rent", "bill", "900", &due)

	rec := doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/v1/bills/%s/pay", rent.ID),
		map[string]any{"source_id": groceries.ID.String()})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var env struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Available decimal.Decimal `json:"available"`
				Required  decimal.Decimal `json:"required"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "INSUFFICIENT_FUNDS", env.Error.Code)
	assert.True(t, env.Error.Details.Available.Equal(decimal.RequireFromString("100")))
	assert.True(t, env.Error.Details.Required.Equal(decimal.RequireFromString("900")))
}

func TestReportEndpoints(t *testing.T) {
	mux := newTestAPI(t)

	createPocketViaAPI(t, mux, "Groceries", "expense", "500", nil)
	createPocketViaAPI(t, mux, "Transport", "expense", "200", nil)
	due5, due2 := 5, 2
	createPocketViaAPI(t, mux, "Electricity", "bill", "150", &due5)
	createPocketViaAPI(t, mux, "Internet", "bill", "60", &due2)

	rec := doJSON(t, mux, http.MethodGet, "/api/v1/reports/net-worth", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var worth struct {
		Data struct {
			NetWorth decimal.Decimal `json:"net_worth"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &worth))
	assert.True(t, worth.Data.NetWorth.Equal(decimal.RequireFromString("700")))

	rec = doJSON(t, mux, http.MethodGet, "/api/v1/reports/breakdown?category=expense", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var breakdown struct {
		Data breakdownDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &breakdown))
	require.Len(t, breakdown.Data.Pockets, 2)
	assert.True(t, breakdown.Data.Total.Equal(decimal.RequireFromString("700")))

	rec = doJSON(t, mux, http.MethodGet, "/api/v1/reports/breakdown", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code, "breakdown requires a category filter")

	rec = doJSON(t, mux, http.MethodGet, "/api/v1/reports/upcoming-bills", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bills struct {
		Data []pocketDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bills))
	require.Len(t, bills.Data, 2)
	assert.Equal(t, "Internet", bills.Data[0].Name, "sorted by due_in_days ascending")

	rec = doJSON(t, mux, http.MethodGet, "/api/v1/reports/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		Data ledger.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 4, summary.Data.PocketCount)
	assert.Equal(t, 2, summary.Data.UnpaidBills)
}

func TestHealthEndpoints(t *testing.T) {
	mux := newTestAPI(t)

	rec := doJSON(t, mux, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
