package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kongphop555/pocket-ledger/internal/domain"
	"github.com/kongphop555/pocket-ledger/internal/logging"
)

type transactionEngine interface {
	AddTransaction(ctx context.Context, pocketID uuid.UUID, amount decimal.Decimal, txType domain.TransactionType, description string) (*domain.Pocket, error)
}

type TransactionHandler struct {
	engine transactionEngine
}

func NewTransactionHandler(engine transactionEngine) *TransactionHandler {
	return &TransactionHandler{engine: engine}
}

type addTransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Type        string           `json:"type"`
	Description string           `json:"description"`
}

func (r addTransactionRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Amount == nil {
		errs = append(errs, FieldError{Field: "amount", Message: "required"})
	} else if !r.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0"})
	}

	switch domain.TransactionType(r.Type) {
	case domain.TransactionIncome, domain.TransactionExpense:
	default:
		errs = append(errs, FieldError{Field: "type", Message: "must be income or expense"})
	}

	return errs
}

func (h *TransactionHandler) Add(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	id, ok := pocketIDFromPath(w, r)
	if !ok {
		return
	}

	var req addTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	p, err := h.engine.AddTransaction(r.Context(), id, *req.Amount, domain.TransactionType(req.Type), req.Description)
	if err != nil {
		log.Warn("transaction append failed", "pocket_id", id, "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toPocketDTO(p))
}
