package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kongphop555/pocket-ledger/internal/ledger"
	"github.com/kongphop555/pocket-ledger/internal/logging"
)

type billPaymentService interface {
	PayBill(ctx context.Context, billID, sourceID uuid.UUID) (*ledger.PaymentReceipt, error)
}

type BillPaymentHandler struct {
	payments billPaymentService
}

func NewBillPaymentHandler(payments billPaymentService) *BillPaymentHandler {
	return &BillPaymentHandler{payments: payments}
}

type payBillRequest struct {
	SourceID string `json:"source_id"`
}

type paymentReceiptDTO struct {
	Bill   pocketDTO       `json:"bill"`
	Source pocketDTO       `json:"source"`
	Amount decimal.Decimal `json:"amount"`
	PaidAt time.Time       `json:"paid_at"`
}

func (h *BillPaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	billID, ok := pocketIDFromPath(w, r)
	if !ok {
		return
	}

	var req payBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	sourceID, err := uuid.Parse(req.SourceID)
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "source_id", Message: "must be a valid uuid"}})
		return
	}

	receipt, err := h.payments.PayBill(r.Context(), billID, sourceID)
	if err != nil {
		log.Warn("bill payment failed", "bill_id", billID, "source_id", sourceID, "error", err)
		RespondDomainError(w, err)
		return
	}

	log.Info("bill paid",
		"bill_id", billID,
		"source_id", sourceID,
		"amount", receipt.Amount,
	)

	RespondSuccess(w, http.StatusOK, paymentReceiptDTO{
		Bill:   toPocketDTO(receipt.Bill),
		Source: toPocketDTO(receipt.Source),
		Amount: receipt.Amount,
		PaidAt: receipt.PaidAt,
	})
}
