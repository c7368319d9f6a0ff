package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kongphop555/pocket-ledger/internal/domain"
	"github.com/kongphop555/pocket-ledger/internal/ledger"
	"github.com/kongphop555/pocket-ledger/internal/logging"
)

type pocketRepository interface {
	Create(ctx context.Context, input ledger.CreatePocketInput) (*domain.Pocket, error)
	Get(id uuid.UUID) (*domain.Pocket, error)
	List() []*domain.Pocket
	ListByCategory(category domain.Category) []*domain.Pocket
	Update(ctx context.Context, id uuid.UUID, input ledger.UpdatePocketInput) (*domain.Pocket, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PocketHandler struct {
	pockets pocketRepository
}

func NewPocketHandler(pockets pocketRepository) *PocketHandler {
	return &PocketHandler{pockets: pockets}
}

type transactionDTO struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

type pocketDTO struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Goal          decimal.Decimal  `json:"goal"`
	CurrentAmount decimal.Decimal  `json:"current_amount"`
	DueInDays     *int             `json:"due_in_days,omitempty"`
	IsPaid        *bool            `json:"is_paid,omitempty"`
	LastPaidDate  *time.Time       `json:"last_paid_date,omitempty"`
	Transactions  []transactionDTO `json:"transactions"`
	CreatedAt     time.Time        `json:"created_at"`
}

func toPocketDTO(p *domain.Pocket) pocketDTO {
	dto := pocketDTO{
		ID:            p.ID,
		Name:          p.Name,
		Category:      string(p.Category),
		Goal:          p.Goal,
		CurrentAmount: p.CurrentAmount,
		DueInDays:     p.DueInDays,
		LastPaidDate:  p.LastPaidDate,
		Transactions:  make([]transactionDTO, 0, len(p.Transactions)),
		CreatedAt:     p.CreatedAt,
	}
	if p.Category == domain.CategoryBill {
		paid := p.IsPaid
		dto.IsPaid = &paid
	}
	for _, tx := range p.Transactions {
		dto.Transactions = append(dto.Transactions, transactionDTO{
			ID:          tx.ID,
			Amount:      tx.Amount,
			Type:        string(tx.Type),
			Description: tx.Description,
			Date:        tx.Date,
		})
	}
	return dto
}

func toPocketDTOs(pockets []*domain.Pocket) []pocketDTO {
	dtos := make([]pocketDTO, 0, len(pockets))
	for _, p := range pockets {
		dtos = append(dtos, toPocketDTO(p))
	}
	return dtos
}

type createPocketRequest struct {
	Name      string           `json:"name"`
	Category  string           `json:"category"`
	Goal      *decimal.Decimal `json:"goal"`
	DueInDays *int             `json:"due_in_days"`
}

func (r createPocketRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}

	if r.Category == "" {
		errs = append(errs, FieldError{Field: "category", Message: "required"})
	} else if !domain.Category(r.Category).IsValid() {
		errs = append(errs, FieldError{Field: "category", Message: "must be saving, expense, or bill"})
	}

	if r.Goal == nil {
		errs = append(errs, FieldError{Field: "goal", Message: "required"})
	} else if !r.Goal.IsPositive() {
		errs = append(errs, FieldError{Field: "goal", Message: "must be greater than 0"})
	}

	if domain.Category(r.Category) == domain.CategoryBill && r.DueInDays == nil {
		errs = append(errs, FieldError{Field: "due_in_days", Message: "required for bill pockets"})
	}

	return errs
}

func (h *PocketHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req createPocketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	p, err := h.pockets.Create(r.Context(), ledger.CreatePocketInput{
		Name:      req.Name,
		Category:  domain.Category(req.Category),
		Goal:      *req.Goal,
		DueInDays: req.DueInDays,
	})
	if err != nil {
		log.Warn("pocket creation failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/pockets/%s", p.ID))
	RespondSuccess(w, http.StatusCreated, toPocketDTO(p))
}

func (h *PocketHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		RespondSuccess(w, http.StatusOK, toPocketDTOs(h.pockets.List()))
		return
	}

	if !domain.Category(category).IsValid() {
		RespondValidationError(w, []FieldError{{Field: "category", Message: "must be saving, expense, or bill"}})
		return
	}

	RespondSuccess(w, http.StatusOK, toPocketDTOs(h.pockets.ListByCategory(domain.Category(category))))
}

func (h *PocketHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pocketIDFromPath(w, r)
	if !ok {
		return
	}

	p, err := h.pockets.Get(id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toPocketDTO(p))
}

type updatePocketRequest struct {
	Name      *string          `json:"name"`
	Category  *string          `json:"category"`
	Goal      *decimal.Decimal `json:"goal"`
	DueInDays *int             `json:"due_in_days"`
}

func (r updatePocketRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Name != nil && *r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "must not be empty"})
	}
	if r.Goal != nil && !r.Goal.IsPositive() {
		errs = append(errs, FieldError{Field: "goal", Message: "must be greater than 0"})
	}

	return errs
}

func (h *PocketHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	id, ok := pocketIDFromPath(w, r)
	if !ok {
		return
	}

	var req updatePocketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if req.Category != nil {
		log.Warn("pocket update rejected", "pocket_id", id, "error", domain.ErrImmutableField)
		RespondDomainError(w, domain.ErrImmutableField)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	p, err := h.pockets.Update(r.Context(), id, ledger.UpdatePocketInput{
		Name:      req.Name,
		Goal:      req.Goal,
		DueInDays: req.DueInDays,
	})
	if err != nil {
		log.Warn("pocket update failed", "pocket_id", id, "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toPocketDTO(p))
}

func (h *PocketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	id, ok := pocketIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.pockets.Delete(r.Context(), id); err != nil {
		log.Warn("pocket deletion failed", "pocket_id", id, "error", err)
		RespondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pocketIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "id", Message: "must be a valid uuid"}})
		return uuid.Nil, false
	}
	return id, true
}
