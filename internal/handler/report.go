package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/kongphop555/pocket-ledger/internal/domain"
	"github.com/kongphop555/pocket-ledger/internal/ledger"
)

type aggregationService interface {
	NetWorth() decimal.Decimal
	TotalByCategory(category domain.Category) decimal.Decimal
	PercentageBreakdown(category domain.Category) []ledger.PocketShare
	UpcomingBills() []*domain.Pocket
	Summary() ledger.Summary
}

type ReportHandler struct {
	aggregator aggregationService
}

func NewReportHandler(aggregator aggregationService) *ReportHandler {
	return &ReportHandler{aggregator: aggregator}
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	RespondSuccess(w, http.StatusOK, h.aggregator.Summary())
}

type netWorthDTO struct {
	NetWorth decimal.Decimal `json:"net_worth"`
}

func (h *ReportHandler) NetWorth(w http.ResponseWriter, r *http.Request) {
	RespondSuccess(w, http.StatusOK, netWorthDTO{NetWorth: h.aggregator.NetWorth()})
}

type breakdownDTO struct {
	Category string               `json:"category"`
	Total    decimal.Decimal      `json:"total"`
	Pockets  []ledger.PocketShare `json:"pockets"`
}

func (h *ReportHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if !domain.Category(category).IsValid() {
		RespondValidationError(w, []FieldError{{Field: "category", Message: "must be saving, expense, or bill"}})
		return
	}

	c := domain.Category(category)
	RespondSuccess(w, http.StatusOK, breakdownDTO{
		Category: category,
		Total:    h.aggregator.TotalByCategory(c),
		Pockets:  h.aggregator.PercentageBreakdown(c),
	})
}

func (h *ReportHandler) UpcomingBills(w http.ResponseWriter, r *http.Request) {
	RespondSuccess(w, http.StatusOK, toPocketDTOs(h.aggregator.UpcomingBills()))
}
