package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kongphop555/pocket-ledger/internal/domain"
)

// BillPayments settles bill pockets by drawing the bill's goal amount
// from an expense pocket.
type BillPayments struct {
	repo *Repository
	now  func() time.Time
}

func NewBillPayments(repo *Repository) *BillPayments {
	return &BillPayments{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

type PaymentReceipt struct {
	Bill   *domain.Pocket
	Source *domain.Pocket
	Amount decimal.Decimal
	PaidAt time.Time
}

// PayBill debits the source expense pocket by the bill's goal, marks the
// bill paid, and records one payment transaction in each pocket. Both
// mutations happen under the repository's write lock and land in a
// single snapshot write, so either both pockets change or neither does.
func (b *BillPayments) PayBill(ctx context.Context, billID, sourceID uuid.UUID) (*PaymentReceipt, error) {
	var receipt *PaymentReceipt
	err := b.repo.mutate(ctx, func() error {
		bill := b.repo.findLocked(billID)
		if bill == nil {
			return fmt.Errorf("bill: %w", domain.ErrNotFound)
		}
		source := b.repo.findLocked(sourceID)
		if source == nil {
			return fmt.Errorf("source: %w", domain.ErrNotFound)
		}
		if bill.Category != domain.CategoryBill {
			return fmt.Errorf("bill: %w", domain.ErrInvalidCategory)
		}
		if source.Category != domain.CategoryExpense {
			return fmt.Errorf("source: %w", domain.ErrInvalidCategory)
		}
		if bill.IsPaid {
			return domain.ErrAlreadyPaid
		}
		if source.CurrentAmount.LessThan(bill.Goal) {
			return &domain.InsufficientFundsError{
				Available: source.CurrentAmount,
				Required:  bill.Goal,
			}
		}

		now := b.now()

		source.CurrentAmount = source.CurrentAmount.Sub(bill.Goal)
		source.Transactions = append([]domain.Transaction{{
			ID:          uuid.New(),
			Amount:      bill.Goal,
			Type:        domain.TransactionPayment,
			Description: fmt.Sprintf("paid %s", bill.Name),
			Date:        now,
		}}, source.Transactions...)

		paidAt := now
		bill.IsPaid = true
		bill.LastPaidDate = &paidAt
		bill.Transactions = append([]domain.Transaction{{
			ID:          uuid.New(),
			Amount:      bill.Goal,
			Type:        domain.TransactionPayment,
			Description: fmt.Sprintf("paid from %s", source.Name),
			Date:        now,
		}}, bill.Transactions...)

		receipt = &PaymentReceipt{
			Bill:   bill.Clone(),
			Source: source.Clone(),
			Amount: bill.Goal,
			PaidAt: now,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("PayBill: %w", err)
	}
	return receipt, nil
}
