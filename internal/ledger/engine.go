package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kongphop555/pocket-ledger/internal/domain"
)

// Engine appends balance-affecting transactions to a single pocket.
type Engine struct {
	repo *Repository
	now  func() time.Time
}

func NewEngine(repo *Repository) *Engine {
	return &Engine{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// AddTransaction records an income or expense against the pocket and
// recomputes its balance. Payment transactions are written only by
// BillPayments. The balance may go negative: overdraft is allowed at
// this layer and any floor is the caller's policy.
func (e *Engine) AddTransaction(ctx context.Context, pocketID uuid.UUID, amount decimal.Decimal, txType domain.TransactionType, description string) (*domain.Pocket, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("AddTransaction: %w", domain.ErrInvalidAmount)
	}
	if txType != domain.TransactionIncome && txType != domain.TransactionExpense {
		return nil, fmt.Errorf("AddTransaction: %w", domain.ErrInvalidType)
	}

	var updated *domain.Pocket
	err := e.repo.mutate(ctx, func() error {
		p := e.repo.findLocked(pocketID)
		if p == nil {
			return domain.ErrNotFound
		}

		if txType == domain.TransactionIncome {
			p.CurrentAmount = p.CurrentAmount.Add(amount)
		} else {
			p.CurrentAmount = p.CurrentAmount.Sub(amount)
		}

		tx := domain.Transaction{
			ID:          uuid.New(),
			Amount:      amount,
			Type:        txType,
			Description: description,
			Date:        e.now(),
		}
		p.Transactions = append([]domain.Transaction{tx}, p.Transactions...)

		updated = p.Clone()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("AddTransaction: %w", err)
	}
	return updated, nil
}
