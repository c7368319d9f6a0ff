package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategorySaving  Category = "saving"
	CategoryExpense Category = "expense"
	CategoryBill    Category = "bill"
)

func (c Category) IsValid() bool {
	switch c {
	case CategorySaving, CategoryExpense, CategoryBill:
		return true
	}
	return false
}

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
	TransactionPayment TransactionType = "payment"
)

// Transaction is a single balance-affecting record. Direction is carried
// by Type, so Amount is always positive.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// Pocket is a named bucket of money: a savings goal, an expense budget,
// or a recurring bill. A pocket owns its transactions; deleting the
// pocket deletes them with it.
type Pocket struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Category      Category        `json:"category"`
	Goal          decimal.Decimal `json:"goal"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	DueInDays     *int            `json:"due_in_days,omitempty"`
	IsPaid        bool            `json:"is_paid"`
	LastPaidDate  *time.Time      `json:"last_paid_date,omitempty"`
	Transactions  []Transaction   `json:"transactions"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewPocket seeds the balance by category: expense budgets start full at
// their goal and are drawn down, savings accumulate from zero, and bills
// do not track a balance at all.
func NewPocket(name string, category Category, goal decimal.Decimal, dueInDays *int, now time.Time) *Pocket {
	p := &Pocket{
		ID:           uuid.New(),
		Name:         name,
		Category:     category,
		Goal:         goal,
		Transactions: []Transaction{},
		CreatedAt:    now,
	}
	switch category {
	case CategoryExpense:
		p.CurrentAmount = goal
	case CategoryBill:
		if dueInDays != nil {
			d := *dueInDays
			p.DueInDays = &d
		}
	}
	return p
}

// Clone returns a deep copy that shares no mutable state with p.
func (p *Pocket) Clone() *Pocket {
	cp := *p
	if p.DueInDays != nil {
		d := *p.DueInDays
		cp.DueInDays = &d
	}
	if p.LastPaidDate != nil {
		t := *p.LastPaidDate
		cp.LastPaidDate = &t
	}
	cp.Transactions = make([]Transaction, len(p.Transactions))
	copy(cp.Transactions, p.Transactions)
	return &cp
}
