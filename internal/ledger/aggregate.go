package ledger

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kongphop555/pocket-ledger/internal/domain"
)

// Aggregator computes read-only derived views over the current pocket
// collection. It never mutates anything.
type Aggregator struct {
	repo *Repository
}

func NewAggregator(repo *Repository) *Aggregator {
	return &Aggregator{repo: repo}
}

// NetWorth is the sum of balances over all non-bill pockets. Bills track
// an obligation, not money held, so they are excluded.
func (a *Aggregator) NetWorth() decimal.Decimal {
	total := decimal.Zero
	a.repo.view(func(pockets []*domain.Pocket) {
		for _, p := range pockets {
			if p.Category == domain.CategoryBill {
				continue
			}
			total = total.Add(p.CurrentAmount)
		}
	})
	return total
}

func (a *Aggregator) TotalByCategory(category domain.Category) decimal.Decimal {
	total := decimal.Zero
	a.repo.view(func(pockets []*domain.Pocket) {
		for _, p := range pockets {
			if p.Category == category {
				total = total.Add(p.CurrentAmount)
			}
		}
	})
	return total
}

type PocketShare struct {
	PocketID   uuid.UUID       `json:"pocket_id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// PercentageBreakdown returns each matching pocket's share of the
// filtered total, rounded to a tenth of a percent. A zero total yields
// zero percentages rather than a division error.
func (a *Aggregator) PercentageBreakdown(category domain.Category) []PocketShare {
	hundred := decimal.NewFromInt(100)
	shares := make([]PocketShare, 0)

	a.repo.view(func(pockets []*domain.Pocket) {
		total := decimal.Zero
		var matched []*domain.Pocket
		for _, p := range pockets {
			if p.Category != category {
				continue
			}
			matched = append(matched, p)
			total = total.Add(p.CurrentAmount)
		}

		for _, p := range matched {
			share := PocketShare{
				PocketID:   p.ID,
				Name:       p.Name,
				Amount:     p.CurrentAmount,
				Percentage: decimal.Zero,
			}
			if !total.IsZero() {
				share.Percentage = p.CurrentAmount.Mul(hundred).Div(total).Round(1)
			}
			shares = append(shares, share)
		}
	})
	return shares
}

// UpcomingBills returns unpaid bill pockets sorted by due_in_days
// ascending. Ties keep insertion order.
func (a *Aggregator) UpcomingBills() []*domain.Pocket {
	var bills []*domain.Pocket
	a.repo.view(func(pockets []*domain.Pocket) {
		for _, p := range pockets {
			if p.Category == domain.CategoryBill && !p.IsPaid {
				bills = append(bills, p.Clone())
			}
		}
	})
	sort.SliceStable(bills, func(i, j int) bool {
		return dueIn(bills[i]) < dueIn(bills[j])
	})
	return bills
}

func dueIn(p *domain.Pocket) int {
	if p.DueInDays == nil {
		return 0
	}
	return *p.DueInDays
}

type CategoryTotal struct {
	Category domain.Category `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type Summary struct {
	NetWorth    decimal.Decimal `json:"net_worth"`
	ByCategory  []CategoryTotal `json:"by_category"`
	PocketCount int             `json:"pocket_count"`
	UnpaidBills int             `json:"unpaid_bills"`
}

// Summary is the reports-screen payload: net worth, per-category totals,
// and how many bills still need paying.
func (a *Aggregator) Summary() Summary {
	s := Summary{NetWorth: decimal.Zero}
	totals := map[domain.Category]decimal.Decimal{
		domain.CategorySaving:  decimal.Zero,
		domain.CategoryExpense: decimal.Zero,
		domain.CategoryBill:    decimal.Zero,
	}

	a.repo.view(func(pockets []*domain.Pocket) {
		s.PocketCount = len(pockets)
		for _, p := range pockets {
			totals[p.Category] = totals[p.Category].Add(p.CurrentAmount)
			if p.Category != domain.CategoryBill {
				s.NetWorth = s.NetWorth.Add(p.CurrentAmount)
			} else if !p.IsPaid {
				s.UnpaidBills++
			}
		}
	})

	for _, c := range []domain.Category{domain.CategorySaving, domain.CategoryExpense, domain.CategoryBill} {
		s.ByCategory = append(s.ByCategory, CategoryTotal{Category: c, Total: totals[c]})
	}
	return s
}
