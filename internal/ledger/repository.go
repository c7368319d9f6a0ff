// Package ledger holds the pocket collection and every operation that
// reads or mutates it. All mutations are serialized through Repository
// and persisted as one full-snapshot write before they are reported
// successful.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kongphop555/pocket-ledger/internal/domain"
	"github.com/kongphop555/pocket-ledger/internal/store"
)

const snapshotVersion = 1

type snapshot struct {
	Version int              `json:"version"`
	Pockets []*domain.Pocket `json:"pockets"`
}

// Repository is the single source of truth for the pocket collection.
// The write lock covers both the in-memory mutation and the snapshot
// write, so concurrent writers cannot lose each other's updates and
// reads never observe a half-applied operation.
type Repository struct {
	mu      sync.RWMutex
	store   store.Store
	key     string
	pockets []*domain.Pocket
	now     func() time.Time
}

func NewRepository(s store.Store, key string) *Repository {
	return &Repository{
		store: s,
		key:   key,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Load reads the snapshot from the store. An absent key means a fresh
// ledger, not an error. Corrupt bytes fail with a PersistenceError and
// leave the collection empty.
func (r *Repository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pockets = nil

	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return &domain.PersistenceError{Op: "Load: read snapshot", Err: err}
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return &domain.PersistenceError{Op: "Load: decode snapshot", Err: err}
	}
	r.pockets = snap.Pockets
	return nil
}

type CreatePocketInput struct {
	Name      string
	Category  domain.Category
	Goal      decimal.Decimal
	DueInDays *int
}

func (r *Repository) Create(ctx context.Context, input CreatePocketInput) (*domain.Pocket, error) {
	if err := validateCreate(input); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	var created *domain.Pocket
	err := r.mutate(ctx, func() error {
		p := domain.NewPocket(strings.TrimSpace(input.Name), input.Category, input.Goal, input.DueInDays, r.now())
		r.pockets = append(r.pockets, p)
		created = p.Clone()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	return created, nil
}

func (r *Repository) Get(id uuid.UUID) (*domain.Pocket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p := r.findLocked(id)
	if p == nil {
		return nil, fmt.Errorf("Get: %w", domain.ErrNotFound)
	}
	return p.Clone(), nil
}

// List returns deep copies of every pocket in insertion order.
func (r *Repository) List() []*domain.Pocket {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Pocket, 0, len(r.pockets))
	for _, p := range r.pockets {
		out = append(out, p.Clone())
	}
	return out
}

func (r *Repository) ListByCategory(category domain.Category) []*domain.Pocket {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Pocket, 0)
	for _, p := range r.pockets {
		if p.Category == category {
			out = append(out, p.Clone())
		}
	}
	return out
}

type UpdatePocketInput struct {
	Name      *string
	Goal      *decimal.Decimal
	DueInDays *int
}

// Update merges the given fields into the pocket. ID and category are
// immutable and have no corresponding input fields.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdatePocketInput) (*domain.Pocket, error) {
	if err := validateUpdate(input); err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}

	var updated *domain.Pocket
	err := r.mutate(ctx, func() error {
		p := r.findLocked(id)
		if p == nil {
			return domain.ErrNotFound
		}
		if input.Name != nil {
			p.Name = strings.TrimSpace(*input.Name)
		}
		if input.Goal != nil {
			p.Goal = *input.Goal
		}
		if input.DueInDays != nil {
			if p.Category != domain.CategoryBill {
				return domain.ErrInvalidCategory
			}
			d := *input.DueInDays
			p.DueInDays = &d
		}
		updated = p.Clone()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}
	return updated, nil
}

// Delete removes the pocket and its transactions permanently. Deleting
// an id twice is ErrNotFound on the second call, not a no-op.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.mutate(ctx, func() error {
		for i, p := range r.pockets {
			if p.ID == id {
				r.pockets = append(r.pockets[:i], r.pockets[i+1:]...)
				return nil
			}
		}
		return domain.ErrNotFound
	})
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

// mutate applies fn under the write lock and persists the resulting
// snapshot as exactly one store write. If fn or the write fails, the
// prior collection is restored so memory never runs ahead of disk.
func (r *Repository) mutate(ctx context.Context, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := clonePockets(r.pockets)
	if err := fn(); err != nil {
		r.pockets = prev
		return err
	}
	if err := r.persistLocked(ctx); err != nil {
		r.pockets = prev
		return err
	}
	return nil
}

// view runs fn under the read lock against the live collection. fn must
// not retain or mutate the pockets it sees.
func (r *Repository) view(fn func(pockets []*domain.Pocket)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn(r.pockets)
}

func (r *Repository) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(snapshot{Version: snapshotVersion, Pockets: r.pockets})
	if err != nil {
		return &domain.PersistenceError{Op: "persist: encode snapshot", Err: err}
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return &domain.PersistenceError{Op: "persist: write snapshot", Err: err}
	}
	return nil
}

func (r *Repository) findLocked(id uuid.UUID) *domain.Pocket {
	for _, p := range r.pockets {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func clonePockets(pockets []*domain.Pocket) []*domain.Pocket {
	out := make([]*domain.Pocket, len(pockets))
	for i, p := range pockets {
		out[i] = p.Clone()
	}
	return out
}

func validateCreate(input CreatePocketInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domain.ErrInvalidName
	}
	if !input.Category.IsValid() {
		return domain.ErrInvalidCategory
	}
	if !input.Goal.IsPositive() {
		return domain.ErrInvalidGoal
	}
	if input.Category == domain.CategoryBill && input.DueInDays == nil {
		return domain.ErrMissingDueInDays
	}
	return nil
}

func validateUpdate(input UpdatePocketInput) error {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return domain.ErrInvalidName
	}
	if input.Goal != nil && !input.Goal.IsPositive() {
		return domain.ErrInvalidGoal
	}
	return nil
}
