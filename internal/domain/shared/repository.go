package shared

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the generic persistence contract for an aggregate
type Repository[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindAll(ctx context.Context, filter Filter) ([]T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter Filter) (int64, error)
}

// AgencyRepository adds agency-scoped lookups. Handlers always go
// through the ForAgency variants so one tenant cannot read another.
type AgencyRepository[T any] interface {
	Repository[T]
	FindByIDForAgency(ctx context.Context, agencyID, id uuid.UUID) (*T, error)
	FindAllForAgency(ctx context.Context, agencyID uuid.UUID, filter Filter) ([]T, error)
	CountForAgency(ctx context.Context, agencyID uuid.UUID, filter Filter) (int64, error)
}

// Filter carries pagination, ordering, and search options for list queries
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter returns the standard page-one, newest-first filter
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Paginated wraps a page of results with totals
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated computes total pages from the count and page size
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
