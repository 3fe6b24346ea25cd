package ranking

import "context"

// Repository provides the ranking list of one award year.
// A successful call never returns a nil list; an empty list means the year has no rankings.
type Repository interface {
	ListByYear(ctx context.Context, year int) (List, error)
}
