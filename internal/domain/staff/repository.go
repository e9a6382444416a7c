package staff

import "context"

type Repository interface {
	Create(ctx context.Context, s Staff) (Staff, error)
	GetByID(ctx context.Context, id string) (Staff, error)
	// ListActiveByRole returns active staff of role ordered by full name, then id.
	ListActiveByRole(ctx context.Context, role Role) ([]Staff, error)
	ListActive(ctx context.Context) ([]Staff, error)
}
