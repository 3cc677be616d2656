package pack

import (
	"context"
	"time"
)

type Repository interface {
	// FindActiveForDate selects the active package whose window contains the
	// day. When windows overlap the most recently created package wins.
	// Returns nil when no active package covers the day.
	FindActiveForDate(ctx context.Context, memberID int, date time.Time) (*Package, error)
	GetByID(ctx context.Context, id int) (*Package, error)
	ListByMember(ctx context.Context, memberID int) ([]Package, error)
	Insert(ctx context.Context, memberID int, f Fields) (*Package, error)
	Update(ctx context.Context, id int, f Fields) (*Package, error)
	// CloseActive marks every active package of the member closed.
	CloseActive(ctx context.Context, memberID int) error
	// Reregister closes the member's active packages and inserts the new one
	// in a single transaction, so a failure leaves the old package active.
	Reregister(ctx context.Context, memberID int, f Fields) (*Package, error)
	Delete(ctx context.Context, id int) error
}
