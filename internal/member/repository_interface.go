package member

import "context"

type Repository interface {
	Upsert(ctx context.Context, userID int, req UpsertRequest) (*Member, error)
	FindByUserID(ctx context.Context, userID int) (*Member, error)
	ListByTrainer(ctx context.Context, trainerID int) ([]Member, error)
	Delete(ctx context.Context, userID int) error
}
