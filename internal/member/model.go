package member

import "time"

// Member is the studio-side profile for a user account with the member role.
// Phone is the recipient address for reservation notifications.
type Member struct {
	UserID    int        `db:"user_id" json:"user_id"`
	TrainerID int        `db:"trainer_id" json:"trainer_id"`
	Name      string     `db:"name" json:"name"`
	Phone     string     `db:"phone" json:"phone"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Memo      string     `db:"memo" json:"memo"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

type UpsertRequest struct {
	TrainerID int        `json:"trainer_id" binding:"required"`
	Name      string     `json:"name" binding:"required"`
	Phone     string     `json:"phone" binding:"required"`
	BirthDate *time.Time `json:"birth_date"`
	Memo      string     `json:"memo"`
}
