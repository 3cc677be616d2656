package health

import "time"

// Record is one body-composition measurement for a member. Metrics are
// nullable so partial measurements still chart.
type Record struct {
	ID         int       `db:"id" json:"id"`
	MemberID   int       `db:"member_id" json:"member_id"`
	MeasuredOn time.Time `db:"measured_on" json:"measured_on"`
	WeightKg   *float64  `db:"weight_kg" json:"weight_kg,omitempty"`
	BodyFatPct *float64  `db:"body_fat_pct" json:"body_fat_pct,omitempty"`
	MuscleKg   *float64  `db:"muscle_kg" json:"muscle_kg,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
