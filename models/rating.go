package models

const (
	MinRating = 1
	MaxRating = 5
)

// Rating has at most one row per (photo, user), enforced by the composite key
// and written only through an upsert.
type Rating struct {
	PhotoID   uint64 `gorm:"primaryKey;autoIncrement:false" json:"photo_id"`
	Photo     Photo  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint64 `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Value     int    `gorm:"column:score;not null" json:"rating"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type RatingStats struct {
	Count     int64         `json:"count"`
	Average   *float64      `json:"average"` // nil when there are no ratings
	Histogram map[int]int64 `json:"histogram"`
}

func EmptyHistogram() map[int]int64 {
	h := make(map[int]int64, MaxRating)
	for star := MinRating; star <= MaxRating; star++ {
		h[star] = 0
	}
	return h
}
