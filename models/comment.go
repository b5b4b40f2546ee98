package models

type Comment struct {
	ID              uint64   `gorm:"primaryKey" json:"id"`
	CreatedAt       int64    `gorm:"index:photo_comment_created,priority:2" json:"created_at"`
	UpdatedAt       int64    `json:"updated_at"`
	UserID          uint64   `gorm:"not null" json:"user_id"`
	User            User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PhotoID         uint64   `gorm:"not null;index:photo_comment_created,priority:1" json:"photo_id"`
	Photo           Photo    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ParentCommentID *uint64  `json:"parent_comment_id"`
	ParentComment   *Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Content         string   `gorm:"type:text;not null" json:"content"`

	Username   string `gorm:"->;-:migration" json:"username"`
	AuthorName string `gorm:"->;-:migration" json:"full_name"`
}
