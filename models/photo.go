package models

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

type Photo struct {
	ID            uint64        `gorm:"primaryKey" json:"id"`
	CreatorID     uint64        `gorm:"not null;index:creator_created,priority:1" json:"creator_id"`
	Creator       User          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Title         string        `gorm:"type:varchar(255);not null" json:"title"`
	Caption       *string       `gorm:"type:text" json:"caption"`
	Location      *string       `gorm:"type:varchar(255)" json:"location"`
	People        []PhotoPerson `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PeoplePresent []string      `gorm:"-" json:"people_present"`
	FilePath      string        `gorm:"type:varchar(500);not null" json:"file_path"`
	ThumbnailPath *string       `gorm:"type:varchar(500)" json:"thumbnail_path"`
	FileSize      int64         `gorm:"not null" json:"file_size"`
	MimeType      string        `gorm:"type:varchar(50)" json:"mime_type"`
	Width         *int          `json:"width"`
	Height        *int          `json:"height"`
	ViewCount     int64         `gorm:"not null;default:0" json:"view_count"`
	CreatedAt     int64         `gorm:"index:creator_created,priority:2" json:"created_at"`
	UpdatedAt     int64         `json:"updated_at"`

	// Case-folded copies for search, see Fold
	TitleFolded    string `gorm:"type:text" json:"-"`
	CaptionFolded  string `gorm:"type:text" json:"-"`
	LocationFolded string `gorm:"type:text" json:"-"`

	// Derived on read, never stored
	AverageRating   *float64 `gorm:"->;-:migration" json:"average_rating"`
	RatingCount     int64    `gorm:"->;-:migration" json:"rating_count"`
	CreatorUsername string   `gorm:"->;-:migration" json:"username"`
	CreatorName     string   `gorm:"->;-:migration" json:"creator_name"`
}

// PhotoPerson keeps people_present as ordered rows so membership search works
// the same way on every supported dialect.
type PhotoPerson struct {
	ID       uint64 `gorm:"primaryKey"`
	PhotoID  uint64 `gorm:"not null;index:photo_position,priority:1"`
	Position int    `gorm:"not null;index:photo_position,priority:2"`
	Name     string `gorm:"type:varchar(200);not null"`
	// NameFolded is Fold(Name)
	NameFolded string `gorm:"type:varchar(400);index"`
}

// Fold applies Unicode case folding. Search compares folded needles against
// folded columns because SQL LOWER() only folds ASCII on SQLite.
func Fold(s string) string {
	return cases.Fold().String(s)
}

func foldOptional(s *string) string {
	if s == nil {
		return ""
	}
	return Fold(*s)
}

func (p *Photo) BeforeSave(tx *gorm.DB) error {
	p.TitleFolded = Fold(p.Title)
	p.CaptionFolded = foldOptional(p.Caption)
	p.LocationFolded = foldOptional(p.Location)
	return nil
}

// PhotoUpdate is a coalesce merge: nil fields keep the stored value.
type PhotoUpdate struct {
	Title         *string
	Caption       *string
	Location      *string
	PeoplePresent *[]string
}

func (u *PhotoUpdate) IsEmpty() bool {
	return u.Title == nil && u.Caption == nil && u.Location == nil && u.PeoplePresent == nil
}

// NormalizePeople trims names, drops blanks and returns nil for an empty list.
func NormalizePeople(names []string) []string {
	var result []string
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			result = append(result, name)
		}
	}
	return result
}

// OptionalString maps blank input to nil.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// RoundRating rounds an average to two decimals.
func RoundRating(avg float64) float64 {
	return math.Round(avg*100) / 100
}

func (p *Photo) SetPeopleFromRows() {
	p.PeoplePresent = nil
	for _, person := range p.People {
		p.PeoplePresent = append(p.PeoplePresent, person.Name)
	}
	if p.AverageRating != nil {
		rounded := RoundRating(*p.AverageRating)
		p.AverageRating = &rounded
	}
}

func (p *Photo) PeopleRows() []PhotoPerson {
	rows := make([]PhotoPerson, 0, len(p.PeoplePresent))
	for i, name := range p.PeoplePresent {
		rows = append(rows, PhotoPerson{PhotoID: p.ID, Position: i, Name: name, NameFolded: Fold(name)})
	}
	return rows
}

// CatalogFilter is the repository-level listing filter. SortBy and SortOrder
// are untrusted and resolved against an allow-list by the repository.
type CatalogFilter struct {
	Limit     int
	Offset    int
	Search    string
	Location  string
	SortBy    string
	SortOrder string
}
