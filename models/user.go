package models

type Role string

const (
	RoleCreator  Role = "creator"
	RoleConsumer Role = "consumer"
)

// User is provisioned outside of this service (sign-up and login live elsewhere).
// Only the display fields and the role claim are used here.
type User struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"-"`
	Username  string `gorm:"type:varchar(100);index:uniq_username,unique;not null" json:"username"`
	FullName  string `gorm:"type:varchar(200)" json:"full_name"`
	Role      Role   `gorm:"type:varchar(20);not null" json:"role"`
}

func (u *User) HasRole(required []Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, role := range required {
		if u.Role == role {
			return true
		}
	}
	return false
}
