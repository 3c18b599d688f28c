package models

// User is a registered account. Workspace standing lives on Membership rows.
type User struct {
	BaseModel

	Username  string `gorm:"uniqueIndex;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`

	Memberships []Membership `gorm:"constraint:OnDelete:CASCADE" json:"memberships,omitempty"`
}
