package models

type Comment struct {
	BaseModel

	TaskID  string `gorm:"type:uuid;not null;index" json:"task_id"`
	UserID  string `gorm:"type:uuid;not null;index" json:"user_id"`
	Content string `gorm:"not null" json:"content"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
