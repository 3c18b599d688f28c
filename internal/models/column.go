package models

type Column struct {
	BaseModel

	Title    string `gorm:"not null" json:"title"`
	Position int    `gorm:"not null;default:0" json:"position"`
	BoardID  string `gorm:"type:uuid;not null;index" json:"board_id"`

	Tasks []Task `gorm:"constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}
