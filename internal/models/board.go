package models

type Board struct {
	BaseModel

	Title     string `gorm:"not null" json:"title"`
	ProjectID string `gorm:"type:uuid;not null;index" json:"project_id"`

	Columns []Column `gorm:"constraint:OnDelete:CASCADE" json:"columns,omitempty"`
}
