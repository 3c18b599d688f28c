package models

type Project struct {
	BaseModel

	Title       string `gorm:"not null" json:"title"`
	WorkspaceID string `gorm:"type:uuid;not null;index" json:"workspace_id"`

	Boards   []Board         `gorm:"constraint:OnDelete:CASCADE" json:"boards,omitempty"`
	Accesses []ProjectAccess `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
