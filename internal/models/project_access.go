package models

// ProjectAccess scopes a non-owner member's visibility into one project.
// Owners bypass this table entirely.
type ProjectAccess struct {
	BaseModel

	UserID    string `gorm:"type:uuid;not null;uniqueIndex:idx_project_accesses_user_project" json:"user_id"`
	ProjectID string `gorm:"type:uuid;not null;uniqueIndex:idx_project_accesses_user_project" json:"project_id"`
	CanView   bool   `gorm:"not null;default:false" json:"can_view"`
	CanEdit   bool   `gorm:"not null;default:false" json:"can_edit"`
}
