package models

// WorkspaceInvite is a revocable join token scoped to one workspace. At most
// one invite per workspace is active at a time; creating a new one supersedes
// the rest.
type WorkspaceInvite struct {
	BaseModel

	Token       string `gorm:"uniqueIndex;not null" json:"token"`
	WorkspaceID string `gorm:"type:uuid;not null;index" json:"workspace_id"`
	CreatedByID string `gorm:"type:uuid;not null" json:"created_by_id"`
	IsActive    bool   `gorm:"not null;default:true;index" json:"is_active"`
	UsedCount   int    `gorm:"not null;default:0" json:"used_count"`

	Workspace *Workspace `gorm:"constraint:OnDelete:CASCADE" json:"workspace,omitempty"`
	Creator   *User      `gorm:"foreignKey:CreatedByID" json:"creator,omitempty"`
}
