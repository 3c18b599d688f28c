package models

// Membership binds a user to a workspace with a role and override flags.
// The composite unique index is what makes concurrent joins collapse to a
// single row.
type Membership struct {
	BaseModel

	UserID      string `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_workspace" json:"user_id"`
	WorkspaceID string `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_workspace" json:"workspace_id"`
	Role        Role   `gorm:"not null;default:participant" json:"role"`

	CanCreateProjects bool `gorm:"not null;default:false" json:"can_create_projects"`
	CanInviteUsers    bool `gorm:"not null;default:false" json:"can_invite_users"`

	User      *User      `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Workspace *Workspace `gorm:"constraint:OnDelete:CASCADE" json:"workspace,omitempty"`
}
