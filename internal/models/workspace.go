package models

import "gorm.io/datatypes"

// Workspace is the top-level tenant boundary. Projects, members, invites and
// labels hang off it and are removed with it.
type Workspace struct {
	BaseModel

	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Settings    datatypes.JSON `json:"settings,omitempty"`

	Projects    []Project         `gorm:"constraint:OnDelete:CASCADE" json:"projects,omitempty"`
	Memberships []Membership      `gorm:"constraint:OnDelete:CASCADE" json:"memberships,omitempty"`
	Invites     []WorkspaceInvite `gorm:"constraint:OnDelete:CASCADE" json:"invites,omitempty"`
	Labels      []Label           `gorm:"constraint:OnDelete:CASCADE" json:"labels,omitempty"`
}
