package models

type Label struct {
	BaseModel

	Name        string `gorm:"not null" json:"name"`
	Color       string `json:"color"`
	WorkspaceID string `gorm:"type:uuid;not null;index" json:"workspace_id"`

	Tasks []Task `gorm:"many2many:task_labels;" json:"tasks,omitempty"`
}
