package models

import "time"

type Task struct {
	BaseModel

	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ColumnID    string     `gorm:"type:uuid;not null;index" json:"column_id"`
	AssignedTo  *string    `gorm:"type:uuid" json:"assigned_to,omitempty"`
	CreatedByID string     `gorm:"type:uuid" json:"created_by_id,omitempty"`

	Assignee *User     `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL" json:"assignee,omitempty"`
	Comments []Comment `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Labels   []Label   `gorm:"many2many:task_labels;" json:"labels,omitempty"`
}
