package models

import (
	"time"
)

// Designation is an informational job-title taxonomy; it never feeds into
// authorization or balance rules.
type Designation struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Name      string        `gorm:"uniqueIndex;not null;size:100" json:"name"`
	ParentID  *uint         `gorm:"index" json:"parent_id"`
	Parent    *Designation  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children  []Designation `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}
