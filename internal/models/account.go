package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a staff member who can sign in. Password holds a bcrypt hash.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string         `gorm:"size:255" json:"name,omitempty"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	// Users without a profile can sign in but are refused by every
	// permission check.
	ProfileID *uint    `gorm:"index" json:"profile_id,omitempty"`
	Profile   *Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

// Profile is a named set of permissions (admin, sales, viewer).
type Profile struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Name        string       `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string       `gorm:"size:500" json:"description,omitempty"`
	IsSystem    bool         `gorm:"default:false" json:"is_system"`
	Permissions []Permission `gorm:"many2many:profile_permissions;" json:"permissions,omitempty"`
}

// Codes lists the profile's permissions as "resource:action".
func (p *Profile) Codes() []string {
	out := make([]string, len(p.Permissions))
	for i, perm := range p.Permissions {
		out[i] = perm.Code()
	}
	return out
}

// Permission allows Action on ResourceType; either may be "*".
type Permission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	ResourceType string    `gorm:"size:50;not null;uniqueIndex:idx_perm_resource_action" json:"resource_type"`
	Action       string    `gorm:"size:50;not null;uniqueIndex:idx_perm_resource_action" json:"action"`
	Description  string    `gorm:"size:200" json:"description,omitempty"`
}

func (p Permission) Code() string { return p.ResourceType + ":" + p.Action }
