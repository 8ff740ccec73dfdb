package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	Name      string  `gorm:"size:100;not null" json:"name"`
	Email     string  `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Password  string  `gorm:"size:255;not null" json:"-"`
	Phone     *string `gorm:"size:32" json:"phone,omitempty"`
	Role      Role    `gorm:"size:16;not null;default:USER" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// Caller is the identity resolved for an inbound request. The zero value is anonymous.
type Caller struct {
	UserID string
	Email  string
	Name   string
	Role   Role
}

func (c Caller) IsAnonymous() bool {
	return c.UserID == ""
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
