package model

import "time"

// AdminSingletonID is the fixed primary key of the only admin record.
const AdminSingletonID uint = 1

// AdminUser holds the credentials controlling access to the admin panel.
// Exactly one row exists, keyed by AdminSingletonID.
type AdminUser struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
