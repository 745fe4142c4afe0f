package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user record in the database.
type User struct {
	ID                      uuid.UUID `gorm:"type:uuid;primary_key"`
	Username                string    `gorm:"not null;size:50"`
	Email                   string    `gorm:"uniqueIndex;not null;size:255"`
	Password                string    `gorm:"not null"`
	PreferredCurrency       string    `gorm:"type:varchar(3);not null;default:'USD'"`
	IsVerified              bool      `gorm:"not null;default:false"`
	PendingEmail            string    `gorm:"size:255"`
	VerificationToken       string    `gorm:"size:64;index"`
	VerificationTokenExpiry *time.Time
	ResetToken              string `gorm:"size:64;index"`
	ResetTokenExpiry        *time.Time
	RefreshToken            string `gorm:"size:512;index"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}
