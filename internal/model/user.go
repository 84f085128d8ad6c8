package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"default:user" json:"role"`
	Verified     bool      `gorm:"default:false" json:"email_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`

	VerificationTokens []VerificationToken `gorm:"foreignKey:UserID" json:"-"`
	Questions          []Question          `gorm:"foreignKey:UserID" json:"-"`
	Answers            []Answer            `gorm:"foreignKey:UserID" json:"-"`
}
