package models

import (
	"time"
)

type User struct {
	ID           string    `bson:"_id" json:"id" db:"id"`
	Email        string    `bson:"email" json:"email" db:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-" db:"password_hash"` // never expose
	FullName     string    `bson:"fullName,omitempty" json:"fullName,omitempty" db:"full_name"`
	Username     string    `bson:"username,omitempty" json:"username,omitempty" db:"username"`
	IsActive     bool      `bson:"isActive" json:"isActive" db:"is_active"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt" db:"updated_at"`
}

// PasswordReset is a pending reset request. Only the token hash is kept.
type PasswordReset struct {
	ID        string     `bson:"_id" db:"id"`
	UserID    string     `bson:"userId" db:"user_id"`
	TokenHash string     `bson:"tokenHash" db:"token_hash"`
	ExpiresAt time.Time  `bson:"expiresAt" db:"expires_at"`
	CreatedAt time.Time  `bson:"createdAt" db:"created_at"`
	UsedAt    *time.Time `bson:"usedAt,omitempty" db:"used_at"`
}
