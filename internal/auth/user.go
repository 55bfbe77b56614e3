package auth

import "time"

// User is an account that owns tasks.
type User struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Name           *string   `gorm:"size:100" json:"name"`
	HashedPassword string    `gorm:"not null" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// DisplayName returns the name, or "" when unset.
func (u User) DisplayName() string {
	if u.Name == nil {
		return ""
	}
	return *u.Name
}

// Identity is the authenticated caller carried by a verified token.
type Identity struct {
	UserID string
	Email  string
	Name   string
}
