package models

import (
	"time"
)

// User is the local identity row for an account owned by the external
// identity provider. Credentials are never stored here.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Username  string    `gorm:"type:varchar(150);not null;uniqueIndex:users_ux1;column:username"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
