package models

import (
	"time"
)

// Follow is a directed edge: UserID receives AuthorID's posts in their
// following feed. The (user_id, author_id) pair is unique.
type Follow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;uniqueIndex:follows_ux1,priority:1;column:user_id"`
	AuthorID  int64     `gorm:"not null;uniqueIndex:follows_ux1,priority:2;index:follows_ix_author;column:author_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	User   *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Author *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}
