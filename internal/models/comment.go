package models

import (
	"database/sql"
	"time"
)

// Comment represents a comment on a post. PostID and AuthorID are nullable
// at the schema level; the comment pipeline always sets both.
type Comment struct {
	ID       int64         `gorm:"primaryKey;autoIncrement;column:id"`
	PostID   sql.NullInt64 `gorm:"index:comments_ix_post;column:post_id"`
	AuthorID sql.NullInt64 `gorm:"index:comments_ix_author;column:author_id"`
	Text     string        `gorm:"type:text;not null;column:text"`
	Created  time.Time     `gorm:"not null;autoCreateTime;column:created"`

	// Relationships
	Post   *Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Author *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// CommentOrder is the default comment ordering: newest first.
const CommentOrder = "created DESC, id DESC"
