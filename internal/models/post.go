package models

import (
	"database/sql"
	"time"
)

// Post represents a blog post
type Post struct {
	ID       int64          `gorm:"primaryKey;autoIncrement;column:id;index:posts_ix_pub,priority:2,sort:desc"`
	Text     string         `gorm:"type:text;not null;column:text"`
	PubDate  time.Time      `gorm:"not null;autoCreateTime;column:pub_date;index:posts_ix_pub,priority:1,sort:desc"`
	AuthorID int64          `gorm:"not null;index:posts_ix_author;column:author_id"`
	GroupID  sql.NullInt64  `gorm:"index:posts_ix_group;column:group_id"`
	Image    sql.NullString `gorm:"type:varchar(1024);column:image"`

	// Relationships
	Author *User  `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Group  *Group `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:SET NULL"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// PostOrder is the default post ordering: newest first, ties broken by id.
const PostOrder = "pub_date DESC, id DESC"
