// Package feed turns a scope and a page number into an ordered page of posts.
package feed

import "fmt"

// Kind selects which posts a feed contains
type Kind int

const (
	// Global lists every post
	Global Kind = iota
	// ByGroup lists the posts of one group
	ByGroup
	// ByAuthor lists the posts of one user
	ByAuthor
	// Following lists the posts of every author a user follows
	Following
)

func (k Kind) String() string {
	switch k {
	case Global:
		return "global"
	case ByGroup:
		return "group"
	case ByAuthor:
		return "author"
	case Following:
		return "following"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Scope identifies a feed. ViewerID is the signed-in caller, zero when
// anonymous; for Following it is also the follower.
type Scope struct {
	Kind     Kind
	Slug     string
	Username string
	ViewerID int64
}

// GlobalScope is the home feed
func GlobalScope() Scope {
	return Scope{Kind: Global}
}

// GroupScope is the feed of the group with the given slug
func GroupScope(slug string) Scope {
	return Scope{Kind: ByGroup, Slug: slug}
}

// AuthorScope is the profile feed of username as seen by viewerID
func AuthorScope(username string, viewerID int64) Scope {
	return Scope{Kind: ByAuthor, Username: username, ViewerID: viewerID}
}

// FollowingScope is the personal feed of userID
func FollowingScope(userID int64) Scope {
	return Scope{Kind: Following, ViewerID: userID}
}
