package api

import (
	"encoding/json"
	"time"

	"github.com/yatube/yatube/internal/feed"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/posts"
	"github.com/yatube/yatube/internal/storage"
)

type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type groupView struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type postView struct {
	ID      int64      `json:"id"`
	Text    string     `json:"text"`
	PubDate time.Time  `json:"pub_date"`
	Author  *userView  `json:"author"`
	Group   *groupView `json:"group"`
	Image   string     `json:"image,omitempty"`
}

type commentView struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
	Author  *userView `json:"author"`
}

type pageView struct {
	Number      int   `json:"number"`
	PageSize    int   `json:"page_size"`
	Count       int64 `json:"count"`
	NumPages    int   `json:"num_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

type feedView struct {
	Posts []postView `json:"posts"`
	Page  pageView   `json:"page"`
	Group *groupView `json:"group,omitempty"`
}

type profileView struct {
	feedView
	Author         *userView `json:"author"`
	PostCount      int64     `json:"post_count"`
	Following      bool      `json:"following"`
	FollowingCount int64     `json:"following_count"`
	FollowersCount int64     `json:"followers_count"`
}

type formView struct {
	Post   *postView   `json:"post,omitempty"`
	Groups []groupView `json:"groups"`
	IsEdit bool        `json:"is_edit"`
}

type detailView struct {
	Post            postView      `json:"post"`
	AuthorPostCount int64         `json:"author_post_count"`
	Comments        []commentView `json:"comments"`
}

// views converts models into response bodies
type views struct {
	files storage.Store
}

func (v *views) user(u *models.User) *userView {
	if u == nil {
		return nil
	}
	return &userView{ID: u.ID, Username: u.Username}
}

func (v *views) group(g *models.Group) *groupView {
	if g == nil {
		return nil
	}
	return &groupView{ID: g.ID, Title: g.Title, Slug: g.Slug, Description: g.Description}
}

func (v *views) post(p *models.Post) postView {
	out := postView{
		ID:      p.ID,
		Text:    p.Text,
		PubDate: p.PubDate,
		Author:  v.user(p.Author),
		Group:   v.group(p.Group),
	}
	if p.Image.Valid && v.files != nil {
		out.Image = v.files.URL(p.Image.String)
	}
	return out
}

func (v *views) comment(c *models.Comment) commentView {
	return commentView{ID: c.ID, Text: c.Text, Created: c.Created, Author: v.user(c.Author)}
}

func (v *views) feed(res *feed.Result) feedView {
	out := feedView{
		Posts: make([]postView, 0, len(res.Page.Items)),
		Page: pageView{
			Number:      res.Page.Number,
			PageSize:    res.Page.PageSize,
			Count:       res.Page.Total,
			NumPages:    res.Page.NumPages,
			HasNext:     res.Page.HasNext,
			HasPrevious: res.Page.HasPrevious,
		},
		Group: v.group(res.Group),
	}
	for i := range res.Page.Items {
		out.Posts = append(out.Posts, v.post(&res.Page.Items[i]))
	}
	return out
}

func (v *views) profile(res *feed.Result) profileView {
	return profileView{
		feedView:       v.feed(res),
		Author:         v.user(res.Author),
		PostCount:      res.AuthorPostCount,
		Following:      res.Following,
		FollowingCount: res.FollowingCount,
		FollowersCount: res.FollowersCount,
	}
}

func (v *views) form(f *posts.Form) formView {
	out := formView{
		Groups: make([]groupView, 0, len(f.Groups)),
		IsEdit: f.Post != nil,
	}
	for i := range f.Groups {
		out.Groups = append(out.Groups, *v.group(&f.Groups[i]))
	}
	if f.Post != nil {
		p := v.post(f.Post)
		out.Post = &p
	}
	return out
}

func (v *views) detail(d *posts.Detail) detailView {
	out := detailView{
		Post:            v.post(d.Post),
		AuthorPostCount: d.AuthorPostCount,
		Comments:        make([]commentView, 0, len(d.Comments)),
	}
	for i := range d.Comments {
		out.Comments = append(out.Comments, v.comment(&d.Comments[i]))
	}
	return out
}

// renderFeed is the home feed renderer; its output is what the page cache stores
func (v *views) renderFeed(res *feed.Result) ([]byte, error) {
	return json.Marshal(v.feed(res))
}
