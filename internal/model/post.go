package model

import "time"

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

const DefaultFeaturedImage = "https://via.placeholder.com/800x400"

type Post struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage string     `json:"featuredImage"`
	Status        PostStatus `json:"status"`
	AuthorID      string     `json:"authorId"`
	Author        *AuthorRef `json:"author,omitempty"`
	Categories    []string   `json:"categories"`
	Tags          []string   `json:"tags"`
	Views         int        `json:"views"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (p *Post) OwnerID() string {
	return p.AuthorID
}

func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

type Comment struct {
	ID              string     `json:"id"`
	Content         string     `json:"content"`
	AuthorID        string     `json:"authorId"`
	Author          *AuthorRef `json:"author,omitempty"`
	PostID          string     `json:"postId"`
	IsApproved      bool       `json:"isApproved"`
	ParentCommentID *string    `json:"parentCommentId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (c *Comment) OwnerID() string {
	return c.AuthorID
}
