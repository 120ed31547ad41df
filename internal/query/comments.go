package query

import "github.com/2beens/blogpress/internal/model"

type CommentFilter struct {
	PostID   string
	AuthorID string
	Approved *bool
}

type CommentQuery struct {
	PostID   string
	AuthorID string
	Approved *bool
	Page     Page
}

// BuildCommentQuery carries no mandatory filter: public listings set
// Approved themselves and moderation listings are admin gated.
func BuildCommentQuery(declared CommentFilter, page Page) CommentQuery {
	return CommentQuery{
		PostID:   declared.PostID,
		AuthorID: declared.AuthorID,
		Approved: declared.Approved,
		Page:     page,
	}
}

func (q CommentQuery) Where() *Where {
	w := &Where{}
	if q.PostID != "" {
		w.Eq("post_id", q.PostID)
	}
	if q.AuthorID != "" {
		w.Eq("author_id", q.AuthorID)
	}
	if q.Approved != nil {
		w.Eq("is_approved", *q.Approved)
	}
	return w
}

func (q CommentQuery) Matches(c *model.Comment) bool {
	if q.PostID != "" && c.PostID != q.PostID {
		return false
	}
	if q.AuthorID != "" && c.AuthorID != q.AuthorID {
		return false
	}
	if q.Approved != nil && c.IsApproved != *q.Approved {
		return false
	}
	return true
}

type UserQuery struct {
	Role model.Role
	Page Page
}

func (q UserQuery) Where() *Where {
	w := &Where{}
	if q.Role != "" {
		w.Eq("role", string(q.Role))
	}
	return w
}

func (q UserQuery) Matches(u *model.User) bool {
	return q.Role == "" || u.Role == q.Role
}
