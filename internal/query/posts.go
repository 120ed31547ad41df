package query

import (
	"slices"
	"strings"

	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/policy"
)

// PostFilter is what the caller asked for.
type PostFilter struct {
	Search   string
	Status   model.PostStatus
	AuthorID string
	Category string
}

// PostQuery is the effective query: caller filters merged with the policy's
// mandatory filter. Count and page fetch must both use the same value.
type PostQuery struct {
	Search   string
	Status   model.PostStatus
	AuthorID string
	Category string
	Page     Page
}

func BuildPostQuery(declared PostFilter, mandatory policy.MandatoryFilter, page Page) PostQuery {
	q := PostQuery{
		Search:   strings.TrimSpace(declared.Search),
		AuthorID: declared.AuthorID,
		Category: declared.Category,
		Page:     page,
	}
	if mandatory.Restricted() {
		q.Status = mandatory.Status
	} else if declared.Status.Valid() {
		q.Status = declared.Status
	}
	return q
}

// Where renders the post predicates against the posts table.
func (q PostQuery) Where() *Where {
	w := &Where{}
	if q.Status != "" {
		w.Eq("status", string(q.Status))
	}
	if q.AuthorID != "" {
		w.Eq("author_id", q.AuthorID)
	}
	if q.Category != "" {
		w.HasElement("categories", q.Category)
	}
	if q.Search != "" {
		w.SearchAny(q.Search, []string{"title", "content"}, []string{"tags"})
	}
	return w
}

// Matches evaluates the same predicates in memory.
func (q PostQuery) Matches(p *model.Post) bool {
	if q.Status != "" && p.Status != q.Status {
		return false
	}
	if q.AuthorID != "" && p.AuthorID != q.AuthorID {
		return false
	}
	if q.Category != "" && !slices.Contains(p.Categories, q.Category) {
		return false
	}
	if q.Search != "" {
		term := strings.ToLower(q.Search)
		if !containsFold(p.Title, term) && !containsFold(p.Content, term) &&
			!slices.ContainsFunc(p.Tags, func(tag string) bool { return containsFold(tag, term) }) {
			return false
		}
	}
	return true
}

func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}
