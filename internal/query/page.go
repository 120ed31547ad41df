package query

import (
	"math"
	"net/url"
	"strconv"
)

const (
	DefaultPostsLimit      = 10
	DefaultMyPostsLimit    = 10
	DefaultCommentsLimit   = 10
	DefaultModerationLimit = 20
	DefaultAdminPostsLimit = 50
	DefaultUsersLimit      = 10
	MaxLimit               = 100

	// MaxPage keeps page*limit within int range for every allowed limit.
	MaxPage = math.MaxInt / MaxLimit
)

type Page struct {
	Page  int
	Limit int
}

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// ParsePage reads page and limit from the query string. Missing, non-numeric
// and non-positive values fall back to page 1 and defaultLimit.
func ParsePage(values url.Values, defaultLimit int) Page {
	return NewPage(atoiOrZero(values.Get("page")), atoiOrZero(values.Get("limit")), defaultLimit)
}

func NewPage(page, limit, defaultLimit int) Page {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Skip() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Paginate computes next/prev links from the total matched under the same
// filter as the page itself.
func (p Page) Paginate(total int) Pagination {
	var pagination Pagination
	if p.Skip()+p.Limit < total {
		pagination.Next = &PageRef{Page: p.Page + 1, Limit: p.Limit}
	}
	if p.Skip() > 0 {
		pagination.Prev = &PageRef{Page: p.Page - 1, Limit: p.Limit}
	}
	return pagination
}

// Slice applies the page window to an already filtered and sorted slice.
func Slice[T any](items []T, p Page) []T {
	start := p.Skip()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := min(start+p.Limit, len(items))
	return items[start:end]
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
