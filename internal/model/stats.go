package model

type DashboardCounts struct {
	TotalUsers       int `json:"totalUsers"`
	TotalPosts       int `json:"totalPosts"`
	PublishedPosts   int `json:"publishedPosts"`
	DraftPosts       int `json:"draftPosts"`
	TotalComments    int `json:"totalComments"`
	ApprovedComments int `json:"approvedComments"`
	PendingComments  int `json:"pendingComments"`
}

type TopAuthorRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TopAuthor struct {
	Author         TopAuthorRef `json:"author"`
	PostCount      int          `json:"postCount"`
	PublishedCount int          `json:"publishedCount"`
}

type DashboardStats struct {
	Stats       DashboardCounts `json:"stats"`
	TopAuthors  []TopAuthor     `json:"topAuthors"`
	RecentPosts []*Post         `json:"recentPosts"`
}
