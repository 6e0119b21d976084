package models

// Typed views over the raw JSON records the paginated endpoints emit.
// Records are decoded on demand from the raw page items, so unrequested
// fields cost nothing and schema additions on the server side are ignored.

// Illust represents one illustration record from the illusts list.
type Illust struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Type           string `json:"type"`
	Caption        string `json:"caption"`
	PageCount      int    `json:"page_count"`
	TotalViews     int    `json:"total_view"`
	TotalBookmarks int    `json:"total_bookmarks"`
	User           struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Account string `json:"account"`
	} `json:"user"`
}

// Comment represents one comment record on an illustration.
type Comment struct {
	ID      int64  `json:"id"`
	Comment string `json:"comment"`
	Date    string `json:"date"`
	User    struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Account string `json:"account"`
	} `json:"user"`
}

// BookmarkTag represents one tag in a user's bookmark tag list.
type BookmarkTag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SpotlightArticle represents one editorial article record.
type SpotlightArticle struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ArticleURL  string `json:"article_url"`
	PublishDate string `json:"publish_date"`
	Category    string `json:"category"`
}
