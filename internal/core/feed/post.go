package feed

import "time"

// postsTable is the record-service table holding posts.
const postsTable = "posts"

// Post is a persisted feed entry. The id and creation timestamp are assigned
// by the record service; image paths are immutable once the post exists.
type Post struct {
	ID        int64     `json:"id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"created_at"`
}
