package models

import "time"

// Post is a feed entry. Counters default to zero.
type Post struct {
	ID        string    `db:"id" json:"id"`
	AuthorID  string    `db:"author_id" json:"author_id"`
	Content   string    `db:"content" json:"content"`
	ImageURL  *string   `db:"image_url" json:"image_url,omitempty"`
	Likes     int       `db:"likes" json:"likes"`
	Comments  int       `db:"comments" json:"comments"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PostView resolves the author name at read time.
type PostView struct {
	Post
	AuthorName *string `db:"author_name" json:"author_name,omitempty"`
}
