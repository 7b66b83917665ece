package models

import (
	"time"

	"github.com/lib/pq"
)

// Post is a user publication. Tags and likes are stored as arrays, matching
// the document-style shape of the API.
type Post struct {
	ID        int            `db:"id" json:"_id"`
	Title     string         `db:"title" json:"title"`
	Content   string         `db:"content" json:"content"`
	CreatorID int            `db:"creator_id" json:"creator"`
	Tags      pq.StringArray `db:"tags" json:"tags"`
	File      string         `db:"file" json:"file"`
	Likes     pq.Int64Array  `db:"likes" json:"likes"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}

// Liked reports whether userID is in the post's like set.
func (p Post) Liked(userID int) bool {
	for _, id := range p.Likes {
		if int(id) == userID {
			return true
		}
	}
	return false
}

// Comment belongs to a post.
type Comment struct {
	ID        int       `db:"id" json:"_id"`
	PostID    int       `db:"post_id" json:"postId"`
	UserID    int       `db:"user_id" json:"userId"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
