package types

import "time"

// Question is a topic posted by a user. AuthorName carries the author's
// username when the question was loaded with a join; it is not a column of
// the questions table.
type Question struct {
	ID         int       `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Content    string    `json:"content" db:"content"`
	AuthorID   int       `json:"author_id" db:"author_id"`
	AuthorName string    `json:"author_name,omitempty" db:"-"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
