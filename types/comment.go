package types

import "time"

// Comment is a reply attached to a question. Like Question.AuthorName,
// AuthorName is populated from a join, not stored.
type Comment struct {
	ID         int       `json:"id" db:"id"`
	Content    string    `json:"content" db:"content"`
	QuestionID int       `json:"question_id" db:"question_id"`
	AuthorID   int       `json:"author_id" db:"author_id"`
	AuthorName string    `json:"author_name,omitempty" db:"-"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
