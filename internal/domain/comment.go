package domain

import "time"

// Comment is a child record of an issue.
type Comment struct {
	ID        string
	IssueID   string
	AuthorID  string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time

	Author *UserRef
}
