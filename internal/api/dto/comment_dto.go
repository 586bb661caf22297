package dto

import "time"

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// UpdateCommentRequest payload.
type UpdateCommentRequest struct {
	Body string `json:"body"`
}

// CommentResponse representation with author populated.
type CommentResponse struct {
	ID        string           `json:"id"`
	IssueID   string           `json:"issueId"`
	Author    *UserRefResponse `json:"authorId"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
