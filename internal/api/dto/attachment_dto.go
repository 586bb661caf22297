package dto

import "time"

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID        string    `json:"id"`
	IssueID   string    `json:"issueId"`
	FileName  string    `json:"fileName"`
	FileURL   string    `json:"fileUrl"`
	MimeType  string    `json:"mimeType,omitempty"`
	SizeBytes int64     `json:"sizeBytes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
