package domain

import "time"

// Attachment stores metadata for a file uploaded against an issue. The file
// itself lives on disk under the configured upload directory.
type Attachment struct {
	ID        string
	IssueID   string
	FileName  string
	FileURL   string
	MimeType  string
	SizeBytes int64
	CreatedAt time.Time
}
