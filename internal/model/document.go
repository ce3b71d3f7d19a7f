package model

import "time"

// Document represents a stored file and its metadata.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
//
// FileName is the user-facing name the file was uploaded with; FilePath is
// the opaque object-storage key. DownloadCount only ever increases.
type Document struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	FileName      string    `json:"file_name"`
	FilePath      string    `json:"file_path"`
	FileSize      int64     `json:"file_size"`
	MimeType      string    `json:"mime_type"`
	UploadUserID  int64     `json:"upload_user_id"`
	IsPublic      bool      `json:"is_public"`
	Tags          string    `json:"tags"`
	DownloadCount int64     `json:"download_count"`
	CreatedAt     time.Time `json:"created_at"`

	// Uploader is the display name of the owning user, populated by
	// list/search queries that join the users table. Empty elsewhere.
	Uploader string `json:"uploader,omitempty"`
}
