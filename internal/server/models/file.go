package models

import "time"

// File links a stored blob to the case it was attached to.
type File struct {
	ID string `json:"id"`
	// UploadedByID is the id of the user who uploaded the file.
	UploadedByID string `json:"uploadedById"`
	// OriginalName is the client-side filename.
	OriginalName string `json:"originalName"`
	// Name is the object-storage key of the blob.
	Name       string    `json:"name"`
	LinkedToID string    `json:"linkedToId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FileMetadata describes a stored blob. Size is a decimal string and
// TimeCreated is RFC 3339.
type FileMetadata struct {
	MediaLink    string `json:"mediaLink"`
	Name         string `json:"name"`
	OriginalName string `json:"originalName,omitempty"`
	TimeCreated  string `json:"timeCreated"`
	Size         string `json:"size"`
}
