package models

import "time"

// MaterialKind distinguishes uploaded study materials.
type MaterialKind string

const (
	MaterialKindNote  MaterialKind = "NOTE"
	MaterialKindVideo MaterialKind = "VIDEO"
)

// Material is an uploaded note or video owned by a teacher.
type Material struct {
	ID         string       `db:"id" json:"id"`
	OwnerID    string       `db:"owner_id" json:"owner_id"`
	Title      string       `db:"title" json:"title"`
	Kind       MaterialKind `db:"kind" json:"kind"`
	Filename   string       `db:"filename" json:"filename"`
	StoredPath string       `db:"stored_path" json:"-"`
	MimeType   string       `db:"mime_type" json:"mime_type"`
	SizeBytes  int64        `db:"size_bytes" json:"size_bytes"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}

// MaterialFilter narrows material listings.
type MaterialFilter struct {
	Kind    MaterialKind
	OwnerID string
}
