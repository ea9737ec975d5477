package storage

import "time"

// Document is a registry entry for an ingested file. Filenames are unique
// within the registry; the registry is the source of truth for what has been
// ingested, independent of the similarity index.
type Document struct {
	Filename   string    `json:"filename"`
	UploadTime time.Time `json:"upload_time"`
	ChunkCount int       `json:"chunks"`
}
