// internal/library/models.go
package library

import "os"

// File is one indexed document in the library.
type File struct {
	ID            int64  `json:"id"`
	Path          string `json:"path"`
	Filename      string `json:"filename"`
	Thumbnail     string `json:"thumbnail,omitempty"`
	Title         string `json:"title,omitempty"`
	Summary       string `json:"summary,omitempty"`
	Keywords      string `json:"keywords,omitempty"`
	Modified      string `json:"modified,omitempty"`
	LastOpened    string `json:"last_opened,omitempty"`
	SnapshotCount int    `json:"snapshot_count"`
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
