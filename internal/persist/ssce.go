// internal/persist/ssce.go
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"snapmark/internal/document"
	"snapmark/internal/snapshot"
)

// Extension is the document file extension.
const Extension = ".ssce"

// Size is a serialized canvas size.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// File is the on-disk document shape. FrontMatter is carried through
// verbatim; the engine never interprets it. Snapshots are persisted exactly
// as captured.
type File struct {
	Version     int                 `json:"version"`
	Layers      []document.Layer    `json:"layers"`
	CanvasSize  Size                `json:"canvasSize"`
	FrontMatter json.RawMessage     `json:"frontMatter,omitempty"`
	Keywords    []string            `json:"keywords,omitempty"`
	Thumbnail   string              `json:"thumbnail,omitempty"`
	Snapshots   []snapshot.Snapshot `json:"snapshots,omitempty"`
}

// Load reads and parses a document file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	f := &File{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return f, nil
}

// Save writes a document file, creating parent directories as needed.
func Save(path string, f *File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// Metadata is the cheap subset read for thumbnails and library cards.
type Metadata struct {
	Thumbnail     string `json:"thumbnail"`
	SnapshotCount int    `json:"snapshot_count"`
}

// ReadMetadata extracts the thumbnail and snapshot count from a document
// file. A missing file yields empty metadata, not an error, so stale
// library rows render as blank cards instead of failing the listing.
func ReadMetadata(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Metadata{}, nil
		}
		return Metadata{}, fmt.Errorf("read document: %w", err)
	}

	var partial struct {
		Thumbnail string            `json:"thumbnail"`
		Snapshots []json.RawMessage `json:"snapshots"`
	}
	if err := json.Unmarshal(data, &partial); err != nil {
		return Metadata{}, fmt.Errorf("parse document: %w", err)
	}
	return Metadata{Thumbnail: partial.Thumbnail, SnapshotCount: len(partial.Snapshots)}, nil
}

// IndexFields is what the library indexer extracts from a document file.
// Title, summary and modified live inside the front matter; this is the one
// place outside the frontend that looks into it, and only at these three
// well-known keys.
type IndexFields struct {
	Filename      string
	Title         string
	Summary       string
	Keywords      []string
	Modified      string
	Thumbnail     string
	SnapshotCount int
}

// ReadIndexFields extracts the searchable fields from a document file for
// the library index.
func ReadIndexFields(path string) (IndexFields, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return IndexFields{}, fmt.Errorf("read document: %w", err)
	}

	var partial struct {
		Thumbnail   string            `json:"thumbnail"`
		Keywords    []string          `json:"keywords"`
		Snapshots   []json.RawMessage `json:"snapshots"`
		FrontMatter struct {
			Title    string `json:"title"`
			Summary  string `json:"summary"`
			Modified string `json:"modified"`
		} `json:"frontMatter"`
	}
	if err := json.Unmarshal(data, &partial); err != nil {
		return IndexFields{}, fmt.Errorf("parse document: %w", err)
	}

	return IndexFields{
		Filename:      filepath.Base(path),
		Title:         partial.FrontMatter.Title,
		Summary:       partial.FrontMatter.Summary,
		Keywords:      partial.Keywords,
		Modified:      partial.FrontMatter.Modified,
		Thumbnail:     partial.Thumbnail,
		SnapshotCount: len(partial.Snapshots),
	}, nil
}
