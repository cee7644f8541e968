// internal/autosave/autosave.go
package autosave

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"snapmark/internal/persist"
)

// Suffix marks autosave recovery files. The payload is a zstd-compressed
// .ssce document; snapshot images make uncompressed autosaves large enough
// to matter on every timer tick.
const Suffix = ".ssce.zst"

// Entry describes one recovery file, newest first in listings.
type Entry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Original string `json:"original"` // path of the document being edited, if known
	MTime    int64  `json:"mtime"`
}

// Manager writes and recovers autosave files in a single directory.
type Manager struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// envelope wraps the document with the path it was being edited under, so
// recovery can offer "restore to original location".
type envelope struct {
	Original string        `json:"original,omitempty"`
	Document *persist.File `json:"document"`
}

// NewManager creates an autosave manager rooted at dir.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create autosave dir: %w", err)
	}
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	return &Manager{dir: dir, encoder: encoder, decoder: decoder}, nil
}

// Write stores a recovery copy of the document and returns its path.
// originalPath is the document's save location, empty for never-saved
// documents.
func (m *Manager) Write(doc *persist.File, originalPath string) (string, error) {
	data, err := json.Marshal(envelope{Original: originalPath, Document: doc})
	if err != nil {
		return "", fmt.Errorf("marshal autosave: %w", err)
	}

	path := filepath.Join(m.dir, uuid.NewString()+Suffix)
	compressed := m.encoder.EncodeAll(data, nil)
	if err := os.WriteFile(path, compressed, 0644); err != nil {
		return "", fmt.Errorf("write autosave: %w", err)
	}
	return path, nil
}

// Recover loads a recovery file, returning the document and the original
// path it was being edited under.
func (m *Manager) Recover(path string) (*persist.File, string, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read autosave: %w", err)
	}
	data, err := m.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, "", fmt.Errorf("decompress autosave: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, "", fmt.Errorf("parse autosave: %w", err)
	}
	if env.Document == nil {
		return nil, "", fmt.Errorf("autosave has no document")
	}
	return env.Document, env.Original, nil
}

// List returns all recovery files, newest first. A missing directory means
// no recovery files, not an error.
func (m *Manager) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read autosave dir: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), Suffix) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(m.dir, de.Name())
		entries = append(entries, Entry{
			Name:     de.Name(),
			Path:     path,
			Original: m.readOriginal(path),
			MTime:    info.ModTime().Unix(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].MTime > entries[j].MTime })
	return entries, nil
}

// readOriginal decodes just the envelope's original path for listings.
// An unreadable or corrupt file lists with an empty original rather than
// failing the whole listing.
func (m *Manager) readOriginal(path string) string {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	data, err := m.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return ""
	}
	var header struct {
		Original string `json:"original"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return ""
	}
	return header.Original
}

// Remove deletes a recovery file. Removing an already-gone file succeeds.
func (m *Manager) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete autosave: %w", err)
	}
	return nil
}

// Prune deletes recovery files older than maxAge and returns how many were
// removed.
func (m *Manager) Prune(maxAge time.Duration) (int, error) {
	entries, err := m.List()
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-maxAge).Unix()
	removed := 0
	for _, e := range entries {
		if e.MTime < cutoff {
			if err := m.Remove(e.Path); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
