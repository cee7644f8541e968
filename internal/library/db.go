// internal/library/db.go
package library

import (
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"snapmark/internal/persist"
)

// Library is the SQLite index over the user's document folder, backing the
// start screen's recent list and full-text search.
type Library struct {
	db *sql.DB
}

// Open creates or opens the library database at the given path.
func Open(path string) (*Library, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	l := &Library{db: db}
	if err := l.init(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// init creates the files table, the FTS5 search table, and the triggers
// that keep them in sync.
func (l *Library) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		id INTEGER PRIMARY KEY,
		path TEXT UNIQUE NOT NULL,
		filename TEXT NOT NULL,
		thumbnail TEXT,
		title TEXT,
		summary TEXT,
		keywords TEXT,
		modified TEXT,
		last_opened TEXT,
		snapshot_count INTEGER DEFAULT 0
	);

	CREATE VIRTUAL TABLE IF NOT EXISTS files_fts USING fts5(
		filename,
		title,
		summary,
		keywords,
		content='files',
		content_rowid='id'
	);

	CREATE TRIGGER IF NOT EXISTS files_ai AFTER INSERT ON files BEGIN
		INSERT INTO files_fts(rowid, filename, title, summary, keywords)
		VALUES (new.id, new.filename, new.title, new.summary, new.keywords);
	END;

	CREATE TRIGGER IF NOT EXISTS files_ad AFTER DELETE ON files BEGIN
		INSERT INTO files_fts(files_fts, rowid, filename, title, summary, keywords)
		VALUES ('delete', old.id, old.filename, old.title, old.summary, old.keywords);
	END;

	CREATE TRIGGER IF NOT EXISTS files_au AFTER UPDATE ON files BEGIN
		INSERT INTO files_fts(files_fts, rowid, filename, title, summary, keywords)
		VALUES ('delete', old.id, old.filename, old.title, old.summary, old.keywords);
		INSERT INTO files_fts(rowid, filename, title, summary, keywords)
		VALUES (new.id, new.filename, new.title, new.summary, new.keywords);
	END;
	`
	_, err := l.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (l *Library) Close() error {
	return l.db.Close()
}

// Upsert adds or updates a file row, keyed by path.
func (l *Library) Upsert(file *File) error {
	_, err := l.db.Exec(`
		INSERT INTO files (path, filename, thumbnail, title, summary, keywords, modified, last_opened, snapshot_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			filename = excluded.filename,
			thumbnail = excluded.thumbnail,
			title = excluded.title,
			summary = excluded.summary,
			keywords = excluded.keywords,
			modified = excluded.modified,
			last_opened = excluded.last_opened,
			snapshot_count = excluded.snapshot_count`,
		file.Path, file.Filename, file.Thumbnail, file.Title, file.Summary,
		file.Keywords, file.Modified, file.LastOpened, file.SnapshotCount)
	return err
}

// Remove deletes a file row by path.
func (l *Library) Remove(path string) error {
	_, err := l.db.Exec("DELETE FROM files WHERE path = ?", path)
	return err
}

// TouchOpened updates the last_opened timestamp for a path.
func (l *Library) TouchOpened(path, timestamp string) error {
	_, err := l.db.Exec("UPDATE files SET last_opened = ? WHERE path = ?", timestamp, path)
	return err
}

const fileColumns = `id, path, filename, thumbnail, title, summary, keywords, modified, last_opened, snapshot_count`

// Recent returns files ordered by last_opened, newest first.
func (l *Library) Recent(limit int) ([]*File, error) {
	rows, err := l.db.Query(`
		SELECT `+fileColumns+`
		FROM files
		WHERE last_opened IS NOT NULL AND last_opened != ''
		ORDER BY last_opened DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFiles(rows)
}

// SearchParams filters a library search. An empty Query lists everything,
// date bounds apply to the document's modified timestamp.
type SearchParams struct {
	Query    string `json:"query"`
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
	Limit    int    `json:"limit"`
}

// Search runs a full-text search with optional date filters. Query terms
// are prefix-matched, so partial words find documents as the user types.
func (l *Library) Search(params SearchParams) ([]*File, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	var sb strings.Builder
	var args []interface{}

	query := strings.TrimSpace(params.Query)
	if query != "" {
		terms := strings.Fields(query)
		for i, term := range terms {
			terms[i] = escapeFTSTerm(term) + "*"
		}
		sb.WriteString(`
			SELECT f.id, f.path, f.filename, f.thumbnail, f.title, f.summary, f.keywords, f.modified, f.last_opened, f.snapshot_count
			FROM files f
			JOIN files_fts fts ON f.id = fts.rowid
			WHERE files_fts MATCH ?`)
		args = append(args, strings.Join(terms, " "))
	} else {
		sb.WriteString(`
			SELECT ` + fileColumns + `
			FROM files
			WHERE 1=1`)
	}

	if params.FromDate != "" {
		sb.WriteString(" AND modified >= ?")
		args = append(args, params.FromDate)
	}
	if params.ToDate != "" {
		sb.WriteString(" AND modified <= ?")
		args = append(args, params.ToDate)
	}
	sb.WriteString(" ORDER BY modified DESC LIMIT ?")
	args = append(args, limit)

	rows, err := l.db.Query(sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFiles(rows)
}

// escapeFTSTerm quotes a term so user input cannot inject FTS5 syntax.
func escapeFTSTerm(term string) string {
	return `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
}

// RebuildFromFolder scans a folder recursively for document files, indexes
// them all, and removes rows whose files no longer exist. Returns the
// number of files indexed. During a rebuild the modified date doubles as
// last_opened so existing documents still show under Recent.
func (l *Library) RebuildFromFolder(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), persist.Extension) {
			return nil
		}

		fields, err := persist.ReadIndexFields(path)
		if err != nil {
			// Skip unreadable documents; a half-written autosave must not
			// abort the whole rebuild.
			return nil
		}

		file := &File{
			Path:          path,
			Filename:      fields.Filename,
			Thumbnail:     fields.Thumbnail,
			Title:         fields.Title,
			Summary:       fields.Summary,
			Keywords:      strings.Join(fields.Keywords, " "),
			Modified:      fields.Modified,
			SnapshotCount: fields.SnapshotCount,
		}
		if err := l.upsertPreservingLastOpened(file); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("scan library folder: %w", err)
	}

	if err := l.removeStale(); err != nil {
		return count, err
	}
	return count, nil
}

// IndexPath refreshes the index row for a single document file. A file
// that no longer exists is removed from the index instead.
func (l *Library) IndexPath(path string) error {
	fields, err := persist.ReadIndexFields(path)
	if err != nil {
		if !fileExists(path) {
			return l.Remove(path)
		}
		return fmt.Errorf("index %s: %w", path, err)
	}

	return l.upsertPreservingLastOpened(&File{
		Path:          path,
		Filename:      fields.Filename,
		Thumbnail:     fields.Thumbnail,
		Title:         fields.Title,
		Summary:       fields.Summary,
		Keywords:      strings.Join(fields.Keywords, " "),
		Modified:      fields.Modified,
		SnapshotCount: fields.SnapshotCount,
	})
}

// upsertPreservingLastOpened indexes a scanned file without clobbering an
// existing last_opened value.
func (l *Library) upsertPreservingLastOpened(file *File) error {
	_, err := l.db.Exec(`
		INSERT INTO files (path, filename, thumbnail, title, summary, keywords, modified, last_opened, snapshot_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			filename = excluded.filename,
			thumbnail = excluded.thumbnail,
			title = excluded.title,
			summary = excluded.summary,
			keywords = excluded.keywords,
			modified = excluded.modified,
			last_opened = COALESCE(files.last_opened, excluded.last_opened),
			snapshot_count = excluded.snapshot_count`,
		file.Path, file.Filename, file.Thumbnail, file.Title, file.Summary,
		file.Keywords, file.Modified, file.Modified, file.SnapshotCount)
	return err
}

// removeStale deletes rows whose files no longer exist on disk.
func (l *Library) removeStale() error {
	rows, err := l.db.Query("SELECT id, path FROM files")
	if err != nil {
		return err
	}
	defer rows.Close()

	var stale []int64
	for rows.Next() {
		var id int64
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			return err
		}
		if !fileExists(path) {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range stale {
		if _, err := l.db.Exec("DELETE FROM files WHERE id = ?", id); err != nil {
			return err
		}
	}
	return nil
}

func scanFiles(rows *sql.Rows) ([]*File, error) {
	var files []*File
	for rows.Next() {
		f := &File{}
		var thumbnail, title, summary, keywords, modified, lastOpened sql.NullString
		err := rows.Scan(&f.ID, &f.Path, &f.Filename, &thumbnail, &title, &summary,
			&keywords, &modified, &lastOpened, &f.SnapshotCount)
		if err != nil {
			return nil, err
		}
		f.Thumbnail = thumbnail.String
		f.Title = title.String
		f.Summary = summary.String
		f.Keywords = keywords.String
		f.Modified = modified.String
		f.LastOpened = lastOpened.String
		files = append(files, f)
	}
	return files, rows.Err()
}
