// bindings.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"snapmark/internal/autosave"
	"snapmark/internal/config"
	"snapmark/internal/document"
	"snapmark/internal/eventhub"
	"snapmark/internal/imageio"
	"snapmark/internal/library"
	"snapmark/internal/persist"
	"snapmark/internal/snapshot"
)

// ===== Window Bindings =====

// ToggleFullscreen toggles the macOS native fullscreen mode.
// Uses CGO because Wails v2's WindowFullscreen() doesn't work with
// Frameless windows on macOS.
func (a *App) ToggleFullscreen() {
	ToggleNativeFullscreen()
}

// IsFullscreen returns true if the window is in fullscreen mode
func (a *App) IsFullscreen() bool {
	return IsNativeFullscreen()
}

// ===== Document Bindings =====

// DocumentState is the summary the frontend keys its UI off after any
// operation that may have changed the document.
type DocumentState struct {
	Path          string              `json:"path,omitempty"`
	Layers        []document.Layer    `json:"layers"`
	Width         int                 `json:"width"`
	Height        int                 `json:"height"`
	Dirty         bool                `json:"dirty"`
	UndoEnabled   bool                `json:"undoEnabled"`
	RedoEnabled   bool                `json:"redoEnabled"`
	SnapshotIndex int                 `json:"snapshotIndex"`
	Snapshots     []snapshot.Snapshot `json:"snapshots"`
}

// stateLocked builds a DocumentState. Caller holds a.mu.
func (a *App) stateLocked() *DocumentState {
	layers, width, height := a.session.Document().Snapshot()
	return &DocumentState{
		Path:          a.currentPath,
		Layers:        layers,
		Width:         width,
		Height:        height,
		Dirty:         a.session.Dirty(),
		UndoEnabled:   a.session.UndoEnabled(),
		RedoEnabled:   a.session.RedoEnabled(),
		SnapshotIndex: a.session.SnapshotIndex(),
		Snapshots:     a.session.Timeline().All(),
	}
}

// GetDocumentState returns the current document state.
func (a *App) GetDocumentState() *DocumentState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateLocked()
}

// NewDocument discards the open document and starts an empty one at the
// default canvas size.
func (a *App) NewDocument() *DocumentState {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.session.Reset()
	a.currentPath = ""
	a.frontMatter = nil
	a.keywords = nil
	a.lastAutosave = ""

	a.emitDocumentChangedLocked()
	return a.stateLocked()
}

// OpenDocument loads a document file into the session.
func (a *App) OpenDocument(path string) (*DocumentState, error) {
	f, err := persist.Load(path)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.session.Load(f.Layers, f.CanvasSize.Width, f.CanvasSize.Height, f.Snapshots)
	a.currentPath = path
	a.frontMatter = f.FrontMatter
	a.keywords = f.Keywords
	a.lastAutosave = ""

	if a.library != nil {
		now := time.Now().UTC().Format(time.RFC3339)
		if err := a.library.TouchOpened(path, now); err != nil {
			runtime.LogError(a.ctx, "Failed to touch library row: "+err.Error())
		}
	}

	a.emitDocumentChangedLocked()
	return a.stateLocked(), nil
}

// SaveDocument writes the document to disk. An empty path saves to the
// current path; saving an unsaved document requires an explicit path.
func (a *App) SaveDocument(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if path == "" {
		path = a.currentPath
	}
	if path == "" {
		return fmt.Errorf("document has no path; use Save As")
	}
	if !strings.HasSuffix(strings.ToLower(path), persist.Extension) {
		path += persist.Extension
	}

	if err := persist.Save(path, a.documentFileLocked()); err != nil {
		return err
	}

	a.currentPath = path
	a.session.MarkSaved()

	if a.lastAutosave != "" && a.autosave != nil {
		a.autosave.Remove(a.lastAutosave)
		a.lastAutosave = ""
	}

	if a.library != nil {
		if err := a.library.IndexPath(path); err != nil {
			runtime.LogError(a.ctx, "Failed to index saved document: "+err.Error())
		}
	}

	a.eventHub.EmitLibraryUpdated(eventhub.LibraryUpdatedEvent{Path: path, Reason: "saved"})
	a.emitDocumentChangedLocked()
	return nil
}

// SetFrontMatter stores the document's front matter verbatim. The engine
// never interprets it; it round-trips to disk as-is.
func (a *App) SetFrontMatter(raw string) error {
	if raw != "" && !json.Valid([]byte(raw)) {
		return fmt.Errorf("front matter must be valid JSON")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.frontMatter = json.RawMessage(raw)
	a.session.MarkDirty()
	a.emitDocumentChangedLocked()
	return nil
}

// SetKeywords replaces the document's keyword list.
func (a *App) SetKeywords(keywords []string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.keywords = keywords
	a.session.MarkDirty()
	a.emitDocumentChangedLocked()
}

// ===== Layer Bindings =====

// AddLayer appends an annotation layer and returns its assigned ID.
func (a *App) AddLayer(layer document.Layer) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.session.AddLayer(layer)
	if id == 0 {
		return 0, fmt.Errorf("layer rejected")
	}
	a.emitDocumentChangedLocked()
	return id, nil
}

// UpdateLayer replaces the layer at the given stack index.
func (a *App) UpdateLayer(index int, layer document.Layer) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.session.ReplaceLayer(index, layer) {
		return fmt.Errorf("cannot update layer at index %d", index)
	}
	a.emitDocumentChangedLocked()
	return nil
}

// RemoveLayer deletes the layer at the given stack index. The base image
// layer cannot be removed.
func (a *App) RemoveLayer(index int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.session.RemoveLayer(index) {
		return fmt.Errorf("cannot remove layer at index %d", index)
	}
	a.emitDocumentChangedLocked()
	return nil
}

// RemoveLayers deletes several layers in one undo step.
func (a *App) RemoveLayers(indices []int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.session.RemoveLayers(indices) {
		return fmt.Errorf("no removable layers in selection")
	}
	a.emitDocumentChangedLocked()
	return nil
}

// MoveLayerToFront raises a layer to the top of the stack.
func (a *App) MoveLayerToFront(index int) error {
	return a.moveLayer(index, a.session.MoveLayerToFront)
}

// MoveLayerToBack lowers a layer to just above the base image.
func (a *App) MoveLayerToBack(index int) error {
	return a.moveLayer(index, a.session.MoveLayerToBack)
}

// MoveLayerForward raises a layer one position.
func (a *App) MoveLayerForward(index int) error {
	return a.moveLayer(index, a.session.MoveLayerForward)
}

// MoveLayerBackward lowers a layer one position.
func (a *App) MoveLayerBackward(index int) error {
	return a.moveLayer(index, a.session.MoveLayerBackward)
}

func (a *App) moveLayer(index int, op func(int) bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !op(index) {
		return fmt.Errorf("cannot move layer at index %d", index)
	}
	a.emitDocumentChangedLocked()
	return nil
}

// ===== Canvas Bindings =====

// ResizeCanvas changes the working canvas dimensions as one undo step.
func (a *App) ResizeCanvas(width, height int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.session.Resize(width, height) {
		return fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	a.emitDocumentChangedLocked()
	return nil
}

// SetBaseImage starts a fresh document around an image file: the canvas
// takes the image's size and the image becomes the protected base layer.
// Dimensions come from the frontend's decode of the same file.
func (a *App) SetBaseImage(path string, width, height int) (*DocumentState, error) {
	dataURL, err := imageio.LoadDataURL(path)
	if err != nil {
		return nil, err
	}
	return a.setBaseImageData(dataURL, width, height)
}

// SetBaseImageData is SetBaseImage for images that never touched disk,
// such as clipboard pastes.
func (a *App) SetBaseImageData(dataURL string, width, height int) (*DocumentState, error) {
	return a.setBaseImageData(dataURL, width, height)
}

func (a *App) setBaseImageData(dataURL string, width, height int) (*DocumentState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.session.SetBaseImage(dataURL, width, height) {
		return nil, fmt.Errorf("invalid base image %dx%d", width, height)
	}
	a.currentPath = ""
	a.frontMatter = nil
	a.keywords = nil
	a.lastAutosave = ""

	a.emitDocumentChangedLocked()
	return a.stateLocked(), nil
}

// CombineImage expands the canvas at one edge and places an image file
// there, as a single undo step. Valid edges: top, bottom, left, right.
func (a *App) CombineImage(path string, width, height int, edge string) error {
	switch document.Edge(edge) {
	case document.EdgeTop, document.EdgeBottom, document.EdgeLeft, document.EdgeRight:
	default:
		return fmt.Errorf("invalid edge %q", edge)
	}

	dataURL, err := imageio.LoadDataURL(path)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.session.CombineImage(dataURL, width, height, document.Edge(edge)) {
		return fmt.Errorf("invalid combine image %dx%d", width, height)
	}
	a.emitDocumentChangedLocked()
	return nil
}

// SubmitCanvasCapture receives the frontend's latest raster of the canvas.
// Snapshot capture and thumbnails read from it.
func (a *App) SubmitCanvasCapture(dataURL string) {
	a.canvas.submitCapture(dataURL)
}

// ===== Undo / Redo Bindings =====

// Undo steps backward: through edit history while any remains, then down
// the snapshot timeline.
func (a *App) Undo() *DocumentState {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session.HandleUndo() {
		a.emitNavigationLocked()
	}
	return a.stateLocked()
}

// Redo steps forward: through edit history, then up the snapshot timeline
// and back to the live state the user left.
func (a *App) Redo() *DocumentState {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session.HandleRedo() {
		a.emitNavigationLocked()
	}
	return a.stateLocked()
}

// emitNavigationLocked fires the events undo/redo can affect. Caller
// holds a.mu.
func (a *App) emitNavigationLocked() {
	a.emitDocumentChangedLocked()
	a.eventHub.EmitSnapshotsChanged(eventhub.SnapshotsChangedEvent{
		Count: a.session.Timeline().Len(),
		Index: a.session.SnapshotIndex(),
	})
}

// ===== Snapshot Bindings =====

// CaptureSnapshot appends the current canvas to the snapshot timeline.
func (a *App) CaptureSnapshot(title, summary string) (snapshot.Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap, err := a.session.CaptureSnapshot(title, summary)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	a.session.MarkDirty()
	a.eventHub.EmitSnapshotsChanged(eventhub.SnapshotsChangedEvent{
		Count: a.session.Timeline().Len(),
		Index: a.session.SnapshotIndex(),
	})
	return snap, nil
}

// DeleteSnapshot removes the snapshot at the given timeline index.
func (a *App) DeleteSnapshot(index int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.session.DeleteSnapshot(index) {
		return fmt.Errorf("no snapshot at index %d", index)
	}

	a.session.MarkDirty()
	a.eventHub.EmitSnapshotsChanged(eventhub.SnapshotsChangedEvent{
		Count: a.session.Timeline().Len(),
		Index: a.session.SnapshotIndex(),
	})
	return nil
}

// ListSnapshots returns the snapshot timeline oldest-first.
func (a *App) ListSnapshots() []snapshot.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Timeline().All()
}

// ===== Library Bindings =====

// SearchLibrary runs a full-text search over the library index.
func (a *App) SearchLibrary(params library.SearchParams) ([]*library.File, error) {
	if a.library == nil {
		return nil, fmt.Errorf("library index unavailable")
	}
	return a.library.Search(params)
}

// RecentDocuments lists the most recently opened documents.
func (a *App) RecentDocuments(limit int) ([]*library.File, error) {
	if a.library == nil {
		return nil, fmt.Errorf("library index unavailable")
	}
	return a.library.Recent(limit)
}

// RebuildLibrary rescans the library folder from scratch and returns the
// number of documents indexed.
func (a *App) RebuildLibrary() (int, error) {
	if a.library == nil {
		return 0, fmt.Errorf("library index unavailable")
	}

	a.mu.Lock()
	libraryDir := a.config.LibraryDir
	a.mu.Unlock()

	count, err := a.library.RebuildFromFolder(libraryDir)
	if err != nil {
		return count, err
	}
	a.eventHub.EmitLibraryUpdated(eventhub.LibraryUpdatedEvent{Reason: "rebuild"})
	return count, nil
}

// RemoveFromLibrary drops a document from the index without touching the
// file on disk.
func (a *App) RemoveFromLibrary(path string) error {
	if a.library == nil {
		return fmt.Errorf("library index unavailable")
	}
	if err := a.library.Remove(path); err != nil {
		return err
	}
	a.eventHub.EmitLibraryUpdated(eventhub.LibraryUpdatedEvent{Path: path, Reason: "removed"})
	return nil
}

// ===== Autosave Bindings =====

// ListAutosaves returns recoverable autosaves, newest first.
func (a *App) ListAutosaves() ([]autosave.Entry, error) {
	if a.autosave == nil {
		return nil, fmt.Errorf("autosave store unavailable")
	}
	return a.autosave.List()
}

// RecoverAutosave loads an autosaved document into the session. The
// document keeps its original path, so a plain Save lands where the user
// expects.
func (a *App) RecoverAutosave(path string) (*DocumentState, error) {
	if a.autosave == nil {
		return nil, fmt.Errorf("autosave store unavailable")
	}

	f, original, err := a.autosave.Recover(path)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.session.Load(f.Layers, f.CanvasSize.Width, f.CanvasSize.Height, f.Snapshots)
	a.session.MarkDirty()
	a.currentPath = original
	a.frontMatter = f.FrontMatter
	a.keywords = f.Keywords
	a.lastAutosave = path

	a.emitDocumentChangedLocked()
	return a.stateLocked(), nil
}

// DiscardAutosave deletes an autosave file.
func (a *App) DiscardAutosave(path string) error {
	if a.autosave == nil {
		return fmt.Errorf("autosave store unavailable")
	}
	return a.autosave.Remove(path)
}

// ===== Image Bindings =====

// LoadImageDataURL reads an image file as a base64 data URL for the
// frontend to decode and draw.
func (a *App) LoadImageDataURL(path string) (string, error) {
	if !imageio.IsImagePath(path) {
		return "", fmt.Errorf("not a supported image file: %s", filepath.Base(path))
	}
	return imageio.LoadDataURL(path)
}

// ExportImage writes a rendered data URL to disk, for PNG/JPEG export of
// the annotated canvas.
func (a *App) ExportImage(path, dataURL string) error {
	return imageio.SaveDataURL(path, dataURL)
}

// ExportTextFile writes frontend-rendered text content to disk, for HTML
// and markup exports of the annotated document.
func (a *App) ExportTextFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// OpenInDefaultApp opens an exported file with the OS default application.
func (a *App) OpenInDefaultApp(path string) error {
	var cmd *exec.Cmd
	switch goruntime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ===== Dialog Bindings =====

// configDir reads one directory setting under the lock, so dialogs never
// hold a.mu across a modal wait.
func (a *App) configDir(pick func(*config.Config) string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return pick(a.config)
}

// OpenImageDialog shows a file picker filtered to images.
func (a *App) OpenImageDialog() (string, error) {
	return runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title:            "Open Image",
		DefaultDirectory: a.configDir(func(c *config.Config) string { return c.DefaultImageDir }),
		Filters: []runtime.FileFilter{
			{DisplayName: "Images", Pattern: "*.png;*.jpg;*.jpeg;*.gif;*.webp;*.bmp"},
		},
	})
}

// OpenDocumentDialog shows a file picker filtered to document files.
func (a *App) OpenDocumentDialog() (string, error) {
	return runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title:            "Open Document",
		DefaultDirectory: a.configDir(func(c *config.Config) string { return c.LibraryDir }),
		Filters: []runtime.FileFilter{
			{DisplayName: "Snapmark Documents", Pattern: "*" + persist.Extension},
		},
	})
}

// SaveDocumentDialog shows a save picker defaulting into the library.
func (a *App) SaveDocumentDialog(defaultName string) (string, error) {
	if defaultName == "" {
		defaultName = "untitled" + persist.Extension
	}
	return runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:            "Save Document",
		DefaultDirectory: a.configDir(func(c *config.Config) string { return c.LibraryDir }),
		DefaultFilename:  defaultName,
		Filters: []runtime.FileFilter{
			{DisplayName: "Snapmark Documents", Pattern: "*" + persist.Extension},
		},
	})
}

// ExportImageDialog shows a save picker for image export.
func (a *App) ExportImageDialog(defaultName string) (string, error) {
	return runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:            "Export Image",
		DefaultDirectory: a.configDir(func(c *config.Config) string { return c.ExportDir }),
		DefaultFilename:  defaultName,
		Filters: []runtime.FileFilter{
			{DisplayName: "PNG Image", Pattern: "*.png"},
			{DisplayName: "JPEG Image", Pattern: "*.jpg"},
		},
	})
}

// ===== Settings Bindings =====

// GetConfig returns a copy of the effective configuration. A copy, not
// the live pointer: UpdateSettings mutates the original under the lock.
func (a *App) GetConfig() config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return *a.config
}

// UpdateSettings applies user-editable settings and writes them to the
// settings file. Directory changes take effect on next launch.
func (a *App) UpdateSettings(updated config.Config) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.config.LibraryDir = updated.LibraryDir
	a.config.DefaultImageDir = updated.DefaultImageDir
	a.config.ExportDir = updated.ExportDir
	a.config.CanvasWidth = updated.CanvasWidth
	a.config.CanvasHeight = updated.CanvasHeight
	a.config.AutosaveIntervalSeconds = updated.AutosaveIntervalSeconds
	a.config.MaxUndoDepth = updated.MaxUndoDepth

	return a.config.SaveUserSettings()
}
