// app.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"snapmark/internal/autosave"
	"snapmark/internal/config"
	"snapmark/internal/editor"
	"snapmark/internal/eventhub"
	"snapmark/internal/library"
	"snapmark/internal/persist"
	"snapmark/internal/watcher"
)

// App wires the editor engine to its surroundings: config, the library
// index, the autosave store, the folder watcher, and the event hub that
// pushes state changes to the frontend.
type App struct {
	ctx    context.Context
	mu     sync.Mutex
	config *config.Config

	session  *editor.Session
	canvas   *frontendCanvas
	library  *library.Library
	autosave *autosave.Manager
	watcher  *watcher.LibraryWatcher
	eventHub *eventhub.EventHub

	// per-open-document state owned by the app layer
	currentPath  string
	frontMatter  json.RawMessage
	keywords     []string
	lastAutosave string

	autosaveDone chan struct{}
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{}
}

// startup is called when the app starts (Wails callback)
func (a *App) startup(ctx context.Context) {
	a.startupCommon(ctx)
}

// Startup is the exported version for the headless server
func (a *App) Startup(ctx context.Context) {
	a.startupCommon(ctx)
}

func (a *App) startupCommon(ctx context.Context) {
	a.ctx = ctx

	cfg, err := config.Load()
	if err != nil {
		runtime.LogError(ctx, "Failed to load config: "+err.Error())
		return
	}
	a.config = cfg

	a.eventHub = eventhub.New()
	a.eventHub.SetBroadcaster(&wailsEventEmitter{ctx: ctx})

	a.canvas = &frontendCanvas{
		width:  cfg.CanvasWidth,
		height: cfg.CanvasHeight,
		hub:    a.eventHub,
	}
	a.session = editor.NewSession(a.canvas, cfg.CanvasWidth, cfg.CanvasHeight, cfg.MaxUndoDepth)

	lib, err := library.Open(cfg.DatabasePath)
	if err != nil {
		runtime.LogError(ctx, "Failed to open library index: "+err.Error())
	} else {
		a.library = lib
	}

	saver, err := autosave.NewManager(cfg.AutosaveDir)
	if err != nil {
		runtime.LogError(ctx, "Failed to init autosave store: "+err.Error())
	} else {
		a.autosave = saver
	}

	w, err := watcher.New(cfg.LibraryDir, time.Second, a.onLibraryFileChange)
	if err != nil {
		runtime.LogError(ctx, "Failed to watch library folder: "+err.Error())
	} else {
		a.watcher = w
		if err := w.Start(); err != nil {
			runtime.LogError(ctx, "Failed to start library watcher: "+err.Error())
		}
	}

	if a.autosave != nil && cfg.AutosaveIntervalSeconds > 0 {
		a.autosaveDone = make(chan struct{})
		go a.autosaveLoop(time.Duration(cfg.AutosaveIntervalSeconds) * time.Second)
	}

	runtime.LogInfo(ctx, "snapmark started")
}

// shutdown is called when the app is shutting down (Wails callback)
func (a *App) shutdown(ctx context.Context) {
	a.shutdownCommon(ctx)
}

// Shutdown is the exported version for the headless server
func (a *App) Shutdown(ctx context.Context) {
	a.shutdownCommon(ctx)
}

func (a *App) shutdownCommon(ctx context.Context) {
	if a.autosaveDone != nil {
		close(a.autosaveDone)
	}

	// One last autosave so a crashless quit with unsaved work is still
	// recoverable.
	a.mu.Lock()
	if a.autosave != nil && a.session != nil && a.session.Dirty() {
		if _, err := a.writeAutosaveLocked(); err != nil {
			runtime.LogError(ctx, "Final autosave failed: "+err.Error())
		}
	}
	a.mu.Unlock()

	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.library != nil {
		a.library.Close()
	}

	runtime.LogInfo(ctx, "snapmark shutdown complete")
}

// autosaveLoop periodically persists dirty sessions to the autosave store.
func (a *App) autosaveLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.mu.Lock()
			if !a.session.Dirty() {
				a.mu.Unlock()
				continue
			}
			name, err := a.writeAutosaveLocked()
			original := a.currentPath
			a.mu.Unlock()

			if err != nil {
				runtime.LogError(a.ctx, "Autosave failed: "+err.Error())
				continue
			}
			a.eventHub.EmitAutosaveWritten(eventhub.AutosaveWrittenEvent{
				Name:     name,
				Original: original,
			})

		case <-a.autosaveDone:
			return
		}
	}
}

// writeAutosaveLocked writes the current document to the autosave store and
// drops the previous autosave for the same document. Caller holds a.mu.
func (a *App) writeAutosaveLocked() (string, error) {
	path, err := a.autosave.Write(a.documentFileLocked(), a.currentPath)
	if err != nil {
		return "", err
	}
	if a.lastAutosave != "" && a.lastAutosave != path {
		a.autosave.Remove(a.lastAutosave)
	}
	a.lastAutosave = path
	return path, nil
}

// documentFileLocked assembles the on-disk document shape from the live
// session. Caller holds a.mu.
func (a *App) documentFileLocked() *persist.File {
	layers, width, height := a.session.Document().Snapshot()
	return &persist.File{
		Version:     1,
		Layers:      layers,
		CanvasSize:  persist.Size{Width: width, Height: height},
		FrontMatter: a.frontMatter,
		Keywords:    a.keywords,
		Thumbnail:   a.canvas.lastCapture(),
		Snapshots:   a.session.Timeline().All(),
	}
}

// onLibraryFileChange keeps the index in step with external edits to the
// library folder.
func (a *App) onLibraryFileChange(e watcher.Event) {
	if a.library == nil {
		return
	}

	var err error
	switch e.Type {
	case watcher.EventDelete, watcher.EventRename:
		err = a.library.Remove(e.Path)
	default:
		err = a.library.IndexPath(e.Path)
	}
	if err != nil {
		runtime.LogError(a.ctx, "Library reindex failed: "+err.Error())
		return
	}

	a.eventHub.EmitLibraryUpdated(eventhub.LibraryUpdatedEvent{
		Path:   e.Path,
		Reason: "external",
	})
}

// emitDocumentChangedLocked pushes the document summary the frontend keys
// its toolbar state off. Caller holds a.mu.
func (a *App) emitDocumentChangedLocked() {
	a.eventHub.EmitDocumentChanged(eventhub.DocumentChangedEvent{
		Path:        a.currentPath,
		Dirty:       a.session.Dirty(),
		LayerCount:  a.session.Document().Len(),
		UndoEnabled: a.session.UndoEnabled(),
		RedoEnabled: a.session.RedoEnabled(),
	})
}

// SetEventHubBroadcaster swaps the event broadcaster (used by the headless
// WebSocket server).
func (a *App) SetEventHubBroadcaster(broadcaster eventhub.Broadcaster) {
	if a.eventHub != nil {
		a.eventHub.SetBroadcaster(broadcaster)
	}
}

// wailsEventEmitter adapts Wails runtime events to eventhub.Broadcaster
type wailsEventEmitter struct {
	ctx context.Context
}

func (e *wailsEventEmitter) BroadcastEvent(eventName string, data interface{}) {
	runtime.EventsEmit(e.ctx, eventName, data)
}

// frontendCanvas bridges editor.Canvas to the webview. The raster lives in
// the frontend: the backend tracks dimensions, requests re-renders through
// events, and keeps the most recent capture the frontend pushed back so
// snapshots and thumbnails can be taken without a round trip.
type frontendCanvas struct {
	mu      sync.Mutex
	width   int
	height  int
	capture string
	hub     *eventhub.EventHub
}

func (c *frontendCanvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *frontendCanvas) SetSize(width, height int) {
	c.mu.Lock()
	c.width = width
	c.height = height
	c.mu.Unlock()

	c.hub.EmitCanvasResized(eventhub.CanvasResizedEvent{Width: width, Height: height})
}

func (c *frontendCanvas) Render() {
	c.hub.Emit("canvas:render", nil)
}

func (c *frontendCanvas) ToDataURL(format string, quality float64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.capture == "" {
		return "", fmt.Errorf("no canvas capture available")
	}
	return c.capture, nil
}

func (c *frontendCanvas) submitCapture(dataURL string) {
	c.mu.Lock()
	c.capture = dataURL
	c.mu.Unlock()
}

func (c *frontendCanvas) lastCapture() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capture
}
