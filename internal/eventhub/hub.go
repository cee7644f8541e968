// internal/eventhub/hub.go
package eventhub

// Broadcaster delivers events to the frontend.
type Broadcaster interface {
	BroadcastEvent(eventType string, payload interface{})
}

// EventHub is the single dispatch point for backend-to-frontend events.
type EventHub struct {
	broadcaster Broadcaster
}

// New creates an EventHub. A Broadcaster must be attached before events
// reach anyone; until then emits are dropped silently.
func New() *EventHub {
	return &EventHub{}
}

// SetBroadcaster attaches the frontend broadcaster.
func (h *EventHub) SetBroadcaster(b Broadcaster) {
	h.broadcaster = b
}

func (h *EventHub) emit(eventName string, payload interface{}) {
	if h.broadcaster != nil {
		h.broadcaster.BroadcastEvent(eventName, payload)
	}
}

// Emit sends an arbitrary named event.
func (h *EventHub) Emit(eventName string, payload interface{}) {
	h.emit(eventName, payload)
}

// DocumentChangedEvent fires after any successful edit, undo, redo, or
// snapshot restore.
type DocumentChangedEvent struct {
	Path        string `json:"path"`
	Dirty       bool   `json:"dirty"`
	LayerCount  int    `json:"layerCount"`
	UndoEnabled bool   `json:"undoEnabled"`
	RedoEnabled bool   `json:"redoEnabled"`
}

func (h *EventHub) EmitDocumentChanged(event DocumentChangedEvent) {
	h.emit("document:changed", event)
}

// CanvasResizedEvent fires when the working canvas changes dimensions.
type CanvasResizedEvent struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (h *EventHub) EmitCanvasResized(event CanvasResizedEvent) {
	h.emit("canvas:resized", event)
}

// SnapshotsChangedEvent fires when the snapshot timeline grows or
// shrinks, or when navigation moves the viewing cursor.
type SnapshotsChangedEvent struct {
	Count int `json:"count"`
	Index int `json:"index"` // -1 while editing live
}

func (h *EventHub) EmitSnapshotsChanged(event SnapshotsChangedEvent) {
	h.emit("snapshots:changed", event)
}

// LibraryUpdatedEvent fires when the library index changes, from
// in-app saves or from files changing on disk.
type LibraryUpdatedEvent struct {
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason"` // "saved", "removed", "external", "rebuild"
}

func (h *EventHub) EmitLibraryUpdated(event LibraryUpdatedEvent) {
	h.emit("library:updated", event)
}

// AutosaveWrittenEvent fires after a background autosave lands.
type AutosaveWrittenEvent struct {
	Name     string `json:"name"`
	Original string `json:"original,omitempty"`
}

func (h *EventHub) EmitAutosaveWritten(event AutosaveWrittenEvent) {
	h.emit("autosave:written", event)
}

// EmitFileDrop forwards OS file drops to the frontend.
func (h *EventHub) EmitFileDrop(paths []string) {
	h.emit("file-drop", paths)
}
