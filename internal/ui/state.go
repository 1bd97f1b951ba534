package ui

import (
	"image"
	"sync"
	"time"
)

// StateSnapshot captures a copy of the state data for rendering without
// requiring the UI to hold locks while laying out widgets.
type StateSnapshot struct {
	Busy bool

	LastError error
	Status    string

	FileName  string
	ImageSize image.Point
	Rotation  float64
	Scale     float64

	LastExport string
	AppVersion string

	Logs []string

	LastUpdated time.Time
}

// AppState tracks the mutable state shared between the Gio event loop and
// the background goroutines running file dialogs.
type AppState struct {
	mu sync.RWMutex

	busy bool

	lastError error
	status    string

	fileName  string
	imageSize image.Point
	rotation  float64
	scale     float64

	lastExport string
	appVersion string

	logs     []string
	logLimit int

	lastUpdated time.Time
}

// NewState returns a baseline AppState with safe defaults.
func NewState() *AppState {
	return &AppState{
		logLimit:    200,
		status:      "Choose an image to start",
		scale:       1,
		appVersion:  "dev",
		lastUpdated: time.Now(),
	}
}

// Snapshot returns a copy of the mutable state for rendering.
func (s *AppState) Snapshot() StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logCopy := make([]string, len(s.logs))
	copy(logCopy, s.logs)

	return StateSnapshot{
		Busy:        s.busy,
		LastError:   s.lastError,
		Status:      s.status,
		FileName:    s.fileName,
		ImageSize:   s.imageSize,
		Rotation:    s.rotation,
		Scale:       s.scale,
		LastExport:  s.lastExport,
		AppVersion:  s.appVersion,
		Logs:        logCopy,
		LastUpdated: s.lastUpdated,
	}
}

// SetBusy toggles the busy flag and updates the timestamp.
func (s *AppState) SetBusy(busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.busy = busy
	s.lastUpdated = time.Now()
}

// Busy returns the current busy flag.
func (s *AppState) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

// SetStatus updates the user-facing status message.
func (s *AppState) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.lastUpdated = time.Now()
}

// SetError stores the latest error surfaced to the UI.
func (s *AppState) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err
	s.lastUpdated = time.Now()
}

// SetFile records the selected file. An empty name clears the image details.
func (s *AppState) SetFile(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileName = name
	if name == "" {
		s.imageSize = image.Point{}
		s.rotation = 0
		s.scale = 1
	}
	s.lastUpdated = time.Now()
}

// SetView records the session geometry shown in the details panel.
func (s *AppState) SetView(size image.Point, rotation, scale float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.imageSize == size && s.rotation == rotation && s.scale == scale {
		return
	}
	s.imageSize = size
	s.rotation = rotation
	s.scale = scale
	s.lastUpdated = time.Now()
}

// SetLastExport records where the most recent export was written.
func (s *AppState) SetLastExport(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastExport = name
	s.lastUpdated = time.Now()
}

// AppendLog appends a log message, trimming the oldest entries past the limit.
func (s *AppState) AppendLog(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = append(s.logs, msg)
	if s.logLimit > 0 && len(s.logs) > s.logLimit {
		offset := len(s.logs) - s.logLimit
		s.logs = append([]string(nil), s.logs[offset:]...)
	}
	s.lastUpdated = time.Now()
}

// SetAppVersion records the running UI/application version string.
func (s *AppState) SetAppVersion(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version == "" {
		version = "dev"
	}
	s.appVersion = version
	s.lastUpdated = time.Now()
}

// AppVersion returns the current application version string.
func (s *AppState) AppVersion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.appVersion
}
