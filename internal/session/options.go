// Package session persists annotation state to disk: a versioned JSON
// snapshot per output, written atomically under an advisory lock, with
// optional gzip compression and an autosave scheduler driven by the host's
// event loop.
package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// DefaultAutoCompressThresholdBytes is the payload size at which auto
// compression kicks in.
const DefaultAutoCompressThresholdBytes = 100 * 1024

// Autosave timing defaults, in effect unless configuration overrides them.
const (
	DefaultAutosaveIdle           = 5000 * time.Millisecond
	DefaultAutosaveInterval       = 45000 * time.Millisecond
	DefaultAutosaveFailureBackoff = 5000 * time.Millisecond
)

// CompressionMode selects how session payloads are compressed on disk.
type CompressionMode string

// Compression modes.
const (
	// CompressionOff always writes plain JSON.
	CompressionOff CompressionMode = "off"
	// CompressionOn always writes gzip.
	CompressionOn CompressionMode = "on"
	// CompressionAuto writes gzip once the payload exceeds the threshold.
	CompressionAuto CompressionMode = "auto"
)

// Override forces persistence on or off regardless of configuration. It is
// passed explicitly at engine construction instead of living in a global.
type Override int

const (
	// FollowConfig leaves the configured persistence flags untouched.
	FollowConfig Override = iota
	// ForceOn enables persistence for every board.
	ForceOn
	// ForceOff disables persistence entirely.
	ForceOff
)

// Options is the runtime persistence configuration.
type Options struct {
	BaseDir            string
	PersistTransparent bool
	PersistWhiteboard  bool
	PersistBlackboard  bool
	PersistHistory     bool
	RestoreToolState   bool

	MaxShapesPerFrame     int
	MaxPersistedUndoDepth int // 0 means unlimited
	MaxFileSizeBytes      int64
	Compression           CompressionMode
	AutoCompressThreshold int64
	BackupRetention       int

	DisplayId      string
	PerOutput      bool
	outputIdentity string

	AutosaveEnabled        bool
	AutosaveIdle           time.Duration
	AutosaveInterval       time.Duration
	AutosaveFailureBackoff time.Duration
}

// NewOptions returns options with library defaults, persisting nothing until
// a board flag is turned on.
func NewOptions(baseDir, displayId string) *Options {
	return &Options{
		BaseDir:                baseDir,
		PersistHistory:         true,
		RestoreToolState:       true,
		MaxShapesPerFrame:      10_000,
		MaxFileSizeBytes:       10 * 1024 * 1024,
		Compression:            CompressionAuto,
		AutoCompressThreshold:  DefaultAutoCompressThresholdBytes,
		BackupRetention:        1,
		DisplayId:              sanitizeIdentifier(displayId),
		PerOutput:              true,
		AutosaveEnabled:        true,
		AutosaveIdle:           DefaultAutosaveIdle,
		AutosaveInterval:       DefaultAutosaveInterval,
		AutosaveFailureBackoff: DefaultAutosaveFailureBackoff,
	}
}

// ApplyOverride rewrites the persistence flags per the override mode.
func (o *Options) ApplyOverride(mode Override) {
	switch mode {
	case ForceOn:
		o.PersistTransparent = true
		o.PersistWhiteboard = true
		o.PersistBlackboard = true
	case ForceOff:
		o.PersistTransparent = false
		o.PersistWhiteboard = false
		o.PersistBlackboard = false
		o.RestoreToolState = false
	}
}

// AnyEnabled reports whether at least one board persists.
func (o *Options) AnyEnabled() bool {
	return o.PersistTransparent || o.PersistWhiteboard || o.PersistBlackboard
}

// EffectiveHistoryLimit combines the persisted-history cap with the runtime
// history limit. Zero means history is not persisted at all.
func (o *Options) EffectiveHistoryLimit(runtimeLimit int) int {
	if !o.PersistHistory {
		return 0
	}
	if o.MaxPersistedUndoDepth == 0 {
		return runtimeLimit
	}
	return min(o.MaxPersistedUndoDepth, runtimeLimit)
}

// FilePrefix is the stem shared by all files of this display.
func (o *Options) FilePrefix() string {
	return "session-" + o.DisplayId
}

func (o *Options) fileStem() string {
	if o.PerOutput && o.outputIdentity != "" {
		return o.FilePrefix() + "-" + o.outputIdentity
	}
	return o.FilePrefix()
}

// SessionFilePath is the target JSON file.
func (o *Options) SessionFilePath() string {
	return filepath.Join(o.BaseDir, o.fileStem()+".json")
}

// BackupFilePath is where the previous good file is rotated to.
func (o *Options) BackupFilePath() string {
	return filepath.Join(o.BaseDir, o.fileStem()+".json.bak")
}

// LockFilePath is the advisory lock file guarding save and load.
func (o *Options) LockFilePath() string {
	return filepath.Join(o.BaseDir, o.fileStem()+".lock")
}

// SetOutputIdentity records which output this session belongs to. Returns
// true when the identity actually changed, which means the target file moved.
func (o *Options) SetOutputIdentity(identity string) bool {
	if !o.PerOutput {
		o.outputIdentity = ""
		return false
	}
	sanitized := ""
	if identity != "" {
		sanitized = sanitizeIdentifier(identity)
	}
	if o.outputIdentity == sanitized {
		return false
	}
	o.outputIdentity = sanitized
	return true
}

// OutputIdentity returns the sanitised output identity, if set.
func (o *Options) OutputIdentity() string { return o.outputIdentity }

// sanitizeIdentifier maps arbitrary display or output names onto a safe
// filename fragment.
func sanitizeIdentifier(raw string) string {
	if raw == "" {
		return "default"
	}
	out := make([]byte, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			out[i] = c
		} else {
			out[i] = '_'
		}
	}
	return string(out)
}

// ResolveDisplayId picks the display identifier for session file naming,
// preferring the explicit argument over WAYLAND_DISPLAY.
func ResolveDisplayId(displayId string) string {
	if displayId != "" {
		return sanitizeIdentifier(displayId)
	}
	if value := os.Getenv("WAYLAND_DISPLAY"); value != "" {
		slog.Info("session display id from WAYLAND_DISPLAY", "value", value)
		return sanitizeIdentifier(value)
	}
	slog.Info("session display id fallback to default, WAYLAND_DISPLAY missing")
	return "default"
}

// DefaultBaseDir resolves the XDG data directory for session storage:
// $XDG_DATA_HOME/wayscriber or ~/.local/share/wayscriber.
func DefaultBaseDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving data directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "wayscriber"), nil
}
