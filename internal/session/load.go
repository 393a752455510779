package session

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gofrs/flock"

	"github.com/wayscriber/wayscriber/internal/draw"
)

// Loaded pairs a snapshot with format diagnostics.
type Loaded struct {
	Snapshot   *Snapshot
	Compressed bool
	Version    uint32
}

// Load reads the session file for the configured output. A missing,
// too-large, future-versioned, or empty file yields (nil, nil); a corrupt
// file is quarantined to the backup path and also yields (nil, nil) so the
// engine starts from defaults.
func Load(options *Options) (*Snapshot, error) {
	if !options.AnyEnabled() && !options.RestoreToolState {
		slog.Info("session load skipped, persistence disabled",
			"base_dir", options.BaseDir, "file", options.SessionFilePath())
		return nil, nil
	}

	sessionPath := options.SessionFilePath()
	info, err := os.Stat(sessionPath)
	if os.IsNotExist(err) {
		slog.Info("session file not found, skipping load", "path", sessionPath)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat session file %s: %w", sessionPath, err)
	}
	slog.Info("session file present",
		"path", sessionPath, "bytes", info.Size(),
		"per_output", options.PerOutput, "output_identity", options.OutputIdentity())
	if info.Size() > options.MaxFileSizeBytes {
		slog.Warn("session file exceeds configured size limit, refusing to load",
			"path", sessionPath, "bytes", info.Size(), "limit", options.MaxFileSizeBytes)
		return nil, nil
	}

	lock := flock.New(options.LockFilePath())
	locked, err := lock.TryRLock()
	if err != nil {
		return nil, fmt.Errorf("locking session file %s: %w", options.LockFilePath(), err)
	}
	if !locked {
		return nil, fmt.Errorf("loading session %s: %w", sessionPath, ErrLocked)
	}
	loaded, loadErr := loadLocked(sessionPath, options)
	if err := lock.Unlock(); err != nil {
		slog.Warn("failed to unlock session file", "path", options.LockFilePath(), "error", err)
	}

	if loadErr != nil {
		slog.Warn("failed to load session, backing up and continuing with defaults",
			"path", sessionPath, "error", loadErr)
		if err := quarantineCorruptSession(sessionPath, options); err != nil {
			slog.Warn("failed to back up corrupt session", "path", sessionPath, "error", err)
		}
		return nil, nil
	}
	if loaded == nil {
		slog.Info("session file contained no usable data, continuing with defaults", "path", sessionPath)
		return nil, nil
	}
	slog.Info("session loaded",
		"path", sessionPath, "version", loaded.Version, "compressed", loaded.Compressed,
		"tool_state", loaded.Snapshot.ToolState != nil)
	return loaded.Snapshot, nil
}

// loadLocked parses the file. It must be called with the lock held.
func loadLocked(sessionPath string, options *Options) (*Loaded, error) {
	raw, err := os.ReadFile(sessionPath)
	if err != nil {
		return nil, fmt.Errorf("reading session file %s: %w", sessionPath, err)
	}

	compressed := isGzip(raw)
	if compressed {
		raw, err = gunzipBytes(raw)
		if err != nil {
			return nil, err
		}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing session json: %w", ErrCorrupt)
	}

	if depth := maxHistoryDepth(doc); depth > draw.MaxCompoundDepth {
		slog.Warn("session history nesting exceeds limit, dropping history",
			"depth", depth, "limit", draw.MaxCompoundDepth)
		stripHistory(doc)
	}

	file, err := decodeSessionFile(doc)
	if err != nil {
		// A frame that fails to decode because of its history can still
		// contribute its shapes.
		slog.Warn("failed to decode session, retrying without history", "error", err)
		stripHistory(doc)
		file, err = decodeSessionFile(doc)
		if err != nil {
			return nil, fmt.Errorf("parsing session after stripping history: %w", ErrCorrupt)
		}
	}

	if file.Version > CurrentVersion {
		slog.Warn("session file from a newer version, skipping load",
			"file_version", file.Version, "supported", CurrentVersion)
		return nil, nil
	}

	snapshot := file.toSnapshot()
	enforceShapeLimits(snapshot, options.MaxShapesPerFrame)
	diskLimit := -1
	if !options.PersistHistory {
		diskLimit = 0
	} else if options.MaxPersistedUndoDepth > 0 {
		diskLimit = options.MaxPersistedUndoDepth
	}
	for _, mode := range []draw.BoardMode{draw.ModeTransparent, draw.ModeWhiteboard, draw.ModeBlackboard} {
		applyHistoryPolicies(snapshot.Board(mode), mode, diskLimit)
	}

	if snapshot.IsEmpty() && snapshot.ToolState == nil {
		slog.Debug("session file contained no data", "path", sessionPath)
		return nil, nil
	}

	return &Loaded{Snapshot: snapshot, Compressed: compressed, Version: file.Version}, nil
}

func decodeSessionFile(doc map[string]json.RawMessage) (*sessionFile, error) {
	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	file := &sessionFile{Version: 1}
	if err := json.Unmarshal(merged, file); err != nil {
		return nil, err
	}
	return file, nil
}

func gunzipBytes(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", ErrCorrupt)
	}
	defer gz.Close()
	out, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("decompressing session payload: %w", ErrCorrupt)
	}
	return out, nil
}

// quarantineCorruptSession moves an unreadable file to the backup path so
// the next save starts clean but the bytes survive for debugging.
func quarantineCorruptSession(sessionPath string, options *Options) error {
	data, err := os.ReadFile(sessionPath)
	if err != nil {
		return fmt.Errorf("reading corrupt session %s: %w", sessionPath, err)
	}
	backupPath := options.BackupFilePath()
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return fmt.Errorf("writing session backup %s: %w", backupPath, err)
	}
	if err := os.Remove(sessionPath); err != nil {
		return fmt.Errorf("removing corrupt session %s: %w", sessionPath, err)
	}
	return nil
}
