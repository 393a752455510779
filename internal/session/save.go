package session

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/gofrs/flock"
)

// Save persists a snapshot according to the options. Disabled persistence is
// a silent no-op; an empty snapshot removes any previous file instead of
// writing one. Returns ErrLocked when another process holds the lock.
func Save(snapshot *Snapshot, options *Options) error {
	if !options.AnyEnabled() && snapshot.ToolState == nil {
		slog.Debug("session persistence disabled for all boards, skipping save")
		return nil
	}

	if err := os.MkdirAll(options.BaseDir, 0o755); err != nil {
		return fmt.Errorf("creating session directory %s: %w", options.BaseDir, err)
	}

	lock := flock.New(options.LockFilePath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("locking session file %s: %w", options.LockFilePath(), err)
	}
	if !locked {
		return fmt.Errorf("saving session %s: %w", options.SessionFilePath(), ErrLocked)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("failed to unlock session file", "path", options.LockFilePath(), "error", err)
		}
	}()

	return saveLocked(snapshot, options)
}

func saveLocked(snapshot *Snapshot, options *Options) error {
	sessionPath := options.SessionFilePath()
	backupPath := options.BackupFilePath()

	if snapshot.IsEmpty() && snapshot.ToolState == nil {
		if _, err := os.Stat(sessionPath); err == nil {
			slog.Debug("removing session file for empty snapshot", "path", sessionPath)
			if err := os.Remove(sessionPath); err != nil {
				return fmt.Errorf("removing empty session file %s: %w", sessionPath, err)
			}
		}
		return nil
	}

	payload, err := json.MarshalIndent(fileFromSnapshot(snapshot), "", "  ")
	if err != nil {
		return fmt.Errorf("serialising session payload: %w", err)
	}

	if int64(len(payload)) > options.MaxFileSizeBytes {
		slog.Warn("session payload exceeds configured size limit, skipping save",
			"bytes", len(payload), "limit", options.MaxFileSizeBytes)
		return nil
	}

	compress := false
	switch options.Compression {
	case CompressionOn:
		compress = true
	case CompressionAuto:
		compress = int64(len(payload)) >= options.AutoCompressThreshold
	}
	if compress {
		payload, err = gzipBytes(payload)
		if err != nil {
			return err
		}
	}

	tmpPath, err := tempPath(sessionPath)
	if err != nil {
		return err
	}
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("opening temporary session file %s: %w", tmpPath, err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing session payload: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing temporary session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temporary session file: %w", err)
	}

	if _, err := os.Stat(sessionPath); err == nil {
		if options.BackupRetention > 0 {
			os.Remove(backupPath)
			if err := os.Rename(sessionPath, backupPath); err != nil {
				os.Remove(tmpPath)
				return fmt.Errorf("rotating previous session file %s -> %s: %w", sessionPath, backupPath, err)
			}
		} else {
			os.Remove(sessionPath)
		}
	}

	if err := os.Rename(tmpPath, sessionPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("moving session file %s -> %s: %w", tmpPath, sessionPath, err)
	}

	slog.Info("session saved", "path", sessionPath, "bytes", len(payload), "compressed", compress)
	return nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, fmt.Errorf("compressing session payload: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("finalising compressed session payload: %w", err)
	}
	return buf.Bytes(), nil
}

func isGzip(data []byte) bool {
	return len(data) > 2 && data[0] == 0x1f && data[1] == 0x8b
}

// tempPath picks a .tmp sibling of the target, stepping the suffix if a
// stale one is in the way.
func tempPath(target string) (string, error) {
	candidate := target + ".tmp"
	for counter := 1; ; counter++ {
		_, err := os.Stat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("probing temporary session file %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s.tmp%d", target, counter)
	}
}
