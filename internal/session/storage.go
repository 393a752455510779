package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// ClearOutcome reports which on-disk artefacts were removed.
type ClearOutcome struct {
	RemovedSession bool
	RemovedBackup  bool
	RemovedLock    bool
}

// BoardCounts aggregates per-board figures for inspection output.
type BoardCounts struct {
	Transparent int
	Whiteboard  int
	Blackboard  int
}

// HistoryDepth is the persisted undo/redo size of one board.
type HistoryDepth struct {
	Undo int
	Redo int
}

func (h HistoryDepth) hasHistory() bool { return h.Undo > 0 || h.Redo > 0 }

// HistoryCounts holds the history depth per board.
type HistoryCounts struct {
	Transparent HistoryDepth
	Whiteboard  HistoryDepth
	Blackboard  HistoryDepth
}

func (h HistoryCounts) hasHistory() bool {
	return h.Transparent.hasHistory() || h.Whiteboard.hasHistory() || h.Blackboard.hasHistory()
}

// Inspection summarises the on-disk session for CLI reporting.
type Inspection struct {
	SessionPath string
	Exists      bool
	SizeBytes   int64
	Modified    time.Time

	BackupPath      string
	BackupExists    bool
	BackupSizeBytes int64

	ActiveIdentity string
	PerOutput      bool

	PersistTransparent bool
	PersistWhiteboard  bool
	PersistBlackboard  bool
	PersistHistory     bool
	RestoreToolState   bool
	HistoryLimit       int

	PageCounts       *BoardCounts
	ShapeCounts      *BoardCounts
	HistoryCounts    *HistoryCounts
	HistoryPresent   bool
	ToolStatePresent bool
	Compressed       bool
	FileVersion      uint32
}

// Clear removes the session file, its backup, and the lock file. With
// per-output naming and no identity bound yet, every file under the display
// prefix is removed.
func Clear(options *Options) (ClearOutcome, error) {
	var outcome ClearOutcome
	var err error

	if outcome.RemovedSession, err = removeIfExists(options.SessionFilePath()); err != nil {
		return outcome, err
	}
	if outcome.RemovedBackup, err = removeIfExists(options.BackupFilePath()); err != nil {
		return outcome, err
	}
	if outcome.RemovedLock, err = removeIfExists(options.LockFilePath()); err != nil {
		return outcome, err
	}

	if options.PerOutput && options.OutputIdentity() == "" {
		prefix := options.FilePrefix()
		if !outcome.RemovedSession {
			removed, err := removeMatching(options.BaseDir, prefix, ".json")
			if err != nil {
				return outcome, err
			}
			outcome.RemovedSession = removed
		}
		if !outcome.RemovedBackup {
			removed, err := removeMatching(options.BaseDir, prefix, ".json.bak")
			if err != nil {
				return outcome, err
			}
			outcome.RemovedBackup = removed
		}
		if !outcome.RemovedLock {
			removed, err := removeMatching(options.BaseDir, prefix, ".lock")
			if err != nil {
				return outcome, err
			}
			outcome.RemovedLock = removed
		}
	}

	return outcome, nil
}

// Inspect reads the session file (if any) and reports its contents without
// mutating anything. With per-output naming and no identity bound, the first
// matching variant is inspected.
func Inspect(options *Options) (*Inspection, error) {
	prefix := options.FilePrefix()
	sessionPath := options.SessionFilePath()
	identity := options.OutputIdentity()

	info, statErr := os.Stat(sessionPath)
	if statErr != nil && options.PerOutput && identity == "" {
		if path, id, ok := findVariant(options.BaseDir, prefix, ".json"); ok {
			sessionPath = path
			identity = id
			info, statErr = os.Stat(path)
		}
	}

	result := &Inspection{
		SessionPath:        sessionPath,
		Exists:             statErr == nil,
		ActiveIdentity:     identity,
		PerOutput:          options.PerOutput,
		PersistTransparent: options.PersistTransparent,
		PersistWhiteboard:  options.PersistWhiteboard,
		PersistBlackboard:  options.PersistBlackboard,
		PersistHistory:     options.PersistHistory,
		RestoreToolState:   options.RestoreToolState,
		HistoryLimit:       options.MaxPersistedUndoDepth,
		BackupPath:         options.BackupFilePath(),
	}
	if result.Exists {
		result.SizeBytes = info.Size()
		result.Modified = info.ModTime()
	}

	backupInfo, backupErr := os.Stat(result.BackupPath)
	if backupErr != nil && options.PerOutput && identity == "" {
		if path, _, ok := findVariant(options.BaseDir, prefix, ".json.bak"); ok {
			result.BackupPath = path
			backupInfo, backupErr = os.Stat(path)
		}
	}
	if backupErr == nil {
		result.BackupExists = true
		result.BackupSizeBytes = backupInfo.Size()
	}

	if !result.Exists {
		return result, nil
	}

	lockPath := strings.TrimSuffix(sessionPath, ".json") + ".lock"
	lock := flock.New(lockPath)
	locked, err := lock.TryRLock()
	if err != nil {
		return nil, fmt.Errorf("locking session file %s: %w", lockPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("inspecting session %s: %w", sessionPath, ErrLocked)
	}
	loaded, loadErr := loadLocked(sessionPath, options)
	lock.Unlock()
	if loadErr != nil {
		return nil, loadErr
	}
	if loaded == nil {
		return result, nil
	}

	snap := loaded.Snapshot
	result.PageCounts = &BoardCounts{
		Transparent: pageCount(snap.Transparent),
		Whiteboard:  pageCount(snap.Whiteboard),
		Blackboard:  pageCount(snap.Blackboard),
	}
	result.ShapeCounts = &BoardCounts{
		Transparent: shapeCount(snap.Transparent),
		Whiteboard:  shapeCount(snap.Whiteboard),
		Blackboard:  shapeCount(snap.Blackboard),
	}
	counts := &HistoryCounts{
		Transparent: historyDepth(snap.Transparent),
		Whiteboard:  historyDepth(snap.Whiteboard),
		Blackboard:  historyDepth(snap.Blackboard),
	}
	result.HistoryCounts = counts
	result.HistoryPresent = counts.hasHistory()
	result.ToolStatePresent = snap.ToolState != nil
	result.Compressed = loaded.Compressed
	result.FileVersion = loaded.Version
	return result, nil
}

func pageCount(board *BoardPagesSnapshot) int {
	if board == nil {
		return 0
	}
	return len(board.Pages)
}

func shapeCount(board *BoardPagesSnapshot) int {
	if board == nil {
		return 0
	}
	total := 0
	for _, page := range board.Pages {
		total += page.Len()
	}
	return total
}

func historyDepth(board *BoardPagesSnapshot) HistoryDepth {
	var depth HistoryDepth
	if board == nil {
		return depth
	}
	for _, page := range board.Pages {
		depth.Undo += page.UndoDepth()
		depth.Redo += page.RedoDepth()
	}
	return depth
}

func removeIfExists(path string) (bool, error) {
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("removing %s: %w", path, err)
}

func removeMatching(dir, prefix, suffix string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("listing session directory %s: %w", dir, err)
	}
	removed := false
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("removing %s: %w", path, err)
		}
		removed = true
	}
	return removed, nil
}

// findVariant locates the lexically first file matching prefix*suffix and
// extracts the output identity between them.
func findVariant(dir, prefix, suffix string) (string, string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", false
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", "", false
	}
	sort.Strings(names)
	name := names[0]
	identity := strings.TrimPrefix(name[len(prefix):len(name)-len(suffix)], "-")
	return filepath.Join(dir, name), identity, true
}
