package session_test

import (
	"path/filepath"
	"testing"

	"github.com/wayscriber/wayscriber/internal/session"
)

func TestSessionFileNaming(t *testing.T) {
	options := session.NewOptions("/data", "wayland-1")

	if got := options.SessionFilePath(); got != filepath.Join("/data", "session-wayland_1.json") {
		t.Errorf("session path: %s", got)
	}

	if changed := options.SetOutputIdentity("eDP-1"); !changed {
		t.Error("binding an identity should move the target file")
	}
	if got := options.SessionFilePath(); got != filepath.Join("/data", "session-wayland_1-eDP_1.json") {
		t.Errorf("per-output session path: %s", got)
	}
	if got := options.BackupFilePath(); got != filepath.Join("/data", "session-wayland_1-eDP_1.json.bak") {
		t.Errorf("backup path: %s", got)
	}
	if got := options.LockFilePath(); got != filepath.Join("/data", "session-wayland_1-eDP_1.lock") {
		t.Errorf("lock path: %s", got)
	}

	if changed := options.SetOutputIdentity("eDP-1"); changed {
		t.Error("re-binding the same identity should report no change")
	}

	options.PerOutput = false
	options.SetOutputIdentity("HDMI-A-1")
	if got := options.SessionFilePath(); got != filepath.Join("/data", "session-wayland_1.json") {
		t.Errorf("identity must be ignored without per-output naming: %s", got)
	}
}

func TestResolveDisplayId(t *testing.T) {
	if got := session.ResolveDisplayId("wayland-7"); got != "wayland_7" {
		t.Errorf("explicit id: got %q", got)
	}
	t.Setenv("WAYLAND_DISPLAY", "wayland-0")
	if got := session.ResolveDisplayId(""); got != "wayland_0" {
		t.Errorf("env fallback: got %q", got)
	}
	t.Setenv("WAYLAND_DISPLAY", "")
	if got := session.ResolveDisplayId(""); got != "default" {
		t.Errorf("default fallback: got %q", got)
	}
}

func TestEffectiveHistoryLimit(t *testing.T) {
	options := session.NewOptions("/data", "d")

	if got := options.EffectiveHistoryLimit(50); got != 50 {
		t.Errorf("unlimited disk depth follows runtime: got %d", got)
	}
	options.MaxPersistedUndoDepth = 20
	if got := options.EffectiveHistoryLimit(50); got != 20 {
		t.Errorf("disk depth below runtime wins: got %d", got)
	}
	if got := options.EffectiveHistoryLimit(10); got != 10 {
		t.Errorf("runtime below disk depth wins: got %d", got)
	}
	options.PersistHistory = false
	if got := options.EffectiveHistoryLimit(50); got != 0 {
		t.Errorf("disabled history persists nothing: got %d", got)
	}
}

func TestApplyOverride(t *testing.T) {
	options := session.NewOptions("/data", "d")
	options.PersistTransparent = true

	options.ApplyOverride(session.ForceOff)
	if options.AnyEnabled() || options.RestoreToolState {
		t.Errorf("force-off should disable everything: %+v", options)
	}

	options.ApplyOverride(session.ForceOn)
	if !options.PersistTransparent || !options.PersistWhiteboard || !options.PersistBlackboard {
		t.Errorf("force-on should enable every board: %+v", options)
	}

	fresh := session.NewOptions("/data", "d")
	fresh.PersistWhiteboard = true
	fresh.ApplyOverride(session.FollowConfig)
	if fresh.PersistTransparent || !fresh.PersistWhiteboard {
		t.Errorf("follow-config must not touch flags: %+v", fresh)
	}
}
