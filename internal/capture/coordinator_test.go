package capture_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wayscriber/wayscriber/internal/capture"
)

func TestPreflightRequestHeldUntilFrameConfirmed(t *testing.T) {
	coord := capture.NewCoordinator()
	req := capture.NewRequest(capture.FullScreen{}, capture.ClipboardOnly, nil)

	if !coord.QueuePreflight(req) {
		t.Fatal("QueuePreflight rejected request on idle coordinator")
	}
	if _, ok := coord.TakePreflightRequest(); ok {
		t.Fatal("request handed out before the suppression frame rendered")
	}

	coord.MarkRenderScheduled()
	if _, ok := coord.TakePreflightRequest(); ok {
		t.Fatal("request handed out while still awaiting render")
	}

	coord.MarkPreflightRendered()
	got, ok := coord.TakePreflightRequest()
	if !ok {
		t.Fatal("request not available after frame confirmation")
	}
	if got.Id != req.Id {
		t.Fatalf("request id = %v, want %v", got.Id, req.Id)
	}

	if _, ok := coord.TakePreflightRequest(); ok {
		t.Fatal("request handed out twice")
	}
}

func TestQueueRejectsWhileBusy(t *testing.T) {
	coord := capture.NewCoordinator()
	first := capture.NewRequest(capture.ActiveWindow{}, capture.FileOnly, nil)
	if !coord.QueuePreflight(first) {
		t.Fatal("first request rejected")
	}
	if coord.QueuePreflight(capture.NewRequest(capture.FullScreen{}, capture.ClipboardOnly, nil)) {
		t.Fatal("second request accepted while first still queued")
	}

	coord.MarkPreflightRendered()
	if _, ok := coord.TakePreflightRequest(); !ok {
		t.Fatal("first request lost")
	}
	coord.MarkInProgress()
	if coord.Phase() != capture.InFlight {
		t.Fatalf("phase = %v, want in_flight", coord.Phase())
	}
	if coord.QueuePreflight(capture.NewRequest(capture.FullScreen{}, capture.ClipboardOnly, nil)) {
		t.Fatal("request accepted while a grab was in flight")
	}

	coord.ClearInProgress()
	if coord.Phase() != capture.Completed {
		t.Fatalf("phase = %v, want completed", coord.Phase())
	}
	if !coord.QueuePreflight(capture.NewRequest(capture.FullScreen{}, capture.ClipboardOnly, nil)) {
		t.Fatal("request rejected after previous capture completed")
	}
}

func TestExitOnSuccessFlagConsumedOnce(t *testing.T) {
	coord := capture.NewCoordinator()
	coord.SetExitOnSuccess(true)
	if !coord.TakeExitOnSuccess() {
		t.Fatal("flag lost")
	}
	if coord.TakeExitOnSuccess() {
		t.Fatal("flag survived a take")
	}
}

func TestResultSlotDrains(t *testing.T) {
	coord := capture.NewCoordinator()
	if _, ok := coord.PollResult(); ok {
		t.Fatal("empty slot reported a result")
	}

	req := capture.NewRequest(capture.Selection{X: 10, Y: 20, W: 300, H: 200}, capture.ClipboardAndFile, nil)
	coord.DeliverResult(capture.Result{RequestId: req.Id, Image: []byte{0x89, 'P', 'N', 'G'}})

	res, ok := coord.PollResult()
	if !ok {
		t.Fatal("delivered result not returned")
	}
	if res.RequestId != req.Id {
		t.Fatalf("result id = %v, want %v", res.RequestId, req.Id)
	}
	if _, ok := coord.PollResult(); ok {
		t.Fatal("result returned twice")
	}
}

func TestDestinationFlags(t *testing.T) {
	cases := []struct {
		dest      capture.Destination
		clipboard bool
		file      bool
	}{
		{capture.ClipboardOnly, true, false},
		{capture.FileOnly, false, true},
		{capture.ClipboardAndFile, true, true},
	}
	for _, tc := range cases {
		if got := tc.dest.WantsClipboard(); got != tc.clipboard {
			t.Errorf("%s WantsClipboard = %v, want %v", tc.dest, got, tc.clipboard)
		}
		if got := tc.dest.WantsFile(); got != tc.file {
			t.Errorf("%s WantsFile = %v, want %v", tc.dest, got, tc.file)
		}
	}
}

func TestFilenameTemplate(t *testing.T) {
	config := capture.FileSaveConfig{
		FilenameTemplate: "shot_%Y-%m-%d_%H%M%S_100%%",
		Format:           "png",
	}
	at := time.Date(2026, time.March, 7, 9, 5, 2, 0, time.UTC)
	got := config.Filename(at)
	want := "shot_2026-03-07_090502_100%.png"
	if got != want {
		t.Fatalf("Filename = %q, want %q", got, want)
	}
}

func TestSaveScreenshotCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "shots")
	config := capture.FileSaveConfig{
		Directory:        dir,
		FilenameTemplate: "capture_%Y%m%d",
		Format:           "png",
	}

	path, err := capture.SaveScreenshot([]byte("not-a-real-png"), config)
	if err != nil {
		t.Fatalf("SaveScreenshot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved screenshot: %v", err)
	}
	if string(data) != "not-a-real-png" {
		t.Fatalf("saved bytes = %q", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("file mode = %o, want 600", perm)
	}
}
