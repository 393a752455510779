// Package capture coordinates screenshot acquisition with the compositor.
// The engine never grabs pixels itself; it queues a request, waits for the
// shell to commit an overlay-suppression frame, and hands the request back
// exactly once after that frame is confirmed. The actual grab and clipboard
// work happen on the shell's runtime and feed a result slot the engine polls.
package capture

import (
	"fmt"

	"github.com/google/uuid"
)

// Type is the tagged variant describing what to grab.
type Type interface {
	isCaptureType()
	String() string
}

// FullScreen grabs the entire output.
type FullScreen struct{}

// ActiveWindow grabs the focused toplevel.
type ActiveWindow struct{}

// Selection grabs a user-chosen rectangle in surface-local pixels.
type Selection struct {
	X int
	Y int
	W int
	H int
}

func (FullScreen) isCaptureType()   {}
func (ActiveWindow) isCaptureType() {}
func (Selection) isCaptureType()    {}

func (FullScreen) String() string   { return "full screen" }
func (ActiveWindow) String() string { return "active window" }
func (s Selection) String() string {
	return fmt.Sprintf("selection %dx%d at (%d, %d)", s.W, s.H, s.X, s.Y)
}

// Destination says where the grabbed image goes.
type Destination string

// Capture destinations.
const (
	ClipboardOnly    Destination = "clipboard_only"
	FileOnly         Destination = "file_only"
	ClipboardAndFile Destination = "clipboard_and_file"
)

// WantsClipboard reports whether the destination includes the clipboard.
func (d Destination) WantsClipboard() bool {
	return d == ClipboardOnly || d == ClipboardAndFile
}

// WantsFile reports whether the destination includes a file on disk.
func (d Destination) WantsFile() bool {
	return d == FileOnly || d == ClipboardAndFile
}

// Request is one queued capture. Save is nil when the destination never
// touches disk.
type Request struct {
	Id          uuid.UUID
	Type        Type
	Destination Destination
	Save        *FileSaveConfig
}

// NewRequest assigns a fresh id to a capture description.
func NewRequest(t Type, dest Destination, save *FileSaveConfig) Request {
	return Request{Id: uuid.New(), Type: t, Destination: dest, Save: save}
}

// Result is what the shell delivers after the grab finishes.
type Result struct {
	RequestId         uuid.UUID
	Image             []byte
	SavedPath         string
	CopiedToClipboard bool
	Err               error
}
