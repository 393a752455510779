package capture

import "log/slog"

// Phase is the coordinator's single-flight state.
type Phase int

// Coordinator phases, in handshake order.
const (
	// Idle means no capture is queued or running.
	Idle Phase = iota
	// Queued holds a request that has not yet scheduled a render.
	Queued
	// AwaitingRender means the overlay-suppression render is scheduled but
	// not yet drawn.
	AwaitingRender
	// AwaitingFrameCallback means the suppression frame was rendered and the
	// coordinator is waiting for the compositor to confirm it.
	AwaitingFrameCallback
	// InFlight brackets the external acquisition.
	InFlight
	// Completed means the last capture finished and its result may be
	// waiting in the slot.
	Completed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Queued:
		return "queued"
	case AwaitingRender:
		return "awaiting_render"
	case AwaitingFrameCallback:
		return "awaiting_frame_callback"
	case InFlight:
		return "in_flight"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Coordinator serialises captures so a grab never runs before the overlay
// has been committed without its own pixels. It is driven synchronously by
// the owning loop; the shell performs the grab elsewhere and posts the
// result back through the slot.
type Coordinator struct {
	phase         Phase
	pending       *Request
	exitOnSuccess bool
	result        *Result
}

// NewCoordinator returns an idle coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Phase returns the current handshake phase.
func (c *Coordinator) Phase() Phase { return c.phase }

// Busy reports whether a capture is queued or running.
func (c *Coordinator) Busy() bool {
	return c.phase != Idle && c.phase != Completed
}

// QueuePreflight accepts a request when no capture is in flight. Returns
// false (and drops the request) otherwise.
func (c *Coordinator) QueuePreflight(req Request) bool {
	if c.Busy() {
		slog.Warn("capture already in progress, ignoring request",
			"phase", c.phase.String(), "type", req.Type.String())
		return false
	}
	c.phase = Queued
	c.pending = &req
	c.result = nil
	slog.Debug("capture queued", "id", req.Id, "type", req.Type.String(),
		"destination", string(req.Destination))
	return true
}

// MarkRenderScheduled advances Queued to AwaitingRender once the shell has
// scheduled the overlay-suppression render.
func (c *Coordinator) MarkRenderScheduled() {
	if c.phase == Queued {
		c.phase = AwaitingRender
	}
}

// MarkPreflightRendered records that the suppression frame was drawn and
// committed; the request becomes takeable.
func (c *Coordinator) MarkPreflightRendered() {
	if c.phase == Queued || c.phase == AwaitingRender {
		c.phase = AwaitingFrameCallback
	}
}

// TakePreflightRequest hands the queued request to the shell exactly once,
// and only after the suppression frame was confirmed. Earlier and repeated
// calls return false.
func (c *Coordinator) TakePreflightRequest() (Request, bool) {
	if c.phase != AwaitingFrameCallback || c.pending == nil {
		return Request{}, false
	}
	req := *c.pending
	c.pending = nil
	return req, true
}

// MarkInProgress brackets the start of the external grab.
func (c *Coordinator) MarkInProgress() {
	c.phase = InFlight
}

// ClearInProgress ends the external grab, successful or not.
func (c *Coordinator) ClearInProgress() {
	if c.phase == InFlight {
		c.phase = Completed
	}
}

// Reset abandons any queued request and returns to Idle. Used by the shell
// when a capture times out or the overlay restores early.
func (c *Coordinator) Reset() {
	c.phase = Idle
	c.pending = nil
}

// SetExitOnSuccess stores the one-shot-mode flag carried alongside the
// capture.
func (c *Coordinator) SetExitOnSuccess(exit bool) {
	c.exitOnSuccess = exit
}

// TakeExitOnSuccess consumes the one-shot-mode flag.
func (c *Coordinator) TakeExitOnSuccess() bool {
	exit := c.exitOnSuccess
	c.exitOnSuccess = false
	return exit
}

// DeliverResult posts the grab outcome into the result slot.
func (c *Coordinator) DeliverResult(res Result) {
	c.result = &res
}

// PollResult drains the result slot.
func (c *Coordinator) PollResult() (Result, bool) {
	if c.result == nil {
		return Result{}, false
	}
	res := *c.result
	c.result = nil
	return res, true
}
