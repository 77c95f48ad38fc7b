package slidecast

import (
	"context"
	"sync"
)

// SessionPhase is the lifecycle position of an ExportSession.
type SessionPhase string

const (
	PhaseIdle      SessionPhase = "idle"
	PhaseRendering SessionPhase = "rendering"
	PhaseRendered  SessionPhase = "rendered"
	PhaseSaving    SessionPhase = "saving"
	PhaseComplete  SessionPhase = "complete"
	PhaseError     SessionPhase = "error"
	PhaseCancelled SessionPhase = "cancelled"
)

// ExportSession drives one export end to end: render the deck to video
// bytes, hold them, then stream them through a save bridge. Phases move
// idle → rendering → rendered → saving → complete; cancellation and
// failure park the session in cancelled or error until Reset.
//
// Export and Save are synchronous; run them from a worker goroutine and
// call Cancel from anywhere.
type ExportSession struct {
	mu       sync.Mutex
	phase    SessionPhase
	renderer *FrameRenderer
	token    *CancelToken
	result   *VideoResult
	err      error

	// OnPhase, when set, observes every phase transition.
	OnPhase func(SessionPhase)
}

// NewExportSession starts in the idle phase.
func NewExportSession(renderer *FrameRenderer) *ExportSession {
	return &ExportSession{phase: PhaseIdle, renderer: renderer}
}

// Phase returns the current phase.
func (es *ExportSession) Phase() SessionPhase {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.phase
}

// Err returns the failure that parked the session in the error phase.
func (es *ExportSession) Err() error {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.err
}

// Bytes returns the rendered video when one is held.
func (es *ExportSession) Bytes() (data []byte, mime string, ok bool) {
	es.mu.Lock()
	defer es.mu.Unlock()
	if es.result == nil {
		return nil, "", false
	}
	return es.result.Data, es.result.MIME, true
}

func (es *ExportSession) setPhase(p SessionPhase) {
	es.mu.Lock()
	es.phase = p
	cb := es.OnPhase
	es.mu.Unlock()
	if cb != nil {
		cb(p)
	}
}

// Export renders the deck. Valid only from idle; the session installs
// its own cancel token, so any token in opts is replaced.
func (es *ExportSession) Export(ctx context.Context, deck []Slide, opts VideoOptions) error {
	es.mu.Lock()
	if es.phase != PhaseIdle {
		phase := es.phase
		es.mu.Unlock()
		return RenderError("export not allowed in phase "+string(phase), nil)
	}
	es.phase = PhaseRendering
	es.token = NewCancelToken()
	es.err = nil
	es.result = nil
	opts.Token = es.token
	cb := es.OnPhase
	es.mu.Unlock()
	if cb != nil {
		cb(PhaseRendering)
	}

	token := opts.Token
	result, err := ExportVideo(ctx, es.renderer, deck, opts)
	if err != nil {
		es.fail(token, err)
		return err
	}

	es.mu.Lock()
	if es.token != token {
		// Reset superseded this export while it was finishing.
		es.mu.Unlock()
		return AbortError("export superseded by reset", nil)
	}
	es.result = result
	es.mu.Unlock()
	es.setPhase(PhaseRendered)
	return nil
}

// Save streams the held video through the bridge. Valid only from
// rendered. The rendered bytes survive a failed or cancelled save, so
// the save can be retried after Reset(true).
func (es *ExportSession) Save(bridge SaveBridge, name string, opts SaveOptions) error {
	es.mu.Lock()
	if es.phase != PhaseRendered {
		phase := es.phase
		es.mu.Unlock()
		return SaveBridgeError("save not allowed in phase "+string(phase), nil)
	}
	result := es.result
	es.phase = PhaseSaving
	es.token = NewCancelToken()
	opts.Token = es.token
	cb := es.OnPhase
	es.mu.Unlock()
	if cb != nil {
		cb(PhaseSaving)
	}

	token := opts.Token
	if err := SaveThroughBridge(bridge, name, result.MIME, result.Data, opts); err != nil {
		es.fail(token, err)
		return err
	}
	es.mu.Lock()
	if es.token != token {
		es.mu.Unlock()
		return AbortError("save superseded by reset", nil)
	}
	es.mu.Unlock()
	es.setPhase(PhaseComplete)
	return nil
}

// fail records err and parks the session, unless a Reset already
// replaced the token, in which case the reset's phase stands.
func (es *ExportSession) fail(token *CancelToken, err error) {
	es.mu.Lock()
	if es.token != token {
		es.mu.Unlock()
		return
	}
	es.err = err
	es.mu.Unlock()
	if IsAbort(err) {
		es.setPhase(PhaseCancelled)
	} else {
		es.setPhase(PhaseError)
	}
}

// Cancel requests cancellation of the in-flight render or save. A
// no-op in any other phase.
func (es *ExportSession) Cancel() {
	es.mu.Lock()
	token := es.token
	phase := es.phase
	es.mu.Unlock()
	if phase == PhaseRendering || phase == PhaseSaving {
		token.Cancel()
	}
}

// Reset returns the session to idle, best-effort cancelling any render
// or save still in flight. With retain true the rendered bytes are kept
// (a cancelled save can be retried without re-rendering); with retain
// false they are released along with the renderer's hero cache.
func (es *ExportSession) Reset(retain bool) {
	es.mu.Lock()
	es.token.Cancel()
	if !retain {
		es.result = nil
	}
	es.err = nil
	es.token = nil
	resultKept := es.result != nil
	renderer := es.renderer
	es.mu.Unlock()

	if !retain && renderer != nil && renderer.heroes != nil {
		renderer.heroes.Dispose()
	}
	if resultKept {
		es.setPhase(PhaseRendered)
	} else {
		es.setPhase(PhaseIdle)
	}
}
