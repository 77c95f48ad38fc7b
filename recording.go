package slidecast

import (
	"image"
	"sync"
)

// Recording is the explicit owned handle over one in-progress encode.
// There is no ambient "current recording": the owner that starts it is
// the only party that can feed, stop, or abort it. Stop and Abort are
// idempotent so overlapping teardown paths stay safe.
type Recording struct {
	mu     sync.Mutex
	enc    Encoder
	active bool

	data []byte
	mime string
	err  error
}

// StartRecording opens a handle over enc and marks it active.
func StartRecording(enc Encoder) *Recording {
	return &Recording{enc: enc, active: true}
}

// IsActive reports whether frames can still be added.
func (r *Recording) IsActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// AddFrame forwards one frame to the encoder. Fails once the recording
// has been stopped or aborted.
func (r *Recording) AddFrame(frame *image.RGBA) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return RenderError("recording is not active", nil)
	}
	return r.enc.AddFrame(frame)
}

// Stop finalizes the encode and returns the container bytes and MIME
// type. Calling Stop again returns the first result; Stop after Abort
// reports the abort.
func (r *Recording) Stop() ([]byte, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		r.active = false
		r.data, r.mime, r.err = r.enc.Finalize()
	}
	return r.data, r.mime, r.err
}

// Abort discards the encode without producing output. Idempotent, and a
// no-op after Stop.
func (r *Recording) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return
	}
	r.active = false
	r.err = AbortError("recording aborted", nil)
	r.enc.Abort()
}
