package slidecast

import (
	"image"
	"testing"
)

type stubEncoder struct {
	frames    int
	finalized int
	aborted   int
}

func (s *stubEncoder) AddFrame(*image.RGBA) error { s.frames++; return nil }
func (s *stubEncoder) Finalize() ([]byte, string, error) {
	s.finalized++
	return []byte("payload"), "video/mp4", nil
}
func (s *stubEncoder) Abort() { s.aborted++ }

func TestRecordingLifecycle(t *testing.T) {
	enc := &stubEncoder{}
	rec := StartRecording(enc)
	if !rec.IsActive() {
		t.Fatal("fresh recording must be active")
	}

	frame := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := rec.AddFrame(frame); err != nil {
		t.Fatalf("AddFrame: %v", err)
	}

	data, mime, err := rec.Stop()
	if err != nil || string(data) != "payload" || mime != "video/mp4" {
		t.Fatalf("Stop = (%q, %q, %v)", data, mime, err)
	}
	if rec.IsActive() {
		t.Error("stopped recording must not be active")
	}
	if err := rec.AddFrame(frame); err == nil {
		t.Error("AddFrame after Stop must fail")
	}
}

func TestRecordingStopIsIdempotent(t *testing.T) {
	enc := &stubEncoder{}
	rec := StartRecording(enc)
	rec.Stop()
	data, _, err := rec.Stop()
	if err != nil || string(data) != "payload" {
		t.Errorf("second Stop = (%q, %v)", data, err)
	}
	if enc.finalized != 1 {
		t.Errorf("encoder finalized %d times", enc.finalized)
	}
}

func TestRecordingAbortIsIdempotent(t *testing.T) {
	enc := &stubEncoder{}
	rec := StartRecording(enc)
	rec.Abort()
	rec.Abort()
	if enc.aborted != 1 {
		t.Errorf("encoder aborted %d times", enc.aborted)
	}
	if _, _, err := rec.Stop(); !IsAbort(err) {
		t.Errorf("Stop after Abort = %v, want abort", err)
	}
}

func TestRecordingAbortAfterStopIsNoOp(t *testing.T) {
	enc := &stubEncoder{}
	rec := StartRecording(enc)
	rec.Stop()
	rec.Abort()
	if enc.aborted != 0 {
		t.Error("Abort after Stop must not reach the encoder")
	}
}
