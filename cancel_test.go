package slidecast

import "testing"

func TestCancelToken(t *testing.T) {
	token := NewCancelToken()
	if token.Cancelled() {
		t.Error("fresh token must not be cancelled")
	}
	token.Cancel()
	token.Cancel() // idempotent
	if !token.Cancelled() {
		t.Error("token must report cancelled after Cancel")
	}
	select {
	case <-token.Done():
	default:
		t.Error("Done channel must be closed after Cancel")
	}
}

func TestCancelTokenNilSafe(t *testing.T) {
	var token *CancelToken
	token.Cancel()
	if token.Cancelled() {
		t.Error("nil token must never report cancelled")
	}
	select {
	case <-token.Done():
		t.Error("nil token Done must never receive")
	default:
	}
}
