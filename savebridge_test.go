package slidecast

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

// recordingBridge scripts accept/reject behavior and records the call
// sequence.
type recordingBridge struct {
	rejectBegin   bool
	rejectAtChunk int // 1-based; 0 accepts everything
	chunks        []string
	aborted       bool
	finished      bool
	calls         []string
}

func (b *recordingBridge) BeginDownload(name, mime string, total int) (bool, error) {
	b.calls = append(b.calls, "begin")
	return !b.rejectBegin, nil
}

func (b *recordingBridge) WriteChunk(chunk string) (bool, error) {
	b.calls = append(b.calls, "chunk")
	if b.rejectAtChunk > 0 && len(b.chunks)+1 >= b.rejectAtChunk {
		return false, nil
	}
	b.chunks = append(b.chunks, chunk)
	return true, nil
}

func (b *recordingBridge) FinishDownload() error {
	b.calls = append(b.calls, "finish")
	b.finished = true
	return nil
}

func (b *recordingBridge) AbortDownload() error {
	b.calls = append(b.calls, "abort")
	b.aborted = true
	return nil
}

func TestSaveThroughBridge(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, minSaveChunk*2+100)
	bridge := &recordingBridge{}

	var percents []int
	err := SaveThroughBridge(bridge, "out.mp4", "video/mp4", data, SaveOptions{
		ChunkSize:  minSaveChunk,
		OnProgress: func(p int) { percents = append(percents, p) },
	})
	if err != nil {
		t.Fatalf("SaveThroughBridge: %v", err)
	}
	if len(bridge.chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(bridge.chunks))
	}
	if !bridge.finished {
		t.Error("FinishDownload not called")
	}

	// Reassembled chunks must equal the original bytes.
	var got []byte
	for _, c := range bridge.chunks {
		raw, err := base64.StdEncoding.DecodeString(c)
		if err != nil {
			t.Fatalf("chunk not valid base64: %v", err)
		}
		got = append(got, raw...)
	}
	if !bytes.Equal(got, data) {
		t.Error("reassembled data differs from input")
	}

	for i := 1; i < len(percents); i++ {
		if percents[i] <= percents[i-1] {
			t.Fatalf("progress not strictly increasing: %v", percents)
		}
	}
	if percents[len(percents)-1] != 100 {
		t.Errorf("final progress = %d, want 100", percents[len(percents)-1])
	}
}

func TestSaveThroughBridgeRejectedChunkAborts(t *testing.T) {
	data := bytes.Repeat([]byte{1}, minSaveChunk*3)
	bridge := &recordingBridge{rejectAtChunk: 2}

	err := SaveThroughBridge(bridge, "out.mp4", "video/mp4", data, SaveOptions{ChunkSize: minSaveChunk})
	if err == nil {
		t.Fatal("expected an error for the rejected chunk")
	}
	if !IsKind(err, KindSaveBridge) {
		t.Errorf("error kind: %v", err)
	}
	if !bridge.aborted {
		t.Error("AbortDownload must be called for a rejected chunk")
	}
	// Abort comes before the error is surfaced, after the failing chunk.
	last := bridge.calls[len(bridge.calls)-1]
	if last != "abort" {
		t.Errorf("last bridge call = %q, want abort", last)
	}
	if bridge.finished {
		t.Error("FinishDownload must not run after a rejection")
	}
}

func TestSaveThroughBridgeRejectedBegin(t *testing.T) {
	bridge := &recordingBridge{rejectBegin: true}
	err := SaveThroughBridge(bridge, "x", "video/mp4", []byte{1, 2, 3}, SaveOptions{})
	if err == nil || !IsKind(err, KindSaveBridge) {
		t.Fatalf("expected a save bridge error, got %v", err)
	}
	if len(bridge.chunks) != 0 {
		t.Error("no chunks may be sent after a rejected begin")
	}
}

func TestSaveThroughBridgeCancelled(t *testing.T) {
	data := bytes.Repeat([]byte{1}, minSaveChunk*4)
	bridge := &recordingBridge{}
	token := NewCancelToken()
	token.Cancel()

	err := SaveThroughBridge(bridge, "x", "video/mp4", data, SaveOptions{ChunkSize: minSaveChunk, Token: token})
	if !IsAbort(err) {
		t.Fatalf("expected abort, got %v", err)
	}
	if !bridge.aborted {
		t.Error("cancelled save must abort the bridge transfer")
	}
}

func TestClampChunkSize(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, defaultSaveChunk},
		{-5, defaultSaveChunk},
		{1024, minSaveChunk},
		{minSaveChunk, minSaveChunk},
		{8 << 20, maxSaveChunk},
	}
	for _, tt := range tests {
		if got := clampChunkSize(tt.in); got != tt.want {
			t.Errorf("clampChunkSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFileSaveBridgeRoundtrip(t *testing.T) {
	dir := t.TempDir()
	bridge := &FileSaveBridge{Dir: dir}
	payload := []byte("not really a video")

	if err := SaveThroughBridge(bridge, "clip.mp4", "video/mp4", payload, SaveOptions{}); err != nil {
		t.Fatalf("SaveThroughBridge: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "clip.mp4"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("saved bytes differ from payload")
	}

	// No stray temp files left behind.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestFileSaveBridgeAbortCleansUp(t *testing.T) {
	dir := t.TempDir()
	bridge := &FileSaveBridge{Dir: dir}

	ok, err := bridge.BeginDownload("clip.mp4", "video/mp4", 10)
	if err != nil || !ok {
		t.Fatalf("begin: %v %v", ok, err)
	}
	if _, err := bridge.WriteChunk(base64.StdEncoding.EncodeToString([]byte("partial"))); err != nil {
		t.Fatalf("chunk: %v", err)
	}
	if err := bridge.AbortDownload(); err != nil {
		t.Fatalf("abort: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("aborted transfer left %d files behind", len(entries))
	}
}
