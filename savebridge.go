package slidecast

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
)

// SaveBridge delivers a finished export to its destination in ordered,
// acknowledged chunks. Chunks are base64 text so the bridge can cross
// process or IPC boundaries that only carry strings. A call returning
// accepted=false means the receiver refused the transfer; the sender is
// expected to abort.
type SaveBridge interface {
	// BeginDownload announces a transfer of totalSize raw bytes.
	BeginDownload(name, mime string, totalSize int) (accepted bool, err error)
	// WriteChunk delivers the next base64-encoded chunk. Chunks arrive
	// strictly in order and the next chunk is not sent until this one
	// returns.
	WriteChunk(chunk string) (accepted bool, err error)
	// FinishDownload commits the transfer.
	FinishDownload() error
	// AbortDownload discards a partial transfer. Must be safe to call
	// after any failure, including before the first chunk.
	AbortDownload() error
}

// Save chunk sizing. Out-of-range requests clamp rather than fail.
const (
	minSaveChunk     = 16 << 10  // 16 KiB
	maxSaveChunk     = 4 << 20   // 4 MiB
	defaultSaveChunk = 256 << 10 // 256 KiB
)

// SaveOptions tunes one bridge transfer.
type SaveOptions struct {
	ChunkSize  int // raw bytes per chunk before base64; clamped to [16 KiB, 4 MiB]
	OnProgress func(percent int)
	Token      *CancelToken
}

func clampChunkSize(n int) int {
	if n <= 0 {
		return defaultSaveChunk
	}
	if n < minSaveChunk {
		return minSaveChunk
	}
	if n > maxSaveChunk {
		return maxSaveChunk
	}
	return n
}

// SaveThroughBridge streams data through the bridge. On any refusal,
// chunk error, or cancellation the partial transfer is aborted on the
// bridge before the error is returned, so the receiver never keeps a
// truncated file.
func SaveThroughBridge(bridge SaveBridge, name, mime string, data []byte, opts SaveOptions) error {
	if len(data) == 0 {
		return SaveBridgeError("nothing to save", nil)
	}
	chunkSize := clampChunkSize(opts.ChunkSize)

	accepted, err := bridge.BeginDownload(name, mime, len(data))
	if err != nil {
		return SaveBridgeError("begin download failed", err)
	}
	if !accepted {
		return SaveBridgeError("download rejected by receiver", nil)
	}

	chunks := (len(data) + chunkSize - 1) / chunkSize
	prog := progressReporter{total: chunks, fn: opts.OnProgress, last: -1}

	log().Debug().
		Str("name", name).
		Int("bytes", len(data)).
		Int("chunks", chunks).
		Msg("saving through bridge")

	for off := 0; off < len(data); off += chunkSize {
		if opts.Token.Cancelled() {
			_ = bridge.AbortDownload()
			return AbortError("save cancelled", nil)
		}
		end := off + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunk := base64.StdEncoding.EncodeToString(data[off:end])

		accepted, err := bridge.WriteChunk(chunk)
		if err != nil {
			_ = bridge.AbortDownload()
			return SaveBridgeError(fmt.Sprintf("chunk %d/%d failed", off/chunkSize+1, chunks), err)
		}
		if !accepted {
			_ = bridge.AbortDownload()
			return SaveBridgeError(fmt.Sprintf("chunk %d/%d rejected by receiver", off/chunkSize+1, chunks), nil)
		}
		prog.step()
	}

	if err := bridge.FinishDownload(); err != nil {
		_ = bridge.AbortDownload()
		return SaveBridgeError("finish download failed", err)
	}
	prog.finish()
	return nil
}

// FileSaveBridge lands transfers in a local directory, staging into a
// temp file and renaming on finish so a crash never leaves a partial
// file under the final name.
type FileSaveBridge struct {
	Dir string

	name string
	tmp  *os.File
}

func (f *FileSaveBridge) BeginDownload(name, mime string, totalSize int) (bool, error) {
	if f.tmp != nil {
		return false, fmt.Errorf("transfer already in progress")
	}
	dir := f.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, err
	}
	tmp, err := os.CreateTemp(dir, ".slidecast-save-*")
	if err != nil {
		return false, err
	}
	f.name = filepath.Base(name)
	f.tmp = tmp
	return true, nil
}

func (f *FileSaveBridge) WriteChunk(chunk string) (bool, error) {
	if f.tmp == nil {
		return false, fmt.Errorf("no transfer in progress")
	}
	raw, err := base64.StdEncoding.DecodeString(chunk)
	if err != nil {
		return false, err
	}
	if _, err := f.tmp.Write(raw); err != nil {
		return false, err
	}
	return true, nil
}

func (f *FileSaveBridge) FinishDownload() error {
	if f.tmp == nil {
		return fmt.Errorf("no transfer in progress")
	}
	tmpPath := f.tmp.Name()
	if err := f.tmp.Close(); err != nil {
		f.tmp = nil
		os.Remove(tmpPath)
		return err
	}
	f.tmp = nil
	dir := f.Dir
	if dir == "" {
		dir = "."
	}
	return os.Rename(tmpPath, filepath.Join(dir, f.name))
}

func (f *FileSaveBridge) AbortDownload() error {
	if f.tmp == nil {
		return nil
	}
	tmpPath := f.tmp.Name()
	f.tmp.Close()
	f.tmp = nil
	return os.Remove(tmpPath)
}
