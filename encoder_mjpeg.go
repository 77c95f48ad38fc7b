package slidecast

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"

	"github.com/icza/mjpeg"
)

// MJPEGEncoder is the pure-Go fallback when no ffmpeg binary is
// available: frames are JPEG-compressed into a Motion-JPEG AVI. The AVI
// index has to be written at a known offset, so the stream goes through
// a temp file and is read back on Finalize.
type MJPEGEncoder struct {
	writer  mjpeg.AviWriter
	path    string
	quality int
	done    bool
}

const mjpegQuality = 85

func newMJPEGEncoder(cfg EncoderConfig) (*MJPEGEncoder, error) {
	tmp, err := os.CreateTemp("", "slidecast-*.avi")
	if err != nil {
		return nil, RenderError("create temp avi", err)
	}
	path := tmp.Name()
	tmp.Close()

	w, err := mjpeg.New(path, int32(cfg.Width), int32(cfg.Height), int32(cfg.FPS))
	if err != nil {
		os.Remove(path)
		return nil, RenderError("open avi writer", err)
	}
	return &MJPEGEncoder{writer: w, path: path, quality: mjpegQuality}, nil
}

func (e *MJPEGEncoder) AddFrame(frame *image.RGBA) error {
	if e.done {
		return RenderError("encoder already finalized", nil)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: e.quality}); err != nil {
		return RenderError("jpeg encode frame", err)
	}
	if err := e.writer.AddFrame(buf.Bytes()); err != nil {
		return RenderError("write avi frame", err)
	}
	return nil
}

func (e *MJPEGEncoder) Finalize() ([]byte, string, error) {
	if e.done {
		return nil, "", RenderError("encoder already finalized", nil)
	}
	e.done = true
	defer os.Remove(e.path)
	if err := e.writer.Close(); err != nil {
		return nil, "", RenderError("close avi writer", err)
	}
	data, err := os.ReadFile(e.path)
	if err != nil {
		return nil, "", RenderError("read avi output", err)
	}
	return data, "video/x-msvideo", nil
}

func (e *MJPEGEncoder) Abort() {
	if e.done {
		return
	}
	e.done = true
	_ = e.writer.Close()
	os.Remove(e.path)
}

var _ Encoder = (*MJPEGEncoder)(nil)
var _ Encoder = (*FFmpegEncoder)(nil)
