package slidecast

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"
)

// Encoder consumes rendered frames one at a time and produces the final
// container bytes. Frames must all share the dimensions the encoder was
// created with.
type Encoder interface {
	AddFrame(frame *image.RGBA) error
	// Finalize flushes the stream and returns the container bytes and
	// their MIME type. The encoder is unusable afterwards.
	Finalize() ([]byte, string, error)
	// Abort releases resources without producing output.
	Abort()
}

// EncoderConfig fixes the stream geometry for a whole export.
type EncoderConfig struct {
	Width  int
	Height int
	FPS    int
}

// NewEncoder picks the best available encoder: H.264 MP4 through an
// ffmpeg binary on PATH when present, otherwise a pure-Go MJPEG AVI.
// The capability probe happens here, at encode start, so a deck can be
// edited and previewed on machines with no encoder at all.
func NewEncoder(cfg EncoderConfig) (Encoder, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.FPS <= 0 {
		return nil, ConfigError(fmt.Sprintf("invalid encoder geometry %dx%d@%d", cfg.Width, cfg.Height, cfg.FPS), nil)
	}
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		enc, err := newFFmpegEncoder(path, cfg)
		if err == nil {
			return enc, nil
		}
		log().Warn().Err(err).Msg("ffmpeg start failed, falling back to mjpeg")
	}
	return newMJPEGEncoder(cfg)
}

// FFmpegEncoder pipes raw RGBA frames into an ffmpeg child process and
// collects a fragmented MP4 from its stdout.
type FFmpegEncoder struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	out    bytes.Buffer
	errBuf bytes.Buffer
	cfg    EncoderConfig
	done   bool
}

func newFFmpegEncoder(binary string, cfg EncoderConfig) (*FFmpegEncoder, error) {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"-r", fmt.Sprintf("%d", cfg.FPS),
		"-i", "pipe:0",
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "20",
		"-pix_fmt", "yuv420p",
		// stdout is not seekable, so the moov atom must be fragmented
		"-movflags", "frag_keyframe+empty_moov",
		"-f", "mp4",
		"pipe:1",
	}
	cmd := exec.Command(binary, args...)
	enc := &FFmpegEncoder{cmd: cmd, cfg: cfg}
	cmd.Stdout = &enc.out
	cmd.Stderr = &enc.errBuf

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, RenderError("ffmpeg stdin pipe", err)
	}
	enc.stdin = stdin
	if err := cmd.Start(); err != nil {
		return nil, RenderError("start ffmpeg", err)
	}
	return enc, nil
}

func (e *FFmpegEncoder) AddFrame(frame *image.RGBA) error {
	if e.done {
		return RenderError("encoder already finalized", nil)
	}
	b := frame.Bounds()
	if b.Dx() != e.cfg.Width || b.Dy() != e.cfg.Height {
		return RenderError(fmt.Sprintf("frame size %dx%d does not match stream %dx%d", b.Dx(), b.Dy(), e.cfg.Width, e.cfg.Height), nil)
	}
	// RGBA pixel rows may carry stride padding; write row by row.
	rowBytes := e.cfg.Width * 4
	for y := 0; y < e.cfg.Height; y++ {
		off := y * frame.Stride
		if _, err := e.stdin.Write(frame.Pix[off : off+rowBytes]); err != nil {
			return RenderError("write frame to ffmpeg", err)
		}
	}
	return nil
}

func (e *FFmpegEncoder) Finalize() ([]byte, string, error) {
	if e.done {
		return nil, "", RenderError("encoder already finalized", nil)
	}
	e.done = true
	e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		msg := strings.TrimSpace(e.errBuf.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, "", RenderError("ffmpeg encode failed: "+msg, err)
	}
	return e.out.Bytes(), "video/mp4", nil
}

func (e *FFmpegEncoder) Abort() {
	if e.done {
		return
	}
	e.done = true
	e.stdin.Close()
	_ = e.cmd.Process.Kill()
	_ = e.cmd.Wait()
}
