// Package scan implements the one-shot QR capture session around an
// exclusively owned camera resource.
package scan

import (
	"image"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/7mk4a/college-map/internal/async"
)

// Phase is the capture session lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseScanning
	PhaseCaptured
	PhaseError
)

// CaptureConfig is passed to the camera on acquisition.
type CaptureConfig struct {
	FPS     int // target decode frame rate
	BoxSize int // detection region edge, pixels
}

// Camera grants exclusive access to a device video-capture capability.
// Acquire must fail fast when the device cannot be granted, never queue.
type Camera interface {
	Acquire(cfg CaptureConfig) (FrameSource, error)
}

// FrameSource is a live stream of camera frames. Release stops frame
// delivery immediately, closes the Frames channel and frees the device;
// it must be idempotent.
type FrameSource interface {
	Frames() <-chan image.Image
	Release()
}

// Decoder is the black-box QR decoder applied to each frame. A frame with
// no code in view returns an error; that is the expected steady state.
type Decoder interface {
	Decode(img image.Image) (string, error)
}

// DefaultCloseDelay keeps the success confirmation visible before the
// session dismisses itself.
const DefaultCloseDelay = 5 * time.Second

// Session owns the camera for the duration of one scan and accepts at most
// one decode. State is only touched on the game loop; the frame-decode
// goroutine posts accepted decodes through the dispatch queue.
type Session struct {
	Phase  Phase
	Result string
	ErrMsg string

	// OnResult publishes the trimmed decode as the selected start location.
	OnResult func(text string)

	// CloseDelay is how long Captured lingers before the automatic close.
	CloseDelay time.Duration

	camera   Camera
	decoder  Decoder
	config   CaptureConfig
	queue    *async.Queue
	source   FrameSource
	released bool
}

func NewSession(camera Camera, decoder Decoder, cfg CaptureConfig, queue *async.Queue) *Session {
	return &Session{
		CloseDelay: DefaultCloseDelay,
		camera:     camera,
		decoder:    decoder,
		config:     cfg,
		queue:      queue,
	}
}

// Start acquires the camera and begins the continuous per-frame decode. A
// denied or unavailable camera surfaces as the Error phase with the device
// message; nothing is acquired in that case.
func (s *Session) Start() {
	if s.Phase == PhaseScanning {
		return
	}
	s.Result = ""
	s.ErrMsg = ""

	source, err := s.camera.Acquire(s.config)
	if err != nil {
		log.Errorf("camera acquire: %v", err)
		s.Phase = PhaseError
		s.ErrMsg = err.Error()
		return
	}

	s.source = source
	s.released = false
	s.Phase = PhaseScanning

	go func() {
		for frame := range source.Frames() {
			text, decodeErr := s.decoder.Decode(frame)
			if decodeErr != nil {
				// No code in view; keep scanning.
				continue
			}
			s.queue.Post(func() {
				s.accept(text)
			})
		}
	}()
}

// accept handles a decoded frame. Only the first decode of a session wins;
// later decodes arriving before the session closes are dropped.
func (s *Session) accept(text string) {
	if s.Phase != PhaseScanning {
		return
	}
	trimmed := strings.TrimSpace(text)
	s.Result = trimmed
	s.Phase = PhaseCaptured
	log.Infof("qr captured: %s", trimmed)

	if s.OnResult != nil {
		s.OnResult(trimmed)
	}

	time.AfterFunc(s.CloseDelay, func() {
		s.queue.Post(s.Close)
	})
}

// Stop aborts a scan in progress and releases the camera.
func (s *Session) Stop() {
	s.release()
	if s.Phase == PhaseScanning {
		s.Phase = PhaseIdle
	}
}

// Close releases the camera unconditionally and returns the session to
// Idle. Safe from any phase, on every exit path, any number of times.
func (s *Session) Close() {
	s.release()
	s.Phase = PhaseIdle
}

func (s *Session) release() {
	if s.source == nil || s.released {
		return
	}
	s.source.Release()
	s.released = true
}
