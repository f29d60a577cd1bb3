package scan

import (
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/7mk4a/college-map/internal/async"
)

type fakeSource struct {
	frames   chan image.Image
	mu       sync.Mutex
	releases int
}

func newFakeSource() *fakeSource {
	return &fakeSource{frames: make(chan image.Image, 8)}
}

func (f *fakeSource) Frames() <-chan image.Image { return f.frames }

func (f *fakeSource) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	if f.releases == 1 {
		close(f.frames)
	}
}

func (f *fakeSource) releaseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.releases
}

type fakeCamera struct {
	source *fakeSource
	err    error
}

func (c *fakeCamera) Acquire(cfg CaptureConfig) (FrameSource, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.source, nil
}

// widthDecoder decodes a frame by its pixel width; unmapped widths are the
// "no code in view" steady state.
type widthDecoder map[int]string

func (d widthDecoder) Decode(img image.Image) (string, error) {
	if text, ok := d[img.Bounds().Dx()]; ok {
		return text, nil
	}
	return "", errors.New("no code found")
}

func frame(width int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, width, 1))
}

func drainNextPost(t *testing.T, q *async.Queue) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if q.Len() > 0 {
			q.Drain()
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("no callback posted before deadline")
}

func TestFirstDecodeWinsAndIsTrimmed(t *testing.T) {
	source := newFakeSource()
	camera := &fakeCamera{source: source}
	decoder := widthDecoder{1: "  A101  ", 2: "B202"}
	q := async.NewQueue()

	s := NewSession(camera, decoder, CaptureConfig{FPS: 10, BoxSize: 250}, q)
	s.CloseDelay = time.Hour // keep the session open for the whole test

	var published []string
	s.OnResult = func(text string) { published = append(published, text) }

	s.Start()
	if s.Phase != PhaseScanning {
		t.Fatalf("phase after Start = %d, want Scanning", s.Phase)
	}

	source.frames <- frame(1)
	drainNextPost(t, q)

	if s.Phase != PhaseCaptured {
		t.Errorf("phase = %d, want Captured", s.Phase)
	}
	if s.Result != "A101" {
		t.Errorf("result = %q, want trimmed A101", s.Result)
	}
	if len(published) != 1 || published[0] != "A101" {
		t.Errorf("published = %v, want exactly [A101]", published)
	}

	// A second decode before the session closes must be ignored.
	source.frames <- frame(2)
	drainNextPost(t, q)
	if s.Result != "A101" || len(published) != 1 {
		t.Errorf("second decode changed state: result=%q published=%v", s.Result, published)
	}

	s.Close()
	if source.releaseCount() != 1 {
		t.Errorf("releases = %d, want 1", source.releaseCount())
	}
}

func TestAutoCloseAfterCapture(t *testing.T) {
	source := newFakeSource()
	camera := &fakeCamera{source: source}
	q := async.NewQueue()

	s := NewSession(camera, widthDecoder{1: "A101"}, CaptureConfig{}, q)
	s.CloseDelay = 10 * time.Millisecond
	s.Start()

	source.frames <- frame(1)
	drainNextPost(t, q)
	if s.Phase != PhaseCaptured {
		t.Fatalf("phase = %d, want Captured", s.Phase)
	}

	// The scheduled close posts after CloseDelay.
	drainNextPost(t, q)
	if s.Phase != PhaseIdle {
		t.Errorf("phase after auto-close = %d, want Idle", s.Phase)
	}
	if source.releaseCount() != 1 {
		t.Errorf("releases = %d, want exactly 1", source.releaseCount())
	}
}

func TestStopAndCloseAreIdempotent(t *testing.T) {
	source := newFakeSource()
	camera := &fakeCamera{source: source}
	q := async.NewQueue()

	s := NewSession(camera, widthDecoder{}, CaptureConfig{}, q)
	s.Start()

	s.Stop()
	s.Stop()
	s.Close()

	if s.Phase != PhaseIdle {
		t.Errorf("phase = %d, want Idle", s.Phase)
	}
	if source.releaseCount() != 1 {
		t.Errorf("releases = %d, want 1 (double release must be a no-op)", source.releaseCount())
	}
}

func TestCameraErrorSurfacesAndStaysClosable(t *testing.T) {
	camera := &fakeCamera{err: errors.New("permission denied")}
	q := async.NewQueue()

	s := NewSession(camera, widthDecoder{}, CaptureConfig{}, q)
	s.Start()

	if s.Phase != PhaseError {
		t.Fatalf("phase = %d, want Error", s.Phase)
	}
	if s.ErrMsg != "permission denied" {
		t.Errorf("ErrMsg = %q, want the device message", s.ErrMsg)
	}

	s.Close() // must not panic with nothing acquired
	if s.Phase != PhaseIdle {
		t.Errorf("phase after Close = %d, want Idle", s.Phase)
	}
}

func TestUndecodableFramesAreSilentlyIgnored(t *testing.T) {
	source := newFakeSource()
	camera := &fakeCamera{source: source}
	q := async.NewQueue()

	s := NewSession(camera, widthDecoder{5: "A101"}, CaptureConfig{}, q)
	s.CloseDelay = time.Hour
	s.Start()

	source.frames <- frame(1)
	source.frames <- frame(2)
	source.frames <- frame(5)
	drainNextPost(t, q)

	if s.Result != "A101" {
		t.Errorf("result = %q, want A101 after skipping undecodable frames", s.Result)
	}
	s.Close()
}
