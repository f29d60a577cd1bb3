package scan

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// ErrCameraBusy is returned when the device is already held by a session.
var ErrCameraBusy = errors.New("camera already in use")

// DirCamera is a development stand-in for a device camera: it replays the
// images of a directory as the frame stream, at the configured frame rate,
// looping. The device is a singleton; a second Acquire while a source is
// live fails fast with ErrCameraBusy.
type DirCamera struct {
	Dir string

	mu   sync.Mutex
	held bool
}

func (c *DirCamera) Acquire(cfg CaptureConfig) (FrameSource, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.held {
		return nil, ErrCameraBusy
	}

	frames, err := loadFrames(c.Dir)
	if err != nil {
		return nil, err
	}

	fps := cfg.FPS
	if fps <= 0 {
		fps = 10
	}

	src := &dirSource{
		out:    make(chan image.Image),
		stop:   make(chan struct{}),
		onStop: func() { c.markFree() },
	}
	c.held = true

	go src.run(frames, time.Second/time.Duration(fps))
	return src, nil
}

func (c *DirCamera) markFree() {
	c.mu.Lock()
	c.held = false
	c.mu.Unlock()
}

func loadFrames(dir string) ([]image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("open frame directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".png", ".jpg", ".jpeg":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("no frames in %s", dir)
	}

	frames := make([]image.Image, 0, len(names))
	for _, name := range names {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		frames = append(frames, img)
	}
	return frames, nil
}

type dirSource struct {
	out    chan image.Image
	stop   chan struct{}
	once   sync.Once
	onStop func()
}

func (s *dirSource) Frames() <-chan image.Image {
	return s.out
}

func (s *dirSource) Release() {
	s.once.Do(func() {
		close(s.stop)
		s.onStop()
	})
}

func (s *dirSource) run(frames []image.Image, interval time.Duration) {
	defer close(s.out)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			select {
			case s.out <- frames[i%len(frames)]:
				i++
			case <-s.stop:
				return
			}
		}
	}
}
