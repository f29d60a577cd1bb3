package scan

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestFrame(t *testing.T, dir, name string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
}

func TestDirCameraIsExclusive(t *testing.T) {
	dir := t.TempDir()
	writeTestFrame(t, dir, "frame_0.png")

	cam := &DirCamera{Dir: dir}

	src, err := cam.Acquire(CaptureConfig{FPS: 100})
	if err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}

	if _, err := cam.Acquire(CaptureConfig{FPS: 100}); !errors.Is(err, ErrCameraBusy) {
		t.Errorf("second Acquire() error = %v, want ErrCameraBusy", err)
	}

	src.Release()
	src.Release() // idempotent

	src2, err := cam.Acquire(CaptureConfig{FPS: 100})
	if err != nil {
		t.Fatalf("Acquire() after release error = %v", err)
	}
	src2.Release()
}

func TestDirCameraDeliversFramesUntilRelease(t *testing.T) {
	dir := t.TempDir()
	writeTestFrame(t, dir, "frame_0.png")
	writeTestFrame(t, dir, "frame_1.png")

	cam := &DirCamera{Dir: dir}
	src, err := cam.Acquire(CaptureConfig{FPS: 200})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, ok := <-src.Frames(); !ok {
			t.Fatalf("frame stream closed after %d frames", i)
		}
	}

	src.Release()
	// The channel must drain and close after release.
	for range src.Frames() {
	}
}

func TestDirCameraFailsFastOnMissingDir(t *testing.T) {
	cam := &DirCamera{Dir: filepath.Join(t.TempDir(), "nope")}
	if _, err := cam.Acquire(CaptureConfig{}); err == nil {
		t.Error("Acquire() on a missing directory returned nil error")
	}
}

func TestDirCameraFailsOnEmptyDir(t *testing.T) {
	cam := &DirCamera{Dir: t.TempDir()}
	if _, err := cam.Acquire(CaptureConfig{}); err == nil {
		t.Error("Acquire() on an empty directory returned nil error")
	}
}
