package graphics

import (
	"fmt"
	"os"
)

// HeadlessBackend keeps the latest framebuffer in memory without opening an
// OS window. It is used by `-headless` CLI runs and by tests.
type HeadlessBackend struct{}

// NewHeadlessBackend creates a headless Backend.
func NewHeadlessBackend() Backend { return &HeadlessBackend{} }

func (b *HeadlessBackend) Name() string   { return "headless" }
func (b *HeadlessBackend) Cleanup() error { return nil }

func (b *HeadlessBackend) CreateWindow(title string, width, height int) (Window, error) {
	return &HeadlessWindow{}, nil
}

// HeadlessWindow captures the last rendered frame and can optionally dump
// it to a PPM file for inspection; it never reports a close request or
// delivers input of its own.
type HeadlessWindow struct {
	frameCount  int
	lastFrame   [256 * 240]uint32
	DumpOnFrame int // if > 0, save that frame number as <DumpPath>
	DumpPath    string
}

func (w *HeadlessWindow) ShouldClose() bool { return false }

func (w *HeadlessWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	w.frameCount++
	w.lastFrame = frameBuffer

	if w.DumpOnFrame > 0 && w.frameCount == w.DumpOnFrame {
		return w.saveFrameAsPPM(frameBuffer, w.DumpPath)
	}
	return nil
}

// LastFrame returns the most recently rendered framebuffer, for tests that
// assert on pixel content without a real display.
func (w *HeadlessWindow) LastFrame() [256 * 240]uint32 { return w.lastFrame }

func (w *HeadlessWindow) PollInput() uint8 { return 0 }

func (w *HeadlessWindow) Cleanup() error { return nil }

func (w *HeadlessWindow) saveFrameAsPPM(frameBuffer [256 * 240]uint32, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	defer file.Close()

	fmt.Fprintf(file, "P3\n256 240\n255\n")
	for y := 0; y < 240; y++ {
		for x := 0; x < 256; x++ {
			pixel := frameBuffer[y*256+x]
			r := (pixel >> 16) & 0xFF
			g := (pixel >> 8) & 0xFF
			b := pixel & 0xFF
			fmt.Fprintf(file, "%d %d %d ", r, g, b)
		}
		fmt.Fprintf(file, "\n")
	}
	return nil
}
