package graphics

import "testing"

func TestHeadlessWindow_RenderFrameCapturesLastFrame(t *testing.T) {
	w := &HeadlessWindow{}
	var frame [256 * 240]uint32
	frame[0] = 0xABCDEF

	if err := w.RenderFrame(frame); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if got := w.LastFrame(); got[0] != 0xABCDEF {
		t.Fatalf("LastFrame()[0] = %#06x, want 0xABCDEF", got[0])
	}
}

func TestHeadlessWindow_NeverRequestsClose(t *testing.T) {
	w := &HeadlessWindow{}
	if w.ShouldClose() {
		t.Fatalf("headless window should never request close on its own")
	}
}

func TestNewBackend_DefaultsToEbitengineForUnknownKind(t *testing.T) {
	b := NewBackend(BackendKind("bogus"))
	if b.Name() != "ebitengine" {
		t.Fatalf("Name() = %q, want ebitengine for unknown backend kind", b.Name())
	}
}

func TestNewBackend_Headless(t *testing.T) {
	b := NewBackend(BackendHeadless)
	if b.Name() != "headless" {
		t.Fatalf("Name() = %q, want headless", b.Name())
	}
}
