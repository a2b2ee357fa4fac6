// Package graphics provides an abstraction layer for presenting the core's
// framebuffer and collecting input, so the core itself never depends on a
// concrete windowing toolkit.
package graphics

// Backend creates windows for a particular presentation toolkit.
type Backend interface {
	// CreateWindow creates a window for rendering. Headless backends still
	// implement Window but never open an actual OS window.
	CreateWindow(title string, width, height int) (Window, error)

	// Cleanup releases all resources held by the backend.
	Cleanup() error

	// Name identifies the backend for logging.
	Name() string
}

// Window presents frames and reports controller input.
type Window interface {
	// ShouldClose reports whether the host requested the window close.
	ShouldClose() bool

	// RenderFrame presents one 256x240 RGB framebuffer.
	RenderFrame(frameBuffer [256 * 240]uint32) error

	// PollInput samples the live state of controller 1 as a single bitmask
	// ordered {A, B, Select, Start, Up, Down, Left, Right}, matching
	// internal/input.Controller.SetButtons.
	PollInput() uint8

	// Cleanup releases window resources.
	Cleanup() error
}

// Config configures a Backend's window.
type Config struct {
	Title  string
	Scale  int
	VSync  bool
	Filter string // "nearest" or "linear"
}

// BackendKind selects which Backend implementation to construct.
type BackendKind string

const (
	BackendEbitengine BackendKind = "ebitengine"
	BackendHeadless   BackendKind = "headless"
)

// NewBackend constructs a Backend of the requested kind. Unknown kinds
// default to the Ebitengine backend, matching the interactive CLI's
// default run mode.
func NewBackend(kind BackendKind) Backend {
	switch kind {
	case BackendHeadless:
		return NewHeadlessBackend()
	default:
		return NewEbitengineBackend()
	}
}
