// Package nes wires together the CPU, PPU, bus, and cartridge into a single
// runnable machine and drives the scanline-quantized frame loop that
// interleaves them.
package nes

import (
	"nescore/internal/apu"
	"nescore/internal/bus"
	"nescore/internal/cartridge"
	"nescore/internal/cpu"
	"nescore/internal/input"
	"nescore/internal/ppu"
)

const (
	cyclesPerScanline = 113
	scanlinesPerFrame = 262

	visibleScanlines = 240
	postRenderLine   = 240
	vblankStartLine  = 241
	preRenderLine    = 261
)

// Console is the top-level NES machine: one CPU, one PPU, one bus, and the
// cartridge currently loaded into it.
type Console struct {
	CPU         *cpu.CPU
	PPU         *ppu.PPU
	Bus         *bus.Bus
	Controller1 *input.Controller

	cart *cartridge.Cartridge

	cyclesThisLine uint64
	currentLine    int
	frameCount     uint64
	frameReady     bool

	nmiEnabled bool
}

// New creates a console with no cartridge loaded. LoadCartridge must be
// called before Step or RunFrame.
func New() *Console {
	controller1 := input.New()
	p := ppu.New()
	a := apu.New()

	c := &Console{
		Controller1: controller1,
		PPU:         p,
		nmiEnabled:  true,
	}
	c.Bus = bus.New(p, a, controller1)
	c.CPU = cpu.New(c.Bus)
	return c
}

// SetNMIEnabled controls whether VBlank entry queues an NMI on the CPU. It
// is on by default; disabling it is useful for running a ROM past its
// vblank-wait loop without servicing interrupts, e.g. under a debugger.
func (c *Console) SetNMIEnabled(enabled bool) {
	c.nmiEnabled = enabled
}

// SetUnofficialOpcodesEnabled forwards to the CPU's unofficial-opcode
// toggle (see cpu.CPU.SetUnofficialOpcodesEnabled).
func (c *Console) SetUnofficialOpcodesEnabled(enabled bool) {
	c.CPU.SetUnofficialOpcodesEnabled(enabled)
}

// LoadCartridge installs cart as the running cartridge and resets the
// machine so the CPU starts executing from the reset vector.
func (c *Console) LoadCartridge(cart *cartridge.Cartridge) {
	c.cart = cart
	c.Bus.SetCartridge(cart)
	c.PPU.SetCartridge(cart, cart.Mirror())
	c.Reset()
}

// Reset restarts the CPU, PPU, and scanline counters without reloading the
// cartridge.
func (c *Console) Reset() {
	c.CPU.Reset()
	c.PPU.Reset()
	c.cyclesThisLine = 0
	c.currentLine = 0
	c.frameCount = 0
	c.frameReady = false
}

// SetButtons delivers this frame's controller-1 state as a single bitmask
// ordered {A, B, Select, Start, Up, Down, Left, Right}.
func (c *Console) SetButtons(buttons uint8) {
	c.Controller1.SetButtons(buttons)
}

// Step executes exactly one CPU instruction, advances the PPU by whatever
// scanlines that instruction's cycles cover, and reports the CPU cycles
// consumed (including any OAM DMA stall).
func (c *Console) Step() uint64 {
	cpuCycles := c.CPU.Step()

	if c.Bus.DMAPending() {
		c.Bus.ConsumeDMA()
		stall := uint64(513)
		if c.CPU.Cycles()%2 == 1 {
			stall = 514
		}
		cpuCycles += stall
	}

	c.cyclesThisLine += cpuCycles
	for c.cyclesThisLine >= cyclesPerScanline {
		c.cyclesThisLine -= cyclesPerScanline
		c.advanceScanline()
	}

	return cpuCycles
}

// advanceScanline moves the coordinator forward by exactly one scanline:
// it rasterizes the line being left if it is visible, then emits VBlank/NMI
// on arriving at line 241 or clears VBlank state on arriving at the
// pre-render line.
func (c *Console) advanceScanline() {
	if c.currentLine < visibleScanlines {
		c.PPU.RenderScanline(c.currentLine)
	}

	c.currentLine++
	if c.currentLine >= scanlinesPerFrame {
		c.currentLine = 0
	}

	switch c.currentLine {
	case vblankStartLine:
		c.PPU.EnterVBlank()
		if c.PPU.ConsumeNMI() && c.nmiEnabled {
			c.CPU.QueueNMI()
		}
		c.frameCount++
		c.frameReady = true
	case preRenderLine:
		c.PPU.EndVBlank()
	}
}

// RunFrame steps the machine until exactly one new frame has been
// presented (VBlank entered), then returns. Controller state should be set
// via SetButtons before calling this.
func (c *Console) RunFrame() {
	c.frameReady = false
	for !c.frameReady {
		c.Step()
	}
}

// Framebuffer returns the PPU's current 256x240 RGB framebuffer. The
// returned pointer aliases the PPU's internal storage and is overwritten in
// place on subsequent scanlines.
func (c *Console) Framebuffer() *[256 * 240]uint32 {
	return c.PPU.Framebuffer()
}

// FrameCount returns the number of frames presented since Reset.
func (c *Console) FrameCount() uint64 {
	return c.frameCount
}

// CurrentLine returns the scanline the coordinator is currently on, in
// [0, 262).
func (c *Console) CurrentLine() int {
	return c.currentLine
}
