package nes

import (
	"bytes"
	"testing"

	"nescore/internal/cartridge"
)

// buildROM assembles a minimal iNES image: one 16KB PRG bank (mapper 0,
// horizontal mirroring), one 8KB CHR bank, with the reset vector pointed at
// $8000, the NMI vector at $9000, and a JMP $8000 loop at $8000.
func buildROM() []byte {
	header := make([]byte, 16)
	copy(header, []byte("NES\x1a"))
	header[4] = 1 // 1x16KB PRG
	header[5] = 1 // 1x8KB CHR

	prg := make([]byte, 16*1024)
	// JMP $8000: an infinite loop, so repeated stepping only advances the
	// scanline/cycle counters without otherwise mutating state.
	prg[0x0000] = 0x4C
	prg[0x0001] = 0x00
	prg[0x0002] = 0x80
	// The single 16KB bank is mirrored at $C000, so $FFFA-$FFFD are offsets $3FFA-$3FFD.
	prg[0x3FFA] = 0x00 // NMI vector low
	prg[0x3FFB] = 0x90 // NMI vector high ($9000, distinct from the reset loop)
	prg[0x3FFC] = 0x00 // reset vector low
	prg[0x3FFD] = 0x80 // reset vector high

	chr := make([]byte, 8*1024)

	var buf []byte
	buf = append(buf, header...)
	buf = append(buf, prg...)
	buf = append(buf, chr...)
	return buf
}

func newTestConsole(t *testing.T) *Console {
	t.Helper()
	cart, err := cartridge.LoadFromReader(bytes.NewReader(buildROM()))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	c := New()
	c.LoadCartridge(cart)
	return c
}

func TestConsole_ResetVectorDrivesPC(t *testing.T) {
	c := newTestConsole(t)
	if c.CPU.PC != 0x8000 {
		t.Fatalf("PC = %#04x, want 0x8000", c.CPU.PC)
	}
}

func TestConsole_NMIFiresOnVBlankEntry(t *testing.T) {
	c := newTestConsole(t)
	c.PPU.WriteRegister(0x2000, 0x80) // enable NMI-on-VBlank

	for c.CurrentLine() != vblankStartLine {
		c.Step()
	}

	// The step that crosses into VBlank queues the NMI; the CPU services it
	// on its next Step, pushing 3 stack bytes and loading PC from $FFFA.
	spBefore := c.CPU.SP
	c.Step()
	if c.CPU.PC != 0x9000 {
		t.Fatalf("PC = %#04x, want 0x9000 (NMI vector target)", c.CPU.PC)
	}
	if c.CPU.SP != spBefore-3 {
		t.Fatalf("SP = %#02x, want %#02x after NMI pushed PC+status", c.CPU.SP, spBefore-3)
	}

	// The first $2002 read returns VBlank set and clears it; the next read
	// observes the cleared flag.
	if status := c.PPU.ReadRegister(0x2002); status&0x80 == 0 {
		t.Fatalf("VBlank should be set after entering scanline 241")
	}
	if status := c.PPU.ReadRegister(0x2002); status&0x80 != 0 {
		t.Fatalf("reading $2002 should have cleared VBlank")
	}
}

func TestConsole_RunFrameAdvancesFrameCount(t *testing.T) {
	c := newTestConsole(t)
	c.RunFrame()

	if c.FrameCount() == 0 {
		t.Fatalf("expected FrameCount to advance after RunFrame")
	}
}

func TestConsole_OAMDMATransfersPage(t *testing.T) {
	c := newTestConsole(t)
	for i := 0; i < 256; i++ {
		c.Bus.Write(uint16(0x0200+i), uint8(i))
	}

	c.Bus.Write(0x4014, 0x02)
	cycles := c.Step()

	if cycles < 513 {
		t.Fatalf("cycles = %d, want at least 513 for the DMA stall", cycles)
	}

	// $2004 reads do not advance OAMADDR, so select each index via $2003.
	for i := 0; i < 256; i++ {
		c.PPU.WriteRegister(0x2003, uint8(i))
		got := c.PPU.ReadRegister(0x2004)
		if got != uint8(i) {
			t.Fatalf("OAM[%d] = %#02x, want %#02x", i, got, uint8(i))
		}
	}
}
