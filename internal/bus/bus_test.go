package bus

import (
	"testing"

	"nescore/internal/input"
)

type fakePPU struct {
	regs    [8]uint8
	oam     [256]uint8
	oamAddr uint8
	lastReg uint16
}

func (f *fakePPU) ReadRegister(address uint16) uint8 { f.lastReg = address; return f.regs[address&7] }
func (f *fakePPU) WriteRegister(address uint16, value uint8) {
	f.lastReg = address
	f.regs[address&7] = value
}
func (f *fakePPU) WriteOAM(address uint8, value uint8) { f.oam[address] = value }
func (f *fakePPU) OAMAddr() uint8                      { return f.oamAddr }

type fakeAPU struct {
	status    uint8
	lastWrite uint16
}

func (f *fakeAPU) WriteRegister(address uint16, value uint8) { f.lastWrite = address }
func (f *fakeAPU) ReadStatus() uint8                         { return f.status }

type fakeCart struct {
	prgRAM [0x2000]uint8
	prgROM [0x8000]uint8
}

func (c *fakeCart) ReadPRG(address uint16) uint8 {
	if address < 0x8000 {
		return c.prgRAM[address-0x6000]
	}
	return c.prgROM[address-0x8000]
}

func (c *fakeCart) WritePRG(address uint16, value uint8) {
	if address < 0x8000 {
		c.prgRAM[address-0x6000] = value
	}
}

func newTestBus() (*Bus, *fakePPU, *fakeAPU, *fakeCart) {
	ppu := &fakePPU{}
	apu := &fakeAPU{}
	cart := &fakeCart{}
	b := New(ppu, apu, input.New())
	b.SetCartridge(cart)
	return b, ppu, apu, cart
}

func TestBus_RAMMirroring(t *testing.T) {
	b, _, _, _ := newTestBus()
	b.Write(0x0000, 0x42)
	for _, mirror := range []uint16{0x0000, 0x0800, 0x1000, 0x1800} {
		if got := b.Read(mirror); got != 0x42 {
			t.Errorf("Read(%#04x) = %#02x, want 0x42", mirror, got)
		}
	}
}

func TestBus_PPURegisterMirroring(t *testing.T) {
	b, ppu, _, _ := newTestBus()
	b.Write(0x2003, 0x10) // OAMADDR
	if ppu.lastReg != 0x2003 {
		t.Fatalf("expected write routed to 0x2003, got %#04x", ppu.lastReg)
	}
	b.Read(0x3FFB) // mirrors 0x2003 (0x3FFB & 7 == 3)
	if ppu.lastReg != 0x2003 {
		t.Fatalf("mirrored read routed to %#04x, want 0x2003", ppu.lastReg)
	}
}

func TestBus_PRGRAMAndROM(t *testing.T) {
	b, _, _, cart := newTestBus()
	b.Write(0x6100, 0x99)
	if got := b.Read(0x6100); got != 0x99 {
		t.Fatalf("PRG RAM roundtrip failed: got %#02x", got)
	}
	cart.prgROM[0] = 0x77
	if got := b.Read(0x8000); got != 0x77 {
		t.Fatalf("PRG ROM read failed: got %#02x", got)
	}
}

func TestBus_ControllerReadWrite(t *testing.T) {
	b, _, _, _ := newTestBus()
	ctrl := input.New()
	ctrl.SetButton(input.ButtonA, true)
	b2 := New(&fakePPU{}, &fakeAPU{}, ctrl)
	b2.Write(0x4016, 1)
	if got := b2.Read(0x4016); got != 1 {
		t.Fatalf("controller read via bus = %d, want 1", got)
	}
	_ = b
}

func TestBus_SecondControllerPortIsNoOp(t *testing.T) {
	b, _, _, _ := newTestBus()
	b.Write(0x4017, 0xFF)
	if got := b.Read(0x4017); got != 0 {
		t.Fatalf("second controller port = %#02x, want 0", got)
	}
}

func TestBus_OAMDMATransfersPage(t *testing.T) {
	b, ppu, _, _ := newTestBus()
	for i := 0; i < 256; i++ {
		b.Write(0x0200+uint16(i), uint8(i))
	}
	b.Write(0x4014, 0x02) // page 2 = $0200-$02FF
	if !b.DMAPending() {
		t.Fatalf("expected DMA pending after write to $4014")
	}
	b.ConsumeDMA()
	if b.DMAPending() {
		t.Fatalf("DMA still pending after ConsumeDMA")
	}
	for i := 0; i < 256; i++ {
		if ppu.oam[i] != uint8(i) {
			t.Fatalf("OAM[%d] = %#02x, want %#02x", i, ppu.oam[i], uint8(i))
		}
	}
}

func TestBus_OAMDMAStartsAtCurrentOAMAddrAndWraps(t *testing.T) {
	b, ppu, _, _ := newTestBus()
	ppu.oamAddr = 0xF0
	for i := 0; i < 256; i++ {
		b.Write(0x0300+uint16(i), uint8(i))
	}
	b.Write(0x4014, 0x03) // page 3 = $0300-$03FF
	b.ConsumeDMA()

	for i := 0; i < 256; i++ {
		want := uint8(i)
		got := ppu.oam[uint8(0xF0+i)]
		if got != want {
			t.Fatalf("OAM[%#02x] = %#02x, want %#02x", uint8(0xF0+i), got, want)
		}
	}
}

func TestBus_APUStatusRead(t *testing.T) {
	b, _, apu, _ := newTestBus()
	apu.status = 0x5A
	if got := b.Read(0x4015); got != 0x5A {
		t.Fatalf("APU status read = %#02x, want 0x5A", got)
	}
}
