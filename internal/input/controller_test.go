package input

import "testing"

func TestController_StrobeHighReturnsLiveAButton(t *testing.T) {
	c := New()
	c.SetButtons(uint8(ButtonA | ButtonStart))
	c.Write(1) // strobe high

	for i := 0; i < 3; i++ {
		if got := c.Read(); got != 1 {
			t.Fatalf("read %d while strobed with A held: got %d, want 1", i, got)
		}
	}
}

func TestController_SerialReadOrder(t *testing.T) {
	c := New()
	// A and Left held; order is A,B,Select,Start,Up,Down,Left,Right.
	c.SetButtons(uint8(ButtonA | ButtonLeft))
	c.Write(1)
	c.Write(0) // latch on 1->0 transition

	want := []uint8{1, 0, 0, 0, 0, 0, 1, 0}
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Fatalf("bit %d: got %d, want %d", i, got, w)
		}
	}
}

func TestController_ReadsPastEighthReturnOne(t *testing.T) {
	c := New()
	c.SetButtons(0)
	c.Write(1)
	c.Write(0)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	for i := 0; i < 4; i++ {
		if got := c.Read(); got != 1 {
			t.Fatalf("extended read %d: got %d, want 1", i, got)
		}
	}
}

func TestController_ReRaisingStrobeResetsSequence(t *testing.T) {
	c := New()
	c.SetButtons(uint8(ButtonB))
	c.Write(1)
	c.Write(0)
	c.Read() // consume bit 0 (A = 0)

	c.Write(1) // re-strobe mid-sequence
	c.Write(0)
	if got := c.Read(); got != 0 {
		t.Fatalf("after re-strobe, bit 0 (A) = %d, want 0", got)
	}
	if got := c.Read(); got != 1 {
		t.Fatalf("after re-strobe, bit 1 (B) = %d, want 1", got)
	}
}

func TestController_SetButtonTogglesBit(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Write(1)
	if got := c.Read(); got != 1 {
		t.Fatalf("A not reflected while strobed: got %d", got)
	}
	c.SetButton(ButtonA, false)
	if got := c.Read(); got != 0 {
		t.Fatalf("A release not reflected while strobed: got %d", got)
	}
}

func TestController_Reset(t *testing.T) {
	c := New()
	c.SetButtons(0xFF)
	c.Write(1)
	c.Reset()
	if got := c.Read(); got != 0 {
		t.Fatalf("after Reset (strobe low, shift register cleared), read = %d, want 0", got)
	}
}
