package graphics

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"nescore/internal/input"
)

// EbitengineBackend presents frames through a real OS window via
// Ebitengine.
type EbitengineBackend struct{}

// NewEbitengineBackend creates an Ebitengine-backed Backend.
func NewEbitengineBackend() Backend { return &EbitengineBackend{} }

func (b *EbitengineBackend) Name() string    { return "ebitengine" }
func (b *EbitengineBackend) Cleanup() error  { return nil }

// CreateWindow configures the Ebitengine global window and returns a Window
// wrapping an ebiten.Game. Ebitengine owns the actual event loop; Run must
// be called by the CLI to start it.
func (b *EbitengineBackend) CreateWindow(title string, width, height int) (Window, error) {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game := &ebitengineGame{
		frameImage:   ebiten.NewImage(256, 240),
		windowWidth:  width,
		windowHeight: height,
	}
	return &ebitengineWindow{game: game}, nil
}

type ebitengineWindow struct {
	game *ebitengineGame
}

func (w *ebitengineWindow) ShouldClose() bool { return w.game.closeRequested }

func (w *ebitengineWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	w.game.frameBuffer = frameBuffer
	pix := make([]byte, 256*240*4)
	for i, pixel := range frameBuffer {
		pix[i*4+0] = uint8(pixel >> 16)
		pix[i*4+1] = uint8(pixel >> 8)
		pix[i*4+2] = uint8(pixel)
		pix[i*4+3] = 0xFF
	}
	w.game.frameImage.WritePixels(pix)
	return nil
}

func (w *ebitengineWindow) PollInput() uint8 { return w.game.buttons }

func (w *ebitengineWindow) Cleanup() error { return nil }

// Run starts the Ebitengine event loop, blocking until the window closes.
func (w *ebitengineWindow) Run() error {
	return ebiten.RunGame(w.game)
}

// AsRunnable exposes the underlying ebiten.Game runner to callers that need
// to start the blocking event loop (the CLI, not the core).
func AsRunnable(win Window) (interface{ Run() error }, bool) {
	runnable, ok := win.(interface{ Run() error })
	return runnable, ok
}

// ebitengineGame implements ebiten.Game and tracks the live controller-1
// button mask sampled from the keyboard each Update.
type ebitengineGame struct {
	frameBuffer    [256 * 240]uint32
	frameImage     *ebiten.Image
	windowWidth    int
	windowHeight   int
	buttons        uint8
	closeRequested bool
}

func (g *ebitengineGame) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		g.closeRequested = true
	}

	var buttons uint8
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		buttons |= uint8(input.ButtonUp)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		buttons |= uint8(input.ButtonDown)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		buttons |= uint8(input.ButtonLeft)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		buttons |= uint8(input.ButtonRight)
	}
	if ebiten.IsKeyPressed(ebiten.KeyZ) {
		buttons |= uint8(input.ButtonA)
	}
	if ebiten.IsKeyPressed(ebiten.KeyX) {
		buttons |= uint8(input.ButtonB)
	}
	if ebiten.IsKeyPressed(ebiten.KeyEnter) {
		buttons |= uint8(input.ButtonStart)
	}
	if ebiten.IsKeyPressed(ebiten.KeySpace) {
		buttons |= uint8(input.ButtonSelect)
	}
	g.buttons = buttons
	return nil
}

func (g *ebitengineGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{A: 255})

	scaleX := float64(g.windowWidth) / 256
	scaleY := float64(g.windowHeight) / 240
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}
	offsetX := (float64(g.windowWidth) - 256*scale) / 2
	offsetY := (float64(g.windowHeight) - 240*scale) / 2

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(g.frameImage, op)
}

func (g *ebitengineGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.windowWidth, g.windowHeight = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
