// Command nescore runs the NES core against a ROM file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nescore/internal/cartridge"
	"nescore/internal/config"
	"nescore/internal/graphics"
	"nescore/internal/nes"
	"nescore/internal/version"
)

func main() {
	var (
		headless   = flag.Bool("headless", false, "run without a window, stepping a fixed 120 frames and then exiting")
		configPath = flag.String("config", "", "path to a JSON config file (default: OS config dir)")
		showVer    = flag.Bool("version", false, "print version information and exit")
	)
	flag.Usage = printUsage
	flag.Parse()

	if *showVer {
		fmt.Println(version.String())
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(1)
	}
	romPath := flag.Arg(0)

	if *configPath == "" {
		*configPath = config.DefaultConfigPath()
	}
	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *headless {
		cfg.Window.Backend = "headless"
	}
	logAt(cfg, "debug", "config loaded from %s (backend=%s scale=%d)", cfg.GetConfigPath(), cfg.Window.Backend, cfg.Window.Scale)

	cart, err := cartridge.LoadFromFile(romPath)
	if err != nil {
		log.Fatalf("load ROM: %v", err)
	}
	logAt(cfg, "info", "loaded %s (mapper %d, mirroring %d)", romPath, cart.MapperID(), cart.Mirror())

	console := nes.New()
	console.LoadCartridge(cart)
	console.SetNMIEnabled(cfg.Emulation.EnableNMI)
	console.SetUnofficialOpcodesEnabled(cfg.Emulation.EnableUnofficialOpcodes)

	backend := graphics.NewBackend(graphics.BackendKind(cfg.Window.Backend))
	defer backend.Cleanup()

	window, err := backend.CreateWindow("nescore", 256*cfg.Window.Scale, 240*cfg.Window.Scale)
	if err != nil {
		log.Fatalf("create window: %v", err)
	}
	defer window.Cleanup()

	setupGracefulShutdown()

	if runnable, ok := graphics.AsRunnable(window); ok {
		go driveConsole(console, window)
		if err := runnable.Run(); err != nil {
			log.Fatalf("run: %v", err)
		}
		logAt(cfg, "info", "exited after %d frames", console.FrameCount())
		return
	}

	runHeadless(console, window)
	logAt(cfg, "info", "exited after %d frames", console.FrameCount())
}

// logAt prints a message through the stdlib logger when cfg.Debug.EnableLogging
// is set and level meets or exceeds cfg.Debug.LogLevel's verbosity floor.
func logAt(cfg *config.Config, level, format string, args ...interface{}) {
	if !cfg.Debug.EnableLogging {
		return
	}
	severity := map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}
	if severity[level] < severity[cfg.Debug.LogLevel] {
		return
	}
	log.Printf("["+level+"] "+format, args...)
}

// driveConsole runs frames continuously, sampling input and presenting the
// framebuffer once per frame, until the window reports it should close.
func driveConsole(console *nes.Console, window interface {
	ShouldClose() bool
	RenderFrame([256 * 240]uint32) error
	PollInput() uint8
}) {
	for !window.ShouldClose() {
		console.SetButtons(window.PollInput())
		console.RunFrame()
		if err := window.RenderFrame(*console.Framebuffer()); err != nil {
			log.Printf("render frame: %v", err)
		}
	}
}

// runHeadless steps a fixed number of frames without a blocking event
// loop, for automation and smoke-testing a ROM without a display.
func runHeadless(console *nes.Console, window interface {
	RenderFrame([256 * 240]uint32) error
}) {
	const frames = 120
	for i := 0; i < frames; i++ {
		console.RunFrame()
		if err := window.RenderFrame(*console.Framebuffer()); err != nil {
			log.Printf("render frame: %v", err)
		}
	}
}

func setupGracefulShutdown() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		os.Exit(0)
	}()
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "nescore - NES core runner")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "USAGE:")
	fmt.Fprintln(os.Stderr, "  nescore [options] <rom-file>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "OPTIONS:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "CONTROLS:")
	fmt.Fprintln(os.Stderr, "  Arrow keys - D-Pad    Z - A    X - B    Enter - Start    Space - Select")
}
