package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/Carmen-Shannon/oxy-backdrop/engine"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/preset"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
	"github.com/gdamore/tcell/v2"
)

var (
	presetFlag   = flag.String("preset", "neural", "built-in preset name or path to a preset YAML file")
	terminalFlag = flag.Bool("terminal", false, "render in the terminal even when a GPU window is available")
	seedFlag     = flag.Int64("seed", 0, "random seed, overriding the preset (0 keeps the preset's)")
	profileFlag  = flag.Bool("profile", false, "log frame rate and memory statistics every second")
	workersFlag  = flag.Int("workers", 0, "goroutines for the point update (0 = number of CPUs - 1)")
	logFlag      = flag.String("log", "", "log file used while rendering in the terminal (default: discard)")
	listFlag     = flag.Bool("list", false, "list the built-in presets and exit")
)

func main() {
	flag.Parse()

	if *listFlag {
		for _, name := range preset.Names() {
			fmt.Println(name)
		}
		return
	}

	p, err := preset.Resolve(*presetFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load preset: %v\n", err)
		os.Exit(1)
	}
	if *seedFlag != 0 {
		p.Seed = *seedFlag
	}
	printBanner(p)

	var eng engine.Engine
	if !*terminalFlag {
		eng, err = newWindowEngine(p)
		if err != nil {
			log.Printf("[Backdrop] GPU window unavailable, falling back to the terminal: %v", err)
		}
	}
	if eng == nil {
		screen, err := tcell.NewScreen()
		if err == nil {
			err = screen.Init()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
			os.Exit(1)
		}
		// Restore the terminal before reporting a crash.
		defer func() {
			if r := recover(); r != nil {
				screen.Fini()
				fmt.Fprintf(os.Stderr, "backdrop crashed: %v\n%s\n", r, debug.Stack())
				os.Exit(1)
			}
		}()
		closeLog := redirectLog(*logFlag)
		defer closeLog()

		eng, err = newTerminalEngine(p, screen)
		if err != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "Failed to start terminal backdrop: %v\n", err)
			os.Exit(1)
		}
	}

	if *profileFlag {
		eng.EnableProfiler()
	}
	eng.Run()
}

// newWindowEngine opens a GLFW window with a WebGPU surface. Counters run headless.
func newWindowEngine(p *preset.Preset) (engine.Engine, error) {
	w, err := window.NewWindow(
		window.WithTitle("oxy-backdrop - "+p.Name),
		window.WithSize(1280, 720),
	)
	if err != nil {
		return nil, err
	}
	backend, err := renderer.NewWGPUBackend(w.SurfaceDescriptor())
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	r, err := renderer.NewRenderer(backend, w.Width(), w.Height(),
		renderer.WithBackground(p.Fog.Color),
		renderer.WithPresentMode(renderer.PresentModeVSync),
	)
	if err != nil {
		backend.Close()
		_ = w.Close()
		return nil, err
	}
	s, err := scene.NewScene(r, p, sceneOptions(w.Width(), w.Height())...)
	if err != nil {
		r.Close()
		_ = w.Close()
		return nil, err
	}
	return engine.NewEngine(w, r, s, engine.WithOverlay(engine.NewHeadlessOverlay(statLabels(p)))), nil
}

// newTerminalEngine draws the backdrop and its stat cards into an initialized tcell screen.
func newTerminalEngine(p *preset.Preset, screen tcell.Screen) (engine.Engine, error) {
	hud := renderer.NewHUD(strings.ToUpper(p.Name), statLabels(p))
	host := renderer.NewTerminalHost(screen, renderer.WithHoverTarget(hud))
	r, err := renderer.NewRenderer(renderer.NewTerminalBackend(screen, renderer.WithHUD(hud)), host.Width(), host.Height(),
		renderer.WithBackground(p.Fog.Color),
	)
	if err != nil {
		return nil, err
	}
	s, err := scene.NewScene(r, p, sceneOptions(host.Width(), host.Height())...)
	if err != nil {
		r.Close()
		return nil, err
	}
	return engine.NewEngine(host, r, s, engine.WithOverlay(hud)), nil
}

func sceneOptions(width, height int) []scene.SceneBuilderOption {
	options := []scene.SceneBuilderOption{scene.WithViewport(width, height)}
	if *workersFlag > 0 {
		options = append(options, scene.WithComputeWorkers(*workersFlag))
	}
	return options
}

func statLabels(p *preset.Preset) []string {
	labels := make([]string, len(p.Counters.Stats))
	for i, s := range p.Counters.Stats {
		labels[i] = s.Label
	}
	return labels
}

// redirectLog keeps log output off the terminal screen.
func redirectLog(path string) func() {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	log.SetOutput(f)
	return func() { _ = f.Close() }
}

func printBanner(p *preset.Preset) {
	line := func(s string) {
		fmt.Printf("║  %-52s║\n", s)
	}
	fmt.Println("╔══════════════════════════════════════════════════════╗")
	line("oxy-backdrop")
	fmt.Println("╠══════════════════════════════════════════════════════╣")
	line("Preset: " + p.Name)
	if p.Description != "" {
		line(truncate(p.Description, 52))
	}
	line(fmt.Sprintf("Points: %d  Shapes: %d", p.Particles.Count, len(p.Shapes.Items)))
	line("Quit: Esc or q")
	fmt.Println("╚══════════════════════════════════════════════════════╝")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
