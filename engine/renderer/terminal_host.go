package renderer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
)

// TerminalHost drives frames and input from a tcell screen. It exposes the same callback
// surface as the GLFW window so the engine can run on either.
//
// Terminal cells are roughly twice as tall as they are wide, so the host reports its height
// in half-cells: Width() is the column count and Height() is twice the row count. Pointer
// rows are reported in the same unit.
type TerminalHost struct {
	mu *sync.Mutex

	screen        tcell.Screen
	hover         *HUD
	frameInterval time.Duration
	running       atomic.Bool

	onUpdate    func()
	onResize    func(width, height int)
	onMouseMove func(x, y int32)
}

// NewTerminalHost wraps an initialized screen and enables mouse reporting.
//
// Parameters:
//   - screen: an initialized tcell screen
//   - options: functional options to configure the host
//
// Returns:
//   - *TerminalHost: the host, running until Close or a quit key
func NewTerminalHost(screen tcell.Screen, options ...TerminalHostOption) *TerminalHost {
	if screen == nil {
		panic("renderer: nil terminal screen")
	}
	h := &TerminalHost{
		mu:            &sync.Mutex{},
		screen:        screen,
		frameInterval: 16 * time.Millisecond,
	}
	for _, opt := range options {
		opt(h)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	h.running.Store(true)
	return h
}

func (h *TerminalHost) SetUpdateCallback(callback func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onUpdate = callback
}

func (h *TerminalHost) SetResizeCallback(callback func(width, height int)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onResize = callback
}

func (h *TerminalHost) SetMouseMoveCallback(callback func(x, y int32)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMouseMove = callback
}

// Width returns the column count.
func (h *TerminalHost) Width() int {
	cols, _ := h.screen.Size()
	return cols
}

// Height returns twice the row count.
func (h *TerminalHost) Height() int {
	_, rows := h.screen.Size()
	return rows * 2
}

// Screen returns the wrapped screen.
func (h *TerminalHost) Screen() tcell.Screen {
	return h.screen
}

func (h *TerminalHost) IsRunning() bool {
	return h.running.Load()
}

// Close stops the loop and restores the terminal.
func (h *TerminalHost) Close() error {
	if h.running.Swap(false) {
		h.screen.Fini()
	}
	return nil
}

// ProcessMessages runs the event and frame loop until the host stops. Events are pumped from a
// reader goroutine; update callbacks fire on a fixed ticker on the calling goroutine.
func (h *TerminalHost) ProcessMessages() {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(h.frameInterval)
	defer ticker.Stop()

	for h.IsRunning() {
		select {
		case ev, ok := <-events:
			if !ok {
				h.running.Store(false)
				return
			}
			if !h.HandleEvent(ev) {
				h.Close()
				return
			}
		case <-ticker.C:
			h.mu.Lock()
			update := h.onUpdate
			h.mu.Unlock()
			if update != nil {
				update()
			}
		}
	}
}

// HandleEvent dispatches one tcell event to the registered callbacks.
//
// Parameters:
//   - ev: the event
//
// Returns:
//   - bool: false when the event asks to quit
func (h *TerminalHost) HandleEvent(ev tcell.Event) bool {
	h.mu.Lock()
	onResize, onMouseMove := h.onResize, h.onMouseMove
	h.mu.Unlock()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
	case *tcell.EventResize:
		h.screen.Sync()
		cols, rows := ev.Size()
		if onResize != nil {
			onResize(cols, rows*2)
		}
	case *tcell.EventMouse:
		col, row := ev.Position()
		if h.hover != nil {
			h.hover.PointerMoved(col, row)
		}
		if onMouseMove != nil {
			onMouseMove(int32(col), int32(row*2+1))
		}
	}
	return true
}
