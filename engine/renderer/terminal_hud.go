package renderer

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/counter"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/glitch"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/tilt"
	"github.com/gdamore/tcell/v2"
)

// Cell size in pixels used to express card geometry to the tilt math.
const (
	cellWidthPx  = 8
	cellHeightPx = 16
)

// Card geometry in cells.
const (
	cardWidth  = 18
	cardHeight = 4
	cardGap    = 2
)

var (
	hudPrimary   common.Hex = 0x00f3ff
	hudSecondary common.Hex = 0xff00ff
	hudDim       common.Hex = 0x5a6a78
)

// HUD is the text overlay drawn by the terminal backend: a title that glitches, and one card
// per stat whose value is driven by a counter. The stats band counts as visible once the
// terminal is large enough to show it; that is when observed counters start.
type HUD struct {
	mu *sync.Mutex

	title *TitleElement
	cards []*StatCard

	observers map[counter.Element]func()
	visible   bool
	hovered   int

	cols, rows int
}

var _ counter.Observer = &HUD{}

// TitleElement is the glitching headline. It implements glitch.Element.
type TitleElement struct {
	mu       *sync.Mutex
	text     string
	animated bool
	toggles  int
}

var _ glitch.Element = &TitleElement{}

// StatCard is one stat panel. It implements counter.Element.
type StatCard struct {
	mu        *sync.Mutex
	label     string
	text      string
	x, y      int
	transform tilt.Transform
}

var _ counter.Element = &StatCard{}

// NewHUD creates a HUD with the given title and one card per label. Card values start at "0".
//
// Parameters:
//   - title: headline text
//   - labels: stat labels, one card each
//
// Returns:
//   - *HUD: the overlay
func NewHUD(title string, labels []string) *HUD {
	h := &HUD{
		mu:        &sync.Mutex{},
		title:     &TitleElement{mu: &sync.Mutex{}, text: title, animated: true},
		observers: make(map[counter.Element]func()),
		hovered:   -1,
	}
	for _, l := range labels {
		h.cards = append(h.cards, &StatCard{mu: &sync.Mutex{}, label: l, text: "0"})
	}
	return h
}

// Title returns the headline element.
func (h *HUD) Title() *TitleElement {
	return h.title
}

// Cards returns the stat cards in display order.
func (h *HUD) Cards() []*StatCard {
	return h.cards
}

// StatElements returns the cards as counter targets, in display order.
func (h *HUD) StatElements() []counter.Element {
	els := make([]counter.Element, len(h.cards))
	for i, c := range h.cards {
		els[i] = c
	}
	return els
}

// GlitchElements returns every element the glitch pulse may pick.
func (h *HUD) GlitchElements() []glitch.Element {
	return []glitch.Element{h.title}
}

func (h *HUD) Observe(el counter.Element, cb func()) {
	h.mu.Lock()
	h.observers[el] = cb
	visible := h.visible
	h.mu.Unlock()

	if visible {
		cb()
	}
}

func (h *HUD) Unobserve(el counter.Element) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.observers, el)
}

// Visible reports whether the stats band fits on screen.
func (h *HUD) Visible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.visible
}

// Layout places the cards for a terminal of cols x rows cells. When the stats band becomes
// visible, every observer is notified once.
//
// Parameters:
//   - cols: terminal width in cells
//   - rows: terminal height in cells
func (h *HUD) Layout(cols, rows int) {
	h.mu.Lock()
	h.cols, h.rows = cols, rows
	n := len(h.cards)
	total := n*cardWidth + max(n-1, 0)*cardGap
	x := (cols - total) / 2
	y := rows - cardHeight - 1
	for _, c := range h.cards {
		c.mu.Lock()
		c.x, c.y = x, y
		c.mu.Unlock()
		x += cardWidth + cardGap
	}

	wasVisible := h.visible
	h.visible = n > 0 && total <= cols && rows >= cardHeight+4
	var fire []func()
	if h.visible && !wasVisible {
		for _, cb := range h.observers {
			fire = append(fire, cb)
		}
	}
	h.mu.Unlock()

	for _, cb := range fire {
		cb()
	}
}

// PointerMoved updates hover state and card tilt for a pointer at the given cell.
// Entering a card logs its tilt as a CSS transform.
//
// Parameters:
//   - col, row: pointer cell
func (h *HUD) PointerMoved(col, row int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	prev := h.hovered
	h.hovered = -1
	for i, c := range h.cards {
		c.mu.Lock()
		inside := col >= c.x && col < c.x+cardWidth && row >= c.y && row < c.y+cardHeight
		if inside {
			h.hovered = i
			r := tilt.Rect{Width: cardWidth * cellWidthPx, Height: cardHeight * cellHeightPx}
			c.transform = tilt.Compute(r,
				float64(col-c.x)*cellWidthPx+cellWidthPx/2,
				float64(row-c.y)*cellHeightPx+cellHeightPx/2)
		} else {
			c.transform = tilt.Rest()
		}
		c.mu.Unlock()
	}
	if h.hovered >= 0 && h.hovered != prev {
		c := h.cards[h.hovered]
		log.Printf("[HUD] card %q tilted: %s", c.label, c.Transform().CSS())
	}
}

// Hovered returns the index of the card under the pointer, or -1.
func (h *HUD) Hovered() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hovered
}

// draw paints the title and, when visible, the stat cards.
func (h *HUD) draw(screen tcell.Screen, bg tcell.Color) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.title.draw(screen, h.cols, bg)
	if !h.visible {
		return
	}
	for _, c := range h.cards {
		c.draw(screen, bg)
	}
}

func (t *TitleElement) SetAnimation(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.animated != on {
		t.toggles++
	}
	t.animated = on
}

// Animated reports whether the glitch animation is currently on.
func (t *TitleElement) Animated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.animated
}

// Toggles returns how many times the animation state changed.
func (t *TitleElement) Toggles() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.toggles
}

// draw writes the title centered on row 1. While the animation is paused the title is drawn
// with its channels split: magenta shadow one cell left, cyan on top.
func (t *TitleElement) draw(screen tcell.Screen, cols int, bg tcell.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()

	x := (cols - len(t.text)) / 2
	base := tcell.StyleDefault.Background(bg)
	if !t.animated {
		putString(screen, x-1, 1, t.text, base.Foreground(hexColor(hudSecondary)))
	}
	putString(screen, x, 1, t.text, base.Foreground(hexColor(hudPrimary)).Bold(true))
}

func (c *StatCard) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
}

// Text returns the displayed value.
func (c *StatCard) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Label returns the card label.
func (c *StatCard) Label() string {
	return c.label
}

// Transform returns the current tilt of the card.
func (c *StatCard) Transform() tilt.Transform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transform
}

// draw paints the card box. A tilted card is lifted one row and leans its border toward the pointer.
func (c *StatCard) draw(screen tcell.Screen, bg tcell.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()

	y := c.y
	border := tcell.StyleDefault.Background(bg).Foreground(hexColor(hudDim))
	if c.transform != tilt.Rest() {
		y--
		border = border.Foreground(hexColor(hudPrimary))
	}
	left, right := '│', '│'
	switch {
	case c.transform.RotateY > 1:
		left = '┃'
	case c.transform.RotateY < -1:
		right = '┃'
	}

	for dx := 1; dx < cardWidth-1; dx++ {
		screen.SetContent(c.x+dx, y, '─', nil, border)
		screen.SetContent(c.x+dx, y+cardHeight-1, '─', nil, border)
	}
	for dy := 1; dy < cardHeight-1; dy++ {
		screen.SetContent(c.x, y+dy, left, nil, border)
		screen.SetContent(c.x+cardWidth-1, y+dy, right, nil, border)
		for dx := 1; dx < cardWidth-1; dx++ {
			screen.SetContent(c.x+dx, y+dy, ' ', nil, border)
		}
	}
	screen.SetContent(c.x, y, '┌', nil, border)
	screen.SetContent(c.x+cardWidth-1, y, '┐', nil, border)
	screen.SetContent(c.x, y+cardHeight-1, '└', nil, border)
	screen.SetContent(c.x+cardWidth-1, y+cardHeight-1, '┘', nil, border)

	value := tcell.StyleDefault.Background(bg).Foreground(hexColor(hudPrimary)).Bold(true)
	label := tcell.StyleDefault.Background(bg).Foreground(hexColor(hudDim))
	putString(screen, c.x+2, y+1, c.text, value)
	putString(screen, c.x+2, y+2, c.label, label)
}

// putString writes s left to right starting at (x, y).
func putString(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// hexColor converts a packed color to a tcell true color.
func hexColor(h common.Hex) tcell.Color {
	return rgbColor(h.RGB())
}

// rgbColor converts a normalized color to a tcell true color.
func rgbColor(c common.RGB) tcell.Color {
	return tcell.NewRGBColor(
		int32(common.Clamp(c[0], 0, 1)*255),
		int32(common.Clamp(c[1], 0, 1)*255),
		int32(common.Clamp(c[2], 0, 1)*255),
	)
}
