package renderer

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/gdamore/tcell/v2"
)

// Sprites nearer than this view distance are drawn with the bright glyph.
const nearPointDistance = 45

type terminalRendererBackendImpl struct {
	mu     *sync.Mutex
	screen tcell.Screen
	hud    *HUD

	cols, rows int
	// depth holds the nearest view distance drawn into each cell this frame.
	depth []float32
}

var _ RendererBackend = &terminalRendererBackendImpl{}

// NewTerminalBackend creates a backend that rasterizes frames into the cells of an initialized
// tcell screen. Points become single glyphs, wireframe edges become slope glyphs, and fog
// fades both toward the fog color.
//
// Parameters:
//   - screen: an initialized tcell screen
//   - options: functional options to configure the backend
//
// Returns:
//   - RendererBackend: the backend
func NewTerminalBackend(screen tcell.Screen, options ...TerminalBackendOption) RendererBackend {
	if screen == nil {
		panic("renderer: nil terminal screen")
	}
	b := &terminalRendererBackendImpl{
		mu:     &sync.Mutex{},
		screen: screen,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *terminalRendererBackendImpl) Type() RendererBackendType {
	return BackendTypeTerminal
}

// Configure ignores the pixel-like size it is given; the cell grid is read from the screen.
func (b *terminalRendererBackendImpl) Configure(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cols, b.rows = b.screen.Size()
	if b.hud != nil {
		b.hud.Layout(b.cols, b.rows)
	}
	return nil
}

func (b *terminalRendererBackendImpl) SetPresentMode(PresentMode) {}

func (b *terminalRendererBackendImpl) Draw(f *Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cols, rows := b.screen.Size()
	if cols <= 0 || rows <= 0 {
		return nil
	}
	if cols != b.cols || rows != b.rows {
		b.cols, b.rows = cols, rows
		if b.hud != nil {
			b.hud.Layout(cols, rows)
		}
	}
	if cap(b.depth) < cols*rows {
		b.depth = make([]float32, cols*rows)
	}
	b.depth = b.depth[:cols*rows]
	for i := range b.depth {
		b.depth[i] = float32(math.Inf(1))
	}

	bg := rgbColor(f.Background)
	b.screen.Fill(' ', tcell.StyleDefault.Background(bg))

	for _, batch := range f.Lines {
		b.drawLines(f, batch, bg)
	}
	for _, batch := range f.Points {
		b.drawPoints(f, batch, bg)
	}
	if b.hud != nil {
		b.hud.draw(b.screen, bg)
	}
	b.screen.Show()
	return nil
}

func (b *terminalRendererBackendImpl) drawPoints(f *Frame, batch PointBatch, bg tcell.Color) {
	for i := 0; i+2 < len(batch.World); i += 3 {
		col, row, dist, ok := project(f, b.cols, b.rows, batch.World[i], batch.World[i+1], batch.World[i+2])
		if !ok {
			continue
		}
		glyph := '·'
		if dist < nearPointDistance {
			glyph = '•'
		}
		c := common.RGB{batch.Colors[i], batch.Colors[i+1], batch.Colors[i+2]}
		b.plot(f, col, row, dist, glyph, c, batch.Style.Opacity, bg)
	}
}

func (b *terminalRendererBackendImpl) drawLines(f *Frame, batch LineBatch, bg tcell.Color) {
	w := batch.World
	for i := 0; i+5 < len(w); i += 6 {
		c0, r0, d0, ok0 := project(f, b.cols, b.rows, w[i], w[i+1], w[i+2])
		c1, r1, d1, ok1 := project(f, b.cols, b.rows, w[i+3], w[i+4], w[i+5])
		if !ok0 || !ok1 {
			continue
		}
		glyph := slopeGlyph(c1-c0, r1-r0)
		steps := max(abs(c1-c0), abs(r1-r0), 1)
		for s := 0; s <= steps; s++ {
			t := float32(s) / float32(steps)
			col := c0 + int(math.Round(float64(t)*float64(c1-c0)))
			row := r0 + int(math.Round(float64(t)*float64(r1-r0)))
			b.plot(f, col, row, d0+(d1-d0)*t, glyph, batch.Color, batch.Style.Opacity, bg)
		}
	}
}

// plot draws glyph at the cell if it is nearer than what the cell already holds.
func (b *terminalRendererBackendImpl) plot(f *Frame, col, row int, dist float32, glyph rune, c common.RGB, opacity float32, bg tcell.Color) {
	idx := row*b.cols + col
	if dist >= b.depth[idx] {
		return
	}
	b.depth[idx] = dist

	fog := f.FogFactor(dist)
	lit := c.Scale(opacity)
	shaded := common.RGB{
		common.Lerp(lit[0], f.FogColor[0], fog),
		common.Lerp(lit[1], f.FogColor[1], fog),
		common.Lerp(lit[2], f.FogColor[2], fog),
	}
	b.screen.SetContent(col, row, glyph, nil, tcell.StyleDefault.Background(bg).Foreground(rgbColor(shaded)))
}

func (b *terminalRendererBackendImpl) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.depth = nil
}

// project maps a world point to a terminal cell through the frame's view-projection.
//
// Parameters:
//   - f: the frame
//   - cols, rows: the cell grid
//   - x, y, z: the world-space point
//
// Returns:
//   - col, row: the cell
//   - dist: view distance of the point
//   - ok: false if the point is behind the eye or outside the view volume
func project(f *Frame, cols, rows int, x, y, z float32) (col, row int, dist float32, ok bool) {
	clip := common.TransformPoint(f.ViewProj[:], x, y, z)
	w := clip[3]
	if w <= 0 {
		return 0, 0, 0, false
	}
	nx, ny, nz := clip[0]/w, clip[1]/w, clip[2]/w
	if nx < -1 || nx > 1 || ny < -1 || ny > 1 || nz < 0 || nz > 1 {
		return 0, 0, 0, false
	}
	col = min(int((nx+1)/2*float32(cols)), cols-1)
	row = min(int((1-ny)/2*float32(rows)), rows-1)
	return col, row, w, true
}

// slopeGlyph picks a box-drawing-ish glyph for a segment direction in cells.
func slopeGlyph(dc, dr int) rune {
	switch {
	case dc == 0 && dr == 0:
		return '+'
	case abs(dr)*2 < abs(dc):
		return '─'
	case abs(dc)*2 < abs(dr):
		return '│'
	case (dc > 0) == (dr > 0):
		return '╲'
	default:
		return '╱'
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
