package viz

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a braille pixel grid. Each cell carries an optional tint, the
// colour of the last dot set in it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	tint          [][]color.RGBA
	tinted        [][]bool
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		tint:   make([][]color.RGBA, h),
		tinted: make([][]bool, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.tint[i] = make([]color.RGBA, w)
		c.tinted[i] = make([]bool, w)
	}
	c.Clear()
	return c
}

// SubSize is the canvas size in dots.
func (c *Canvas) SubSize() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set sets the dot at (x, y) in dot coordinates.
func (c *Canvas) Set(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// SetColor sets a dot and tints its cell.
func (c *Canvas) SetColor(x, y int, clr color.RGBA) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.tint[row][col] = clr
	c.tinted[row][col] = true
}

func (c *Canvas) Unset(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < brailleBlank {
		c.Grid[row][col] = brailleBlank
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
			c.tinted[i][j] = false
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// String renders the grid without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the grid with each tinted cell in its colour. Runs of the
// same colour share one style.
func (c *Canvas) Render() string {
	var b strings.Builder
	styles := make(map[color.RGBA]lipgloss.Style)
	for i, row := range c.Grid {
		start := 0
		for start < len(row) {
			end := start + 1
			for end < len(row) && c.sameTint(i, start, end) {
				end++
			}
			run := string(row[start:end])
			if c.tinted[i][start] {
				clr := quantize(c.tint[i][start])
				st, ok := styles[clr]
				if !ok {
					st = lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(int(clr.R), int(clr.G), int(clr.B))))
					styles[clr] = st
				}
				run = st.Render(run)
			}
			b.WriteString(run)
			start = end
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Canvas) sameTint(row, a, b int) bool {
	if c.tinted[row][a] != c.tinted[row][b] {
		return false
	}
	return !c.tinted[row][a] || quantize(c.tint[row][a]) == quantize(c.tint[row][b])
}

// quantize drops the low bits of each channel so nearby colours share a style.
func quantize(c color.RGBA) color.RGBA {
	return color.RGBA{c.R &^ 0x0f, c.G &^ 0x0f, c.B &^ 0x0f, 255}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
