package ui

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/click-arena/internal/protocol"
)

// 画布格子尺寸。坐标在 0-100 归一化空间与格子间换算。
const (
	canvasCols = 40
	canvasRows = 12
)

// canvasState 本地画布光标
type canvasState struct {
	cx int
	cy int
}

func newCanvasState() canvasState {
	return canvasState{cx: canvasCols / 2, cy: canvasRows / 2}
}

func (c *canvasState) move(key tea.KeyType) {
	switch key {
	case tea.KeyUp:
		if c.cy > 0 {
			c.cy--
		}
	case tea.KeyDown:
		if c.cy < canvasRows-1 {
			c.cy++
		}
	case tea.KeyLeft:
		if c.cx > 0 {
			c.cx--
		}
	case tea.KeyRight:
		if c.cx < canvasCols-1 {
			c.cx++
		}
	}
}

// normalized 将光标格子坐标换算为 0-100 归一化坐标
func (c *canvasState) normalized() (x, y float64) {
	x = float64(c.cx) / float64(canvasCols-1) * 100
	y = float64(c.cy) / float64(canvasRows-1) * 100
	return x, y
}

// cellOf 将归一化坐标落到格子上
func cellOf(marker protocol.ClickMarker) (col, row int) {
	col = int(marker.X/100*float64(canvasCols-1) + 0.5)
	row = int(marker.Y/100*float64(canvasRows-1) + 0.5)
	if col < 0 {
		col = 0
	}
	if col >= canvasCols {
		col = canvasCols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= canvasRows {
		row = canvasRows - 1
	}
	return col, row
}

// renderCanvas draws the click canvas with per-player markers and the
// local cursor. Later clicks win a contested cell, matching the
// last-write-wins marker semantics.
func renderCanvas(clicks map[string]protocol.ClickMarker, cursor canvasState, showCursor bool) string {
	type cell struct {
		ch    string
		style lipgloss.Style
	}

	grid := make([][]cell, canvasRows)
	for r := range grid {
		grid[r] = make([]cell, canvasCols)
		for c := range grid[r] {
			grid[r][c] = cell{ch: "·", style: CanvasDotStyle}
		}
	}

	// 稳定的绘制顺序：按时间戳升序，后点击者覆盖
	markers := make([]protocol.ClickMarker, 0, len(clicks))
	for _, mk := range clicks {
		markers = append(markers, mk)
	}
	sort.Slice(markers, func(i, j int) bool {
		if markers[i].Timestamp != markers[j].Timestamp {
			return markers[i].Timestamp < markers[j].Timestamp
		}
		return markers[i].PlayerID < markers[j].PlayerID
	})
	for _, mk := range markers {
		col, row := cellOf(mk)
		grid[row][col] = cell{ch: "●", style: markerStyle(mk.Color)}
	}

	if showCursor {
		if cur := grid[cursor.cy][cursor.cx]; cur.ch == "·" {
			grid[cursor.cy][cursor.cx] = cell{ch: "+", style: CanvasCursorStyle}
		} else {
			grid[cursor.cy][cursor.cx] = cell{ch: cur.ch, style: cur.style.Underline(true)}
		}
	}

	var sb strings.Builder
	for r, rowCells := range grid {
		for _, c := range rowCells {
			sb.WriteString(c.style.Render(c.ch))
		}
		if r < canvasRows-1 {
			sb.WriteString("\n")
		}
	}
	return BoxStyle.Render(sb.String())
}
