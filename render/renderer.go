package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"risksim/game"
)

const columnWidth = 26

// Renderer draws board snapshots grouped by continent, one column per
// continent, with each territory tinted by its owner's color.
type Renderer struct {
	screen *Screen
	m      *game.Map
}

// NewRenderer creates a renderer for a fixed map. The map defines the
// layout; snapshots only change owners and army counts.
func NewRenderer(screen *Screen, m *game.Map) *Renderer {
	return &Renderer{screen: screen, m: m}
}

// Render draws a full board snapshot.
func (r *Renderer) Render(snap *game.Snapshot) {
	r.screen.Clear()

	width, _ := r.screen.Size()
	perRow := width / columnWidth
	if perRow < 1 {
		perRow = 1
	}

	row := 0
	maxDepth := 0
	for i, continent := range r.m.Continents {
		col := i % perRow
		if col == 0 && i > 0 {
			row += maxDepth + 2
			maxDepth = 0
		}
		x := col * columnWidth
		y := row

		header := fmt.Sprintf("%s (+%d)", continent.Name, continent.Bonus)
		r.drawText(x, y, header, tcell.StyleDefault.Bold(true))
		y++

		for _, id := range continent.TerritoryIDs {
			style := r.ownerStyle(snap, id)
			line := fmt.Sprintf("%-20s %3d", r.m.Territories[id].Name, snap.Armies[id])
			r.drawText(x, y, line, style)
			y++
		}
		if depth := y - row; depth > maxDepth {
			maxDepth = depth
		}
	}

	r.drawStatus(row+maxDepth+1, snap)
	r.screen.Show()
}

func (r *Renderer) ownerStyle(snap *game.Snapshot, territory int) tcell.Style {
	owner := snap.Owners[territory]
	if owner < 0 {
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	}
	style := tcell.StyleDefault.Foreground(tcell.GetColor(snap.Players[owner].Color))
	if owner == snap.Current {
		style = style.Bold(true)
	}
	return style
}

func (r *Renderer) drawStatus(y int, snap *game.Snapshot) {
	status := fmt.Sprintf("round %d  phase %s", snap.Round, snap.Phase)
	r.drawText(0, y, status, tcell.StyleDefault)
	y++

	for i, p := range snap.Players {
		style := tcell.StyleDefault.Foreground(tcell.GetColor(p.Color))
		if !p.Alive {
			style = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
		}
		marker := " "
		if i == snap.Current {
			marker = ">"
		}
		line := fmt.Sprintf("%s %-12s %-13s %2d territories %4d armies", marker, p.Name, p.Strategy, p.Territories, p.Armies)
		r.drawText(0, y, line, style)
		y++
	}
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	for i, ch := range text {
		r.screen.SetContent(x+i, y, ch, style)
	}
}
