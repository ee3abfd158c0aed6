// Package report renders a plain-text snapshot of the scene for debugging.
// A key binding in the viewer copies it to the system clipboard.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/unarmedpuppy/command-grid/engine/core"
	"github.com/unarmedpuppy/command-grid/engine/scene"
)

// Build renders the scene report.
func Build(s *scene.Scene) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- command-grid scene report ---\n")
	fmt.Fprintf(&b, "grid=%dx%d units=%d buildings=%d ready=%v\n\n",
		s.Grid.Size, s.Grid.Size, len(s.Units), len(s.Buildings), s.Ready())

	if sel := s.SelectedUnit(); sel != nil {
		fmt.Fprintf(&b, "selected: unit %s (%s)\n\n", sel.ID, sel.Profile)
	} else if sel := s.SelectedBuilding(); sel != nil {
		fmt.Fprintf(&b, "selected: building %s (%s)\n\n", sel.ID, sel.Type)
	} else {
		b.WriteString("selected: none\n\n")
	}

	b.WriteString("== buildings ==\n")
	buildings := append([]*core.Building(nil), s.Buildings...)
	sort.Slice(buildings, func(i, j int) bool { return buildings[i].ID < buildings[j].ID })
	for _, bl := range buildings {
		fmt.Fprintf(&b, "%-14s %-12s status=%-6s cell=(%d,%d)\n",
			bl.ID, bl.Type, bl.Status, bl.Cell.Col, bl.Cell.Row)
	}
	if len(buildings) == 0 {
		b.WriteString("(none)\n")
	}

	b.WriteString("\n== units ==\n")
	for _, u := range s.Units {
		fmt.Fprintf(&b, "%-14s %-10s status=%-11s cell=(%d,%d) waypoints=%d\n",
			u.ID, u.Profile, u.Status, u.Cell.Col, u.Cell.Row, len(u.Path)-u.PathIdx)
	}
	if len(s.Units) == 0 {
		b.WriteString("(none)\n")
	}
	return b.String()
}

// CopyToClipboard builds the report and places it on the system clipboard.
func CopyToClipboard(s *scene.Scene) error {
	return clipboard.WriteAll(Build(s))
}
