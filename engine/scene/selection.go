package scene

import (
	"github.com/unarmedpuppy/command-grid/engine/bridge"
	"github.com/unarmedpuppy/command-grid/engine/core"
	"github.com/unarmedpuppy/command-grid/engine/grid"
)

// SelectedUnit returns the selected unit, or nil.
func (s *Scene) SelectedUnit() *core.Unit { return s.selectedUnit }

// SelectedBuilding returns the selected building, or nil.
func (s *Scene) SelectedBuilding() *core.Building { return s.selectedBuilding }

// SelectUnit selects a unit, clearing any building selection. At most one
// of the two selections is ever active.
func (s *Scene) SelectUnit(u *core.Unit) {
	s.selectedBuilding = nil
	s.selectedUnit = u
	s.Bus.Notify(bridge.UnitSelected{
		ID:      u.ID,
		Profile: u.Profile,
		Status:  u.Status,
		Cell:    u.Cell,
	})
}

// SelectBuilding selects a building, clearing any unit selection.
func (s *Scene) SelectBuilding(b *core.Building) {
	s.selectedUnit = nil
	s.selectedBuilding = b
	s.Bus.Notify(bridge.BuildingSelected{
		ID:     b.ID,
		Type:   b.Type,
		Name:   b.Name,
		Status: b.Status,
		Cell:   b.Cell,
	})
}

// ClearSelection drops both selections and notifies the UI.
func (s *Scene) ClearSelection() {
	if s.selectedUnit == nil && s.selectedBuilding == nil {
		return
	}
	s.selectedUnit = nil
	s.selectedBuilding = nil
	s.Bus.Notify(bridge.SelectionCleared{})
}

// DispatchTarget snapshots the current selection for prompt routing.
func (s *Scene) DispatchTarget() bridge.Target {
	switch {
	case s.selectedUnit != nil:
		return bridge.Target{Unit: s.selectedUnit.Profile}
	case s.selectedBuilding != nil:
		return bridge.Target{Building: s.selectedBuilding.Type}
	}
	return bridge.Target{}
}

// LeftClick hit-tests a world-space point. Units take precedence over
// buildings; among overlapping entities the one drawn frontmost wins. A
// click on an empty tile clears the selection.
func (s *Scene) LeftClick(x, y float64) {
	if u := s.unitAt(x, y); u != nil {
		s.SelectUnit(u)
		return
	}
	if b := s.buildingAt(x, y); b != nil {
		s.SelectBuilding(b)
		return
	}
	s.ClearSelection()
}

// RightClick emits the placement-menu event when the point is an empty tile.
func (s *Scene) RightClick(x, y float64) {
	if s.unitAt(x, y) != nil || s.buildingAt(x, y) != nil {
		return
	}
	s.Bus.Notify(bridge.RightClickEmpty{Cell: s.Grid.WorldToTile(x, y)})
}

func (s *Scene) unitAt(x, y float64) *core.Unit {
	var best *core.Unit
	for _, u := range s.Units {
		if !s.Grid.CellContains(u.Cell.Col, u.Cell.Row, x, y) {
			continue
		}
		if best == nil || u.Depth() > best.Depth() {
			best = u
		}
	}
	return best
}

func (s *Scene) buildingAt(x, y float64) *core.Building {
	var best *core.Building
	for _, b := range s.Buildings {
		if !s.footprintContains(b, x, y) {
			continue
		}
		if best == nil || b.Depth() > best.Depth() {
			best = b
		}
	}
	return best
}

func (s *Scene) footprintContains(b *core.Building, x, y float64) bool {
	for _, c := range b.Footprint() {
		if s.Grid.CellContains(c.Col, c.Row, x, y) {
			return true
		}
	}
	return false
}

// CellOccupied reports whether any entity sits on the cell.
func (s *Scene) CellOccupied(c grid.Cell) bool {
	for _, u := range s.Units {
		if u.Cell == c {
			return true
		}
	}
	return s.BlockedCells()[c]
}
