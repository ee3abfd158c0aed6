// Package classify groups externally-fetched tasks by building type and
// triggers one-time building placement through the bridge.
package classify

import (
	"strings"

	"github.com/unarmedpuppy/command-grid/engine/bridge"
	"github.com/unarmedpuppy/command-grid/engine/core"
	"github.com/unarmedpuppy/command-grid/engine/grid"
)

// fallback maps a task's type to a building type when the task carries no
// explicit building_type. Unmapped types land in headquarters, so every
// task classifies; there is no "unclassified" bucket.
var fallback = map[string]core.BuildingType{
	"feature":   core.BuildingHeadquarters,
	"bug":       core.BuildingFortress,
	"technical": core.BuildingBarracks,
	"docs":      core.BuildingAcademy,
	"chore":     core.BuildingMarket,
}

// HomeCells fixes where each building type is placed on first sight.
var HomeCells = map[core.BuildingType]grid.Cell{
	core.BuildingHeadquarters: {Col: 14, Row: 8},
	core.BuildingBarracks:     {Col: 8, Row: 14},
	core.BuildingMarket:       {Col: 20, Row: 14},
	core.BuildingAcademy:      {Col: 8, Row: 20},
	core.BuildingFortress:     {Col: 20, Row: 20},
}

// Normalize returns the building type for a task. Total: every task
// classifies to some type.
func Normalize(t core.Task) core.BuildingType {
	if t.BuildingType != "" {
		return t.BuildingType
	}
	if bt, ok := fallback[strings.ToLower(t.Type)]; ok {
		return bt
	}
	return core.BuildingHeadquarters
}

// Group partitions tasks by building type, preserving first-seen order of
// both the type keys and the tasks under each key.
func Group(tasks []core.Task) ([]core.BuildingType, map[core.BuildingType][]core.Task) {
	var order []core.BuildingType
	groups := make(map[core.BuildingType][]core.Task)
	for _, t := range tasks {
		bt := Normalize(t)
		if _, seen := groups[bt]; !seen {
			order = append(order, bt)
		}
		groups[bt] = append(groups[bt], t)
	}
	return order, groups
}

// SceneState is the slice of the scene the classifier needs: readiness and
// live building status updates.
type SceneState interface {
	Ready() bool
	BuildingByType(core.BuildingType) *core.Building
}

// Classifier performs idempotent one-time placement. The placed guard lives
// here, on the UI side; the scene's placement command is "create", not
// "upsert", so correctness depends on this guard being checked before
// emitting.
type Classifier struct {
	Bus    *bridge.Bus
	Scene  SceneState
	placed map[core.BuildingType]bool
}

func New(bus *bridge.Bus, sc SceneState) *Classifier {
	return &Classifier{Bus: bus, Scene: sc, placed: make(map[core.BuildingType]bool)}
}

// MarkPlaced pre-seeds the guard, e.g. from a restored layout.
func (c *Classifier) MarkPlaced(bt core.BuildingType) {
	c.placed[bt] = true
}

// Placed reports whether a type has already been placed this session.
func (c *Classifier) Placed(bt core.BuildingType) bool { return c.placed[bt] }

// Apply classifies a task snapshot, emits a placement command for each type
// seen for the first time, and toggles active/idle on already-placed
// buildings. Re-invocation for a placed type is a no-op regardless of
// task-list changes.
func (c *Classifier) Apply(tasks []core.Task) {
	if !c.Scene.Ready() {
		return
	}
	order, groups := Group(tasks)
	for _, bt := range order {
		group := groups[bt]
		if len(group) == 0 {
			continue
		}
		if !c.placed[bt] {
			c.placed[bt] = true
			c.Bus.Send(bridge.PlaceBuilding{
				Type: bt,
				Name: DisplayName(bt),
				Cell: HomeCells[bt],
			})
		}
		if b := c.Scene.BuildingByType(bt); b != nil {
			b.Status = statusFor(group)
		}
	}

	// Placed types with no tasks left in the snapshot fall back to idle;
	// activity must not outlive the work that caused it.
	for bt := range c.placed {
		if len(groups[bt]) > 0 {
			continue
		}
		if b := c.Scene.BuildingByType(bt); b != nil {
			b.Status = core.BuildingIdle
		}
	}
}

func statusFor(tasks []core.Task) core.BuildingStatus {
	for _, t := range tasks {
		if t.Status == core.TaskInProgress {
			return core.BuildingActive
		}
	}
	return core.BuildingIdle
}

// DisplayName derives the building's persistent label.
func DisplayName(bt core.BuildingType) string {
	if len(bt) == 0 {
		return ""
	}
	s := string(bt)
	return strings.ToUpper(s[:1]) + s[1:]
}
