// Package scene owns the entity collection, selection state, and the
// per-frame tick. All mutation happens on the frame goroutine; the UI layer
// reaches the scene only through bridge commands.
package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/unarmedpuppy/command-grid/engine/bridge"
	"github.com/unarmedpuppy/command-grid/engine/core"
	"github.com/unarmedpuppy/command-grid/engine/grid"
	"github.com/unarmedpuppy/command-grid/engine/pathfind"
)

// StalePolicy decides what happens to a unit whose job disappeared from the
// polled snapshot. The source behavior is unspecified; the policy is
// configurable with Keep as the default.
type StalePolicy uint8

const (
	StaleKeep StalePolicy = iota
	StaleMarkError
	StaleRemove
)

// ParseStalePolicy maps a config string to a policy.
func ParseStalePolicy(s string) (StalePolicy, error) {
	switch s {
	case "", "keep":
		return StaleKeep, nil
	case "mark-error":
		return StaleMarkError, nil
	case "remove":
		return StaleRemove, nil
	}
	return StaleKeep, fmt.Errorf("unknown stale-unit policy %q", s)
}

// DefaultUnitSpeed is how fast units walk, in tiles per second.
const DefaultUnitSpeed = 3.0

// Scene is the frame-based world: units, buildings, camera-independent
// state. It is not safe for concurrent use; every method runs on the frame
// goroutine.
type Scene struct {
	Grid grid.Grid
	Bus  *bridge.Bus

	Units     []*core.Unit
	Buildings []*core.Building

	UnitSpeed  float64
	PathBudget int
	Stale      StalePolicy

	selectedUnit     *core.Unit
	selectedBuilding *core.Building

	ready         bool
	pendingRemove map[string]bool
}

// New creates an empty, not-yet-ready scene.
func New(g grid.Grid, bus *bridge.Bus) *Scene {
	return &Scene{
		Grid:          g,
		Bus:           bus,
		UnitSpeed:     DefaultUnitSpeed,
		PathBudget:    pathfind.DefaultBudget,
		pendingRemove: make(map[string]bool),
	}
}

// SetReady marks the scene ready to accept commands.
func (s *Scene) SetReady() { s.ready = true }

// Ready reports whether the scene accepts commands yet.
func (s *Scene) Ready() bool { return s.ready }

// Apply handles one bridge command. Commands arriving before readiness are
// dropped; callers gate on readiness themselves. DispatchToBuilding is
// routed at the composition root, not here.
func (s *Scene) Apply(c bridge.Command) {
	if !s.ready {
		return
	}
	switch cmd := c.(type) {
	case bridge.PlaceBuilding:
		s.PlaceBuilding(cmd.Type, cmd.Name, cmd.Cell)
	case bridge.SyncJobs:
		s.Reconcile(cmd.Jobs)
	}
}

// PlaceBuilding creates a building. This is "create", not "upsert": invoking
// it twice for the same type creates two entities. The classifier's guard is
// the only duplicate suppression.
func (s *Scene) PlaceBuilding(bt core.BuildingType, name string, cell grid.Cell) *core.Building {
	c := s.Grid.Clamp(cell.Col, cell.Row)
	b := core.NewBuilding(fmt.Sprintf("bldg-%s-%d", bt, len(s.Buildings)), bt, c, name)
	s.Buildings = append(s.Buildings, b)
	return b
}

// SpawnUnit creates a unit for a dispatched job at a cell.
func (s *Scene) SpawnUnit(id string, profile core.Profile, cell grid.Cell) *core.Unit {
	u := core.NewUnit(id, profile, s.Grid.Clamp(cell.Col, cell.Row))
	s.Units = append(s.Units, u)
	return u
}

// UnitByID returns the live unit with the given identity, or nil.
func (s *Scene) UnitByID(id string) *core.Unit {
	for _, u := range s.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// BuildingByType returns the first building of a type, or nil.
func (s *Scene) BuildingByType(bt core.BuildingType) *core.Building {
	for _, b := range s.Buildings {
		if b.Type == bt {
			return b
		}
	}
	return nil
}

// Reconcile applies a full job-list snapshot to the live units. The pass is
// stateless: it re-derives target state from the snapshot every time, so a
// dropped poll means one stale frame, never corruption. Applying the same
// snapshot twice is a no-op the second time.
func (s *Scene) Reconcile(jobs []core.Job) {
	byID := make(map[string]core.Job, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}
	// Iteration order of the live-unit collection, not the job list.
	for _, u := range s.Units {
		job, ok := byID[u.ID]
		if !ok {
			s.applyStale(u)
			continue
		}
		u.ApplyJobStatus(job.Status)
	}
}

func (s *Scene) applyStale(u *core.Unit) {
	switch s.Stale {
	case StaleKeep:
		// Left as-is.
	case StaleMarkError:
		u.SetStatus(core.UnitError)
	case StaleRemove:
		s.pendingRemove[u.ID] = true
	}
}

// BlockedCells returns every cell covered by a building footprint.
func (s *Scene) BlockedCells() map[grid.Cell]bool {
	blocked := make(map[grid.Cell]bool)
	for _, b := range s.Buildings {
		for _, c := range b.Footprint() {
			blocked[c] = true
		}
	}
	return blocked
}

// OrderMove routes a unit toward a goal cell, avoiding building footprints.
// An unreachable goal still yields a destination; the unit visibly walks
// toward the obstacle.
func (s *Scene) OrderMove(u *core.Unit, goal grid.Cell) pathfind.Route {
	route := pathfind.FindPath(u.Cell, s.Grid.Clamp(goal.Col, goal.Row), s.BlockedCells(), s.Grid, s.PathBudget)
	u.Path = route.Cells
	u.PathIdx = 0
	return route
}

// Tick advances animators and walks units along their paths. dt is seconds.
func (s *Scene) Tick(dt float64) {
	for _, u := range s.Units {
		u.Anim.Advance(dt)
		if u.Anim.Reverted {
			// Celebrate/error clips self-terminate; fold the revert
			// back into unit status.
			u.Status = core.UnitIdle
		}
		s.stepMovement(u, dt)
	}
	s.flushRemovals()
}

func (s *Scene) stepMovement(u *core.Unit, dt float64) {
	if u.PathIdx >= len(u.Path) {
		return
	}
	target := u.Path[u.PathIdx]
	tx, ty := float64(target.Col), float64(target.Row)
	dx, dy := tx-u.X, ty-u.Y
	dist := math.Hypot(dx, dy)
	step := s.UnitSpeed * dt
	if dist <= step {
		u.X, u.Y = tx, ty
		u.Cell = target
		u.PathIdx++
		if u.PathIdx >= len(u.Path) && u.Status == core.UnitWalking {
			u.SetStatus(core.UnitIdle)
		}
		return
	}
	u.X += dx / dist * step
	u.Y += dy / dist * step
}

func (s *Scene) flushRemovals() {
	if len(s.pendingRemove) == 0 {
		return
	}
	kept := s.Units[:0]
	for _, u := range s.Units {
		// Let a terminal clip finish before the unit disappears.
		if s.pendingRemove[u.ID] && u.Anim.Clip != core.UnitCelebrating && u.Anim.Clip != core.UnitError {
			delete(s.pendingRemove, u.ID)
			if s.selectedUnit == u {
				s.ClearSelection()
			}
			continue
		}
		kept = append(kept, u)
	}
	s.Units = kept
}

// DrawOrder returns units and buildings sorted by render depth, back to
// front. The depth formula is static, so this is a plain sort per frame.
// Units go in first: the depth bases put a building one cell sum further
// down-and-right at the same depth as a unit, and the stable sort must
// leave that building in front.
func (s *Scene) DrawOrder() []Renderable {
	out := make([]Renderable, 0, len(s.Units)+len(s.Buildings))
	for _, u := range s.Units {
		out = append(out, Renderable{Unit: u, depth: u.Depth()})
	}
	for _, b := range s.Buildings {
		out = append(out, Renderable{Building: b, depth: b.Depth()})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].depth < out[j].depth })
	return out
}

// Renderable is one entity in draw order; exactly one field is set.
type Renderable struct {
	Unit     *core.Unit
	Building *core.Building
	depth    int
}
