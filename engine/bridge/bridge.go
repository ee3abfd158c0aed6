// Package bridge decouples the UI layer from the frame-based scene. The two
// run on different cadences and share no call stack; commands flow UI->scene
// through a drained queue, events flow scene->UI through registered
// handlers. There is no global singleton; the composition root owns the bus.
package bridge

import (
	"sync"

	"github.com/unarmedpuppy/command-grid/engine/core"
	"github.com/unarmedpuppy/command-grid/engine/grid"
)

// Command is a UI-originated intent applied by the scene on its own frame.
type Command interface{ isCommand() }

// PlaceBuilding creates a building. The scene performs no deduplication;
// the classifier's placement guard is the only duplicate suppression.
type PlaceBuilding struct {
	Type core.BuildingType
	Name string
	Cell grid.Cell
}

// SyncJobs carries a full job-list snapshot for a reconciliation pass.
type SyncJobs struct {
	Jobs []core.Job
}

// SyncTasks carries a full task-list snapshot for the classifier. Routed to
// the classifier at the composition root so classification runs on the frame
// goroutine like every other mutation.
type SyncTasks struct {
	Tasks []core.Task
}

// DispatchToBuilding routes a prompt to the profile mapped to a building
// type. Handled at the composition root, which owns the job service client.
type DispatchToBuilding struct {
	Type   core.BuildingType
	Prompt string
}

func (PlaceBuilding) isCommand()      {}
func (SyncJobs) isCommand()           {}
func (SyncTasks) isCommand()          {}
func (DispatchToBuilding) isCommand() {}

// Event is a scene-originated notification delivered to the UI layer.
type Event interface{ isEvent() }

// UnitSelected carries a snapshot of the newly selected unit.
type UnitSelected struct {
	ID      string
	Profile core.Profile
	Status  core.UnitStatus
	Cell    grid.Cell
}

// BuildingSelected carries a snapshot of the newly selected building.
type BuildingSelected struct {
	ID     string
	Type   core.BuildingType
	Name   string
	Status core.BuildingStatus
	Cell   grid.Cell
}

// SelectionCleared fires when a left-click lands on an empty tile.
type SelectionCleared struct{}

// RightClickEmpty fires when a right-click lands on an empty tile; the UI
// opens the placement menu at the cell.
type RightClickEmpty struct {
	Cell grid.Cell
}

func (UnitSelected) isEvent()     {}
func (BuildingSelected) isEvent() {}
func (SelectionCleared) isEvent() {}
func (RightClickEmpty) isEvent()  {}

// Handler receives scene events. Handlers run synchronously on the emitting
// goroutine.
type Handler func(Event)

// Bus is the command queue plus event registration. Send may be called from
// any goroutine; Drain and Notify are called from the frame goroutine.
type Bus struct {
	mu       sync.Mutex
	commands []Command
	handlers []Handler
}

func NewBus() *Bus {
	return &Bus{}
}

// Send queues a command for the next Drain.
func (b *Bus) Send(c Command) {
	b.mu.Lock()
	b.commands = append(b.commands, c)
	b.mu.Unlock()
}

// Drain hands every queued command to fn in send order, then clears the
// queue. Called once per frame by the scene owner.
func (b *Bus) Drain(fn func(Command)) {
	b.mu.Lock()
	pending := b.commands
	b.commands = nil
	b.mu.Unlock()
	for _, c := range pending {
		fn(c)
	}
}

// OnEvent registers a handler for scene events.
func (b *Bus) OnEvent(h Handler) {
	b.mu.Lock()
	b.handlers = append(b.handlers, h)
	b.mu.Unlock()
}

// Notify delivers an event to every registered handler.
func (b *Bus) Notify(e Event) {
	b.mu.Lock()
	handlers := b.handlers
	b.mu.Unlock()
	for _, h := range handlers {
		h(e)
	}
}
