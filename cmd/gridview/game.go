package main

import (
	"context"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/unarmedpuppy/command-grid/engine/bridge"
	"github.com/unarmedpuppy/command-grid/engine/classify"
	"github.com/unarmedpuppy/command-grid/engine/config"
	"github.com/unarmedpuppy/command-grid/engine/core"
	"github.com/unarmedpuppy/command-grid/engine/grid"
	"github.com/unarmedpuppy/command-grid/engine/input"
	"github.com/unarmedpuppy/command-grid/engine/layout"
	"github.com/unarmedpuppy/command-grid/engine/poll"
	"github.com/unarmedpuppy/command-grid/engine/render"
	"github.com/unarmedpuppy/command-grid/engine/report"
	"github.com/unarmedpuppy/command-grid/engine/scene"
	"github.com/unarmedpuppy/command-grid/engine/service"
)

const tickRate = 20.0

// menuTypes is the placement menu ordering; digit 1 places the first entry.
var menuTypes = []core.BuildingType{
	core.BuildingHeadquarters,
	core.BuildingBarracks,
	core.BuildingMarket,
	core.BuildingAcademy,
	core.BuildingFortress,
}

// spawnBatch carries jobs created by an async dispatch back to the frame
// goroutine, where the matching units get spawned.
type spawnBatch struct {
	jobs []core.Job
	dest grid.Cell
}

// Game is the composition root: it owns the frame goroutine and is the only
// place scene state is mutated.
type Game struct {
	cfg        *config.Config
	grid       grid.Grid
	bus        *bridge.Bus
	scene      *scene.Scene
	classifier *classify.Classifier
	dispatcher *bridge.Dispatcher
	renderer   *render.Renderer
	input      *input.State
	clock      *scene.Clock

	layouts *service.LayoutClient

	spawnCh chan spawnBatch

	ctx    context.Context
	cancel context.CancelFunc

	hoverCell  grid.Cell
	hoverValid bool

	// Placement menu, opened by right-clicking an empty tile.
	menuOpen bool
	menuCell grid.Cell

	// Prompt entry mode for dispatching work.
	typing bool
	prompt []rune

	statusLine string
}

func newGame(cfg *config.Config) *Game {
	g := grid.New(cfg.World.GridSize)
	bus := bridge.NewBus()

	sc := scene.New(g, bus)
	sc.UnitSpeed = cfg.World.UnitSpeed
	sc.PathBudget = cfg.World.PathBudget
	if p, err := scene.ParseStalePolicy(cfg.World.StalePolicy); err == nil {
		sc.Stale = p
	}

	jobs := service.NewJobsClient(cfg.Services.Jobs)
	tasks := service.NewTasksClient(cfg.Services.Tasks)
	layouts := service.NewLayoutClient(cfg.Services.Layout)
	jobs.APIKey = cfg.Services.APIKey
	tasks.APIKey = cfg.Services.APIKey
	layouts.APIKey = cfg.Services.APIKey

	ctx, cancel := context.WithCancel(context.Background())

	gm := &Game{
		cfg:        cfg,
		grid:       g,
		bus:        bus,
		scene:      sc,
		classifier: classify.New(bus, sc),
		dispatcher: bridge.NewDispatcher(jobs),
		renderer:   render.New(cfg.Screen.Width, cfg.Screen.Height, g),
		input:      input.New(),
		clock:      scene.NewClock(tickRate),
		layouts:    layouts,
		spawnCh:    make(chan spawnBatch, 8),
		ctx:        ctx,
		cancel:     cancel,
	}

	bus.OnEvent(gm.onEvent)

	gm.restoreLayout()
	sc.SetReady()

	go (&poll.JobPoller{Jobs: jobs, Bus: bus, Interval: cfg.Poll.Jobs}).Run(ctx)
	go (&poll.TaskPoller{Tasks: tasks, Bus: bus, Interval: cfg.Poll.Tasks}).Run(ctx)

	return gm
}

// restoreLayout rebuilds buildings from the layout service, falling back to
// the local snapshot. Either way the classifier guard is pre-seeded so
// restored buildings are never placed twice.
func (g *Game) restoreLayout() {
	var l layout.Layout
	blob, err := g.layouts.Get(context.Background())
	if err == nil {
		l, err = layout.DecodeJSON(blob)
	}
	if err != nil {
		log.Printf("gridview: remote layout unavailable (%v), trying snapshot", err)
		l, err = layout.LoadSnapshot(g.cfg.Snapshot.Path)
	}
	if err != nil {
		log.Printf("gridview: no saved layout, starting empty")
		return
	}
	for _, pb := range l.Buildings {
		g.scene.PlaceBuilding(pb.Type, pb.Name, pb.Cell)
		g.classifier.MarkPlaced(pb.Type)
	}
	log.Printf("gridview: restored %d buildings", len(l.Buildings))
}

// saveLayout snapshots the placed buildings locally and pushes them to the
// layout service. Both halves are best-effort.
func (g *Game) saveLayout() {
	l := layout.FromBuildings(g.grid.Size, g.scene.Buildings)
	if err := layout.SaveSnapshot(g.cfg.Snapshot.Path, l); err != nil {
		log.Printf("gridview: snapshot save failed: %v", err)
	}
	blob, err := l.EncodeJSON()
	if err == nil {
		err = g.layouts.Put(context.Background(), blob)
	}
	if err != nil {
		log.Printf("gridview: layout push failed: %v", err)
	}
}

func (g *Game) onEvent(e bridge.Event) {
	switch ev := e.(type) {
	case bridge.UnitSelected:
		g.statusLine = fmt.Sprintf("selected unit %s (%s)", ev.ID, ev.Profile)
	case bridge.BuildingSelected:
		g.statusLine = fmt.Sprintf("selected %s", ev.Name)
	case bridge.SelectionCleared:
		g.statusLine = ""
	case bridge.RightClickEmpty:
		// With a unit selected this is a move order; otherwise it opens
		// the placement menu.
		if u := g.scene.SelectedUnit(); u != nil {
			g.scene.OrderMove(u, ev.Cell)
			return
		}
		g.menuOpen = true
		g.menuCell = ev.Cell
	}
}

func (g *Game) Update() error {
	g.input.Update()

	if g.typing {
		g.updatePrompt()
	} else {
		g.updateCamera()
		g.updatePointer()
		g.updateKeys()
	}

	g.drainSpawns()
	g.bus.Drain(g.applyCommand)

	g.clock.Step(func(dt float64) {
		g.scene.Tick(dt)
	})
	g.renderer.Advance(1.0 / float64(ebiten.TPS()))

	return nil
}

// applyCommand routes drained bridge commands. Everything the scene owns
// goes straight to it; classification and dispatch are handled here so they
// too run on the frame goroutine.
func (g *Game) applyCommand(c bridge.Command) {
	switch cmd := c.(type) {
	case bridge.SyncTasks:
		g.classifier.Apply(cmd.Tasks)
	case bridge.DispatchToBuilding:
		target := bridge.Target{Building: cmd.Type}
		g.startDispatch(target, cmd.Prompt)
	default:
		g.scene.Apply(c)
	}
}

// startDispatch runs the HTTP round-trips off the frame goroutine and feeds
// created jobs back through spawnCh.
func (g *Game) startDispatch(target bridge.Target, prompt string) {
	dest := g.dispatchDest(target)
	villagers := g.cfg.Dispatch.Villagers
	go func() {
		jobs, err := g.dispatcher.Dispatch(g.ctx, target, prompt, villagers)
		if err != nil {
			log.Printf("gridview: dispatch failed: %v", err)
		}
		if len(jobs) == 0 {
			return
		}
		select {
		case g.spawnCh <- spawnBatch{jobs: jobs, dest: dest}:
		case <-g.ctx.Done():
		}
	}()
}

// dispatchDest picks where spawned units walk: toward the target building,
// or toward the headquarters for unit/fan-out dispatches.
func (g *Game) dispatchDest(target bridge.Target) grid.Cell {
	bt := target.Building
	if bt == "" {
		bt = core.BuildingHeadquarters
	}
	if b := g.scene.BuildingByType(bt); b != nil {
		return grid.Cell{Col: b.Cell.Col, Row: b.Cell.Row + 1}
	}
	return grid.Cell{Col: g.grid.Size / 2, Row: g.grid.Size / 2}
}

// drainSpawns creates a unit per dispatched job. Unit ID equals job ID, which
// is what ties the unit to later reconciliation passes.
func (g *Game) drainSpawns() {
	for {
		select {
		case batch := <-g.spawnCh:
			muster := grid.Cell{Col: g.grid.Size / 2, Row: g.grid.Size - 1}
			for i, job := range batch.jobs {
				cell := g.grid.Clamp(muster.Col+i, muster.Row)
				u := g.scene.SpawnUnit(job.ID, job.Agent, cell)
				u.ApplyJobStatus(job.Status)
				g.scene.OrderMove(u, batch.dest)
			}
			g.statusLine = fmt.Sprintf("dispatched %d job(s)", len(batch.jobs))
		default:
			return
		}
	}
}

func (g *Game) updateCamera() {
	cam := g.renderer.Camera
	speed := cam.Speed / float64(ebiten.TPS())

	dx, dy := g.input.PanVector()
	cam.Pan(dx*speed, dy*speed)

	if g.input.ScrollY != 0 {
		cam.ZoomAt(g.input.ScrollY*0.1, g.input.MouseX, g.input.MouseY)
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		cam.Pan(float64(-g.input.MouseDX), float64(-g.input.MouseDY))
	}
}

func (g *Game) updatePointer() {
	wx, wy := g.renderer.Camera.ScreenToWorld(g.input.MouseX, g.input.MouseY)
	g.hoverCell = g.grid.WorldToTile(wx, wy)
	g.hoverValid = true

	if g.input.LeftJustReleased && !g.input.Dragging {
		if g.menuOpen {
			g.menuOpen = false
			return
		}
		g.scene.LeftClick(wx, wy)
	}
	if g.input.RightJustPressed {
		g.menuOpen = false
		g.scene.RightClick(wx, wy)
	}
}

func (g *Game) updateKeys() {
	if g.input.JustPressed(ebiten.KeyEscape) {
		if g.menuOpen {
			g.menuOpen = false
		} else {
			g.scene.ClearSelection()
		}
	}

	if g.menuOpen {
		digits := []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5}
		for i, k := range digits {
			if g.input.JustPressed(k) {
				g.placeFromMenu(menuTypes[i])
				break
			}
		}
	}

	if g.input.JustPressed(ebiten.KeyEnter) {
		g.typing = true
		g.prompt = g.prompt[:0]
	}

	if g.input.JustPressed(ebiten.KeyF12) {
		if err := report.CopyToClipboard(g.scene); err != nil {
			log.Printf("gridview: clipboard copy failed: %v", err)
			g.statusLine = "report copy failed"
		} else {
			g.statusLine = "scene report copied to clipboard"
		}
	}
}

func (g *Game) placeFromMenu(bt core.BuildingType) {
	g.menuOpen = false
	if g.classifier.Placed(bt) || g.scene.BuildingByType(bt) != nil {
		g.statusLine = fmt.Sprintf("%s already placed", classify.DisplayName(bt))
		return
	}
	g.classifier.MarkPlaced(bt)
	g.bus.Send(bridge.PlaceBuilding{
		Type: bt,
		Name: classify.DisplayName(bt),
		Cell: g.menuCell,
	})
}

// updatePrompt collects typed characters until Enter dispatches them to the
// current selection target.
func (g *Game) updatePrompt() {
	for _, r := range ebiten.AppendInputChars(nil) {
		g.prompt = append(g.prompt, r)
	}
	if g.input.JustPressed(ebiten.KeyBackspace) && len(g.prompt) > 0 {
		g.prompt = g.prompt[:len(g.prompt)-1]
	}
	if g.input.JustPressed(ebiten.KeyEscape) {
		g.typing = false
		return
	}
	if g.input.JustPressed(ebiten.KeyEnter) {
		g.typing = false
		if text := string(g.prompt); text != "" {
			g.submitPrompt(text)
		}
	}
}

// submitPrompt routes a typed prompt to the current selection target. A
// selected building goes through the bus as a DispatchToBuilding command;
// unit and fan-out targets dispatch directly.
func (g *Game) submitPrompt(text string) {
	target := g.scene.DispatchTarget()
	if target.Building != "" {
		g.bus.Send(bridge.DispatchToBuilding{Type: target.Building, Prompt: text})
		return
	}
	g.startDispatch(target, text)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})
	g.renderer.Draw(screen, g.scene, g.hoverCell, g.hoverValid)
	g.drawHUD(screen)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	info := fmt.Sprintf(
		"command-grid | FPS: %.0f | units: %d buildings: %d | zoom %.1fx\n"+
			"[WASD] pan [scroll] zoom [LClick] select [RClick] move/menu [Enter] dispatch [F12] report",
		ebiten.ActualFPS(), len(g.scene.Units), len(g.scene.Buildings), g.renderer.Camera.Zoom)
	if g.hoverValid {
		info += fmt.Sprintf("\ntile: (%d, %d)", g.hoverCell.Col, g.hoverCell.Row)
	}
	if g.statusLine != "" {
		info += "\n" + g.statusLine
	}
	ebitenutil.DebugPrint(screen, info)

	if g.menuOpen {
		menu := "place building:"
		for i, bt := range menuTypes {
			menu += fmt.Sprintf("\n [%d] %s", i+1, classify.DisplayName(bt))
		}
		ebitenutil.DebugPrintAt(screen, menu, g.input.MouseX+12, g.input.MouseY)
	}

	if g.typing {
		ebitenutil.DebugPrintAt(screen, "dispatch> "+string(g.prompt)+"_",
			8, g.cfg.Screen.Height-24)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Screen.Width, g.cfg.Screen.Height
}

func runGame(cfg *config.Config) error {
	gm := newGame(cfg)
	defer gm.cancel()

	ebiten.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	ebiten.SetWindowTitle("command grid")
	err := ebiten.RunGame(gm)

	gm.saveLayout()
	if err == ebiten.Termination {
		return nil
	}
	return err
}
