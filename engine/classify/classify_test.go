package classify

import (
	"testing"

	"github.com/unarmedpuppy/command-grid/engine/bridge"
	"github.com/unarmedpuppy/command-grid/engine/core"
	"github.com/unarmedpuppy/command-grid/engine/grid"
	"github.com/unarmedpuppy/command-grid/engine/scene"
)

func TestNormalize_ExplicitTypeWins(t *testing.T) {
	task := core.Task{Type: "bug", BuildingType: core.BuildingMarket}
	if bt := Normalize(task); bt != core.BuildingMarket {
		t.Fatalf("explicit building_type should win, got %s", bt)
	}
}

func TestNormalize_FallbackTable(t *testing.T) {
	cases := []struct {
		taskType string
		want     core.BuildingType
	}{
		{"feature", core.BuildingHeadquarters},
		{"bug", core.BuildingFortress},
		{"technical", core.BuildingBarracks},
		{"docs", core.BuildingAcademy},
		{"chore", core.BuildingMarket},
		{"BUG", core.BuildingFortress},
	}
	for _, tc := range cases {
		if got := Normalize(core.Task{Type: tc.taskType}); got != tc.want {
			t.Fatalf("Normalize(%s) = %s, want %s", tc.taskType, got, tc.want)
		}
	}
}

func TestNormalize_UnmappedDefaultsToHeadquarters(t *testing.T) {
	for _, typ := range []string{"mystery", "", "spike"} {
		if got := Normalize(core.Task{Type: typ}); got != core.BuildingHeadquarters {
			t.Fatalf("Normalize(%q) = %s, want headquarters", typ, got)
		}
	}
}

func TestGroup_FirstSeenOrder(t *testing.T) {
	tasks := []core.Task{
		{ID: "t1", Type: "docs"},
		{ID: "t2", Type: "bug"},
		{ID: "t3", Type: "docs"},
		{ID: "t4", Type: "feature"},
	}
	order, groups := Group(tasks)
	want := []core.BuildingType{core.BuildingAcademy, core.BuildingFortress, core.BuildingHeadquarters}
	if len(order) != len(want) {
		t.Fatalf("order %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
	academy := groups[core.BuildingAcademy]
	if len(academy) != 2 || academy[0].ID != "t1" || academy[1].ID != "t3" {
		t.Fatalf("academy group order wrong: %v", academy)
	}
}

func newHarness() (*Classifier, *scene.Scene, *bridge.Bus) {
	bus := bridge.NewBus()
	sc := scene.New(grid.New(32), bus)
	sc.SetReady()
	return New(bus, sc), sc, bus
}

func drainInto(bus *bridge.Bus, sc *scene.Scene) {
	bus.Drain(sc.Apply)
}

func TestApply_PlacesOncePerType(t *testing.T) {
	cls, sc, bus := newHarness()
	tasks := []core.Task{{ID: "t1", Type: "bug", Status: core.TaskOpen}}

	cls.Apply(tasks)
	drainInto(bus, sc)
	cls.Apply(tasks)
	drainInto(bus, sc)

	count := 0
	for _, b := range sc.Buildings {
		if b.Type == core.BuildingFortress {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("fortress placed %d times, want exactly 1", count)
	}
}

func TestApply_PlacementSurvivesTaskListChanges(t *testing.T) {
	cls, sc, bus := newHarness()
	cls.Apply([]core.Task{{ID: "t1", Type: "chore", Status: core.TaskOpen}})
	drainInto(bus, sc)
	cls.Apply([]core.Task{
		{ID: "t1", Type: "chore", Status: core.TaskOpen},
		{ID: "t2", Type: "chore", Status: core.TaskOpen},
	})
	drainInto(bus, sc)
	count := 0
	for _, b := range sc.Buildings {
		if b.Type == core.BuildingMarket {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("market placed %d times, want 1", count)
	}
}

func TestApply_GatesOnSceneReadiness(t *testing.T) {
	bus := bridge.NewBus()
	sc := scene.New(grid.New(32), bus)
	cls := New(bus, sc)
	cls.Apply([]core.Task{{ID: "t1", Type: "bug", Status: core.TaskOpen}})
	if cls.Placed(core.BuildingFortress) {
		t.Fatal("classifier must not place before the scene is ready")
	}
	sc.SetReady()
	cls.Apply([]core.Task{{ID: "t1", Type: "bug", Status: core.TaskOpen}})
	if !cls.Placed(core.BuildingFortress) {
		t.Fatal("classifier should place once the scene is ready")
	}
}

func TestApply_TogglesActiveOnInProgress(t *testing.T) {
	cls, sc, bus := newHarness()
	open := []core.Task{{ID: "t1", Type: "docs", Status: core.TaskOpen}}
	cls.Apply(open)
	drainInto(bus, sc)

	b := sc.BuildingByType(core.BuildingAcademy)
	if b == nil {
		t.Fatal("academy should exist")
	}
	if b.Status != core.BuildingIdle {
		t.Fatalf("status %v, want idle", b.Status)
	}

	cls.Apply([]core.Task{{ID: "t1", Type: "docs", Status: core.TaskInProgress}})
	if b.Status != core.BuildingActive {
		t.Fatalf("status %v, want active", b.Status)
	}

	cls.Apply([]core.Task{{ID: "t1", Type: "docs", Status: core.TaskClosed}})
	if b.Status != core.BuildingIdle {
		t.Fatalf("status %v, want idle after close", b.Status)
	}
}

func TestApply_IdlesBuildingWhenTasksVanish(t *testing.T) {
	cls, sc, bus := newHarness()
	cls.Apply([]core.Task{{ID: "t1", Type: "docs", Status: core.TaskInProgress}})
	drainInto(bus, sc)

	b := sc.BuildingByType(core.BuildingAcademy)
	if b == nil {
		t.Fatal("academy should exist")
	}
	cls.Apply([]core.Task{{ID: "t1", Type: "docs", Status: core.TaskInProgress}})
	if b.Status != core.BuildingActive {
		t.Fatalf("status %v, want active", b.Status)
	}

	// The task drops out of the snapshot entirely; activity must not
	// outlive it.
	cls.Apply(nil)
	if b.Status != core.BuildingIdle {
		t.Fatalf("status %v, want idle after tasks vanish", b.Status)
	}

	cls.Apply([]core.Task{{ID: "t2", Type: "bug", Status: core.TaskOpen}})
	if b.Status != core.BuildingIdle {
		t.Fatal("a snapshot without academy tasks must leave it idle")
	}
}

func TestMarkPlaced_PreseedsGuard(t *testing.T) {
	cls, sc, bus := newHarness()
	cls.MarkPlaced(core.BuildingBarracks)
	cls.Apply([]core.Task{{ID: "t1", Type: "technical", Status: core.TaskOpen}})
	drainInto(bus, sc)
	if len(sc.Buildings) != 0 {
		t.Fatal("pre-seeded type should not be placed again")
	}
}
