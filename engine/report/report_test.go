package report

import (
	"strings"
	"testing"

	"github.com/unarmedpuppy/command-grid/engine/bridge"
	"github.com/unarmedpuppy/command-grid/engine/core"
	"github.com/unarmedpuppy/command-grid/engine/grid"
	"github.com/unarmedpuppy/command-grid/engine/scene"
)

func TestBuild_ListsEntitiesAndSelection(t *testing.T) {
	s := scene.New(grid.New(32), bridge.NewBus())
	s.SetReady()
	s.PlaceBuilding(core.BuildingMarket, "Market", grid.Cell{Col: 5, Row: 5})
	u := s.SpawnUnit("job-1", core.ProfileGilfoyle, grid.Cell{Col: 1, Row: 1})
	s.SelectUnit(u)

	out := Build(s)
	for _, want := range []string{"units=1", "buildings=1", "selected: unit job-1", "market", "gilfoyle"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestBuild_EmptyScene(t *testing.T) {
	s := scene.New(grid.New(32), bridge.NewBus())
	out := Build(s)
	if !strings.Contains(out, "selected: none") || !strings.Contains(out, "(none)") {
		t.Fatalf("empty-scene report malformed:\n%s", out)
	}
}
