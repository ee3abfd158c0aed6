package pathfind

import (
	"testing"

	"github.com/unarmedpuppy/command-grid/engine/grid"
)

func cell(c, r int) grid.Cell { return grid.Cell{Col: c, Row: r} }

func TestFindPath_StartEqualsGoal(t *testing.T) {
	g := grid.New(32)
	route := FindPath(cell(4, 4), cell(4, 4), nil, g, 0)
	if len(route.Cells) != 0 {
		t.Fatalf("expected empty route, got %v", route.Cells)
	}
	if route.Fallback {
		t.Fatal("same-cell route must not be a fallback")
	}
}

func TestFindPath_DirectEastRow(t *testing.T) {
	g := grid.New(32)
	route := FindPath(cell(0, 0), cell(3, 0), nil, g, 0)
	want := []grid.Cell{cell(0, 0), cell(1, 0), cell(2, 0), cell(3, 0)}
	if route.Fallback {
		t.Fatal("open row should not fall back")
	}
	if len(route.Cells) != len(want) {
		t.Fatalf("route length %d, want %d (%v)", len(route.Cells), len(want), route.Cells)
	}
	for i, c := range want {
		if route.Cells[i] != c {
			t.Fatalf("cell %d = %v, want %v", i, route.Cells[i], c)
		}
	}
}

func TestFindPath_UnblockedLengthIsManhattan(t *testing.T) {
	g := grid.New(32)
	cases := []struct {
		start, goal grid.Cell
	}{
		{cell(0, 0), cell(5, 0)},
		{cell(2, 3), cell(9, 11)},
		{cell(31, 31), cell(0, 0)},
		{cell(10, 10), cell(10, 25)},
	}
	for _, tc := range cases {
		route := FindPath(tc.start, tc.goal, nil, g, 0)
		if route.Fallback {
			t.Fatalf("%v->%v fell back on an empty grid", tc.start, tc.goal)
		}
		dist := abs(tc.start.Col-tc.goal.Col) + abs(tc.start.Row-tc.goal.Row)
		if len(route.Cells) != dist+1 {
			t.Fatalf("%v->%v length %d, want %d", tc.start, tc.goal, len(route.Cells), dist+1)
		}
		if route.Cells[0] != tc.start || route.Cells[len(route.Cells)-1] != tc.goal {
			t.Fatalf("%v->%v endpoints wrong: %v", tc.start, tc.goal, route.Cells)
		}
		for i := 1; i < len(route.Cells); i++ {
			a, b := route.Cells[i-1], route.Cells[i]
			if abs(a.Col-b.Col)+abs(a.Row-b.Row) != 1 {
				t.Fatalf("cells %v and %v are not 4-adjacent", a, b)
			}
		}
	}
}

func TestFindPath_RoutesAroundWall(t *testing.T) {
	g := grid.New(32)
	// Vertical wall at col 5, rows 0..9, with a gap at row 10.
	blocked := make(map[grid.Cell]bool)
	for r := 0; r < 10; r++ {
		blocked[cell(5, r)] = true
	}
	route := FindPath(cell(0, 0), cell(10, 0), blocked, g, 0)
	if route.Fallback {
		t.Fatal("wall with a gap should still be passable")
	}
	for _, c := range route.Cells {
		if blocked[c] {
			t.Fatalf("route passes through blocked cell %v", c)
		}
	}
}

func TestFindPath_EnclosedGoalFallsBack(t *testing.T) {
	g := grid.New(32)
	goal := cell(10, 10)
	blocked := map[grid.Cell]bool{
		cell(11, 10): true,
		cell(9, 10):  true,
		cell(10, 11): true,
		cell(10, 9):  true,
	}
	route := FindPath(cell(0, 0), goal, blocked, g, 0)
	if !route.Fallback {
		t.Fatal("enclosed goal must yield a fallback route")
	}
	if len(route.Cells) != 1 || route.Cells[0] != goal {
		t.Fatalf("fallback route should be exactly [goal], got %v", route.Cells)
	}
}

func TestFindPath_BudgetExhaustionFallsBack(t *testing.T) {
	g := grid.New(32)
	route := FindPath(cell(0, 0), cell(31, 31), nil, g, 3)
	if !route.Fallback {
		t.Fatal("a 3-expansion budget cannot cross the map")
	}
	if len(route.Cells) != 1 || route.Cells[0] != cell(31, 31) {
		t.Fatalf("fallback route should be [goal], got %v", route.Cells)
	}
}

func TestFindPath_Deterministic(t *testing.T) {
	g := grid.New(32)
	blocked := map[grid.Cell]bool{cell(3, 1): true, cell(4, 2): true}
	first := FindPath(cell(1, 1), cell(7, 4), blocked, g, 0)
	for i := 0; i < 5; i++ {
		again := FindPath(cell(1, 1), cell(7, 4), blocked, g, 0)
		if len(again.Cells) != len(first.Cells) {
			t.Fatalf("run %d length %d, want %d", i, len(again.Cells), len(first.Cells))
		}
		for j := range first.Cells {
			if again.Cells[j] != first.Cells[j] {
				t.Fatalf("run %d diverged at %d: %v vs %v", i, j, again.Cells[j], first.Cells[j])
			}
		}
	}
}
