package bridge

import (
	"context"
	"fmt"
	"testing"

	"github.com/unarmedpuppy/command-grid/engine/core"
	"github.com/unarmedpuppy/command-grid/engine/grid"
)

func TestBus_DrainPreservesSendOrder(t *testing.T) {
	bus := NewBus()
	bus.Send(PlaceBuilding{Type: core.BuildingMarket, Name: "Market", Cell: grid.Cell{Col: 1, Row: 1}})
	bus.Send(SyncJobs{Jobs: []core.Job{{ID: "j1"}}})
	bus.Send(DispatchToBuilding{Type: core.BuildingAcademy, Prompt: "hello"})

	var got []string
	bus.Drain(func(c Command) {
		switch c.(type) {
		case PlaceBuilding:
			got = append(got, "place")
		case SyncJobs:
			got = append(got, "sync")
		case DispatchToBuilding:
			got = append(got, "dispatch")
		}
	})
	want := []string{"place", "sync", "dispatch"}
	if len(got) != len(want) {
		t.Fatalf("drained %d commands, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("command %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBus_DrainClearsQueue(t *testing.T) {
	bus := NewBus()
	bus.Send(SyncJobs{})
	n := 0
	bus.Drain(func(Command) { n++ })
	bus.Drain(func(Command) { n++ })
	if n != 1 {
		t.Fatalf("command delivered %d times, want 1", n)
	}
}

func TestBus_NotifyReachesAllHandlers(t *testing.T) {
	bus := NewBus()
	var a, b Event
	bus.OnEvent(func(e Event) { a = e })
	bus.OnEvent(func(e Event) { b = e })
	bus.Notify(RightClickEmpty{Cell: grid.Cell{Col: 2, Row: 3}})
	ra, ok := a.(RightClickEmpty)
	if !ok || ra.Cell.Col != 2 || ra.Cell.Row != 3 {
		t.Fatalf("first handler got %#v", a)
	}
	if _, ok := b.(RightClickEmpty); !ok {
		t.Fatalf("second handler got %#v", b)
	}
}

type recordingService struct {
	requests []struct {
		Prompt string
		Agent  core.Profile
	}
	failAfter int // fail on request N (1-based), 0 = never
}

func (r *recordingService) Dispatch(_ context.Context, prompt string, agent core.Profile) (core.Job, error) {
	if r.failAfter > 0 && len(r.requests)+1 >= r.failAfter {
		return core.Job{}, fmt.Errorf("service unavailable")
	}
	r.requests = append(r.requests, struct {
		Prompt string
		Agent  core.Profile
	}{prompt, agent})
	return core.Job{ID: fmt.Sprintf("job-%d", len(r.requests)), Agent: agent, Status: core.JobPending}, nil
}

func TestDispatch_SelectedUnitRoutesToItsProfile(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(svc)
	jobs, err := d.Dispatch(context.Background(), Target{Unit: core.ProfileGilfoyle}, "status check", 3)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(jobs) != 1 || len(svc.requests) != 1 {
		t.Fatalf("expected exactly one dispatch, got %d jobs / %d requests", len(jobs), len(svc.requests))
	}
	if svc.requests[0].Agent != core.ProfileGilfoyle {
		t.Fatalf("agent = %s, want gilfoyle", svc.requests[0].Agent)
	}
	if svc.requests[0].Prompt != "status check" {
		t.Fatalf("prompt altered: %q", svc.requests[0].Prompt)
	}
}

func TestDispatch_SelectedBuildingUsesTable(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(svc)
	_, err := d.Dispatch(context.Background(), Target{Building: core.BuildingFortress}, "patch it", 1)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(svc.requests) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(svc.requests))
	}
	if svc.requests[0].Agent != core.ProfileDinesh {
		t.Fatalf("agent = %s, want table entry dinesh", svc.requests[0].Agent)
	}
}

func TestDispatch_NoSelectionFansOutVillagers(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(svc)
	jobs, err := d.Dispatch(context.Background(), Target{}, "gather wood", 3)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(jobs) != 3 || len(svc.requests) != 3 {
		t.Fatalf("expected 3 dispatches, got %d jobs / %d requests", len(jobs), len(svc.requests))
	}
	for i, req := range svc.requests {
		if req.Agent != core.ProfileVillager {
			t.Fatalf("request %d agent = %s, want villager", i, req.Agent)
		}
		if req.Prompt != "gather wood" {
			t.Fatalf("request %d prompt altered: %q", i, req.Prompt)
		}
	}
}

func TestDispatch_FanOutStopsOnError(t *testing.T) {
	svc := &recordingService{failAfter: 2}
	d := NewDispatcher(svc)
	jobs, err := d.Dispatch(context.Background(), Target{}, "go", 3)
	if err == nil {
		t.Fatal("expected service error")
	}
	if len(jobs) != 1 {
		t.Fatalf("jobs created before failure = %d, want 1", len(jobs))
	}
}
