package main

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/unarmedpuppy/command-grid/engine/core"
	"github.com/unarmedpuppy/command-grid/engine/service"
)

func newTestStub(t *testing.T) (*Store, *httptest.Server) {
	t.Helper()
	store, err := openStore(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	srv := httptest.NewServer(newRouter(store, ""))
	t.Cleanup(func() {
		srv.Close()
		store.Close()
	})
	return store, srv
}

func TestDispatchThenList(t *testing.T) {
	_, srv := newTestStub(t)
	jobs := service.NewJobsClient(srv.URL)

	created, err := jobs.Dispatch(context.Background(), "fix the flaky test", core.ProfileGilfoyle)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected a generated job id")
	}
	if created.Status != core.JobPending {
		t.Fatalf("new job status = %q, want pending", created.Status)
	}

	listed, err := jobs.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("list = %+v, want the dispatched job", listed)
	}
}

func TestJobLifecycleAdvance(t *testing.T) {
	store, srv := newTestStub(t)
	jobs := service.NewJobsClient(srv.URL)

	if _, err := jobs.Dispatch(context.Background(), "build it", core.ProfileVillager); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	want := []core.JobStatus{core.JobRunning, core.JobCompleted, core.JobCompleted}
	for i, w := range want {
		if _, err := store.AdvanceJobs(context.Background()); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		listed, err := jobs.List(context.Background())
		if err != nil {
			t.Fatalf("list after advance %d: %v", i, err)
		}
		if listed[0].Status != w {
			t.Fatalf("after advance %d status = %q, want %q", i, listed[0].Status, w)
		}
	}
}

func TestTaskFilterByStatus(t *testing.T) {
	store, srv := newTestStub(t)
	tasks := service.NewTasksClient(srv.URL)

	seed := []core.Task{
		{ID: "t1", Type: "bug", Status: core.TaskOpen},
		{ID: "t2", Type: "feature", Status: core.TaskInProgress},
		{ID: "t3", Type: "docs", Status: core.TaskOpen},
	}
	for _, tk := range seed {
		if err := store.CreateTask(context.Background(), tk); err != nil {
			t.Fatalf("seed %s: %v", tk.ID, err)
		}
	}

	open, err := tasks.List(context.Background(), core.TaskOpen)
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("open tasks = %d, want 2", len(open))
	}

	all, err := tasks.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all tasks = %d, want 3", len(all))
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	_, srv := newTestStub(t)
	layouts := service.NewLayoutClient(srv.URL)

	if _, err := layouts.Get(context.Background()); err == nil {
		t.Fatalf("expected error before any layout is stored")
	}

	blob := []byte(`{"version":1,"grid_size":32,"buildings":[]}`)
	if err := layouts.Put(context.Background(), blob); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := layouts.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != string(blob) {
		t.Fatalf("layout = %s, want %s", got, blob)
	}
}

func TestAPIKeyRequired(t *testing.T) {
	store, err := openStore(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	srv := httptest.NewServer(newRouter(store, "sekrit"))
	defer srv.Close()

	jobs := service.NewJobsClient(srv.URL)
	if _, err := jobs.List(context.Background()); err == nil {
		t.Fatalf("expected unauthorized without key")
	}

	jobs.APIKey = "sekrit"
	if _, err := jobs.List(context.Background()); err != nil {
		t.Fatalf("list with key: %v", err)
	}
}
